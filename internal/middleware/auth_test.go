package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/GrabRush/grabrush-app/pkg/config"
	"github.com/GrabRush/grabrush-app/pkg/jwtutil"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authContext(header string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRequireVendor(t *testing.T) {
	jwtutil.Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationTime: time.Hour})

	vendorToken, err := jwtutil.GenerateToken("bakery@example.com", 7, "Corner Bakery", jwtutil.RoleVendor)
	require.NoError(t, err)
	customerToken, err := jwtutil.GenerateToken("ada@example.com", 3, "Ada", jwtutil.RoleCustomer)
	require.NoError(t, err)

	next := func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}

	t.Run("missing header", func(t *testing.T) {
		c, rec := authContext("")
		require.NoError(t, RequireVendor(next)(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("not a bearer token", func(t *testing.T) {
		c, rec := authContext("Basic abc123")
		require.NoError(t, RequireVendor(next)(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		c, rec := authContext("Bearer not.a.token")
		require.NoError(t, RequireVendor(next)(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong role", func(t *testing.T) {
		c, rec := authContext("Bearer " + customerToken)
		require.NoError(t, RequireVendor(next)(c))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("vendor token passes", func(t *testing.T) {
		c, rec := authContext("Bearer " + vendorToken)
		require.NoError(t, RequireVendor(next)(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		vendorID, ok := GetVendorIDFromContext(c)
		require.True(t, ok)
		assert.Equal(t, uint(7), vendorID)
	})
}

func TestRequireCustomer(t *testing.T) {
	jwtutil.Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationTime: time.Hour})

	customerToken, err := jwtutil.GenerateToken("ada@example.com", 3, "Ada", jwtutil.RoleCustomer)
	require.NoError(t, err)

	next := func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}

	c, rec := authContext("Bearer " + customerToken)
	require.NoError(t, RequireCustomer(next)(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	userID, ok := GetUserIDFromContext(c)
	require.True(t, ok)
	assert.Equal(t, uint(3), userID)
}
