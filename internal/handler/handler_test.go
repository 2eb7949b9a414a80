package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/GrabRush/grabrush-app/internal/model"
	"github.com/GrabRush/grabrush-app/pkg/config"
	"github.com/GrabRush/grabrush-app/pkg/database"
	"github.com/GrabRush/grabrush-app/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var metricsOnce sync.Once

// setupTest gives each test a fresh in-memory database with foreign
// keys enforced. A single connection keeps the shared-cache memory
// database alive for the test's lifetime.
func setupTest(t *testing.T) *echo.Echo {
	t.Helper()

	metricsOnce.Do(func() {
		cfg, err := config.Load()
		require.NoError(t, err)
		prometheus.InitMetrics(cfg)
	})

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	database.SetDB(db)

	return echo.New()
}

func newJSONContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func seedVendor(t *testing.T, businessName, email string) model.Vendor {
	t.Helper()
	vendor := model.Vendor{
		BusinessName: businessName,
		Email:        email,
		Password:     "hashed",
		Location:     "Market Street 1",
	}
	require.NoError(t, database.GetDB().Create(&vendor).Error)
	return vendor
}

func seedUser(t *testing.T, name, email string) model.User {
	t.Helper()
	user := model.User{
		Name:     name,
		Email:    email,
		Password: "hashed",
	}
	require.NoError(t, database.GetDB().Create(&user).Error)
	return user
}

func seedProduct(t *testing.T, vendorID uint, name string, price float64) model.Product {
	t.Helper()
	product := model.Product{
		VendorID: vendorID,
		Name:     name,
		Price:    price,
		Quantity: 10,
	}
	require.NoError(t, database.GetDB().Create(&product).Error)
	return product
}
