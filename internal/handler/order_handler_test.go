package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/GrabRush/grabrush-app/internal/model"
	"github.com/GrabRush/grabrush-app/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedOrder(t *testing.T, vendorID uint, productID *uint, price float64, status string) model.Order {
	t.Helper()
	order := model.Order{
		VendorID:  vendorID,
		ProductID: productID,
		OrderType: model.OrderTypeProduct,
		Price:     price,
		Status:    status,
	}
	require.NoError(t, database.GetDB().Create(&order).Error)
	return order
}

func TestListOrders(t *testing.T) {
	e := setupTest(t)
	vendor := seedVendor(t, "Corner Bakery", "bakery@example.com")
	other := seedVendor(t, "Deli Next Door", "deli@example.com")
	bagel := seedProduct(t, vendor.ID, "Bagel", 3.50)

	for i := 0; i < 3; i++ {
		seedOrder(t, vendor.ID, &bagel.ID, 3.50, model.OrderStatusInProgress)
	}
	seedOrder(t, other.ID, nil, 9.00, model.OrderStatusInProgress)

	c, rec := newJSONContext(e, http.MethodGet, "/api/vendor/orders", "")
	c.Set("vendor_id", vendor.ID)
	require.NoError(t, ListOrders(c))

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].([]interface{})
	require.Len(t, data, 3)
	assert.Equal(t, "Bagel", data[0].(map[string]interface{})["item_title"])
}

func TestListOrdersLimit(t *testing.T) {
	e := setupTest(t)
	vendor := seedVendor(t, "Corner Bakery", "bakery@example.com")
	for i := 0; i < 25; i++ {
		seedOrder(t, vendor.ID, nil, 3.50, model.OrderStatusInProgress)
	}

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"default", "", 20},
		{"explicit", "?limit=5", 5},
		{"unparsable falls back", "?limit=lots", 20},
		{"zero falls back", "?limit=0", 20},
		{"above cap falls back", "?limit=500", 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newJSONContext(e, http.MethodGet, "/api/vendor/orders"+tt.query, "")
			c.Set("vendor_id", vendor.ID)
			require.NoError(t, ListOrders(c))

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Len(t, decodeBody(t, rec)["data"].([]interface{}), tt.want)
		})
	}
}

func TestListOrdersResolvesBoxNames(t *testing.T) {
	e := setupTest(t)
	vendor := seedVendor(t, "Corner Bakery", "bakery@example.com")
	bagel := seedProduct(t, vendor.ID, "Bagel", 3.50)

	body := fmt.Sprintf(`{"title":"Morning Surprise","price":5.00,"product_ids":[%d]}`, bagel.ID)
	c, _ := newJSONContext(e, http.MethodPost, "/api/vendor/mystery-boxes", body)
	c.Set("vendor_id", vendor.ID)
	require.NoError(t, CreateMysteryBox(c))

	var box model.MysteryBox
	require.NoError(t, database.GetDB().First(&box).Error)
	order := model.Order{
		VendorID:     vendor.ID,
		MysteryBoxID: &box.ID,
		OrderType:    model.OrderTypeMysteryBox,
		Price:        5.00,
	}
	require.NoError(t, database.GetDB().Create(&order).Error)

	c, rec := newJSONContext(e, http.MethodGet, "/api/vendor/orders", "")
	c.Set("vendor_id", vendor.ID)
	require.NoError(t, ListOrders(c))

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].([]interface{})
	require.Len(t, data, 1)
	row := data[0].(map[string]interface{})
	assert.Equal(t, "Morning Surprise", row["item_title"])
	assert.Contains(t, row["mystery_box_product_names"], "Bagel")
}

func TestUpdateOrderStatus(t *testing.T) {
	e := setupTest(t)
	vendor := seedVendor(t, "Corner Bakery", "bakery@example.com")
	order := seedOrder(t, vendor.ID, nil, 3.50, model.OrderStatusInProgress)

	setStatus := func(status string) (*model.Order, int) {
		c, rec := newJSONContext(e, http.MethodPut, "/", fmt.Sprintf(`{"status":%q}`, status))
		c.SetPath("/api/vendor/orders/:id/status")
		c.SetParamNames("id")
		c.SetParamValues(fmt.Sprint(order.ID))
		c.Set("vendor_id", vendor.ID)
		require.NoError(t, UpdateOrderStatus(c))

		var current model.Order
		require.NoError(t, database.GetDB().First(&current, order.ID).Error)
		return &current, rec.Code
	}

	current, code := setStatus(model.OrderStatusReady)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, model.OrderStatusReady, current.Status)

	// Same value again is accepted
	current, code = setStatus(model.OrderStatusReady)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, model.OrderStatusReady, current.Status)

	// Backwards movement is allowed
	current, code = setStatus(model.OrderStatusInProgress)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, model.OrderStatusInProgress, current.Status)
}

func TestUpdateOrderStatusRejectsUnknownValue(t *testing.T) {
	e := setupTest(t)
	vendor := seedVendor(t, "Corner Bakery", "bakery@example.com")
	order := seedOrder(t, vendor.ID, nil, 3.50, model.OrderStatusInProgress)

	c, rec := newJSONContext(e, http.MethodPut, "/", `{"status":"shipped"}`)
	c.SetPath("/api/vendor/orders/:id/status")
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(order.ID))
	c.Set("vendor_id", vendor.ID)
	require.NoError(t, UpdateOrderStatus(c))

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var unchanged model.Order
	require.NoError(t, database.GetDB().First(&unchanged, order.ID).Error)
	assert.Equal(t, model.OrderStatusInProgress, unchanged.Status)
}

func TestUpdateOrderStatusOwnership(t *testing.T) {
	e := setupTest(t)
	owner := seedVendor(t, "Corner Bakery", "bakery@example.com")
	other := seedVendor(t, "Deli Next Door", "deli@example.com")
	order := seedOrder(t, owner.ID, nil, 3.50, model.OrderStatusInProgress)

	c, rec := newJSONContext(e, http.MethodPut, "/", `{"status":"completed"}`)
	c.SetPath("/api/vendor/orders/:id/status")
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(order.ID))
	c.Set("vendor_id", other.ID)
	require.NoError(t, UpdateOrderStatus(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDashboardMetrics(t *testing.T) {
	e := setupTest(t)
	vendor := seedVendor(t, "Corner Bakery", "bakery@example.com")
	seedOrder(t, vendor.ID, nil, 3.50, model.OrderStatusInProgress)
	seedOrder(t, vendor.ID, nil, 3.50, model.OrderStatusReady)
	seedOrder(t, vendor.ID, nil, 3.50, model.OrderStatusReady)
	seedOrder(t, vendor.ID, nil, 3.50, model.OrderStatusCompleted)

	c, rec := newJSONContext(e, http.MethodGet, "/api/vendor/dashboard/metrics", "")
	c.Set("vendor_id", vendor.ID)
	require.NoError(t, DashboardMetrics(c))

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, float64(4), data["todaysOrders"])
	assert.Equal(t, float64(2), data["readyOrders"])
	assert.Equal(t, float64(1), data["completedOrders"])
}

func TestAccountSummary(t *testing.T) {
	e := setupTest(t)
	vendor := seedVendor(t, "Corner Bakery", "bakery@example.com")
	seedOrder(t, vendor.ID, nil, 3.50, model.OrderStatusInProgress)
	seedOrder(t, vendor.ID, nil, 6.50, model.OrderStatusCompleted)

	c, rec := newJSONContext(e, http.MethodGet, "/api/vendor/account/summary", "")
	c.Set("vendor_id", vendor.ID)
	require.NoError(t, AccountSummary(c))

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "Corner Bakery", data["vendor"].(map[string]interface{})["business_name"])

	stats := data["stats"].(map[string]interface{})
	assert.Equal(t, float64(2), stats["totalOrders"])
	assert.Equal(t, float64(10), stats["monthlyEarnings"])
	assert.Equal(t, float64(1), stats["pendingOrders"])
}
