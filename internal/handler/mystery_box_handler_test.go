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

func TestCreateMysteryBox(t *testing.T) {
	e := setupTest(t)
	vendor := seedVendor(t, "Corner Bakery", "bakery@example.com")
	bagel := seedProduct(t, vendor.ID, "Bagel", 3.50)

	body := fmt.Sprintf(`{"title":"Morning Surprise","price":5.00,"product_ids":[{"id":%d,"quantity":2}]}`, bagel.ID)
	c, rec := newJSONContext(e, http.MethodPost, "/api/vendor/mystery-boxes", body)
	c.Set("vendor_id", vendor.ID)
	require.NoError(t, CreateMysteryBox(c))

	require.Equal(t, http.StatusCreated, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "Morning Surprise", data["title"])
	assert.Equal(t, float64(1), data["item_count"])
	assert.Contains(t, data["product_names"], "Bagel")

	var item model.MysteryBoxItem
	require.NoError(t, database.GetDB().Where("product_id = ?", bagel.ID).First(&item).Error)
	assert.Equal(t, 2, item.Quantity)
}

func TestCreateMysteryBoxBareProductIDs(t *testing.T) {
	e := setupTest(t)
	vendor := seedVendor(t, "Corner Bakery", "bakery@example.com")
	bagel := seedProduct(t, vendor.ID, "Bagel", 3.50)
	croissant := seedProduct(t, vendor.ID, "Croissant", 2.80)

	body := fmt.Sprintf(`{"price":6.00,"product_ids":[%d,%d]}`, bagel.ID, croissant.ID)
	c, rec := newJSONContext(e, http.MethodPost, "/api/vendor/mystery-boxes", body)
	c.Set("vendor_id", vendor.ID)
	require.NoError(t, CreateMysteryBox(c))

	require.Equal(t, http.StatusCreated, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["item_count"])

	// Bare IDs default to quantity 1
	var items []model.MysteryBoxItem
	require.NoError(t, database.GetDB().Find(&items).Error)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, 1, item.Quantity)
	}
}

func TestCreateMysteryBoxEmptyItems(t *testing.T) {
	e := setupTest(t)
	vendor := seedVendor(t, "Corner Bakery", "bakery@example.com")

	c, rec := newJSONContext(e, http.MethodPost, "/api/vendor/mystery-boxes", `{"price":5.00,"product_ids":[]}`)
	c.Set("vendor_id", vendor.ID)
	require.NoError(t, CreateMysteryBox(c))

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var count int64
	database.GetDB().Model(&model.MysteryBox{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCreateMysteryBoxRollsBackOnBadItem(t *testing.T) {
	e := setupTest(t)
	vendor := seedVendor(t, "Corner Bakery", "bakery@example.com")
	bagel := seedProduct(t, vendor.ID, "Bagel", 3.50)

	// Second item violates the product foreign key; the box insert must
	// not survive the failed item insert
	body := fmt.Sprintf(`{"price":5.00,"product_ids":[%d,99999]}`, bagel.ID)
	c, rec := newJSONContext(e, http.MethodPost, "/api/vendor/mystery-boxes", body)
	c.Set("vendor_id", vendor.ID)
	require.NoError(t, CreateMysteryBox(c))

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var boxes, items int64
	database.GetDB().Model(&model.MysteryBox{}).Count(&boxes)
	database.GetDB().Model(&model.MysteryBoxItem{}).Count(&items)
	assert.Equal(t, int64(0), boxes)
	assert.Equal(t, int64(0), items)
}

func TestListMysteryBoxes(t *testing.T) {
	e := setupTest(t)
	vendor := seedVendor(t, "Corner Bakery", "bakery@example.com")
	bagel := seedProduct(t, vendor.ID, "Bagel", 3.50)
	croissant := seedProduct(t, vendor.ID, "Croissant", 2.80)

	body := fmt.Sprintf(`{"price":6.00,"product_ids":[%d,%d]}`, bagel.ID, croissant.ID)
	c, _ := newJSONContext(e, http.MethodPost, "/api/vendor/mystery-boxes", body)
	c.Set("vendor_id", vendor.ID)
	require.NoError(t, CreateMysteryBox(c))

	c, rec := newJSONContext(e, http.MethodGet, "/api/vendor/mystery-boxes", "")
	c.Set("vendor_id", vendor.ID)
	require.NoError(t, ListMysteryBoxes(c))

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, float64(2), data[0].(map[string]interface{})["item_count"])
}
