package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/GrabRush/grabrush-app/internal/middleware"
	"github.com/GrabRush/grabrush-app/internal/model"
	"github.com/GrabRush/grabrush-app/pkg/database"
	"github.com/GrabRush/grabrush-app/pkg/logger"
	"github.com/GrabRush/grabrush-app/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProductRequest defines the structure for product creation requests
type ProductRequest struct {
	Name            string   `json:"name" validate:"required,min=2"`
	Description     string   `json:"description"`
	Category        string   `json:"category"`
	ImageURL        string   `json:"image_url"`
	Quantity        *int     `json:"quantity" validate:"omitempty,gte=0"`
	Price           float64  `json:"price" validate:"required,gt=0"`
	Discount        *float64 `json:"discount" validate:"omitempty,gte=0"`
	IsPremium       bool     `json:"is_premium"`
	PickupStartTime *string  `json:"pickup_start_time" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	PickupEndTime   *string  `json:"pickup_end_time" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	EnableToday     bool     `json:"enable_today"`
}

// ProductPatchRequest carries a partial update; only supplied fields are written
type ProductPatchRequest struct {
	Name            *string  `json:"name" validate:"omitempty,min=2"`
	Description     *string  `json:"description"`
	Category        *string  `json:"category"`
	ImageURL        *string  `json:"image_url"`
	Quantity        *int     `json:"quantity" validate:"omitempty,gte=0"`
	Price           *float64 `json:"price" validate:"omitempty,gt=0"`
	Discount        *float64 `json:"discount" validate:"omitempty,gte=0"`
	IsPremium       *bool    `json:"is_premium"`
	PickupStartTime *string  `json:"pickup_start_time" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	PickupEndTime   *string  `json:"pickup_end_time" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	EnableToday     *bool    `json:"enable_today"`
}

// CreateProduct handles creating a new product for the calling vendor
func CreateProduct(c echo.Context) error {
	log := logger.FromContext(c)
	vendorID, _ := middleware.GetVendorIDFromContext(c)

	var req ProductRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	product := model.Product{
		VendorID:        vendorID,
		ImageURL:        req.ImageURL,
		Name:            req.Name,
		Description:     req.Description,
		Category:        req.Category,
		Price:           req.Price,
		IsPremium:       req.IsPremium,
		PickupStartTime: parseTimePtr(req.PickupStartTime),
		PickupEndTime:   parseTimePtr(req.PickupEndTime),
		EnableToday:     req.EnableToday,
	}
	if req.Quantity != nil {
		product.Quantity = *req.Quantity
	}
	if req.Discount != nil {
		product.Discount = *req.Discount
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&product); result.Error != nil {
		log.Error("Failed to create product",
			zap.String("name", req.Name),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to create product"})
	}

	prometheus.RecordProductOperation("create")
	log.Info("Product created",
		zap.Uint("product_id", product.ID),
		zap.Uint("vendor_id", vendorID),
		zap.String("name", product.Name))
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": product})
}

// UpdateProduct applies a partial patch to one of the vendor's own products
func UpdateProduct(c echo.Context) error {
	log := logger.FromContext(c)
	vendorID, _ := middleware.GetVendorIDFromContext(c)
	id := c.Param("id")

	var req ProductPatchRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	// Ownership scoping: a foreign product is indistinguishable from a
	// missing one
	var product model.Product
	result := database.GetDB().Where("id = ? AND vendor_id = ?", id, vendorID).First(&product)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "Product not found"})
		}
		log.Error("Failed to load product for update", zap.String("product_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to update product"})
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.Quantity != nil {
		updates["quantity"] = *req.Quantity
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Discount != nil {
		updates["discount"] = *req.Discount
	}
	if req.IsPremium != nil {
		updates["is_premium"] = *req.IsPremium
	}
	if req.PickupStartTime != nil {
		updates["pickup_start_time"] = parseTimePtr(req.PickupStartTime)
	}
	if req.PickupEndTime != nil {
		updates["pickup_end_time"] = parseTimePtr(req.PickupEndTime)
	}
	if req.EnableToday != nil {
		updates["enable_today"] = *req.EnableToday
	}

	if len(updates) == 0 {
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": product})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Model(&product).Updates(updates); result.Error != nil {
		log.Error("Failed to update product", zap.String("product_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to update product"})
	}

	prometheus.RecordProductOperation("update")
	log.Info("Product updated",
		zap.Uint("product_id", product.ID),
		zap.Uint("vendor_id", vendorID))
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": product})
}

// DeleteProduct removes one of the vendor's own products
func DeleteProduct(c echo.Context) error {
	log := logger.FromContext(c)
	vendorID, _ := middleware.GetVendorIDFromContext(c)
	id := c.Param("id")

	defer prometheus.TrackDBOperation("delete")(time.Now())
	result := database.GetDB().Where("id = ? AND vendor_id = ?", id, vendorID).Delete(&model.Product{})
	if result.Error != nil {
		log.Error("Failed to delete product", zap.String("product_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to delete product"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "Product not found"})
	}

	prometheus.RecordProductOperation("delete")
	log.Info("Product deleted",
		zap.String("product_id", id),
		zap.Uint("vendor_id", vendorID))
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"id": id, "deleted": true}})
}

// ListProducts returns the vendor's own products, newest first
func ListProducts(c echo.Context) error {
	log := logger.FromContext(c)
	vendorID, _ := middleware.GetVendorIDFromContext(c)

	var products []model.Product
	defer prometheus.TrackDBOperation("query")(time.Now())
	result := database.GetDB().
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		Find(&products)
	if result.Error != nil {
		log.Error("Failed to list products", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to list products"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": products})
}
