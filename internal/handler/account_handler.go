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
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// AccountSummary returns the vendor's profile together with order stats:
// lifetime order count, earnings for the current month, and pending
// (in-progress) order count.
func AccountSummary(c echo.Context) error {
	log := logger.FromContext(c)
	vendorID, _ := middleware.GetVendorIDFromContext(c)

	var vendor model.Vendor
	result := database.GetDB().First(&vendor, vendorID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "Vendor not found"})
		}
		log.Error("Failed to load vendor", zap.Uint("vendor_id", vendorID), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to load account summary"})
	}

	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var totalOrders, pendingOrders int64
	var monthlyEarnings float64
	defer prometheus.TrackDBOperation("query")(time.Now())

	g, _ := errgroup.WithContext(c.Request().Context())
	g.Go(func() error {
		return database.GetDB().Model(&model.Order{}).
			Where("vendor_id = ?", vendorID).
			Count(&totalOrders).Error
	})
	g.Go(func() error {
		return database.GetDB().Model(&model.Order{}).
			Select("COALESCE(SUM(price), 0)").
			Where("vendor_id = ? AND created_at >= ?", vendorID, startOfMonth).
			Scan(&monthlyEarnings).Error
	})
	g.Go(func() error {
		return database.GetDB().Model(&model.Order{}).
			Where("vendor_id = ? AND status = ?", vendorID, model.OrderStatusInProgress).
			Count(&pendingOrders).Error
	})
	if err := g.Wait(); err != nil {
		log.Error("Failed to compute account stats",
			zap.Uint("vendor_id", vendorID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to compute stats"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{
		"vendor": vendor,
		"stats": echo.Map{
			"totalOrders":     totalOrders,
			"monthlyEarnings": monthlyEarnings,
			"pendingOrders":   pendingOrders,
		},
	}})
}
