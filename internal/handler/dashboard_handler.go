package handler

import (
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
)

// DashboardMetrics computes today's, ready, and completed order counts
// concurrently. If any count fails the whole response fails; partial
// metrics are never returned.
func DashboardMetrics(c echo.Context) error {
	log := logger.FromContext(c)
	vendorID, _ := middleware.GetVendorIDFromContext(c)

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var todays, ready, completed int64
	defer prometheus.TrackDBOperation("query")(time.Now())

	g, _ := errgroup.WithContext(c.Request().Context())
	g.Go(func() error {
		return database.GetDB().Model(&model.Order{}).
			Where("vendor_id = ? AND created_at >= ?", vendorID, startOfDay).
			Count(&todays).Error
	})
	g.Go(func() error {
		return database.GetDB().Model(&model.Order{}).
			Where("vendor_id = ? AND status = ?", vendorID, model.OrderStatusReady).
			Count(&ready).Error
	})
	g.Go(func() error {
		return database.GetDB().Model(&model.Order{}).
			Where("vendor_id = ? AND status = ?", vendorID, model.OrderStatusCompleted).
			Count(&completed).Error
	})
	if err := g.Wait(); err != nil {
		log.Error("Failed to compute dashboard metrics",
			zap.Uint("vendor_id", vendorID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to compute metrics"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{
		"todaysOrders":    todays,
		"readyOrders":     ready,
		"completedOrders": completed,
	}})
}
