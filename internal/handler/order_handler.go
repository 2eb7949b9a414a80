package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
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

const (
	defaultOrderLimit = 20
	maxOrderLimit     = 200
)

// orderRow is one row of the vendor's recent-orders view
type orderRow struct {
	model.Order
	ItemTitle              string  `json:"item_title"`
	MysteryBoxProductNames *string `json:"mystery_box_product_names"`
}

// ListOrders returns the vendor's most recent orders with resolved item
// titles. The limit defaults to 20 and is capped at 200; anything
// unparsable falls back to the default.
func ListOrders(c echo.Context) error {
	log := logger.FromContext(c)
	vendorID, _ := middleware.GetVendorIDFromContext(c)

	limit := defaultOrderLimit
	if raw := c.QueryParam("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= maxOrderLimit {
			limit = n
		}
	}

	var orders []model.Order
	defer prometheus.TrackDBOperation("query")(time.Now())
	result := database.GetDB().
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		Limit(limit).
		Find(&orders)
	if result.Error != nil {
		log.Error("Failed to list orders", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to list orders"})
	}

	rows, err := resolveOrderRows(orders)
	if err != nil {
		log.Error("Failed to resolve order items", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to list orders"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": rows})
}

// resolveOrderRows attaches item titles and, for mystery box orders,
// the distinct member product names.
func resolveOrderRows(orders []model.Order) ([]orderRow, error) {
	productIDs := make([]uint, 0, len(orders))
	boxIDs := make([]uint, 0, len(orders))
	for _, o := range orders {
		if o.OrderType == model.OrderTypeMysteryBox && o.MysteryBoxID != nil {
			boxIDs = append(boxIDs, *o.MysteryBoxID)
		} else if o.ProductID != nil {
			productIDs = append(productIDs, *o.ProductID)
		}
	}

	productNames := map[uint]string{}
	if len(productIDs) > 0 {
		var products []model.Product
		if err := database.GetDB().Select("id, name").Where("id IN ?", productIDs).Find(&products).Error; err != nil {
			return nil, err
		}
		for _, p := range products {
			productNames[p.ID] = p.Name
		}
	}

	boxTitles := map[uint]string{}
	boxMembers := map[uint][]string{}
	if len(boxIDs) > 0 {
		var boxes []model.MysteryBox
		if err := database.GetDB().Select("id, title").Where("id IN ?", boxIDs).Find(&boxes).Error; err != nil {
			return nil, err
		}
		for _, b := range boxes {
			if b.Title != nil {
				boxTitles[b.ID] = *b.Title
			}
		}

		var members []struct {
			MysteryBoxID uint
			Name         string
		}
		err := database.GetDB().Table("mystery_box_items").
			Select("DISTINCT mystery_box_items.mystery_box_id, products.name").
			Joins("JOIN products ON products.id = mystery_box_items.product_id").
			Where("mystery_box_items.mystery_box_id IN ?", boxIDs).
			Scan(&members).Error
		if err != nil {
			return nil, err
		}
		for _, m := range members {
			boxMembers[m.MysteryBoxID] = append(boxMembers[m.MysteryBoxID], m.Name)
		}
	}

	rows := make([]orderRow, 0, len(orders))
	for _, o := range orders {
		row := orderRow{Order: o}
		if o.OrderType == model.OrderTypeMysteryBox {
			if o.MysteryBoxID != nil {
				row.ItemTitle = boxTitles[*o.MysteryBoxID]
				if names := boxMembers[*o.MysteryBoxID]; len(names) > 0 {
					joined := strings.Join(names, ", ")
					row.MysteryBoxProductNames = &joined
				}
			}
		} else if o.ProductID != nil {
			row.ItemTitle = productNames[*o.ProductID]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// OrderStatusRequest carries the requested status value
type OrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=in_progress ready completed"`
}

// UpdateOrderStatus sets the status of one of the vendor's own orders.
// Any of the three values may be written from any other; transitions
// are not forced forward-only.
func UpdateOrderStatus(c echo.Context) error {
	log := logger.FromContext(c)
	vendorID, _ := middleware.GetVendorIDFromContext(c)
	id := c.Param("id")

	var req OrderStatusRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	// Ownership check first; a foreign order reads as missing
	var order model.Order
	result := database.GetDB().Where("id = ? AND vendor_id = ?", id, vendorID).First(&order)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "Order not found"})
		}
		log.Error("Failed to load order", zap.String("order_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to update order status"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := database.GetDB().Model(&order).Update("status", req.Status).Error; err != nil {
		log.Error("Failed to update order status",
			zap.String("order_id", id),
			zap.String("status", req.Status),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to update order status"})
	}

	prometheus.RecordOrderStatus(req.Status)
	log.Info("Order status updated",
		zap.Uint("order_id", order.ID),
		zap.Uint("vendor_id", vendorID),
		zap.String("status", req.Status))
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"id": order.ID, "status": req.Status}})
}
