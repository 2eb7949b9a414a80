package handler

import (
	"encoding/json"
	"errors"
	"net/http"
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

// BoxItemInput is one entry of product_ids. Clients send either a bare
// product ID or an {id, quantity} object.
type BoxItemInput struct {
	ID       uint `json:"id" validate:"required"`
	Quantity int  `json:"quantity" validate:"gte=1"`
}

func (b *BoxItemInput) UnmarshalJSON(data []byte) error {
	var id uint
	if err := json.Unmarshal(data, &id); err == nil {
		b.ID = id
		b.Quantity = 1
		return nil
	}

	var obj struct {
		ID       uint `json:"id"`
		Quantity *int `json:"quantity"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	b.ID = obj.ID
	b.Quantity = 1
	if obj.Quantity != nil {
		b.Quantity = *obj.Quantity
	}
	return nil
}

// MysteryBoxRequest defines the structure for mystery box creation requests
type MysteryBoxRequest struct {
	Title           *string        `json:"title"`
	ProductIDs      []BoxItemInput `json:"product_ids" validate:"required,min=1,dive"`
	Price           float64        `json:"price" validate:"required,gt=0"`
	Quantity        *int           `json:"quantity" validate:"omitempty,gte=0"`
	PickupStartTime *string        `json:"pickup_start_time" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	PickupEndTime   *string        `json:"pickup_end_time" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

type mysteryBoxResponse struct {
	model.MysteryBox
	ProductNames string `json:"product_names"`
	ItemCount    int    `json:"item_count"`
}

// CreateMysteryBox creates a box and its member items in one transaction.
// Either the box and every item persist, or nothing does.
func CreateMysteryBox(c echo.Context) error {
	log := logger.FromContext(c)
	vendorID, _ := middleware.GetVendorIDFromContext(c)

	var req MysteryBoxRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	box := model.MysteryBox{
		VendorID:        vendorID,
		Title:           req.Title,
		Price:           req.Price,
		PickupStartTime: parseTimePtr(req.PickupStartTime),
		PickupEndTime:   parseTimePtr(req.PickupEndTime),
	}
	if req.Quantity != nil {
		box.Quantity = *req.Quantity
	}

	var productNames []string
	defer prometheus.TrackDBOperation("transaction")(time.Now())
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&box).Error; err != nil {
			return err
		}
		if box.ID == 0 {
			// Insert failure rather than invalid input
			return errors.New("mystery box insert returned no id")
		}

		items := make([]model.MysteryBoxItem, 0, len(req.ProductIDs))
		for _, p := range req.ProductIDs {
			items = append(items, model.MysteryBoxItem{
				MysteryBoxID: box.ID,
				ProductID:    p.ID,
				Quantity:     p.Quantity,
			})
		}
		// Single multi-row insert scoped to the new box
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		if err := tx.First(&box, box.ID).Error; err != nil {
			return err
		}
		return tx.Table("mystery_box_items").
			Joins("JOIN products ON products.id = mystery_box_items.product_id").
			Where("mystery_box_items.mystery_box_id = ?", box.ID).
			Order("mystery_box_items.id").
			Pluck("products.name", &productNames).Error
	})
	if err != nil {
		log.Error("Failed to create mystery box",
			zap.Uint("vendor_id", vendorID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to create mystery box"})
	}

	prometheus.RecordBoxOperation("create")
	log.Info("Mystery box created",
		zap.Uint("box_id", box.ID),
		zap.Uint("vendor_id", vendorID),
		zap.Int("item_count", len(req.ProductIDs)))
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": mysteryBoxResponse{
		MysteryBox:   box,
		ProductNames: strings.Join(productNames, ","),
		ItemCount:    len(productNames),
	}})
}

type mysteryBoxRow struct {
	model.MysteryBox
	ItemCount int `json:"item_count"`
}

// ListMysteryBoxes returns the vendor's boxes with item counts, newest first
func ListMysteryBoxes(c echo.Context) error {
	log := logger.FromContext(c)
	vendorID, _ := middleware.GetVendorIDFromContext(c)

	var rows []mysteryBoxRow
	defer prometheus.TrackDBOperation("query")(time.Now())
	result := database.GetDB().Table("mystery_boxes").
		Select("mystery_boxes.*, COUNT(mystery_box_items.id) AS item_count").
		Joins("LEFT JOIN mystery_box_items ON mystery_box_items.mystery_box_id = mystery_boxes.id").
		Where("mystery_boxes.vendor_id = ?", vendorID).
		Group("mystery_boxes.id").
		Order("mystery_boxes.created_at DESC").
		Scan(&rows)
	if result.Error != nil {
		log.Error("Failed to list mystery boxes", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to list mystery boxes"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": rows})
}
