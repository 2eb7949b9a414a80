package handler

import (
	"errors"
	"fmt"
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

// OfferInput is one scheduled offer of a batch
type OfferInput struct {
	ProductID          uint     `json:"product_id" validate:"required"`
	OfferDate          string   `json:"offer_date" validate:"required,datetime=2006-01-02"`
	OfferStartTime     *string  `json:"offer_start_time" validate:"omitempty,datetime=15:04"`
	OfferEndTime       *string  `json:"offer_end_time" validate:"omitempty,datetime=15:04"`
	DiscountEnabled    *bool    `json:"discount_enabled"`
	DiscountType       string   `json:"discount_type" validate:"omitempty,oneof=fixed_price percentage"`
	NewPrice           *float64 `json:"new_price" validate:"omitempty,gte=0"`
	DiscountPercentage *float64 `json:"discount_percentage" validate:"omitempty,gte=0,lte=100"`
	IsRecurring        bool     `json:"is_recurring"`
}

// ScheduledOfferRequest defines the structure for batch offer creation
type ScheduledOfferRequest struct {
	Offers []OfferInput `json:"offers" validate:"required,min=1,dive"`
}

// offerError aborts the batch transaction with a caller-visible status
type offerError struct {
	status  int
	message string
}

func (e *offerError) Error() string { return e.message }

// CreateScheduledOffers persists a batch of offers atomically. If any
// offer fails its ownership or discount checks, none of the batch is
// committed; a vendor never ends up with half a calendar.
func CreateScheduledOffers(c echo.Context) error {
	log := logger.FromContext(c)
	vendorID, _ := middleware.GetVendorIDFromContext(c)

	var req ScheduledOfferRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	defer prometheus.TrackDBOperation("transaction")(time.Now())
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		for _, offer := range req.Offers {
			// The referenced product must belong to the calling vendor;
			// the foreign key alone would accept any vendor's product
			var owned model.Product
			result := tx.Select("id").Where("id = ? AND vendor_id = ?", offer.ProductID, vendorID).First(&owned)
			if result.Error != nil {
				if errors.Is(result.Error, gorm.ErrRecordNotFound) {
					return &offerError{
						status:  http.StatusForbidden,
						message: fmt.Sprintf("Product %d not found or does not belong to vendor", offer.ProductID),
					}
				}
				return result.Error
			}

			discountType := offer.DiscountType
			if discountType == "" {
				discountType = model.DiscountTypeFixedPrice
			}
			discountEnabled := offer.DiscountEnabled == nil || *offer.DiscountEnabled

			// Only the field matching the discount type is kept
			var newPrice, discountPct *float64
			if discountType == model.DiscountTypeFixedPrice {
				newPrice = offer.NewPrice
			} else {
				discountPct = offer.DiscountPercentage
			}

			if discountEnabled && discountType == model.DiscountTypeFixedPrice && newPrice == nil {
				return &offerError{
					status:  http.StatusBadRequest,
					message: fmt.Sprintf("Missing new_price for product %d", offer.ProductID),
				}
			}
			if discountEnabled && discountType == model.DiscountTypePercentage && discountPct == nil {
				return &offerError{
					status:  http.StatusBadRequest,
					message: fmt.Sprintf("Missing discount_percentage for product %d", offer.ProductID),
				}
			}

			startTime := "00:00"
			if offer.OfferStartTime != nil && *offer.OfferStartTime != "" {
				startTime = *offer.OfferStartTime
			}
			endTime := "23:59"
			if offer.OfferEndTime != nil && *offer.OfferEndTime != "" {
				endTime = *offer.OfferEndTime
			}

			row := model.ScheduledOffer{
				VendorID:           vendorID,
				ProductID:          offer.ProductID,
				OfferDate:          offer.OfferDate,
				OfferStartTime:     startTime,
				OfferEndTime:       endTime,
				DiscountEnabled:    discountEnabled,
				DiscountType:       discountType,
				NewPrice:           newPrice,
				DiscountPercentage: discountPct,
				IsRecurring:        offer.IsRecurring,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var oe *offerError
		if errors.As(err, &oe) {
			prometheus.RecordOfferBatch("rejected")
			log.Warn("Scheduled offer batch rejected",
				zap.Uint("vendor_id", vendorID),
				zap.String("reason", oe.message))
			return c.JSON(oe.status, echo.Map{"success": false, "error": oe.message})
		}
		prometheus.RecordOfferBatch("failed")
		log.Error("Failed to create scheduled offers",
			zap.Uint("vendor_id", vendorID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to create scheduled offers"})
	}

	prometheus.RecordOfferBatch("scheduled")
	log.Info("Scheduled offers created",
		zap.Uint("vendor_id", vendorID),
		zap.Int("count", len(req.Offers)))
	return c.JSON(http.StatusCreated, echo.Map{
		"success":   true,
		"message":   fmt.Sprintf("%d offer(s) scheduled successfully", len(req.Offers)),
		"scheduled": len(req.Offers),
	})
}

type scheduledOfferRow struct {
	model.ScheduledOffer
	ProductName   string  `json:"product_name"`
	OriginalPrice float64 `json:"original_price"`
}

// ListScheduledOffers returns the vendor's offers joined with product info
func ListScheduledOffers(c echo.Context) error {
	log := logger.FromContext(c)
	vendorID, _ := middleware.GetVendorIDFromContext(c)

	var rows []scheduledOfferRow
	defer prometheus.TrackDBOperation("query")(time.Now())
	result := database.GetDB().Table("scheduled_offers").
		Select("scheduled_offers.*, products.name AS product_name, products.price AS original_price").
		Joins("JOIN products ON products.id = scheduled_offers.product_id").
		Where("scheduled_offers.vendor_id = ?", vendorID).
		Order("scheduled_offers.offer_date DESC, scheduled_offers.offer_start_time ASC").
		Scan(&rows)
	if result.Error != nil {
		log.Error("Failed to list scheduled offers", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to list scheduled offers"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": rows})
}
