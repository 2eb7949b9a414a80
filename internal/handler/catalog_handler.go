package handler

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/GrabRush/grabrush-app/internal/middleware"
	"github.com/GrabRush/grabrush-app/internal/model"
	"github.com/GrabRush/grabrush-app/pkg/database"
	"github.com/GrabRush/grabrush-app/pkg/logger"
	"github.com/GrabRush/grabrush-app/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// catalogItem is one row of the unified product/box view
type catalogItem struct {
	ID          uint      `json:"id"`
	Type        string    `json:"type"` // product or mystery_box
	Name        string    `json:"name,omitempty"`
	Title       *string   `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Discount    float64   `json:"discount,omitempty"`
	Quantity    int       `json:"quantity"`
	IsPremium   bool      `json:"is_premium,omitempty"`
	EnableToday bool      `json:"enable_today,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Catalog filter values
const (
	filterAll        = "all"
	filterMystery    = "mystery"
	filterPremium    = "premium"
	filterDiscounted = "discounted"
)

// ListCatalog merges the vendor's products and mystery boxes into one
// newest-first sequence, with the filter applied in memory after both
// source queries return.
func ListCatalog(c echo.Context) error {
	log := logger.FromContext(c)
	vendorID, _ := middleware.GetVendorIDFromContext(c)

	filter := strings.ToLower(c.QueryParam("filter"))
	if filter == "" {
		filter = filterAll
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var products []model.Product
	if result := database.GetDB().Where("vendor_id = ?", vendorID).Order("created_at DESC").Find(&products); result.Error != nil {
		log.Error("Failed to load catalog products", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to load catalog"})
	}

	var boxes []model.MysteryBox
	if result := database.GetDB().Where("vendor_id = ?", vendorID).Order("created_at DESC").Find(&boxes); result.Error != nil {
		log.Error("Failed to load catalog boxes", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to load catalog"})
	}

	items := mergeCatalog(products, boxes)
	items = filterCatalog(items, filter)

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": items})
}

func mergeCatalog(products []model.Product, boxes []model.MysteryBox) []catalogItem {
	items := make([]catalogItem, 0, len(products)+len(boxes))
	for _, p := range products {
		items = append(items, catalogItem{
			ID:          p.ID,
			Type:        model.OrderTypeProduct,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			Discount:    p.Discount,
			Quantity:    p.Quantity,
			IsPremium:   p.IsPremium,
			EnableToday: p.EnableToday,
			CreatedAt:   p.CreatedAt,
		})
	}
	for _, b := range boxes {
		items = append(items, catalogItem{
			ID:        b.ID,
			Type:      model.OrderTypeMysteryBox,
			Title:     b.Title,
			Price:     b.Price,
			Quantity:  b.Quantity,
			CreatedAt: b.CreatedAt,
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items
}

func filterCatalog(items []catalogItem, filter string) []catalogItem {
	switch filter {
	case filterMystery:
		return keepCatalog(items, func(i catalogItem) bool { return i.Type == model.OrderTypeMysteryBox })
	case filterPremium:
		return keepCatalog(items, func(i catalogItem) bool { return i.Type == model.OrderTypeProduct && i.IsPremium })
	case filterDiscounted:
		return keepCatalog(items, func(i catalogItem) bool { return i.Type == model.OrderTypeProduct && i.Discount > 0 })
	default:
		return items
	}
}

func keepCatalog(items []catalogItem, keep func(catalogItem) bool) []catalogItem {
	out := items[:0]
	for _, i := range items {
		if keep(i) {
			out = append(out, i)
		}
	}
	return out
}
