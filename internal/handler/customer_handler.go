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

// shopItem is one row of the storefront feed shown to customers
type shopItem struct {
	ID          uint    `json:"id"`
	Type        string  `json:"type"`
	VendorID    uint    `json:"vendor_id"`
	VendorName  string  `json:"vendor_name"`
	Name        string  `json:"name,omitempty"`
	Title       *string `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Discount    float64 `json:"discount,omitempty"`
	Quantity    int     `json:"quantity"`
	IsPremium   bool    `json:"is_premium,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// BrowseCatalog lists what customers can order right now: products
// enabled for today with stock left, plus mystery boxes with stock
// left, across all vendors.
func BrowseCatalog(c echo.Context) error {
	log := logger.FromContext(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	var products []struct {
		model.Product
		VendorName string
	}
	err := database.GetDB().Table("products").
		Select("products.*, vendors.business_name AS vendor_name").
		Joins("JOIN vendors ON vendors.id = products.vendor_id").
		Where("products.enable_today = ? AND products.quantity > 0", true).
		Order("products.created_at DESC").
		Scan(&products).Error
	if err != nil {
		log.Error("Failed to load storefront products", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to load catalog"})
	}

	var boxes []struct {
		model.MysteryBox
		VendorName string
	}
	err = database.GetDB().Table("mystery_boxes").
		Select("mystery_boxes.*, vendors.business_name AS vendor_name").
		Joins("JOIN vendors ON vendors.id = mystery_boxes.vendor_id").
		Where("mystery_boxes.quantity > 0").
		Order("mystery_boxes.created_at DESC").
		Scan(&boxes).Error
	if err != nil {
		log.Error("Failed to load storefront boxes", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to load catalog"})
	}

	items := make([]shopItem, 0, len(products)+len(boxes))
	for _, p := range products {
		items = append(items, shopItem{
			ID:          p.ID,
			Type:        model.OrderTypeProduct,
			VendorID:    p.VendorID,
			VendorName:  p.VendorName,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			Discount:    p.Discount,
			Quantity:    p.Quantity,
			IsPremium:   p.IsPremium,
			ImageURL:    p.ImageURL,
		})
	}
	for _, b := range boxes {
		items = append(items, shopItem{
			ID:         b.ID,
			Type:       model.OrderTypeMysteryBox,
			VendorID:   b.VendorID,
			VendorName: b.VendorName,
			Title:      b.Title,
			Price:      b.Price,
			Quantity:   b.Quantity,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": items})
}

// FavoriteRequest names the product to favorite
type FavoriteRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
}

// AddFavorite saves a product to the customer's favorites. Favoriting
// the same product twice is rejected.
func AddFavorite(c echo.Context) error {
	log := logger.FromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)

	var req FavoriteRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	var product model.Product
	if err := database.GetDB().First(&product, req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "Product not found"})
		}
		log.Error("Failed to load product", zap.Uint("product_id", req.ProductID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to add favorite"})
	}

	var count int64
	database.GetDB().Model(&model.Favorite{}).
		Where("user_id = ? AND product_id = ?", userID, req.ProductID).
		Count(&count)
	if count > 0 {
		return c.JSON(http.StatusConflict, echo.Map{"success": false, "error": "Product already in favorites"})
	}

	favorite := model.Favorite{UserID: userID, ProductID: req.ProductID}
	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := database.GetDB().Create(&favorite).Error; err != nil {
		log.Error("Failed to add favorite",
			zap.Uint("user_id", userID),
			zap.Uint("product_id", req.ProductID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to add favorite"})
	}

	log.Info("Favorite added", zap.Uint("user_id", userID), zap.Uint("product_id", req.ProductID))
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": favorite})
}

// favoriteRow joins a favorite with its product details
type favoriteRow struct {
	ID        uint    `json:"id"`
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Discount  float64 `json:"discount"`
	ImageURL  string  `json:"image_url"`
	VendorID  uint    `json:"vendor_id"`
}

// ListFavorites returns the customer's favorites with product details.
func ListFavorites(c echo.Context) error {
	log := logger.FromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)

	var rows []favoriteRow
	defer prometheus.TrackDBOperation("query")(time.Now())
	err := database.GetDB().Table("favorites").
		Select("favorites.id, favorites.product_id, products.name, products.price, products.discount, products.image_url, products.vendor_id").
		Joins("JOIN products ON products.id = favorites.product_id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		log.Error("Failed to list favorites", zap.Uint("user_id", userID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to list favorites"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": rows})
}

// RemoveFavorite deletes one of the customer's favorites by product id.
func RemoveFavorite(c echo.Context) error {
	log := logger.FromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)
	productID := c.Param("productId")

	defer prometheus.TrackDBOperation("delete")(time.Now())
	result := database.GetDB().
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&model.Favorite{})
	if result.Error != nil {
		log.Error("Failed to remove favorite", zap.String("product_id", productID), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to remove favorite"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "Favorite not found"})
	}

	log.Info("Favorite removed", zap.Uint("user_id", userID), zap.String("product_id", productID))
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"deleted": true}})
}

// CartItemRequest adds an item to the cart
type CartItemRequest struct {
	ItemType string `json:"item_type" validate:"required,oneof=product mystery_box"`
	ItemID   uint   `json:"item_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"omitempty,gt=0"`
}

// AddCartItem puts a product or mystery box into the customer's cart.
// Adding an item already in the cart increments its quantity.
func AddCartItem(c echo.Context) error {
	log := logger.FromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)

	var req CartItemRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	if err := verifyCartTarget(req.ItemType, req.ItemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "Item not found"})
		}
		log.Error("Failed to verify cart item", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to add item to cart"})
	}

	var item model.CartItem
	result := database.GetDB().
		Where("user_id = ? AND item_type = ? AND item_id = ?", userID, req.ItemType, req.ItemID).
		First(&item)
	defer prometheus.TrackDBOperation("insert")(time.Now())
	switch {
	case result.Error == nil:
		item.Quantity += req.Quantity
		if err := database.GetDB().Model(&item).Update("quantity", item.Quantity).Error; err != nil {
			log.Error("Failed to update cart quantity", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to add item to cart"})
		}
	case errors.Is(result.Error, gorm.ErrRecordNotFound):
		item = model.CartItem{
			UserID:   userID,
			ItemType: req.ItemType,
			ItemID:   req.ItemID,
			Quantity: req.Quantity,
		}
		if err := database.GetDB().Create(&item).Error; err != nil {
			log.Error("Failed to add cart item", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to add item to cart"})
		}
	default:
		log.Error("Failed to look up cart item", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to add item to cart"})
	}

	log.Info("Cart item added",
		zap.Uint("user_id", userID),
		zap.String("item_type", req.ItemType),
		zap.Uint("item_id", req.ItemID),
		zap.Int("quantity", item.Quantity))
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": item})
}

// ListCartItems returns the customer's cart.
func ListCartItems(c echo.Context) error {
	log := logger.FromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)

	var items []model.CartItem
	defer prometheus.TrackDBOperation("query")(time.Now())
	if err := database.GetDB().Where("user_id = ?", userID).Order("created_at ASC").Find(&items).Error; err != nil {
		log.Error("Failed to list cart", zap.Uint("user_id", userID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to list cart"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": items})
}

// RemoveCartItem deletes one cart row by id.
func RemoveCartItem(c echo.Context) error {
	log := logger.FromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)
	id := c.Param("id")

	defer prometheus.TrackDBOperation("delete")(time.Now())
	result := database.GetDB().Where("id = ? AND user_id = ?", id, userID).Delete(&model.CartItem{})
	if result.Error != nil {
		log.Error("Failed to remove cart item", zap.String("cart_item_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to remove cart item"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "Cart item not found"})
	}

	log.Info("Cart item removed", zap.Uint("user_id", userID), zap.String("cart_item_id", id))
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"deleted": true}})
}

// Checkout turns the customer's cart into orders, one per cart row, in
// a single transaction. Prices and pickup windows are snapshotted from
// the item at checkout time; the cart is cleared on success.
func Checkout(c echo.Context) error {
	log := logger.FromContext(c)
	userID, _ := middleware.GetUserIDFromContext(c)

	var created []model.Order
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		var items []model.CartItem
		if err := tx.Where("user_id = ?", userID).Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return errEmptyCart
		}

		for _, item := range items {
			order, err := orderFromCartItem(tx, userID, item)
			if err != nil {
				return err
			}
			if err := tx.Create(&order).Error; err != nil {
				return err
			}
			created = append(created, order)
		}

		return tx.Where("user_id = ?", userID).Delete(&model.CartItem{}).Error
	})
	if err != nil {
		if errors.Is(err, errEmptyCart) {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "Cart is empty"})
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusConflict, echo.Map{"success": false, "error": "An item in the cart is no longer available"})
		}
		log.Error("Checkout failed", zap.Uint("user_id", userID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Checkout failed"})
	}

	log.Info("Checkout completed", zap.Uint("user_id", userID), zap.Int("orders", len(created)))
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": fmt.Sprintf("%d order(s) placed", len(created)),
		"data":    created,
	})
}

var errEmptyCart = errors.New("cart is empty")

func orderFromCartItem(tx *gorm.DB, userID uint, item model.CartItem) (model.Order, error) {
	uid := userID
	if item.ItemType == model.OrderTypeMysteryBox {
		var box model.MysteryBox
		if err := tx.First(&box, item.ItemID).Error; err != nil {
			return model.Order{}, err
		}
		boxID := box.ID
		return model.Order{
			VendorID:        box.VendorID,
			UserID:          &uid,
			MysteryBoxID:    &boxID,
			OrderType:       model.OrderTypeMysteryBox,
			Price:           box.Price * float64(item.Quantity),
			PickupStartTime: box.PickupStartTime,
			PickupEndTime:   box.PickupEndTime,
			Status:          model.OrderStatusInProgress,
		}, nil
	}

	var product model.Product
	if err := tx.First(&product, item.ItemID).Error; err != nil {
		return model.Order{}, err
	}
	productID := product.ID
	price := product.Price
	if product.Discount > 0 {
		price = product.Price - product.Discount
	}
	return model.Order{
		VendorID:        product.VendorID,
		UserID:          &uid,
		ProductID:       &productID,
		OrderType:       model.OrderTypeProduct,
		Price:           price * float64(item.Quantity),
		Description:     product.Name,
		PickupStartTime: product.PickupStartTime,
		PickupEndTime:   product.PickupEndTime,
		Status:          model.OrderStatusInProgress,
	}, nil
}

func verifyCartTarget(itemType string, itemID uint) error {
	if itemType == model.OrderTypeMysteryBox {
		var box model.MysteryBox
		return database.GetDB().Select("id").First(&box, itemID).Error
	}
	var product model.Product
	return database.GetDB().Select("id").First(&product, itemID).Error
}
