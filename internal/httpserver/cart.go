package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"shopcart-api/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type addItemRequest struct {
	CartCode  string `json:"cart_code" binding:"required"`
	ProductID int64  `json:"product_id" binding:"required"`
}

type updateQuantityRequest struct {
	ItemID   int64 `json:"item_id" binding:"required"`
	Quantity int   `json:"quantity" binding:"required"`
}

type deleteItemRequest struct {
	ItemID int64 `json:"item_id" binding:"required"`
}

// cartResponse is the cart payload with its computed total attached.
type cartResponse struct {
	ID       int64             `json:"id"`
	Code     string            `json:"cart_code"`
	Items    []domain.CartItem `json:"items"`
	SumTotal decimal.Decimal   `json:"sum_total"`
}

func addItemHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cart_code and product_id are required"})
			return
		}
		item, err := carts.AddItem(c.Request.Context(), req.CartCode, req.ProductID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"data": item, "message": "Item added to cart"})
	}
}

func productInCartHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cartCode := c.Query("cart_code")
		productID, err := strconv.ParseInt(c.Query("product_id"), 10, 64)
		if cartCode == "" || err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cart_code and product_id are required"})
			return
		}
		in, err := carts.ContainsProduct(c.Request.Context(), cartCode, productID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"product_in_cart": in})
	}
}

func cartSummaryHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cartCode := c.Query("cart_code")
		if cartCode == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cart_code is required"})
			return
		}
		cart, err := carts.Get(c.Request.Context(), cartCode)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "cart not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"id":              cart.ID,
			"cart_code":       cart.Code,
			"number_of_items": cart.ItemCount(),
		})
	}
}

func getCartHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cartCode := c.Query("cart_code")
		if cartCode == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cart_code is required"})
			return
		}
		cart, err := carts.Get(c.Request.Context(), cartCode)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "cart not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load cart"})
			return
		}
		c.JSON(http.StatusOK, cartResponse{
			ID:       cart.ID,
			Code:     cart.Code,
			Items:    cart.Items,
			SumTotal: cart.SumTotal(),
		})
	}
}

func updateQuantityHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "item_id and quantity are required"})
			return
		}
		item, err := carts.UpdateQuantity(c.Request.Context(), req.ItemID, req.Quantity)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "cart item not found"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": item, "message": "CartItem updated successfully"})
	}
}

func deleteItemHandler(carts cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req deleteItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "item_id is required"})
			return
		}
		if err := carts.DeleteItem(c.Request.Context(), req.ItemID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "cart item not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete item"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
