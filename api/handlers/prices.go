package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/poornesh-v09/Milk-Management/internal/models"
	"github.com/poornesh-v09/Milk-Management/internal/service"
)

// PriceHandler handles product-price requests
type PriceHandler struct {
	service service.Service
}

// NewPriceHandler creates a new PriceHandler instance
func NewPriceHandler(svc service.Service) *PriceHandler {
	return &PriceHandler{service: svc}
}

// ListPrices returns the full price list
func (h *PriceHandler) ListPrices(c *gin.Context) {
	prices, err := h.service.ListPrices(c)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list prices")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prices)
}

type addPriceRequest struct {
	Product string   `json:"product"`
	Price   *float64 `json:"price"`
}

// AddPrice creates a new product price
func (h *PriceHandler) AddPrice(c *gin.Context) {
	var req addPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if req.Product == "" || req.Price == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Product name and price are required"})
		return
	}
	price, err := h.service.AddPrice(c, req.Product, *req.Price)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, price)
}

// DeletePrice removes a product from the price list
func (h *PriceHandler) DeletePrice(c *gin.Context) {
	if err := h.service.DeletePrice(c, c.Param("product")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// BulkUpdatePrices upserts a list of prices and returns the refreshed list
func (h *PriceHandler) BulkUpdatePrices(c *gin.Context) {
	var prices []models.Price
	if err := c.ShouldBindJSON(&prices); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	updated, err := h.service.BulkUpdatePrices(c, prices)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
