package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/poornesh-v09/Milk-Management/internal/models"
	"github.com/poornesh-v09/Milk-Management/internal/service"
)

// DeliveryHandler handles delivery-record requests
type DeliveryHandler struct {
	service service.Service
}

// NewDeliveryHandler creates a new DeliveryHandler instance
func NewDeliveryHandler(svc service.Service) *DeliveryHandler {
	return &DeliveryHandler{service: svc}
}

// QueryDeliveries returns records filtered by date, customer and month.
// The month query parameter is zero-indexed.
func (h *DeliveryHandler) QueryDeliveries(c *gin.Context) {
	query := service.DeliveryQuery{
		Date:       c.Query("date"),
		CustomerID: c.Query("customerId"),
	}
	if monthStr, yearStr := c.Query("month"), c.Query("year"); monthStr != "" && yearStr != "" {
		month, err := strconv.Atoi(monthStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "month must be a number"})
			return
		}
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "year must be a number"})
			return
		}
		query.Month = &month
		query.Year = &year
	}

	records, err := h.service.QueryDeliveries(c, query)
	if err != nil {
		log.Error().Err(err).Msg("Failed to query deliveries")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// SaveDelivery upserts a single record keyed by its business id
func (h *DeliveryHandler) SaveDelivery(c *gin.Context) {
	var record models.DeliveryRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	saved, err := h.service.SaveDeliveryRecord(c, record)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// SaveDeliveriesBulk upserts a batch of records, best effort per record
func (h *DeliveryHandler) SaveDeliveriesBulk(c *gin.Context) {
	var records []models.DeliveryRecord
	if err := c.ShouldBindJSON(&records); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if err := h.service.SaveDeliveryRecords(c, records); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Records saved successfully"})
}
