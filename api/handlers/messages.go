package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/poornesh-v09/Milk-Management/internal/repository"
	"github.com/poornesh-v09/Milk-Management/internal/service"
)

// MessageHandler handles bill-notification requests
type MessageHandler struct {
	service service.Service
}

// NewMessageHandler creates a new MessageHandler instance
func NewMessageHandler(svc service.Service) *MessageHandler {
	return &MessageHandler{service: svc}
}

// SendBill renders and (simulated) sends a customer's monthly bill
func (h *MessageHandler) SendBill(c *gin.Context) {
	var input service.BillMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	result, err := h.service.SendBillMessage(c, input)
	if err != nil {
		log.Warn().Err(err).Str("customer_id", input.CustomerID).Msg("Failed to send bill message")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// ListMessages returns notification logs, newest first
func (h *MessageHandler) ListMessages(c *gin.Context) {
	filter := repository.MessageFilter{
		CustomerID: c.Query("customerId"),
		Month:      -1,
	}
	if raw := c.Query("month"); raw != "" {
		month, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "month must be a number"})
			return
		}
		filter.Month = month
	}
	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "year must be a number"})
			return
		}
		filter.Year = year
	}

	logs, err := h.service.ListMessages(c, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
