package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/poornesh-v09/Milk-Management/internal/service"
)

// CustomerHandler handles customer requests
type CustomerHandler struct {
	service service.Service
}

// NewCustomerHandler creates a new CustomerHandler instance
func NewCustomerHandler(svc service.Service) *CustomerHandler {
	return &CustomerHandler{service: svc}
}

// ListCustomers returns every customer
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	customers, err := h.service.ListCustomers(c)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list customers")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

// CreateCustomer adds a new customer, assigning an id when absent
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var input service.CustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	customer, err := h.service.CreateCustomer(c, input)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to create customer")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// UpdateCustomer updates a customer by business id
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	var input service.CustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	customer, err := h.service.UpdateCustomer(c, c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}
