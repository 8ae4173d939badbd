package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/poornesh-v09/Milk-Management/internal/repository"
	"github.com/poornesh-v09/Milk-Management/internal/service"
)

// respondError maps service and repository errors onto the API taxonomy:
// 400 validation, 404 not-found, 409 conflict, 500 with message passthrough.
func respondError(c *gin.Context, err error) {
	switch {
	case service.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, repository.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
	}
}
