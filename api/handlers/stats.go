package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/poornesh-v09/Milk-Management/internal/service"
)

// StatsHandler handles dashboard and reporting requests
type StatsHandler struct {
	service service.Service
}

// NewStatsHandler creates a new StatsHandler instance
func NewStatsHandler(svc service.Service) *StatsHandler {
	return &StatsHandler{service: svc}
}

// monthYearParams reads the zero-indexed month and year query parameters,
// defaulting to the current month.
func monthYearParams(c *gin.Context) (int, int, bool) {
	now := time.Now()
	month := int(now.Month()) - 1
	year := now.Year()

	if raw := c.Query("month"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "month must be a number"})
			return 0, 0, false
		}
		month = m
	}
	if raw := c.Query("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "year must be a number"})
			return 0, 0, false
		}
		year = y
	}
	return month, year, true
}

// Dashboard returns the landing-page summary figures
func (h *StatsHandler) Dashboard(c *gin.Context) {
	stats, err := h.service.DashboardStats(c)
	if err != nil {
		log.Error().Err(err).Msg("Failed to compute dashboard stats")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Products returns per-product statistics for a month
func (h *StatsHandler) Products(c *gin.Context) {
	month, year, ok := monthYearParams(c)
	if !ok {
		return
	}
	stats, err := h.service.ProductStatistics(c, month, year)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Revenue returns a month's revenue split by customer, member and product
func (h *StatsHandler) Revenue(c *gin.Context) {
	month, year, ok := monthYearParams(c)
	if !ok {
		return
	}
	breakdown, err := h.service.RevenueBreakdown(c, month, year)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, breakdown)
}

// MonthlyReport returns the per-customer billing report for a month
func (h *StatsHandler) MonthlyReport(c *gin.Context) {
	month, year, ok := monthYearParams(c)
	if !ok {
		return
	}
	report, err := h.service.MonthlyReport(c, month, year)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
