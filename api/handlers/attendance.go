package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/poornesh-v09/Milk-Management/internal/service"
)

// AttendanceHandler handles attendance requests
type AttendanceHandler struct {
	service service.Service
}

// NewAttendanceHandler creates a new AttendanceHandler instance
func NewAttendanceHandler(svc service.Service) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

// GetSheet returns the unsubmitted attendance template for a member and date
func (h *AttendanceHandler) GetSheet(c *gin.Context) {
	sheet, err := h.service.GetAttendanceSheet(c, c.Param("deliveryPersonId"), c.Param("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sheet)
}

// CheckAttendance reports whether a sheet is already submitted
func (h *AttendanceHandler) CheckAttendance(c *gin.Context) {
	check, err := h.service.CheckAttendance(c, c.Param("deliveryPersonId"), c.Param("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, check)
}

// SubmitAttendance stores a submission; resubmission for the same
// (date, person) pair returns 409 and leaves the original untouched.
func (h *AttendanceHandler) SubmitAttendance(c *gin.Context) {
	var input service.AttendanceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	attendance, err := h.service.SubmitAttendance(c, input)
	if err != nil {
		log.Warn().Err(err).
			Str("date", input.Date).
			Str("delivery_person_id", input.DeliveryPersonID).
			Msg("Attendance submission rejected")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":    "Attendance saved successfully",
		"attendance": attendance,
	})
}

func attendanceQuery(c *gin.Context) service.AttendanceQuery {
	return service.AttendanceQuery{
		Date:         c.Query("date"),
		Month:        c.Query("month"),
		Year:         c.Query("year"),
		StartDate:    c.Query("startDate"),
		EndDate:      c.Query("endDate"),
		CustomerName: c.Query("customerName"),
	}
}

// History returns one member's submissions, newest first
func (h *AttendanceHandler) History(c *gin.Context) {
	records, err := h.service.AttendanceHistory(c, c.Param("deliveryPersonId"), attendanceQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// AdminList returns submissions across all members
func (h *AttendanceHandler) AdminList(c *gin.Context) {
	query := attendanceQuery(c)
	query.DeliveryPersonID = c.Query("deliveryPersonId")
	records, err := h.service.AdminAttendance(c, query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// GetByID returns a single submission by store id
func (h *AttendanceHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid attendance id"})
		return
	}
	attendance, err := h.service.GetAttendance(c, uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, attendance)
}
