package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/poornesh-v09/Milk-Management/internal/service"
)

// MemberHandler handles delivery-member requests
type MemberHandler struct {
	service service.Service
}

// NewMemberHandler creates a new MemberHandler instance
func NewMemberHandler(svc service.Service) *MemberHandler {
	return &MemberHandler{service: svc}
}

// ListMembers returns every delivery member
func (h *MemberHandler) ListMembers(c *gin.Context) {
	members, err := h.service.ListMembers(c)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list members")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

// CreateMember adds a new delivery member
func (h *MemberHandler) CreateMember(c *gin.Context) {
	var input service.MemberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	member, err := h.service.CreateMember(c, input)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to create member")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, member)
}

// UpdateMember updates a delivery member by business id
func (h *MemberHandler) UpdateMember(c *gin.Context) {
	var input service.MemberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	member, err := h.service.UpdateMember(c, c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}
