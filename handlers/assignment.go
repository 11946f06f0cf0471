package handlers

import (
	"net/http"

	"tutorlink/middleware"

	"github.com/gin-gonic/gin"
)

// AcceptApplicationHandler handles PUT /api/tuitions/:tuitionId/accept/:tutorId.
// Only the poster may accept, and only while the tuition is still open and
// unassigned. Accepting one application rejects every other pending one.
func (h *TuitionHandler) AcceptApplicationHandler(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	updated, err := h.Service.AcceptApplication(c.Request.Context(), c.Param("tuitionId"), c.Param("tutorId"), p.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Application accepted", "tuition": updated})
}

// RejectApplicationHandler handles POST /api/tuitions/reject-tuition.
func (h *TuitionHandler) RejectApplicationHandler(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req struct {
		TuitionID string `json:"tuitionId" binding:"required"`
		TutorID   string `json:"tutorId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if err := h.Service.RejectApplication(c.Request.Context(), req.TuitionID, req.TutorID, p.ID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Application rejected"})
}
