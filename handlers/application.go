package handlers

import (
	"net/http"

	"tutorlink/middleware"
	"tutorlink/models"
	"tutorlink/services/tuition"
	"tutorlink/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ApplyHandler handles POST /api/tuitions/:tuitionId/apply.
func (h *TuitionHandler) ApplyHandler(c *gin.Context) {
	logger := utils.GetLogger()
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req struct {
		ProposedRate float64          `json:"proposedRate" binding:"required"`
		Message      string           `json:"message"`
		Schedule     []models.DaySlot `json:"schedule" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid application payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	app, err := h.Service.SubmitApplication(c.Request.Context(), tuition.SubmitApplicationInput{
		TuitionID:    c.Param("tuitionId"),
		TutorID:      p.ID,
		ProposedRate: req.ProposedRate,
		Message:      req.Message,
		Schedule:     req.Schedule,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Application submitted", "application": app})
}

// WithdrawApplicationHandler handles DELETE /api/tuitions/applications/:tuitionId.
func (h *TuitionHandler) WithdrawApplicationHandler(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	if err := h.Service.WithdrawApplication(c.Request.Context(), c.Param("tuitionId"), p.ID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Application withdrawn"})
}

// UpdateApplicationHandler handles PATCH /api/tuitions/applications/:tuitionId.
func (h *TuitionHandler) UpdateApplicationHandler(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req struct {
		ProposedRate *float64 `json:"proposedRate"`
		Message      *string  `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	err := h.Service.UpdateApplication(c.Request.Context(), tuition.UpdateApplicationInput{
		TuitionID:    c.Param("tuitionId"),
		TutorID:      p.ID,
		ProposedRate: req.ProposedRate,
		Message:      req.Message,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Application updated"})
}

// MyApplicationsHandler handles GET /api/teachers/my-applications.
func (h *TuitionHandler) MyApplicationsHandler(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	tuitions, err := h.Service.ListAppliedTuitions(c.Request.Context(), p.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tuitions, "count": len(tuitions)})
}

// OngoingTuitionsHandler handles GET /api/teachers/ongoing-tuitions.
func (h *TuitionHandler) OngoingTuitionsHandler(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	tuitions, err := h.Service.ListOngoingTuitions(c.Request.Context(), p.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tuitions, "count": len(tuitions)})
}
