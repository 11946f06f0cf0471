package handlers

import (
	"net/http"
	"strconv"

	tuitionRepo "tutorlink/database/repository/tuition"
	"tutorlink/middleware"
	"tutorlink/services/tuition"
	"tutorlink/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TuitionHandler exposes the tuition lifecycle over HTTP.
type TuitionHandler struct {
	Service tuition.TuitionService
}

// NewTuitionHandler creates a TuitionHandler.
func NewTuitionHandler(svc tuition.TuitionService) *TuitionHandler {
	return &TuitionHandler{Service: svc}
}

// CreateTuitionHandler handles POST /api/tuitions.
func (h *TuitionHandler) CreateTuitionHandler(c *gin.Context) {
	logger := utils.GetLogger()
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var in tuition.CreateTuitionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		logger.Warn("Invalid create tuition payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	in.PostedBy = p.ID
	in.PostedByRole = p.Role

	t, err := h.Service.CreateTuition(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Tuition created successfully", "tuition": t})
}

// GetTuitionHandler handles GET /api/tuitions/:tuitionId.
func (h *TuitionHandler) GetTuitionHandler(c *gin.Context) {
	t, err := h.Service.GetTuition(c.Request.Context(), c.Param("tuitionId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// ListTuitionsHandler handles GET /api/tuitions.
func (h *TuitionHandler) ListTuitionsHandler(c *gin.Context) {
	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	filter := tuitionRepo.ListFilter{
		Status:      c.Query("status"),
		TuitionType: c.Query("tuitionType"),
		Grade:       c.Query("grade"),
		Search:      c.Query("search"),
		Page:        page,
		Limit:       limit,
		SortBy:      c.DefaultQuery("sortBy", "createdAt"),
		SortAsc:     c.Query("sortOrder") == "asc",
	}

	tuitions, total, err := h.Service.ListTuitions(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	c.JSON(http.StatusOK, gin.H{
		"data": tuitions,
		"pagination": gin.H{
			"total": total,
			"page":  page,
			"limit": limit,
			"pages": pages,
		},
	})
}

// DeleteTuitionHandler handles DELETE /api/tuitions/:tuitionId.
func (h *TuitionHandler) DeleteTuitionHandler(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	if err := h.Service.DeleteTuition(c.Request.Context(), c.Param("tuitionId"), p.ID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tuition deleted successfully"})
}
