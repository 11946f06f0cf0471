package handlers

import (
	"net/http"
	"strconv"
	"time"

	tuitionRepo "tutorlink/database/repository/tuition"
	"tutorlink/services/tuition"

	"github.com/gin-gonic/gin"
)

// adminActor labels ledger entries made through the token-authenticated
// admin surface, where no user principal exists.
const adminActor = "admin"

// AdminHandler serves the moderation and revenue endpoints.
type AdminHandler struct {
	Service tuition.TuitionService
	Repo    tuitionRepo.TuitionRepository
}

func NewAdminHandler(svc tuition.TuitionService, repo tuitionRepo.TuitionRepository) *AdminHandler {
	return &AdminHandler{Service: svc, Repo: repo}
}

// ApproveTuitionHandler handles PUT /api/admin/tuitions/:tuitionId/approve.
func (h *AdminHandler) ApproveTuitionHandler(c *gin.Context) {
	t, err := h.Service.ApproveTuition(c.Request.Context(), c.Param("tuitionId"), adminActor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tuition approved", "tuition": t})
}

// RejectTuitionHandler handles PUT /api/admin/tuitions/:tuitionId/reject.
func (h *AdminHandler) RejectTuitionHandler(c *gin.Context) {
	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a rejection reason is required"})
		return
	}

	if err := h.Service.CancelTuition(c.Request.Context(), c.Param("tuitionId"), adminActor, req.Reason); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tuition rejected"})
}

// UpdateTuitionStatusHandler handles PATCH /api/admin/tuitions/:tuitionId/status.
func (h *AdminHandler) UpdateTuitionStatusHandler(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if err := h.Service.UpdateTuitionStatus(c.Request.Context(), c.Param("tuitionId"), adminActor, req.Status, req.Reason); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status updated"})
}

// RevenueSummaryHandler handles GET /api/admin/revenue. An optional
// ?days=N query restricts the window; zero means all time.
func (h *AdminHandler) RevenueSummaryHandler(c *gin.Context) {
	var since *time.Time
	if days, _ := strconv.Atoi(c.DefaultQuery("days", "0")); days > 0 {
		t := time.Now().AddDate(0, 0, -days)
		since = &t
	}

	summary, err := h.Repo.RevenueSummary(c.Request.Context(), since)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute revenue"})
		return
	}

	recent, err := h.Repo.RecentTransactions(c.Request.Context(), 10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load transactions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary, "recentTransactions": recent})
}

// RevenueTrendHandler handles GET /api/admin/revenue/trend.
func (h *AdminHandler) RevenueTrendHandler(c *gin.Context) {
	period := c.DefaultQuery("period", "daily")
	switch period {
	case "daily", "weekly", "monthly":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "period must be daily, weekly or monthly"})
		return
	}

	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "30"), 10, 64)
	if limit < 1 || limit > 365 {
		limit = 30
	}

	trend, err := h.Repo.RevenueTrend(c.Request.Context(), period, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute trend"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"period": period, "trend": trend})
}
