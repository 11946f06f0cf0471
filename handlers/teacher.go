package handlers

import (
	"net/http"
	"strconv"

	userRepo "tutorlink/database/repository/user"

	"github.com/gin-gonic/gin"
)

// TeacherHandler serves the public tutor directory.
type TeacherHandler struct {
	Users userRepo.UserRepository
}

func NewTeacherHandler(users userRepo.UserRepository) *TeacherHandler {
	return &TeacherHandler{Users: users}
}

// ListTeachersHandler handles GET /api/teachers.
func (h *TeacherHandler) ListTeachersHandler(c *gin.Context) {
	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	minExp, _ := strconv.Atoi(c.DefaultQuery("minExperience", "0"))
	maxRate, _ := strconv.ParseFloat(c.DefaultQuery("maxHourlyRate", "0"), 64)

	teachers, total, err := h.Users.ListTeachers(c.Request.Context(), userRepo.TeacherFilter{
		City:          c.Query("city"),
		Subject:       c.Query("subject"),
		MinExperience: minExp,
		MaxHourlyRate: maxRate,
		Page:          page,
		Limit:         limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list teachers"})
		return
	}

	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	c.JSON(http.StatusOK, gin.H{
		"data":       teachers,
		"total":      total,
		"page":       page,
		"totalPages": pages,
	})
}
