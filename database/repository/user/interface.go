package userRepo

import (
	"context"

	"tutorlink/models"
)

// TeacherFilter narrows and pages the tutor directory.
type TeacherFilter struct {
	City          string
	Subject       string
	MinExperience int
	MaxHourlyRate float64
	Page          int64
	Limit         int64
}

// UserRepository provides access to platform accounts. Credential
// storage and token issuance live in Firebase, not here.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUID(ctx context.Context, uid string) (*models.User, error)
	ListTeachers(ctx context.Context, f TeacherFilter) ([]models.User, int64, error)
}
