package models

import "time"

// User roles. Schedule proposals only ever come from students,
// guardians or teachers.
const (
	RoleStudent  = "student"
	RoleGuardian = "guardian"
	RoleTeacher  = "teacher"
	RoleAdmin    = "admin"
)

// Account statuses.
const (
	UserStatusPending   = "pending"
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
	UserStatusBanned    = "banned"
	UserStatusDeleted   = "deleted"
)

// TutorProfile holds the teaching-specific fields of a teacher account.
type TutorProfile struct {
	Subjects        []string  `bson:"subjects" json:"subjects"`
	HourlyRate      float64   `bson:"hourlyRate,omitempty" json:"hourlyRate,omitempty"`
	ExperienceYears int       `bson:"experienceYears,omitempty" json:"experienceYears,omitempty"`
	City            string    `bson:"city,omitempty" json:"city,omitempty"`
	Availability    []DaySlot `bson:"availability,omitempty" json:"availability,omitempty"`
}

// User is a platform account. Credentials live in Firebase; UID links
// the verified token back to this record.
type User struct {
	ID        string `bson:"id" json:"id"`
	UID       string `bson:"uid" json:"uid"`
	Name      string `bson:"name" json:"name"`
	Email     string `bson:"email" json:"email"`
	Phone     string `bson:"phone,omitempty" json:"phone,omitempty"`
	AvatarURL string `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`

	Role         string        `bson:"role" json:"role"`
	TutorProfile *TutorProfile `bson:"tutorProfile,omitempty" json:"tutorProfile,omitempty"`

	// ApplicationCount tracks how many tuition applications this tutor
	// has submitted; incremented in the same transaction as the
	// application push.
	ApplicationCount int `bson:"applicationCount" json:"applicationCount"`

	Status        string               `bson:"status" json:"status"`
	StatusHistory []StatusHistoryEntry `bson:"statusHistory,omitempty" json:"statusHistory,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Principal is the authenticated identity resolved by the auth
// middleware before any core operation runs.
type Principal struct {
	ID     string `json:"id"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

// CanPostTuitions reports whether the role may create tuition requests.
func (p Principal) CanPostTuitions() bool {
	return p.Role == RoleStudent || p.Role == RoleGuardian
}
