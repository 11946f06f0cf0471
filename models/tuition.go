package models

import "time"

// Tuition lifecycle statuses. A tuition request moves
// open -> assigned -> in-progress -> completed, or -> cancelled.
const (
	TuitionStatusOpen       = "open"
	TuitionStatusAssigned   = "assigned"
	TuitionStatusInProgress = "in-progress"
	TuitionStatusCompleted  = "completed"
	TuitionStatusCancelled  = "cancelled"
)

// Payment statuses on a tuition request.
const (
	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"
)

// Tuition types. Offline and hybrid tuitions require a complete location.
const (
	TuitionTypeOnline  = "online"
	TuitionTypeOffline = "offline"
	TuitionTypeHybrid  = "hybrid"
)

// Application statuses for a tutor's application on a tuition request.
const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusAccepted = "accepted"
	ApplicationStatusRejected = "rejected"
)

// ValidTuitionStatuses enumerates every status an admin may force a
// tuition request into.
var ValidTuitionStatuses = []string{
	TuitionStatusOpen,
	TuitionStatusAssigned,
	TuitionStatusInProgress,
	TuitionStatusCompleted,
	TuitionStatusCancelled,
}

// Location is the in-person meeting point for offline/hybrid tuitions.
type Location struct {
	City    string `bson:"city" json:"city"`
	Area    string `bson:"area" json:"area"`
	Address string `bson:"address" json:"address"`
}

// DaySlot is a single teaching window within a week. Day is 0-6,
// From/To are 24-hour "HH:mm" strings with From strictly before To.
type DaySlot struct {
	Day     int    `bson:"day" json:"day"`
	Subject string `bson:"subject,omitempty" json:"subject,omitempty"`
	From    string `bson:"from" json:"from"`
	To      string `bson:"to" json:"to"`
}

// ScheduleProposal is one party's proposed weekly schedule.
type ScheduleProposal struct {
	ProposedBy string    `bson:"proposedBy" json:"proposedBy"`
	Role       string    `bson:"role" json:"role"` // "student", "guardian" or "teacher"
	Schedule   []DaySlot `bson:"schedule" json:"schedule"`
	ProposedAt time.Time `bson:"proposedAt" json:"proposedAt"`
}

// FinalSchedule is the agreed schedule once tutoring starts.
type FinalSchedule struct {
	Schedule []DaySlot `bson:"schedule" json:"schedule"`
}

// Application is a tutor's bid on a tuition request. At most one
// application per tutor id exists within a tuition request.
type Application struct {
	Tutor        string    `bson:"tutor" json:"tutor"`
	ProposedRate float64   `bson:"proposedRate" json:"proposedRate"`
	Message      string    `bson:"message,omitempty" json:"message,omitempty"`
	Status       string    `bson:"status" json:"status"`
	AppliedAt    time.Time `bson:"appliedAt" json:"appliedAt"`
}

// StatusHistoryEntry is one row of the append-only audit trail embedded
// in a tuition request. Entries are never mutated or removed.
type StatusHistoryEntry struct {
	Status    string    `bson:"status" json:"status"`
	ChangedBy string    `bson:"changedBy" json:"changedBy"`
	ChangedAt time.Time `bson:"changedAt" json:"changedAt"`
	Reason    string    `bson:"reason,omitempty" json:"reason,omitempty"`
}

// TuitionRequest is the root aggregate of the marketplace: one posted
// request for tutoring with its applications, schedule negotiation,
// payment state and full status history embedded in a single document.
type TuitionRequest struct {
	ID             string `bson:"id" json:"id"`
	PostedBy       string `bson:"postedBy" json:"postedBy"`
	GuardianPosted string `bson:"guardianPosted,omitempty" json:"guardianPosted,omitempty"`

	Title       string   `bson:"title" json:"title"`
	Description string   `bson:"description" json:"description"`
	Grade       string   `bson:"grade,omitempty" json:"grade,omitempty"`
	Subjects    []string `bson:"subjects" json:"subjects"`

	TuitionType string    `bson:"tuitionType" json:"tuitionType"`
	Location    *Location `bson:"location,omitempty" json:"location,omitempty"`

	ScheduleProposals []ScheduleProposal `bson:"scheduleProposals" json:"scheduleProposals"`
	FinalSchedule     *FinalSchedule     `bson:"finalSchedule,omitempty" json:"finalSchedule,omitempty"`

	TotalFee        float64    `bson:"totalFee" json:"totalFee"`
	PaymentStatus   string     `bson:"paymentStatus" json:"paymentStatus"`
	PaymentIntentID string     `bson:"paymentIntentId,omitempty" json:"paymentIntentId,omitempty"`
	PaidAt          *time.Time `bson:"paidAt,omitempty" json:"paidAt,omitempty"`

	Applications  []Application `bson:"applications" json:"applications"`
	AssignedTutor string        `bson:"assignedTutor,omitempty" json:"assignedTutor,omitempty"`

	Status        string               `bson:"status" json:"status"`
	StatusHistory []StatusHistoryEntry `bson:"statusHistory" json:"statusHistory"`

	IsActive  bool      `bson:"isActive" json:"isActive"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ApplicationFor returns the application submitted by the given tutor,
// or nil if none exists.
func (t *TuitionRequest) ApplicationFor(tutorID string) *Application {
	for i := range t.Applications {
		if t.Applications[i].Tutor == tutorID {
			return &t.Applications[i]
		}
	}
	return nil
}

// RequiresLocation reports whether the tuition type needs an in-person
// meeting point.
func (t *TuitionRequest) RequiresLocation() bool {
	return t.TuitionType == TuitionTypeOffline || t.TuitionType == TuitionTypeHybrid
}

// Deletable reports whether the record may still be hard-deleted by its
// owner: never after assignment, payment, or leaving the open state.
func (t *TuitionRequest) Deletable() bool {
	return t.Status == TuitionStatusOpen &&
		t.AssignedTutor == "" &&
		t.PaymentStatus == PaymentStatusUnpaid
}
