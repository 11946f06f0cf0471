package tuitionRepo

import (
	"context"
	"time"

	"tutorlink/models"
)

// ListFilter narrows and pages the tuition listing.
type ListFilter struct {
	Status      string
	TuitionType string
	Grade       string
	Search      string
	Page        int64
	Limit       int64
	SortBy      string
	SortAsc     bool
}

// RevenueSummary aggregates settled payments.
type RevenueSummary struct {
	TotalRevenue       float64 `json:"totalRevenue"`
	PlatformEarnings   float64 `json:"platformEarnings"`
	TransactionCount   int64   `json:"transactionCount"`
	AverageTransaction float64 `json:"averageTransaction"`
}

// RevenueBucket is one period of the revenue trend.
type RevenueBucket struct {
	Period        string  `bson:"_id" json:"period"`
	Revenue       float64 `bson:"revenue" json:"revenue"`
	Transactions  int64   `bson:"transactions" json:"transactions"`
	AverageAmount float64 `bson:"averageAmount" json:"averageAmount"`
}

// TuitionRepository owns all persistent state of tuition requests.
//
// Every mutating method that carries a precondition (open status, tutor
// uniqueness, assignedTutor unset, paymentStatus unpaid, owner match)
// enforces it inside the write itself, never as a separate prior read.
// A failed precondition surfaces as one of the package sentinel errors.
type TuitionRepository interface {
	Create(ctx context.Context, t *models.TuitionRequest) error
	GetByID(ctx context.Context, id string) (*models.TuitionRequest, error)
	List(ctx context.Context, f ListFilter) ([]models.TuitionRequest, int64, error)
	ListAppliedBy(ctx context.Context, tutorID string) ([]models.TuitionRequest, error)
	ListAssignedTo(ctx context.Context, tutorID string) ([]models.TuitionRequest, error)

	// Delete removes the record only while it is still open, unassigned,
	// unpaid and owned by ownerID.
	Delete(ctx context.Context, id, ownerID string) error

	// SubmitApplication pushes the application, its schedule proposal and
	// a history entry onto the tuition, and increments the tutor's
	// application counter, all in one transaction.
	SubmitApplication(ctx context.Context, tuitionID string, app models.Application, proposal models.ScheduleProposal, entry models.StatusHistoryEntry) error
	WithdrawApplication(ctx context.Context, tuitionID, tutorID string) error
	UpdateApplication(ctx context.Context, tuitionID, tutorID string, proposedRate *float64, message *string) error

	// AcceptApplication marks the tutor's application accepted, every
	// other application rejected, sets assignedTutor and status=assigned,
	// and appends the history entry, atomically. The assignedTutor-unset
	// precondition is part of the write; the loser of a concurrent race
	// observes ErrAlreadyAssigned.
	AcceptApplication(ctx context.Context, tuitionID, tutorID, actorID string, entry models.StatusHistoryEntry) error
	RejectApplication(ctx context.Context, tuitionID, tutorID, actorID string) error

	// SettlePayment applies the payment-completion event: the same
	// accept/reject sweep as AcceptApplication plus paymentStatus=paid,
	// paymentIntentId, paidAt and status=in-progress, in one write guarded
	// by paymentStatus=unpaid. A second delivery of the same event
	// returns ErrAlreadyPaid and changes nothing.
	SettlePayment(ctx context.Context, tuitionID, tutorID, paymentRef string, paidAt time.Time) error

	UpdateStatus(ctx context.Context, id, status string, entry models.StatusHistoryEntry) error

	// ExpireStaleOpen cancels open, unpaid tuitions created before the
	// cutoff and returns how many were swept.
	ExpireStaleOpen(ctx context.Context, cutoff time.Time, entry models.StatusHistoryEntry) (int64, error)

	RevenueSummary(ctx context.Context, since *time.Time) (*RevenueSummary, error)
	RecentTransactions(ctx context.Context, limit int64) ([]models.TuitionRequest, error)
	RevenueTrend(ctx context.Context, period string, limit int64) ([]RevenueBucket, error)
}
