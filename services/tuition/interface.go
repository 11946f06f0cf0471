package tuition

import (
	"context"

	tuitionRepo "tutorlink/database/repository/tuition"
	userRepo "tutorlink/database/repository/user"
	"tutorlink/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CreateTuitionInput carries everything needed to post a tuition request.
type CreateTuitionInput struct {
	PostedBy       string                    `json:"-"`
	PostedByRole   string                    `json:"-"`
	GuardianPosted string                    `json:"guardianPosted"`
	Title          string                    `json:"title"`
	Description    string                    `json:"description"`
	Grade          string                    `json:"grade"`
	Subjects       []string                  `json:"subjects"`
	TuitionType    string                    `json:"tuitionType"`
	Location       *models.Location          `json:"location"`
	TotalFee       float64                   `json:"totalFee"`
	Proposals      []models.ScheduleProposal `json:"scheduleProposals"`
}

// SubmitApplicationInput carries a tutor's bid on a tuition request.
type SubmitApplicationInput struct {
	TuitionID    string
	TutorID      string
	ProposedRate float64
	Message      string
	Schedule     []models.DaySlot
}

// UpdateApplicationInput edits an existing application in place. Nil
// fields are left untouched.
type UpdateApplicationInput struct {
	TuitionID    string
	TutorID      string
	ProposedRate *float64
	Message      *string
}

// TuitionService is the core of the marketplace: the tuition lifecycle
// from posting through applications, assignment and payment settlement.
type TuitionService interface {
	CreateTuition(ctx context.Context, in CreateTuitionInput) (*models.TuitionRequest, error)
	GetTuition(ctx context.Context, id string) (*models.TuitionRequest, error)
	ListTuitions(ctx context.Context, f tuitionRepo.ListFilter) ([]models.TuitionRequest, int64, error)
	DeleteTuition(ctx context.Context, tuitionID, actorID string) error

	SubmitApplication(ctx context.Context, in SubmitApplicationInput) (*models.Application, error)
	WithdrawApplication(ctx context.Context, tuitionID, tutorID string) error
	UpdateApplication(ctx context.Context, in UpdateApplicationInput) error
	ListAppliedTuitions(ctx context.Context, tutorID string) ([]models.TuitionRequest, error)
	ListOngoingTuitions(ctx context.Context, tutorID string) ([]models.TuitionRequest, error)

	AcceptApplication(ctx context.Context, tuitionID, tutorID, actorID string) (*models.TuitionRequest, error)
	RejectApplication(ctx context.Context, tuitionID, tutorID, actorID string) error

	CreateCheckout(ctx context.Context, tuitionID, tutorID, studentID string) (string, error)
	ReconcilePaymentEvent(ctx context.Context, payload []byte, sigHeader string) error

	ApproveTuition(ctx context.Context, tuitionID, adminID string) (*models.TuitionRequest, error)
	CancelTuition(ctx context.Context, tuitionID, adminID, reason string) error
	UpdateTuitionStatus(ctx context.Context, tuitionID, adminID, status, reason string) error
	ExpireStaleTuitions(ctx context.Context) (int64, error)
}

// DefaultTuitionService implements TuitionService.
type DefaultTuitionService struct {
	Repo          tuitionRepo.TuitionRepository
	UserRepo      userRepo.UserRepository
	Gateway       CheckoutGateway
	WebhookSecret string
	Cache         *redis.Client
	Logger        *zap.Logger
}
