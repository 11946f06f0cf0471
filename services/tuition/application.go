package tuition

import (
	"context"
	"strings"
	"time"

	"tutorlink/models"

	"go.uber.org/zap"
)

// SubmitApplication records a tutor's bid on an open tuition request.
//
// The subject and account checks run up front; the open-status and
// uniqueness preconditions are enforced again inside the repository's
// transactional write, so a concurrent state change cannot slip an
// invalid application through.
func (s *DefaultTuitionService) SubmitApplication(ctx context.Context, in SubmitApplicationInput) (*models.Application, error) {
	if in.ProposedRate <= 0 {
		return nil, validationErr("proposed rate must be a positive number")
	}
	if err := validateSchedule(in.Schedule); err != nil {
		return nil, err
	}

	tutor, err := s.UserRepo.GetByID(ctx, in.TutorID)
	if err != nil {
		return nil, fromRepoErr(err)
	}
	if tutor.Role != models.RoleTeacher {
		return nil, validationErr("only teacher accounts may apply to tuitions")
	}
	if tutor.Status != models.UserStatusActive {
		return nil, validationErr("tutor account is not active")
	}

	t, err := s.Repo.GetByID(ctx, in.TuitionID)
	if err != nil {
		return nil, fromRepoErr(err)
	}
	var offered []string
	if tutor.TutorProfile != nil {
		offered = tutor.TutorProfile.Subjects
	}
	if !subjectsIntersect(t.Subjects, offered) {
		return nil, validationErr("tutor subjects [%s] do not match required subjects [%s]",
			strings.Join(offered, ", "), strings.Join(t.Subjects, ", "))
	}

	now := time.Now()
	app := models.Application{
		Tutor:        in.TutorID,
		ProposedRate: in.ProposedRate,
		Message:      in.Message,
		Status:       models.ApplicationStatusPending,
		AppliedAt:    now,
	}
	proposal := models.ScheduleProposal{
		ProposedBy: in.TutorID,
		Role:       models.RoleTeacher,
		Schedule:   in.Schedule,
		ProposedAt: now,
	}
	entry := models.StatusHistoryEntry{
		Status:    t.Status,
		ChangedBy: in.TutorID,
		ChangedAt: now,
		Reason:    "new application received",
	}

	if err := s.Repo.SubmitApplication(ctx, in.TuitionID, app, proposal, entry); err != nil {
		return nil, fromRepoErr(err)
	}
	s.invalidate(ctx, in.TuitionID)
	s.Logger.Info("application submitted",
		zap.String("tuitionId", in.TuitionID),
		zap.String("tutorId", in.TutorID),
		zap.Float64("proposedRate", in.ProposedRate))
	return &app, nil
}

// WithdrawApplication removes the tutor's application while the tuition
// is still open. Withdrawing twice is a not-found error.
func (s *DefaultTuitionService) WithdrawApplication(ctx context.Context, tuitionID, tutorID string) error {
	if err := s.Repo.WithdrawApplication(ctx, tuitionID, tutorID); err != nil {
		return fromRepoErr(err)
	}
	s.invalidate(ctx, tuitionID)
	s.Logger.Info("application withdrawn",
		zap.String("tuitionId", tuitionID),
		zap.String("tutorId", tutorID))
	return nil
}

// UpdateApplication edits the rate and/or message of an existing
// application while the tuition is still open.
func (s *DefaultTuitionService) UpdateApplication(ctx context.Context, in UpdateApplicationInput) error {
	if in.ProposedRate == nil && in.Message == nil {
		return validationErr("nothing to update")
	}
	if in.ProposedRate != nil && *in.ProposedRate <= 0 {
		return validationErr("proposed rate must be a positive number")
	}
	if err := s.Repo.UpdateApplication(ctx, in.TuitionID, in.TutorID, in.ProposedRate, in.Message); err != nil {
		return fromRepoErr(err)
	}
	s.invalidate(ctx, in.TuitionID)
	return nil
}

// ListAppliedTuitions returns every tuition the tutor has applied to.
func (s *DefaultTuitionService) ListAppliedTuitions(ctx context.Context, tutorID string) ([]models.TuitionRequest, error) {
	tuitions, err := s.Repo.ListAppliedBy(ctx, tutorID)
	if err != nil {
		return nil, fromRepoErr(err)
	}
	return tuitions, nil
}

// ListOngoingTuitions returns the tutor's assigned and in-progress tuitions.
func (s *DefaultTuitionService) ListOngoingTuitions(ctx context.Context, tutorID string) ([]models.TuitionRequest, error) {
	tuitions, err := s.Repo.ListAssignedTo(ctx, tutorID)
	if err != nil {
		return nil, fromRepoErr(err)
	}
	return tuitions, nil
}
