package tuition

import (
	"context"
	"time"

	"tutorlink/models"

	"go.uber.org/zap"
)

// AcceptApplication binds one tutor to the tuition: their application
// becomes accepted, every other application rejected, and the tuition
// moves to assigned. The whole sweep is one atomic repository write;
// when two accepts race, exactly one wins and the other surfaces an
// already-assigned conflict.
func (s *DefaultTuitionService) AcceptApplication(ctx context.Context, tuitionID, tutorID, actorID string) (*models.TuitionRequest, error) {
	entry := models.StatusHistoryEntry{
		Status:    models.TuitionStatusAssigned,
		ChangedBy: actorID,
		ChangedAt: time.Now(),
		Reason:    "application accepted",
	}

	if err := s.Repo.AcceptApplication(ctx, tuitionID, tutorID, actorID, entry); err != nil {
		return nil, fromRepoErr(err)
	}
	s.invalidate(ctx, tuitionID)
	s.Logger.Info("application accepted",
		zap.String("tuitionId", tuitionID),
		zap.String("tutorId", tutorID))

	t, err := s.Repo.GetByID(ctx, tuitionID)
	if err != nil {
		return nil, fromRepoErr(err)
	}
	return t, nil
}

// RejectApplication turns one pending application down without touching
// the rest of the record. Not available once a tutor is assigned.
func (s *DefaultTuitionService) RejectApplication(ctx context.Context, tuitionID, tutorID, actorID string) error {
	if err := s.Repo.RejectApplication(ctx, tuitionID, tutorID, actorID); err != nil {
		return fromRepoErr(err)
	}
	s.invalidate(ctx, tuitionID)
	s.Logger.Info("application rejected",
		zap.String("tuitionId", tuitionID),
		zap.String("tutorId", tutorID))
	return nil
}
