package tuition

import (
	"context"
	"time"

	"tutorlink/config"
	"tutorlink/models"

	"go.uber.org/zap"
)

// ApproveTuition reopens a posting on behalf of an admin and records
// the approval in the ledger.
func (s *DefaultTuitionService) ApproveTuition(ctx context.Context, tuitionID, adminID string) (*models.TuitionRequest, error) {
	entry := models.StatusHistoryEntry{
		Status:    models.TuitionStatusOpen,
		ChangedBy: adminID,
		ChangedAt: time.Now(),
		Reason:    "approved by admin",
	}
	if err := s.Repo.UpdateStatus(ctx, tuitionID, models.TuitionStatusOpen, entry); err != nil {
		return nil, fromRepoErr(err)
	}
	s.invalidate(ctx, tuitionID)

	t, err := s.Repo.GetByID(ctx, tuitionID)
	if err != nil {
		return nil, fromRepoErr(err)
	}
	return t, nil
}

// CancelTuition cancels a posting on behalf of an admin. A reason is
// mandatory because the owner will see it.
func (s *DefaultTuitionService) CancelTuition(ctx context.Context, tuitionID, adminID, reason string) error {
	if reason == "" {
		return validationErr("a cancellation reason is required")
	}
	entry := models.StatusHistoryEntry{
		Status:    models.TuitionStatusCancelled,
		ChangedBy: adminID,
		ChangedAt: time.Now(),
		Reason:    reason,
	}
	if err := s.Repo.UpdateStatus(ctx, tuitionID, models.TuitionStatusCancelled, entry); err != nil {
		return fromRepoErr(err)
	}
	s.invalidate(ctx, tuitionID)
	s.Logger.Info("tuition cancelled by admin",
		zap.String("tuitionId", tuitionID),
		zap.String("reason", reason))
	return nil
}

// UpdateTuitionStatus forces a lifecycle status on behalf of an admin.
func (s *DefaultTuitionService) UpdateTuitionStatus(ctx context.Context, tuitionID, adminID, status, reason string) error {
	valid := false
	for _, st := range models.ValidTuitionStatuses {
		if st == status {
			valid = true
			break
		}
	}
	if !valid {
		return validationErr("invalid status %q", status)
	}

	if reason == "" {
		reason = "status changed by admin"
	}
	entry := models.StatusHistoryEntry{
		Status:    status,
		ChangedBy: adminID,
		ChangedAt: time.Now(),
		Reason:    reason,
	}
	if err := s.Repo.UpdateStatus(ctx, tuitionID, status, entry); err != nil {
		return fromRepoErr(err)
	}
	s.invalidate(ctx, tuitionID)
	return nil
}

// ExpireStaleTuitions cancels open, unpaid postings older than the
// configured TTL. Invoked by the background sweep.
func (s *DefaultTuitionService) ExpireStaleTuitions(ctx context.Context) (int64, error) {
	ttl := time.Duration(config.AppConfig.StaleOpenTTLHours) * time.Hour
	cutoff := time.Now().Add(-ttl)
	entry := models.StatusHistoryEntry{
		Status:    models.TuitionStatusCancelled,
		ChangedBy: "system",
		ChangedAt: time.Now(),
		Reason:    "expired",
	}

	swept, err := s.Repo.ExpireStaleOpen(ctx, cutoff, entry)
	if err != nil {
		return 0, fromRepoErr(err)
	}
	if swept > 0 {
		s.Logger.Info("stale tuitions expired", zap.Int64("count", swept))
	}
	return swept, nil
}
