package tuition

import (
	"context"
	"encoding/json"
	"time"

	tuitionRepo "tutorlink/database/repository/tuition"
	"tutorlink/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const cacheTTL = 5 * time.Minute

func cacheKey(id string) string {
	return "tuition:" + id
}

// CreateTuition validates and persists a new tuition request in the
// open state with an initial ledger entry.
func (s *DefaultTuitionService) CreateTuition(ctx context.Context, in CreateTuitionInput) (*models.TuitionRequest, error) {
	if in.Title == "" {
		return nil, validationErr("title is required")
	}
	if in.Description == "" {
		return nil, validationErr("description is required")
	}
	if len(in.Subjects) == 0 {
		return nil, validationErr("at least one subject is required")
	}
	switch in.TuitionType {
	case models.TuitionTypeOnline, models.TuitionTypeOffline, models.TuitionTypeHybrid:
	default:
		return nil, validationErr("invalid tuition type %q", in.TuitionType)
	}
	if in.TotalFee < 0 {
		return nil, validationErr("total fee must not be negative")
	}
	if in.TuitionType != models.TuitionTypeOnline {
		if in.Location == nil || in.Location.City == "" || in.Location.Area == "" || in.Location.Address == "" {
			return nil, validationErr("complete location is required for %s tuition", in.TuitionType)
		}
	}

	now := time.Now()
	proposals := make([]models.ScheduleProposal, 0, len(in.Proposals))
	for _, p := range in.Proposals {
		if !validProposalRole(p.Role) {
			return nil, validationErr("invalid role %q in schedule proposal", p.Role)
		}
		if err := validateSchedule(p.Schedule); err != nil {
			return nil, err
		}
		p.ProposedBy = in.PostedBy
		p.ProposedAt = now
		proposals = append(proposals, p)
	}

	t := &models.TuitionRequest{
		ID:                uuid.New().String(),
		PostedBy:          in.PostedBy,
		GuardianPosted:    in.GuardianPosted,
		Title:             in.Title,
		Description:       in.Description,
		Grade:             in.Grade,
		Subjects:          in.Subjects,
		TuitionType:       in.TuitionType,
		Location:          in.Location,
		ScheduleProposals: proposals,
		TotalFee:          in.TotalFee,
		PaymentStatus:     models.PaymentStatusUnpaid,
		Applications:      []models.Application{},
		Status:            models.TuitionStatusOpen,
		StatusHistory: []models.StatusHistoryEntry{{
			Status:    models.TuitionStatusOpen,
			ChangedBy: in.PostedBy,
			ChangedAt: now,
			Reason:    "tuition posted",
		}},
		IsActive: true,
	}

	if err := s.Repo.Create(ctx, t); err != nil {
		return nil, fromRepoErr(err)
	}
	s.Logger.Info("tuition created",
		zap.String("tuitionId", t.ID),
		zap.String("postedBy", t.PostedBy))
	return t, nil
}

// GetTuition fetches one tuition request, serving repeated reads from
// the cache.
func (s *DefaultTuitionService) GetTuition(ctx context.Context, id string) (*models.TuitionRequest, error) {
	if s.Cache != nil {
		if data, err := s.Cache.Get(ctx, cacheKey(id)).Result(); err == nil {
			var t models.TuitionRequest
			if err := json.Unmarshal([]byte(data), &t); err == nil {
				return &t, nil
			}
		}
	}

	t, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepoErr(err)
	}

	if s.Cache != nil {
		if data, err := json.Marshal(t); err == nil {
			s.Cache.Set(ctx, cacheKey(id), data, cacheTTL)
		}
	}
	return t, nil
}

// ListTuitions lists active tuition requests with filters and paging.
func (s *DefaultTuitionService) ListTuitions(ctx context.Context, f tuitionRepo.ListFilter) ([]models.TuitionRequest, int64, error) {
	tuitions, total, err := s.Repo.List(ctx, f)
	if err != nil {
		return nil, 0, fromRepoErr(err)
	}
	return tuitions, total, nil
}

// DeleteTuition removes a posting. Only the owner may delete, and only
// while the record is open, unassigned and unpaid; the repository
// enforces the whole guard inside the delete itself.
func (s *DefaultTuitionService) DeleteTuition(ctx context.Context, tuitionID, actorID string) error {
	if err := s.Repo.Delete(ctx, tuitionID, actorID); err != nil {
		return fromRepoErr(err)
	}
	s.invalidate(ctx, tuitionID)
	s.Logger.Info("tuition deleted", zap.String("tuitionId", tuitionID))
	return nil
}

// invalidate drops the cached copy after any mutation.
func (s *DefaultTuitionService) invalidate(ctx context.Context, id string) {
	if s.Cache != nil {
		s.Cache.Del(ctx, cacheKey(id))
	}
}
