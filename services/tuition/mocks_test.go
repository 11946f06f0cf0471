package tuition

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	tuitionRepo "tutorlink/database/repository/tuition"
	userRepo "tutorlink/database/repository/user"
	"tutorlink/models"

	"go.uber.org/zap"
)

// memUserRepo is an in-memory stand-in for the Mongo user repository.
type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemUserRepo(users ...*models.User) *memUserRepo {
	r := &memUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, userRepo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByUID(_ context.Context, uid string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.UID == uid {
			cp := *u
			return &cp, nil
		}
	}
	return nil, userRepo.ErrNotFound
}

func (r *memUserRepo) ListTeachers(_ context.Context, f userRepo.TeacherFilter) ([]models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, u := range r.users {
		if u.Role != models.RoleTeacher || u.Status != models.UserStatusActive {
			continue
		}
		if f.City != "" && (u.TutorProfile == nil || !strings.EqualFold(u.TutorProfile.City, f.City)) {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *memUserRepo) applicationCount(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return u.ApplicationCount
	}
	return 0
}

// memTuitionRepo is an in-memory tuition repository that mirrors the
// Mongo implementation's precondition and sentinel-error contract.
type memTuitionRepo struct {
	mu       sync.Mutex
	tuitions map[string]*models.TuitionRequest
	users    *memUserRepo

	settleErr error // when set, SettlePayment fails with this error
}

func newMemTuitionRepo(users *memUserRepo) *memTuitionRepo {
	return &memTuitionRepo{
		tuitions: make(map[string]*models.TuitionRequest),
		users:    users,
	}
}

func copyTuition(t *models.TuitionRequest) *models.TuitionRequest {
	cp := *t
	cp.Subjects = append([]string(nil), t.Subjects...)
	cp.ScheduleProposals = append([]models.ScheduleProposal(nil), t.ScheduleProposals...)
	cp.Applications = append([]models.Application(nil), t.Applications...)
	cp.StatusHistory = append([]models.StatusHistoryEntry(nil), t.StatusHistory...)
	return &cp
}

func (r *memTuitionRepo) Create(_ context.Context, t *models.TuitionRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	r.tuitions[t.ID] = copyTuition(t)
	return nil
}

func (r *memTuitionRepo) GetByID(_ context.Context, id string) (*models.TuitionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tuitions[id]
	if !ok || !t.IsActive {
		return nil, tuitionRepo.ErrNotFound
	}
	return copyTuition(t), nil
}

func (r *memTuitionRepo) List(_ context.Context, f tuitionRepo.ListFilter) ([]models.TuitionRequest, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.TuitionRequest
	for _, t := range r.tuitions {
		if !t.IsActive {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.TuitionType != "" && t.TuitionType != f.TuitionType {
			continue
		}
		if f.Grade != "" && t.Grade != f.Grade {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, *copyTuition(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *memTuitionRepo) ListAppliedBy(_ context.Context, tutorID string) ([]models.TuitionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.TuitionRequest
	for _, t := range r.tuitions {
		if t.IsActive && t.ApplicationFor(tutorID) != nil {
			out = append(out, *copyTuition(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memTuitionRepo) ListAssignedTo(_ context.Context, tutorID string) ([]models.TuitionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.TuitionRequest
	for _, t := range r.tuitions {
		if t.IsActive && t.AssignedTutor == tutorID {
			out = append(out, *copyTuition(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memTuitionRepo) Delete(_ context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tuitions[id]
	if !ok || !t.IsActive {
		return tuitionRepo.ErrNotFound
	}
	if t.PostedBy != ownerID {
		return tuitionRepo.ErrNotOwner
	}
	if !t.Deletable() {
		return tuitionRepo.ErrNotDeletable
	}
	delete(r.tuitions, id)
	return nil
}

func (r *memTuitionRepo) SubmitApplication(_ context.Context, tuitionID string, app models.Application, proposal models.ScheduleProposal, entry models.StatusHistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tuitions[tuitionID]
	if !ok || !t.IsActive {
		return tuitionRepo.ErrNotFound
	}
	if t.Status != models.TuitionStatusOpen {
		return tuitionRepo.ErrNotOpen
	}
	if t.ApplicationFor(app.Tutor) != nil {
		return tuitionRepo.ErrAlreadyApplied
	}

	r.users.mu.Lock()
	tutor, ok := r.users.users[app.Tutor]
	if !ok {
		r.users.mu.Unlock()
		return fmt.Errorf("tutor %s not found", app.Tutor)
	}
	tutor.ApplicationCount++
	r.users.mu.Unlock()

	t.Applications = append(t.Applications, app)
	t.ScheduleProposals = append(t.ScheduleProposals, proposal)
	t.StatusHistory = append(t.StatusHistory, entry)
	t.UpdatedAt = time.Now()
	return nil
}

func (r *memTuitionRepo) WithdrawApplication(_ context.Context, tuitionID, tutorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tuitions[tuitionID]
	if !ok || !t.IsActive {
		return tuitionRepo.ErrNotFound
	}
	if t.Status != models.TuitionStatusOpen {
		return tuitionRepo.ErrNotOpen
	}
	for i := range t.Applications {
		if t.Applications[i].Tutor == tutorID {
			t.Applications = append(t.Applications[:i], t.Applications[i+1:]...)
			t.UpdatedAt = time.Now()
			return nil
		}
	}
	return tuitionRepo.ErrApplicationNotFound
}

func (r *memTuitionRepo) UpdateApplication(_ context.Context, tuitionID, tutorID string, proposedRate *float64, message *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tuitions[tuitionID]
	if !ok || !t.IsActive {
		return tuitionRepo.ErrNotFound
	}
	if t.Status != models.TuitionStatusOpen {
		return tuitionRepo.ErrNotOpen
	}
	app := t.ApplicationFor(tutorID)
	if app == nil {
		return tuitionRepo.ErrApplicationNotFound
	}
	if proposedRate != nil {
		app.ProposedRate = *proposedRate
	}
	if message != nil {
		app.Message = *message
	}
	t.UpdatedAt = time.Now()
	return nil
}

func sweepApplications(t *models.TuitionRequest, winner string) {
	for i := range t.Applications {
		if t.Applications[i].Tutor == winner {
			t.Applications[i].Status = models.ApplicationStatusAccepted
		} else {
			t.Applications[i].Status = models.ApplicationStatusRejected
		}
	}
}

func (r *memTuitionRepo) AcceptApplication(_ context.Context, tuitionID, tutorID, actorID string, entry models.StatusHistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tuitions[tuitionID]
	if !ok || !t.IsActive {
		return tuitionRepo.ErrNotFound
	}
	if t.PostedBy != actorID {
		return tuitionRepo.ErrNotOwner
	}
	if t.AssignedTutor != "" {
		return tuitionRepo.ErrAlreadyAssigned
	}
	if t.ApplicationFor(tutorID) == nil {
		return tuitionRepo.ErrApplicationNotFound
	}

	sweepApplications(t, tutorID)
	t.AssignedTutor = tutorID
	t.Status = models.TuitionStatusAssigned
	t.StatusHistory = append(t.StatusHistory, entry)
	t.UpdatedAt = time.Now()
	return nil
}

func (r *memTuitionRepo) RejectApplication(_ context.Context, tuitionID, tutorID, actorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tuitions[tuitionID]
	if !ok || !t.IsActive {
		return tuitionRepo.ErrNotFound
	}
	if t.PostedBy != actorID {
		return tuitionRepo.ErrNotOwner
	}
	if t.AssignedTutor != "" {
		return tuitionRepo.ErrAlreadyAssigned
	}
	app := t.ApplicationFor(tutorID)
	if app == nil {
		return tuitionRepo.ErrApplicationNotFound
	}
	if app.Status != models.ApplicationStatusPending {
		return tuitionRepo.ErrApplicationNotPending
	}
	app.Status = models.ApplicationStatusRejected
	t.UpdatedAt = time.Now()
	return nil
}

func (r *memTuitionRepo) SettlePayment(_ context.Context, tuitionID, tutorID, paymentRef string, paidAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.settleErr != nil {
		return r.settleErr
	}
	t, ok := r.tuitions[tuitionID]
	if !ok || !t.IsActive {
		return tuitionRepo.ErrNotFound
	}
	if t.PaymentStatus == models.PaymentStatusPaid {
		return tuitionRepo.ErrAlreadyPaid
	}

	sweepApplications(t, tutorID)
	t.AssignedTutor = tutorID
	t.Status = models.TuitionStatusInProgress
	t.PaymentStatus = models.PaymentStatusPaid
	t.PaymentIntentID = paymentRef
	t.PaidAt = &paidAt
	t.StatusHistory = append(t.StatusHistory, models.StatusHistoryEntry{
		Status:    models.TuitionStatusInProgress,
		ChangedBy: t.PostedBy,
		ChangedAt: paidAt,
		Reason:    "payment settled",
	})
	t.UpdatedAt = time.Now()
	return nil
}

func (r *memTuitionRepo) UpdateStatus(_ context.Context, id, status string, entry models.StatusHistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tuitions[id]
	if !ok || !t.IsActive {
		return tuitionRepo.ErrNotFound
	}
	t.Status = status
	t.StatusHistory = append(t.StatusHistory, entry)
	t.UpdatedAt = time.Now()
	return nil
}

func (r *memTuitionRepo) ExpireStaleOpen(_ context.Context, cutoff time.Time, entry models.StatusHistoryEntry) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var swept int64
	for _, t := range r.tuitions {
		if !t.IsActive || t.Status != models.TuitionStatusOpen ||
			t.PaymentStatus != models.PaymentStatusUnpaid ||
			t.AssignedTutor != "" || !t.CreatedAt.Before(cutoff) {
			continue
		}
		t.Status = models.TuitionStatusCancelled
		t.StatusHistory = append(t.StatusHistory, entry)
		t.UpdatedAt = time.Now()
		swept++
	}
	return swept, nil
}

func (r *memTuitionRepo) RevenueSummary(_ context.Context, since *time.Time) (*tuitionRepo.RevenueSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := &tuitionRepo.RevenueSummary{}
	for _, t := range r.tuitions {
		if t.PaymentStatus != models.PaymentStatusPaid || t.PaidAt == nil {
			continue
		}
		if since != nil && t.PaidAt.Before(*since) {
			continue
		}
		s.TotalRevenue += t.TotalFee
		s.TransactionCount++
	}
	s.PlatformEarnings = s.TotalRevenue * 0.1
	if s.TransactionCount > 0 {
		s.AverageTransaction = s.TotalRevenue / float64(s.TransactionCount)
	}
	return s, nil
}

func (r *memTuitionRepo) RecentTransactions(_ context.Context, limit int64) ([]models.TuitionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.TuitionRequest
	for _, t := range r.tuitions {
		if t.PaymentStatus == models.PaymentStatusPaid {
			out = append(out, *copyTuition(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memTuitionRepo) RevenueTrend(_ context.Context, period string, limit int64) ([]tuitionRepo.RevenueBucket, error) {
	return nil, nil
}

// fakeGateway records the last checkout request instead of calling out
// to Stripe.
type fakeGateway struct {
	mu    sync.Mutex
	last  CheckoutParams
	calls int
	url   string
	err   error
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, p CheckoutParams) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.last = p
	if g.err != nil {
		return "", g.err
	}
	return g.url, nil
}

const testWebhookSecret = "whsec_test_secret"

func newTestService(repo *memTuitionRepo, users *memUserRepo, gw *fakeGateway) *DefaultTuitionService {
	return &DefaultTuitionService{
		Repo:          repo,
		UserRepo:      users,
		Gateway:       gw,
		WebhookSecret: testWebhookSecret,
		Logger:        zap.NewNop(),
	}
}

// Fixtures.

func activeTeacher(id string, subjects ...string) *models.User {
	return &models.User{
		ID:     id,
		UID:    "uid-" + id,
		Name:   "Tutor " + id,
		Role:   models.RoleTeacher,
		Status: models.UserStatusActive,
		TutorProfile: &models.TutorProfile{
			Subjects: subjects,
			City:     "Dhaka",
		},
	}
}

func openTuition(id, owner string, subjects ...string) *models.TuitionRequest {
	return &models.TuitionRequest{
		ID:            id,
		PostedBy:      owner,
		Title:         "Physics tutoring for grade 10",
		Description:   "Twice a week, exam preparation",
		Grade:         "10",
		Subjects:      subjects,
		TuitionType:   models.TuitionTypeOnline,
		TotalFee:      200,
		PaymentStatus: models.PaymentStatusUnpaid,
		Applications:  []models.Application{},
		Status:        models.TuitionStatusOpen,
		StatusHistory: []models.StatusHistoryEntry{{
			Status:    models.TuitionStatusOpen,
			ChangedBy: owner,
			Reason:    "tuition posted",
		}},
		IsActive: true,
	}
}

func weeklySchedule() []models.DaySlot {
	return []models.DaySlot{
		{Day: 1, From: "18:00", To: "19:30"},
		{Day: 4, From: "18:00", To: "19:30"},
	}
}
