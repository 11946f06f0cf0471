package tuition

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"tutorlink/config"
	"tutorlink/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
)

// signedEvent builds a webhook payload for the given event type and
// checkout session object, signed the way Stripe signs deliveries.
func signedEvent(t *testing.T, eventType string, session map[string]interface{}) ([]byte, string) {
	t.Helper()
	payload, err := json.Marshal(map[string]interface{}{
		"id":          "evt_test_1",
		"type":        eventType,
		"api_version": stripe.APIVersion,
		"data":        map[string]interface{}{"object": session},
	})
	if err != nil {
		t.Fatalf("marshaling event: %v", err)
	}
	now := time.Now()
	sig := webhook.ComputeSignature(now, payload, testWebhookSecret)
	header := fmt.Sprintf("t=%d,v1=%s", now.Unix(), hex.EncodeToString(sig))
	return payload, header
}

func checkoutSessionObject(tuitionID, tutorID string) map[string]interface{} {
	return map[string]interface{}{
		"id": "cs_test_1",
		"metadata": map[string]string{
			"tuitionId": tuitionID,
			"tutorId":   tutorID,
			"studentId": "student-1",
		},
		"payment_intent": map[string]interface{}{"id": "pi_test_123"},
	}
}

func TestCreateCheckout(t *testing.T) {
	ctx := context.Background()
	config.AppConfig.Currency = "usd"
	config.AppConfig.CheckoutSuccessURL = "https://app.test/success"
	config.AppConfig.CheckoutCancelURL = "https://app.test/cancel"

	setup := func() (*memTuitionRepo, *fakeGateway, *DefaultTuitionService) {
		users := newMemUserRepo(activeTeacher("tutor-1", "physics"))
		repo := newMemTuitionRepo(users)
		seed := openTuition("t-1", "student-1", "physics")
		seed.Applications = []models.Application{{
			Tutor: "tutor-1", ProposedRate: 25, Status: models.ApplicationStatusPending,
		}}
		repo.tuitions["t-1"] = seed
		gw := &fakeGateway{url: "https://checkout.stripe.test/cs_test_1"}
		return repo, gw, newTestService(repo, users, gw)
	}

	t.Run("happy path", func(t *testing.T) {
		repo, gw, svc := setup()
		url, err := svc.CreateCheckout(ctx, "t-1", "tutor-1", "student-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if url != gw.url {
			t.Fatalf("got url %q, want %q", url, gw.url)
		}
		if gw.last.AmountMinorUnits != 20000 {
			t.Fatalf("amount %d minor units, want 20000 for a 200 fee", gw.last.AmountMinorUnits)
		}
		if gw.last.Metadata["tuitionId"] != "t-1" || gw.last.Metadata["tutorId"] != "tutor-1" {
			t.Fatalf("metadata must carry the settlement keys: %+v", gw.last.Metadata)
		}

		// Checkout creation must not touch the tuition.
		stored, _ := repo.GetByID(ctx, "t-1")
		if stored.PaymentStatus != models.PaymentStatusUnpaid || stored.Status != models.TuitionStatusOpen {
			t.Fatalf("checkout creation mutated the tuition: %+v", stored)
		}
	})

	t.Run("only the owner may pay", func(t *testing.T) {
		_, _, svc := setup()
		if _, err := svc.CreateCheckout(ctx, "t-1", "tutor-1", "student-2"); KindOf(err) != KindUnauthorized {
			t.Fatalf("expected unauthorized, got %v", err)
		}
	})

	t.Run("already paid", func(t *testing.T) {
		repo, _, svc := setup()
		repo.tuitions["t-1"].PaymentStatus = models.PaymentStatusPaid
		if _, err := svc.CreateCheckout(ctx, "t-1", "tutor-1", "student-1"); KindOf(err) != KindConflict {
			t.Fatalf("expected conflict, got %v", err)
		}
	})

	t.Run("tutor never applied", func(t *testing.T) {
		_, _, svc := setup()
		if _, err := svc.CreateCheckout(ctx, "t-1", "tutor-9", "student-1"); KindOf(err) != KindNotFound {
			t.Fatalf("expected not_found, got %v", err)
		}
	})

	t.Run("processor failure", func(t *testing.T) {
		_, gw, svc := setup()
		gw.err = errors.New("stripe is down")
		if _, err := svc.CreateCheckout(ctx, "t-1", "tutor-1", "student-1"); KindOf(err) != KindInternal {
			t.Fatalf("expected internal, got %v", err)
		}
	})
}

func TestReconcilePaymentEvent(t *testing.T) {
	ctx := context.Background()

	setup := func() (*memTuitionRepo, *DefaultTuitionService) {
		users := newMemUserRepo(
			activeTeacher("tutor-1", "physics"),
			activeTeacher("tutor-2", "physics"),
		)
		repo := newMemTuitionRepo(users)
		seed := openTuition("t-1", "student-1", "physics")
		seed.Applications = []models.Application{
			{Tutor: "tutor-1", ProposedRate: 25, Status: models.ApplicationStatusPending},
			{Tutor: "tutor-2", ProposedRate: 30, Status: models.ApplicationStatusPending},
		}
		repo.tuitions["t-1"] = seed
		return repo, newTestService(repo, users, &fakeGateway{})
	}

	t.Run("settles the payment", func(t *testing.T) {
		repo, svc := setup()
		payload, header := signedEvent(t, "checkout.session.completed", checkoutSessionObject("t-1", "tutor-1"))

		if err := svc.ReconcilePaymentEvent(ctx, payload, header); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		stored, _ := repo.GetByID(ctx, "t-1")
		if stored.PaymentStatus != models.PaymentStatusPaid {
			t.Fatal("tuition not marked paid")
		}
		if stored.Status != models.TuitionStatusInProgress {
			t.Fatalf("status %q, want in-progress", stored.Status)
		}
		if stored.AssignedTutor != "tutor-1" {
			t.Fatalf("assigned tutor %q, want tutor-1", stored.AssignedTutor)
		}
		if stored.PaymentIntentID != "pi_test_123" {
			t.Fatalf("payment ref %q, want pi_test_123", stored.PaymentIntentID)
		}
		if stored.PaidAt == nil {
			t.Fatal("paidAt not recorded")
		}
		if stored.ApplicationFor("tutor-1").Status != models.ApplicationStatusAccepted {
			t.Fatal("winning application not accepted")
		}
		if stored.ApplicationFor("tutor-2").Status != models.ApplicationStatusRejected {
			t.Fatal("losing application not rejected")
		}
		last := stored.StatusHistory[len(stored.StatusHistory)-1]
		if last.Reason != "payment settled" || last.ChangedBy != "student-1" {
			t.Fatalf("unexpected ledger entry %+v", last)
		}
	})

	t.Run("duplicate delivery is a no-op success", func(t *testing.T) {
		repo, svc := setup()
		payload, header := signedEvent(t, "checkout.session.completed", checkoutSessionObject("t-1", "tutor-1"))

		if err := svc.ReconcilePaymentEvent(ctx, payload, header); err != nil {
			t.Fatalf("first delivery: %v", err)
		}
		before, _ := repo.GetByID(ctx, "t-1")

		if err := svc.ReconcilePaymentEvent(ctx, payload, header); err != nil {
			t.Fatalf("re-delivery must resolve to success, got %v", err)
		}
		after, _ := repo.GetByID(ctx, "t-1")
		if len(after.StatusHistory) != len(before.StatusHistory) {
			t.Fatal("re-delivery must not grow the ledger")
		}
		if !after.PaidAt.Equal(*before.PaidAt) {
			t.Fatal("re-delivery must not move paidAt")
		}
	})

	t.Run("bad signature mutates nothing", func(t *testing.T) {
		repo, svc := setup()
		payload, _ := signedEvent(t, "checkout.session.completed", checkoutSessionObject("t-1", "tutor-1"))

		err := svc.ReconcilePaymentEvent(ctx, payload, "t=1,v1=deadbeef")
		if KindOf(err) != KindSignature {
			t.Fatalf("expected signature error, got %v", err)
		}
		stored, _ := repo.GetByID(ctx, "t-1")
		if stored.PaymentStatus != models.PaymentStatusUnpaid {
			t.Fatal("unverified payload must not settle a payment")
		}
	})

	t.Run("other event types are ignored", func(t *testing.T) {
		repo, svc := setup()
		payload, header := signedEvent(t, "payment_intent.created", checkoutSessionObject("t-1", "tutor-1"))

		if err := svc.ReconcilePaymentEvent(ctx, payload, header); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		stored, _ := repo.GetByID(ctx, "t-1")
		if stored.PaymentStatus != models.PaymentStatusUnpaid {
			t.Fatal("ignored event must not settle a payment")
		}
	})

	t.Run("storage failure surfaces as transaction error", func(t *testing.T) {
		repo, svc := setup()
		repo.settleErr = errors.New("connection reset")
		payload, header := signedEvent(t, "checkout.session.completed", checkoutSessionObject("t-1", "tutor-1"))

		if err := svc.ReconcilePaymentEvent(ctx, payload, header); KindOf(err) != KindTransaction {
			t.Fatalf("expected transaction error, got %v", err)
		}
	})

	t.Run("missing metadata", func(t *testing.T) {
		_, svc := setup()
		sess := map[string]interface{}{"id": "cs_test_1", "metadata": map[string]string{}}
		payload, header := signedEvent(t, "checkout.session.completed", sess)

		if err := svc.ReconcilePaymentEvent(ctx, payload, header); KindOf(err) != KindValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("falls back to session id without payment intent", func(t *testing.T) {
		repo, svc := setup()
		sess := checkoutSessionObject("t-1", "tutor-1")
		delete(sess, "payment_intent")
		payload, header := signedEvent(t, "checkout.session.completed", sess)

		if err := svc.ReconcilePaymentEvent(ctx, payload, header); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		stored, _ := repo.GetByID(ctx, "t-1")
		if stored.PaymentIntentID != "cs_test_1" {
			t.Fatalf("payment ref %q, want session id fallback", stored.PaymentIntentID)
		}
	})
}

// TestTuitionLifecycle walks the whole marketplace flow end to end:
// post, two applications, accept, checkout, webhook settlement.
func TestTuitionLifecycle(t *testing.T) {
	ctx := context.Background()
	config.AppConfig.Currency = "usd"

	users := newMemUserRepo(
		activeTeacher("tutor-1", "math"),
		activeTeacher("tutor-2", "math"),
	)
	repo := newMemTuitionRepo(users)
	gw := &fakeGateway{url: "https://checkout.stripe.test/cs_1"}
	svc := newTestService(repo, users, gw)

	created, err := svc.CreateTuition(ctx, CreateTuitionInput{
		PostedBy:    "student-1",
		Title:       "Algebra help needed",
		Description: "Grade 9 algebra, twice weekly",
		Subjects:    []string{"math"},
		TuitionType: models.TuitionTypeOnline,
		TotalFee:    120,
	})
	if err != nil {
		t.Fatalf("posting tuition: %v", err)
	}

	for _, id := range []string{"tutor-1", "tutor-2"} {
		if _, err := svc.SubmitApplication(ctx, SubmitApplicationInput{
			TuitionID: created.ID, TutorID: id, ProposedRate: 15, Schedule: weeklySchedule(),
		}); err != nil {
			t.Fatalf("application from %s: %v", id, err)
		}
	}

	if _, err := svc.AcceptApplication(ctx, created.ID, "tutor-1", "student-1"); err != nil {
		t.Fatalf("accepting application: %v", err)
	}

	if _, err := svc.CreateCheckout(ctx, created.ID, "tutor-1", "student-1"); err != nil {
		t.Fatalf("creating checkout: %v", err)
	}

	sess := checkoutSessionObject(created.ID, "tutor-1")
	payload, header := signedEvent(t, "checkout.session.completed", sess)
	if err := svc.ReconcilePaymentEvent(ctx, payload, header); err != nil {
		t.Fatalf("settling payment: %v", err)
	}

	final, err := svc.GetTuition(ctx, created.ID)
	if err != nil {
		t.Fatalf("loading final state: %v", err)
	}
	if final.Status != models.TuitionStatusInProgress ||
		final.PaymentStatus != models.PaymentStatusPaid ||
		final.AssignedTutor != "tutor-1" {
		t.Fatalf("unexpected final state: status=%s payment=%s tutor=%s",
			final.Status, final.PaymentStatus, final.AssignedTutor)
	}

	ongoing, err := svc.ListOngoingTuitions(ctx, "tutor-1")
	if err != nil || len(ongoing) != 1 {
		t.Fatalf("tutor-1 should see one ongoing tuition, got %d (%v)", len(ongoing), err)
	}
}
