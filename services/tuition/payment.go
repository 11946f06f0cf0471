package tuition

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"tutorlink/config"
	tuitionRepo "tutorlink/database/repository/tuition"
	"tutorlink/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

// checkoutCompleted is the only event type the reconciler acts on.
const checkoutCompleted = "checkout.session.completed"

// CreateCheckout asks the payment processor for a hosted checkout URL.
// Nothing is written to the tuition here: a checkout may be abandoned,
// and the authoritative transition happens only when the completion
// event arrives on the webhook.
func (s *DefaultTuitionService) CreateCheckout(ctx context.Context, tuitionID, tutorID, studentID string) (string, error) {
	t, err := s.Repo.GetByID(ctx, tuitionID)
	if err != nil {
		return "", fromRepoErr(err)
	}
	if t.PostedBy != studentID {
		return "", unauthorizedErr("only the owner may pay for this tuition")
	}
	if t.PaymentStatus == models.PaymentStatusPaid {
		return "", conflictErr("tuition is already paid")
	}
	if t.ApplicationFor(tutorID) == nil {
		return "", notFoundErr("tutor %s has not applied to this tuition", tutorID)
	}

	cfg := config.AppConfig
	url, err := s.Gateway.CreateCheckoutSession(ctx, CheckoutParams{
		AmountMinorUnits: int64(math.Round(t.TotalFee * 100)),
		Currency:         cfg.Currency,
		Description:      t.Title,
		SuccessURL:       cfg.CheckoutSuccessURL,
		CancelURL:        cfg.CheckoutCancelURL,
		Metadata: map[string]string{
			"tuitionId": tuitionID,
			"tutorId":   tutorID,
			"studentId": studentID,
		},
	})
	if err != nil {
		s.Logger.Error("checkout session creation failed",
			zap.String("tuitionId", tuitionID), zap.Error(err))
		return "", &ServiceError{Kind: KindInternal, Message: "payment processor unavailable", Err: err}
	}

	s.Logger.Info("checkout session created",
		zap.String("tuitionId", tuitionID),
		zap.String("tutorId", tutorID))
	return url, nil
}

// ReconcilePaymentEvent applies an asynchronous payment event from the
// processor to internal state, exactly once.
//
// The raw payload bytes are verified against the webhook secret before
// anything else; a bad signature mutates nothing. Event types other
// than checkout completion are acknowledged and ignored. Re-delivered
// completion events hit the repository's paid-already guard and resolve
// to a no-op success so the processor stops retrying.
func (s *DefaultTuitionService) ReconcilePaymentEvent(ctx context.Context, payload []byte, sigHeader string) error {
	event, err := webhook.ConstructEvent(payload, sigHeader, s.WebhookSecret)
	if err != nil {
		return &ServiceError{Kind: KindSignature, Message: "webhook signature verification failed", Err: err}
	}

	if string(event.Type) != checkoutCompleted {
		s.Logger.Debug("ignoring webhook event", zap.String("type", string(event.Type)))
		return nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return validationErr("malformed checkout session payload: %v", err)
	}

	tuitionID := sess.Metadata["tuitionId"]
	tutorID := sess.Metadata["tutorId"]
	if tuitionID == "" || tutorID == "" {
		return validationErr("checkout session metadata is missing tuitionId or tutorId")
	}

	paymentRef := sess.ID
	if sess.PaymentIntent != nil && sess.PaymentIntent.ID != "" {
		paymentRef = sess.PaymentIntent.ID
	}

	err = s.Repo.SettlePayment(ctx, tuitionID, tutorID, paymentRef, time.Now())
	if errors.Is(err, tuitionRepo.ErrAlreadyPaid) {
		s.Logger.Info("duplicate payment event acknowledged",
			zap.String("tuitionId", tuitionID),
			zap.String("eventId", event.ID))
		return nil
	}
	if err != nil {
		return fromRepoErr(err)
	}

	s.invalidate(ctx, tuitionID)
	s.Logger.Info("payment settled",
		zap.String("tuitionId", tuitionID),
		zap.String("tutorId", tutorID),
		zap.String("paymentRef", paymentRef))
	return nil
}
