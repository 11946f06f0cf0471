package tuitionRepo

import (
	"context"
	"fmt"
	"time"

	"tutorlink/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SettlePayment applies a payment-completion event to the tuition
// request: the same accept/reject sweep as AcceptApplication plus the
// payment fields and the in-progress transition, in one pipeline update.
//
// The paymentStatus=unpaid precondition in the filter is the idempotency
// guard: Stripe may deliver the same event more than once, and every
// delivery after the first matches nothing and returns ErrAlreadyPaid.
func (r *MongoTuitionRepo) SettlePayment(ctx context.Context, tuitionID, tutorID, paymentRef string, paidAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":            tuitionID,
		"isActive":      true,
		"paymentStatus": models.PaymentStatusUnpaid,
	}

	// changedBy resolves to the owner of the document at write time.
	entryDoc := bson.D{
		{Key: "status", Value: models.TuitionStatusInProgress},
		{Key: "changedBy", Value: "$postedBy"},
		{Key: "changedAt", Value: paidAt},
		{Key: "reason", Value: "payment settled"},
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{
			sweepApplicationsStage(tutorID),
			{Key: "assignedTutor", Value: tutorID},
			{Key: "status", Value: models.TuitionStatusInProgress},
			{Key: "paymentStatus", Value: models.PaymentStatusPaid},
			{Key: "paymentIntentId", Value: paymentRef},
			{Key: "paidAt", Value: paidAt},
			{Key: "updatedAt", Value: time.Now()},
			appendHistoryStage(entryDoc),
		}}},
	}

	res, err := r.coll.UpdateOne(ctx, filter, pipeline)
	if err != nil {
		return fmt.Errorf("payment settlement failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return r.classify(ctx, tuitionID, func(t *models.TuitionRequest) error {
			if t.PaymentStatus == models.PaymentStatusPaid {
				return ErrAlreadyPaid
			}
			return nil
		})
	}
	return nil
}
