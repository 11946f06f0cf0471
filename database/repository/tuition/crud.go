package tuitionRepo

import (
	"context"
	"fmt"
	"time"

	"tutorlink/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Delete removes a tuition request. The filter carries the full
// deletion guard: owner match, open status, no assigned tutor, unpaid.
func (r *MongoTuitionRepo) Delete(ctx context.Context, id, ownerID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":            id,
		"isActive":      true,
		"postedBy":      ownerID,
		"status":        models.TuitionStatusOpen,
		"paymentStatus": models.PaymentStatusUnpaid,
		"$and":          bson.A{unassignedFilter()},
	}

	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete tuition request %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return r.classify(ctx, id, checkOwner(ownerID), func(t *models.TuitionRequest) error {
			if !t.Deletable() {
				return ErrNotDeletable
			}
			return nil
		})
	}
	return nil
}

// UpdateStatus forces a new lifecycle status and appends the history
// entry in the same write. Used by admin operations.
func (r *MongoTuitionRepo) UpdateStatus(ctx context.Context, id, status string, entry models.StatusHistoryEntry) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$set":  bson.M{"status": status, "updatedAt": time.Now()},
		"$push": bson.M{"statusHistory": entry},
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id, "isActive": true}, update)
	if err != nil {
		return fmt.Errorf("failed to update status of tuition request %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ExpireStaleOpen cancels open, unpaid tuitions created before the
// cutoff. The status/payment preconditions live in the filter so a
// concurrent assignment or settlement always wins over the sweep.
func (r *MongoTuitionRepo) ExpireStaleOpen(ctx context.Context, cutoff time.Time, entry models.StatusHistoryEntry) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	filter := bson.M{
		"isActive":      true,
		"status":        models.TuitionStatusOpen,
		"paymentStatus": models.PaymentStatusUnpaid,
		"createdAt":     bson.M{"$lt": cutoff},
		"$and":          bson.A{unassignedFilter()},
	}
	update := bson.M{
		"$set":  bson.M{"status": models.TuitionStatusCancelled, "updatedAt": time.Now()},
		"$push": bson.M{"statusHistory": entry},
	}

	res, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to expire stale tuition requests: %w", err)
	}
	return res.ModifiedCount, nil
}
