package tuitionRepo

import (
	"context"
	"fmt"
	"time"

	"tutorlink/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// sweepApplicationsStage builds the aggregation stage that marks the
// winning tutor's application accepted and every other application
// rejected, regardless of prior state.
func sweepApplicationsStage(tutorID string) bson.E {
	return bson.E{Key: "applications", Value: bson.D{
		{Key: "$map", Value: bson.D{
			{Key: "input", Value: "$applications"},
			{Key: "as", Value: "app"},
			{Key: "in", Value: bson.D{
				{Key: "$mergeObjects", Value: bson.A{
					"$$app",
					bson.D{{Key: "status", Value: bson.D{
						{Key: "$cond", Value: bson.A{
							bson.D{{Key: "$eq", Value: bson.A{"$$app.tutor", tutorID}}},
							models.ApplicationStatusAccepted,
							models.ApplicationStatusRejected,
						}},
					}}},
				}},
			}},
		}},
	}}
}

// appendHistoryStage appends a history entry expression to the embedded
// ledger. The entry may reference document fields (e.g. "$postedBy").
func appendHistoryStage(entry bson.D) bson.E {
	return bson.E{Key: "statusHistory", Value: bson.D{
		{Key: "$concatArrays", Value: bson.A{"$statusHistory", bson.A{entry}}},
	}}
}

// AcceptApplication runs the accept/reject sweep and binds the tutor to
// the tuition in a single conditional pipeline update. The filter is
// the concurrency guard: owner match, assignedTutor unset and the
// application present are all checked by the same write that sets them,
// so of two racing accepts exactly one matches.
func (r *MongoTuitionRepo) AcceptApplication(ctx context.Context, tuitionID, tutorID, actorID string, entry models.StatusHistoryEntry) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":                 tuitionID,
		"isActive":           true,
		"postedBy":           actorID,
		"applications.tutor": tutorID,
		"$and":               bson.A{unassignedFilter()},
	}

	entryDoc := bson.D{
		{Key: "status", Value: entry.Status},
		{Key: "changedBy", Value: entry.ChangedBy},
		{Key: "changedAt", Value: entry.ChangedAt},
		{Key: "reason", Value: entry.Reason},
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{
			sweepApplicationsStage(tutorID),
			{Key: "assignedTutor", Value: tutorID},
			{Key: "status", Value: models.TuitionStatusAssigned},
			{Key: "updatedAt", Value: time.Now()},
			appendHistoryStage(entryDoc),
		}}},
	}

	res, err := r.coll.UpdateOne(ctx, filter, pipeline)
	if err != nil {
		return fmt.Errorf("accept application failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return r.classify(ctx, tuitionID,
			checkOwner(actorID),
			checkUnassigned,
			func(t *models.TuitionRequest) error {
				if t.ApplicationFor(tutorID) == nil {
					return ErrApplicationNotFound
				}
				return nil
			},
		)
	}
	return nil
}

// RejectApplication flips one pending application to rejected. Refused
// once a tutor has been assigned or the application already left the
// pending state.
func (r *MongoTuitionRepo) RejectApplication(ctx context.Context, tuitionID, tutorID, actorID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":       tuitionID,
		"isActive": true,
		"postedBy": actorID,
		"applications": bson.M{"$elemMatch": bson.M{
			"tutor":  tutorID,
			"status": models.ApplicationStatusPending,
		}},
		"$and": bson.A{unassignedFilter()},
	}
	update := bson.M{
		"$set": bson.M{
			"applications.$.status": models.ApplicationStatusRejected,
			"updatedAt":             time.Now(),
		},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("reject application failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return r.classify(ctx, tuitionID,
			checkOwner(actorID),
			checkUnassigned,
			func(t *models.TuitionRequest) error {
				app := t.ApplicationFor(tutorID)
				if app == nil {
					return ErrApplicationNotFound
				}
				if app.Status != models.ApplicationStatusPending {
					return ErrApplicationNotPending
				}
				return nil
			},
		)
	}
	return nil
}
