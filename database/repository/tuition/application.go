package tuitionRepo

import (
	"context"
	"fmt"
	"time"

	"tutorlink/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SubmitApplication pushes the application, its schedule proposal and a
// history entry onto the tuition document and increments the tutor's
// application counter, all inside one Mongo session transaction. The
// filter carries the open-status and tutor-uniqueness preconditions, so
// two tutors applying concurrently can both commit but the same tutor
// can never apply twice.
func (r *MongoTuitionRepo) SubmitApplication(ctx context.Context, tuitionID string, app models.Application, proposal models.ScheduleProposal, entry models.StatusHistoryEntry) error {
	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		filter := bson.M{
			"id":                 tuitionID,
			"isActive":           true,
			"status":             models.TuitionStatusOpen,
			"applications.tutor": bson.M{"$ne": app.Tutor},
		}
		update := bson.M{
			"$push": bson.M{
				"applications":      app,
				"scheduleProposals": proposal,
				"statusHistory":     entry,
			},
			"$set": bson.M{"updatedAt": time.Now()},
		}

		res, err := r.coll.UpdateOne(sc, filter, update)
		if err != nil {
			return fmt.Errorf("application push failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return r.classify(sc, tuitionID, checkOpen, func(t *models.TuitionRequest) error {
				if t.ApplicationFor(app.Tutor) != nil {
					return ErrAlreadyApplied
				}
				return nil
			})
		}

		userRes, err := r.userColl.UpdateOne(sc,
			bson.M{"id": app.Tutor},
			bson.M{"$inc": bson.M{"applicationCount": 1}},
		)
		if err != nil {
			return fmt.Errorf("application counter increment failed: %w", err)
		}
		if userRes.MatchedCount == 0 {
			return fmt.Errorf("tutor %s not found", app.Tutor)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return err
	}
	return nil
}

// WithdrawApplication removes the tutor's application while the tuition
// is still open. A second withdrawal finds no application and fails.
func (r *MongoTuitionRepo) WithdrawApplication(ctx context.Context, tuitionID, tutorID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":                 tuitionID,
		"isActive":           true,
		"status":             models.TuitionStatusOpen,
		"applications.tutor": tutorID,
	}
	update := bson.M{
		"$pull": bson.M{"applications": bson.M{"tutor": tutorID}},
		"$set":  bson.M{"updatedAt": time.Now()},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("application withdrawal failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return r.classify(ctx, tuitionID, checkOpen, func(t *models.TuitionRequest) error {
			if t.ApplicationFor(tutorID) == nil {
				return ErrApplicationNotFound
			}
			return nil
		})
	}
	return nil
}

// UpdateApplication edits the rate and/or message of the tutor's
// application in place while the tuition is still open.
func (r *MongoTuitionRepo) UpdateApplication(ctx context.Context, tuitionID, tutorID string, proposedRate *float64, message *string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"updatedAt": time.Now()}
	if proposedRate != nil {
		set["applications.$.proposedRate"] = *proposedRate
	}
	if message != nil {
		set["applications.$.message"] = *message
	}

	filter := bson.M{
		"id":                 tuitionID,
		"isActive":           true,
		"status":             models.TuitionStatusOpen,
		"applications.tutor": tutorID,
	}

	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("application update failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return r.classify(ctx, tuitionID, checkOpen, func(t *models.TuitionRequest) error {
			if t.ApplicationFor(tutorID) == nil {
				return ErrApplicationNotFound
			}
			return nil
		})
	}
	return nil
}
