package tuitionRepo

import (
	"context"
	"fmt"
	"time"

	"tutorlink/database"
	"tutorlink/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoTuitionRepo implements TuitionRepository using MongoDB. It also
// holds the users collection so that application submission can span the
// tuition document and the tutor's counter in one transaction.
type MongoTuitionRepo struct {
	coll     *mongo.Collection
	userColl *mongo.Collection
}

// NewMongoTuitionRepo creates a new instance of TuitionRepository using MongoDB.
func NewMongoTuitionRepo(db *database.DB) TuitionRepository {
	repo := &MongoTuitionRepo{
		coll:     db.Collection("tuitions"),
		userColl: db.Collection("users"),
	}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create tuition indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoTuitionRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "postedBy", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "applications.tutor", Value: 1}}},
		{Keys: bson.D{{Key: "assignedTutor", Value: 1}}},
		{Keys: bson.D{{Key: "paymentStatus", Value: 1}, {Key: "paidAt", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new tuition request document.
func (r *MongoTuitionRepo) Create(ctx context.Context, t *models.TuitionRequest) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, t); err != nil {
		return fmt.Errorf("failed to create tuition request: %w", err)
	}
	return nil
}

// GetByID retrieves an active tuition request by its unique ID.
func (r *MongoTuitionRepo) GetByID(ctx context.Context, id string) (*models.TuitionRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var t models.TuitionRequest
	err := r.coll.FindOne(ctx, bson.M{"id": id, "isActive": true}).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tuition request %s: %w", id, err)
	}
	return &t, nil
}

// List retrieves active tuition requests matching the filter, newest
// first by default, together with the total match count.
func (r *MongoTuitionRepo) List(ctx context.Context, f ListFilter) ([]models.TuitionRequest, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"isActive": true}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.TuitionType != "" {
		filter["tuitionType"] = f.TuitionType
	}
	if f.Grade != "" {
		filter["grade"] = f.Grade
	}
	if f.Search != "" {
		regex := primitive.Regex{Pattern: f.Search, Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": regex},
			bson.M{"description": regex},
			bson.M{"location.city": regex},
			bson.M{"location.area": regex},
		}
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count tuition requests: %w", err)
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = 10
	}
	sortBy := f.SortBy
	if sortBy == "" {
		sortBy = "createdAt"
	}
	order := -1
	if f.SortAsc {
		order = 1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortBy, Value: order}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tuition requests: %w", err)
	}
	defer cursor.Close(ctx)

	var tuitions []models.TuitionRequest
	if err := cursor.All(ctx, &tuitions); err != nil {
		return nil, 0, fmt.Errorf("failed to decode tuition requests: %w", err)
	}
	return tuitions, total, nil
}

// ListAppliedBy retrieves every active tuition the tutor has applied to.
func (r *MongoTuitionRepo) ListAppliedBy(ctx context.Context, tutorID string) ([]models.TuitionRequest, error) {
	return r.findMany(ctx, bson.M{"isActive": true, "applications.tutor": tutorID})
}

// ListAssignedTo retrieves the tutor's ongoing tuitions.
func (r *MongoTuitionRepo) ListAssignedTo(ctx context.Context, tutorID string) ([]models.TuitionRequest, error) {
	return r.findMany(ctx, bson.M{
		"isActive":      true,
		"assignedTutor": tutorID,
		"status":        bson.M{"$in": bson.A{models.TuitionStatusAssigned, models.TuitionStatusInProgress}},
	})
}

func (r *MongoTuitionRepo) findMany(ctx context.Context, filter bson.M) ([]models.TuitionRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query tuition requests: %w", err)
	}
	defer cursor.Close(ctx)

	var tuitions []models.TuitionRequest
	if err := cursor.All(ctx, &tuitions); err != nil {
		return nil, fmt.Errorf("failed to decode tuition requests: %w", err)
	}
	return tuitions, nil
}

// unassignedFilter matches documents whose assignedTutor is absent or empty.
func unassignedFilter() bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"assignedTutor": bson.M{"$exists": false}},
		bson.M{"assignedTutor": ""},
	}}
}

// classify re-reads the document once to turn a no-match conditional
// write into a specific sentinel error.
func (r *MongoTuitionRepo) classify(ctx context.Context, id string, checks ...func(*models.TuitionRequest) error) error {
	t, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	for _, check := range checks {
		if err := check(t); err != nil {
			return err
		}
	}
	// The document changed between the write and the re-read; the caller
	// may safely retry.
	return fmt.Errorf("concurrent modification of tuition request %s", id)
}

func checkOwner(actorID string) func(*models.TuitionRequest) error {
	return func(t *models.TuitionRequest) error {
		if t.PostedBy != actorID {
			return ErrNotOwner
		}
		return nil
	}
}

func checkUnassigned(t *models.TuitionRequest) error {
	if t.AssignedTutor != "" {
		return ErrAlreadyAssigned
	}
	return nil
}

func checkOpen(t *models.TuitionRequest) error {
	if t.Status != models.TuitionStatusOpen {
		return ErrNotOpen
	}
	return nil
}
