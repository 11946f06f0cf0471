package userRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tutorlink/database"
	"tutorlink/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no account matches the lookup.
var ErrNotFound = errors.New("user not found")

// MongoUserRepo implements UserRepository using MongoDB.
type MongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo creates a new instance of UserRepository using MongoDB.
func NewMongoUserRepo(db *database.DB) UserRepository {
	repo := &MongoUserRepo{coll: db.Collection("users")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create user indexes: %v\n", err)
	}
	return repo
}

func (r *MongoUserRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "uid", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role", Value: 1}, {Key: "status", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoUserRepo) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var user models.User
	err := r.coll.FindOne(ctx, filter).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

// GetByID retrieves a user by its unique ID.
func (r *MongoUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

// GetByUID retrieves a user by its Firebase UID.
func (r *MongoUserRepo) GetByUID(ctx context.Context, uid string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"uid": uid})
}

// ListTeachers retrieves active teacher accounts matching the filter,
// paged, with the total match count.
func (r *MongoUserRepo) ListTeachers(ctx context.Context, f TeacherFilter) ([]models.User, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"role":   models.RoleTeacher,
		"status": models.UserStatusActive,
	}
	if f.City != "" {
		filter["tutorProfile.city"] = primitive.Regex{Pattern: f.City, Options: "i"}
	}
	if f.Subject != "" {
		filter["tutorProfile.subjects"] = bson.M{"$in": bson.A{f.Subject}}
	}
	if f.MinExperience > 0 {
		filter["tutorProfile.experienceYears"] = bson.M{"$gte": f.MinExperience}
	}
	if f.MaxHourlyRate > 0 {
		filter["tutorProfile.hourlyRate"] = bson.M{"$lte": f.MaxHourlyRate}
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count teachers: %w", err)
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = 12
	}

	opts := options.Find().
		SetProjection(bson.M{"id": 1, "name": 1, "avatarUrl": 1, "tutorProfile": 1}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list teachers: %w", err)
	}
	defer cursor.Close(ctx)

	var teachers []models.User
	if err := cursor.All(ctx, &teachers); err != nil {
		return nil, 0, fmt.Errorf("failed to decode teachers: %w", err)
	}
	return teachers, total, nil
}
