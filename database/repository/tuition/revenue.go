package tuitionRepo

import (
	"context"
	"fmt"
	"time"

	"tutorlink/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// platformFeeShare is the cut retained from every settled payment.
const platformFeeShare = 0.1

func paidFilter(since *time.Time) bson.M {
	filter := bson.M{
		"paymentStatus":   models.PaymentStatusPaid,
		"paymentIntentId": bson.M{"$exists": true, "$ne": ""},
	}
	if since != nil {
		filter["paidAt"] = bson.M{"$gte": *since}
	}
	return filter
}

// RevenueSummary totals settled payments, optionally since a point in time.
func (r *MongoTuitionRepo) RevenueSummary(ctx context.Context, since *time.Time) (*RevenueSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: paidFilter(since)}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$totalFee"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("revenue aggregation failed: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total float64 `bson:"total"`
		Count int64   `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode revenue aggregation: %w", err)
	}

	summary := &RevenueSummary{}
	if len(rows) > 0 {
		summary.TotalRevenue = rows[0].Total
		summary.TransactionCount = rows[0].Count
		summary.PlatformEarnings = rows[0].Total * platformFeeShare
		if rows[0].Count > 0 {
			summary.AverageTransaction = rows[0].Total / float64(rows[0].Count)
		}
	}
	return summary, nil
}

// RecentTransactions lists the most recently settled tuitions.
func (r *MongoTuitionRepo) RecentTransactions(ctx context.Context, limit int64) ([]models.TuitionRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if limit < 1 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "paidAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, paidFilter(nil), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var tuitions []models.TuitionRequest
	if err := cursor.All(ctx, &tuitions); err != nil {
		return nil, fmt.Errorf("failed to decode transactions: %w", err)
	}
	return tuitions, nil
}

// RevenueTrend buckets settled payments by day, week or month.
func (r *MongoTuitionRepo) RevenueTrend(ctx context.Context, period string, limit int64) ([]RevenueBucket, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var format string
	switch period {
	case "daily":
		format = "%Y-%m-%d"
	case "weekly":
		format = "%Y-%U"
	default:
		format = "%Y-%m"
	}
	if limit < 1 {
		limit = 12
	}

	groupBy := bson.D{{Key: "$dateToString", Value: bson.D{
		{Key: "format", Value: format},
		{Key: "date", Value: "$paidAt"},
	}}}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: paidFilter(nil)}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: groupBy},
			{Key: "revenue", Value: bson.D{{Key: "$sum", Value: "$totalFee"}}},
			{Key: "transactions", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "averageAmount", Value: bson.D{{Key: "$avg", Value: "$totalFee"}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: -1}}}},
		bson.D{{Key: "$limit", Value: limit}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("revenue trend aggregation failed: %w", err)
	}
	defer cursor.Close(ctx)

	var buckets []RevenueBucket
	if err := cursor.All(ctx, &buckets); err != nil {
		return nil, fmt.Errorf("failed to decode revenue trend: %w", err)
	}
	return buckets, nil
}
