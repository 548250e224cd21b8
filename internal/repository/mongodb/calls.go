package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/brooder/internal/domain/models"
)

// InsertCallLog records a sales-rep contact attempt.
func (r *Repository) InsertCallLog(ctx context.Context, log *models.CallLog) (*models.CallLog, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	res, err := r.db.Collection(collCallLogs).InsertOne(ctx, log)
	if err != nil {
		return nil, r.fail("insert call log", err)
	}
	log.ID = res.InsertedID.(primitive.ObjectID)
	return log, nil
}

// ListRecentCallLogs returns a sales rep's latest calls, newest first.
func (r *Repository) ListRecentCallLogs(ctx context.Context, salesRep primitive.ObjectID, limit int64) ([]models.CallLog, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "call_date", Value: -1}}).SetLimit(limit)
	cursor, err := r.db.Collection(collCallLogs).Find(ctx, bson.M{"sales_rep": salesRep}, opts)
	if err != nil {
		return nil, r.fail("list call logs", err)
	}
	var logs []models.CallLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, r.fail("decode call logs", err)
	}
	return logs, nil
}
