package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/brooder/internal/domain/models"
)

// InsertStockItem records a new inventory batch.
func (r *Repository) InsertStockItem(ctx context.Context, item *models.StockItem) (*models.StockItem, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	res, err := r.db.Collection(collStock).InsertOne(ctx, item)
	if err != nil {
		return nil, r.fail("insert stock item", err)
	}
	item.ID = res.InsertedID.(primitive.ObjectID)
	return item, nil
}

// ListStock returns all inventory lines.
func (r *Repository) ListStock(ctx context.Context) ([]models.StockItem, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	cursor, err := r.db.Collection(collStock).Find(ctx, bson.M{})
	if err != nil {
		return nil, r.fail("list stock", err)
	}
	var items []models.StockItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, r.fail("decode stock", err)
	}
	return items, nil
}

// FindStockByType returns the inventory line for one SKU.
func (r *Repository) FindStockByType(ctx context.Context, itemType string) (*models.StockItem, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	var item models.StockItem
	err := r.db.Collection(collStock).FindOne(ctx, bson.M{"type": itemType}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, r.fail("find stock by type", err)
	}
	return &item, nil
}

// DecrementStockIfAvailable applies a reservation as one conditional update:
// the sufficiency guard and the decrement execute against the same document
// snapshot, so concurrent reservations can never drive the quantity negative.
// ErrNotFound means the guard did not match (missing SKU or not enough stock).
func (r *Repository) DecrementStockIfAvailable(ctx context.Context, itemType string, qty int) (int, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	filter := bson.M{"type": itemType, "quantity": bson.M{"$gte": qty}}
	update := bson.M{"$inc": bson.M{"quantity": -qty}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var item models.StockItem
	err := r.db.Collection(collStock).FindOneAndUpdate(ctx, filter, update, opts).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, r.fail("reserve stock", err)
	}
	return item.Quantity, nil
}

// IncrementStock restores previously reserved quantity. Re-adding stock is
// always valid, so there is no guard.
func (r *Repository) IncrementStock(ctx context.Context, itemType string, qty int) (int, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	update := bson.M{"$inc": bson.M{"quantity": qty}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var item models.StockItem
	err := r.db.Collection(collStock).FindOneAndUpdate(ctx, bson.M{"type": itemType}, update, opts).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, r.fail("release stock", err)
	}
	return item.Quantity, nil
}

// TotalStock sums quantity across every inventory line.
func (r *Repository) TotalStock(ctx context.Context) (int, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$quantity"}}},
		}}},
	}

	cursor, err := r.db.Collection(collStock).Aggregate(ctx, pipeline)
	if err != nil {
		return 0, r.fail("total stock", err)
	}
	var results []struct {
		Total int `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, r.fail("decode total stock", err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}
