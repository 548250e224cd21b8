package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/brooder/internal/domain/models"
)

// InsertChickRequest stores a new farmer chick order.
func (r *Repository) InsertChickRequest(ctx context.Context, req *models.ChickRequest) (*models.ChickRequest, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	res, err := r.db.Collection(collChickRequests).InsertOne(ctx, req)
	if err != nil {
		return nil, r.fail("insert chick request", err)
	}
	req.ID = res.InsertedID.(primitive.ObjectID)
	return req, nil
}

// InsertFeedRequest stores a new farmer feed order.
func (r *Repository) InsertFeedRequest(ctx context.Context, req *models.FeedRequest) (*models.FeedRequest, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	res, err := r.db.Collection(collFeedRequests).InsertOne(ctx, req)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		return nil, r.fail("insert feed request", err)
	}
	req.ID = res.InsertedID.(primitive.ObjectID)
	return req, nil
}

// FindOrder loads one request by kind and id as the lifecycle view.
func (r *Repository) FindOrder(ctx context.Context, kind models.RequestKind, id primitive.ObjectID) (*models.Order, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	return r.decodeOrder(r.orderColl(kind).FindOne(ctx, bson.M{"_id": id}), kind, "find order")
}

// UpdateOrderStatus applies one transition as a conditional update keyed on the
// expected current status. If the document is missing or its status moved in
// the meantime, the update matches nothing and ErrStatusConflict is returned;
// callers re-read to tell the two cases apart.
func (r *Repository) UpdateOrderStatus(ctx context.Context, kind models.RequestKind, id primitive.ObjectID, expect models.RequestStatus, upd models.StatusUpdate) (*models.Order, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	set := bson.M{"status": upd.Status}
	update := bson.M{"$set": set}
	switch upd.Status {
	case models.StatusApproved:
		set["approved_by"] = upd.ActorID
		set["approved_at"] = upd.At
		update["$unset"] = bson.M{"rejection_reason": ""}
	case models.StatusRejected:
		set["rejection_reason"] = upd.Reason
	case models.StatusDispatched:
		set["dispatched_by"] = upd.ActorID
		set["dispatched_at"] = upd.At
	case models.StatusCanceled:
		set["canceled_by"] = upd.ActorID
		set["canceled_at"] = upd.At
		set["rejection_reason"] = upd.Reason
	}

	filter := bson.M{"_id": id, "status": expect}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	res := r.orderColl(kind).FindOneAndUpdate(ctx, filter, update, opts)
	order, err := r.decodeOrder(res, kind, "update order status")
	if errors.Is(err, ErrNotFound) {
		return nil, ErrStatusConflict
	}
	return order, err
}

func (r *Repository) decodeOrder(res *mongo.SingleResult, kind models.RequestKind, op string) (*models.Order, error) {
	if kind == models.KindFeeds {
		var fr models.FeedRequest
		err := res.Decode(&fr)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, r.fail(op, err)
		}
		return fr.Order(), nil
	}

	var cr models.ChickRequest
	err := res.Decode(&cr)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, r.fail(op, err)
	}
	return cr.Order(), nil
}

// ListChickRequestsByFarmer returns one farmer's chick orders, newest first.
func (r *Repository) ListChickRequestsByFarmer(ctx context.Context, farmer primitive.ObjectID) ([]models.ChickRequest, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "request_date", Value: -1}})
	cursor, err := r.db.Collection(collChickRequests).Find(ctx, bson.M{"farmer": farmer}, opts)
	if err != nil {
		return nil, r.fail("list chick requests", err)
	}
	var reqs []models.ChickRequest
	if err := cursor.All(ctx, &reqs); err != nil {
		return nil, r.fail("decode chick requests", err)
	}
	return reqs, nil
}

// ListFeedRequestsByFarmer returns one farmer's feed orders, newest first.
func (r *Repository) ListFeedRequestsByFarmer(ctx context.Context, farmer primitive.ObjectID) ([]models.FeedRequest, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "request_date", Value: -1}})
	cursor, err := r.db.Collection(collFeedRequests).Find(ctx, bson.M{"farmer": farmer}, opts)
	if err != nil {
		return nil, r.fail("list feed requests", err)
	}
	var reqs []models.FeedRequest
	if err := cursor.All(ctx, &reqs); err != nil {
		return nil, r.fail("decode feed requests", err)
	}
	return reqs, nil
}

// CountRequestsByStatus counts orders of one kind in one status, optionally
// scoped to a single farmer.
func (r *Repository) CountRequestsByStatus(ctx context.Context, kind models.RequestKind, farmer *primitive.ObjectID, status models.RequestStatus) (int64, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	filter := bson.M{"status": status}
	if farmer != nil {
		filter["farmer"] = *farmer
	}
	n, err := r.orderColl(kind).CountDocuments(ctx, filter)
	if err != nil {
		return 0, r.fail("count requests by status", err)
	}
	return n, nil
}

// CountOpenFeedRequests counts a farmer's feed orders still awaiting dispatch.
func (r *Repository) CountOpenFeedRequests(ctx context.Context, farmer primitive.ObjectID) (int64, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	filter := bson.M{
		"farmer": farmer,
		"status": bson.M{"$in": bson.A{models.StatusPending, models.StatusApproved}},
	}
	n, err := r.db.Collection(collFeedRequests).CountDocuments(ctx, filter)
	if err != nil {
		return 0, r.fail("count open feed requests", err)
	}
	return n, nil
}

// CountFeedRequestsBetween counts feed orders submitted within [start, end).
// Used to build the daily reference sequence.
func (r *Repository) CountFeedRequestsBetween(ctx context.Context, start, end time.Time) (int64, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	filter := bson.M{"request_date": bson.M{"$gte": start, "$lt": end}}
	n, err := r.db.Collection(collFeedRequests).CountDocuments(ctx, filter)
	if err != nil {
		return 0, r.fail("count feed requests between", err)
	}
	return n, nil
}

// CountChickRequestsApprovedSince counts chick orders approved at or after the
// given instant.
func (r *Repository) CountChickRequestsApprovedSince(ctx context.Context, since time.Time) (int64, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	filter := bson.M{"status": models.StatusApproved, "approved_at": bson.M{"$gte": since}}
	n, err := r.db.Collection(collChickRequests).CountDocuments(ctx, filter)
	if err != nil {
		return 0, r.fail("count approved chick requests", err)
	}
	return n, nil
}

// ChickSalesTotals aggregates chick volume and revenue over approved and
// dispatched orders, optionally for a single farmer.
func (r *Repository) ChickSalesTotals(ctx context.Context, farmer *primitive.ObjectID) (models.SalesTotals, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	match := bson.D{{Key: "status", Value: bson.D{{Key: "$in", Value: bson.A{models.StatusApproved, models.StatusDispatched}}}}}
	if farmer != nil {
		match = append(match, bson.E{Key: "farmer", Value: *farmer})
	}
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total_chicks", Value: bson.D{{Key: "$sum", Value: "$quantity"}}},
			{Key: "total_revenue", Value: bson.D{{Key: "$sum", Value: "$total_cost"}}},
		}}},
	}

	cursor, err := r.db.Collection(collChickRequests).Aggregate(ctx, pipeline)
	if err != nil {
		return models.SalesTotals{}, r.fail("chick sales totals", err)
	}
	var results []models.SalesTotals
	if err := cursor.All(ctx, &results); err != nil {
		return models.SalesTotals{}, r.fail("decode chick sales totals", err)
	}
	if len(results) == 0 {
		return models.SalesTotals{}, nil
	}
	return results[0], nil
}

// FeedStats aggregates the feed-request dashboard figures in one pass.
func (r *Repository) FeedStats(ctx context.Context) (models.FeedStats, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	statusCount := func(status models.RequestStatus) bson.D {
		return bson.D{{Key: "$sum", Value: bson.D{{Key: "$cond", Value: bson.A{
			bson.D{{Key: "$eq", Value: bson.A{"$status", status}}}, 1, 0,
		}}}}}
	}
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total_requests", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "pending_requests", Value: statusCount(models.StatusPending)},
			{Key: "approved_requests", Value: statusCount(models.StatusApproved)},
			{Key: "dispatched_requests", Value: statusCount(models.StatusDispatched)},
			{Key: "total_bags", Value: bson.D{{Key: "$sum", Value: "$feed_quantity"}}},
			{Key: "revenue", Value: bson.D{{Key: "$sum", Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$in", Value: bson.A{"$status", bson.A{models.StatusApproved, models.StatusDispatched}}}},
				"$total_cost", 0,
			}}}}}},
		}}},
	}

	cursor, err := r.db.Collection(collFeedRequests).Aggregate(ctx, pipeline)
	if err != nil {
		return models.FeedStats{}, r.fail("feed stats", err)
	}
	var results []models.FeedStats
	if err := cursor.All(ctx, &results); err != nil {
		return models.FeedStats{}, r.fail("decode feed stats", err)
	}
	if len(results) == 0 {
		return models.FeedStats{}, nil
	}
	return results[0], nil
}

// MarkOverdueFeedPayments flips unsettled feed invoices past their due date to
// overdue. Returns the number of documents updated.
func (r *Repository) MarkOverdueFeedPayments(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	filter := bson.M{
		"payment_due_date": bson.M{"$lt": now},
		"payment_status":   bson.M{"$in": bson.A{models.PaymentPending, models.PaymentPartial}},
	}
	update := bson.M{"$set": bson.M{"payment_status": models.PaymentOverdue}}
	res, err := r.db.Collection(collFeedRequests).UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, r.fail("mark overdue feed payments", err)
	}
	return res.ModifiedCount, nil
}
