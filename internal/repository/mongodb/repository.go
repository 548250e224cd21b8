package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/brooder/internal/domain/models"
)

const (
	collUsers         = "users"
	collChickRequests = "chick_requests"
	collFeedRequests  = "feed_requests"
	collStock         = "stock"
	collCallLogs      = "call_logs"
	collDailyReports  = "daily_reports"
)

var (
	// ErrNotFound indicates the identifier did not resolve to a document.
	ErrNotFound = errors.New("document not found")

	// ErrUnavailable indicates the storage call failed or timed out. Callers
	// may retry; no partial state is left behind.
	ErrUnavailable = errors.New("storage unavailable")

	// ErrStatusConflict indicates a conditional status update matched no
	// document because the request moved to another status first.
	ErrStatusConflict = errors.New("request status changed concurrently")

	// ErrDuplicate indicates a unique index rejected the write.
	ErrDuplicate = errors.New("duplicate document")
)

// Repository is the MongoDB persistence layer shared by all services.
type Repository struct {
	client    *mongo.Client
	db        *mongo.Database
	opTimeout time.Duration
	logger    *zap.Logger
}

// New connects to MongoDB and verifies the connection with a ping.
func New(ctx context.Context, uri, dbName string, opTimeout time.Duration, logger *zap.Logger) (*Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opTimeout <= 0 {
		opTimeout = 5 * time.Second
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Repository{
		client:    client,
		db:        client.Database(dbName),
		opTimeout: opTimeout,
		logger:    logger,
	}, nil
}

// Close closes the MongoDB connection.
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// opCtx bounds a single persistence call so a stalled storage node surfaces as
// ErrUnavailable instead of hanging the request.
func (r *Repository) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.opTimeout)
}

func (r *Repository) fail(op string, err error) error {
	r.logger.Error("mongodb operation failed", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%s: %w", op, ErrUnavailable)
}

func (r *Repository) orderColl(kind models.RequestKind) *mongo.Collection {
	if kind == models.KindFeeds {
		return r.db.Collection(collFeedRequests)
	}
	return r.db.Collection(collChickRequests)
}
