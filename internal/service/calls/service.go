// Package calls records sales-rep customer contact.
package calls

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/brooder/internal/domain/models"
)

// ErrInvalidCall indicates the call log entry failed validation.
var ErrInvalidCall = errors.New("invalid call log")

const defaultRecentLimit = 10

// Repository is the persistence surface the call log needs.
type Repository interface {
	InsertCallLog(ctx context.Context, log *models.CallLog) (*models.CallLog, error)
	ListRecentCallLogs(ctx context.Context, salesRep primitive.ObjectID, limit int64) ([]models.CallLog, error)
}

// Service records and lists customer calls.
type Service struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a call log service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// LogCallInput is the sales-rep call log form.
type LogCallInput struct {
	SalesRepID string
	FarmerName string
	Phone      string
	CallDate   time.Time
	Outcome    models.CallOutcome
	Notes      string
}

// LogCall records one contact attempt.
func (s *Service) LogCall(ctx context.Context, in LogCallInput) (*models.CallLog, error) {
	rep, err := primitive.ObjectIDFromHex(in.SalesRepID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid sales rep id", ErrInvalidCall)
	}
	if in.FarmerName == "" || in.Phone == "" {
		return nil, fmt.Errorf("%w: farmer name and phone are required", ErrInvalidCall)
	}
	if !in.Outcome.Valid() {
		return nil, fmt.Errorf("%w: unknown outcome %q", ErrInvalidCall, in.Outcome)
	}
	if in.CallDate.IsZero() {
		in.CallDate = s.now().UTC()
	}

	log := &models.CallLog{
		SalesRep:   rep,
		FarmerName: in.FarmerName,
		Phone:      in.Phone,
		CallDate:   in.CallDate,
		Outcome:    in.Outcome,
		Notes:      in.Notes,
	}
	return s.repo.InsertCallLog(ctx, log)
}

// RecentCalls lists a sales rep's latest contact attempts.
func (s *Service) RecentCalls(ctx context.Context, salesRepID string, limit int64) ([]models.CallLog, error) {
	rep, err := primitive.ObjectIDFromHex(salesRepID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid sales rep id", ErrInvalidCall)
	}
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	return s.repo.ListRecentCallLogs(ctx, rep, limit)
}
