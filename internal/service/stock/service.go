// Package stock implements the inventory ledger: non-negative per-SKU counts
// with reserve and release as the only mutating primitives.
package stock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/brooder/internal/domain/models"
	"github.com/mamadbah2/brooder/internal/repository/mongodb"
)

// ErrInvalidStock indicates a malformed stock entry form.
var ErrInvalidStock = errors.New("invalid stock entry")

// InsufficientStockError reports a reservation asking for more than is
// available. A missing SKU counts as zero available.
type InsufficientStockError struct {
	ItemType  string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: %d available, %d requested", e.Available, e.Requested)
}

// Repository is the persistence surface the ledger needs.
type Repository interface {
	InsertStockItem(ctx context.Context, item *models.StockItem) (*models.StockItem, error)
	ListStock(ctx context.Context) ([]models.StockItem, error)
	FindStockByType(ctx context.Context, itemType string) (*models.StockItem, error)
	DecrementStockIfAvailable(ctx context.Context, itemType string, qty int) (int, error)
	IncrementStock(ctx context.Context, itemType string, qty int) (int, error)
	TotalStock(ctx context.Context) (int, error)
}

// Service is the stock ledger.
type Service struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a ledger instance.
func NewService(repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Reserve decrements qty from the SKU's count if enough is available, and
// returns the remaining quantity. The decrement and its sufficiency check run
// as one conditional persistence operation, so concurrent reservations cannot
// jointly oversell.
func (s *Service) Reserve(ctx context.Context, itemType string, qty int) (int, error) {
	if qty <= 0 {
		return 0, fmt.Errorf("reserve quantity must be positive, got %d", qty)
	}

	remaining, err := s.repo.DecrementStockIfAvailable(ctx, itemType, qty)
	if err == nil {
		s.logger.Info("stock reserved",
			zap.String("item_type", itemType),
			zap.Int("quantity", qty),
			zap.Int("remaining", remaining))
		return remaining, nil
	}
	if !errors.Is(err, mongodb.ErrNotFound) {
		return 0, err
	}

	// Guard miss: report the shortfall from a fresh read. A missing SKU is
	// reported as zero available rather than an error.
	available := 0
	item, lookupErr := s.repo.FindStockByType(ctx, itemType)
	switch {
	case lookupErr == nil:
		available = item.Quantity
	case !errors.Is(lookupErr, mongodb.ErrNotFound):
		return 0, lookupErr
	}
	return 0, &InsufficientStockError{ItemType: itemType, Available: available, Requested: qty}
}

// Release returns previously reserved quantity to the SKU's count and returns
// the new quantity. Releasing is unconditional; only a missing SKU fails.
func (s *Service) Release(ctx context.Context, itemType string, qty int) (int, error) {
	if qty <= 0 {
		return 0, fmt.Errorf("release quantity must be positive, got %d", qty)
	}

	remaining, err := s.repo.IncrementStock(ctx, itemType, qty)
	if err != nil {
		return 0, err
	}
	s.logger.Info("stock released",
		zap.String("item_type", itemType),
		zap.Int("quantity", qty),
		zap.Int("remaining", remaining))
	return remaining, nil
}

// TotalAcrossAll returns the aggregate quantity over every inventory line.
func (s *Service) TotalAcrossAll(ctx context.Context) (int, error) {
	return s.repo.TotalStock(ctx)
}

// AddStockInput is the manager form for recording a new inventory batch.
type AddStockInput struct {
	Category     string
	Type         string
	AgeDays      int
	Quantity     int
	ReceivedDate time.Time
	Comments     string
	StaffName    string
	Phone        string
}

// AddStock records a new inventory batch.
func (s *Service) AddStock(ctx context.Context, in AddStockInput) (*models.StockItem, error) {
	if in.Type == "" {
		return nil, fmt.Errorf("%w: stock type is required", ErrInvalidStock)
	}
	if in.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must not be negative, got %d", ErrInvalidStock, in.Quantity)
	}
	if in.AgeDays < 0 {
		return nil, fmt.Errorf("%w: age must not be negative, got %d", ErrInvalidStock, in.AgeDays)
	}
	if in.ReceivedDate.IsZero() {
		in.ReceivedDate = s.now().UTC()
	}

	item := &models.StockItem{
		Category:     in.Category,
		Type:         in.Type,
		AgeDays:      in.AgeDays,
		Quantity:     in.Quantity,
		ReceivedDate: in.ReceivedDate,
		Comments:     in.Comments,
		StaffName:    in.StaffName,
		Phone:        in.Phone,
	}
	return s.repo.InsertStockItem(ctx, item)
}

// ListStock returns every inventory line.
func (s *Service) ListStock(ctx context.Context) ([]models.StockItem, error) {
	return s.repo.ListStock(ctx)
}
