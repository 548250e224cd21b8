// Package reporting computes dashboard projections on demand from the live
// collections. Nothing here is cached; every call reflects current state.
package reporting

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/brooder/internal/domain/models"
)

// Repository is the read surface reporting projects over.
type Repository interface {
	CountRequestsByStatus(ctx context.Context, kind models.RequestKind, farmer *primitive.ObjectID, status models.RequestStatus) (int64, error)
	CountUsersByRole(ctx context.Context, role models.Role) (int64, error)
	TotalStock(ctx context.Context) (int, error)
	ChickSalesTotals(ctx context.Context, farmer *primitive.ObjectID) (models.SalesTotals, error)
	FeedStats(ctx context.Context) (models.FeedStats, error)
	CountChickRequestsApprovedSince(ctx context.Context, since time.Time) (int64, error)
}

// Service exposes the dashboard projections.
type Service struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a reporting service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// ManagerStats assembles the management dashboard figures.
func (s *Service) ManagerStats(ctx context.Context) (*models.ManagerStats, error) {
	pending, err := s.repo.CountRequestsByStatus(ctx, models.KindChicks, nil, models.StatusPending)
	if err != nil {
		return nil, err
	}
	approved, err := s.repo.CountRequestsByStatus(ctx, models.KindChicks, nil, models.StatusApproved)
	if err != nil {
		return nil, err
	}
	dispatched, err := s.repo.CountRequestsByStatus(ctx, models.KindChicks, nil, models.StatusDispatched)
	if err != nil {
		return nil, err
	}
	farmers, err := s.repo.CountUsersByRole(ctx, models.RoleFarmer)
	if err != nil {
		return nil, err
	}
	totalStock, err := s.repo.TotalStock(ctx)
	if err != nil {
		return nil, err
	}
	sales, err := s.repo.ChickSalesTotals(ctx, nil)
	if err != nil {
		return nil, err
	}
	feedStats, err := s.repo.FeedStats(ctx)
	if err != nil {
		return nil, err
	}

	return &models.ManagerStats{
		PendingRequests:    int(pending),
		ApprovedRequests:   int(approved),
		DispatchedRequests: int(dispatched),
		TotalFarmers:       int(farmers),
		TotalStock:         totalStock,
		ChickSales:         sales,
		FeedStats:          feedStats,
	}, nil
}

// FarmerStats assembles one farmer's own dashboard figures.
func (s *Service) FarmerStats(ctx context.Context, farmerID string) (*models.FarmerStats, error) {
	farmer, err := primitive.ObjectIDFromHex(farmerID)
	if err != nil {
		return nil, fmt.Errorf("invalid farmer id %q", farmerID)
	}

	stats := &models.FarmerStats{}
	counts := []struct {
		status models.RequestStatus
		dest   *int
	}{
		{models.StatusPending, &stats.PendingRequests},
		{models.StatusApproved, &stats.ApprovedRequests},
		{models.StatusDispatched, &stats.DispatchedRequests},
		{models.StatusCanceled, &stats.CanceledRequests},
	}
	for _, c := range counts {
		n, err := s.repo.CountRequestsByStatus(ctx, models.KindChicks, &farmer, c.status)
		if err != nil {
			return nil, err
		}
		*c.dest = int(n)
	}

	sales, err := s.repo.ChickSalesTotals(ctx, &farmer)
	if err != nil {
		return nil, err
	}
	stats.ChickSales = sales
	return stats, nil
}

// SalesRepStats assembles the sales representative dashboard figures.
func (s *Service) SalesRepStats(ctx context.Context) (*models.SalesRepStats, error) {
	pending, err := s.repo.CountRequestsByStatus(ctx, models.KindChicks, nil, models.StatusPending)
	if err != nil {
		return nil, err
	}
	approved, err := s.repo.CountRequestsByStatus(ctx, models.KindChicks, nil, models.StatusApproved)
	if err != nil {
		return nil, err
	}
	dispatched, err := s.repo.CountRequestsByStatus(ctx, models.KindChicks, nil, models.StatusDispatched)
	if err != nil {
		return nil, err
	}
	rejected, err := s.repo.CountRequestsByStatus(ctx, models.KindChicks, nil, models.StatusRejected)
	if err != nil {
		return nil, err
	}
	canceled, err := s.repo.CountRequestsByStatus(ctx, models.KindChicks, nil, models.StatusCanceled)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	approvedToday, err := s.repo.CountChickRequestsApprovedSince(ctx, startOfDay)
	if err != nil {
		return nil, err
	}

	sales, err := s.repo.ChickSalesTotals(ctx, nil)
	if err != nil {
		return nil, err
	}
	totalStock, err := s.repo.TotalStock(ctx)
	if err != nil {
		return nil, err
	}
	customers, err := s.repo.CountUsersByRole(ctx, models.RoleFarmer)
	if err != nil {
		return nil, err
	}

	return &models.SalesRepStats{
		TotalRequests:      int(pending + approved + dispatched + rejected + canceled),
		PendingRequests:    int(pending),
		ApprovedToday:      int(approvedToday),
		DispatchedRequests: int(dispatched),
		TotalRevenue:       sales.Revenue,
		TotalStock:         totalStock,
		TotalCustomers:     int(customers),
	}, nil
}

// BuildDailyReport assembles the nightly operations snapshot for a given day.
func (s *Service) BuildDailyReport(ctx context.Context, date time.Time) (*models.DailyReport, error) {
	stats, err := s.ManagerStats(ctx)
	if err != nil {
		return nil, err
	}

	return &models.DailyReport{
		Date:               date,
		PendingRequests:    stats.PendingRequests,
		ApprovedRequests:   stats.ApprovedRequests,
		DispatchedRequests: stats.DispatchedRequests,
		TotalStock:         stats.TotalStock,
		ChickRevenue:       stats.ChickSales.Revenue,
		FeedRevenue:        stats.FeedStats.Revenue,
		CreatedAt:          s.now().UTC(),
	}, nil
}
