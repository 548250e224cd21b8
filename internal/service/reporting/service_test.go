package reporting

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/brooder/internal/domain/models"
)

type stubReportingRepo struct {
	counts        map[models.RequestStatus]int64
	farmerCounts  map[models.RequestStatus]int64
	farmers       int64
	totalStock    int
	sales         models.SalesTotals
	farmerSales   models.SalesTotals
	feedStats     models.FeedStats
	approvedToday int64
	sinceSeen     time.Time
}

func (r *stubReportingRepo) CountRequestsByStatus(ctx context.Context, kind models.RequestKind, farmer *primitive.ObjectID, status models.RequestStatus) (int64, error) {
	if farmer != nil {
		return r.farmerCounts[status], nil
	}
	return r.counts[status], nil
}

func (r *stubReportingRepo) CountUsersByRole(ctx context.Context, role models.Role) (int64, error) {
	return r.farmers, nil
}

func (r *stubReportingRepo) TotalStock(ctx context.Context) (int, error) {
	return r.totalStock, nil
}

func (r *stubReportingRepo) ChickSalesTotals(ctx context.Context, farmer *primitive.ObjectID) (models.SalesTotals, error) {
	if farmer != nil {
		return r.farmerSales, nil
	}
	return r.sales, nil
}

func (r *stubReportingRepo) FeedStats(ctx context.Context) (models.FeedStats, error) {
	return r.feedStats, nil
}

func (r *stubReportingRepo) CountChickRequestsApprovedSince(ctx context.Context, since time.Time) (int64, error) {
	r.sinceSeen = since
	return r.approvedToday, nil
}

func seededRepo() *stubReportingRepo {
	return &stubReportingRepo{
		counts: map[models.RequestStatus]int64{
			models.StatusPending:    4,
			models.StatusApproved:   3,
			models.StatusDispatched: 2,
			models.StatusRejected:   1,
			models.StatusCanceled:   1,
		},
		farmerCounts: map[models.RequestStatus]int64{
			models.StatusPending:  1,
			models.StatusApproved: 2,
		},
		farmers:       25,
		totalStock:    640,
		sales:         models.SalesTotals{Chicks: 500, Revenue: 825000},
		farmerSales:   models.SalesTotals{Chicks: 80, Revenue: 132000},
		feedStats:     models.FeedStats{TotalRequests: 6, Revenue: 270000},
		approvedToday: 2,
	}
}

func TestManagerStats(t *testing.T) {
	svc := NewService(seededRepo(), nil)

	stats, err := svc.ManagerStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, stats.PendingRequests)
	assert.Equal(t, 3, stats.ApprovedRequests)
	assert.Equal(t, 2, stats.DispatchedRequests)
	assert.Equal(t, 25, stats.TotalFarmers)
	assert.Equal(t, 640, stats.TotalStock)
	assert.Equal(t, float64(825000), stats.ChickSales.Revenue)
	assert.Equal(t, 6, stats.FeedStats.TotalRequests)
}

func TestFarmerStatsUsesFarmerScope(t *testing.T) {
	svc := NewService(seededRepo(), nil)

	stats, err := svc.FarmerStats(context.Background(), primitive.NewObjectID().Hex())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.PendingRequests)
	assert.Equal(t, 2, stats.ApprovedRequests)
	assert.Equal(t, float64(132000), stats.ChickSales.Revenue)
}

func TestFarmerStatsRejectsBadID(t *testing.T) {
	svc := NewService(seededRepo(), nil)

	_, err := svc.FarmerStats(context.Background(), "nope")
	assert.Error(t, err)
}

func TestSalesRepStatsCountsFromStartOfDay(t *testing.T) {
	repo := seededRepo()
	svc := NewService(repo, nil)
	svc.now = func() time.Time {
		return time.Date(2026, time.August, 29, 15, 45, 0, 0, time.UTC)
	}

	stats, err := svc.SalesRepStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 11, stats.TotalRequests)
	assert.Equal(t, 2, stats.ApprovedToday)
	assert.Equal(t, time.Date(2026, time.August, 29, 0, 0, 0, 0, time.UTC), repo.sinceSeen)
}

func TestBuildDailyReport(t *testing.T) {
	svc := NewService(seededRepo(), nil)

	date := time.Date(2026, time.August, 29, 0, 0, 0, 0, time.UTC)
	report, err := svc.BuildDailyReport(context.Background(), date)
	require.NoError(t, err)

	assert.Equal(t, date, report.Date)
	assert.Equal(t, 4, report.PendingRequests)
	assert.Equal(t, 640, report.TotalStock)
	assert.Equal(t, float64(825000), report.ChickRevenue)
	assert.Equal(t, float64(270000), report.FeedRevenue)
	assert.False(t, report.CreatedAt.IsZero())
}
