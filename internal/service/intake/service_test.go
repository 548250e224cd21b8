package intake

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/brooder/internal/domain/models"
)

type stubIntakeRepo struct {
	chicks    []models.ChickRequest
	feeds     []models.FeedRequest
	openFeeds int64
	todayFeed int64
}

func (r *stubIntakeRepo) InsertChickRequest(ctx context.Context, req *models.ChickRequest) (*models.ChickRequest, error) {
	req.ID = primitive.NewObjectID()
	r.chicks = append(r.chicks, *req)
	return req, nil
}

func (r *stubIntakeRepo) InsertFeedRequest(ctx context.Context, req *models.FeedRequest) (*models.FeedRequest, error) {
	req.ID = primitive.NewObjectID()
	r.feeds = append(r.feeds, *req)
	return req, nil
}

func (r *stubIntakeRepo) CountOpenFeedRequests(ctx context.Context, farmer primitive.ObjectID) (int64, error) {
	return r.openFeeds, nil
}

func (r *stubIntakeRepo) CountFeedRequestsBetween(ctx context.Context, start, end time.Time) (int64, error) {
	return r.todayFeed, nil
}

func (r *stubIntakeRepo) ListChickRequestsByFarmer(ctx context.Context, farmer primitive.ObjectID) ([]models.ChickRequest, error) {
	return r.chicks, nil
}

func (r *stubIntakeRepo) ListFeedRequestsByFarmer(ctx context.Context, farmer primitive.ObjectID) ([]models.FeedRequest, error) {
	return r.feeds, nil
}

func validFeedInput() FeedRequestInput {
	return FeedRequestInput{
		FarmerID:      primitive.NewObjectID().Hex(),
		FarmerName:    "Awa Diallo",
		FarmerPhone:   "256700000001",
		FarmerNIN:     "CF1234567890",
		FarmerType:    models.FarmerStarter,
		CurrentChicks: 80,
		FarmLocation:  "Wakiso",
		FeedTypes:     []models.FeedType{models.FeedStarter},
		FeedQuantity:  2,
		Urgency:       models.UrgencyNormal,
	}
}

func TestSubmitChickRequestStarterLimits(t *testing.T) {
	svc := NewService(&stubIntakeRepo{}, nil)
	farmer := primitive.NewObjectID().Hex()

	cases := []struct {
		name     string
		quantity int
		wantErr  bool
	}{
		{"below minimum", 0, true},
		{"at minimum", 1, false},
		{"at maximum", 100, false},
		{"above maximum", 101, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.SubmitChickRequest(context.Background(), ChickRequestInput{
				FarmerID:   farmer,
				FarmerName: "Awa Diallo",
				FarmerType: models.FarmerStarter,
				ChickType:  "broiler",
				Quantity:   tc.quantity,
			})
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSubmission)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSubmitChickRequestReturningLimits(t *testing.T) {
	svc := NewService(&stubIntakeRepo{}, nil)
	farmer := primitive.NewObjectID().Hex()

	_, err := svc.SubmitChickRequest(context.Background(), ChickRequestInput{
		FarmerID:   farmer,
		FarmerType: models.FarmerReturning,
		ChickType:  "layer",
		Quantity:   200,
	})
	assert.ErrorIs(t, err, ErrInvalidSubmission)

	req, err := svc.SubmitChickRequest(context.Background(), ChickRequestInput{
		FarmerID:   farmer,
		FarmerType: models.FarmerReturning,
		ChickType:  "layer",
		Quantity:   300,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, req.Status)
}

func TestSubmitChickRequestDefaultsUnitPrice(t *testing.T) {
	svc := NewService(&stubIntakeRepo{}, nil)

	req, err := svc.SubmitChickRequest(context.Background(), ChickRequestInput{
		FarmerID:   primitive.NewObjectID().Hex(),
		FarmerType: models.FarmerStarter,
		ChickType:  "broiler",
		Quantity:   100,
	})
	require.NoError(t, err)
	assert.Equal(t, float64(1650), req.UnitPrice)
	assert.Equal(t, float64(165000), req.TotalCost)
}

func TestSubmitFeedRequest(t *testing.T) {
	repo := &stubIntakeRepo{}
	svc := NewService(repo, nil)

	req, err := svc.SubmitFeedRequest(context.Background(), validFeedInput())
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, req.Status)
	assert.Equal(t, models.PaymentPending, req.PaymentStatus)
	assert.Equal(t, 1, req.Priority)
	require.Len(t, req.FeedDetails, 1)
	assert.Equal(t, 2, req.FeedDetails[0].Quantity)
	assert.Equal(t, float64(90000), req.TotalCost)
	assert.Equal(t, req.RequestDate.AddDate(0, 0, 60), req.PaymentDueDate)
}

func TestSubmitFeedRequestBlockedByOpenRequest(t *testing.T) {
	svc := NewService(&stubIntakeRepo{openFeeds: 1}, nil)

	_, err := svc.SubmitFeedRequest(context.Background(), validFeedInput())
	assert.ErrorIs(t, err, ErrOpenFeedRequest)
}

func TestSubmitFeedRequestBagLimits(t *testing.T) {
	svc := NewService(&stubIntakeRepo{}, nil)

	in := validFeedInput()
	in.FeedQuantity = 0
	_, err := svc.SubmitFeedRequest(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidSubmission)

	in.FeedQuantity = 3
	_, err = svc.SubmitFeedRequest(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidSubmission)
}

func TestSubmitFeedRequestUrgencyPriority(t *testing.T) {
	svc := NewService(&stubIntakeRepo{}, nil)

	in := validFeedInput()
	in.Urgency = models.UrgencyEmergency
	req, err := svc.SubmitFeedRequest(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 3, req.Priority)
}

func TestFeedReferenceFormat(t *testing.T) {
	repo := &stubIntakeRepo{todayFeed: 4}
	svc := NewService(repo, nil)
	svc.now = func() time.Time {
		return time.Date(2026, time.August, 29, 10, 0, 0, 0, time.UTC)
	}

	req, err := svc.SubmitFeedRequest(context.Background(), validFeedInput())
	require.NoError(t, err)
	assert.Equal(t, "FD260829005", req.Reference)
}

func TestBuildFeedDetailsDistribution(t *testing.T) {
	details := BuildFeedDetails([]models.FeedType{models.FeedStarter, models.FeedGrower}, 2)
	require.Len(t, details, 2)
	assert.Equal(t, 1, details[0].Quantity)
	assert.Equal(t, 1, details[1].Quantity)
	assert.Equal(t, float64(45000), details[0].TotalPrice)
	assert.Equal(t, float64(42000), details[1].TotalPrice)
}

func TestBuildFeedDetailsDropsEmptyLines(t *testing.T) {
	details := BuildFeedDetails([]models.FeedType{models.FeedLayer, models.FeedBroiler}, 1)
	require.Len(t, details, 1)
	assert.Equal(t, models.FeedLayer, details[0].FeedType)
	assert.Equal(t, 1, details[0].Quantity)
}

func TestListFarmerRequests(t *testing.T) {
	repo := &stubIntakeRepo{}
	svc := NewService(repo, nil)

	_, err := svc.SubmitChickRequest(context.Background(), ChickRequestInput{
		FarmerID:   primitive.NewObjectID().Hex(),
		FarmerType: models.FarmerStarter,
		ChickType:  "broiler",
		Quantity:   20,
	})
	require.NoError(t, err)

	out, err := svc.ListFarmerRequests(context.Background(), primitive.NewObjectID().Hex())
	require.NoError(t, err)
	assert.Len(t, out.Chicks, 1)
	assert.Empty(t, out.Feeds)
}
