// Package intake validates and stores farmer order submissions.
package intake

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/brooder/internal/domain/models"
)

// ErrInvalidSubmission indicates the submission failed validation.
var ErrInvalidSubmission = errors.New("invalid submission")

// ErrOpenFeedRequest indicates the farmer already has a feed request awaiting
// processing and must wait before submitting another.
var ErrOpenFeedRequest = errors.New("an open feed request already exists")

const (
	defaultChickUnitPrice = 1650

	starterMinChicks   = 1
	starterMaxChicks   = 100
	returningMinChicks = 300
	returningMaxChicks = 500

	minFeedBags = 1
	maxFeedBags = 2

	paymentTermDays = 60
)

// feedPrices is the fixed per-bag price table, in UGX.
var feedPrices = map[models.FeedType]float64{
	models.FeedStarter: 45000,
	models.FeedGrower:  42000,
	models.FeedLayer:   40000,
	models.FeedBroiler: 43000,
}

// Repository is the persistence surface intake needs.
type Repository interface {
	InsertChickRequest(ctx context.Context, req *models.ChickRequest) (*models.ChickRequest, error)
	InsertFeedRequest(ctx context.Context, req *models.FeedRequest) (*models.FeedRequest, error)
	CountOpenFeedRequests(ctx context.Context, farmer primitive.ObjectID) (int64, error)
	CountFeedRequestsBetween(ctx context.Context, start, end time.Time) (int64, error)
	ListChickRequestsByFarmer(ctx context.Context, farmer primitive.ObjectID) ([]models.ChickRequest, error)
	ListFeedRequestsByFarmer(ctx context.Context, farmer primitive.ObjectID) ([]models.FeedRequest, error)
}

// Service handles farmer order submissions.
type Service struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires an intake service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// ChickRequestInput is a farmer's chick order form.
type ChickRequestInput struct {
	FarmerID   string
	FarmerName string
	FarmerType models.FarmerType
	ChickType  string
	Quantity   int
	UnitPrice  float64
	Comments   string
}

// SubmitChickRequest validates and stores a chick order in pending status.
// Starter farmers may request 1-100 chicks, returning farmers 300-500. The
// total cost is fixed here and never recomputed by a later transition.
func (s *Service) SubmitChickRequest(ctx context.Context, in ChickRequestInput) (*models.ChickRequest, error) {
	farmer, err := primitive.ObjectIDFromHex(in.FarmerID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid farmer id", ErrInvalidSubmission)
	}
	if !in.FarmerType.Valid() {
		return nil, fmt.Errorf("%w: unknown farmer type %q", ErrInvalidSubmission, in.FarmerType)
	}
	if in.ChickType == "" {
		return nil, fmt.Errorf("%w: chick type is required", ErrInvalidSubmission)
	}

	switch in.FarmerType {
	case models.FarmerStarter:
		if in.Quantity < starterMinChicks || in.Quantity > starterMaxChicks {
			return nil, fmt.Errorf("%w: starter farmers can request between %d and %d chicks",
				ErrInvalidSubmission, starterMinChicks, starterMaxChicks)
		}
	case models.FarmerReturning:
		if in.Quantity < returningMinChicks || in.Quantity > returningMaxChicks {
			return nil, fmt.Errorf("%w: returning farmers can request between %d and %d chicks",
				ErrInvalidSubmission, returningMinChicks, returningMaxChicks)
		}
	}

	unitPrice := in.UnitPrice
	if unitPrice <= 0 {
		unitPrice = defaultChickUnitPrice
	}

	req := &models.ChickRequest{
		Farmer:     farmer,
		FarmerName: in.FarmerName,
		FarmerType: in.FarmerType,
		ChickType:  in.ChickType,
		Quantity:   in.Quantity,
		UnitPrice:  unitPrice,
		TotalCost:  float64(in.Quantity) * unitPrice,
		Comments:   in.Comments,
		Lifecycle: models.Lifecycle{
			Status:      models.StatusPending,
			RequestDate: s.now().UTC(),
		},
	}

	stored, err := s.repo.InsertChickRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	s.logger.Info("chick request submitted",
		zap.String("farmer_id", in.FarmerID),
		zap.String("chick_type", in.ChickType),
		zap.Int("quantity", in.Quantity))
	return stored, nil
}

// FeedRequestInput is a farmer's feed order form.
type FeedRequestInput struct {
	FarmerID            string
	FarmerName          string
	FarmerPhone         string
	FarmerNIN           string
	FarmerType          models.FarmerType
	CurrentChicks       int
	FarmLocation        string
	FeedTypes           []models.FeedType
	FeedQuantity        int
	Urgency             models.Urgency
	SpecialRequirements string
}

// SubmitFeedRequest validates and stores a feed order in pending status. Bags
// are distributed evenly across the selected feed types with the remainder
// going to the first types; at most one open request per farmer is allowed.
func (s *Service) SubmitFeedRequest(ctx context.Context, in FeedRequestInput) (*models.FeedRequest, error) {
	farmer, err := primitive.ObjectIDFromHex(in.FarmerID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid farmer id", ErrInvalidSubmission)
	}
	if err := validateFeedInput(in); err != nil {
		return nil, err
	}

	open, err := s.repo.CountOpenFeedRequests(ctx, farmer)
	if err != nil {
		return nil, err
	}
	if open > 0 {
		return nil, ErrOpenFeedRequest
	}

	now := s.now().UTC()
	details := BuildFeedDetails(in.FeedTypes, in.FeedQuantity)
	totalCost := 0.0
	for _, d := range details {
		totalCost += d.TotalPrice
	}

	reference, err := s.nextFeedReference(ctx, now)
	if err != nil {
		return nil, err
	}

	req := &models.FeedRequest{
		Reference:           reference,
		Farmer:              farmer,
		FarmerName:          in.FarmerName,
		FarmerPhone:         in.FarmerPhone,
		FarmerNIN:           in.FarmerNIN,
		FarmerType:          in.FarmerType,
		CurrentChicks:       in.CurrentChicks,
		FarmLocation:        in.FarmLocation,
		FeedTypes:           in.FeedTypes,
		FeedQuantity:        in.FeedQuantity,
		Urgency:             in.Urgency,
		Priority:            in.Urgency.Priority(),
		SpecialRequirements: in.SpecialRequirements,
		FeedDetails:         details,
		TotalCost:           totalCost,
		PaymentStatus:       models.PaymentPending,
		PaymentDueDate:      now.AddDate(0, 0, paymentTermDays),
		Lifecycle: models.Lifecycle{
			Status:      models.StatusPending,
			RequestDate: now,
		},
	}

	stored, err := s.repo.InsertFeedRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	s.logger.Info("feed request submitted",
		zap.String("farmer_id", in.FarmerID),
		zap.String("reference", reference),
		zap.Int("bags", in.FeedQuantity))
	return stored, nil
}

// FarmerRequests bundles one farmer's orders of both kinds.
type FarmerRequests struct {
	Chicks []models.ChickRequest `json:"chicks"`
	Feeds  []models.FeedRequest  `json:"feeds"`
}

// ListFarmerRequests returns one farmer's orders, newest first per kind.
func (s *Service) ListFarmerRequests(ctx context.Context, farmerID string) (*FarmerRequests, error) {
	farmer, err := primitive.ObjectIDFromHex(farmerID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid farmer id", ErrInvalidSubmission)
	}

	chicks, err := s.repo.ListChickRequestsByFarmer(ctx, farmer)
	if err != nil {
		return nil, err
	}
	feeds, err := s.repo.ListFeedRequestsByFarmer(ctx, farmer)
	if err != nil {
		return nil, err
	}
	return &FarmerRequests{Chicks: chicks, Feeds: feeds}, nil
}

func validateFeedInput(in FeedRequestInput) error {
	if !in.FarmerType.Valid() {
		return fmt.Errorf("%w: unknown farmer type %q", ErrInvalidSubmission, in.FarmerType)
	}
	if in.FarmerName == "" || in.FarmerPhone == "" || in.FarmerNIN == "" {
		return fmt.Errorf("%w: farmer name, phone and NIN are required", ErrInvalidSubmission)
	}
	if in.FarmLocation == "" {
		return fmt.Errorf("%w: farm location is required", ErrInvalidSubmission)
	}
	if in.CurrentChicks < 0 {
		return fmt.Errorf("%w: current chicks count cannot be negative", ErrInvalidSubmission)
	}
	if len(in.FeedTypes) == 0 {
		return fmt.Errorf("%w: select at least one feed type", ErrInvalidSubmission)
	}
	for _, ft := range in.FeedTypes {
		if !ft.Valid() {
			return fmt.Errorf("%w: unknown feed type %q", ErrInvalidSubmission, ft)
		}
	}
	if in.FeedQuantity < minFeedBags || in.FeedQuantity > maxFeedBags {
		return fmt.Errorf("%w: feed quantity must be between %d and %d bags",
			ErrInvalidSubmission, minFeedBags, maxFeedBags)
	}
	if !in.Urgency.Valid() {
		return fmt.Errorf("%w: unknown urgency %q", ErrInvalidSubmission, in.Urgency)
	}
	return nil
}

// BuildFeedDetails distributes bags evenly among the selected feed types, with
// remaining bags going to the first types, and prices each line from the fixed
// table. Types that end up with zero bags are dropped so every line reserves a
// positive quantity.
func BuildFeedDetails(feedTypes []models.FeedType, bags int) []models.FeedDetail {
	details := make([]models.FeedDetail, 0, len(feedTypes))
	for i, ft := range feedTypes {
		quantity := bags / len(feedTypes)
		if i < bags%len(feedTypes) {
			quantity++
		}
		if quantity == 0 {
			continue
		}
		unitPrice := feedPrices[ft]
		details = append(details, models.FeedDetail{
			FeedType:   ft,
			Quantity:   quantity,
			UnitPrice:  unitPrice,
			TotalPrice: unitPrice * float64(quantity),
		})
	}
	return details
}

// nextFeedReference builds the FDyymmddNNN reference from the count of feed
// requests already submitted today.
func (s *Service) nextFeedReference(ctx context.Context, now time.Time) (string, error) {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	endOfDay := startOfDay.AddDate(0, 0, 1)

	count, err := s.repo.CountFeedRequestsBetween(ctx, startOfDay, endOfDay)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("FD%s%03d", now.Format("060102"), count+1), nil
}
