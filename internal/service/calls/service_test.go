package calls

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/brooder/internal/domain/models"
)

type stubCallRepo struct {
	logs      []models.CallLog
	lastLimit int64
}

func (r *stubCallRepo) InsertCallLog(ctx context.Context, log *models.CallLog) (*models.CallLog, error) {
	log.ID = primitive.NewObjectID()
	r.logs = append(r.logs, *log)
	return log, nil
}

func (r *stubCallRepo) ListRecentCallLogs(ctx context.Context, salesRep primitive.ObjectID, limit int64) ([]models.CallLog, error) {
	r.lastLimit = limit
	return r.logs, nil
}

func TestLogCall(t *testing.T) {
	repo := &stubCallRepo{}
	svc := NewService(repo, nil)

	log, err := svc.LogCall(context.Background(), LogCallInput{
		SalesRepID: primitive.NewObjectID().Hex(),
		FarmerName: "Awa Diallo",
		Phone:      "256700000001",
		Outcome:    models.CallSuccess,
		Notes:      "will order next week",
	})
	require.NoError(t, err)
	assert.False(t, log.CallDate.IsZero())
	assert.Len(t, repo.logs, 1)
}

func TestLogCallValidation(t *testing.T) {
	svc := NewService(&stubCallRepo{}, nil)
	rep := primitive.NewObjectID().Hex()

	_, err := svc.LogCall(context.Background(), LogCallInput{
		SalesRepID: "bad-id", FarmerName: "Awa", Phone: "256", Outcome: models.CallSuccess,
	})
	assert.ErrorIs(t, err, ErrInvalidCall)

	_, err = svc.LogCall(context.Background(), LogCallInput{
		SalesRepID: rep, Phone: "256", Outcome: models.CallSuccess,
	})
	assert.ErrorIs(t, err, ErrInvalidCall)

	_, err = svc.LogCall(context.Background(), LogCallInput{
		SalesRepID: rep, FarmerName: "Awa", Phone: "256", Outcome: "voicemail",
	})
	assert.ErrorIs(t, err, ErrInvalidCall)
}

func TestLogCallKeepsProvidedDate(t *testing.T) {
	svc := NewService(&stubCallRepo{}, nil)

	when := time.Date(2026, time.August, 20, 9, 30, 0, 0, time.UTC)
	log, err := svc.LogCall(context.Background(), LogCallInput{
		SalesRepID: primitive.NewObjectID().Hex(),
		FarmerName: "Awa Diallo",
		Phone:      "256700000001",
		CallDate:   when,
		Outcome:    models.CallNoAnswer,
	})
	require.NoError(t, err)
	assert.Equal(t, when, log.CallDate)
}

func TestRecentCallsDefaultsLimit(t *testing.T) {
	repo := &stubCallRepo{}
	svc := NewService(repo, nil)

	_, err := svc.RecentCalls(context.Background(), primitive.NewObjectID().Hex(), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(10), repo.lastLimit)

	_, err = svc.RecentCalls(context.Background(), primitive.NewObjectID().Hex(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), repo.lastLimit)
}
