package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/brooder/internal/domain/models"
	"github.com/mamadbah2/brooder/internal/repository/mongodb"
	"github.com/mamadbah2/brooder/internal/server/handlers"
	"github.com/mamadbah2/brooder/internal/service/auth"
	"github.com/mamadbah2/brooder/internal/service/intake"
)

type stubUserRepo struct {
	users map[string]*models.User
}

func (r *stubUserRepo) InsertUser(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID = primitive.NewObjectID()
	r.users[user.Email] = user
	return user, nil
}

func (r *stubUserRepo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := r.users[email]
	if !ok {
		return nil, mongodb.ErrNotFound
	}
	return user, nil
}

type stubIntakeRepo struct{}

func (stubIntakeRepo) InsertChickRequest(ctx context.Context, req *models.ChickRequest) (*models.ChickRequest, error) {
	req.ID = primitive.NewObjectID()
	return req, nil
}

func (stubIntakeRepo) InsertFeedRequest(ctx context.Context, req *models.FeedRequest) (*models.FeedRequest, error) {
	req.ID = primitive.NewObjectID()
	return req, nil
}

func (stubIntakeRepo) CountOpenFeedRequests(ctx context.Context, farmer primitive.ObjectID) (int64, error) {
	return 0, nil
}

func (stubIntakeRepo) CountFeedRequestsBetween(ctx context.Context, start, end time.Time) (int64, error) {
	return 0, nil
}

func (stubIntakeRepo) ListChickRequestsByFarmer(ctx context.Context, farmer primitive.ObjectID) ([]models.ChickRequest, error) {
	return nil, nil
}

func (stubIntakeRepo) ListFeedRequestsByFarmer(ctx context.Context, farmer primitive.ObjectID) ([]models.FeedRequest, error) {
	return nil, nil
}

func testEngine(t *testing.T) (*gin.Engine, *auth.Service) {
	t.Helper()

	authSvc := auth.NewService(&stubUserRepo{users: make(map[string]*models.User)}, "test-secret", time.Hour, nil)
	intakeSvc := intake.NewService(stubIntakeRepo{}, nil)

	engine := New(Handlers{
		Auth:     handlers.NewAuthHandler(authSvc, nil),
		Requests: handlers.NewRequestHandler(intakeSvc, nil, nil, nil),
	}, authSvc, nil)
	return engine, authSvc
}

func tokenFor(t *testing.T, authSvc *auth.Service, role models.Role) string {
	t.Helper()

	email := strings.ToLower(string(role)) + "@example.com"
	_, err := authSvc.Signup(context.Background(), auth.SignupInput{
		Name:            "Test " + string(role),
		Email:           email,
		Phone:           "256700000001",
		Password:        "s3cret-pass",
		Role:            role,
		NIN:             "CF1234567890",
		RecommenderName: "Musa Kintu",
		RecommenderNIN:  "CM0987654321",
	})
	require.NoError(t, err)

	token, _, err := authSvc.Login(context.Background(), email, "s3cret-pass")
	require.NoError(t, err)
	return token
}

func TestHealthzIsOpen(t *testing.T) {
	engine, _ := testEngine(t)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	engine, _ := testEngine(t)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/requests/mine", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRouteRejectsBadToken(t *testing.T) {
	engine, _ := testEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/api/requests/mine", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestManagerRouteForbiddenForFarmer(t *testing.T) {
	engine, authSvc := testEngine(t)
	token := tokenFor(t, authSvc, models.RoleFarmer)

	req := httptest.NewRequest(http.MethodGet, "/api/stock", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestFarmerCanSubmitChickRequest(t *testing.T) {
	engine, authSvc := testEngine(t)
	token := tokenFor(t, authSvc, models.RoleFarmer)

	body := `{"farmer_type":"starter","chick_type":"broiler","quantity":50}`
	req := httptest.NewRequest(http.MethodPost, "/api/requests/chicks", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Success bool `json:"success"`
		Request struct {
			Status    string  `json:"status"`
			TotalCost float64 `json:"total_cost"`
		} `json:"request"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "pending", resp.Request.Status)
	assert.Equal(t, float64(82500), resp.Request.TotalCost)
}

func TestFarmerChickRequestOverLimitIsBadRequest(t *testing.T) {
	engine, authSvc := testEngine(t)
	token := tokenFor(t, authSvc, models.RoleFarmer)

	body := `{"farmer_type":"starter","chick_type":"broiler","quantity":500}`
	req := httptest.NewRequest(http.MethodPost, "/api/requests/chicks", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
