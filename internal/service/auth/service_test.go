package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/brooder/internal/domain/models"
	"github.com/mamadbah2/brooder/internal/repository/mongodb"
)

type stubUserRepo struct {
	users map[string]*models.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*models.User)}
}

func (r *stubUserRepo) InsertUser(ctx context.Context, user *models.User) (*models.User, error) {
	if _, exists := r.users[user.Email]; exists {
		return nil, mongodb.ErrDuplicate
	}
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

func farmerSignup() SignupInput {
	return SignupInput{
		Name:            "Awa Diallo",
		Email:           "awa@example.com",
		Phone:           "256700000001",
		Password:        "s3cret-pass",
		Role:            models.RoleFarmer,
		NIN:             "CF1234567890",
		RecommenderName: "Musa Kintu",
		RecommenderNIN:  "CM0987654321",
	}
}

func TestSignupAndLoginRoundTrip(t *testing.T) {
	svc := NewService(newStubUserRepo(), "test-secret", time.Hour, nil)

	user, err := svc.Signup(context.Background(), farmerSignup())
	require.NoError(t, err)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)

	token, logged, err := svc.Login(context.Background(), "awa@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	identity, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), identity.UserID)
	assert.Equal(t, "Awa Diallo", identity.Name)
	assert.Equal(t, models.RoleFarmer, identity.Role)
}

func TestSignupNormalizesEmail(t *testing.T) {
	svc := NewService(newStubUserRepo(), "test-secret", time.Hour, nil)

	in := farmerSignup()
	in.Email = "  Awa@Example.COM "
	user, err := svc.Signup(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "awa@example.com", user.Email)
}

func TestSignupFarmerRequiresRecommender(t *testing.T) {
	svc := NewService(newStubUserRepo(), "test-secret", time.Hour, nil)

	in := farmerSignup()
	in.RecommenderName = ""
	_, err := svc.Signup(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidSignup)
}

func TestSignupManagerWithoutNIN(t *testing.T) {
	svc := NewService(newStubUserRepo(), "test-secret", time.Hour, nil)

	_, err := svc.Signup(context.Background(), SignupInput{
		Name:     "Grace Auma",
		Email:    "grace@example.com",
		Phone:    "256700000002",
		Password: "s3cret-pass",
		Role:     models.RoleManager,
	})
	assert.NoError(t, err)
}

func TestSignupRejectsShortPassword(t *testing.T) {
	svc := NewService(newStubUserRepo(), "test-secret", time.Hour, nil)

	in := farmerSignup()
	in.Password = "short"
	_, err := svc.Signup(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidSignup)
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc := NewService(newStubUserRepo(), "test-secret", time.Hour, nil)

	_, err := svc.Signup(context.Background(), farmerSignup())
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), farmerSignup())
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := NewService(newStubUserRepo(), "test-secret", time.Hour, nil)

	_, err := svc.Signup(context.Background(), farmerSignup())
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "awa@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := NewService(newStubUserRepo(), "test-secret", time.Hour, nil)

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	svc := NewService(newStubUserRepo(), "test-secret", time.Hour, nil)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  primitive.NewObjectID().Hex(),
		"name": "Mallory",
		"role": string(models.RoleManager),
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := forged.SignedString([]byte("other-secret"))
	require.NoError(t, err)

	_, err = svc.VerifyToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewService(repo, "test-secret", time.Hour, nil)

	_, err := svc.Signup(context.Background(), farmerSignup())
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := svc.Login(context.Background(), "awa@example.com", "s3cret-pass")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	svc := NewService(newStubUserRepo(), "test-secret", time.Hour, nil)

	_, err := svc.VerifyToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
