// Package auth handles account signup, login and token verification.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mamadbah2/brooder/internal/domain/models"
	"github.com/mamadbah2/brooder/internal/repository/mongodb"
)

var (
	// ErrInvalidCredentials indicates an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("email is already registered")

	// ErrInvalidToken indicates the bearer token failed verification.
	ErrInvalidToken = errors.New("invalid token")

	// ErrInvalidSignup indicates the signup form failed validation.
	ErrInvalidSignup = errors.New("invalid signup")
)

// Identity is the verified actor attached to authenticated requests.
type Identity struct {
	UserID string
	Name   string
	Role   models.Role
}

// Repository is the persistence surface auth needs.
type Repository interface {
	InsertUser(ctx context.Context, user *models.User) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Service implements signup, login and token verification.
type Service struct {
	repo     Repository
	secret   []byte
	tokenTTL time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires an auth service.
func NewService(repo Repository, secret string, tokenTTL time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Service{
		repo:     repo,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// SignupInput is the account registration form.
type SignupInput struct {
	Name            string
	Email           string
	Phone           string
	Password        string
	Role            models.Role
	NIN             string
	RecommenderName string
	RecommenderNIN  string
}

// Signup registers a new account. Farmers must provide a NIN and recommender
// details; everyone needs a name, email, phone and password.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" || in.Email == "" || in.Phone == "" {
		return nil, fmt.Errorf("%w: name, email and phone are required", ErrInvalidSignup)
	}
	if len(in.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidSignup)
	}
	if !in.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidSignup, in.Role)
	}
	if in.Role == models.RoleFarmer && (in.NIN == "" || in.RecommenderName == "" || in.RecommenderNIN == "") {
		return nil, fmt.Errorf("%w: farmers must provide a NIN and recommender details", ErrInvalidSignup)
	}

	if _, err := s.repo.FindUserByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, mongodb.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:            in.Name,
		Email:           in.Email,
		Phone:           in.Phone,
		PasswordHash:    string(hash),
		Role:            in.Role,
		NIN:             in.NIN,
		RecommenderName: in.RecommenderName,
		RecommenderNIN:  in.RecommenderNIN,
		CreatedAt:       s.now().UTC(),
	}

	stored, err := s.repo.InsertUser(ctx, user)
	if errors.Is(err, mongodb.ErrDuplicate) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.String("email", stored.Email), zap.String("role", string(stored.Role)))
	return stored, nil
}

// Login verifies the credentials and issues a signed token.
func (s *Service) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.FindUserByEmail(ctx, email)
	if errors.Is(err, mongodb.ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID.Hex(),
		"name": user.Name,
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, user, nil
}

// VerifyToken checks a bearer token and extracts the actor identity.
func (s *Service) VerifyToken(tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	name, _ := claims["name"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || !models.Role(role).Valid() {
		return nil, ErrInvalidToken
	}

	return &Identity{UserID: sub, Name: name, Role: models.Role(role)}, nil
}
