package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/stemsi/resultbook/internal/config"
	"github.com/stemsi/resultbook/internal/model"
	"github.com/stemsi/resultbook/internal/repository"
)

// Common auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("unknown operator role")
)

// Claims extends JWT standard claims with operator fields.
type Claims struct {
	jwt.RegisteredClaims
	UserID      int        `json:"user_id"`
	Username    string     `json:"username"`
	Role        model.Role `json:"role"`
	Permissions []string   `json:"permissions"`
}

// OperatorStore persists operator accounts.
type OperatorStore interface {
	GetByUsername(ctx context.Context, username string) (*model.Operator, error)
	GetByID(ctx context.Context, id int) (*model.Operator, error)
	Upsert(ctx context.Context, o *model.Operator) error
}

// AuthService handles operator authentication and JWTs.
type AuthService struct {
	cfg       *config.Config
	operators OperatorStore
	log       zerolog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, operators OperatorStore, log zerolog.Logger) *AuthService {
	return &AuthService{
		cfg:       cfg,
		operators: operators,
		log:       log.With().Str("component", "auth_service").Logger(),
	}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Login verifies credentials and issues a token carrying the role's permissions.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	op, err := s.operators.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get operator: %w", err)
	}
	if err := s.CheckPassword(op.PasswordHash, req.Password); err != nil {
		s.log.Warn().Str("username", req.Username).Msg("failed login")
		return nil, err
	}

	token, err := s.GenerateToken(op)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int("operator_id", op.ID).Str("role", string(op.Role)).Msg("operator logged in")
	return &model.LoginResponse{
		Token:       token,
		Operator:    *op,
		Permissions: op.Role.Permissions(),
	}, nil
}

// Me returns the operator behind a validated token.
func (s *AuthService) Me(ctx context.Context, id int) (*model.Operator, error) {
	return s.operators.GetByID(ctx, id)
}

// CreateOperator creates an operator or resets an existing one's password and role.
func (s *AuthService) CreateOperator(ctx context.Context, username, password string, role model.Role) (*model.Operator, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	op := &model.Operator{Username: username, PasswordHash: hash, Role: role}
	if err := s.operators.Upsert(ctx, op); err != nil {
		return nil, fmt.Errorf("save operator: %w", err)
	}
	return op, nil
}

// GenerateToken creates a JWT for an operator with permissions embedded.
func (s *AuthService) GenerateToken(op *model.Operator) (string, error) {
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   strconv.Itoa(op.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		UserID:      op.ID,
		Username:    op.Username,
		Role:        op.Role,
		Permissions: op.Role.Permissions(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
