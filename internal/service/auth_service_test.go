package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/resultbook/internal/config"
	"github.com/stemsi/resultbook/internal/model"
)

func newAuthService() *AuthService {
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiry: time.Hour, BcryptCost: 4}
	return NewAuthService(cfg, &memOperators{}, testLog)
}

func TestAuthLoginIssuesRoleToken(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	op, err := svc.CreateOperator(ctx, "teacher1", "secret123", model.RoleTeacher)
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", op.PasswordHash)

	resp, err := svc.Login(ctx, model.LoginRequest{Username: "teacher1", Password: "secret123"})
	require.NoError(t, err)
	assert.Contains(t, resp.Permissions, string(model.PermissionMarksWrite))
	assert.NotContains(t, resp.Permissions, string(model.PermissionSettingsWrite))

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, op.ID, claims.UserID)
	assert.Equal(t, model.RoleTeacher, claims.Role)
	assert.Equal(t, resp.Permissions, claims.Permissions)

	me, err := svc.Me(ctx, claims.UserID)
	require.NoError(t, err)
	assert.Equal(t, "teacher1", me.Username)
}

func TestAuthLoginFailures(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()
	_, err := svc.CreateOperator(ctx, "account1", "secret123", model.RoleAccount)
	require.NoError(t, err)

	_, err = svc.Login(ctx, model.LoginRequest{Username: "account1", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, model.LoginRequest{Username: "ghost", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthCreateOperatorRejectsUnknownRole(t *testing.T) {
	_, err := newAuthService().CreateOperator(context.Background(), "x", "secret123", model.Role("principal"))
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestAuthValidateTokenRejectsForeignSecret(t *testing.T) {
	svc := newAuthService()
	other := NewAuthService(&config.Config{JWTSecret: "other", JWTExpiry: time.Hour, BcryptCost: 4}, &memOperators{}, testLog)

	token, err := other.GenerateToken(&model.Operator{ID: 1, Username: "x", Role: model.RoleSupervisor})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}
