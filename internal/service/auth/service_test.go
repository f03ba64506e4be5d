package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/model"
	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/service/rbac"
	pkgauth "github.com/bhavikekalathur-spec/patient-clinical-workflow/pkg/auth"
	apperrors "github.com/bhavikekalathur-spec/patient-clinical-workflow/pkg/errors"
)

func newAuthService(t *testing.T) *Service {
	t.Helper()
	registry := rbac.NewService()
	require.NoError(t, registry.RegisterUser(&model.User{
		Username: "drwilson",
		Password: "doctor123",
		Name:     "Dr. Wilson",
		Role:     model.RoleDoctor,
	}))
	jwtSvc := pkgauth.NewJWTService("test-secret", time.Hour)
	return NewService(registry, jwtSvc, time.Hour)
}

func TestLogin(t *testing.T) {
	svc := newAuthService(t)

	resp, err := svc.Login(context.Background(), &model.LoginRequest{
		Username: "drwilson",
		Password: "doctor123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, model.RoleDoctor, resp.Actor.Role)
	assert.True(t, resp.Actor.HasPermission(model.PermissionCreatePatient))
}

func TestLoginBadCredentials(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Username: "drwilson",
		Password: "wrong",
	})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthenticated))

	_, err = svc.Login(context.Background(), &model.LoginRequest{
		Username: "ghost",
		Password: "doctor123",
	})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthenticated))
}

func TestResolveSession(t *testing.T) {
	svc := newAuthService(t)

	resp, err := svc.Login(context.Background(), &model.LoginRequest{
		Username: "drwilson",
		Password: "doctor123",
	})
	require.NoError(t, err)

	actor, err := svc.ResolveSession(context.Background(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "drwilson", actor.Username)
	assert.Equal(t, model.RoleDoctor, actor.Role)
}

func TestResolveSessionUnknownToken(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.ResolveSession(context.Background(), "never-issued")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthenticated))
}

func TestLogoutInvalidatesSession(t *testing.T) {
	svc := newAuthService(t)

	resp, err := svc.Login(context.Background(), &model.LoginRequest{
		Username: "drwilson",
		Password: "doctor123",
	})
	require.NoError(t, err)

	svc.Logout(context.Background(), resp.AccessToken)

	_, err = svc.ResolveSession(context.Background(), resp.AccessToken)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthenticated),
		"token must stop resolving immediately after logout")
}
