package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/model"
	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/service/rbac"
	"github.com/bhavikekalathur-spec/patient-clinical-workflow/pkg/auth"
	apperrors "github.com/bhavikekalathur-spec/patient-clinical-workflow/pkg/errors"
)

var errInvalidCredentials = errors.New("invalid credentials")

// Service establishes and resolves sessions. Active tokens live in a TTL
// cache so logout takes effect immediately even while the JWT itself is
// still within its validity window.
type Service struct {
	registry *rbac.Service
	jwt      *auth.JWTService
	sessions *cache.Cache
	expiry   time.Duration
}

func NewService(registry *rbac.Service, jwtSvc *auth.JWTService, expiry time.Duration) *Service {
	return &Service{
		registry: registry,
		jwt:      jwtSvc,
		sessions: cache.New(expiry, 10*time.Minute),
		expiry:   expiry,
	}
}

// Login validates credentials against the static registry and opens a
// session.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	user, ok := s.registry.LookupUser(req.Username)
	if !ok {
		return nil, apperrors.Unauthenticated(errInvalidCredentials)
	}
	if subtle.ConstantTimeCompare([]byte(user.Password), []byte(req.Password)) != 1 {
		return nil, apperrors.Unauthenticated(errInvalidCredentials)
	}

	token, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	actor, err := s.registry.ActorFor(user)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	s.sessions.Set(token, user.Username, s.expiry)

	return &model.TokenResponse{
		AccessToken: token,
		Actor:       actor,
	}, nil
}

// Logout drops the active session. Unknown tokens are a no-op.
func (s *Service) Logout(ctx context.Context, token string) {
	s.sessions.Delete(token)
}

// ResolveSession turns a bearer token into the typed actor for the request.
func (s *Service) ResolveSession(ctx context.Context, token string) (*model.Actor, error) {
	if _, ok := s.sessions.Get(token); !ok {
		return nil, apperrors.Unauthenticated(errors.New("no active session"))
	}

	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthenticated(err)
	}

	user, ok := s.registry.LookupUser(claims.Username)
	if !ok {
		return nil, apperrors.Unauthenticated(errors.New("unknown user"))
	}

	actor, err := s.registry.ActorFor(user)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return actor, nil
}
