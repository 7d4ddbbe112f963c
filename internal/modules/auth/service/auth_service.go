package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"goalplan/internal/modules/auth/domain"
	authout "goalplan/internal/modules/auth/port/out"
	apperrors "goalplan/internal/platform/errors"
)

const genericAuthError = "Something went wrong"

type AuthService struct {
	gateway authout.Gateway
	tokens  *TokenService
	log     *zap.Logger
}

func NewAuthService(gateway authout.Gateway, tokens *TokenService, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{gateway: gateway, tokens: tokens, log: log.Named("auth")}
}

func (s *AuthService) Login(ctx context.Context, creds domain.Credentials) (domain.Session, error) {
	if err := creds.Validate(); err != nil {
		return domain.Session{}, err
	}
	creds.Email = strings.TrimSpace(creds.Email)
	session, err := s.gateway.Login(ctx, creds)
	if err != nil {
		return domain.Session{}, apperrors.WithDefaultMessage(err, genericAuthError)
	}
	s.persist(ctx, session)
	return session, nil
}

func (s *AuthService) Register(ctx context.Context, reg domain.Registration) (domain.Session, error) {
	if err := reg.Validate(); err != nil {
		return domain.Session{}, err
	}
	reg.Email = strings.TrimSpace(reg.Email)
	session, err := s.gateway.Register(ctx, reg)
	if err != nil {
		return domain.Session{}, apperrors.WithDefaultMessage(err, genericAuthError)
	}
	s.persist(ctx, session)
	return session, nil
}

func (s *AuthService) Google(ctx context.Context, accessToken string) (domain.Session, error) {
	if strings.TrimSpace(accessToken) == "" {
		return domain.Session{}, apperrors.Validation("access_token", "Google access token is required")
	}
	session, err := s.gateway.Google(ctx, accessToken)
	if err != nil {
		return domain.Session{}, apperrors.WithDefaultMessage(err, genericAuthError)
	}
	s.persist(ctx, session)
	return session, nil
}

func (s *AuthService) Logout(ctx context.Context) {
	s.tokens.Clear(ctx)
	s.log.Info("logged out")
}

// persist stores the token only when the backend issued one.
func (s *AuthService) persist(ctx context.Context, session domain.Session) {
	if session.Token == "" {
		s.log.Info("auth call returned no token")
		return
	}
	s.tokens.Set(ctx, session.Token)
	s.tokens.SaveProfile(ctx, session.Profile)
	s.log.Info("session stored", zap.String("email", session.Profile.Email))
}
