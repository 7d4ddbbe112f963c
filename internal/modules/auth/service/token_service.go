package service

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"goalplan/internal/modules/auth/domain"
	authout "goalplan/internal/modules/auth/port/out"
	apperrors "goalplan/internal/platform/errors"
)

// TokenService owns the single process-wide session token. Storage failures
// are logged and swallowed: a failed read reads as "no token".
type TokenService struct {
	store authout.KeyValueStore
	log   *zap.Logger
}

func NewTokenService(store authout.KeyValueStore, log *zap.Logger) *TokenService {
	if log == nil {
		log = zap.NewNop()
	}
	return &TokenService{store: store, log: log.Named("tokens")}
}

func (s *TokenService) Set(ctx context.Context, token string) {
	if err := s.store.Put(ctx, domain.TokenSlot, token); err != nil {
		s.log.Warn("could not save token", zap.String("backend", s.store.Name()), zap.Error(err))
	}
}

// Token returns the stored token, or false when none is stored or the store
// could not be read.
func (s *TokenService) Token(ctx context.Context) (string, bool) {
	token, err := s.store.Get(ctx, domain.TokenSlot)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.log.Warn("could not read token", zap.String("backend", s.store.Name()), zap.Error(err))
		}
		return "", false
	}
	return token, token != ""
}

func (s *TokenService) Clear(ctx context.Context) {
	for _, slot := range []string{domain.TokenSlot, domain.ProfileSlot} {
		if err := s.store.Delete(ctx, slot); err != nil {
			s.log.Warn("could not clear slot", zap.String("slot", slot), zap.Error(err))
		}
	}
}

func (s *TokenService) SaveProfile(ctx context.Context, profile domain.Profile) {
	raw, err := json.Marshal(profile)
	if err != nil {
		s.log.Warn("could not encode profile", zap.Error(err))
		return
	}
	if err := s.store.Put(ctx, domain.ProfileSlot, string(raw)); err != nil {
		s.log.Warn("could not save profile", zap.Error(err))
	}
}

func (s *TokenService) Profile(ctx context.Context) (domain.Profile, bool) {
	raw, err := s.store.Get(ctx, domain.ProfileSlot)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.log.Warn("could not read profile", zap.Error(err))
		}
		return domain.Profile{}, false
	}
	profile := domain.Profile{}
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		s.log.Warn("could not decode profile", zap.Error(err))
		return domain.Profile{}, false
	}
	return profile, true
}

func (s *TokenService) Backend() string { return s.store.Name() }
