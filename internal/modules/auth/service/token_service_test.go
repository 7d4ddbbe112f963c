package service_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"goalplan/internal/modules/auth/domain"
	"goalplan/internal/modules/auth/service"
	apperrors "goalplan/internal/platform/errors"
)

type memStore struct {
	values map[string]string
	err    error
}

func newMemStore() *memStore { return &memStore{values: map[string]string{}} }

func (m *memStore) Name() string { return "memory" }
func (m *memStore) Put(_ context.Context, key, value string) error {
	if m.err != nil {
		return m.err
	}
	m.values[key] = value
	return nil
}
func (m *memStore) Get(_ context.Context, key string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	v, ok := m.values[key]
	if !ok {
		return "", apperrors.ErrNotFound
	}
	return v, nil
}
func (m *memStore) Delete(_ context.Context, key string) error {
	if m.err != nil {
		return m.err
	}
	delete(m.values, key)
	return nil
}

func TestTokenRoundTripAndClear(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tokens := service.NewTokenService(newMemStore(), zap.NewNop())

	if _, ok := tokens.Token(ctx); ok {
		t.Fatalf("expected no token initially")
	}
	tokens.Set(ctx, "abc")
	if got, ok := tokens.Token(ctx); !ok || got != "abc" {
		t.Fatalf("expected abc, got %q ok=%v", got, ok)
	}
	tokens.SaveProfile(ctx, domain.Profile{Name: "Ana", Email: "ana@example.com"})
	if p, ok := tokens.Profile(ctx); !ok || p.Name != "Ana" {
		t.Fatalf("expected stored profile, got %+v ok=%v", p, ok)
	}
	tokens.Clear(ctx)
	if _, ok := tokens.Token(ctx); ok {
		t.Fatalf("expected token cleared")
	}
	if _, ok := tokens.Profile(ctx); ok {
		t.Fatalf("expected profile cleared")
	}
}

func TestTokenServiceSwallowsStorageFailures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newMemStore()
	store.err = errors.New("disk full")
	tokens := service.NewTokenService(store, nil)

	tokens.Set(ctx, "abc")
	tokens.Clear(ctx)
	if got, ok := tokens.Token(ctx); ok || got != "" {
		t.Fatalf("failed read must report absent, got %q ok=%v", got, ok)
	}
}

func TestEmptyTokenReadsAsAbsent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tokens := service.NewTokenService(newMemStore(), nil)
	tokens.Set(ctx, "")
	if _, ok := tokens.Token(ctx); ok {
		t.Fatalf("empty token must read as absent")
	}
}
