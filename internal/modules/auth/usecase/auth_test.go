package usecase_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	authoutadapter "goalplan/internal/modules/auth/adapter/out"
	"goalplan/internal/modules/auth/domain"
	"goalplan/internal/modules/auth/dto"
	authin "goalplan/internal/modules/auth/port/in"
	"goalplan/internal/modules/auth/service"
	"goalplan/internal/modules/auth/usecase"
	apperrors "goalplan/internal/platform/errors"
)

type fakeGateway struct {
	calls   int
	session domain.Session
	err     error
}

func (f *fakeGateway) Login(context.Context, domain.Credentials) (domain.Session, error) {
	f.calls++
	return f.session, f.err
}
func (f *fakeGateway) Register(context.Context, domain.Registration) (domain.Session, error) {
	f.calls++
	return f.session, f.err
}
func (f *fakeGateway) Google(context.Context, string) (domain.Session, error) {
	f.calls++
	return f.session, f.err
}

func newInteractor(t *testing.T, gw *fakeGateway) (*service.TokenService, authin.Usecase) {
	t.Helper()
	store, err := authoutadapter.NewDiskvKVStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	tokens := service.NewTokenService(store, zap.NewNop())
	return tokens, usecase.NewInteractor(service.NewAuthService(gw, tokens, zap.NewNop()), tokens)
}

func TestLoginStoresTokenAndProfile(t *testing.T) {
	t.Parallel()
	gw := &fakeGateway{session: domain.Session{Token: "tok", Profile: domain.Profile{Name: "Ana", Email: "ana@example.com"}}}
	tokens, uc := newInteractor(t, gw)
	ctx := context.Background()

	out, err := uc.Login(ctx, dto.LoginInput{Email: " ana@example.com ", Password: "pw"})
	if err != nil || !out.Authenticated || out.Name != "Ana" {
		t.Fatalf("login: %+v err=%v", out, err)
	}
	if got, ok := tokens.Token(ctx); !ok || got != "tok" {
		t.Fatalf("expected stored token, got %q", got)
	}
	status, _ := uc.Status(ctx)
	if !status.Authenticated || status.Email != "ana@example.com" || status.Backend != "file" {
		t.Fatalf("unexpected status %+v", status)
	}

	if err := uc.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	status, _ = uc.Status(ctx)
	if status.Authenticated || status.Name != "" {
		t.Fatalf("expected logged out status, got %+v", status)
	}
}

func TestResponseWithoutTokenIsNotPersisted(t *testing.T) {
	t.Parallel()
	gw := &fakeGateway{session: domain.Session{Profile: domain.Profile{Name: "Ana"}}}
	tokens, uc := newInteractor(t, gw)
	out, err := uc.Register(context.Background(), dto.RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "pw", ConfirmPassword: "pw"})
	if err != nil || out.Authenticated {
		t.Fatalf("expected unauthenticated success, got %+v err=%v", out, err)
	}
	if _, ok := tokens.Token(context.Background()); ok {
		t.Fatalf("token must not be stored")
	}
}

func TestValidationFailsBeforeAnyCall(t *testing.T) {
	t.Parallel()
	gw := &fakeGateway{}
	_, uc := newInteractor(t, gw)
	ctx := context.Background()
	if _, err := uc.Login(ctx, dto.LoginInput{Email: "not-an-email", Password: "pw"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := uc.Register(ctx, dto.RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "a", ConfirmPassword: "b"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected mismatch error, got %v", err)
	}
	if _, err := uc.Google(ctx, dto.GoogleInput{}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected missing token error, got %v", err)
	}
	if gw.calls != 0 {
		t.Fatalf("expected no gateway calls, got %d", gw.calls)
	}
}

func TestGatewayErrorGetsGenericMessage(t *testing.T) {
	t.Parallel()
	gw := &fakeGateway{err: &apperrors.APIError{Status: 500}}
	_, uc := newInteractor(t, gw)
	_, err := uc.Google(context.Background(), dto.GoogleInput{AccessToken: "g"})
	if err == nil || err.Error() != "Something went wrong" {
		t.Fatalf("expected generic message, got %v", err)
	}
}
