package out

import (
	"context"

	"goalplan/internal/modules/auth/domain"
)

// KeyValueStore persists small string values under named slots. Get on an
// unknown key returns apperrors.ErrNotFound.
type KeyValueStore interface {
	Put(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
	Name() string
}

type Gateway interface {
	Login(ctx context.Context, creds domain.Credentials) (domain.Session, error)
	Register(ctx context.Context, reg domain.Registration) (domain.Session, error)
	Google(ctx context.Context, accessToken string) (domain.Session, error)
}
