package in

import (
	"context"

	"goalplan/internal/modules/auth/dto"
)

type Usecase interface {
	Login(ctx context.Context, input dto.LoginInput) (dto.AuthOutput, error)
	Register(ctx context.Context, input dto.RegisterInput) (dto.AuthOutput, error)
	Google(ctx context.Context, input dto.GoogleInput) (dto.AuthOutput, error)
	Logout(ctx context.Context) error
	Status(ctx context.Context) (dto.StatusOutput, error)
}
