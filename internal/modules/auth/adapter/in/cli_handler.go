package in

import (
	"context"

	"goalplan/internal/modules/auth/dto"
	authin "goalplan/internal/modules/auth/port/in"
)

type CLIHandler struct {
	usecase authin.Usecase
}

func NewCLIHandler(usecase authin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Login(ctx context.Context, email, password string) (dto.AuthOutput, error) {
	return h.usecase.Login(ctx, dto.LoginInput{Email: email, Password: password})
}

func (h CLIHandler) Register(ctx context.Context, name, email, password, confirm string) (dto.AuthOutput, error) {
	return h.usecase.Register(ctx, dto.RegisterInput{Name: name, Email: email, Password: password, ConfirmPassword: confirm})
}

func (h CLIHandler) Google(ctx context.Context, accessToken string) (dto.AuthOutput, error) {
	return h.usecase.Google(ctx, dto.GoogleInput{AccessToken: accessToken})
}

func (h CLIHandler) Logout(ctx context.Context) error {
	return h.usecase.Logout(ctx)
}

func (h CLIHandler) Status(ctx context.Context) (dto.StatusOutput, error) {
	return h.usecase.Status(ctx)
}
