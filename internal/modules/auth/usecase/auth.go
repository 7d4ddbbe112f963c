package usecase

import (
	"context"

	"goalplan/internal/modules/auth/domain"
	"goalplan/internal/modules/auth/dto"
	authin "goalplan/internal/modules/auth/port/in"
	"goalplan/internal/modules/auth/service"
)

type Interactor struct {
	svc    *service.AuthService
	tokens *service.TokenService
}

func NewInteractor(svc *service.AuthService, tokens *service.TokenService) authin.Usecase {
	return &Interactor{svc: svc, tokens: tokens}
}

func (i *Interactor) Login(ctx context.Context, input dto.LoginInput) (dto.AuthOutput, error) {
	session, err := i.svc.Login(ctx, domain.Credentials{Email: input.Email, Password: input.Password})
	if err != nil {
		return dto.AuthOutput{}, err
	}
	return toOutput(session), nil
}

func (i *Interactor) Register(ctx context.Context, input dto.RegisterInput) (dto.AuthOutput, error) {
	session, err := i.svc.Register(ctx, domain.Registration{
		Name:            input.Name,
		Email:           input.Email,
		Password:        input.Password,
		ConfirmPassword: input.ConfirmPassword,
	})
	if err != nil {
		return dto.AuthOutput{}, err
	}
	return toOutput(session), nil
}

func (i *Interactor) Google(ctx context.Context, input dto.GoogleInput) (dto.AuthOutput, error) {
	session, err := i.svc.Google(ctx, input.AccessToken)
	if err != nil {
		return dto.AuthOutput{}, err
	}
	return toOutput(session), nil
}

func (i *Interactor) Logout(ctx context.Context) error {
	i.svc.Logout(ctx)
	return nil
}

func (i *Interactor) Status(ctx context.Context) (dto.StatusOutput, error) {
	_, ok := i.tokens.Token(ctx)
	out := dto.StatusOutput{Authenticated: ok, Backend: i.tokens.Backend()}
	if !ok {
		return out, nil
	}
	if profile, found := i.tokens.Profile(ctx); found {
		out.Name = profile.Name
		out.Email = profile.Email
	}
	return out, nil
}

func toOutput(session domain.Session) dto.AuthOutput {
	return dto.AuthOutput{
		Name:          session.Profile.Name,
		Email:         session.Profile.Email,
		Authenticated: session.Token != "",
	}
}
