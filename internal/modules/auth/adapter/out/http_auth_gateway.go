package out

import (
	"context"
	"net/http"

	"goalplan/internal/modules/auth/domain"
	authout "goalplan/internal/modules/auth/port/out"
	"goalplan/internal/platform/httpapi"
)

type HTTPAuthGateway struct {
	client *httpapi.Client
}

func NewHTTPAuthGateway(client *httpapi.Client) authout.Gateway {
	return &HTTPAuthGateway{client: client}
}

type authResponse struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (r authResponse) session() domain.Session {
	return domain.Session{Token: r.Token, Profile: domain.Profile{Name: r.Name, Email: r.Email}}
}

func (g *HTTPAuthGateway) Login(ctx context.Context, creds domain.Credentials) (domain.Session, error) {
	body := map[string]string{"email": creds.Email, "password": creds.Password}
	return g.post(ctx, "/users/login/", body)
}

func (g *HTTPAuthGateway) Register(ctx context.Context, reg domain.Registration) (domain.Session, error) {
	body := map[string]string{"name": reg.Name, "email": reg.Email, "password": reg.Password}
	return g.post(ctx, "/users/register/", body)
}

func (g *HTTPAuthGateway) Google(ctx context.Context, accessToken string) (domain.Session, error) {
	return g.post(ctx, "/users/google/", map[string]string{"token": accessToken})
}

func (g *HTTPAuthGateway) post(ctx context.Context, path string, body any) (domain.Session, error) {
	resp := authResponse{}
	if err := g.client.Do(ctx, httpapi.Request{Method: http.MethodPost, Path: path, Body: body}, &resp); err != nil {
		return domain.Session{}, err
	}
	return resp.session(), nil
}
