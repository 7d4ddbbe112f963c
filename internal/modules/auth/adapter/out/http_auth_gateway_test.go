package out_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gorilla/mux"

	authoutadapter "goalplan/internal/modules/auth/adapter/out"
	"goalplan/internal/modules/auth/domain"
	apperrors "goalplan/internal/platform/errors"
	"goalplan/internal/platform/httpapi"
)

func TestHTTPAuthGatewayEndpoints(t *testing.T) {
	t.Parallel()
	var mu sync.Mutex
	seen := map[string]map[string]string{}
	payload := func(path string) map[string]string {
		mu.Lock()
		defer mu.Unlock()
		return seen[path]
	}
	r := mux.NewRouter()
	handler := func(w http.ResponseWriter, req *http.Request) {
		body := map[string]string{}
		_ = json.NewDecoder(req.Body).Decode(&body)
		mu.Lock()
		seen[req.URL.Path] = body
		mu.Unlock()
		if req.Header.Get("Authorization") != "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if body["password"] == "wrong" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Invalid credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"token":"tok","name":"Ana","email":"ana@example.com"}`))
	}
	r.HandleFunc("/users/login/", handler).Methods(http.MethodPost)
	r.HandleFunc("/users/register/", handler).Methods(http.MethodPost)
	r.HandleFunc("/users/google/", handler).Methods(http.MethodPost)
	srv := httptest.NewServer(r)
	defer srv.Close()

	gw := authoutadapter.NewHTTPAuthGateway(httpapi.New(srv.URL))
	ctx := context.Background()

	session, err := gw.Login(ctx, domain.Credentials{Email: "ana@example.com", Password: "pw"})
	if err != nil || session.Token != "tok" || session.Profile.Name != "Ana" {
		t.Fatalf("login: %+v err=%v", session, err)
	}
	if _, err := gw.Register(ctx, domain.Registration{Name: "Ana", Email: "ana@example.com", Password: "pw", ConfirmPassword: "pw"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if reg := payload("/users/register/"); reg["name"] != "Ana" || reg["confirm_password"] != "" {
		t.Fatalf("unexpected register payload %+v", reg)
	}
	if _, err := gw.Google(ctx, "google-access"); err != nil || payload("/users/google/")["token"] != "google-access" {
		t.Fatalf("google: err=%v payload=%+v", err, payload("/users/google/"))
	}

	_, err = gw.Login(ctx, domain.Credentials{Email: "ana@example.com", Password: "wrong"})
	var apiErr *apperrors.APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "Invalid credentials" {
		t.Fatalf("expected api error, got %v", err)
	}
}
