package apperrors

import (
	"errors"
	"io"
	"testing"
)

func TestValidationErrorMatchesInvalidInput(t *testing.T) {
	t.Parallel()
	err := Validation("email", "Invalid email")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected validation error to match ErrInvalidInput")
	}
	var vErr *ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "email" {
		t.Fatalf("expected field email, got %+v", vErr)
	}
}

func TestNetworkErrorUnwraps(t *testing.T) {
	t.Parallel()
	err := &NetworkError{Op: "GET /goals/", Err: io.ErrUnexpectedEOF}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected network error to unwrap transport error")
	}
	if err.Error() != "network error: GET /goals/: unexpected EOF" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestWithDefaultMessageOnlyFillsEmptyAPIErrors(t *testing.T) {
	t.Parallel()
	err := WithDefaultMessage(&APIError{Status: 500}, "Error creating goal")
	if err.Error() != "Error creating goal" {
		t.Fatalf("expected fallback message, got %q", err.Error())
	}
	err = WithDefaultMessage(&APIError{Status: 400, Message: "bad plazo"}, "Error creating goal")
	if err.Error() != "bad plazo" {
		t.Fatalf("expected server message kept, got %q", err.Error())
	}
	if got := WithDefaultMessage(ErrAuthenticationRequired, "x"); got != ErrAuthenticationRequired {
		t.Fatalf("expected sentinel untouched, got %v", got)
	}
}
