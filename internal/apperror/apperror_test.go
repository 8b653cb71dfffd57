package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelMatching(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"not found", NotFound("User not found"), ErrNotFound},
		{"validation", ValidationFailed("email", "Email & password required"), ErrValidation},
		{"conflict", Conflict("User already exists"), ErrConflict},
		{"unauthorized", Unauthorized("valid authentication required"), ErrUnauthorized},
		{"upstream", Upstream(errors.New("connection refused")), ErrUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("errors.Is(%v, sentinel) = false", tt.err)
			}

			// Matching must survive further wrapping by callers.
			wrapped := fmt.Errorf("service: %w", tt.err)
			if !errors.Is(wrapped, tt.sentinel) {
				t.Errorf("errors.Is on wrapped error = false")
			}

			var appErr *AppError
			if !errors.As(wrapped, &appErr) {
				t.Fatal("errors.As should extract *AppError from wrapped error")
			}
			if appErr.Message == "" {
				t.Error("AppError.Message is empty")
			}
		})
	}
}

func TestUpstream_RetainsCause(t *testing.T) {
	cause := errors.New("dial tcp: i/o timeout")
	err := Upstream(cause)

	if !errors.Is(err, cause) {
		t.Error("Upstream() should keep the cause in the chain")
	}
	if err.Message != "AI reasoning failed" {
		t.Errorf("Message = %q, want %q", err.Message, "AI reasoning failed")
	}
}

func TestAppError_ErrorIsMessage(t *testing.T) {
	err := ValidationFailed("ingredients", "Ingredients or an image is required")
	if err.Error() != "Ingredients or an image is required" {
		t.Errorf("Error() = %q", err.Error())
	}
	if err.Field != "ingredients" {
		t.Errorf("Field = %q", err.Field)
	}
}
