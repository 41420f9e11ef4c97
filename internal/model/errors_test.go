package model

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorConstructors_CodeAndStatusPairing(t *testing.T) {
	tests := []struct {
		name       string
		err        *APIError
		wantCode   string
		wantStatus int
	}{
		{"not found", NewNotFoundError(), CodeNotFound, 404},
		{"unauthorized", NewUnauthorizedError(), CodeUnauthorized, 401},
		{"bad request", NewBadRequestError(nil), CodeBadRequest, 400},
		{"forbidden", NewForbiddenError(), CodeForbidden, 403},
		{"conflict", NewConflictError(""), CodeConflict, 409},
		{"extraction failed", NewExtractionFailedError(), CodeExtractionFailed, 500},
		{"rate limited", NewRateLimitedError(), CodeRateLimited, 429},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", tt.err.Code, tt.wantCode)
			}
			if tt.err.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", tt.err.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestNewBadRequestError_CarriesDetails(t *testing.T) {
	details := map[string]string{"title": "is required"}
	err := NewBadRequestError(details)

	if err.Details["title"] != "is required" {
		t.Errorf("Details[title] = %q, want %q", err.Details["title"], "is required")
	}
}

func TestOnlyBadRequestHasDetails(t *testing.T) {
	errs := []*APIError{
		NewNotFoundError(),
		NewUnauthorizedError(),
		NewForbiddenError(),
		NewConflictError("x"),
		NewExtractionFailedError(),
		NewRateLimitedError(),
	}

	for _, e := range errs {
		if e.Details != nil {
			t.Errorf("%s: Details should be nil, got %v", e.Code, e.Details)
		}
	}
}

func TestNewConflictError_DefaultMessage(t *testing.T) {
	err := NewConflictError("")
	if err.Message != "Resource conflict" {
		t.Errorf("Message = %q, want %q", err.Message, "Resource conflict")
	}

	err = NewConflictError("already done")
	if err.Message != "already done" {
		t.Errorf("Message = %q, want %q", err.Message, "already done")
	}
}

func TestAPIError_ErrorString(t *testing.T) {
	err := NewNotFoundError()
	want := "[NOT_FOUND] Resource not found"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestAsAPIError_UnwrapsWrappedError(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NewNotFoundError())

	apiErr, ok := AsAPIError(wrapped)
	if !ok {
		t.Fatal("AsAPIError should find wrapped APIError")
	}
	if apiErr.Code != CodeNotFound {
		t.Errorf("Code = %q, want %q", apiErr.Code, CodeNotFound)
	}
}

func TestAsAPIError_UnclassifiedError(t *testing.T) {
	_, ok := AsAPIError(errors.New("database is down"))
	if ok {
		t.Error("AsAPIError should not classify a plain error")
	}
}
