package middleware

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/minuteman/internal/model"
)

func decodeEnvelope(t *testing.T, body []byte) ErrorEnvelope {
	t.Helper()
	var env ErrorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("response is not a valid error envelope: %v", err)
	}
	return env
}

func TestWriteAPIError_EnvelopeShape(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteAPIError(rec, model.NewNotFoundError())

	if rec.Code != 404 {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	env := decodeEnvelope(t, rec.Body.Bytes())
	if env.Error.Code != "NOT_FOUND" {
		t.Errorf("code = %q", env.Error.Code)
	}
	if env.Error.Message != "Resource not found" {
		t.Errorf("message = %q", env.Error.Message)
	}
	if env.Error.Details != nil {
		t.Errorf("details should be omitted, got %v", env.Error.Details)
	}
}

func TestWriteAPIError_BadRequestIncludesDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteAPIError(rec, model.NewBadRequestError(map[string]string{"title": "is required"}))

	env := decodeEnvelope(t, rec.Body.Bytes())
	if env.Error.Details["title"] != "is required" {
		t.Errorf("details = %v", env.Error.Details)
	}
}

func TestWriteError_ClassifiedErrorKeepsItsCode(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, model.NewConflictError("cannot move item from todo to done"))

	if rec.Code != 409 {
		t.Errorf("status = %d, want 409", rec.Code)
	}
	env := decodeEnvelope(t, rec.Body.Bytes())
	if env.Error.Code != "CONFLICT" {
		t.Errorf("code = %q", env.Error.Code)
	}
}

func TestWriteError_UnclassifiedErrorBecomes500WithoutLeaking(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("pq: connection refused host=10.0.0.5"))

	if rec.Code != 500 {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	env := decodeEnvelope(t, rec.Body.Bytes())
	if env.Error.Code != "INTERNAL" {
		t.Errorf("code = %q", env.Error.Code)
	}
	if env.Error.Message != "Internal server error" {
		t.Errorf("message = %q, internal detail must not leak", env.Error.Message)
	}
}

func TestWriteError_WrappedAPIErrorIsUnwrapped(t *testing.T) {
	rec := httptest.NewRecorder()
	wrapped := errors.Join(errors.New("context"), model.NewUnauthorizedError())
	WriteError(rec, wrapped)

	if rec.Code != 401 {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
