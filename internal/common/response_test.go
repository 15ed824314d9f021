package common

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRenderErrorUsesAppErrorCodeAndStatus(t *testing.T) {
	rr := httptest.NewRecorder()
	RenderError(rr, E("RULES_UNAVAILABLE", "unable to load discount rules", http.StatusServiceUnavailable, errors.New("pg down")))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", rr.Code)
	}
	var body struct {
		Success bool      `json:"success"`
		Error   ErrorBody `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Success {
		t.Fatal("expected success=false")
	}
	if body.Error.Code != "RULES_UNAVAILABLE" {
		t.Fatalf("unexpected code %q", body.Error.Code)
	}
	if body.Error.Message != "unable to load discount rules" {
		t.Fatalf("unexpected message %q", body.Error.Message)
	}
}

func TestRenderErrorMasksUnknownErrors(t *testing.T) {
	rr := httptest.NewRecorder()
	RenderError(rr, errors.New("secret detail"))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rr.Code)
	}
	var body struct {
		Error ErrorBody `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Error.Code != "INTERNAL" {
		t.Fatalf("unexpected code %q", body.Error.Code)
	}
	if body.Error.Message == "secret detail" {
		t.Fatal("internal error detail must not leak")
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("pg down")
	err := E("RULES_UNAVAILABLE", "unable to load discount rules", http.StatusServiceUnavailable, cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected cause in chain")
	}
	appErr, ok := AsAppError(err)
	if !ok || appErr.Code != "RULES_UNAVAILABLE" {
		t.Fatalf("AsAppError = %v, %v", appErr, ok)
	}
}
