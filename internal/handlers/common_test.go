package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"ragonquest/internal/service"
	"ragonquest/internal/storage"
)

// newRequest builds a request with an optional JSON body and chi URL
// parameters, the way the router would deliver it to a handler.
func newRequest(t *testing.T, method, target string, body any, params map[string]string) *http.Request {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	r := httptest.NewRequest(method, target, reader)

	rctx := chi.NewRouteContext()
	for name, value := range params {
		rctx.URLParams.Add(name, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// decodeErrorResponse reads the error message out of a response body.
func decodeErrorResponse(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp.Error
}

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "validation error",
			err:        &service.ValidationError{Field: "query", Message: "cannot be empty"},
			wantStatus: http.StatusBadRequest,
			wantError:  "Validation error: validation error on field query: cannot be empty",
		},
		{
			name:       "storage not found",
			err:        storage.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantError:  "Resource not found",
		},
		{
			name:       "wrapped invalid input",
			err:        fmt.Errorf("%w: unknown model", service.ErrInvalidInput),
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid input: unknown model",
		},
		{
			name:       "service not found",
			err:        fmt.Errorf("%w: no such path", service.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantError:  "not found: no such path",
		},
		{
			name:       "external service error hides cause",
			err:        fmt.Errorf("embedding request failed: %w: boom", service.ErrExternalService),
			wantStatus: http.StatusBadGateway,
			wantError:  "External service error",
		},
		{
			name:       "unknown error uses default message",
			err:        errors.New("disk on fire"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Something went wrong",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := newRequest(t, http.MethodGet, "/test", nil, nil)

			handleServiceError(w, r, tt.err, "Something went wrong")

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if got := decodeErrorResponse(t, w); got != tt.wantError {
				t.Errorf("error = %q, want %q", got, tt.wantError)
			}
		})
	}
}

func TestQueryInt(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		def     int
		want    int
		wantErr bool
	}{
		{name: "absent uses default", target: "/x", def: 42, want: 42},
		{name: "present overrides", target: "/x?n=7", def: 42, want: 7},
		{name: "zero is accepted", target: "/x?n=0", def: 42, want: 0},
		{name: "garbage is rejected", target: "/x?n=seven", def: 42, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.target, nil)
			got, err := queryInt(r, "n", tt.def)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				var validationErr *service.ValidationError
				if !errors.As(err, &validationErr) {
					t.Errorf("error type = %T, want *service.ValidationError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("queryInt() = %d, want %d", got, tt.want)
			}
		})
	}
}
