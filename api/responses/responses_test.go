package responses

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/angelmondragon/inventory-service/pkg/db"
	pkgerrors "github.com/angelmondragon/inventory-service/pkg/errors"
	"github.com/angelmondragon/inventory-service/pkg/logger"
	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/multierr"
)

func TestWriteSuccessAlwaysCarriesData(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccess(w, http.StatusOK, "Product deleted successfully", nil)

	if got := w.Code; got != http.StatusOK {
		t.Fatalf("expected status 200 but got %d", got)
	}
	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode success envelope: %v", err)
	}
	if body["success"] != true || body["message"] != "Product deleted successfully" {
		t.Fatalf("unexpected envelope %v", body)
	}
	data, present := body["data"]
	if !present || data != nil {
		t.Fatalf("expected data to be present and null, got %v (present=%v)", data, present)
	}
	if _, present := body["error"]; present {
		t.Fatalf("success envelope must not carry error")
	}
}

func TestWriteValidationError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteValidationError(w, "Name is required, Quantity must be at least 1")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if got := w.Body.String(); got != `{"success":false,"message":"Validation error","error":"Name is required, Quantity must be at least 1"}`+"\n" {
		t.Fatalf("unexpected body %s", got)
	}
}

func TestWriteErrorClassification(t *testing.T) {
	var fieldErr error
	fieldErr = multierr.Append(fieldErr, pkgerrors.NewFieldError("name", "name is required"))
	fieldErr = multierr.Append(fieldErr, pkgerrors.NewFieldError("stock_quantity", "stock_quantity (-1) is less than minimum allowed value (0)"))

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			name:    "typed not found",
			err:     pkgerrors.New(pkgerrors.CodeNotFound, "Product not found"),
			status:  http.StatusNotFound,
			message: "Product not found",
		},
		{
			name:    "typed insufficient stock",
			err:     pkgerrors.New(pkgerrors.CodeInsufficientStock, "Insufficient stock"),
			status:  http.StatusBadRequest,
			message: "Insufficient stock",
		},
		{
			name:    "typed internal keeps its message",
			err:     pkgerrors.Wrap(pkgerrors.CodeInternal, errors.New("io"), "Failed to fetch products"),
			status:  http.StatusInternalServerError,
			message: "Failed to fetch products",
		},
		{
			name:    "malformed identifier",
			err:     fmt.Errorf("find: %w", db.ErrInvalidID),
			status:  http.StatusNotFound,
			message: "Resource not found",
		},
		{
			name:    "mongo duplicate key",
			err:     mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000"}}},
			status:  http.StatusBadRequest,
			message: "Duplicate field value entered",
		},
		{
			name:    "postgres unique violation",
			err:     &pgconn.PgError{Code: "23505"},
			status:  http.StatusBadRequest,
			message: "Duplicate field value entered",
		},
		{
			name:    "field validation aggregate",
			err:     fieldErr,
			status:  http.StatusBadRequest,
			message: "name is required, stock_quantity (-1) is less than minimum allowed value (0)",
		},
		{
			name:    "unknown",
			err:     errors.New("boom"),
			status:  http.StatusInternalServerError,
			message: "Server Error",
		},
		{
			name:    "nil",
			err:     nil,
			status:  http.StatusInternalServerError,
			message: "Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(context.Background(), nil, w, tt.err)

			if w.Code != tt.status {
				t.Fatalf("expected status %d but got %d", tt.status, w.Code)
			}
			var body map[string]any
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode error envelope: %v", err)
			}
			if body["success"] != false || body["message"] != tt.message || body["error"] != "" {
				t.Fatalf("unexpected envelope %v", body)
			}
			if _, present := body["data"]; present {
				t.Fatalf("error envelope must not carry data")
			}
		})
	}
}

func TestWriteErrorLogsRawError(t *testing.T) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: buf})

	WriteError(context.Background(), logg, httptest.NewRecorder(), pkgerrors.Wrap(pkgerrors.CodeInternal, errors.New("socket closed"), "Failed to create product"))

	if !bytes.Contains(buf.Bytes(), []byte("socket closed")) {
		t.Fatalf("expected raw cause in log entry; entry=%s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"error_code":"INTERNAL_ERROR"`)) {
		t.Fatalf("expected error code in log entry; entry=%s", buf.String())
	}
}

func TestEncodeFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(logger.New(logger.Options{ServiceName: "test", Output: &buf}))
	t.Cleanup(func() { SetLogger(nil) })

	w := httptest.NewRecorder()
	WriteSuccess(w, http.StatusOK, "ok", map[string]any{"bad": make(chan int)})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status to be written before encoding, got %d", w.Code)
	}
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one json log line, got %q: %v", buf.String(), err)
	}
	if entry["message"] != "response.encode_failed" || entry["level"] != "error" {
		t.Fatalf("unexpected log entry %v", entry)
	}
	if entry["status"] != float64(http.StatusOK) {
		t.Fatalf("expected status field, got %v", entry["status"])
	}
}
