package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/angelmondragon/inventory-service/pkg/db"
	pkgerrors "github.com/angelmondragon/inventory-service/pkg/errors"
	"github.com/angelmondragon/inventory-service/pkg/logger"
	"github.com/angelmondragon/inventory-service/pkg/types"
)

const validationMessage = "Validation error"

var encodeLogger atomic.Pointer[logger.Logger]

// SetLogger sets the logger that reports envelopes which fail to encode.
// Passing nil silences those reports.
func SetLogger(logg *logger.Logger) {
	encodeLogger.Store(logg)
}

func WriteSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, types.NewSuccess(message, data))
}

// WriteStatus answers with an envelope that carries no data field.
func WriteStatus(w http.ResponseWriter, status int, success bool, message string) {
	writeJSON(w, status, types.StatusEnvelope{Success: success, Message: message})
}

// WriteValidationError answers a request rejected before it reached a handler.
func WriteValidationError(w http.ResponseWriter, detail string) {
	writeJSON(w, http.StatusBadRequest, types.NewError(validationMessage, detail))
}

// WriteError is the terminal collector for handler failures. It logs the raw
// error and answers with the status and message its classification yields.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	status, message := Classify(err)

	if logg != nil {
		dump := pkgerrors.Dump(err)
		fields := map[string]any{
			"error":        dump.TopMessage,
			"error_code":   dump.Code,
			"error_chain":  dump.Chain,
			"error_fields": dump.Fields,
			"status":       status,
		}
		if dump.PGCode != "" {
			fields["pg_code"] = dump.PGCode
			fields["pg_constraint"] = dump.PGConstraint
			fields["pg_table"] = dump.PGTable
			fields["pg_detail"] = dump.PGDetail
		}
		if len(dump.MongoCodes) > 0 {
			fields["mongo_codes"] = dump.MongoCodes
		}
		if typed := pkgerrors.As(err); typed != nil && typed.Details() != nil {
			fields["error_details"] = typed.Details()
		}
		logg.Error(logg.WithFields(ctx, fields), "request.error", err)
	}

	writeJSON(w, status, types.NewError(message, ""))
}

// Classify maps err onto the HTTP status and public message clients see.
// Typed errors win; known store failures follow; anything else is a 500.
func Classify(err error) (int, string) {
	if typed := pkgerrors.As(err); typed != nil {
		return typed.Status(), typed.PublicMessage()
	}
	if errors.Is(err, db.ErrInvalidID) {
		meta := pkgerrors.MetadataFor(pkgerrors.CodeInvalidID)
		return meta.HTTPStatus, meta.PublicMessage
	}
	if db.IsUniqueViolation(err, "") {
		meta := pkgerrors.MetadataFor(pkgerrors.CodeDuplicateKey)
		return meta.HTTPStatus, meta.PublicMessage
	}
	if joined := pkgerrors.JoinFieldMessages(err); joined != "" {
		return http.StatusBadRequest, joined
	}
	meta := pkgerrors.MetadataFor(pkgerrors.CodeInternal)
	return meta.HTTPStatus, meta.PublicMessage
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		if logg := encodeLogger.Load(); logg != nil {
			logg.Error(logg.WithField(context.Background(), "status", status), "response.encode_failed", err)
		}
	}
}
