package errors

import (
	stdErrors "errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// FieldError reports a single field constraint violation raised by the persistence-level model checks.
type FieldError struct {
	Field   string
	Message string
}

func NewFieldError(field, format string, args ...any) *FieldError {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (f *FieldError) Error() string {
	if f == nil {
		return ""
	}
	return f.Field + ": " + f.Message
}

// FieldMessages flattens a multierr aggregate and returns the message of every FieldError in it.
// It returns nil when err carries no field errors.
func FieldMessages(err error) []string {
	if err == nil {
		return nil
	}
	var messages []string
	for _, e := range multierr.Errors(err) {
		var fe *FieldError
		if stdErrors.As(e, &fe) {
			messages = append(messages, fe.Message)
		}
	}
	return messages
}

// JoinFieldMessages renders field errors the way clients see them.
func JoinFieldMessages(err error) string {
	return strings.Join(FieldMessages(err), ", ")
}
