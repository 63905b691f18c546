package validators

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	pkgerrors "github.com/angelmondragon/inventory-service/pkg/errors"
	"github.com/go-playground/validator/v10"
)

const (
	msgInvalidBody   = "Invalid request data"
	msgInvalidParams = "Invalid request parameters"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// DecodeJSONBody decodes the request body into dest and validates it. An
// empty body decodes as an empty object and unknown fields are ignored.
// Failures come back as a CodeValidation error whose message is the joined
// list of client-facing messages.
func DecodeJSONBody(r *http.Request, dest any) error {
	defer func() {
		_, _ = io.Copy(io.Discard, r.Body)
	}()

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, msgInvalidBody)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = []byte("{}")
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return decodeError(err)
	}
	if err := validate.Struct(dest); err != nil {
		return formatValidationErrors(err, msgInvalidBody)
	}
	return nil
}

// ValidateStruct runs the struct rules against an already populated value.
func ValidateStruct(value any) error {
	if err := validate.Struct(value); err != nil {
		return formatValidationErrors(err, msgInvalidParams)
	}
	return nil
}

func decodeError(err error) *pkgerrors.Error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("%s must be %s", typeErr.Field, kindName(typeErr.Type)))
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, msgInvalidBody)
}

func kindName(t reflect.Type) string {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "valid"
	}
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Bool:
		return "a boolean"
	}
	return "valid"
}

func formatValidationErrors(err error, fallback string) *pkgerrors.Error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, fallback)
	}
	messages := make([]string, 0, len(errs))
	fields := map[string]string{}
	for _, fieldErr := range errs {
		msg := validationMessage(fieldErr)
		messages = append(messages, msg)
		fields[fieldErr.Field()] = msg
	}
	return pkgerrors.New(pkgerrors.CodeValidation, strings.Join(messages, ", ")).WithDetails(fields)
}

// fieldMessages overrides the generic wording for specific field rules.
var fieldMessages = map[string]string{
	"name.required":     "Name is required",
	"name.notblank":     "Name is required",
	"quantity.required": "Quantity must be at least 1",
	"quantity.min":      "Quantity must be at least 1",
	"id.required":       "Invalid product ID",
	"id.len":            "Invalid product ID",
}

func validationMessage(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be greater than or equal to %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be less than or equal to %s", fe.Field(), fe.Param())
	case "len":
		return fmt.Sprintf("%s must contain exactly %s characters", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}
