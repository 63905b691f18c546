package validators

import (
	"context"
	"net/http"

	"github.com/angelmondragon/inventory-service/api/responses"
	pkgerrors "github.com/angelmondragon/inventory-service/pkg/errors"
	"github.com/angelmondragon/inventory-service/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type bodyKey[T any] struct{}

// Body decodes and validates the request payload as T before the handler
// runs. Rejected requests are answered here with a 400 and never reach the
// handler or the error middleware.
func Body[T any](logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body T
			if err := DecodeJSONBody(r, &body); err != nil {
				reject(r.Context(), logg, w, err, msgInvalidBody)
				return
			}
			ctx := context.WithValue(r.Context(), bodyKey[T]{}, body)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BodyFrom returns the payload stored by Body[T].
func BodyFrom[T any](ctx context.Context) (T, bool) {
	body, ok := ctx.Value(bodyKey[T]{}).(T)
	return body, ok
}

// Params validates the {id} path parameter.
func Params(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			params := ProductIDParams{ID: chi.URLParam(r, "id")}
			if err := ValidateStruct(params); err != nil {
				reject(r.Context(), logg, w, err, msgInvalidParams)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func reject(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error, fallback string) {
	detail := fallback
	if typed := pkgerrors.As(err); typed != nil && typed.Message() != "" {
		detail = typed.Message()
	}
	if logg != nil {
		logg.Warn(logg.WithFields(ctx, map[string]any{"validation": detail, "error": err.Error()}), "request.invalid")
	}
	responses.WriteValidationError(w, detail)
}
