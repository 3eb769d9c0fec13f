// Package httpx holds the JSON plumbing shared by the API handlers: request decoding with
// validation, JSON responses and the mapping from domain errors to status codes.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/dealdesk/internal/auth"
	"github.com/MrJamesThe3rd/dealdesk/internal/contact"
	"github.com/MrJamesThe3rd/dealdesk/internal/estimate"
	"github.com/MrJamesThe3rd/dealdesk/internal/importer"
	"github.com/MrJamesThe3rd/dealdesk/internal/order"
	"github.com/MrJamesThe3rd/dealdesk/internal/pipeline"
	"github.com/MrJamesThe3rd/dealdesk/internal/storage"
)

// ErrMalformed marks a request body that is not valid JSON.
var ErrMalformed = errors.New("malformed request body")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Money fields are checked as numbers so tags like gte=0 apply to them.
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		d, ok := f.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}

		return d.InexactFloat64()
	}, decimal.Decimal{})

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Decode reads a JSON body into dst and validates it.
func Decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	return validate.Struct(dst)
}

// Error writes err as a JSON error with the status it maps to.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := Status(err)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[fe.Namespace()] = fe.Tag()
		}

		JSON(w, status, ErrorResponse{Error: "validation failed", Details: details})

		return
	}

	msg := err.Error()

	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)

		if status == http.StatusInternalServerError {
			msg = "internal error"
		}
	}

	JSON(w, status, ErrorResponse{Error: msg})
}

// Status maps domain errors onto HTTP status codes.
func Status(err error) int {
	var verrs validator.ValidationErrors

	switch {
	case errors.As(err, &verrs),
		errors.Is(err, ErrMalformed),
		errors.Is(err, estimate.ErrInvalidStatus),
		errors.Is(err, estimate.ErrInvalidDecision),
		errors.Is(err, estimate.ErrInvalidItem),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, order.ErrInvalidPaymentStatus),
		errors.Is(err, contact.ErrNameRequired),
		errors.Is(err, importer.ErrNoHeader),
		errors.Is(err, importer.ErrInvalidRow):
		return http.StatusBadRequest
	case errors.Is(err, estimate.ErrNotFound),
		errors.Is(err, order.ErrNotFound),
		errors.Is(err, contact.ErrNotFound),
		errors.Is(err, pipeline.ErrStageNotFound),
		errors.Is(err, pipeline.ErrCardNotFound):
		return http.StatusNotFound
	case errors.Is(err, estimate.ErrInvalidTransition),
		errors.Is(err, order.ErrEstimateHasOrder):
		return http.StatusConflict
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, estimate.ErrOrderNotMaterialized):
		return http.StatusBadGateway
	case errors.Is(err, storage.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
