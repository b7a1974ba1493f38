package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON names in validation errors.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.WarnContext(r.Context(), "encode failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

func writeValidationError(w http.ResponseWriter, r *http.Request, detail []FieldError) {
	writeJSON(w, r, http.StatusUnprocessableEntity, map[string]any{
		"error":  "validation failed",
		"detail": detail,
	})
}

// decodeAndValidate reads exactly one JSON object into dst and validates it.
// Any failure is reported as a list of field errors.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) []FieldError {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()

	if err := dec.Decode(dst); err != nil {
		return []FieldError{decodeError(err)}
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return []FieldError{{Field: "body", Message: "body must contain only one JSON object"}}
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return []FieldError{{Field: "body", Message: err.Error()}}
		}
		out := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, FieldError{Field: fieldPath(fe.Namespace()), Message: fieldMessage(fe)})
		}
		return out
	}

	return nil
}

func decodeError(err error) FieldError {
	var typeErr *json.UnmarshalTypeError
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &typeErr):
		return FieldError{Field: typeErr.Field, Message: fmt.Sprintf("must be of type %s", typeErr.Type)}
	case errors.As(err, &maxErr):
		return FieldError{Field: "body", Message: "request body too large"}
	case errors.Is(err, io.EOF):
		return FieldError{Field: "body", Message: "request body is empty"}
	default:
		return FieldError{Field: "body", Message: "invalid json body"}
	}
}

// fieldPath drops the root struct name: "OptimizeRequest.driver_start.latitude"
// becomes "driver_start.latitude".
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "gte":
		return "must be >= " + fe.Param()
	case "lte":
		return "must be <= " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}
