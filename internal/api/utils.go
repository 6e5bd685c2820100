package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/FACorreiaa/go-trip-route-planner/internal/types"
)

const maxBodyBytes = 1_048_576

// ErrorResponse writes the standard JSON error envelope with the request id.
func ErrorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	WriteJSONResponse(w, r, status, map[string]any{
		"success":    false,
		"error":      message,
		"request_id": middleware.GetReqID(r.Context()),
	})
}

// StatusForError maps the error taxonomy onto HTTP status codes: invalid
// input is 400, an anchor that cannot be resolved is 422, anything else 500.
func StatusForError(err error) int {
	var validationErr *types.ValidationError
	var resolutionErr *types.ResolutionError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &resolutionErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes err with the status from StatusForError. Internal
// errors are not echoed to the caller.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusForError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Internal server error"
	}
	ErrorResponse(w, r, status, message)
}

func WriteJSONResponse(w http.ResponseWriter, r *http.Request, status int, data any) {
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}

	js, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to marshal JSON response",
			slog.Any("error", err),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err = w.Write(js); err != nil {
		slog.ErrorContext(r.Context(), "Failed to write response body",
			slog.Any("error", err),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	}
}

// DecodeJSONBody decodes a single JSON value, rejecting unknown fields and
// bodies over 1MB. Every returned error is a *types.ValidationError.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return &types.ValidationError{Field: "body", Message: fmt.Sprintf("badly-formed JSON (at character %d)", syntaxError.Offset)}
		case errors.Is(err, io.ErrUnexpectedEOF):
			return &types.ValidationError{Field: "body", Message: "badly-formed JSON"}
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return &types.ValidationError{Field: unmarshalTypeError.Field, Message: fmt.Sprintf("wanted %s", unmarshalTypeError.Type)}
			}
			return &types.ValidationError{Field: "body", Message: fmt.Sprintf("incorrect JSON type (at character %d)", unmarshalTypeError.Offset)}
		case errors.Is(err, io.EOF):
			return &types.ValidationError{Field: "body", Message: "must not be empty"}
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
			return &types.ValidationError{Field: field, Message: "unknown key"}
		case errors.As(err, &maxBytesError):
			return &types.ValidationError{Field: "body", Message: fmt.Sprintf("must not be larger than %d bytes", maxBytesError.Limit)}
		default:
			return &types.ValidationError{Field: "body", Message: err.Error()}
		}
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return &types.ValidationError{Field: "body", Message: "must only contain a single JSON value"}
	}
	return nil
}

// RequiredQuery returns a trimmed, non-empty query parameter.
func RequiredQuery(r *http.Request, name string) (string, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return "", &types.ValidationError{Field: name, Message: "is required"}
	}
	return v, nil
}

// IntQuery parses an integer query parameter within [min, max].
func IntQuery(r *http.Request, name string, min, max int) (int, error) {
	raw, err := RequiredQuery(r, name)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < min || n > max {
		return 0, &types.ValidationError{Field: name, Message: fmt.Sprintf("must be an integer between %d and %d", min, max)}
	}
	return n, nil
}
