package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/qri-io/jsonschema"

	"github.com/garnizeh/hersafety/internal/apperr"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", slog.Any("err", err))
	}
}

type errorResponse struct {
	Error   string              `json:"error"`
	Errors  []apperr.FieldError `json:"errors,omitempty"`
	Missing []string            `json:"missing,omitempty"`
}

// writeError renders err once at the boundary. Server errors are logged and
// only their public message is sent.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)

	var ae *apperr.Error
	if !errors.As(err, &ae) {
		ae = apperr.Server("Internal Server Error", err)
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("request_id", requestIDFrom(r.Context())),
			slog.Any("err", err),
		)
	}

	writeJSON(w, errorResponse{Error: ae.Message, Errors: ae.Fields, Missing: ae.Missing}, status)
}

// decodeBody reads a JSON object from r, reports absent required fields,
// checks it against schema and finally decodes it into dst.
func decodeBody(r *http.Request, schema *jsonschema.Schema, required []string, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return apperr.Validation(apperr.FieldError{Field: "body", Message: "Invalid request body"})
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return apperr.Validation(apperr.FieldError{Field: "body", Message: "Request body must be a JSON object"})
	}

	var missing []string
	for _, name := range required {
		v, ok := raw[name]
		if !ok || v == nil {
			missing = append(missing, name)
			continue
		}
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return apperr.MissingFields(missing...)
	}

	if schema != nil {
		kerrs, err := schema.ValidateBytes(r.Context(), body)
		if err != nil {
			return apperr.Server("Internal Server Error", err)
		}
		if len(kerrs) > 0 {
			fields := make([]apperr.FieldError, 0, len(kerrs))
			for _, ke := range kerrs {
				field := strings.TrimPrefix(ke.PropertyPath, "/")
				if field == "" {
					field = "body"
				}
				fields = append(fields, apperr.FieldError{Field: field, Message: ke.Message})
			}
			return apperr.Validation(fields...)
		}
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(dst); err != nil {
		return apperr.Validation(apperr.FieldError{Field: "body", Message: "Invalid request body"})
	}

	return nil
}
