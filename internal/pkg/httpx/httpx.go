package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-storefront-service/internal/pkg/i18n"
)

// ErrorBody is the error envelope every handler returns.
type ErrorBody struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error writes a localized error. code is the i18n message id and doubles as
// the machine readable error code.
func Error(w http.ResponseWriter, r *http.Request, status int, code string, data map[string]interface{}) {
	JSON(w, status, ErrorBody{
		Error:   code,
		Message: i18n.T(code, data, r.Header.Get("Accept-Language")),
	})
}

// FieldErrors writes a 422 with one localized message per field.
func FieldErrors(w http.ResponseWriter, r *http.Request, code string, fields map[string]string, params map[string]string) {
	lang := r.Header.Get("Accept-Language")
	out := make(map[string]string, len(fields))
	for field, msgID := range fields {
		out[field] = i18n.T(msgID, map[string]interface{}{"Param": params[field]}, lang)
	}
	JSON(w, http.StatusUnprocessableEntity, ErrorBody{
		Error:   code,
		Message: i18n.T(code, nil, lang),
		Fields:  out,
	})
}

// Decode reads a JSON body into dst, rejecting unknown fields.
func Decode(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty body")
		}
		return err
	}
	return nil
}

// QueryInt parses a positive integer query value, returning fallback when
// absent or invalid.
func QueryInt(r *http.Request, key string, fallback int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

// QueryBool returns nil when the key is absent so callers can tell
// "unfiltered" from "false".
func QueryBool(r *http.Request, key string) *bool {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &b
}
