package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	apperrors "github.com/target/mmk-alert-notify/internal/errors"
)

const defaultMaxBodyBytes = 1 << 20

// DecodeJSON decodes a single JSON object from the request body into dst.
// Returns true if successful, false if there was an error (error response already written).
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, ErrorParams{Code: http.StatusRequestEntityTooLarge, ErrCode: "body_too_large", Err: err})
			return false
		}
		if errors.Is(err, io.EOF) {
			err = errors.New("request body is required")
		}
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_json", Err: err})
		return false
	}
	if dec.More() {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_json",
			Err:     errors.New("request body must contain a single JSON object"),
		})
		return false
	}

	return true
}

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Response writer errors (e.g., client disconnect) can't be recovered from here.
		return
	}
}

// ErrorParams groups parameters for WriteError.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
	Field   string
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// WriteError writes a JSON error response using ErrorParams.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	msg := http.StatusText(p.Code)
	if p.Err != nil {
		msg = p.Err.Error()
	}
	WriteJSON(w, p.Code, errorBody{Error: p.ErrCode, Message: msg, Field: p.Field})
}

// WriteServiceError maps a service-layer error onto an HTTP status.
// Only validation errors expose their cause; storage and transport details stay server-side.
func WriteServiceError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	msg := "internal error"
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		switch code {
		case apperrors.ErrCodeInternal:
		case apperrors.ErrCodeValidation:
			msg = appErr.Error()
		default:
			msg = appErr.Message
		}
	}

	WriteError(w, ErrorParams{
		Code:    statusForCode(code),
		ErrCode: errCodeFor(code),
		Err:     errors.New(msg),
		Field:   apperrors.GetField(err),
	})
}

func statusForCode(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeValidation:
		return http.StatusBadRequest
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeConflict:
		return http.StatusConflict
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case apperrors.ErrCodeCanceled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func errCodeFor(code apperrors.ErrorCode) string {
	switch code {
	case apperrors.ErrCodeValidation:
		return "validation_failed"
	case "":
		return string(apperrors.ErrCodeInternal)
	default:
		return string(code)
	}
}
