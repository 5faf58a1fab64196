package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	skerrors "github.com/appforge/skelgen/pkg/errors"
	"github.com/appforge/skelgen/pkg/serializer"
)

// HTTPStatusFromCode maps an error code to an HTTP status.
func HTTPStatusFromCode(code skerrors.ErrorCode) int {
	switch code {
	case skerrors.ErrCodeInvalidRequest, skerrors.ErrCodeMissingArgument:
		return http.StatusBadRequest
	case skerrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case skerrors.ErrCodeNotFound:
		return http.StatusNotFound
	case skerrors.ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case skerrors.ErrCodeAlreadyExists:
		return http.StatusConflict
	case skerrors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case skerrors.ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	case skerrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func retryableFromCode(code skerrors.ErrorCode) bool {
	switch code {
	case skerrors.ErrCodeTimeout, skerrors.ErrCodeUnavailable,
		skerrors.ErrCodeRateLimitExceeded, skerrors.ErrCodeInternal,
		skerrors.ErrCodeIOFailure:
		return true
	default:
		return false
	}
}

func mergeDetails(a, b map[string]any) map[string]any {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// WriteError writes an ErrorResponse carrying the request ID.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int,
	code skerrors.ErrorCode, message string, retryable bool, details map[string]any) {

	requestID, _ := r.Context().Value(contextKeyRequestID).(string)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	serializer.RespondJSON(w, statusCode, ErrorResponse{
		Code:      string(code),
		Message:   message,
		Details:   details,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Retryable: retryable,
	})
}

// WriteErrorFromErr writes err as an ErrorResponse. Structured errors keep
// their code, message and context; anything else becomes INTERNAL with
// fallbackMessage.
func WriteErrorFromErr(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string, details map[string]any) {
	var se *skerrors.StructuredError
	if errors.As(err, &se) {
		d := mergeDetails(se.Context, details)
		if se.Cause != nil {
			d = mergeDetails(d, map[string]any{"error": se.Cause.Error()})
		}
		WriteError(w, r, HTTPStatusFromCode(se.Code), se.Code, se.Message, retryableFromCode(se.Code), d)
		return
	}

	d := mergeDetails(details, map[string]any{"error": err.Error()})
	WriteError(w, r, http.StatusInternalServerError, skerrors.ErrCodeInternal, fallbackMessage, true, d)
}
