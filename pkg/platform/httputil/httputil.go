// Package httputil maps domain errors onto HTTP responses and centralizes
// request decoding so handlers stay thin.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	dErrors "caseflow/pkg/domain-errors"
	"caseflow/pkg/platform/sentinel"
)

type errorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

func statusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeBadRequest, dErrors.CodeInvalidInput, dErrors.CodeValidation:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeUpstreamClient:
		return http.StatusBadGateway
	case dErrors.CodeUnavailable:
		return http.StatusServiceUnavailable
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// codeFor folds infrastructure sentinels into the coded taxonomy so store
// errors render correctly without every handler re-mapping them.
func codeFor(err error) dErrors.Code {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.CodeNotFound
	case errors.Is(err, sentinel.ErrConflict), errors.Is(err, sentinel.ErrAlreadyFinalized):
		return dErrors.CodeConflict
	}
	return dErrors.CodeOf(err)
}

// WriteError renders a coded error as JSON. Internal errors never expose
// their message; everything else carries the caller-safe description.
func WriteError(w http.ResponseWriter, err error) {
	code := codeFor(err)
	status := statusFor(code)

	resp := errorResponse{Error: string(code)}
	if status < http.StatusInternalServerError {
		resp.Description = dErrors.MessageOf(err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// WriteJSON renders a successful JSON response.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// DecodeAndPrepare decodes the request body into T. On failure it writes a
// bad-request response and returns ok=false so the handler can return early.
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "failed to decode request body",
			"request_id", requestID,
			"error", err,
		)
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		var zero T
		return zero, false
	}
	return req, true
}
