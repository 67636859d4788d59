package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"caseflow/internal/case/models"
	"caseflow/internal/finalize"
	"caseflow/internal/validation"
	id "caseflow/pkg/domain"
	dErrors "caseflow/pkg/domain-errors"
	"caseflow/pkg/platform/httputil"
	"caseflow/pkg/requestcontext"
)

// Service defines the orchestrator operations the handlers expose.
type Service interface {
	Finalize(ctx context.Context, caseID id.CaseID) (finalize.Result, error)
	Reject(ctx context.Context, caseID id.CaseID, reason string) (finalize.Result, error)
	Validate(ctx context.Context, caseID id.CaseID, payload *models.Payload) ([]validation.Violation, error)
	UpdatePayload(ctx context.Context, caseID id.CaseID, payload models.Payload) error
	Get(ctx context.Context, caseID id.CaseID) (*models.Case, error)
}

// Handler wires case endpoints to the finalization orchestrator.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a case handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts case endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/cases/{caseID}", h.HandleGet)
	r.Put("/cases/{caseID}/payload", h.HandleUpdatePayload)
	r.Post("/cases/{caseID}/validate", h.HandleValidate)
	r.Post("/cases/{caseID}/finalize", h.HandleFinalize)
	r.Post("/cases/{caseID}/reject", h.HandleReject)
}

// RejectRequest is the HTTP request body for POST /cases/{id}/reject.
type RejectRequest struct {
	Reason string `json:"reason"`
}

// ValidateRequest optionally carries a draft payload to validate instead of
// the stored one.
type ValidateRequest struct {
	Payload *models.Payload `json:"payload"`
}

// ValidateResponse lists the violations the rule engine reported.
type ValidateResponse struct {
	Violations []validation.Violation `json:"violations"`
}

func caseIDFrom(r *http.Request) (id.CaseID, error) {
	return id.ParseCaseID(chi.URLParam(r, "caseID"))
}

// HandleFinalize handles POST /cases/{caseID}/finalize requests.
func (h *Handler) HandleFinalize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	caseID, err := caseIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.Finalize(ctx, caseID)
	if err != nil {
		h.logger.ErrorContext(ctx, "finalize failed",
			"request_id", requestID,
			"case_id", caseID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "finalize handled",
		"request_id", requestID,
		"case_id", caseID,
		"status", result.Status,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, statusForResult(result), result)
}

// HandleReject handles POST /cases/{caseID}/reject requests.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	caseID, err := caseIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[RejectRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Reject(ctx, caseID, req.Reason)
	if err != nil {
		h.logger.ErrorContext(ctx, "reject failed",
			"request_id", requestID,
			"case_id", caseID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "reject handled",
		"request_id", requestID,
		"case_id", caseID,
		"status", result.Status,
	)
	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleValidate handles POST /cases/{caseID}/validate requests. It never
// commits anything; the response lists violations for the stored payload or
// the draft in the request body.
func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	caseID, err := caseIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var draft *models.Payload
	if r.ContentLength > 0 {
		req, ok := httputil.DecodeAndPrepare[ValidateRequest](w, r, h.logger, ctx, requestID)
		if !ok {
			return
		}
		draft = req.Payload
	}

	violations, err := h.service.Validate(ctx, caseID, draft)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if violations == nil {
		violations = []validation.Violation{}
	}
	httputil.WriteJSON(w, http.StatusOK, ValidateResponse{Violations: violations})
}

// HandleUpdatePayload handles PUT /cases/{caseID}/payload requests.
func (h *Handler) HandleUpdatePayload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	caseID, err := caseIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	payload, ok := httputil.DecodeAndPrepare[models.Payload](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if len(payload.Periods) == 0 && payload.Diagnosis.Code == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "payload must carry periods or a diagnosis"))
		return
	}

	if err := h.service.UpdatePayload(ctx, caseID, payload); err != nil {
		h.logger.ErrorContext(ctx, "payload update failed",
			"request_id", requestID,
			"case_id", caseID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleGet handles GET /cases/{caseID} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	caseID, err := caseIDFrom(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	c, err := h.service.Get(r.Context(), caseID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

// statusForResult keeps finalize responses honest: a run stopped by rule
// violations is the caller's problem to fix, not a success.
func statusForResult(result finalize.Result) int {
	switch result.Status {
	case finalize.StatusValidationFailed, finalize.StatusBlocked:
		return http.StatusBadRequest
	default:
		return http.StatusOK
	}
}
