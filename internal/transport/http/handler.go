// Package httptransport is the thin HTTP layer over the promotion workflow.
// Handlers parse, delegate, and encode; business logic stays in the service
// packages.
package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"rankgate/internal/promotion/models"
	"rankgate/internal/promotion/service"
	dErrors "rankgate/pkg/domain-errors"
	"rankgate/pkg/platform/httputil"
)

type Handler struct {
	workflow *service.Service
	logger   *slog.Logger
}

func NewHandler(workflow *service.Service, logger *slog.Logger) *Handler {
	return &Handler{workflow: workflow, logger: logger}
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var body submitRequest
	if err := decodeJSON(r, &body); err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	req, err := h.workflow.Submit(r.Context(), service.SubmitInput{
		TargetUserID:    body.TargetUserID,
		TargetRankID:    body.TargetRankID,
		RequesterUserID: body.RequesterUserID,
		Event:           body.Event,
	})
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, submitResponse{
		Success:   true,
		RequestID: req.ID,
		Message:   "Promotion request submitted for approval",
	})
}

func (h *Handler) handlePending(w http.ResponseWriter, r *http.Request) {
	pending, err := h.workflow.Pending(r.Context())
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, pendingResponse{
		Success:         true,
		PendingRequests: pending,
		Count:           len(pending),
	})
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")

	var body approveRequest
	if err := decodeOptionalJSON(r, &body); err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	req, err := h.workflow.Approve(r.Context(), requestID, string(body.ApproverUserID))
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	message := "user promoted successfully"
	if req.ResultMessage != nil {
		message = *req.ResultMessage
	}
	httputil.WriteJSON(w, http.StatusOK, resolutionResponse{
		Success: req.Status == models.StatusApproved,
		Message: message,
		Request: req,
	})
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")

	var body rejectRequest
	if err := decodeOptionalJSON(r, &body); err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	req, err := h.workflow.Reject(r.Context(), requestID, string(body.RejectorUserID), body.Reason)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resolutionResponse{
		Success: true,
		Message: "Promotion request rejected",
		Request: req,
	})
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	req, err := h.workflow.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, statusResponse{Success: true, Request: req})
}

func (h *Handler) handleDirectPromote(w http.ResponseWriter, r *http.Request) {
	var body directPromoteRequest
	if err := decodeJSON(r, &body); err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	outcome, err := h.workflow.DirectPromote(r.Context(), service.DirectPromoteInput{
		TargetUserID:    body.TargetUserID,
		TargetRankID:    body.TargetRankID,
		RequesterUserID: body.RequesterUserID,
	})
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, directPromoteResponse{
		Success: outcome.Succeeded,
		Message: outcome.Message,
	})
}

// writeError logs internal failures before translation; the response never
// carries internal detail.
func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, "request failed", "error", err)
	}
	httputil.WriteError(w, err)
}

// decodeJSON requires a JSON body.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return dErrors.New(dErrors.CodeBadRequest, "invalid JSON body")
	}
	return nil
}

// decodeOptionalJSON tolerates an absent or empty body, leaving v zeroed.
func decodeOptionalJSON(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return dErrors.New(dErrors.CodeBadRequest, "invalid JSON body")
}
