package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"verifyflow/internal/casework/review"
	id "verifyflow/pkg/domain"
	"verifyflow/pkg/platform/httputil"
	"verifyflow/pkg/requestcontext"
)

type reviewRequest struct {
	review.Input
}

func (r *reviewRequest) Validate() error {
	return r.Input.Validate()
}

func (h *Handler) handleListPending(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cases, err := h.service.ListPendingCases(ctx, session(ctx))
	if err != nil {
		h.fail(ctx, w, "failed to list pending cases", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, caseList{Applications: cases})
}

func (h *Handler) handleClaim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caseID, err := id.ParseCaseID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(ctx, w, "invalid case id", err)
		return
	}
	c, err := h.service.ClaimCase(ctx, session(ctx), caseID)
	if err != nil {
		h.fail(ctx, w, "failed to claim case", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) handleReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caseID, err := id.ParseCaseID(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(ctx, w, "invalid case id", err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[reviewRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	c, err := h.service.ReviewCase(ctx, session(ctx), caseID, req.Input)
	if err != nil {
		h.fail(ctx, w, "failed to review case", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats, err := h.service.DashboardStats(ctx, session(ctx))
	if err != nil {
		h.fail(ctx, w, "failed to load dashboard", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}
