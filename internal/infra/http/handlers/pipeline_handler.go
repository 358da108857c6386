package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/infra/http/middleware"
	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/usecase"
)

// PipelineHandler exposes the three pipeline passes: qualify, draft and
// dispatch. Each returns the batch counts; partial failure is never silent.
type PipelineHandler struct {
	Qualify  *usecase.QualifyLeadsUseCase
	Draft    *usecase.DraftOutreachUseCase
	Dispatch *usecase.DispatchOutreachUseCase
}

func NewPipelineHandler(qualify *usecase.QualifyLeadsUseCase, draft *usecase.DraftOutreachUseCase, dispatch *usecase.DispatchOutreachUseCase) *PipelineHandler {
	return &PipelineHandler{Qualify: qualify, Draft: draft, Dispatch: dispatch}
}

func (h *PipelineHandler) HandleQualify(w http.ResponseWriter, r *http.Request) {
	out, err := h.Qualify.Execute(r.Context())
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	middleware.RecordQualification(out.Qualified, out.Disqualified)
	writeJSON(w, http.StatusOK, out)
}

func (h *PipelineHandler) HandleDraft(w http.ResponseWriter, r *http.Request) {
	out, err := h.Draft.Execute(r.Context())
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	middleware.RecordDrafts(out.Drafted)
	writeJSON(w, http.StatusOK, out)
}

type dispatchRequest struct {
	DryRun bool `json:"dry_run"`
}

func (h *PipelineHandler) HandleDispatch(w http.ResponseWriter, r *http.Request) {
	var req dispatchRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
			return
		}
	}

	out, err := h.Dispatch.Execute(r.Context(), req.DryRun)
	if err != nil {
		// Cancellation mid-run still produced terminal statuses for the
		// attempted messages; report what happened.
		if out != nil && errors.Is(err, r.Context().Err()) {
			writeJSON(w, http.StatusOK, out)
			return
		}
		writeUsecaseError(w, err)
		return
	}

	if !out.DryRun {
		middleware.RecordDispatch(out.Sent, out.Failed)
	}
	writeJSON(w, http.StatusOK, out)
}
