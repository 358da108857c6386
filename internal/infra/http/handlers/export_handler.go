package handlers

import (
	"net/http"

	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/entity"
	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/usecase"
)

// ExportHandler streams a stage snapshot as CSV or JSON, best score first.
type ExportHandler struct {
	Export *usecase.ExportLeadsUseCase
}

func NewExportHandler(export *usecase.ExportLeadsUseCase) *ExportHandler {
	return &ExportHandler{Export: export}
}

func (h *ExportHandler) Handle(w http.ResponseWriter, r *http.Request) {
	stage := entity.Stage(r.URL.Query().Get("stage"))
	if stage == "" {
		stage = entity.StageQualified
	}
	if !stage.Valid() {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_STAGE", "stage must be NEW, QUALIFIED, DISQUALIFIED or CONTACTED")
		return
	}

	leads, err := h.Export.Execute(r.Context(), stage)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	switch r.URL.Query().Get("format") {
	case "", "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="leads_`+string(stage)+`.csv"`)
		if err := usecase.WriteCSV(w, leads); err != nil {
			writeErrorResponse(w, http.StatusInternalServerError, "EXPORT_FAILED", err.Error())
		}
	case "json":
		w.Header().Set("Content-Type", "application/json")
		if err := usecase.WriteJSON(w, leads); err != nil {
			writeErrorResponse(w, http.StatusInternalServerError, "EXPORT_FAILED", err.Error())
		}
	default:
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_FORMAT", "format must be csv or json")
	}
}
