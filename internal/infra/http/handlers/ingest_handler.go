package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/infra/http/middleware"
	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/usecase"
)

// IngestHandler accepts raw record batches from trusted scrapers.
type IngestHandler struct {
	Ingest *usecase.IngestLeadsUseCase
}

func NewIngestHandler(ingest *usecase.IngestLeadsUseCase) *IngestHandler {
	return &IngestHandler{Ingest: ingest}
}

func (h *IngestHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var input usecase.IngestInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	if len(input.Records) == 0 {
		writeErrorResponse(w, http.StatusBadRequest, "EMPTY_BATCH", "records are required")
		return
	}

	out, err := h.Ingest.Execute(r.Context(), input)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	middleware.RecordIngest(out.Inserted, out.Updated)
	writeJSON(w, http.StatusOK, out)
}
