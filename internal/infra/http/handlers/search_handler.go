package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/infra/http/middleware"
	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/usecase"
)

// SearchHandler fetches candidate businesses from the external places
// provider and runs them straight through ingestion.
type SearchHandler struct {
	Source usecase.LeadSource // nil when no API key is configured
	Ingest *usecase.IngestLeadsUseCase
}

func NewSearchHandler(source usecase.LeadSource, ingest *usecase.IngestLeadsUseCase) *SearchHandler {
	return &SearchHandler{Source: source, Ingest: ingest}
}

type searchRequest struct {
	Niche    string `json:"niche"`
	Location string `json:"location"`
	Limit    int    `json:"limit"`
}

func (h *SearchHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.Source == nil {
		writeUsecaseError(w, &usecase.ConfigurationError{
			Code:    "NO_SEARCH_PROVIDER",
			Message: "no search API key configured",
		})
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}
	if req.Niche == "" || req.Location == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_FIELDS", "niche and location are required")
		return
	}
	if req.Limit <= 0 {
		req.Limit = 50
	}

	records, err := h.Source.Search(r.Context(), req.Niche, req.Location, req.Limit)
	if err != nil {
		middleware.RecordIntegrationError("places")
		writeErrorResponse(w, http.StatusBadGateway, "SEARCH_FAILED", err.Error())
		return
	}

	out, err := h.Ingest.Execute(r.Context(), usecase.IngestInput{
		Source:  "places",
		Records: records,
	})
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	middleware.RecordIngest(out.Inserted, out.Updated)
	writeJSON(w, http.StatusOK, out)
}
