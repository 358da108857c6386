package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/config"
	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/entity"
	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/infra/database"
	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/usecase"
)

type fixedRenderer struct{}

func (fixedRenderer) Render(lead *entity.Lead) (string, string, error) {
	return "Hello " + lead.Name, "body", nil
}

func pipelineFixture(t *testing.T) (*PipelineHandler, *database.MemoryStore) {
	t.Helper()
	store := database.NewMemoryStore()

	scoring := config.Scoring{
		NicheWeights:    map[string]int{"real estate": 3},
		PlatformWeights: map[string]int{"email": 3},
		ContactBonuses:  map[string]int{"email": 2},
		MinScore:        5,
	}

	h := NewPipelineHandler(
		usecase.NewQualifyLeadsUseCase(store, scoring),
		usecase.NewDraftOutreachUseCase(store, store, fixedRenderer{}),
		usecase.NewDispatchOutreachUseCase(store, store, nil, nil, 60, time.Second),
	)
	return h, store
}

func seedCaptured(t *testing.T, store *database.MemoryStore) *entity.Lead {
	t.Helper()
	lead, err := entity.NewLead("capture", "Al Noor Realty", "real estate", "info@alnoorrealty.ae", "email")
	assert.NoError(t, err)
	lead.Email = lead.Contact
	_, err = store.Upsert(context.Background(), lead)
	assert.NoError(t, err)
	return lead
}

func TestPipeline_QualifyDraftDispatchDryRun(t *testing.T) {
	h, store := pipelineFixture(t)
	lead := seedCaptured(t, store)

	rec := httptest.NewRecorder()
	h.HandleQualify(rec, httptest.NewRequest(http.MethodPost, "/pipeline/qualify", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var qout usecase.QualifyOutput
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&qout))
	assert.Equal(t, 1, qout.Qualified)

	rec = httptest.NewRecorder()
	h.HandleDraft(rec, httptest.NewRequest(http.MethodPost, "/pipeline/draft", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var dout usecase.DraftOutput
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&dout))
	assert.Equal(t, 1, dout.Drafted)

	rec = httptest.NewRecorder()
	body := strings.NewReader(`{"dry_run": true}`)
	h.HandleDispatch(rec, httptest.NewRequest(http.MethodPost, "/pipeline/dispatch", body))
	assert.Equal(t, http.StatusOK, rec.Code)

	var sout usecase.DispatchOutput
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&sout))
	assert.True(t, sout.DryRun)
	assert.Equal(t, 1, sout.Sent)

	got, err := store.FindByID(context.Background(), lead.ID)
	assert.NoError(t, err)
	assert.Equal(t, entity.StageContacted, got.Stage)
}

func TestPipeline_DispatchWithoutTransportIsServiceUnavailable(t *testing.T) {
	h, store := pipelineFixture(t)
	lead := seedCaptured(t, store)

	assert.NoError(t, store.ApplyQualification(context.Background(), lead.ID, 9, nil, entity.StageQualified))
	msg, err := entity.NewOutreachMessage(lead.ID, "subj", "body")
	assert.NoError(t, err)
	assert.NoError(t, store.Insert(context.Background(), msg))

	rec := httptest.NewRecorder()
	h.HandleDispatch(rec, httptest.NewRequest(http.MethodPost, "/pipeline/dispatch", strings.NewReader(`{"dry_run": false}`)))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_CONFIGURED")
	assert.Contains(t, rec.Body.String(), "no send transport configured")
}
