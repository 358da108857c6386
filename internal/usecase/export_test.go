package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/entity"
	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/infra/database"
)

func seedScored(t *testing.T, store *database.MemoryStore, name string, score int) *entity.Lead {
	t.Helper()
	lead := seedLead(t, store, name, "real estate", name+"@leads.ae", "email")
	err := store.ApplyQualification(context.Background(), lead.ID, score, nil, entity.StageQualified)
	assert.NoError(t, err)
	return lead
}

func TestExportLeads_SortsByScoreDescending(t *testing.T) {
	store := database.NewMemoryStore()
	low := seedScored(t, store, "low", 4)
	high := seedScored(t, store, "high", 9)
	mid := seedScored(t, store, "mid", 6)

	uc := NewExportLeadsUseCase(store)
	leads, err := uc.Execute(context.Background(), entity.StageQualified)

	assert.NoError(t, err)
	assert.Equal(t, []string{high.ID, mid.ID, low.ID}, []string{leads[0].ID, leads[1].ID, leads[2].ID})
}

func TestExportLeads_TiesKeepInsertionOrder(t *testing.T) {
	store := database.NewMemoryStore()
	first := seedScored(t, store, "first", 7)
	second := seedScored(t, store, "second", 7)
	third := seedScored(t, store, "third", 7)

	uc := NewExportLeadsUseCase(store)
	leads, err := uc.Execute(context.Background(), entity.StageQualified)

	assert.NoError(t, err)
	assert.Equal(t, []string{first.ID, second.ID, third.ID}, []string{leads[0].ID, leads[1].ID, leads[2].ID})
}

func TestExportLeads_UnscoredSortLast(t *testing.T) {
	store := database.NewMemoryStore()
	unscored := seedLead(t, store, "fresh", "gym", "fresh@leads.ae", "email")
	assert.NoError(t, store.SetStage(context.Background(), unscored.ID, entity.StageQualified))
	scored := seedScored(t, store, "scored", 5)

	uc := NewExportLeadsUseCase(store)
	leads, err := uc.Execute(context.Background(), entity.StageQualified)

	assert.NoError(t, err)
	assert.Equal(t, scored.ID, leads[0].ID)
	assert.Equal(t, unscored.ID, leads[1].ID)
}

func TestWriteCSV(t *testing.T) {
	store := database.NewMemoryStore()
	seedScored(t, store, "Al Noor Realty", 9)

	uc := NewExportLeadsUseCase(store)
	leads, err := uc.Execute(context.Background(), entity.StageQualified)
	assert.NoError(t, err)

	var buf bytes.Buffer
	assert.NoError(t, WriteCSV(&buf, leads))

	rows, err := csv.NewReader(&buf).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, exportHeader, rows[0])

	header := rows[0]
	row := rows[1]
	byCol := make(map[string]string, len(header))
	for i, col := range header {
		byCol[col] = row[i]
	}
	assert.Equal(t, "Al Noor Realty", byCol["name"])
	assert.Equal(t, "9", byCol["score"])
	assert.Equal(t, "QUALIFIED", byCol["stage"])
	assert.Empty(t, byCol["rating"], "missing optionals export as empty cells")
}

func TestWriteJSON(t *testing.T) {
	store := database.NewMemoryStore()
	seedScored(t, store, "Al Noor Realty", 9)

	uc := NewExportLeadsUseCase(store)
	leads, err := uc.Execute(context.Background(), entity.StageQualified)
	assert.NoError(t, err)

	var buf bytes.Buffer
	assert.NoError(t, WriteJSON(&buf, leads))
	assert.Contains(t, buf.String(), `"Al Noor Realty"`)
	assert.Contains(t, buf.String(), `"score": 9`)
}
