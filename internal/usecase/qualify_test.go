package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/entity"
	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/infra/database"
)

func seedLead(t *testing.T, store *database.MemoryStore, name, niche, contact, platform string) *entity.Lead {
	t.Helper()
	lead, err := entity.NewLead("test", name, niche, contact, platform)
	assert.NoError(t, err)
	if platform == "email" {
		lead.Email = contact
	}
	_, err = store.Upsert(context.Background(), lead)
	assert.NoError(t, err)
	return lead
}

func TestQualifyLeads_ResolvesEveryNewLeadOnce(t *testing.T) {
	store := database.NewMemoryStore()
	strong := seedLead(t, store, "Al Noor Realty", "real estate", "info@alnoorrealty.ae", "email")
	seedLead(t, store, "Prime Motors Deira", "auto", "@primemotorsdxb", "instagram")
	seedLead(t, store, "Marina Fitness JLT", "gym", "abc", "whatsapp")

	cfg := scoringFixture()
	cfg.MinScore = 5
	uc := NewQualifyLeadsUseCase(store, cfg)

	out, err := uc.Execute(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 3, out.Scored)
	assert.Equal(t, 1, out.Qualified)
	assert.Equal(t, 2, out.Disqualified)
	assert.Zero(t, out.Failed)

	pending, _ := store.ListByStage(context.Background(), entity.StageNew)
	assert.Empty(t, pending, "no lead may remain NEW after a pass")

	got, err := store.FindByID(context.Background(), strong.ID)
	assert.NoError(t, err)
	assert.Equal(t, entity.StageQualified, got.Stage)
	assert.Equal(t, 9, *got.Score)
	assert.Contains(t, got.Tags, "valid_email")
}

func TestQualifyLeads_RerunIsNoOp(t *testing.T) {
	store := database.NewMemoryStore()
	seedLead(t, store, "Al Noor Realty", "real estate", "info@alnoorrealty.ae", "email")

	cfg := scoringFixture()
	cfg.MinScore = 5
	uc := NewQualifyLeadsUseCase(store, cfg)

	_, err := uc.Execute(context.Background())
	assert.NoError(t, err)

	out, err := uc.Execute(context.Background())
	assert.NoError(t, err)
	assert.Zero(t, out.Scored, "resolved leads are not rescored")
}
