package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/entity"
	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/infra/database"
)

type stubRenderer struct {
	err error
}

func (r stubRenderer) Render(lead *entity.Lead) (string, string, error) {
	if r.err != nil {
		return "", "", r.err
	}
	return "Hello " + lead.Name, "body for " + lead.Name, nil
}

func qualify(t *testing.T, store *database.MemoryStore, lead *entity.Lead) {
	t.Helper()
	err := store.ApplyQualification(context.Background(), lead.ID, 7, []string{"valid_email"}, entity.StageQualified)
	assert.NoError(t, err)
}

func TestDraftOutreach_SkipsLeadsWithoutUsableEmail(t *testing.T) {
	store := database.NewMemoryStore()
	lead := seedLead(t, store, "Prime Motors Deira", "auto", "@primemotorsdxb", "instagram")
	qualify(t, store, lead)

	uc := NewDraftOutreachUseCase(store, store, stubRenderer{})
	out, err := uc.Execute(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, out.Eligible)
	assert.Equal(t, 1, out.Skipped)
	assert.Zero(t, out.Drafted)

	got, _ := store.FindByID(context.Background(), lead.ID)
	assert.Equal(t, entity.StageQualified, got.Stage, "skipped lead keeps its stage")

	drafts, _ := store.ListByStatus(context.Background(), entity.MessageDraft)
	assert.Empty(t, drafts)
}

func TestDraftOutreach_DraftsOnceEmailArrives(t *testing.T) {
	store := database.NewMemoryStore()
	lead := seedLead(t, store, "Prime Motors Deira", "auto", "@primemotorsdxb", "instagram")
	qualify(t, store, lead)

	uc := NewDraftOutreachUseCase(store, store, stubRenderer{})
	_, err := uc.Execute(context.Background())
	assert.NoError(t, err)

	// Same natural identity arrives again, now carrying an email.
	update, err := entity.NewLead("csv", "Prime Motors Deira", "auto", "@primemotorsdxb", "instagram")
	assert.NoError(t, err)
	update.Email = "sales@primemotors.ae"
	inserted, err := store.Upsert(context.Background(), update)
	assert.NoError(t, err)
	assert.False(t, inserted)

	out, err := uc.Execute(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, out.Drafted)

	drafts, _ := store.ListByStatus(context.Background(), entity.MessageDraft)
	assert.Len(t, drafts, 1)
	assert.Equal(t, lead.ID, drafts[0].LeadID)
	assert.Equal(t, "Hello Prime Motors Deira", drafts[0].Subject)
}

func TestDraftOutreach_AtMostOneOpenMessagePerLead(t *testing.T) {
	store := database.NewMemoryStore()
	lead := seedLead(t, store, "Al Noor Realty", "real estate", "info@alnoorrealty.ae", "email")
	qualify(t, store, lead)

	uc := NewDraftOutreachUseCase(store, store, stubRenderer{})

	first, err := uc.Execute(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, first.Drafted)

	second, err := uc.Execute(context.Background())
	assert.NoError(t, err)
	assert.Zero(t, second.Drafted)
	assert.Equal(t, 1, second.Skipped)

	drafts, _ := store.ListByStatus(context.Background(), entity.MessageDraft)
	assert.Len(t, drafts, 1)
}

// barrierRenderer parks both concurrent runs between the open-message
// check and the insert, forcing the race on the invariant.
type barrierRenderer struct {
	ready *sync.WaitGroup
}

func (r barrierRenderer) Render(lead *entity.Lead) (string, string, error) {
	r.ready.Done()
	r.ready.Wait()
	return "Hello " + lead.Name, "body", nil
}

func TestDraftOutreach_ConcurrentRunsKeepOneOpenMessage(t *testing.T) {
	store := database.NewMemoryStore()
	lead := seedLead(t, store, "Al Noor Realty", "real estate", "info@alnoorrealty.ae", "email")
	qualify(t, store, lead)

	var ready sync.WaitGroup
	ready.Add(2)
	uc := NewDraftOutreachUseCase(store, store, barrierRenderer{ready: &ready})

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Execute(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	drafts, _ := store.ListByStatus(context.Background(), entity.MessageDraft)
	assert.Len(t, drafts, 1, "only one run may win the insert")
}

func TestDraftOutreach_NoRendererIsConfigurationError(t *testing.T) {
	store := database.NewMemoryStore()

	uc := NewDraftOutreachUseCase(store, store, nil)
	_, err := uc.Execute(context.Background())

	assert.True(t, IsConfigurationError(err))
}
