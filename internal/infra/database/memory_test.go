package database

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/entity"
)

func newLead(t *testing.T, name, contact, platform string) *entity.Lead {
	t.Helper()
	lead, err := entity.NewLead("test", name, "gym", contact, platform)
	assert.NoError(t, err)
	return lead
}

func TestMemoryStore_UpsertMergesOnNaturalIdentity(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first := newLead(t, "Marina Fitness JLT", "+971501234567", "whatsapp")
	inserted, err := store.Upsert(ctx, first)
	assert.NoError(t, err)
	assert.True(t, inserted)

	rating := 4.2
	second := newLead(t, "MARINA FITNESS JLT", "+971501234567", "WhatsApp")
	second.Rating = &rating
	second.Website = "https://marinafitness.ae"
	inserted, err = store.Upsert(ctx, second)
	assert.NoError(t, err)
	assert.False(t, inserted, "identity match is case-insensitive")

	assert.Equal(t, first.ID, second.ID, "caller sees the stored id after a merge")

	got, err := store.FindByID(ctx, first.ID)
	assert.NoError(t, err)
	assert.Equal(t, 4.2, *got.Rating)
	assert.Equal(t, "https://marinafitness.ae", got.Website)
	assert.Equal(t, "Marina Fitness JLT", got.Name, "original casing survives the merge")
}

func TestMemoryStore_UpsertNeverRegressesStage(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	lead := newLead(t, "Marina Fitness JLT", "+971501234567", "whatsapp")
	_, err := store.Upsert(ctx, lead)
	assert.NoError(t, err)
	assert.NoError(t, store.ApplyQualification(ctx, lead.ID, 6, nil, entity.StageQualified))

	again := newLead(t, "Marina Fitness JLT", "+971501234567", "whatsapp")
	_, err = store.Upsert(ctx, again)
	assert.NoError(t, err)

	got, _ := store.FindByID(ctx, lead.ID)
	assert.Equal(t, entity.StageQualified, got.Stage)
	assert.Equal(t, 6, *got.Score)
}

func TestMemoryStore_UpsertExtrasMerge(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first := newLead(t, "Al Noor Realty", "info@alnoorrealty.ae", "email")
	first.Extras = map[string]any{"place_id": "pid-1"}
	_, err := store.Upsert(ctx, first)
	assert.NoError(t, err)

	bare := newLead(t, "Al Noor Realty", "info@alnoorrealty.ae", "email")
	_, err = store.Upsert(ctx, bare)
	assert.NoError(t, err)

	got, _ := store.FindByID(ctx, first.ID)
	assert.Equal(t, "pid-1", got.Extras["place_id"], "a sighting without extras keeps the stored ones")

	richer := newLead(t, "Al Noor Realty", "info@alnoorrealty.ae", "email")
	richer.Extras = map[string]any{"menu_url": "https://alnoor.ae/menu"}
	_, err = store.Upsert(ctx, richer)
	assert.NoError(t, err)

	got, _ = store.FindByID(ctx, first.ID)
	assert.Equal(t, map[string]any{"menu_url": "https://alnoor.ae/menu"}, got.Extras, "a sighting with extras replaces them wholesale")
}

func TestMemoryStore_InsertRejectsSecondOpenMessage(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	lead := newLead(t, "Al Noor Realty", "info@alnoorrealty.ae", "email")
	_, err := store.Upsert(ctx, lead)
	assert.NoError(t, err)

	first, err := entity.NewOutreachMessage(lead.ID, "subj", "body")
	assert.NoError(t, err)
	assert.NoError(t, store.Insert(ctx, first))

	second, err := entity.NewOutreachMessage(lead.ID, "subj", "body")
	assert.NoError(t, err)
	assert.Error(t, store.Insert(ctx, second))

	// Once the first message is terminal, a new draft is allowed again.
	assert.NoError(t, store.UpdateStatus(ctx, first.ID, entity.MessageError, nil, ""))
	assert.NoError(t, store.Insert(ctx, second))
}

func TestMemoryStore_ConcurrentUpsertsKeepOneLead(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lead := newLead(t, "Marina Fitness JLT", "+971501234567", "whatsapp")
			_, err := store.Upsert(ctx, lead)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	leads, err := store.ListByStage(ctx, entity.StageNew)
	assert.NoError(t, err)
	assert.Len(t, leads, 1)
}

func TestMemoryStore_NotFound(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.FindByID(ctx, "missing")
	assert.True(t, entity.IsNotFound(err))

	err = store.SetStage(ctx, "missing", entity.StageContacted)
	assert.True(t, entity.IsNotFound(err))

	err = store.UpdateStatus(ctx, "missing", entity.MessageSent, nil, "")
	assert.True(t, entity.IsNotFound(err))
}

func TestMemoryStore_ListByStagePreservesInsertionOrder(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	names := []string{"first", "second", "third"}
	for _, name := range names {
		lead := newLead(t, name, name+"@leads.ae", "email")
		_, err := store.Upsert(ctx, lead)
		assert.NoError(t, err)
	}

	leads, err := store.ListByStage(ctx, entity.StageNew)
	assert.NoError(t, err)
	assert.Len(t, leads, 3)
	for i, name := range names {
		assert.Equal(t, name, leads[i].Name)
	}
}

func TestMemoryStore_HasOpenMessage(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	lead := newLead(t, "Al Noor Realty", "info@alnoorrealty.ae", "email")
	_, err := store.Upsert(ctx, lead)
	assert.NoError(t, err)

	open, err := store.HasOpenMessage(ctx, lead.ID)
	assert.NoError(t, err)
	assert.False(t, open)

	msg, err := entity.NewOutreachMessage(lead.ID, "subj", "body")
	assert.NoError(t, err)
	assert.NoError(t, store.Insert(ctx, msg))

	open, _ = store.HasOpenMessage(ctx, lead.ID)
	assert.True(t, open)

	assert.NoError(t, store.UpdateStatus(ctx, msg.ID, entity.MessageError, nil, ""))
	open, _ = store.HasOpenMessage(ctx, lead.ID)
	assert.False(t, open, "terminal messages do not block a new draft")
}
