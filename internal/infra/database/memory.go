package database

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/entity"
)

// MemoryStore keeps the whole pipeline state in process. It backs local
// development without Postgres and the usecase tests; semantics mirror the
// SQL repositories (merge-on-conflict upsert, insertion-ordered snapshots,
// NotFoundError on unknown ids).
type MemoryStore struct {
	mu         sync.Mutex
	leads      []*entity.Lead
	leadsByID  map[string]*entity.Lead
	leadsByKey map[string]*entity.Lead
	messages   []*entity.OutreachMessage
	msgsByID   map[string]*entity.OutreachMessage
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		leadsByID:  make(map[string]*entity.Lead),
		leadsByKey: make(map[string]*entity.Lead),
		msgsByID:   make(map[string]*entity.OutreachMessage),
	}
}

func identityKey(l *entity.Lead) string {
	return strings.ToLower(l.Name) + "|" + strings.ToLower(l.Contact) + "|" + strings.ToLower(l.Platform)
}

func (s *MemoryStore) Upsert(ctx context.Context, lead *entity.Lead) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	existing, ok := s.leadsByKey[identityKey(lead)]
	if !ok {
		stored := *lead
		stored.Stage = entity.StageNew
		stored.CreatedAt = now
		stored.UpdatedAt = now
		s.leads = append(s.leads, &stored)
		s.leadsByID[stored.ID] = &stored
		s.leadsByKey[identityKey(&stored)] = &stored

		lead.Stage = stored.Stage
		lead.CreatedAt = stored.CreatedAt
		lead.UpdatedAt = stored.UpdatedAt
		return true, nil
	}

	// Merge mutable fields; id and stage stay untouched.
	existing.Source = lead.Source
	existing.Niche = lead.Niche
	if lead.Rating != nil {
		existing.Rating = lead.Rating
	}
	if lead.ReviewCount != nil {
		existing.ReviewCount = lead.ReviewCount
	}
	if lead.Email != "" {
		existing.Email = lead.Email
	}
	if lead.Phone != "" {
		existing.Phone = lead.Phone
	}
	if lead.Website != "" {
		existing.Website = lead.Website
	}
	if !lead.Address.Empty() {
		existing.Address = lead.Address
	}
	if lead.Extras != nil {
		existing.Extras = lead.Extras
	}
	existing.UpdatedAt = now

	*lead = *existing
	return false, nil
}

func (s *MemoryStore) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lead, ok := s.leadsByID[id]
	if !ok {
		return nil, &entity.NotFoundError{Resource: "lead", ID: id}
	}
	copied := *lead
	return &copied, nil
}

func (s *MemoryStore) SetStage(ctx context.Context, id string, stage entity.Stage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lead, ok := s.leadsByID[id]
	if !ok {
		return &entity.NotFoundError{Resource: "lead", ID: id}
	}
	lead.Stage = stage
	lead.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) ApplyQualification(ctx context.Context, id string, score int, tags []string, stage entity.Stage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lead, ok := s.leadsByID[id]
	if !ok {
		return &entity.NotFoundError{Resource: "lead", ID: id}
	}
	lead.Score = &score
	lead.Tags = tags
	lead.Stage = stage
	lead.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) ListByStage(ctx context.Context, stage entity.Stage) ([]*entity.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*entity.Lead
	for _, lead := range s.leads {
		if lead.Stage == stage {
			copied := *lead
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *MemoryStore) Insert(ctx context.Context, msg *entity.OutreachMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Same guard the partial unique index enforces in Postgres: at most
	// one non-terminal message per lead.
	if !msg.Status.Terminal() {
		for _, m := range s.messages {
			if m.LeadID == msg.LeadID && !m.Status.Terminal() {
				return fmt.Errorf("lead %s already has an open message", msg.LeadID)
			}
		}
	}

	stored := *msg
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	s.messages = append(s.messages, &stored)
	s.msgsByID[stored.ID] = &stored
	return nil
}

func (s *MemoryStore) UpdateStatus(ctx context.Context, id string, status entity.MessageStatus, sentAt *time.Time, providerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, ok := s.msgsByID[id]
	if !ok {
		return &entity.NotFoundError{Resource: "message", ID: id}
	}
	msg.Status = status
	msg.SentAt = sentAt
	msg.ProviderMessageID = providerID
	return nil
}

func (s *MemoryStore) ListByStatus(ctx context.Context, status entity.MessageStatus) ([]*entity.OutreachMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*entity.OutreachMessage
	for _, msg := range s.messages {
		if msg.Status == status {
			copied := *msg
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *MemoryStore) HasOpenMessage(ctx context.Context, leadID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, msg := range s.messages {
		if msg.LeadID == leadID && !msg.Status.Terminal() {
			return true, nil
		}
	}
	return false, nil
}
