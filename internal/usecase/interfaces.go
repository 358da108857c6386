package usecase

import (
	"context"
	"time"

	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/entity"
)

// RawRecord is one string-keyed record from any ingestion source. Key
// lookup is case-insensitive on the normalizer side.
type RawRecord map[string]string

// LeadRepository is the durable keyed store for leads.
type LeadRepository interface {
	// Upsert inserts the lead or, when its natural identity already
	// exists, merges the mutable fields into the stored record. The
	// stored id, stage, score and timestamps are written back into lead.
	// Returns true when a new row was created.
	Upsert(ctx context.Context, lead *entity.Lead) (bool, error)

	FindByID(ctx context.Context, id string) (*entity.Lead, error)

	// SetStage overwrites the stage and bumps updated_at. Transition
	// legality is the caller's concern, not the store's.
	SetStage(ctx context.Context, id string, stage entity.Stage) error

	// ApplyQualification persists the qualification outcome (score, tags
	// and resulting stage) in one atomic row update.
	ApplyQualification(ctx context.Context, id string, score int, tags []string, stage entity.Stage) error

	// ListByStage returns a stable insertion-ordered snapshot of all
	// leads currently in the stage.
	ListByStage(ctx context.Context, stage entity.Stage) ([]*entity.Lead, error)
}

// OutreachRepository is the durable keyed store for outreach messages.
type OutreachRepository interface {
	Insert(ctx context.Context, msg *entity.OutreachMessage) error

	UpdateStatus(ctx context.Context, id string, status entity.MessageStatus, sentAt *time.Time, providerID string) error

	ListByStatus(ctx context.Context, status entity.MessageStatus) ([]*entity.OutreachMessage, error)

	// HasOpenMessage reports whether the lead already has a DRAFT or
	// SENDING message. At most one may exist per lead.
	HasOpenMessage(ctx context.Context, leadID string) (bool, error)
}

// MessageSender is the abstract send capability. Transport faults come
// back as errors, never as panics; the dispatcher converts them to a
// failed delivery.
type MessageSender interface {
	Send(ctx context.Context, to, subject, body string) (providerMessageID string, err error)
}

// TemplateRenderer turns a lead into a subject and body. It must not fail
// for any well-formed lead; absent optional fields render as fallback text.
type TemplateRenderer interface {
	Render(lead *entity.Lead) (subject, body string, err error)
}

// LeadSource fetches candidate raw records from an external provider.
type LeadSource interface {
	Search(ctx context.Context, niche, location string, limit int) ([]RawRecord, error)
}

// OutreachEvent is published after every dispatch attempt for downstream
// consumers (CRM sync, analytics).
type OutreachEvent struct {
	MessageID   string    `json:"message_id"`
	LeadID      string    `json:"lead_id"`
	Destination string    `json:"destination"`
	Status      string    `json:"status"`
	DryRun      bool      `json:"dry_run"`
	At          time.Time `json:"at"`
}

type EventPublisher interface {
	PublishOutreach(ctx context.Context, evt OutreachEvent) error
}
