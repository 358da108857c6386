package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type MessageStatus string

const (
	MessageDraft   MessageStatus = "DRAFT"
	MessageSending MessageStatus = "SENDING"
	MessageSent    MessageStatus = "SENT"
	MessageError   MessageStatus = "ERROR"
)

func (s MessageStatus) Valid() bool {
	switch s {
	case MessageDraft, MessageSending, MessageSent, MessageError:
		return true
	}
	return false
}

// Terminal reports whether the message is done from the dispatcher's point
// of view. A lead may hold at most one non-terminal message at a time.
func (s MessageStatus) Terminal() bool {
	return s == MessageSent || s == MessageError
}

// OutreachMessage is a drafted or sent communication tied to one lead. It
// references the lead but does not own it.
type OutreachMessage struct {
	ID                string        `json:"id"`
	LeadID            string        `json:"lead_id"`
	Subject           string        `json:"subject"`
	Body              string        `json:"body"`
	Status            MessageStatus `json:"status"`
	SentAt            *time.Time    `json:"sent_at,omitempty"`
	ProviderMessageID string        `json:"provider_message_id,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
}

// Factory
func NewOutreachMessage(leadID, subject, body string) (*OutreachMessage, error) {
	msg := &OutreachMessage{
		ID:        uuid.New().String(),
		LeadID:    leadID,
		Subject:   subject,
		Body:      body,
		Status:    MessageDraft,
		CreatedAt: time.Now(),
	}

	if err := msg.Validate(); err != nil {
		return nil, err
	}

	return msg, nil
}

func (m *OutreachMessage) Validate() error {
	if m.LeadID == "" {
		return errors.New("lead_id is required")
	}
	if m.Body == "" {
		return errors.New("body is required")
	}
	return nil
}
