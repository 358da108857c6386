package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Pipeline stages. A lead always enters at NEW; DISQUALIFIED and CONTACTED
// are terminal for the automatic pipeline.
type Stage string

const (
	StageNew          Stage = "NEW"
	StageQualified    Stage = "QUALIFIED"
	StageDisqualified Stage = "DISQUALIFIED"
	StageContacted    Stage = "CONTACTED"
)

func (s Stage) Valid() bool {
	switch s {
	case StageNew, StageQualified, StageDisqualified, StageContacted:
		return true
	}
	return false
}

// CanTransitionTo reports whether the automatic pipeline is allowed to move
// a lead from s to next. External processes may reopen leads outside this
// graph; the store does not enforce it.
func (s Stage) CanTransitionTo(next Stage) bool {
	switch s {
	case StageNew:
		return next == StageQualified || next == StageDisqualified
	case StageQualified:
		return next == StageContacted
	}
	return false
}

// Value Object: Address
type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
}

func (a Address) Empty() bool {
	return a.Street == "" && a.City == "" && a.State == "" && a.Country == ""
}

type Lead struct {
	ID       string `json:"id"`
	Source   string `json:"source"`
	Name     string `json:"name"`
	Niche    string `json:"niche"`
	Contact  string `json:"contact"`
	Platform string `json:"platform"` // email|whatsapp|instagram|linkedin

	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount *int     `json:"review_count,omitempty"`

	Email   string  `json:"email,omitempty"`
	Phone   string  `json:"phone,omitempty"`
	Website string  `json:"website,omitempty"`
	Address Address `json:"address"`

	// Raw provider payloads and anything we do not model explicitly.
	Extras map[string]any `json:"extras,omitempty"`

	Score *int     `json:"score,omitempty"`
	Tags  []string `json:"tags,omitempty"`

	Stage     Stage     `json:"stage"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Factory
func NewLead(source, name, niche, contact, platform string) (*Lead, error) {
	lead := &Lead{
		ID:        uuid.New().String(),
		Source:    source,
		Name:      name,
		Niche:     niche,
		Contact:   contact,
		Platform:  platform,
		Stage:     StageNew,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := lead.Validate(); err != nil {
		return nil, err
	}

	return lead, nil
}

func (l *Lead) Validate() error {
	if l.Name == "" {
		return errors.New("name is required")
	}
	if l.Contact == "" {
		return errors.New("contact is required")
	}
	if l.Platform == "" {
		return errors.New("platform is required")
	}
	return nil
}
