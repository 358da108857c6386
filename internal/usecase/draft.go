package usecase

import (
	"context"
	"log"

	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/entity"
)

// DraftOutreachUseCase creates DRAFT messages for QUALIFIED leads that have
// a usable email and no in-flight message yet. Leads without an email stay
// QUALIFIED and become eligible once a contact is added.
type DraftOutreachUseCase struct {
	Leads    LeadRepository
	Outreach OutreachRepository
	Renderer TemplateRenderer
}

func NewDraftOutreachUseCase(leads LeadRepository, outreach OutreachRepository, renderer TemplateRenderer) *DraftOutreachUseCase {
	return &DraftOutreachUseCase{Leads: leads, Outreach: outreach, Renderer: renderer}
}

func (uc *DraftOutreachUseCase) Execute(ctx context.Context) (*DraftOutput, error) {
	if uc.Renderer == nil {
		return nil, &ConfigurationError{Code: "NO_RENDERER", Message: "no template renderer configured"}
	}

	qualified, err := uc.Leads.ListByStage(ctx, entity.StageQualified)
	if err != nil {
		return nil, err
	}

	out := &DraftOutput{Eligible: len(qualified)}
	for _, lead := range qualified {
		if !UsableEmail(lead) {
			out.Skipped++
			continue
		}

		open, err := uc.Outreach.HasOpenMessage(ctx, lead.ID)
		if err != nil {
			log.Printf("draft: lead %s: %v", lead.ID, err)
			out.Failed++
			continue
		}
		if open {
			out.Skipped++
			continue
		}

		subject, body, err := uc.Renderer.Render(lead)
		if err != nil {
			log.Printf("draft: render for lead %s: %v", lead.ID, err)
			out.Failed++
			continue
		}

		msg, err := entity.NewOutreachMessage(lead.ID, subject, body)
		if err != nil {
			out.Failed++
			continue
		}

		if err := uc.Outreach.Insert(ctx, msg); err != nil {
			log.Printf("draft: insert for lead %s: %v", lead.ID, err)
			out.Failed++
			continue
		}
		out.Drafted++
	}

	log.Printf("draft: %d messages drafted for %d qualified leads", out.Drafted, out.Eligible)
	return out, nil
}
