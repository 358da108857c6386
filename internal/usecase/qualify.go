package usecase

import (
	"context"
	"log"

	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/config"
	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/entity"
)

// QualifyLeadsUseCase runs one bulk qualification pass: every lead in NEW
// is scored and moved to QUALIFIED or DISQUALIFIED. Re-running is a no-op
// for already-resolved leads because only NEW leads are considered.
type QualifyLeadsUseCase struct {
	Leads   LeadRepository
	Scoring config.Scoring
}

func NewQualifyLeadsUseCase(leads LeadRepository, scoring config.Scoring) *QualifyLeadsUseCase {
	return &QualifyLeadsUseCase{Leads: leads, Scoring: scoring}
}

func (uc *QualifyLeadsUseCase) Execute(ctx context.Context) (*QualifyOutput, error) {
	pending, err := uc.Leads.ListByStage(ctx, entity.StageNew)
	if err != nil {
		return nil, err
	}

	out := &QualifyOutput{}
	for _, lead := range pending {
		score, tags := Score(lead, uc.Scoring)

		stage := entity.StageDisqualified
		if score >= uc.Scoring.MinScore {
			stage = entity.StageQualified
		}

		if err := uc.Leads.ApplyQualification(ctx, lead.ID, score, tags, stage); err != nil {
			// Isolated per lead; the pass keeps going.
			log.Printf("qualify: lead %s: %v", lead.ID, err)
			out.Failed++
			continue
		}

		out.Scored++
		if stage == entity.StageQualified {
			out.Qualified++
		} else {
			out.Disqualified++
		}
	}

	log.Printf("qualify: %d/%d NEW leads qualified", out.Qualified, len(pending))
	return out, nil
}
