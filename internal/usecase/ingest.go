package usecase

import (
	"context"
	"log"
	"strings"

	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/config"
)

// IngestLeadsUseCase runs raw records through the normalizer, applies the
// configured niche/platform allowlists and upserts the survivors. Duplicate
// sightings of a natural identity update the stored record in place.
type IngestLeadsUseCase struct {
	Leads   LeadRepository
	Filters config.FilterConfig
}

func NewIngestLeadsUseCase(leads LeadRepository, filters config.FilterConfig) *IngestLeadsUseCase {
	return &IngestLeadsUseCase{Leads: leads, Filters: filters}
}

func (uc *IngestLeadsUseCase) Execute(ctx context.Context, input IngestInput) (*IngestOutput, error) {
	source := input.Source
	if source == "" {
		source = "api"
	}

	leads, rejected := NormalizeBatch(source, input.Records)

	out := &IngestOutput{
		Received: len(input.Records),
		Rejected: len(rejected),
	}
	for _, verr := range rejected {
		log.Printf("ingest: record dropped: %v", verr)
	}

	for _, lead := range leads {
		if !allowed(uc.Filters.Niches, lead.Niche) || !allowed(uc.Filters.Platforms, lead.Platform) {
			out.Filtered++
			continue
		}

		created, err := uc.Leads.Upsert(ctx, lead)
		if err != nil {
			log.Printf("ingest: upsert %q: %v", lead.Name, err)
			out.Rejected++
			continue
		}
		if created {
			out.Inserted++
		} else {
			out.Updated++
		}
	}

	log.Printf("ingest: %d inserted, %d updated, %d filtered, %d rejected (source=%s)",
		out.Inserted, out.Updated, out.Filtered, out.Rejected, source)
	return out, nil
}

// allowed: an empty allowlist admits everything.
func allowed(list []string, value string) bool {
	if len(list) == 0 {
		return true
	}
	for _, item := range list {
		if strings.EqualFold(item, value) {
			return true
		}
	}
	return false
}
