package usecase

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/entity"
)

// ExportLeadsUseCase produces a tabular snapshot of leads at one stage,
// sorted by score descending where a score exists; ties keep original
// insertion order.
type ExportLeadsUseCase struct {
	Leads LeadRepository
}

func NewExportLeadsUseCase(leads LeadRepository) *ExportLeadsUseCase {
	return &ExportLeadsUseCase{Leads: leads}
}

func (uc *ExportLeadsUseCase) Execute(ctx context.Context, stage entity.Stage) ([]*entity.Lead, error) {
	leads, err := uc.Leads.ListByStage(ctx, stage)
	if err != nil {
		return nil, err
	}

	// Unscored leads sort after all scored ones.
	sort.SliceStable(leads, func(i, j int) bool {
		si, sj := leads[i].Score, leads[j].Score
		switch {
		case si == nil:
			return false
		case sj == nil:
			return true
		default:
			return *si > *sj
		}
	})

	return leads, nil
}

var exportHeader = []string{
	"id", "source", "name", "niche", "contact", "platform",
	"rating", "review_count", "email", "phone", "website",
	"address", "city", "state", "country",
	"score", "tags", "stage", "created_at", "updated_at",
}

// WriteCSV writes all lead columns in export order.
func WriteCSV(w io.Writer, leads []*entity.Lead) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}

	for _, l := range leads {
		row := []string{
			l.ID, l.Source, l.Name, l.Niche, l.Contact, l.Platform,
			formatFloat(l.Rating), formatInt(l.ReviewCount),
			l.Email, l.Phone, l.Website,
			l.Address.Street, l.Address.City, l.Address.State, l.Address.Country,
			formatInt(l.Score), strings.Join(l.Tags, ","), string(l.Stage),
			l.CreatedAt.UTC().Format(time.RFC3339),
			l.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the same snapshot as a JSON array.
func WriteJSON(w io.Writer, leads []*entity.Lead) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(leads)
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
