package usecase

import (
	"strconv"
	"strings"

	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/entity"
)

// Keys the normalizer understands. Lookup is case-insensitive; anything
// else lands in Extras.
var knownKeys = map[string]bool{
	"name": true, "niche": true, "category": true, "contact": true,
	"platform": true, "email": true, "phone": true, "website": true,
	"rating": true, "review_count": true, "reviews": true,
	"address": true, "city": true, "state": true, "country": true,
}

// NormalizeBatch validates raw records and produces well-formed leads with
// fresh ids. Within the batch, later duplicates of the same natural
// identity (name, contact, platform, all lower-cased) are dropped; the
// first occurrence wins and input order is preserved. Pure: nothing is
// persisted here.
func NormalizeBatch(source string, records []RawRecord) ([]*entity.Lead, []ValidationError) {
	leads := make([]*entity.Lead, 0, len(records))
	var rejected []ValidationError
	seen := make(map[string]bool, len(records))

	for _, rec := range records {
		lead, err := normalizeRecord(source, rec)
		if err != nil {
			rejected = append(rejected, *err)
			continue
		}

		key := identityKey(lead)
		if seen[key] {
			continue
		}
		seen[key] = true
		leads = append(leads, lead)
	}

	return leads, rejected
}

func normalizeRecord(source string, rec RawRecord) (*entity.Lead, *ValidationError) {
	name := strings.TrimSpace(field(rec, "name"))
	contact := strings.TrimSpace(field(rec, "contact"))
	platform := strings.ToLower(strings.TrimSpace(field(rec, "platform")))

	niche := field(rec, "niche")
	if niche == "" {
		niche = field(rec, "category")
	}
	niche = strings.ToLower(strings.TrimSpace(niche))

	if name == "" {
		return nil, &ValidationError{Field: "name", Message: "is required"}
	}
	if contact == "" {
		return nil, &ValidationError{Field: "contact", Message: "is required"}
	}
	if platform == "" {
		return nil, &ValidationError{Field: "platform", Message: "is required"}
	}

	lead, err := entity.NewLead(source, name, niche, contact, platform)
	if err != nil {
		return nil, &ValidationError{Field: "record", Message: err.Error()}
	}

	lead.Email = strings.TrimSpace(field(rec, "email"))
	lead.Phone = strings.TrimSpace(field(rec, "phone"))
	lead.Website = strings.TrimSpace(field(rec, "website"))
	lead.Address = entity.Address{
		Street:  strings.TrimSpace(field(rec, "address")),
		City:    strings.TrimSpace(field(rec, "city")),
		State:   strings.TrimSpace(field(rec, "state")),
		Country: strings.TrimSpace(field(rec, "country")),
	}

	// The contact doubles as the typed contact field for its platform.
	switch platform {
	case "email":
		if lead.Email == "" {
			lead.Email = contact
		}
	case "whatsapp":
		if lead.Phone == "" {
			lead.Phone = contact
		}
	}

	if v := field(rec, "rating"); v != "" {
		if rating, err := strconv.ParseFloat(v, 64); err == nil {
			lead.Rating = &rating
		}
	}
	reviews := field(rec, "review_count")
	if reviews == "" {
		reviews = field(rec, "reviews")
	}
	if reviews != "" {
		if n, err := strconv.Atoi(reviews); err == nil && n >= 0 {
			lead.ReviewCount = &n
		}
	}

	for k, v := range rec {
		if !knownKeys[strings.ToLower(k)] {
			if lead.Extras == nil {
				lead.Extras = make(map[string]any)
			}
			lead.Extras[strings.ToLower(k)] = v
		}
	}

	return lead, nil
}

// field does a case-insensitive key lookup, exact match first.
func field(rec RawRecord, key string) string {
	if v, ok := rec[key]; ok {
		return v
	}
	for k, v := range rec {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

func identityKey(l *entity.Lead) string {
	return strings.ToLower(l.Name) + "|" + strings.ToLower(l.Contact) + "|" + strings.ToLower(l.Platform)
}
