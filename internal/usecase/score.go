package usecase

import (
	"regexp"
	"strings"

	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/config"
	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/entity"
)

var (
	emailRe  = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phoneRe  = regexp.MustCompile(`\+?\d[\d\s-]{6,}\d`)
	handleRe = regexp.MustCompile(`^@?[A-Za-z0-9_.]{2,30}$`)
)

// UsableEmail reports whether the lead has an email address the dispatcher
// can actually deliver to.
func UsableEmail(l *entity.Lead) bool {
	return l.Email != "" && emailRe.MatchString(l.Email)
}

// Score maps a lead and a scoring config to a numeric score plus the list
// of bonuses that fired. Pure and deterministic: same inputs always produce
// the same result, no I/O, no state.
func Score(lead *entity.Lead, cfg config.Scoring) (int, []string) {
	score := 0
	var tags []string

	score += weight(cfg.NicheWeights, lead.Niche)
	score += weight(cfg.PlatformWeights, lead.Platform)

	// Exactly one contact-format bonus applies, selected by platform.
	if contactMatchesPlatform(lead) {
		score += cfg.ContactBonuses[lead.Platform]
		tags = append(tags, contactTag(lead.Platform))
	}

	// Rating and review thresholds count independently, and only when the
	// field is present. Missing data earns nothing.
	if lead.Rating != nil && *lead.Rating >= cfg.MinRating {
		score += cfg.RatingBonus
		tags = append(tags, "min_rating")
	}
	if lead.ReviewCount != nil && *lead.ReviewCount >= cfg.MinReviews {
		score += cfg.ReviewBonus
		tags = append(tags, "min_reviews")
	}

	if lead.Website != "" {
		score += cfg.WebsiteBonus
		tags = append(tags, "has_website")
	}
	if lead.Email != "" {
		score += cfg.EmailBonus
		tags = append(tags, "has_email")
	}

	for _, niche := range cfg.VisualNiches {
		if strings.EqualFold(niche, lead.Niche) {
			score += cfg.VisualNicheBonus
			tags = append(tags, "visual_niche")
			break
		}
	}

	return score, tags
}

func weight(table map[string]int, key string) int {
	if w, ok := table[strings.ToLower(key)]; ok {
		return w
	}
	return 1
}

func contactMatchesPlatform(l *entity.Lead) bool {
	switch l.Platform {
	case "email":
		return emailRe.MatchString(l.Contact)
	case "whatsapp":
		return phoneRe.MatchString(l.Contact)
	case "instagram":
		return handleRe.MatchString(l.Contact)
	case "linkedin":
		return strings.Contains(strings.ToLower(l.Contact), "linkedin.com")
	}
	return false
}

func contactTag(platform string) string {
	switch platform {
	case "email":
		return "valid_email"
	case "whatsapp":
		return "valid_phone"
	case "instagram":
		return "handle_ok"
	case "linkedin":
		return "linkedin_url"
	}
	return "contact_ok"
}
