package template

import (
	"bytes"
	"fmt"
	"strings"
	texttemplate "text/template"

	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/config"
	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/entity"
)

const emailBody = `Hi {{.FirstName}},

{{.Observation}}. I help {{.Niche}} brands turn raw footage into scroll-stopping Reels/Shorts.

Offer: {{.Offer}}

Idea starters for you:
- 30-sec reel with 3 hooks
- Captions + emoji callouts + auto-subtitles
- 9:16, 1:1, 16:9 variants delivered together

If I cut a 20s sample from your existing footage (free), would you review it?

- {{.Brand}}
`

const whatsappBody = `Hey {{.FirstName}}! {{.Observation}}. I do fast video edits (Reels/TikTok/Shorts). {{.Offer}} Want a free 20s sample? - {{.Brand}}`

const instagramBody = `Love your page, {{.Name}}! I edit high-retention Reels for {{.Niche}} in {{.City}}. {{.Offer}} If I cut a 20s sample from your footage (free), can I DM it here? - {{.Brand}}`

const linkedinBody = `Hi {{.Name}}, I help {{.Niche}} teams in {{.City}} turn raw clips into Reels/Shorts. {{.Offer}} Open to a free 20s sample? - {{.Brand}}`

type templateData struct {
	Name        string
	FirstName   string
	Niche       string
	City        string
	Brand       string
	Offer       string
	Observation string
}

// Renderer builds per-platform outreach copy. It never fails for a
// well-formed lead: missing optional fields fall back to configured text.
type Renderer struct {
	cfg       config.OutreachConfig
	templates map[string]*texttemplate.Template
}

func NewRenderer(cfg config.OutreachConfig) (*Renderer, error) {
	sources := map[string]string{
		"email":     emailBody,
		"whatsapp":  whatsappBody,
		"instagram": instagramBody,
		"linkedin":  linkedinBody,
	}

	templates := make(map[string]*texttemplate.Template, len(sources))
	for platform, src := range sources {
		t, err := texttemplate.New(platform).Parse(src)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", platform, err)
		}
		templates[platform] = t
	}

	return &Renderer{cfg: cfg, templates: templates}, nil
}

func (r *Renderer) Render(lead *entity.Lead) (string, string, error) {
	t, ok := r.templates[lead.Platform]
	if !ok {
		t = r.templates["email"]
	}

	data := templateData{
		Name:        lead.Name,
		FirstName:   firstName(lead.Name, r.cfg.Fallback),
		Niche:       orFallback(lead.Niche, "businesses"),
		City:        r.cfg.City,
		Brand:       r.cfg.Brand,
		Offer:       r.cfg.Offer,
		Observation: r.observation(lead.Niche),
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return "", "", fmt.Errorf("render %s template: %w", lead.Platform, err)
	}

	subject := fmt.Sprintf("Fast video edits for %s", orFallback(lead.Name, "your brand"))
	return subject, body.String(), nil
}

func (r *Renderer) observation(niche string) string {
	if obs, ok := r.cfg.Observations[strings.ToLower(niche)]; ok {
		return obs
	}
	return fmt.Sprintf("Short-form clips with captions and on-screen text are outperforming in %s", r.cfg.City)
}

func firstName(name, fallback string) string {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return fallback
	}
	return parts[0]
}

func orFallback(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
