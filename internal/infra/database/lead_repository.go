package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/entity"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

// Upsert inserts the lead or merges its mutable fields into the row that
// already owns the natural identity (lower-cased name, contact, platform).
// The stored id, stage, score and timestamps are written back into lead.
// Atomic per key: the conflict resolution happens inside one statement.
func (r *LeadRepository) Upsert(ctx context.Context, lead *entity.Lead) (bool, error) {
	extras, err := json.Marshal(lead.Extras)
	if err != nil {
		return false, err
	}

	query := `
		INSERT INTO leads (id, source, name, niche, contact, platform,
			rating, review_count, email, phone, website,
			address, city, state, country, extras, stage, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, 'NEW', NOW(), NOW())
		ON CONFLICT (lower(name), lower(contact), lower(platform))
		DO UPDATE SET
			source       = EXCLUDED.source,
			niche        = EXCLUDED.niche,
			rating       = COALESCE(EXCLUDED.rating, leads.rating),
			review_count = COALESCE(EXCLUDED.review_count, leads.review_count),
			email        = COALESCE(NULLIF(EXCLUDED.email, ''), leads.email),
			phone        = COALESCE(NULLIF(EXCLUDED.phone, ''), leads.phone),
			website      = COALESCE(NULLIF(EXCLUDED.website, ''), leads.website),
			address      = COALESCE(NULLIF(EXCLUDED.address, ''), leads.address),
			city         = COALESCE(NULLIF(EXCLUDED.city, ''), leads.city),
			state        = COALESCE(NULLIF(EXCLUDED.state, ''), leads.state),
			country      = COALESCE(NULLIF(EXCLUDED.country, ''), leads.country),
			extras       = COALESCE(NULLIF(EXCLUDED.extras, 'null'::jsonb), leads.extras),
			updated_at   = NOW()
		RETURNING id, stage, score, created_at, updated_at, (xmax = 0) AS inserted
	`

	var (
		score    sql.NullInt64
		inserted bool
	)
	err = r.DB.QueryRowContext(ctx, query,
		lead.ID,
		lead.Source,
		lead.Name,
		lead.Niche,
		lead.Contact,
		lead.Platform,
		lead.Rating,
		lead.ReviewCount,
		lead.Email,
		lead.Phone,
		lead.Website,
		lead.Address.Street,
		lead.Address.City,
		lead.Address.State,
		lead.Address.Country,
		extras,
	).Scan(&lead.ID, &lead.Stage, &score, &lead.CreatedAt, &lead.UpdatedAt, &inserted)
	if err != nil {
		return false, err
	}

	if score.Valid {
		v := int(score.Int64)
		lead.Score = &v
	}

	return inserted, nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	query, args, err := leadSelect().Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	lead, err := scanLead(r.DB.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, &entity.NotFoundError{Resource: "lead", ID: id}
	}
	return lead, err
}

func (r *LeadRepository) SetStage(ctx context.Context, id string, stage entity.Stage) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE leads SET stage = $1, updated_at = NOW() WHERE id = $2`,
		string(stage), id,
	)
	if err != nil {
		return err
	}
	return mustAffect(res, "lead", id)
}

func (r *LeadRepository) ApplyQualification(ctx context.Context, id string, score int, tags []string, stage entity.Stage) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE leads SET score = $1, tags = $2, stage = $3, updated_at = NOW() WHERE id = $4`,
		score, strings.Join(tags, ","), string(stage), id,
	)
	if err != nil {
		return err
	}
	return mustAffect(res, "lead", id)
}

// ListByStage returns a snapshot ordered by insertion. Writers are not
// blocked; rows committed after the snapshot are simply missed.
func (r *LeadRepository) ListByStage(ctx context.Context, stage entity.Stage) ([]*entity.Lead, error) {
	query, args, err := leadSelect().
		Where(sq.Eq{"stage": string(stage)}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []*entity.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			log.Printf("leads: scan: %v", err)
			continue
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func leadSelect() sq.SelectBuilder {
	return psql.Select(
		"id", "source", "name", "niche", "contact", "platform",
		"rating", "review_count", "email", "phone", "website",
		"address", "city", "state", "country",
		"extras", "score", "tags", "stage", "created_at", "updated_at",
	).From("leads")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var (
		l       entity.Lead
		rating  sql.NullFloat64
		reviews sql.NullInt64
		extras  []byte
		score   sql.NullInt64
		tags    sql.NullString
	)

	err := row.Scan(
		&l.ID, &l.Source, &l.Name, &l.Niche, &l.Contact, &l.Platform,
		&rating, &reviews, &l.Email, &l.Phone, &l.Website,
		&l.Address.Street, &l.Address.City, &l.Address.State, &l.Address.Country,
		&extras, &score, &tags, &l.Stage, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if rating.Valid {
		l.Rating = &rating.Float64
	}
	if reviews.Valid {
		v := int(reviews.Int64)
		l.ReviewCount = &v
	}
	if len(extras) > 0 {
		if err := json.Unmarshal(extras, &l.Extras); err != nil {
			log.Printf("leads: extras for %s: %v", l.ID, err)
		}
	}
	if score.Valid {
		v := int(score.Int64)
		l.Score = &v
	}
	if tags.Valid && tags.String != "" {
		l.Tags = strings.Split(tags.String, ",")
	}

	return &l, nil
}

func mustAffect(res sql.Result, resource, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &entity.NotFoundError{Resource: resource, ID: id}
	}
	return nil
}
