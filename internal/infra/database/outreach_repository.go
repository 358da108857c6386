package database

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/bilalmirb277-web/aiagentforleadgeneration/internal/entity"
)

type OutreachRepository struct {
	DB *sql.DB
}

func NewOutreachRepository(db *sql.DB) *OutreachRepository {
	return &OutreachRepository{DB: db}
}

func (r *OutreachRepository) Insert(ctx context.Context, msg *entity.OutreachMessage) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO outreach (id, lead_id, subject, body, status, sent_at, provider_message_id, created_at)
		VALUES ($1, $2, $3, $4, $5, NULL, '', NOW())`,
		msg.ID, msg.LeadID, msg.Subject, msg.Body, string(msg.Status),
	)
	return err
}

func (r *OutreachRepository) UpdateStatus(ctx context.Context, id string, status entity.MessageStatus, sentAt *time.Time, providerID string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE outreach SET status = $1, sent_at = $2, provider_message_id = $3 WHERE id = $4`,
		string(status), sentAt, providerID, id,
	)
	if err != nil {
		return err
	}
	return mustAffect(res, "message", id)
}

// ListByStatus returns a snapshot in draft order.
func (r *OutreachRepository) ListByStatus(ctx context.Context, status entity.MessageStatus) ([]*entity.OutreachMessage, error) {
	query, args, err := psql.Select(
		"id", "lead_id", "subject", "body", "status", "sent_at", "provider_message_id", "created_at",
	).
		From("outreach").
		Where(sq.Eq{"status": string(status)}).
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

	var msgs []*entity.OutreachMessage
	for rows.Next() {
		var (
			m      entity.OutreachMessage
			sentAt sql.NullTime
		)
		if err := rows.Scan(&m.ID, &m.LeadID, &m.Subject, &m.Body, &m.Status, &sentAt, &m.ProviderMessageID, &m.CreatedAt); err != nil {
			return nil, err
		}
		if sentAt.Valid {
			m.SentAt = &sentAt.Time
		}
		msgs = append(msgs, &m)
	}
	return msgs, rows.Err()
}

func (r *OutreachRepository) HasOpenMessage(ctx context.Context, leadID string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM outreach
			WHERE lead_id = $1 AND status IN ('DRAFT', 'SENDING')
		)`, leadID,
	).Scan(&exists)
	return exists, err
}
