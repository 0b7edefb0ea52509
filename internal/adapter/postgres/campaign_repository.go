package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mailtrack/internal/core/domain"
)

// CampaignRepository implements port.CampaignRepository using pgxpool for
// PostgreSQL.
type CampaignRepository struct {
	pool *pgxpool.Pool
}

// NewCampaignRepository returns a new repository instance.
func NewCampaignRepository(pool *pgxpool.Pool) *CampaignRepository {
	return &CampaignRepository{pool: pool}
}

// CreateCampaign inserts a campaign and fills its generated fields.
func (r *CampaignRepository) CreateCampaign(ctx context.Context, c *domain.Campaign) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO campaigns (name, subject, body) VALUES ($1, $2, $3) RETURNING id, created_at`,
		c.Name, c.Subject, c.Body,
	).Scan(&c.ID, &c.CreatedAt)
}

// GetCampaign returns a campaign by id.
func (r *CampaignRepository) GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error) {
	var c domain.Campaign
	err := r.pool.QueryRow(ctx, `SELECT id, name, subject, body, created_at FROM campaigns WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Subject, &c.Body, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCampaigns returns every campaign, newest first.
func (r *CampaignRepository) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, subject, body, created_at FROM campaigns ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Campaign, error) {
		var c domain.Campaign
		err := row.Scan(&c.ID, &c.Name, &c.Subject, &c.Body, &c.CreatedAt)
		return c, err
	})
}

// CreateEvent inserts an event. A duplicate token violates events_token_key.
func (r *CampaignRepository) CreateEvent(ctx context.Context, ev *domain.Event) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO events (campaign_id, email, token, opened) VALUES ($1, $2, $3, $4) RETURNING id, created_at`,
		ev.CampaignID, ev.Email, ev.Token, ev.Opened,
	).Scan(&ev.ID, &ev.CreatedAt)
}

// SetSendError stores the last send failure reason of an event.
func (r *CampaignRepository) SetSendError(ctx context.Context, eventID int64, reason string) error {
	_, err := r.pool.Exec(ctx, `UPDATE events SET send_error = $1 WHERE id = $2`, reason, eventID)
	return err
}

// MarkOpened sets opened and opened_at for the event with token. The
// opened = false guard makes repeated hits a no-op, so opened_at keeps the
// time of the first open.
func (r *CampaignRepository) MarkOpened(ctx context.Context, token string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE events SET opened = true, opened_at = now() WHERE token = $1 AND opened = false`, token)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListEvents returns the events of a campaign in insertion order.
func (r *CampaignRepository) ListEvents(ctx context.Context, campaignID int64) ([]domain.Event, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT id, campaign_id, email, token, opened, opened_at, COALESCE(send_error, ''), created_at
        FROM events
        WHERE campaign_id = $1
        ORDER BY id`, campaignID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Event, error) {
		var ev domain.Event
		err := row.Scan(&ev.ID, &ev.CampaignID, &ev.Email, &ev.Token, &ev.Opened, &ev.OpenedAt, &ev.SendError, &ev.CreatedAt)
		return ev, err
	})
}
