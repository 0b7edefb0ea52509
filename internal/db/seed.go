package db

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Seed inserts a demo campaign with a handful of events so the dashboard
// has something to show in development. No mail is sent. It returns the id
// of the created campaign.
func Seed(ctx context.Context, pool *pgxpool.Pool, recipients int) (int64, error) {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var campaignID int64
	err = tx.QueryRow(ctx, `INSERT INTO campaigns (name, subject, body)
VALUES ($1, $2, $3) RETURNING id`,
		fmt.Sprintf("Demo %s", time.Now().Format("2006-01-02 15:04")),
		"Hello from mailtrack",
		`<p>Hi there!</p><p><a href="{{TRACK}}">Read more</a></p>`,
	).Scan(&campaignID)
	if err != nil {
		return 0, err
	}

	for i := 1; i <= recipients; i++ {
		email := fmt.Sprintf("user%d@example.com", i)
		opened := r.Intn(3) == 0
		var openedAt *time.Time
		if opened {
			t := time.Now().Add(-time.Duration(r.Intn(3600)) * time.Second)
			openedAt = &t
		}
		_, err = tx.Exec(ctx, `INSERT INTO events (campaign_id, email, token, opened, opened_at)
VALUES ($1, $2, $3, $4, $5)`,
			campaignID, email, uuid.NewString(), opened, openedAt)
		if err != nil {
			return 0, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, err
	}
	return campaignID, nil
}
