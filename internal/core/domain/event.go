package domain

import (
	"time"
)

// Event is the record of one recipient's delivery and open status within
// a campaign. Token is unique across all events.
type Event struct {
	ID         int64
	CampaignID int64
	Email      string
	Token      string
	Opened     bool
	OpenedAt   *time.Time // first open only
	SendError  string     // empty when the last send attempt succeeded
	CreatedAt  time.Time
}
