package domain

import "time"

// TrackPlaceholder is replaced in a campaign body with the recipient's
// tracking URL.
const TrackPlaceholder = "{{TRACK}}"

// Campaign represents a named batch of identical email content sent to a
// recipient list. Campaigns are immutable once created.
type Campaign struct {
	ID        int64
	Name      string
	Subject   string
	Body      string // HTML template, may contain TrackPlaceholder
	CreatedAt time.Time
}
