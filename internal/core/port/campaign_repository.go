package port

import (
	"context"

	"mailtrack/internal/core/domain"
)

// CampaignRepository defines the persistence layer for campaigns and their
// events. It is an outbound port in hexagonal architecture.
type CampaignRepository interface {
	// CreateCampaign stores a campaign and fills its ID and CreatedAt.
	CreateCampaign(ctx context.Context, c *domain.Campaign) error
	// GetCampaign returns a campaign by id, or nil when it does not exist.
	GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error)
	// ListCampaigns returns all campaigns, most recent first.
	ListCampaigns(ctx context.Context) ([]domain.Campaign, error)

	// CreateEvent stores a per-recipient event and fills its ID and
	// CreatedAt. The token must be unique.
	CreateEvent(ctx context.Context, ev *domain.Event) error
	// SetSendError records the reason the mail for an event could not be
	// sent.
	SetSendError(ctx context.Context, eventID int64, reason string) error
	// MarkOpened flips the opened flag of the event with the given token.
	// It reports whether a row changed state; unknown tokens and events
	// that are already opened return false without error.
	MarkOpened(ctx context.Context, token string) (bool, error)
	// ListEvents returns the events of a campaign in insertion order.
	ListEvents(ctx context.Context, campaignID int64) ([]domain.Event, error)
}

// AdminRepository stores admin accounts.
type AdminRepository interface {
	// CountAdmins returns the number of admin accounts.
	CountAdmins(ctx context.Context) (int64, error)
	// GetAdminByUsername returns nil when no such admin exists.
	GetAdminByUsername(ctx context.Context, username string) (*domain.Admin, error)
	// CreateAdmin stores a new admin. ErrAdminExists is returned when the
	// username is taken.
	CreateAdmin(ctx context.Context, a *domain.Admin) error
}
