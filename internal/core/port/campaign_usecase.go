package port

import (
	"context"
	"sort"
	"strings"
	"time"

	"mailtrack/internal/core/domain"
)

// CampaignUseCase defines the business operations for campaigns and open
// tracking. This interface represents the primary port into the
// application domain.
type CampaignUseCase interface {
	// CreateCampaign validates the request, stores the campaign, then for
	// every recipient stores an event with a fresh tracking token and sends
	// the personalised mail. Send failures do not abort the fan-out; they
	// are reported per recipient in the response. A *ValidationError is
	// returned when the request is rejected before anything is persisted.
	CreateCampaign(ctx context.Context, req CreateCampaignReq) (*CreateCampaignResp, error)

	// ListCampaigns returns all campaigns, most recent first.
	ListCampaigns(ctx context.Context) ([]domain.Campaign, error)

	// GetCampaign returns the campaign or nil when it does not exist.
	GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error)

	// GetCampaignStats returns the open status of every recipient of the
	// campaign. An unknown campaign yields an empty slice.
	GetCampaignStats(ctx context.Context, campaignID int64) ([]RecipientStat, error)

	// RecordOpen marks the event identified by token as opened. Unknown
	// tokens are ignored and repeated calls have no further effect.
	RecordOpen(ctx context.Context, token string) error
}

// CreateCampaignReq carries the raw form input for a new campaign.
// Recipients is the unparsed list as typed by the operator.
type CreateCampaignReq struct {
	Name       string
	Subject    string
	Body       string
	Recipients string
}

// SendStatus is the outcome of one recipient's mail.
type SendStatus string

const (
	SendStatusSent    SendStatus = "sent"
	SendStatusFailed  SendStatus = "failed"
	SendStatusSkipped SendStatus = "skipped"
)

// RecipientResult describes what happened to one recipient during the
// campaign fan-out.
type RecipientResult struct {
	Email  string
	Token  string // empty for skipped recipients
	Status SendStatus
	Reason string
}

// CreateCampaignResp is returned once every recipient has been attempted.
type CreateCampaignResp struct {
	Campaign domain.Campaign
	Results  []RecipientResult
}

// Count returns the number of results with the given status.
func (r *CreateCampaignResp) Count(status SendStatus) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == status {
			n++
		}
	}
	return n
}

// RecipientStat is one row of the per-campaign dashboard.
type RecipientStat struct {
	Email     string
	Opened    bool
	OpenedAt  *time.Time
	SendError string
}

// ValidationError reports rejected input, keyed by form field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
