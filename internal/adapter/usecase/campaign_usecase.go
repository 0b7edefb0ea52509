package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"mailtrack/internal/config/configs"
	"mailtrack/internal/core/domain"
	"mailtrack/internal/core/port"
	"mailtrack/internal/metrics"
)

// CampaignOptions configures a CampaignUseCase.
type CampaignOptions struct {
	// BaseURL is the public origin tracking links point to, without a
	// trailing slash.
	BaseURL string
	// RecipientPolicy is one of the configs.RecipientPolicy* values.
	// Empty means accept.
	RecipientPolicy string
	Logger          *slog.Logger
	Metrics         *metrics.Metrics
}

// CampaignUseCase provides business logic for campaign creation, the mail
// fan-out and open tracking. It implements port.CampaignUseCase.
type CampaignUseCase struct {
	repo   port.CampaignRepository
	sender port.MailSender

	baseURL string
	policy  string
	logger  *slog.Logger
	metrics *metrics.Metrics

	// newToken generates tracking tokens. uuid v4 carries 122 random bits,
	// so collisions are not a practical concern; the unique index on
	// events.token backs this up.
	newToken func() string
}

// NewCampaignUseCase creates a new usecase with the provided repository
// and mail sender.
func NewCampaignUseCase(repo port.CampaignRepository, sender port.MailSender, opts CampaignOptions) *CampaignUseCase {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	policy := opts.RecipientPolicy
	if policy == "" {
		policy = configs.RecipientPolicyAccept
	}
	return &CampaignUseCase{
		repo:     repo,
		sender:   sender,
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		policy:   policy,
		logger:   logger,
		metrics:  opts.Metrics,
		newToken: uuid.NewString,
	}
}

// CreateCampaign stores the campaign and sends one tracked mail per
// recipient, in list order. A failed send is logged and recorded on the
// event but never stops the loop, and the event is kept.
func (u *CampaignUseCase) CreateCampaign(ctx context.Context, req port.CreateCampaignReq) (*port.CreateCampaignResp, error) {
	c, recipients, err := u.validate(req)
	if err != nil {
		return nil, err
	}

	// Once the campaign row exists every recipient must be attempted, even
	// if the operator's browser goes away mid-request.
	ctx = context.WithoutCancel(ctx)

	if err = u.repo.CreateCampaign(ctx, &c); err != nil {
		return nil, fmt.Errorf("create campaign: %w", err)
	}
	u.metrics.CampaignCreated()
	log := u.logger.With(slog.Int64("campaign_id", c.ID))

	resp := &port.CreateCampaignResp{
		Campaign: c,
		Results:  make([]port.RecipientResult, 0, len(recipients)),
	}
	for _, r := range recipients {
		var res port.RecipientResult
		if r.invalid {
			res = port.RecipientResult{Email: r.email, Status: port.SendStatusSkipped, Reason: "invalid address"}
		} else {
			res = u.deliver(ctx, log, c, r.email)
		}
		u.metrics.Mail(string(res.Status))
		resp.Results = append(resp.Results, res)
	}

	log.Info("campaign created",
		slog.Int("sent", resp.Count(port.SendStatusSent)),
		slog.Int("failed", resp.Count(port.SendStatusFailed)),
		slog.Int("skipped", resp.Count(port.SendStatusSkipped)),
	)
	return resp, nil
}

// deliver stores the recipient's event and sends the personalised mail.
func (u *CampaignUseCase) deliver(ctx context.Context, log *slog.Logger, c domain.Campaign, email string) port.RecipientResult {
	ev := &domain.Event{CampaignID: c.ID, Email: email, Token: u.newToken()}
	if err := u.repo.CreateEvent(ctx, ev); err != nil {
		log.Error("store event", slog.String("to", email), slog.Any("error", err))
		return port.RecipientResult{Email: email, Status: port.SendStatusFailed, Reason: "could not store tracking event"}
	}

	m := port.Mail{
		To:      email,
		Subject: c.Subject,
		HTML:    RenderBody(c.Body, TrackingURL(u.baseURL, ev.Token)),
	}
	if err := u.sender.Send(ctx, m); err != nil {
		log.Warn("send mail", slog.String("to", email), slog.Any("error", err))
		if serr := u.repo.SetSendError(ctx, ev.ID, err.Error()); serr != nil {
			log.Error("record send error", slog.Int64("event_id", ev.ID), slog.Any("error", serr))
		}
		return port.RecipientResult{Email: email, Token: ev.Token, Status: port.SendStatusFailed, Reason: err.Error()}
	}
	return port.RecipientResult{Email: email, Token: ev.Token, Status: port.SendStatusSent}
}

type recipient struct {
	email   string
	invalid bool
}

// validate trims the request fields and parses the recipient list
// according to the configured policy.
func (u *CampaignUseCase) validate(req port.CreateCampaignReq) (domain.Campaign, []recipient, error) {
	c := domain.Campaign{
		Name:    strings.TrimSpace(req.Name),
		Subject: strings.TrimSpace(req.Subject),
		Body:    strings.TrimSpace(req.Body),
	}
	fields := make(map[string]string)
	if c.Name == "" {
		fields["name"] = "name is required"
	}
	if c.Subject == "" {
		fields["subject"] = "subject is required"
	}
	if c.Body == "" {
		fields["body"] = "body is required"
	}

	var (
		recipients  []recipient
		bad         []string
		deliverable int
	)
	for _, email := range ParseRecipients(req.Recipients) {
		r := recipient{email: email}
		if u.policy != configs.RecipientPolicyAccept {
			if _, err := mail.ParseAddress(email); err != nil {
				r.invalid = true
				bad = append(bad, email)
			}
		}
		if !r.invalid {
			deliverable++
		}
		recipients = append(recipients, r)
	}
	switch {
	case u.policy == configs.RecipientPolicyReject && len(bad) > 0:
		fields["recipients"] = "invalid addresses: " + strings.Join(bad, ", ")
	case deliverable == 0:
		fields["recipients"] = "at least one recipient is required"
	}

	if len(fields) > 0 {
		return c, nil, &port.ValidationError{Fields: fields}
	}
	return c, recipients, nil
}

// ListCampaigns returns all campaigns, most recent first.
func (u *CampaignUseCase) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	list, err := u.repo.ListCampaigns(ctx)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	return list, nil
}

// GetCampaign returns the campaign or nil when it does not exist.
func (u *CampaignUseCase) GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error) {
	c, err := u.repo.GetCampaign(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get campaign %d: %w", id, err)
	}
	return c, nil
}

// GetCampaignStats returns one row per recipient. There is no existence
// check on the campaign; an unknown id simply has no events.
func (u *CampaignUseCase) GetCampaignStats(ctx context.Context, campaignID int64) ([]port.RecipientStat, error) {
	events, err := u.repo.ListEvents(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("list events of campaign %d: %w", campaignID, err)
	}
	stats := make([]port.RecipientStat, 0, len(events))
	for _, ev := range events {
		stats = append(stats, port.RecipientStat{
			Email:     ev.Email,
			Opened:    ev.Opened,
			OpenedAt:  ev.OpenedAt,
			SendError: ev.SendError,
		})
	}
	return stats, nil
}

// RecordOpen marks the event with token as opened. Unknown tokens are
// indistinguishable from known ones to the caller.
func (u *CampaignUseCase) RecordOpen(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		u.metrics.TrackingHit(false)
		return nil
	}
	changed, err := u.repo.MarkOpened(ctx, token)
	if err != nil {
		return fmt.Errorf("mark opened: %w", err)
	}
	u.metrics.TrackingHit(changed)
	if changed {
		u.logger.Debug("event opened")
	}
	return nil
}
