package httpadapter

import (
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"

	"mailtrack/internal/core/domain"
	"mailtrack/internal/core/port"
)

type dashboardPage struct {
	page
	Campaign domain.Campaign
	Preview  template.HTML
	Stats    []port.RecipientStat
	Opened   int
	Failed   int
}

var previewPolicy = bluemonday.UGCPolicy()

// previewBody sanitizes the stored body for display inside the admin page.
// The body is operator-authored HTML and must not run scripts there.
func previewBody(body string) template.HTML {
	body = strings.ReplaceAll(body, domain.TrackPlaceholder, "#")
	return template.HTML(previewPolicy.Sanitize(body))
}

// handleDashboard renders one campaign with a row per recipient. Unknown
// and malformed ids produce 404.
func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.NotFound(w, r)
		return
	}
	c, err := h.campaigns.GetCampaign(r.Context(), id)
	if err != nil {
		h.logger.Error("get campaign error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if c == nil {
		http.NotFound(w, r)
		return
	}
	stats, err := h.campaigns.GetCampaignStats(r.Context(), id)
	if err != nil {
		h.logger.Error("campaign stats error", slog.Int64("campaign_id", id), slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	p := dashboardPage{
		page:     page{Session: sessionFromContext(r.Context())},
		Campaign: *c,
		Preview:  previewBody(c.Body),
		Stats:    stats,
	}
	for _, s := range stats {
		if s.Opened {
			p.Opened++
		}
		if s.SendError != "" {
			p.Failed++
		}
	}
	h.render(w, http.StatusOK, "dashboard", p)
}
