package httpadapter

import (
	"errors"
	"log/slog"
	"net/http"

	"mailtrack/internal/core/domain"
	"mailtrack/internal/core/port"
)

type indexPage struct {
	page
	Campaigns []domain.Campaign
}

type createPage struct {
	page
	Form        port.CreateCampaignReq
	Errors      map[string]string
	Placeholder string
}

type createdPage struct {
	page
	Result  *port.CreateCampaignResp
	Sent    int
	Failed  int
	Skipped int
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	list, err := h.campaigns.ListCampaigns(r.Context())
	if err != nil {
		h.logger.Error("list campaigns error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.render(w, http.StatusOK, "index", indexPage{
		page:      page{Session: sessionFromContext(r.Context())},
		Campaigns: list,
	})
}

func (h *Handler) handleCreateForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "create", createPage{
		page:        page{Session: sessionFromContext(r.Context())},
		Placeholder: domain.TrackPlaceholder,
	})
}

// handleCreate stores the campaign and sends it to every recipient before
// responding. Invalid input re-renders the form with 422 and the values the
// operator typed.
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	req := port.CreateCampaignReq{
		Name:       r.PostForm.Get("name"),
		Subject:    r.PostForm.Get("subject"),
		Body:       r.PostForm.Get("body"),
		Recipients: r.PostForm.Get("recipients"),
	}
	s := sessionFromContext(r.Context())

	resp, err := h.campaigns.CreateCampaign(r.Context(), req)
	var verr *port.ValidationError
	switch {
	case errors.As(err, &verr):
		h.render(w, http.StatusUnprocessableEntity, "create", createPage{
			page:        page{Session: s},
			Form:        req,
			Errors:      verr.Fields,
			Placeholder: domain.TrackPlaceholder,
		})
		return
	case err != nil:
		h.logger.Error("create campaign error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.logger.Info("campaign launched",
		slog.Int64("campaign_id", resp.Campaign.ID),
		slog.String("by", s.Username),
	)
	h.render(w, http.StatusOK, "created", createdPage{
		page:    page{Session: s},
		Result:  resp,
		Sent:    resp.Count(port.SendStatusSent),
		Failed:  resp.Count(port.SendStatusFailed),
		Skipped: resp.Count(port.SendStatusSkipped),
	})
}
