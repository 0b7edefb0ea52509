package httpadapter

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// transparent 1x1 GIF89a
var pixelGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00, 0x80, 0x00, 0x00,
	0x00, 0x00, 0x00, 0xff, 0xff, 0xff, 0x21, 0xf9, 0x04, 0x01, 0x00, 0x00, 0x00,
	0x00, 0x2c, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02,
	0x44, 0x01, 0x00, 0x3b,
}

// recordOpen never fails the request: a recipient sees the same response for
// known, unknown and already opened tokens.
func (h *Handler) recordOpen(r *http.Request) {
	if err := h.campaigns.RecordOpen(r.Context(), chi.URLParam(r, "token")); err != nil {
		h.logger.Error("record open error", slog.Any("error", err))
	}
}

func (h *Handler) handleTrack(w http.ResponseWriter, r *http.Request) {
	h.recordOpen(r)
	w.Header().Set("Cache-Control", "no-store")
	h.render(w, http.StatusOK, "tracked", page{})
}

func (h *Handler) handlePixel(w http.ResponseWriter, r *http.Request) {
	h.recordOpen(r)
	w.Header().Set("Content-Type", "image/gif")
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	w.Header().Set("Pragma", "no-cache")
	_, _ = w.Write(pixelGIF)
}
