package usecase

import (
	"html"
	"strings"

	"mailtrack/internal/core/domain"
)

// ParseRecipients splits raw on commas, semicolons and newlines, trims each
// entry and drops empty ones. Order and duplicates are preserved.
func ParseRecipients(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n' || r == '\r'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// TrackingURL returns the link a recipient follows to record an open.
func TrackingURL(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/track/" + token
}

// RenderBody substitutes every tracking placeholder in body with trackURL.
// A body without a placeholder gets an invisible pixel appended instead, so
// every mail carries its recipient's token.
func RenderBody(body, trackURL string) string {
	if strings.Contains(body, domain.TrackPlaceholder) {
		return strings.ReplaceAll(body, domain.TrackPlaceholder, trackURL)
	}
	return body + `<img src="` + html.EscapeString(trackURL+"/pixel.gif") +
		`" width="1" height="1" alt="" style="display:none">`
}
