package httpadapter

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"
)

const sessionCookie = "mailtrack_session"

var errBadCookie = errors.New("invalid session cookie")

// sessionCookies signs session tokens so a forged cookie never reaches the
// session store.
type sessionCookies struct {
	secret []byte
	secure bool
	ttl    time.Duration
}

func (c sessionCookies) sign(value []byte) []byte {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write(value)
	return mac.Sum(nil)
}

// set writes base64(token).base64(hmac).
func (c sessionCookies) set(w http.ResponseWriter, token string) {
	encoded := base64.RawURLEncoding.EncodeToString([]byte(token)) +
		"." + base64.RawURLEncoding.EncodeToString(c.sign([]byte(token)))
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(c.ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c sessionCookies) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// token returns the verified session token, or "" when the request carries
// no cookie.
func (c sessionCookies) token(r *http.Request) (string, error) {
	ck, err := r.Cookie(sessionCookie)
	if err != nil || ck.Value == "" {
		return "", nil
	}
	value, sig, ok := strings.Cut(ck.Value, ".")
	if !ok {
		return "", errBadCookie
	}
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return "", errBadCookie
	}
	mac, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return "", errBadCookie
	}
	if !hmac.Equal(mac, c.sign(raw)) {
		return "", errBadCookie
	}
	return string(raw), nil
}
