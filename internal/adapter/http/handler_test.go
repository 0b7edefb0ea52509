package httpadapter

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailtrack/internal/adapter/session"
	"mailtrack/internal/adapter/usecase"
	"mailtrack/internal/core/domain"
	"mailtrack/internal/core/port"
	"mailtrack/internal/security/password"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// memRepo is an in-memory port.CampaignRepository.
type memRepo struct {
	mu        sync.Mutex
	campaigns []domain.Campaign
	events    []domain.Event
}

func (m *memRepo) CreateCampaign(_ context.Context, c *domain.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = int64(len(m.campaigns) + 1)
	c.CreatedAt = time.Now()
	m.campaigns = append(m.campaigns, *c)
	return nil
}

func (m *memRepo) GetCampaign(_ context.Context, id int64) (*domain.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.campaigns {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, nil
}

func (m *memRepo) ListCampaigns(context.Context) ([]domain.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Campaign, 0, len(m.campaigns))
	for i := len(m.campaigns) - 1; i >= 0; i-- {
		out = append(out, m.campaigns[i])
	}
	return out, nil
}

func (m *memRepo) CreateEvent(_ context.Context, ev *domain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ev.ID = int64(len(m.events) + 1)
	m.events = append(m.events, *ev)
	return nil
}

func (m *memRepo) SetSendError(_ context.Context, id int64, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[id-1].SendError = reason
	return nil
}

func (m *memRepo) MarkOpened(_ context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.events {
		if m.events[i].Token == token && !m.events[i].Opened {
			now := time.Now()
			m.events[i].Opened = true
			m.events[i].OpenedAt = &now
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) ListEvents(_ context.Context, campaignID int64) ([]domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Event
	for _, ev := range m.events {
		if ev.CampaignID == campaignID {
			out = append(out, ev)
		}
	}
	return out, nil
}

type memAdmins struct {
	mu     sync.Mutex
	admins []domain.Admin
}

func (m *memAdmins) CountAdmins(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.admins)), nil
}

func (m *memAdmins) GetAdminByUsername(_ context.Context, username string) (*domain.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.admins {
		if a.Username == username {
			return &a, nil
		}
	}
	return nil, nil
}

func (m *memAdmins) CreateAdmin(_ context.Context, a *domain.Admin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.admins {
		if existing.Username == a.Username {
			return port.ErrAdminExists
		}
	}
	a.ID = int64(len(m.admins) + 1)
	m.admins = append(m.admins, *a)
	return nil
}

type outbox struct {
	mu   sync.Mutex
	sent []port.Mail
	fail map[string]error
}

func (o *outbox) Send(_ context.Context, m port.Mail) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.fail[m.To]; err != nil {
		return err
	}
	o.sent = append(o.sent, m)
	return nil
}

type testEnv struct {
	srv       *httptest.Server
	client    *http.Client
	repo      *memRepo
	outbox    *outbox
	campaigns *usecase.CampaignUseCase
}

// newTestEnv serves the full router over in-memory stores. Logger, secret
// and TTL in opts are filled in.
func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()
	repo := &memRepo{}
	box := &outbox{fail: map[string]error{}}
	admins := &memAdmins{}

	campaigns := usecase.NewCampaignUseCase(repo, box, usecase.CampaignOptions{BaseURL: "http://mail.test"})
	auth := usecase.NewAuthUseCase(admins, session.NewMemoryStore(time.Minute), usecase.AuthOptions{
		SessionTTL:     time.Hour,
		PasswordParams: password.Params{Memory: 1024, Time: 1, Parallelism: 1, KeyLen: 32},
	})
	_, err := auth.CreateAdmin(context.Background(), "admin", "s3cret-password")
	require.NoError(t, err)

	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	opts.SessionSecret = testSecret
	opts.SessionTTL = time.Hour
	h, err := NewHandler(campaigns, auth, opts)
	require.NoError(t, err)

	srv := httptest.NewServer(h.Router())
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &testEnv{srv: srv, client: client, repo: repo, outbox: box, campaigns: campaigns}
}

func (e *testEnv) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := e.client.Get(e.srv.URL + path)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func (e *testEnv) post(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := e.client.PostForm(e.srv.URL+path, form)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func (e *testEnv) login(t *testing.T) {
	t.Helper()
	resp, _ := e.post(t, "/login", url.Values{"username": {"admin"}, "password": {"s3cret-password"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

var trackRe = regexp.MustCompile(`http://mail\.test/track/([0-9a-f-]{36})`)

func (e *testEnv) stats(t *testing.T, campaignID int64) []port.RecipientStat {
	t.Helper()
	stats, err := e.campaigns.GetCampaignStats(context.Background(), campaignID)
	require.NoError(t, err)
	for i := range stats {
		stats[i].OpenedAt = nil
	}
	return stats
}

func TestLaunchCampaign(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.login(t)

	resp, body := env.post(t, "/campaign/create", url.Values{
		"name":       {"Launch"},
		"subject":    {"Hi"},
		"body":       {"Click {{TRACK}}"},
		"recipients": {"a@x.com, b@x.com"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "2 sent, 0 failed, 0 skipped")
	assert.Contains(t, body, "a@x.com")
	assert.Contains(t, body, "b@x.com")

	require.Len(t, env.outbox.sent, 2)
	tokens := map[string]bool{}
	for _, m := range env.outbox.sent {
		assert.NotContains(t, m.HTML, domain.TrackPlaceholder)
		match := trackRe.FindStringSubmatch(m.HTML)
		require.Len(t, match, 2, "no tracking url in %q", m.HTML)
		assert.Equal(t, "Click "+match[0], m.HTML)
		tokens[match[1]] = true
	}
	require.Len(t, tokens, 2)
	assert.Equal(t, "a@x.com", env.outbox.sent[0].To)

	assert.Equal(t, []port.RecipientStat{
		{Email: "a@x.com", Opened: false},
		{Email: "b@x.com", Opened: false},
	}, env.stats(t, 1))

	first := trackRe.FindStringSubmatch(env.outbox.sent[0].HTML)[1]
	resp, tracked := env.get(t, "/track/"+first)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, tracked, "Thanks!")

	opened := []port.RecipientStat{
		{Email: "a@x.com", Opened: true},
		{Email: "b@x.com", Opened: false},
	}
	assert.Equal(t, opened, env.stats(t, 1))
	_, dash := env.get(t, "/campaign/1")
	assert.Contains(t, dash, "1 / 2 opened")

	// a second hit changes nothing
	resp, again := env.get(t, "/track/"+first)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, tracked, again)
	assert.Equal(t, opened, env.stats(t, 1))

	_, index := env.get(t, "/")
	assert.Contains(t, index, `href="/campaign/1"`)
}

func TestUnknownTokenLooksTheSame(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.login(t)

	env.post(t, "/campaign/create", url.Values{
		"name": {"n"}, "subject": {"s"}, "body": {"Click {{TRACK}}"},
		"recipients": {"a@x.com, b@x.com"},
	})
	require.Len(t, env.outbox.sent, 2)
	before := env.stats(t, 1)

	resp, unknown := env.get(t, "/track/00000000-0000-0000-0000-000000000000")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, before, env.stats(t, 1), "unknown token must not touch any event")
	for _, ev := range env.repo.events {
		assert.False(t, ev.Opened, ev.Email)
	}

	valid := trackRe.FindStringSubmatch(env.outbox.sent[1].HTML)[1]
	resp, known := env.get(t, "/track/"+valid)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, known, unknown)
}

func TestTrackHead(t *testing.T) {
	env := newTestEnv(t, Options{})
	for _, path := range []string{"/track/some-token", "/track/some-token/pixel.gif"} {
		resp, err := env.client.Head(env.srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestMetricsRequireLogin(t *testing.T) {
	metricsHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("mailtrack_logins_total 1"))
	})
	env := newTestEnv(t, Options{Metrics: metricsHandler})

	resp, body := env.get(t, "/metrics")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login?next="+url.QueryEscape("/metrics"), resp.Header.Get("Location"))
	assert.NotContains(t, body, "mailtrack_logins_total")

	env.login(t)
	resp, body = env.get(t, "/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "mailtrack_logins_total")
}

func TestPixel(t *testing.T) {
	env := newTestEnv(t, Options{})
	resp, body := env.get(t, "/track/whatever/pixel.gif")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/gif", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Cache-Control"), "no-store")
	assert.True(t, strings.HasPrefix(body, "GIF89a"))
}

func TestAuthGate(t *testing.T) {
	env := newTestEnv(t, Options{})

	resp, _ := env.get(t, "/campaign/create?x=1")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	loc := resp.Header.Get("Location")
	assert.Equal(t, "/login?next="+url.QueryEscape("/campaign/create?x=1"), loc)

	resp, form := env.get(t, loc)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, form, `value="/campaign/create?x=1"`)

	resp, _ = env.post(t, "/login", url.Values{
		"username": {"admin"},
		"password": {"s3cret-password"},
		"next":     {"/campaign/create?x=1"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/campaign/create?x=1", resp.Header.Get("Location"))

	resp, _ = env.get(t, "/campaign/create")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.get(t, "/logout")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	resp, _ = env.get(t, "/")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestLoginRejectsForeignNext(t *testing.T) {
	env := newTestEnv(t, Options{})
	resp, _ := env.post(t, "/login", url.Values{
		"username": {"admin"},
		"password": {"s3cret-password"},
		"next":     {"//evil.example/"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t, Options{})
	for _, user := range []string{"admin", "nobody"} {
		resp, body := env.post(t, "/login", url.Values{"username": {user}, "password": {"nope"}})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Contains(t, body, port.ErrInvalidCredentials.Error())
	}
}

func TestTamperedCookie(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.login(t)

	u, _ := url.Parse(env.srv.URL)
	cookies := env.client.Jar.Cookies(u)
	require.Len(t, cookies, 1)
	token, _, _ := strings.Cut(cookies[0].Value, ".")
	env.client.Jar.SetCookies(u, []*http.Cookie{{Name: sessionCookie, Value: token + ".AAAA", Path: "/"}})

	resp, _ := env.get(t, "/")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestCreateValidation(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.login(t)

	resp, body := env.post(t, "/campaign/create", url.Values{
		"name":       {"Kept name"},
		"subject":    {""},
		"body":       {"b"},
		"recipients": {" , "},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "subject is required")
	assert.Contains(t, body, "at least one recipient is required")
	assert.Contains(t, body, `value="Kept name"`)
	assert.Empty(t, env.repo.campaigns)
	assert.Empty(t, env.outbox.sent)
}

func TestCreateReportsSendFailure(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.outbox.fail["bad@x.io"] = errors.New("550 mailbox unavailable")
	env.login(t)

	resp, body := env.post(t, "/campaign/create", url.Values{
		"name": {"n"}, "subject": {"s"}, "body": {"b"},
		"recipients": {"bad@x.io\ngood@x.io"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "1 sent, 1 failed")
	assert.Contains(t, body, "550 mailbox unavailable")
	assert.Equal(t, "550 mailbox unavailable", env.repo.events[0].SendError)
}

func TestDashboardNotFound(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.login(t)

	resp, _ := env.get(t, "/campaign/42")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = env.get(t, "/campaign/abc")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDashboardSanitizesPreview(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.login(t)

	env.post(t, "/campaign/create", url.Values{
		"name": {"n"}, "subject": {"s"},
		"body":       {`<p>hi</p><script>alert(1)</script><a href="{{TRACK}}">x</a>`},
		"recipients": {"a@x.io"},
	})
	_, dash := env.get(t, "/campaign/1")
	assert.Contains(t, dash, "<p>hi</p>")
	assert.NotContains(t, dash, "<script>alert(1)</script>")
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, Options{})
	resp, body := env.get(t, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body)

	down := newTestEnv(t, Options{Ping: func(context.Context) error { return errors.New("db down") }})
	resp, _ = down.get(t, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestLocalPath(t *testing.T) {
	cases := map[string]string{
		"":                     "/",
		"/campaign/1":          "/campaign/1",
		"/campaign/create?x=1": "/campaign/create?x=1",
		"//evil.example":       "/",
		`/\evil.example`:       "/",
		"https://evil.example": "/",
		"/\t/evil.example/":    "/",
		"/\n/evil.example/":    "/",
		"/\r\n//evil.example/": "/",
		"\t//evil.example/":    "/",
		"javascript:alert(1)":  "/",
		"/ok path":             "/ok%20path",
		"relative/path":        "/",
	}
	for in, want := range cases {
		assert.Equal(t, want, localPath(in), in)
	}
}

func TestLoginRejectsControlCharNext(t *testing.T) {
	env := newTestEnv(t, Options{})
	for _, next := range []string{"/\t/evil.example/", "/\n/evil.example/"} {
		resp, _ := env.post(t, "/login", url.Values{
			"username": {"admin"},
			"password": {"s3cret-password"},
			"next":     {next},
		})
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/", resp.Header.Get("Location"), "%q", next)
	}

	// already signed in: the form redirects straight away
	resp, _ := env.get(t, "/login?next="+url.QueryEscape("/\t/evil.example/"))
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}
