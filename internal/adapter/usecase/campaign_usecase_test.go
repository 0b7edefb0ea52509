package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mailtrack/internal/config/configs"
	"mailtrack/internal/core/domain"
	"mailtrack/internal/core/port"
	"mailtrack/internal/core/port/mocks"
)

const testBaseURL = "http://127.0.0.1:8080"

// expectCampaign makes the repository accept the campaign and assign id 1,
// then hands out sequential ids to every stored event.
func expectCampaign(repo *mocks.MockCampaignRepository) {
	repo.EXPECT().
		CreateCampaign(mock.Anything, mock.AnythingOfType("*domain.Campaign")).
		Run(func(_ context.Context, c *domain.Campaign) { c.ID = 1 }).
		Return(nil)

	var next int64
	repo.EXPECT().
		CreateEvent(mock.Anything, mock.AnythingOfType("*domain.Event")).
		Run(func(_ context.Context, ev *domain.Event) {
			next++
			ev.ID = next
		}).
		Return(nil).
		Maybe()
}

// TestCreateCampaignLaunch sends one personalised mail per recipient.
func TestCreateCampaignLaunch(t *testing.T) {
	repo := mocks.NewMockCampaignRepository(t)
	sender := mocks.NewMockMailSender(t)
	expectCampaign(repo)

	var sent []port.Mail
	sender.EXPECT().
		Send(mock.Anything, mock.AnythingOfType("port.Mail")).
		Run(func(_ context.Context, m port.Mail) { sent = append(sent, m) }).
		Return(nil)

	uc := NewCampaignUseCase(repo, sender, CampaignOptions{BaseURL: testBaseURL + "/"})
	resp, err := uc.CreateCampaign(context.Background(), port.CreateCampaignReq{
		Name:       "Launch",
		Subject:    "Hi",
		Body:       `<a href="{{TRACK}}">Open</a>`,
		Recipients: "a@x.io, b@x.io",
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	require.Len(t, sent, 2)

	assert.Equal(t, int64(1), resp.Campaign.ID)
	assert.Equal(t, 2, resp.Count(port.SendStatusSent))

	seen := map[string]bool{}
	for i, m := range sent {
		res := resp.Results[i]
		assert.Equal(t, res.Email, m.To)
		assert.Equal(t, "Hi", m.Subject)
		assert.NotEmpty(t, res.Token)
		assert.False(t, seen[res.Token], "token reused")
		seen[res.Token] = true

		want := `<a href="` + testBaseURL + "/track/" + res.Token + `">Open</a>`
		assert.Equal(t, want, m.HTML)
		assert.NotContains(t, m.HTML, domain.TrackPlaceholder)
	}
	assert.Equal(t, "a@x.io", sent[0].To)
	assert.Equal(t, "b@x.io", sent[1].To)
}

// TestCreateCampaignSendFailure keeps going after a failed send and records
// the failure on the event.
func TestCreateCampaignSendFailure(t *testing.T) {
	repo := mocks.NewMockCampaignRepository(t)
	sender := mocks.NewMockMailSender(t)
	expectCampaign(repo)

	sender.EXPECT().
		Send(mock.Anything, mock.MatchedBy(func(m port.Mail) bool { return m.To == "a@x.io" })).
		Return(errors.New("mailbox unavailable")).
		Once()
	sender.EXPECT().
		Send(mock.Anything, mock.MatchedBy(func(m port.Mail) bool { return m.To == "b@x.io" })).
		Return(nil).
		Once()
	repo.EXPECT().
		SetSendError(mock.Anything, int64(1), "mailbox unavailable").
		Return(nil).
		Once()

	uc := NewCampaignUseCase(repo, sender, CampaignOptions{BaseURL: testBaseURL})
	resp, err := uc.CreateCampaign(context.Background(), port.CreateCampaignReq{
		Name: "n", Subject: "s", Body: "b", Recipients: "a@x.io\nb@x.io",
	})
	require.NoError(t, err)
	assert.Equal(t, port.SendStatusFailed, resp.Results[0].Status)
	assert.Equal(t, "mailbox unavailable", resp.Results[0].Reason)
	assert.Equal(t, port.SendStatusSent, resp.Results[1].Status)
}

func TestCreateCampaignEventStoreFailure(t *testing.T) {
	repo := mocks.NewMockCampaignRepository(t)
	sender := mocks.NewMockMailSender(t)

	repo.EXPECT().CreateCampaign(mock.Anything, mock.Anything).Return(nil)
	repo.EXPECT().
		CreateEvent(mock.Anything, mock.AnythingOfType("*domain.Event")).
		Return(errors.New("conn reset"))

	uc := NewCampaignUseCase(repo, sender, CampaignOptions{BaseURL: testBaseURL})
	resp, err := uc.CreateCampaign(context.Background(), port.CreateCampaignReq{
		Name: "n", Subject: "s", Body: "b", Recipients: "a@x.io",
	})
	require.NoError(t, err)
	assert.Equal(t, port.SendStatusFailed, resp.Results[0].Status)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

// TestCreateCampaignValidation rejects incomplete forms without touching
// the store or the mailer.
func TestCreateCampaignValidation(t *testing.T) {
	cases := []struct {
		name   string
		policy string
		req    port.CreateCampaignReq
		fields []string
	}{
		{
			name:   "empty form",
			req:    port.CreateCampaignReq{Recipients: " , ;\n"},
			fields: []string{"name", "subject", "body", "recipients"},
		},
		{
			name:   "blank subject",
			req:    port.CreateCampaignReq{Name: "n", Subject: "   ", Body: "b", Recipients: "a@x.io"},
			fields: []string{"subject"},
		},
		{
			name:   "reject policy",
			policy: configs.RecipientPolicyReject,
			req:    port.CreateCampaignReq{Name: "n", Subject: "s", Body: "b", Recipients: "a@x.io, nope"},
			fields: []string{"recipients"},
		},
		{
			name:   "drop policy leaves nothing",
			policy: configs.RecipientPolicyDrop,
			req:    port.CreateCampaignReq{Name: "n", Subject: "s", Body: "b", Recipients: "nope"},
			fields: []string{"recipients"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := mocks.NewMockCampaignRepository(t)
			sender := mocks.NewMockMailSender(t)
			uc := NewCampaignUseCase(repo, sender, CampaignOptions{BaseURL: testBaseURL, RecipientPolicy: tc.policy})

			resp, err := uc.CreateCampaign(context.Background(), tc.req)
			require.Nil(t, resp)

			var verr *port.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Len(t, verr.Fields, len(tc.fields))
			for _, f := range tc.fields {
				assert.Contains(t, verr.Fields, f)
			}
		})
	}
}

func TestCreateCampaignDropPolicy(t *testing.T) {
	repo := mocks.NewMockCampaignRepository(t)
	sender := mocks.NewMockMailSender(t)
	expectCampaign(repo)
	sender.EXPECT().Send(mock.Anything, mock.AnythingOfType("port.Mail")).Return(nil).Once()

	uc := NewCampaignUseCase(repo, sender, CampaignOptions{
		BaseURL:         testBaseURL,
		RecipientPolicy: configs.RecipientPolicyDrop,
	})
	resp, err := uc.CreateCampaign(context.Background(), port.CreateCampaignReq{
		Name: "n", Subject: "s", Body: "b", Recipients: "not-an-address; a@x.io",
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, port.SendStatusSkipped, resp.Results[0].Status)
	assert.Empty(t, resp.Results[0].Token)
	assert.Equal(t, port.SendStatusSent, resp.Results[1].Status)
}

// TestCreateCampaignAcceptPolicy passes malformed addresses to the mailer.
func TestCreateCampaignAcceptPolicy(t *testing.T) {
	repo := mocks.NewMockCampaignRepository(t)
	sender := mocks.NewMockMailSender(t)
	expectCampaign(repo)
	sender.EXPECT().
		Send(mock.Anything, mock.MatchedBy(func(m port.Mail) bool { return m.To == "not-an-address" })).
		Return(nil)

	uc := NewCampaignUseCase(repo, sender, CampaignOptions{BaseURL: testBaseURL})
	resp, err := uc.CreateCampaign(context.Background(), port.CreateCampaignReq{
		Name: "n", Subject: "s", Body: "b", Recipients: "not-an-address",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Count(port.SendStatusSent))
}

func TestCreateCampaignIgnoresCancellation(t *testing.T) {
	repo := mocks.NewMockCampaignRepository(t)
	sender := mocks.NewMockMailSender(t)
	expectCampaign(repo)
	sender.EXPECT().
		Send(mock.Anything, mock.AnythingOfType("port.Mail")).
		RunAndReturn(func(ctx context.Context, _ port.Mail) error { return ctx.Err() }).
		Times(3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	uc := NewCampaignUseCase(repo, sender, CampaignOptions{BaseURL: testBaseURL})
	resp, err := uc.CreateCampaign(ctx, port.CreateCampaignReq{
		Name: "n", Subject: "s", Body: "b", Recipients: "a@x.io,b@x.io,c@x.io",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Count(port.SendStatusSent))
}

// TestRecordOpen only reports the first open as a state change and hides
// unknown tokens.
func TestRecordOpen(t *testing.T) {
	repo := mocks.NewMockCampaignRepository(t)
	uc := NewCampaignUseCase(repo, mocks.NewMockMailSender(t), CampaignOptions{BaseURL: testBaseURL})

	repo.EXPECT().MarkOpened(mock.Anything, "tok").Return(true, nil).Once()
	repo.EXPECT().MarkOpened(mock.Anything, "tok").Return(false, nil).Once()
	repo.EXPECT().MarkOpened(mock.Anything, "nope").Return(false, nil).Once()

	ctx := context.Background()
	require.NoError(t, uc.RecordOpen(ctx, "tok"))
	require.NoError(t, uc.RecordOpen(ctx, "tok"))
	require.NoError(t, uc.RecordOpen(ctx, "nope"))
	require.NoError(t, uc.RecordOpen(ctx, "  "))
}

func TestRecordOpenStoreError(t *testing.T) {
	repo := mocks.NewMockCampaignRepository(t)
	uc := NewCampaignUseCase(repo, mocks.NewMockMailSender(t), CampaignOptions{BaseURL: testBaseURL})

	repo.EXPECT().MarkOpened(mock.Anything, "tok").Return(false, errors.New("down"))
	err := uc.RecordOpen(context.Background(), "tok")
	if err == nil || !strings.Contains(err.Error(), "down") {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestGetCampaignStats(t *testing.T) {
	repo := mocks.NewMockCampaignRepository(t)
	uc := NewCampaignUseCase(repo, mocks.NewMockMailSender(t), CampaignOptions{BaseURL: testBaseURL})

	repo.EXPECT().ListEvents(mock.Anything, int64(7)).Return([]domain.Event{
		{ID: 1, CampaignID: 7, Email: "a@x.io", Token: "t1", Opened: true},
		{ID: 2, CampaignID: 7, Email: "b@x.io", Token: "t2", SendError: "refused"},
	}, nil)
	repo.EXPECT().ListEvents(mock.Anything, int64(99)).Return(nil, nil)

	stats, err := uc.GetCampaignStats(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, []port.RecipientStat{
		{Email: "a@x.io", Opened: true},
		{Email: "b@x.io", SendError: "refused"},
	}, stats)

	stats, err = uc.GetCampaignStats(context.Background(), 99)
	require.NoError(t, err)
	assert.Empty(t, stats)
}

func TestGetCampaignMissing(t *testing.T) {
	repo := mocks.NewMockCampaignRepository(t)
	uc := NewCampaignUseCase(repo, mocks.NewMockMailSender(t), CampaignOptions{})

	repo.EXPECT().GetCampaign(mock.Anything, int64(5)).Return(nil, nil)
	c, err := uc.GetCampaign(context.Background(), 5)
	require.NoError(t, err)
	assert.Nil(t, c)
}
