// Package metrics exposes campaign counters to Prometheus. A nil *Metrics
// is valid and records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mailtrack"

// Metrics groups the application counters.
type Metrics struct {
	campaignsCreated prometheus.Counter
	mails            *prometheus.CounterVec
	trackingHits     prometheus.Counter
	opens            prometheus.Counter
	logins           *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New registers the counters on reg. Pass prometheus.NewRegistry() in
// tests to keep them isolated.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		campaignsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "campaigns_created_total",
			Help:      "Campaigns created.",
		}),
		mails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mails_total",
			Help:      "Campaign mails by outcome (sent, failed, skipped).",
		}, []string{"result"}),
		trackingHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tracking_hits_total",
			Help:      "Requests to the tracking endpoint, including unknown tokens and repeats.",
		}),
		opens: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "opens_total",
			Help:      "Events that changed from unopened to opened.",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Admin login attempts by result.",
		}, []string{"result"}),
		gatherer: reg,
	}
	reg.MustRegister(m.campaignsCreated, m.mails, m.trackingHits, m.opens, m.logins)
	return m
}

// CampaignCreated counts one stored campaign.
func (m *Metrics) CampaignCreated() {
	if m != nil {
		m.campaignsCreated.Inc()
	}
}

// Mail counts one recipient outcome.
func (m *Metrics) Mail(result string) {
	if m != nil {
		m.mails.WithLabelValues(result).Inc()
	}
}

// TrackingHit counts a tracking request; firstOpen is true when it flipped
// the event to opened.
func (m *Metrics) TrackingHit(firstOpen bool) {
	if m == nil {
		return
	}
	m.trackingHits.Inc()
	if firstOpen {
		m.opens.Inc()
	}
}

// Login counts one login attempt by result.
func (m *Metrics) Login(ok bool) {
	if m == nil {
		return
	}
	result := "failure"
	if ok {
		result = "success"
	}
	m.logins.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
