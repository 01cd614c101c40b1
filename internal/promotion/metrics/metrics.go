package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	SubmissionsTotal      prometheus.Counter
	ResolutionsTotal      *prometheus.CounterVec
	DirectPromotionsTotal *prometheus.CounterVec
	PendingRequests       prometheus.Gauge
}

func New() *Metrics {
	return &Metrics{
		SubmissionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rankgate_promotion_submissions_total",
			Help: "Total number of promotion requests accepted into the pending state",
		}),
		ResolutionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rankgate_promotion_resolutions_total",
			Help: "Total number of promotion requests resolved, by terminal status",
		}, []string{"status"}),
		DirectPromotionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rankgate_direct_promotions_total",
			Help: "Total number of direct promotions attempted, by result",
		}, []string{"result"}),
		PendingRequests: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "rankgate_promotion_pending_requests",
			Help: "Current number of promotion requests awaiting a decision",
		}),
	}
}

func (m *Metrics) IncrementSubmissions() {
	m.SubmissionsTotal.Inc()
	m.PendingRequests.Inc()
}

func (m *Metrics) IncrementResolutions(status string) {
	m.ResolutionsTotal.WithLabelValues(status).Inc()
	m.PendingRequests.Dec()
}

func (m *Metrics) IncrementDirectPromotions(succeeded bool) {
	result := "success"
	if !succeeded {
		result = "failure"
	}
	m.DirectPromotionsTotal.WithLabelValues(result).Inc()
}
