package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	logic "github.com/skovsen/D2D_InterceptLogic"
)

// Metrics exports the engagement as Prometheus series. It is a runner
// observer.
type Metrics struct {
	// Detections: targets reported by the sensor
	Detections prometheus.Counter

	// Auctions by mode (single, redundant) and outcome (won, unallocated)
	Auctions *prometheus.CounterVec

	// Committed: interceptors assigned by auctions
	Committed prometheus.Counter

	// WinningBid: score of every committed bidder
	WinningBid prometheus.Histogram

	// Events by kind (intercept, breach, collision)
	Events *prometheus.CounterVec

	// ActiveTargets: unresolved targets after the last tick
	ActiveTargets prometheus.Gauge

	// SimTime: simulated seconds elapsed
	SimTime prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	// detached registry when none is given
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Metrics{
		Detections: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "interceptsim_detections_total",
			Help: "Targets reported by the sensor node.",
		}),

		Auctions: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "interceptsim_auctions_total",
			Help: "Auctions run, by mode and outcome.",
		}, []string{"mode", "outcome"}),

		Committed: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "interceptsim_interceptors_committed_total",
			Help: "Interceptors assigned to a target.",
		}),

		WinningBid: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "interceptsim_winning_bid_score",
			Help:    "Bid score of committed interceptors.",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
		}),

		Events: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "interceptsim_events_total",
			Help: "Resolved engagement events by kind.",
		}, []string{"kind"}),

		ActiveTargets: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "interceptsim_active_targets",
			Help: "Targets not yet intercepted or breached.",
		}),

		SimTime: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "interceptsim_sim_time_seconds",
			Help: "Simulated time of the running episode.",
		}),
	}
}

func (m *Metrics) OnDetect(*logic.World, *logic.Target) {
	m.Detections.Inc()
}

func (m *Metrics) OnAuction(_ *logic.World, r logic.AuctionResult) {
	outcome := "unallocated"
	if r.Success {
		outcome = "won"
	}
	m.Auctions.WithLabelValues(string(r.Mode), outcome).Inc()

	scores := make(map[string]float64, len(r.AllBids))
	for _, b := range r.AllBids {
		scores[b.AgentID] = b.Score
	}
	for _, id := range r.WinnerIDs() {
		m.Committed.Inc()
		m.WinningBid.Observe(scores[id])
	}
}

func (m *Metrics) OnEvent(_ *logic.World, e logic.Event) {
	m.Events.WithLabelValues(string(e.Kind)).Inc()
}

func (m *Metrics) OnTick(w *logic.World) {
	m.ActiveTargets.Set(float64(len(w.ActiveTargets())))
	m.SimTime.Set(w.Time)
}
