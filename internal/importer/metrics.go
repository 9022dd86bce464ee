package importer

import "github.com/prometheus/client_golang/prometheus"

const (
	reasonEmpty       = "empty"
	reasonNotFound    = "not_found"
	reasonFetchFailed = "fetch_failed"
	reasonCheckFailed = "check_failed"
)

// Metrics counts media resolution outcomes.
type Metrics struct {
	resolved *prometheus.CounterVec
	rejected *prometheus.CounterVec
}

// NewMetrics creates the media counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		resolved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "import_media_resolved_total",
				Help: "Media entries accepted during import, by source.",
			},
			[]string{"source"},
		),
		rejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "import_media_rejected_total",
				Help: "Media entries dropped during import, by reason.",
			},
			[]string{"reason"},
		),
	}
	if err := reg.Register(m.resolved); err != nil {
		return nil, err
	}
	if err := reg.Register(m.rejected); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) incResolved(src MediaSource) {
	if m == nil {
		return
	}
	m.resolved.WithLabelValues(string(src)).Inc()
}

func (m *Metrics) incRejected(reason string) {
	if m == nil {
		return
	}
	m.rejected.WithLabelValues(reason).Inc()
}
