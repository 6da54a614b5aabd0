package tilemap

import "github.com/prometheus/client_golang/prometheus"

const metricsNamespace = "tilegrid"

// Metrics counts store mutations per layer. A nil *Metrics records nothing.
type Metrics struct {
	added    *prometheus.CounterVec
	removed  *prometheus.CounterVec
	clears   *prometheus.CounterVec
	occupied *prometheus.GaugeVec
}

// NewMetrics creates the store metrics and registers them with reg when it
// is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		added: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "tiles_added_total",
			Help:      "Tiles placed, split by first placement and overwrite.",
		}, []string{"layer", "kind"}),
		removed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "tiles_removed_total",
			Help:      "Tiles removed through Remove.",
		}, []string{"layer"}),
		clears: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "layer_clears_total",
			Help:      "Bulk clears of a layer.",
		}, []string{"layer"}),
		occupied: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "occupied_cells",
			Help:      "Occupied cells per layer.",
		}, []string{"layer"}),
	}
	if reg != nil {
		reg.MustRegister(m.added, m.removed, m.clears, m.occupied)
	}
	return m
}

func (m *Metrics) observeAdded(layer Layer, overwrite bool) {
	if m == nil {
		return
	}
	kind := "place"
	if overwrite {
		kind = "overwrite"
	}
	m.added.WithLabelValues(layer.Name(), kind).Inc()
}

func (m *Metrics) observeRemoved(layer Layer) {
	if m == nil {
		return
	}
	m.removed.WithLabelValues(layer.Name()).Inc()
}

func (m *Metrics) observeClear(layer Layer) {
	if m == nil {
		return
	}
	m.clears.WithLabelValues(layer.Name()).Inc()
}

func (m *Metrics) setOccupied(layer Layer, n int) {
	if m == nil {
		return
	}
	m.occupied.WithLabelValues(layer.Name()).Set(float64(n))
}
