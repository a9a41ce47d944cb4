package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pthm-cable/cellsoup/components"
	"github.com/pthm-cable/cellsoup/game"
	"github.com/pthm-cable/cellsoup/telemetry"
)

// Metrics exposes simulation counters to Prometheus. It implements
// game.Listener so it can be attached to a Game at construction.
// Labels are limited to death causes and rejection reasons.
type Metrics struct {
	registry *prometheus.Registry

	population     prometheus.Gauge
	items          prometheus.Gauge
	tick           prometheus.Gauge
	births         prometheus.Counter
	deaths         *prometheus.CounterVec
	itemsSpawned   prometheus.Counter
	itemsCollected prometheus.Counter
	itemsDecayed   prometheus.Counter
	energyMean     prometheus.Gauge
	generationMean prometheus.Gauge
	wsClients      prometheus.Gauge
	rejected       *prometheus.CounterVec
}

var _ game.Listener = (*Metrics)(nil)

// NewMetrics creates metrics on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		population: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cellsoup_population",
			Help: "Live agents",
		}),
		items: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cellsoup_items",
			Help: "Energy items in the world",
		}),
		tick: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cellsoup_tick",
			Help: "Last observed simulation tick",
		}),
		births: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cellsoup_agents_spawned_total",
			Help: "Agents registered, founders included",
		}),
		deaths: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cellsoup_deaths_total",
			Help: "Agent deaths by cause",
		}, []string{"cause"}),
		itemsSpawned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cellsoup_items_spawned_total",
			Help: "Energy items dropped by dying agents",
		}),
		itemsCollected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cellsoup_items_collected_total",
			Help: "Energy items absorbed by collectors",
		}),
		itemsDecayed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cellsoup_items_decayed_total",
			Help: "Energy items removed by decay",
		}),
		energyMean: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cellsoup_energy_mean",
			Help: "Mean agent energy at the last stats window",
		}),
		generationMean: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cellsoup_generation_mean",
			Help: "Mean generation at the last stats window",
		}),
		wsClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cellsoup_websocket_clients",
			Help: "Connected websocket clients",
		}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cellsoup_requests_rejected_total",
			Help: "Requests rejected by the server",
		}, []string{"reason"}),
	}

	m.registry.MustRegister(
		m.population, m.items, m.tick,
		m.births, m.deaths,
		m.itemsSpawned, m.itemsCollected, m.itemsDecayed,
		m.energyMean, m.generationMean,
		m.wsClients, m.rejected,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) AgentSpawned(uint32, components.Position) {
	m.births.Inc()
	m.population.Inc()
}

func (m *Metrics) AgentDespawned(_ uint32, cause components.DeathCause) {
	m.deaths.WithLabelValues(cause.String()).Inc()
	m.population.Dec()
}

func (m *Metrics) ItemSpawned(uint32, components.Position, float32) {
	m.itemsSpawned.Inc()
	m.items.Inc()
}

func (m *Metrics) ItemDespawned(_, collectorID uint32, _ float32) {
	if collectorID == 0 {
		m.itemsDecayed.Inc()
	} else {
		m.itemsCollected.Inc()
	}
	m.items.Dec()
}

// ObserveSnapshot sets gauges from a published snapshot.
func (m *Metrics) ObserveSnapshot(s *game.Snapshot) {
	if s == nil {
		return
	}
	m.tick.Set(float64(s.Tick))
	m.population.Set(float64(len(s.Agents)))
	m.items.Set(float64(len(s.Items)))
}

// ObserveWindow sets gauges from a flushed stats window.
func (m *Metrics) ObserveWindow(s telemetry.WindowStats) {
	m.energyMean.Set(s.EnergyMean)
	m.generationMean.Set(s.GenerationMean)
}

func (m *Metrics) setClients(n int) {
	m.wsClients.Set(float64(n))
}

func (m *Metrics) recordRejected(reason string) {
	m.rejected.WithLabelValues(reason).Inc()
}
