// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vechain/stakeledger/log"
)

const namespace = "stakeledger"

var logger = log.WithContext("pkg", "metrics")

// InitializePrometheusMetrics switches collection to prometheus. Meters resolved before the call
// stay no-ops; calling it again keeps the current registry.
func InitializePrometheusMetrics() {
	if !Enabled() {
		active = newPromRegistry()
	}
}

// promRegistry owns a dedicated prometheus registry, so only ledger meters and the
// runtime collectors are exported.
type promRegistry struct {
	reg    *prometheus.Registry
	meters sync.Map // name => meter
	lock   sync.Mutex
}

func newPromRegistry() *promRegistry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &promRegistry{reg: reg}
}

func (p *promRegistry) handler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{Registry: p.reg})
}

// getOrCreate returns the meter registered under name, creating it with create on first use.
// The first definition of a name wins.
func getOrCreate[T any](p *promRegistry, name string, create func() (prometheus.Collector, T)) T {
	if m, ok := p.meters.Load(name); ok {
		if meter, ok := m.(T); ok {
			return meter
		}
		logger.Warn("metric redefined with another type", "name", name)
	}

	p.lock.Lock()
	defer p.lock.Unlock()
	if m, ok := p.meters.Load(name); ok {
		if meter, ok := m.(T); ok {
			return meter
		}
	}
	collector, meter := create()
	if err := p.reg.Register(collector); err != nil {
		logger.Warn("unable to register metric", "name", name, "err", err)
	}
	p.meters.Store(name, meter)
	return meter
}

func floatBuckets(buckets []int64) []float64 {
	if len(buckets) == 0 {
		return nil
	}
	fb := make([]float64, len(buckets))
	for i, b := range buckets {
		fb[i] = float64(b)
	}
	return fb
}

func (p *promRegistry) counter(name string) CountMeter {
	return getOrCreate(p, name, func() (prometheus.Collector, CountMeter) {
		c := prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name})
		return c, promCounter{c}
	})
}

func (p *promRegistry) counterVec(name string, labels []string) CountVecMeter {
	return getOrCreate(p, name, func() (prometheus.Collector, CountVecMeter) {
		c := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: name}, labels)
		return c, promCounterVec{c}
	})
}

func (p *promRegistry) gauge(name string) GaugeMeter {
	return getOrCreate(p, name, func() (prometheus.Collector, GaugeMeter) {
		g := prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name})
		return g, promGauge{g}
	})
}

func (p *promRegistry) gaugeVec(name string, labels []string) GaugeVecMeter {
	return getOrCreate(p, name, func() (prometheus.Collector, GaugeVecMeter) {
		g := prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: namespace, Name: name}, labels)
		return g, promGaugeVec{g}
	})
}

func (p *promRegistry) histogram(name string, buckets []int64) HistogramMeter {
	return getOrCreate(p, name, func() (prometheus.Collector, HistogramMeter) {
		h := prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: name, Buckets: floatBuckets(buckets)})
		return h, promHistogram{h}
	})
}

func (p *promRegistry) histogramVec(name string, labels []string, buckets []int64) HistogramVecMeter {
	return getOrCreate(p, name, func() (prometheus.Collector, HistogramVecMeter) {
		h := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: namespace, Name: name, Buckets: floatBuckets(buckets)}, labels)
		return h, promHistogramVec{h}
	})
}

type promCounter struct{ prometheus.Counter }

func (c promCounter) Add(i int64) { c.Counter.Add(float64(i)) }

type promCounterVec struct{ *prometheus.CounterVec }

func (c promCounterVec) AddWithLabel(i int64, labels map[string]string) {
	c.With(labels).Add(float64(i))
}

type promGauge struct{ prometheus.Gauge }

func (g promGauge) Add(i int64) { g.Gauge.Add(float64(i)) }
func (g promGauge) Set(i int64) { g.Gauge.Set(float64(i)) }

type promGaugeVec struct{ *prometheus.GaugeVec }

func (g promGaugeVec) AddWithLabel(i int64, labels map[string]string) {
	g.With(labels).Add(float64(i))
}

func (g promGaugeVec) SetWithLabel(i int64, labels map[string]string) {
	g.With(labels).Set(float64(i))
}

type promHistogram struct{ prometheus.Histogram }

func (h promHistogram) Observe(i int64) { h.Histogram.Observe(float64(i)) }

type promHistogramVec struct{ *prometheus.HistogramVec }

func (h promHistogramVec) ObserveWithLabels(i int64, labels map[string]string) {
	h.With(labels).Observe(float64(i))
}
