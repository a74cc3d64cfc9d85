// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package metrics exposes the ledger's meters. Meters are declared package wide with the LazyLoad
// helpers and resolve to no-ops until InitializePrometheusMetrics is called.
package metrics

import (
	"net/http"
	"sync"
)

// active is swapped once, from noop to prometheus, before any meter is resolved.
var active registry = noopRegistry{}

type registry interface {
	counter(name string) CountMeter
	counterVec(name string, labels []string) CountVecMeter
	gauge(name string) GaugeMeter
	gaugeVec(name string, labels []string) GaugeVecMeter
	histogram(name string, buckets []int64) HistogramMeter
	histogramVec(name string, labels []string, buckets []int64) HistogramVecMeter
	handler() http.Handler
}

// HTTPHandler serves the collected metrics, or 404 while metrics are disabled.
func HTTPHandler() http.Handler {
	return active.handler()
}

// Enabled reports whether metrics are collected by prometheus.
func Enabled() bool {
	_, ok := active.(*promRegistry)
	return ok
}

var (
	// BucketCallMs covers a native clause execution, which rarely leaves the millisecond range.
	BucketCallMs = []int64{0, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000, 5000}
	// BucketGasUsed covers the gas of a clause up to the default clause gas limit.
	BucketGasUsed  = []int64{0, 5_000, 10_000, 25_000, 50_000, 100_000, 250_000, 1_000_000, 10_000_000}
	BucketHTTPReqs = []int64{
		0, 1, 2, 5, 10, 20, 30, 50, 75, 100,
		150, 200, 300, 400, 500, 750, 1000,
		1500, 2000, 3000, 4000, 5000, 10000,
	}
)

type HistogramMeter interface {
	Observe(int64)
}

type HistogramVecMeter interface {
	ObserveWithLabels(int64, map[string]string)
}

// CountMeter is a monotonically increasing counter, reset to zero on restart.
type CountMeter interface {
	Add(int64)
}

type CountVecMeter interface {
	AddWithLabel(int64, map[string]string)
}

// GaugeMeter is a single value that can go up and down.
type GaugeMeter interface {
	Add(int64)
	Set(int64)
}

type GaugeVecMeter interface {
	AddWithLabel(int64, map[string]string)
	SetWithLabel(int64, map[string]string)
}

// lazy defers resolving a meter to its first use, so a package level declaration
// does not pin the noop registry.
func lazy[T any](f func(r registry) T) func() T {
	var (
		once   sync.Once
		result T
	)
	return func() T {
		once.Do(func() {
			result = f(active)
		})
		return result
	}
}

func LazyLoadCounter(name string) func() CountMeter {
	return lazy(func(r registry) CountMeter { return r.counter(name) })
}

func LazyLoadCounterVec(name string, labels []string) func() CountVecMeter {
	return lazy(func(r registry) CountVecMeter { return r.counterVec(name, labels) })
}

func LazyLoadGauge(name string) func() GaugeMeter {
	return lazy(func(r registry) GaugeMeter { return r.gauge(name) })
}

func LazyLoadGaugeVec(name string, labels []string) func() GaugeVecMeter {
	return lazy(func(r registry) GaugeVecMeter { return r.gaugeVec(name, labels) })
}

func LazyLoadHistogram(name string, buckets []int64) func() HistogramMeter {
	return lazy(func(r registry) HistogramMeter { return r.histogram(name, buckets) })
}

func LazyLoadHistogramVec(name string, labels []string, buckets []int64) func() HistogramVecMeter {
	return lazy(func(r registry) HistogramVecMeter { return r.histogramVec(name, labels, buckets) })
}
