// Copyright 2026 the jzlcd Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metric

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricOpts contains naming pieces of the exposed metric
type MetricOpts struct {
	Namespace string
	Subsystem string
	Name      string
	Help      string
}

// StartMetrics adds the metrics handler to a http.ServeMux
func StartMetrics(mux *http.ServeMux) {
	mux.Handle("/metrics", promhttp.Handler())
}

// Counter creates and registers a prometheus.Counter
func Counter(opts MetricOpts) prometheus.Counter {
	return promauto.NewCounter(prometheus.CounterOpts{
		Name: optsToString(opts),
		Help: opts.Help,
	})
}

// Gauge creates and registers a prometheus.Gauge
func Gauge(opts MetricOpts) prometheus.Gauge {
	return promauto.NewGauge(prometheus.GaugeOpts{
		Name: optsToString(opts),
		Help: opts.Help,
	})
}

// GaugeFunc creates and registers a prometheus.GaugeFunc backed by f
func GaugeFunc(opts MetricOpts, f func() float64) prometheus.GaugeFunc {
	return promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: optsToString(opts),
		Help: opts.Help,
	}, f)
}

func optsToString(opts MetricOpts) string {
	if opts.Name == "" {
		return ""
	}
	switch {
	case opts.Namespace != "" && opts.Subsystem != "":
		return strings.Join([]string{opts.Namespace, opts.Subsystem, opts.Name}, "_")
	case opts.Namespace != "":
		return strings.Join([]string{opts.Namespace, opts.Name}, "_")
	case opts.Subsystem != "":
		return strings.Join([]string{opts.Subsystem, opts.Name}, "_")
	}
	return opts.Name
}
