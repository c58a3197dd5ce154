// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"rivaas.dev/dispatch"
)

const meterName = "rivaas.dev/dispatch"

// RegisterOTel publishes the dispatch counters as observable instruments on
// mp. Unregister the returned registration to stop observing src.
func RegisterOTel(mp metric.MeterProvider, src StatsSource) (metric.Registration, error) {
	meter := mp.Meter(meterName)

	type observed struct {
		inst  metric.Int64ObservableCounter
		value func(dispatch.Stats) uint64
	}
	specs := []struct {
		name, desc string
		value      func(dispatch.Stats) uint64
	}{
		{"dispatch.lookups", "Requests resolved", func(s dispatch.Stats) uint64 { return s.Dispatches }},
		{"dispatch.matched", "Requests that found a route", func(s dispatch.Stats) uint64 { return s.Matched }},
		{"dispatch.unmatched", "Requests without a route", func(s dispatch.Stats) uint64 { return s.Unmatched }},
		{"dispatch.regex_evals", "Regex executions", func(s dispatch.Stats) uint64 { return s.RegexEvals }},
		{"dispatch.prefix_rejects", "Bundles skipped on their static prefix", func(s dispatch.Stats) uint64 { return s.PrefixRejects }},
		{"dispatch.hint_rejects", "Bundles skipped on their hint segment", func(s dispatch.Stats) uint64 { return s.HintRejects }},
		{"dispatch.compiles", "Dispatch tables built", func(s dispatch.Stats) uint64 { return s.Compiles }},
	}

	insts := make([]observed, 0, len(specs))
	observables := make([]metric.Observable, 0, len(specs))
	for _, sp := range specs {
		inst, err := meter.Int64ObservableCounter(sp.name, metric.WithDescription(sp.desc))
		if err != nil {
			return nil, fmt.Errorf("failed to create %s counter: %w", sp.name, err)
		}
		insts = append(insts, observed{inst: inst, value: sp.value})
		observables = append(observables, inst)
	}

	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s := src.Stats()
		for _, in := range insts {
			o.ObserveInt64(in.inst, int64(in.value(s)))
		}
		return nil
	}, observables...)
}

// PrometheusProvider creates a meter provider exporting through a private
// Prometheus registry, and the scrape handler serving it.
func PrometheusProvider() (*sdkmetric.MeterProvider, http.Handler, error) {
	registry := promclient.NewRegistry()

	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return mp, handler, nil
}

// StdoutProvider creates a meter provider that writes JSON snapshots to w
// every interval. A non-positive interval uses the SDK default of one minute.
func StdoutProvider(w io.Writer, interval time.Duration) (*sdkmetric.MeterProvider, error) {
	exporter, err := stdoutmetric.New(stdoutmetric.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
	}

	var opts []sdkmetric.PeriodicReaderOption
	if interval > 0 {
		opts = append(opts, sdkmetric.WithInterval(interval))
	}

	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, opts...)),
	), nil
}
