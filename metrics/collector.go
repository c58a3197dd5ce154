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
	"github.com/prometheus/client_golang/prometheus"

	"rivaas.dev/dispatch"
)

const namespace = "dispatch"

// StatsSource is anything reporting dispatch counters, typically a
// *dispatch.Router.
type StatsSource interface {
	Stats() dispatch.Stats
}

type counterDesc struct {
	desc  *prometheus.Desc
	kind  prometheus.ValueType
	value func(dispatch.Stats) uint64
}

// Collector is a prometheus.Collector reading a StatsSource on scrape.
type Collector struct {
	src   StatsSource
	descs []counterDesc
}

// NewCollector creates a collector. constLabels are attached to every
// series, e.g. to tell several routers apart.
func NewCollector(src StatsSource, constLabels ...prometheus.Labels) *Collector {
	var labels prometheus.Labels
	if len(constLabels) > 0 {
		labels = constLabels[0]
	}

	counter := func(name, help string, value func(dispatch.Stats) uint64) counterDesc {
		return counterDesc{
			desc:  prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, nil, labels),
			kind:  prometheus.CounterValue,
			value: value,
		}
	}

	return &Collector{
		src: src,
		descs: []counterDesc{
			counter("lookups_total", "Requests resolved.", func(s dispatch.Stats) uint64 { return s.Dispatches }),
			counter("matched_total", "Requests that found a route.", func(s dispatch.Stats) uint64 { return s.Matched }),
			counter("unmatched_total", "Requests without a route.", func(s dispatch.Stats) uint64 { return s.Unmatched }),
			counter("static_checks_total", "Static route probes.", func(s dispatch.Stats) uint64 { return s.StaticChecks }),
			counter("static_hits_total", "Requests answered by a static route.", func(s dispatch.Stats) uint64 { return s.StaticHits }),
			counter("dynamic_checks_total", "Bundles or dynamic routes considered.", func(s dispatch.Stats) uint64 { return s.DynamicChecks }),
			counter("dynamic_hits_total", "Requests answered by a dynamic route.", func(s dispatch.Stats) uint64 { return s.DynamicHits }),
			counter("regex_evals_total", "Regex executions.", func(s dispatch.Stats) uint64 { return s.RegexEvals }),
			counter("prefix_rejects_total", "Bundles skipped on their static prefix.", func(s dispatch.Stats) uint64 { return s.PrefixRejects }),
			counter("hint_rejects_total", "Bundles skipped on their hint segment.", func(s dispatch.Stats) uint64 { return s.HintRejects }),
			counter("tree_depth_sum_total", "Trie nodes walked.", func(s dispatch.Stats) uint64 { return s.TreeDepthSum }),
			counter("compiles_total", "Dispatch tables built.", func(s dispatch.Stats) uint64 { return s.Compiles }),
			{
				desc:  prometheus.NewDesc(prometheus.BuildFQName(namespace, "", "tree_depth_max"), "Deepest trie walk.", nil, labels),
				kind:  prometheus.GaugeValue,
				value: func(s dispatch.Stats) uint64 { return s.TreeDepthMax },
			},
		},
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range c.descs {
		ch <- d.desc
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()
	for _, d := range c.descs {
		ch <- prometheus.MustNewConstMetric(d.desc, d.kind, float64(d.value(s)))
	}
}
