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

package dispatch

import "sync/atomic"

// Stats is a snapshot of the dispatch counters. Counters only move when the
// router was created WithDebug(true).
type Stats struct {
	Dispatches    uint64 // lookups resolved
	Matched       uint64 // lookups that found a route
	Unmatched     uint64 // lookups that found nothing
	StaticChecks  uint64 // static map or static route probes
	StaticHits    uint64 // lookups answered by a static route
	DynamicChecks uint64 // bundles or dynamic routes considered
	DynamicHits   uint64 // lookups answered by a dynamic route
	RegexEvals    uint64 // regex executions
	PrefixRejects uint64 // bundles skipped on their static prefix
	HintRejects   uint64 // bundles skipped on their hint segment
	TreeDepthSum  uint64 // trie nodes walked, summed
	TreeDepthMax  uint64 // deepest trie walk
	Compiles      uint64 // tables built
}

type stat int

const (
	statDispatches stat = iota
	statMatched
	statUnmatched
	statStaticChecks
	statStaticHits
	statDynamicChecks
	statDynamicHits
	statRegexEvals
	statPrefixRejects
	statHintRejects
	statTreeDepthSum
	statTreeDepthMax
	statCompiles
	numStats
)

// counters is safe to use through a nil pointer, which records nothing.
type counters struct {
	v [numStats]atomic.Uint64
}

func (c *counters) add(s stat, n uint64) {
	if c == nil {
		return
	}
	c.v[s].Add(n)
}

func (c *counters) observeDepth(depth int) {
	if c == nil {
		return
	}
	d := uint64(depth)
	c.v[statTreeDepthSum].Add(d)
	for {
		cur := c.v[statTreeDepthMax].Load()
		if d <= cur || c.v[statTreeDepthMax].CompareAndSwap(cur, d) {
			return
		}
	}
}

func (c *counters) snapshot() Stats {
	return Stats{
		Dispatches:    c.v[statDispatches].Load(),
		Matched:       c.v[statMatched].Load(),
		Unmatched:     c.v[statUnmatched].Load(),
		StaticChecks:  c.v[statStaticChecks].Load(),
		StaticHits:    c.v[statStaticHits].Load(),
		DynamicChecks: c.v[statDynamicChecks].Load(),
		DynamicHits:   c.v[statDynamicHits].Load(),
		RegexEvals:    c.v[statRegexEvals].Load(),
		PrefixRejects: c.v[statPrefixRejects].Load(),
		HintRejects:   c.v[statHintRejects].Load(),
		TreeDepthSum:  c.v[statTreeDepthSum].Load(),
		TreeDepthMax:  c.v[statTreeDepthMax].Load(),
		Compiles:      c.v[statCompiles].Load(),
	}
}

// recorder returns the counters to record into, or nil when debug is off.
func (r *Router) recorder(reg *registry) *counters {
	if !r.debug {
		return nil
	}
	return reg.stats
}

// Stats returns a snapshot of the dispatch counters. All counters are zero
// unless debug is enabled, and Reset zeroes them.
func (r *Router) Stats() Stats {
	return r.reg.Load().stats.snapshot()
}

// DebugEnabled reports whether dispatch counters are being recorded.
func (r *Router) DebugEnabled() bool {
	return r.debug
}
