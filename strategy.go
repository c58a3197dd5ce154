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

import (
	"rivaas.dev/dispatch/compiler"
	"rivaas.dev/dispatch/route"
)

// matchFast answers from the per-method static map, then scans the
// method's bundles in precedence order, then the wildcard bundles.
func (r *Router) matchFast(c *counters, t *compiler.Table, method, path string) *Match {
	c.add(statStaticChecks, 1)
	if rt := t.LookupStatic(method, path); rt != nil {
		c.add(statStaticHits, 1)
		return &Match{Route: rt, Params: route.Params{}}
	}

	m := r.matchBundles(c, t.Bundles(method), path)
	if m == nil {
		m = r.matchBundles(c, t.WildcardBundles(), path)
	}
	if m != nil {
		c.add(statDynamicHits, 1)
	}

	return m
}

// matchBundles returns the best match over bundles sorted by head. Once the
// best match precedes the next head no later bundle can beat it.
func (r *Router) matchBundles(c *counters, bundles []*compiler.Bundle, path string) *Match {
	var best *Match
	for _, b := range bundles {
		if best != nil && !compiler.Precedes(b.Head(), best.Route) {
			break
		}
		c.add(statDynamicChecks, 1)

		if r.pruning {
			if !b.PrefixMatches(path) {
				c.add(statPrefixRejects, 1)
				continue
			}
			if !b.HintMatches(path) {
				c.add(statHintRejects, 1)
				continue
			}
		}

		c.add(statRegexEvals, 1)
		rt, params, ok := b.Match(path)
		if ok && (best == nil || compiler.Precedes(rt, best.Route)) {
			best = &Match{Route: rt, Params: params}
		}
	}

	return best
}

// matchTrie walks the literal segments of path. A complete walk may end on
// a static route; otherwise the dynamic routes hanging off every walked
// node are tried, deepest first.
func (r *Router) matchTrie(c *counters, trie *compiler.Trie, method, path string) *Match {
	visited, complete := trie.Walk(route.PathSegments(path))
	c.observeDepth(len(visited) - 1)

	if complete {
		c.add(statStaticChecks, 1)
		if rt := bestStatic(trie.Node(visited[len(visited)-1]).Static, method, path); rt != nil {
			c.add(statStaticHits, 1)
			return &Match{Route: rt, Params: route.Params{}}
		}
	}

	var (
		best      *route.Route
		bestClass = compiler.ClassNone
		params    route.Params
	)
	for i := len(visited) - 1; i >= 0; i-- {
		for _, rt := range trie.Node(visited[i]).Dynamic {
			cls := compiler.Class(rt, method)
			if cls == compiler.ClassNone || !compiler.Outranks(rt, cls, best, bestClass) {
				continue
			}
			c.add(statDynamicChecks, 1)
			if p, ok := r.matchRoute(c, rt, path); ok {
				best, bestClass, params = rt, cls, p
			}
		}
	}
	if best == nil {
		return nil
	}
	c.add(statDynamicHits, 1)

	return &Match{Route: best, Params: params}
}

// bestStatic picks the best static route for method among routes in
// registration order.
func bestStatic(routes []*route.Route, method, path string) *route.Route {
	var (
		best      *route.Route
		bestClass = compiler.ClassNone
	)
	for _, rt := range routes {
		if rt.Pattern() != path {
			continue
		}
		cls := compiler.Class(rt, method)
		if cls != compiler.ClassNone && (best == nil || cls < bestClass) {
			best, bestClass = rt, cls
		}
	}

	return best
}

// matchIndex resolves against the registration-time prefix index.
func (r *Router) matchIndex(reg *registry, c *counters, method, path string) *Match {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	return r.matchTrie(c, reg.index, method, path)
}

// matchScan tests every route and keeps the best ranked match.
func (r *Router) matchScan(reg *registry, c *counters, method, path string) *Match {
	reg.mu.RLock()
	routes := reg.routes
	reg.mu.RUnlock()

	var (
		best      *route.Route
		bestClass = compiler.ClassNone
		params    route.Params
	)
	for _, rt := range routes {
		cls := compiler.Class(rt, method)
		if cls == compiler.ClassNone || !compiler.Outranks(rt, cls, best, bestClass) {
			continue
		}
		if !rt.Dynamic() {
			c.add(statStaticChecks, 1)
			if rt.Pattern() == path {
				best, bestClass, params = rt, cls, route.Params{}
			}
			continue
		}
		c.add(statDynamicChecks, 1)
		if p, ok := r.matchRoute(c, rt, path); ok {
			best, bestClass, params = rt, cls, p
		}
	}

	switch {
	case best == nil:
		return nil
	case best.Dynamic():
		c.add(statDynamicHits, 1)
	default:
		c.add(statStaticHits, 1)
	}

	return &Match{Route: best, Params: params}
}

// matchRoute runs a single route's regexes, building them on first use.
func (r *Router) matchRoute(c *counters, rt *route.Route, path string) (route.Params, bool) {
	rx, err := compiler.RouteRegexes(rt)
	if err != nil {
		r.logger.Error("route regex failed to compile", "pattern", rt.Pattern(), "error", err)
		return nil, false
	}

	c.add(statRegexEvals, 1)
	if !rx.Match.MatchString(path) {
		return nil, false
	}

	return compiler.Extract(rx.Extract, path)
}
