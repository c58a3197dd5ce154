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
	"slices"
	"strings"

	"rivaas.dev/dispatch/route"
)

// Lookup resolves a request to the winning route and its parameters.
// The method is case-insensitive and the path is normalized first: empty
// becomes "/" and a trailing slash is dropped.
//
// Winners are chosen by class, best first: static routes for the method,
// static routes for any method, dynamic routes for the method, dynamic
// routes for any method. Inside a class higher specificity wins, then
// earlier registration.
func (r *Router) Lookup(method, path string) (*Match, bool) {
	m, err := r.lookup(method, path)
	return m, err == nil && m != nil
}

func (r *Router) lookup(method, path string) (*Match, error) {
	reg := r.reg.Load()
	c := r.recorder(reg)

	m, err := r.resolve(reg, c, strings.ToLower(method), route.NormalizePath(path))
	c.add(statDispatches, 1)
	if m == nil {
		c.add(statUnmatched, 1)
	} else {
		c.add(statMatched, 1)
	}

	return m, err
}

// Dispatch resolves a request and hands the match to the runner. Requests
// nothing matches go to the unmatched collaborator, if one is set.
// It reports whether a route matched.
func (r *Router) Dispatch(method, path string) (bool, error) {
	m, err := r.lookup(method, path)
	if err != nil {
		return false, err
	}
	if m == nil {
		if r.unmatched != nil {
			return false, r.unmatched(method, path)
		}
		return false, nil
	}

	return true, r.runner(m)
}

// Allowed returns the registered methods that would resolve path to a route
// answering that method explicitly, sorted. "*" is included when a route
// registered for every method matches. Counters are not touched.
func (r *Router) Allowed(path string) []string {
	reg := r.reg.Load()
	path = route.NormalizePath(path)

	reg.mu.RLock()
	var methods []string
	for _, rt := range reg.routes {
		for _, m := range rt.Methods() {
			if !slices.Contains(methods, m) {
				methods = append(methods, m)
			}
		}
	}
	reg.mu.RUnlock()

	var out []string
	for _, m := range methods {
		match, err := r.resolve(reg, nil, m, path)
		if err != nil || match == nil {
			continue
		}
		if m == route.AnyMethod || match.Route.HasMethod(m) {
			out = append(out, m)
		}
	}
	slices.Sort(out)

	return out
}

func (r *Router) resolve(reg *registry, c *counters, method, path string) (*Match, error) {
	if !r.loopMode {
		if reg.index != nil {
			return r.matchIndex(reg, c, method, path), nil
		}
		return r.matchScan(reg, c, method, path), nil
	}

	t := reg.table.Load()
	if t == nil {
		var err error
		if t, err = r.compile(reg); err != nil {
			return nil, err
		}
	}

	if r.dispatcher == DispatcherTree {
		return r.matchTrie(c, t.Trie(), method, path), nil
	}
	return r.matchFast(c, t, method, path), nil
}
