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

package compiler

import (
	"slices"

	"rivaas.dev/dispatch/route"
)

const (
	// DefaultChunkSize caps the number of routes merged into one bundle regex.
	DefaultChunkSize = 20

	// DefaultMinHintBucket is the smallest bucket that keeps its hint.
	DefaultMinHintBucket = 3
)

// Config tunes table construction. Zero values select the defaults.
type Config struct {
	ChunkSize      int
	MinHintBucket  int
	BloomSize      uint64 // 0 sizes the filter from the static route count
	BloomHashFuncs int
}

func (c Config) withDefaults() Config {
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.MinHintBucket <= 0 {
		c.MinHintBucket = DefaultMinHintBucket
	}
	if c.BloomHashFuncs <= 0 {
		c.BloomHashFuncs = DefaultBloomHashFuncs
	}

	return c
}

// Report summarizes a compiled table.
type Report struct {
	Routes       int // registered routes
	Static       int // static (method, path) entries after wildcard merge
	Dynamic      int // dynamic routes
	Buckets      int // buckets over all methods
	Bundles      int // bundles over all methods
	HintsDropped int // buckets whose hint was cleared for being too small
}

// Table is the compiled, read-only routing table: the trie, per-method
// static maps, a bloom filter over static keys and per-method bundles.
type Table struct {
	trie    *Trie
	static  map[string]map[string]*route.Route
	bloom   *BloomFilter
	dynamic map[string][]*Bundle
	methods []string
	report  Report
}

// Compile builds a Table from routes in registration order. Regexes are
// validated and cached on every dynamic route first, so a malformed rule
// fails here and no partial table is returned.
func Compile(routes []*route.Route, cfg Config) (*Table, error) {
	cfg = cfg.withDefaults()

	for _, rt := range routes {
		if !rt.Dynamic() {
			continue
		}
		if _, err := RouteRegexes(rt); err != nil {
			return nil, err
		}
	}

	t := &Table{
		trie:    NewTrie(),
		static:  make(map[string]map[string]*route.Route),
		dynamic: make(map[string][]*Bundle),
		report:  Report{Routes: len(routes)},
	}

	dynamicByMethod := make(map[string][]*route.Route)
	for _, rt := range routes {
		t.trie.Insert(rt)

		for _, m := range rt.Methods() {
			if !slices.Contains(t.methods, m) {
				t.methods = append(t.methods, m)
			}
			if rt.Dynamic() {
				dynamicByMethod[m] = append(dynamicByMethod[m], rt)
				continue
			}
			if t.static[m] == nil {
				t.static[m] = make(map[string]*route.Route)
			}
			// Earliest registration wins for duplicate paths.
			if _, dup := t.static[m][rt.Pattern()]; !dup {
				t.static[m][rt.Pattern()] = rt
			}
		}
		if rt.Dynamic() {
			t.report.Dynamic++
		}
	}
	slices.Sort(t.methods)

	t.mergeWildcardStatic()
	t.buildBloom(cfg)

	for m, rts := range dynamicByMethod {
		slices.SortStableFunc(rts, ComparePrecedence)

		buckets, dropped := bucketize(rts, cfg.MinHintBucket)
		t.report.Buckets += len(buckets)
		t.report.HintsDropped += dropped

		var bundles []*Bundle
		for _, bk := range buckets {
			bs, err := buildBundles(bk, cfg.ChunkSize)
			if err != nil {
				return nil, err
			}
			bundles = append(bundles, bs...)
		}
		slices.SortStableFunc(bundles, func(a, b *Bundle) int {
			return ComparePrecedence(a.Head(), b.Head())
		})

		t.dynamic[m] = bundles
		t.report.Bundles += len(bundles)
	}

	return t, nil
}

// mergeWildcardStatic copies AnyMethod static routes into every concrete
// method map so a lookup needs one probe. Concrete registrations win.
func (t *Table) mergeWildcardStatic() {
	anyMap := t.static[route.AnyMethod]
	for _, m := range t.methods {
		if m == route.AnyMethod || len(anyMap) == 0 {
			continue
		}
		if t.static[m] == nil {
			t.static[m] = make(map[string]*route.Route, len(anyMap))
		}
		for path, rt := range anyMap {
			if _, ok := t.static[m][path]; !ok {
				t.static[m][path] = rt
			}
		}
	}

	for _, paths := range t.static {
		t.report.Static += len(paths)
	}
}

func (t *Table) buildBloom(cfg Config) {
	size := cfg.BloomSize
	if size == 0 {
		size = optimalBloomFilterSize(t.report.Static)
	}

	t.bloom = NewBloomFilter(size, cfg.BloomHashFuncs)
	for m, paths := range t.static {
		for path := range paths {
			t.bloom.Add(m, path)
		}
	}
}

// staticMap returns the static map consulted for a method and its key.
func (t *Table) staticMap(method string) (string, map[string]*route.Route) {
	if paths, ok := t.static[method]; ok {
		return method, paths
	}

	return route.AnyMethod, t.static[route.AnyMethod]
}

// LookupStatic returns the static route for a lower-cased method and a
// normalized path, or nil.
func (t *Table) LookupStatic(method, path string) *route.Route {
	key, paths := t.staticMap(method)
	if len(paths) == 0 {
		return nil
	}

	// For small route sets, skip bloom filter and check map directly
	if len(paths) >= bloomMinRoutes && !t.bloom.Test(key, path) {
		return nil
	}

	return paths[path]
}

// Bundles returns the bundles registered for a concrete method, best
// ranked head first.
func (t *Table) Bundles(method string) []*Bundle {
	if method == route.AnyMethod {
		return nil
	}

	return t.dynamic[method]
}

// WildcardBundles returns the bundles of AnyMethod routes.
func (t *Table) WildcardBundles() []*Bundle {
	return t.dynamic[route.AnyMethod]
}

// Trie returns the compiled trie.
func (t *Table) Trie() *Trie {
	return t.trie
}

// Methods returns every method that has at least one route, sorted.
func (t *Table) Methods() []string {
	return slices.Clone(t.methods)
}

// Report returns construction statistics.
func (t *Table) Report() Report {
	return t.report
}
