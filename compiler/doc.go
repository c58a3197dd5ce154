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

// Package compiler turns a registered route set into a read-only routing
// table for the dispatch router.
//
// # Architecture
//
// Compile builds four structures from the full route set:
//
//  1. A trie keyed by literal path segments (an arena of nodes addressed by
//     index). Static routes terminate at a node; dynamic routes hang off the
//     node reached by their static prefix.
//  2. A static map per method, with AnyMethod ("*") routes merged into every
//     concrete method, plus a bloom filter for negative lookups.
//  3. Buckets of dynamic routes per method, keyed by static prefix and, when
//     the bucket is large enough, a discriminating "hint" segment.
//  4. Bundles: every bucket is split into chunks of at most 20 routes and
//     each chunk is compiled into a single alternation regex.
//
// A table is never patched. Bucket membership, precedence order and chunk
// boundaries depend on the whole route set, so any registration change
// requires a new Compile.
//
// # Regex Forms
//
// Translate renders a pattern in three forms:
//
//	/post/:a/:b  extract: ^(?:/post/(?P<a>[^/]+)/(?P<b>[^/]+))/?$
//	             match:   ^(?:/post/(?:[^/]+)/(?:[^/]+))/?$
//	             bundle:  /post/([^/]+)/([^/]+)
//
// Rule fragments are passed through NonCapturing, a small state machine that
// turns every capturing group into a non-capturing one while skipping escapes
// and bracket expressions. This keeps the capture group indexes of a bundle
// predictable: one label group per member, one group per parameter.
//
// # Bundles
//
// A bundle regex looks like
//
//	^(?:(?P<__r0>frag0)|(?P<__r1>frag1)|...)/?$
//
// Members are ordered by precedence (specificity, then registration), and
// Go's regexp is leftmost-first, so the first member whose alternative
// matches the whole path is the one reported.
//
// # Specificity
//
// A route's specificity is 100 times its literal segment count plus the
// pattern length. Static routes are always tried before dynamic ones.
//
// # Thread Safety
//
// Compile is a pure function of its input routes. A Table is immutable once
// returned and safe for concurrent readers. Regexes are cached on the route
// descriptors; the cache is invalidated whenever a route's rules change.
package compiler
