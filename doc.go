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

// Package dispatch compiles a set of route patterns into dispatch tables
// and resolves (method, path) requests against them.
//
// A route pairs a pattern with a method set and a handler. Patterns are
// written in a small regex-flavored syntax:
//
//	/users                 static
//	/users/:id             parameter, matches one segment by default
//	/users/:id(/:tab)      optional group
//	/files/*               wildcard, matches anything including slashes
//	/posts/[0-9]+          inline regex
//
// Parameter rules narrow what a parameter accepts:
//
//	r := dispatch.MustNew()
//	r.GET("/users/:id", h).WhereInt("id")
//
// # Dispatch modes
//
// In loop mode (the default) the router compiles its routes into an
// immutable table on first use and serves lookups from it. Two compiled
// strategies exist:
//
//   - DispatcherFast: a per-method static map guarded by a bloom filter,
//     then dynamic routes grouped by static prefix and hint segment into
//     bundle regexes of at most 20 routes each.
//   - DispatcherTree: a walk of the literal-segment trie, trying the
//     routes attached to the walked nodes.
//
// With loop mode off nothing is compiled: each lookup uses a prefix index
// maintained at registration (WithAutoOptimize) or a linear scan. Every
// mode resolves the same request to the same route.
//
// # Precedence
//
// Static routes beat dynamic ones and routes registered for the request
// method beat routes registered for "*". Inside those classes higher
// specificity wins, computed as
//
//	100 * staticSegments + len(pattern)
//
// and ties go to the route registered first.
//
// # Concurrency
//
// Registration, rule changes, compilation and Reset are serialized.
// Lookup and Dispatch are safe for concurrent use.
package dispatch
