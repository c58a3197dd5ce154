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
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// Dispatcher selects the compiled dispatch strategy used in loop mode.
type Dispatcher string

const (
	// DispatcherFast looks up static routes in a per-method map and matches
	// dynamic routes through bucketed bundle regexes.
	DispatcherFast Dispatcher = "fast"

	// DispatcherTree walks the compiled trie and tests the routes attached to
	// the walked nodes one by one.
	DispatcherTree Dispatcher = "tree"
)

// Valid reports whether d names a known strategy.
func (d Dispatcher) Valid() bool {
	return d == DispatcherFast || d == DispatcherTree
}

// WithLoopMode selects compiled dispatch (true, the default) for
// long-lived processes. With loop mode off the router never compiles and
// resolves requests interpretively, which suits processes that serve a
// single request.
func WithLoopMode(enabled bool) Option {
	return func(r *Router) {
		r.loopMode = enabled
	}
}

// WithDispatcher selects the compiled strategy used in loop mode.
// Default: DispatcherFast.
func WithDispatcher(d Dispatcher) Option {
	return func(r *Router) {
		r.dispatcher = d
	}
}

// WithDebug enables the dispatch counters returned by Stats.
// Counters never influence matching.
func WithDebug(enabled bool) Option {
	return func(r *Router) {
		r.debug = enabled
	}
}

// WithAutoOptimize maintains an incremental prefix index at registration
// time for interpretive dispatch (loop mode off). Without it, interpretive
// dispatch scans every route. Default: true.
func WithAutoOptimize(enabled bool) Option {
	return func(r *Router) {
		r.autoOptimize = enabled
	}
}

// WithPruning enables the prefix and hint checks that reject a bundle
// before its regex runs. Default: true.
func WithPruning(enabled bool) Option {
	return func(r *Router) {
		r.pruning = enabled
	}
}

// WithLogger sets the structured logger. Default: NoopLogger().
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
//	r := dispatch.MustNew(dispatch.WithLogger(logger))
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithDiagnostics sets a handler for diagnostic events.
//
// Example:
//
//	dispatch.WithDiagnostics(dispatch.DiagnosticHandlerFunc(func(e dispatch.DiagnosticEvent) {
//	    slog.Warn(e.Message, "kind", e.Kind, "fields", e.Fields)
//	}))
func WithDiagnostics(handler DiagnosticHandler) Option {
	return func(r *Router) {
		r.diagnostics = handler
	}
}

// WithTracerProvider records a span for every table compilation.
//
// Example:
//
//	tp := sdktrace.NewTracerProvider()
//	r := dispatch.MustNew(dispatch.WithTracerProvider(tp))
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(r *Router) {
		if tp != nil {
			r.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithRunner replaces the collaborator that runs a matched route.
// The default calls the route handler with the extracted parameters.
func WithRunner(run Runner) Option {
	return func(r *Router) {
		if run != nil {
			r.runner = run
		}
	}
}

// WithUnmatched sets the collaborator told about requests without a
// matching route, typically one producing a 404 response.
func WithUnmatched(fn UnmatchedFunc) Option {
	return func(r *Router) {
		r.unmatched = fn
	}
}

// WithBloomFilterSize sets the bloom filter size in bits for static
// lookups. Default: sized from the number of static routes.
func WithBloomFilterSize(size uint64) Option {
	return func(r *Router) {
		r.compilerConfig.BloomSize = size
	}
}

// WithBloomFilterHashFunctions sets the number of bloom hash functions,
// clamped to [1, 10]. Default: 3.
func WithBloomFilterHashFunctions(numFuncs int) Option {
	return func(r *Router) {
		r.compilerConfig.BloomHashFuncs = max(1, min(numFuncs, 10))
	}
}

// WithBundleSize sets the maximum number of routes merged into one bundle
// regex. Default: 20.
func WithBundleSize(size int) Option {
	return func(r *Router) {
		r.compilerConfig.ChunkSize = size
	}
}
