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
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"rivaas.dev/dispatch/compiler"
	"rivaas.dev/dispatch/route"
)

const tracerName = "rivaas.dev/dispatch"

var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// NoopLogger returns a logger that discards all output.
func NoopLogger() *slog.Logger {
	return noopLogger
}

type (
	// Handler is the capability a route dispatches to.
	Handler = route.Handler

	// HandlerFunc adapts a function to Handler.
	HandlerFunc = route.HandlerFunc

	// Params holds extracted path parameters.
	Params = route.Params
)

// Match is a resolved request: the winning route and its parameters.
type Match struct {
	Route  *route.Route
	Params route.Params
}

// Runner is the collaborator that runs a matched route.
type Runner func(m *Match) error

// UnmatchedFunc is the collaborator told about a request no route matches.
// The method and path are passed as received.
type UnmatchedFunc func(method, path string) error

// Option defines functional options for router configuration.
type Option func(*Router)

// Router owns a route registry and the tables compiled from it.
//
// Registration, rule changes and Reset are serialized. Lookups are safe for
// concurrent use: in loop mode they read an immutable compiled table that is
// published atomically after a successful compile.
type Router struct {
	loopMode       bool
	autoOptimize   bool
	pruning        bool
	debug          bool
	dispatcher     Dispatcher
	compilerConfig compiler.Config

	logger      *slog.Logger
	diagnostics DiagnosticHandler
	tracer      trace.Tracer
	runner      Runner
	unmatched   UnmatchedFunc

	// mu serializes registry mutation, compilation and Reset.
	mu  sync.Mutex
	reg atomic.Pointer[registry]
}

// registry is everything Reset discards, swapped as one unit.
type registry struct {
	mu        sync.RWMutex
	routes    []*route.Route
	byPattern map[string][]*route.Route
	tags      map[string]*route.Route
	index     *compiler.Trie // incremental prefix index, nil unless auto-optimizing interpretive dispatch

	// table is nil while stale.
	table atomic.Pointer[compiler.Table]
	stats *counters
}

// New creates a router.
//
// Defaults: loop mode with the fast dispatcher, pruning and auto-optimize
// enabled, debug counters disabled, no-op logger and tracer.
func New(opts ...Option) (*Router, error) {
	r := &Router{
		loopMode:     true,
		autoOptimize: true,
		pruning:      true,
		dispatcher:   DispatcherFast,
		compilerConfig: compiler.Config{
			ChunkSize:      compiler.DefaultChunkSize,
			MinHintBucket:  compiler.DefaultMinHintBucket,
			BloomHashFuncs: compiler.DefaultBloomHashFuncs,
		},
		logger: noopLogger,
		tracer: noop.NewTracerProvider().Tracer(tracerName),
		runner: runHandler,
	}

	for _, opt := range opts {
		opt(r)
	}

	if err := r.validate(); err != nil {
		return nil, err
	}

	r.reg.Store(r.newRegistry())

	return r, nil
}

// MustNew creates a router and panics on invalid options.
func MustNew(opts ...Option) *Router {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("dispatch.MustNew: %v", err))
	}
	return r
}

// validate checks the router configuration for common errors.
func (r *Router) validate() error {
	if !r.dispatcher.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidDispatcher, r.dispatcher)
	}
	if r.compilerConfig.ChunkSize <= 0 {
		return fmt.Errorf("%w: got %d", ErrBundleSizeInvalid, r.compilerConfig.ChunkSize)
	}

	return nil
}

func (r *Router) newRegistry() *registry {
	reg := &registry{
		byPattern: make(map[string][]*route.Route),
		tags:      make(map[string]*route.Route),
		stats:     &counters{},
	}
	if !r.loopMode && r.autoOptimize {
		reg.index = compiler.NewTrie()
	}

	return reg
}

func runHandler(m *Match) error {
	return m.Route.Handler().Handle(m.Params)
}

// owns reports whether rt belongs to the current registry.
func (reg *registry) owns(rt *route.Route) bool {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	seq := rt.Seq()
	return seq >= 0 && seq < len(reg.routes) && reg.routes[seq] == rt
}

// Register adds a route for a pattern and method set. Methods are
// case-insensitive; "*" or an empty set answers every method. Malformed
// patterns return a *CompileError.
//
// Registering a pattern again for an overlapping method set is allowed: the
// earlier route keeps precedence and a DiagDuplicateRoute event is emitted.
func (r *Router) Register(pattern string, methods []string, h Handler) (*route.Route, error) {
	if h == nil {
		return nil, ErrNilHandler
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	reg := r.reg.Load()

	reg.mu.RLock()
	seq := len(reg.routes)
	reg.mu.RUnlock()

	rt, err := route.New(r, seq, pattern, methods, h)
	if err != nil {
		return nil, err
	}
	if rt.Dynamic() {
		if err = compiler.ValidatePattern(rt.Pattern()); err != nil {
			return nil, err
		}
	}

	reg.mu.Lock()
	dups := reg.overlapping(rt)
	reg.routes = append(reg.routes, rt)
	reg.byPattern[rt.Pattern()] = append(reg.byPattern[rt.Pattern()], rt)
	if reg.index != nil {
		reg.index.Insert(rt)
	}
	reg.mu.Unlock()

	reg.table.Store(nil)

	if len(dups) > 0 {
		r.logger.Warn("duplicate route registration",
			"pattern", rt.Pattern(),
			"methods", rt.Methods(),
			"shadowed_by", dups[0].String(),
		)
		r.emit(DiagDuplicateRoute, "route registered twice, earliest registration wins", map[string]any{
			"pattern": rt.Pattern(),
			"methods": rt.Methods(),
			"first":   dups[0].Seq(),
		})
	}
	r.logger.Debug("route registered",
		"pattern", rt.Pattern(),
		"methods", rt.Methods(),
		"dynamic", rt.Dynamic(),
		"specificity", rt.Specificity(),
	)

	return rt, nil
}

// overlapping returns earlier routes with the same pattern sharing a method.
// The caller holds reg.mu.
func (reg *registry) overlapping(rt *route.Route) []*route.Route {
	var out []*route.Route
	for _, other := range reg.byPattern[rt.Pattern()] {
		for _, m := range rt.Methods() {
			if other.HasMethod(m) {
				out = append(out, other)
				break
			}
		}
	}

	return out
}

// mustRegister registers a route and panics on a malformed pattern.
func (r *Router) mustRegister(pattern string, methods []string, h Handler) *route.Route {
	rt, err := r.Register(pattern, methods, h)
	if err != nil {
		panic(fmt.Sprintf("dispatch: %v", err))
	}
	return rt
}

// Handle registers a route for a single method and panics on a malformed
// pattern.
func (r *Router) Handle(method, pattern string, h Handler) *route.Route {
	return r.mustRegister(pattern, []string{method}, h)
}

// GET registers a route for GET requests.
func (r *Router) GET(pattern string, h Handler) *route.Route {
	return r.Handle(http.MethodGet, pattern, h)
}

// POST registers a route for POST requests.
func (r *Router) POST(pattern string, h Handler) *route.Route {
	return r.Handle(http.MethodPost, pattern, h)
}

// PUT registers a route for PUT requests.
func (r *Router) PUT(pattern string, h Handler) *route.Route {
	return r.Handle(http.MethodPut, pattern, h)
}

// PATCH registers a route for PATCH requests.
func (r *Router) PATCH(pattern string, h Handler) *route.Route {
	return r.Handle(http.MethodPatch, pattern, h)
}

// DELETE registers a route for DELETE requests.
func (r *Router) DELETE(pattern string, h Handler) *route.Route {
	return r.Handle(http.MethodDelete, pattern, h)
}

// ANY registers a route answering every method.
func (r *Router) ANY(pattern string, h Handler) *route.Route {
	return r.Handle(route.AnyMethod, pattern, h)
}

// SetRules replaces the parameter rules of a route. Rules are validated
// before anything changes; the compiled table is rebuilt on next use.
//
// Example:
//
//	rt, _ := r.Register("/users/:id", []string{"GET"}, h)
//	err := r.SetRules(rt, map[string]string{"id": `\d+`})
func (r *Router) SetRules(rt *route.Route, rules map[string]string) error {
	if !r.reg.Load().owns(rt) {
		return ErrForeignRoute
	}

	return rt.SetRules(rules)
}

// SetTag names a route for URL. Tags are unique per router.
func (r *Router) SetTag(rt *route.Route, tag string) error {
	return rt.SetTag(tag)
}

// Routes returns the registered routes in registration order.
func (r *Router) Routes() []*route.Route {
	reg := r.reg.Load()
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	return slices.Clone(reg.routes)
}

// Reset discards every route, tag, compiled table and counter in one step.
// Routes registered before the reset no longer belong to the router.
func (r *Router) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reg.Store(r.newRegistry())
	r.logger.Debug("router reset")
}

// ValidateRules implements route.Registrar.
func (r *Router) ValidateRules(rt *route.Route, rules map[string]string) error {
	if !r.reg.Load().owns(rt) {
		return ErrForeignRoute
	}

	return compiler.ValidateRules(rt.Pattern(), rules)
}

// RulesChanged implements route.Registrar. The compiled table depends on
// every rule, so it is marked stale.
func (r *Router) RulesChanged(rt *route.Route) {
	r.mu.Lock()
	r.reg.Load().table.Store(nil)
	r.mu.Unlock()

	r.logger.Debug("route rules changed", "pattern", rt.Pattern(), "rules", rt.Rules())
	r.emit(DiagRulesChanged, "route rules changed", map[string]any{
		"pattern": rt.Pattern(),
		"rules":   rt.Rules(),
	})
}

// TagRoute implements route.Registrar.
func (r *Router) TagRoute(rt *route.Route, tag string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reg := r.reg.Load()
	if !reg.owns(rt) {
		return ErrForeignRoute
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if other, ok := reg.tags[tag]; ok && other != rt {
		return fmt.Errorf("%w: %s (%s)", ErrDuplicateTag, tag, other)
	}
	if old := rt.Tag(); old != "" {
		delete(reg.tags, old)
	}
	if tag != "" {
		reg.tags[tag] = rt
	}

	return nil
}

// URL builds a path for the route tagged tag.
//
// Example:
//
//	rt := r.GET("/users/:id(/:tab)", h)
//	_ = r.SetTag(rt, "user")
//	u, _ := r.URL("user", map[string]string{"id": "42"}) // "/users/42"
func (r *Router) URL(tag string, params map[string]string) (string, error) {
	reg := r.reg.Load()
	reg.mu.RLock()
	rt, ok := reg.tags[tag]
	reg.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTag, tag)
	}

	return rt.URL(params)
}
