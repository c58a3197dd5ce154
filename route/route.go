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

package route

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
)

// AnyMethod is the method set entry that matches every request method.
const AnyMethod = "*"

// Params holds the parameter values extracted from a matched path.
// Optional parameters that did not take part in the match are absent.
type Params map[string]string

// Get returns the value of a parameter and whether it was matched.
func (p Params) Get(name string) (string, bool) {
	v, ok := p[name]
	return v, ok
}

// Handler is the capability a route dispatches to.
type Handler interface {
	Handle(params Params) error
}

// HandlerFunc adapts an ordinary function to the Handler interface.
type HandlerFunc func(params Params) error

// Handle calls f(params).
func (f HandlerFunc) Handle(params Params) error {
	return f(params)
}

// Regexes holds the compiled regular expressions of a dynamic route.
// Extract carries one named group per parameter, Match carries none.
type Regexes struct {
	Match   *regexp.Regexp
	Extract *regexp.Regexp
}

// Registrar is implemented by the router that owns a route. It validates
// and observes late-bound route changes.
type Registrar interface {
	ValidateRules(rt *Route, rules map[string]string) error
	RulesChanged(rt *Route)
	TagRoute(rt *Route, tag string) error
}

// Route is one registered route. Everything except its rules and tag is
// immutable after registration.
type Route struct {
	analysis  Analysis
	methods   []string
	anyMethod bool
	handler   Handler
	seq       int
	registrar Registrar

	mu      sync.RWMutex
	rules   map[string]string
	version uint64
	tag     string
	regexes atomic.Pointer[Regexes]
}

// New analyzes pattern and creates a route answering to methods.
// Methods are lower-cased; an empty set means AnyMethod.
// seq orders routes by registration and breaks specificity ties.
func New(registrar Registrar, seq int, pattern string, methods []string, handler Handler) (*Route, error) {
	a, err := Analyze(pattern)
	if err != nil {
		return nil, err
	}

	set := make([]string, 0, len(methods))
	for _, m := range methods {
		m = strings.ToLower(strings.TrimSpace(m))
		if m == "" || slices.Contains(set, m) {
			continue
		}
		set = append(set, m)
	}
	if len(set) == 0 {
		set = append(set, AnyMethod)
	}
	slices.Sort(set)

	return &Route{
		analysis:  a,
		methods:   set,
		anyMethod: slices.Contains(set, AnyMethod),
		handler:   handler,
		seq:       seq,
		registrar: registrar,
	}, nil
}

// Pattern returns the normalized pattern (e.g., "/users/:id").
func (r *Route) Pattern() string {
	return r.analysis.Pattern
}

// Analysis returns the pattern analysis computed at registration.
func (r *Route) Analysis() Analysis {
	return r.analysis
}

// Methods returns the sorted, lower-cased method set.
func (r *Route) Methods() []string {
	return slices.Clone(r.methods)
}

// HasMethod reports whether method (lower-cased) is in the method set.
// It matches literally: a route registered for AnyMethod only reports true
// for "*".
func (r *Route) HasMethod(method string) bool {
	_, found := slices.BinarySearch(r.methods, method)
	return found
}

// AnswersAny reports whether the route was registered for AnyMethod.
func (r *Route) AnswersAny() bool {
	return r.anyMethod
}

// Dynamic reports whether the route needs regex matching.
func (r *Route) Dynamic() bool {
	return r.analysis.Dynamic
}

// Params returns the parameter names in declaration order.
func (r *Route) Params() []string {
	return r.analysis.Params
}

// Prefix returns the literal segments before the first dynamic boundary.
func (r *Route) Prefix() []string {
	return r.analysis.Prefix
}

// Specificity returns the route's precedence score; higher wins ties.
func (r *Route) Specificity() int {
	return r.analysis.Specificity
}

// Seq returns the registration sequence number.
func (r *Route) Seq() int {
	return r.seq
}

// Handler returns the handler the route dispatches to.
func (r *Route) Handler() Handler {
	return r.handler
}

// Registrar returns the router that owns the route.
func (r *Route) Registrar() Registrar {
	return r.registrar
}

// Tag returns the route's unique name, or "".
func (r *Route) Tag() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.tag
}

// SetTag names the route for reverse URL generation. Tags are unique per
// router; the owning router rejects duplicates.
func (r *Route) SetTag(tag string) error {
	if r.registrar != nil {
		if err := r.registrar.TagRoute(r, tag); err != nil {
			return err
		}
	}

	r.mu.Lock()
	r.tag = tag
	r.mu.Unlock()

	return nil
}

// Rules returns a copy of the parameter rules.
func (r *Route) Rules() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return maps.Clone(r.rules)
}

// Rule returns the rule fragment for a parameter.
func (r *Route) Rule(param string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	frag, ok := r.rules[param]
	return frag, ok
}

// RulesVersion returns the rules together with a version number that
// changes whenever the rules do. Pass the version to CacheRegexes.
func (r *Route) RulesVersion() (map[string]string, uint64) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return maps.Clone(r.rules), r.version
}

// SetRules replaces the parameter rules. Every rule must name a declared
// parameter and is validated by the owning router before it is stored.
// Cached regexes are dropped.
func (r *Route) SetRules(rules map[string]string) error {
	for param := range rules {
		if !slices.Contains(r.analysis.Params, param) {
			return &CompileError{Pattern: r.analysis.Pattern, Param: param, Err: ErrUnknownParam}
		}
	}

	if r.registrar != nil {
		if err := r.registrar.ValidateRules(r, rules); err != nil {
			return err
		}
	}

	r.mu.Lock()
	r.rules = maps.Clone(rules)
	r.version++
	r.regexes.Store(nil)
	r.mu.Unlock()

	if r.registrar != nil {
		r.registrar.RulesChanged(r)
	}

	return nil
}

// Where constrains one parameter with a regex fragment, keeping the other
// rules. It panics if the fragment is invalid, so that mistakes surface
// while routes are being declared.
//
// Example:
//
//	r.GET("/users/:id", h).Where("id", `\d+`)
func (r *Route) Where(param, fragment string) *Route {
	rules := r.Rules()
	if rules == nil {
		rules = make(map[string]string, 1)
	}
	rules[param] = fragment

	if err := r.SetRules(rules); err != nil {
		panic(fmt.Sprintf("route: %v", err))
	}

	return r
}

// CachedRegexes returns the compiled regexes, or nil if they have not been
// built since the last rule change.
func (r *Route) CachedRegexes() *Regexes {
	return r.regexes.Load()
}

// CacheRegexes stores compiled regexes built from the rules of the given
// version. Regexes built from outdated rules are discarded.
func (r *Route) CacheRegexes(version uint64, rx *Regexes) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.version == version {
		r.regexes.Store(rx)
	}
}

// String returns a short description for logs and test failures.
func (r *Route) String() string {
	return strings.ToUpper(strings.Join(r.methods, ",")) + " " + r.analysis.Pattern
}
