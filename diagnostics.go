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

// DiagnosticEvent represents an informational event from the router that
// is not part of normal dispatch, such as duplicate registrations.
type DiagnosticEvent struct {
	Kind    DiagnosticKind
	Message string
	Fields  map[string]any // Structured context
}

// DiagnosticKind categorizes diagnostic events.
type DiagnosticKind string

const (
	// DiagDuplicateRoute is emitted when a pattern is registered again for an
	// overlapping method set. The earlier registration keeps precedence.
	DiagDuplicateRoute DiagnosticKind = "route_duplicate"

	// DiagRoutesCompiled is emitted after a table has been built and published.
	DiagRoutesCompiled DiagnosticKind = "routes_compiled"

	// DiagHintDropped is emitted when buckets were too small to keep a hint.
	DiagHintDropped DiagnosticKind = "bucket_hint_dropped"

	// DiagRulesChanged is emitted when a route's rules change after registration.
	DiagRulesChanged DiagnosticKind = "route_rules_changed"
)

// DiagnosticHandler receives diagnostic events.
// Implementations must be safe for concurrent use.
type DiagnosticHandler interface {
	OnDiagnostic(DiagnosticEvent)
}

// DiagnosticHandlerFunc is a function adapter for DiagnosticHandler.
type DiagnosticHandlerFunc func(DiagnosticEvent)

// OnDiagnostic implements DiagnosticHandler.
func (f DiagnosticHandlerFunc) OnDiagnostic(e DiagnosticEvent) {
	f(e)
}

func (r *Router) emit(kind DiagnosticKind, message string, fields map[string]any) {
	if r.diagnostics == nil {
		return
	}
	r.diagnostics.OnDiagnostic(DiagnosticEvent{Kind: kind, Message: message, Fields: fields})
}
