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
	"context"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"rivaas.dev/dispatch/compiler"
)

// Compile builds the dispatch table from the registered routes and
// publishes it. It is idempotent: when nothing changed since the last
// compile the published table is kept.
//
// Compile is optional. In loop mode a stale table is rebuilt by the first
// lookup that needs it; with loop mode off tables are never consulted.
// On error no table is published and the previous state stays stale.
func (r *Router) Compile() error {
	_, err := r.compile(r.reg.Load())
	return err
}

// Compiled reports whether a current table is published.
func (r *Router) Compiled() bool {
	return r.reg.Load().table.Load() != nil
}

func (r *Router) compile(reg *registry) (*compiler.Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t := reg.table.Load(); t != nil {
		return t, nil
	}

	_, span := r.tracer.Start(context.Background(), "dispatch.compile")
	defer span.End()

	start := time.Now()

	reg.mu.RLock()
	routes := slices.Clone(reg.routes)
	reg.mu.RUnlock()

	t, err := compiler.Compile(routes, r.compilerConfig)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.logger.Error("route compilation failed", "error", err, "routes", len(routes))
		return nil, err
	}

	reg.table.Store(t)
	r.recorder(reg).add(statCompiles, 1)

	rep := t.Report()
	span.SetAttributes(
		attribute.Int("dispatch.routes", rep.Routes),
		attribute.Int("dispatch.routes.static", rep.Static),
		attribute.Int("dispatch.routes.dynamic", rep.Dynamic),
		attribute.Int("dispatch.buckets", rep.Buckets),
		attribute.Int("dispatch.bundles", rep.Bundles),
		attribute.Int("dispatch.hints_dropped", rep.HintsDropped),
	)
	span.SetStatus(codes.Ok, "")

	r.logger.Debug("routes compiled",
		"routes", rep.Routes,
		"static", rep.Static,
		"dynamic", rep.Dynamic,
		"bundles", rep.Bundles,
		"duration", time.Since(start),
	)
	r.emit(DiagRoutesCompiled, "dispatch table compiled", map[string]any{
		"routes":  rep.Routes,
		"buckets": rep.Buckets,
		"bundles": rep.Bundles,
	})
	if rep.HintsDropped > 0 {
		r.emit(DiagHintDropped, "buckets below the hint threshold merged into their prefix bucket", map[string]any{
			"buckets": rep.HintsDropped,
		})
	}

	return t, nil
}
