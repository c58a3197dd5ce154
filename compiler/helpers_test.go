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
	"testing"

	"github.com/stretchr/testify/require"

	"rivaas.dev/dispatch/route"
)

var nopHandler = route.HandlerFunc(func(route.Params) error { return nil })

// newRoute builds an unowned route; seq orders ties like registration does.
func newRoute(t testing.TB, seq int, pattern string, methods ...string) *route.Route {
	t.Helper()

	rt, err := route.New(nil, seq, pattern, methods, nopHandler)
	require.NoError(t, err)
	return rt
}

// newRoutes registers patterns in order for one method.
func newRoutes(t testing.TB, method string, patterns ...string) []*route.Route {
	t.Helper()

	out := make([]*route.Route, len(patterns))
	for i, p := range patterns {
		out[i] = newRoute(t, i, p, method)
	}
	return out
}
