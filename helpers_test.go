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
	"testing"

	"github.com/stretchr/testify/require"

	"rivaas.dev/dispatch/route"
)

var nop = HandlerFunc(func(Params) error { return nil })

// modes lists every way a router can resolve requests.
var modes = []struct {
	name string
	opts []Option
}{
	{name: "fast", opts: []Option{WithDispatcher(DispatcherFast)}},
	{name: "fast without pruning", opts: []Option{WithDispatcher(DispatcherFast), WithPruning(false)}},
	{name: "tree", opts: []Option{WithDispatcher(DispatcherTree)}},
	{name: "indexed", opts: []Option{WithLoopMode(false), WithAutoOptimize(true)}},
	{name: "scan", opts: []Option{WithLoopMode(false), WithAutoOptimize(false)}},
}

// fixture is a route set exercising every precedence class.
type fixture struct {
	root, users, userByID, userBySlug, posts, latest *route.Route
	anyFile, txtFile, health, about, createUser       *route.Route
	archive, usersList, putUser                       *route.Route
}

func newFixture(t testing.TB, r *Router) *fixture {
	t.Helper()

	f := &fixture{}
	f.root = r.GET("/", nop)
	f.users = r.GET("/users", nop)
	f.userByID = r.GET("/users/:id", nop).WhereInt("id")
	f.userBySlug = r.GET("/users/:s", nop)
	f.posts = r.GET("/users/:id/posts(/:page)", nop)
	f.latest = r.GET("/users/:id/posts/latest", nop)
	f.anyFile = r.ANY("/files/*", nop)
	f.txtFile = r.GET("/files/:name.txt", nop)
	f.health = r.ANY("/health", nop)
	f.about = r.GET("/:section/about", nop)
	f.createUser = r.POST("/users", nop)
	f.archive = r.GET("/archive(/:year(/:month))", nop)
	require.NoError(t, r.SetRules(f.archive, map[string]string{"year": `\d{4}`, "month": `\d{2}`}))
	f.usersList = r.GET("/users/list", nop)
	f.putUser = r.PUT("/users/:id", nop)

	return f
}

type fixtureCase struct {
	method string
	path   string
	want   func(f *fixture) *route.Route
	params Params
}

func fixtureCases() []fixtureCase {
	return []fixtureCase{
		{"GET", "/", func(f *fixture) *route.Route { return f.root }, Params{}},
		{"GET", "", func(f *fixture) *route.Route { return f.root }, Params{}},
		{"GET", "/users/", func(f *fixture) *route.Route { return f.users }, Params{}},
		{"get", "/users", func(f *fixture) *route.Route { return f.users }, Params{}},
		{"POST", "/users", func(f *fixture) *route.Route { return f.createUser }, Params{}},
		{"DELETE", "/users", nil, nil},
		{"GET", "/users/42", func(f *fixture) *route.Route { return f.userByID }, Params{"id": "42"}},
		{"GET", "/users/bob", func(f *fixture) *route.Route { return f.userBySlug }, Params{"s": "bob"}},
		{"GET", "/users/list", func(f *fixture) *route.Route { return f.usersList }, Params{}},
		{"GET", "/users/42/posts", func(f *fixture) *route.Route { return f.posts }, Params{"id": "42"}},
		{"GET", "/users/42/posts/3", func(f *fixture) *route.Route { return f.posts }, Params{"id": "42", "page": "3"}},
		{"GET", "/users/42/posts/latest", func(f *fixture) *route.Route { return f.latest }, Params{"id": "42"}},
		{"GET", "/files/a.txt", func(f *fixture) *route.Route { return f.txtFile }, Params{"name": "a"}},
		{"GET", "/files/a/b/c", func(f *fixture) *route.Route { return f.anyFile }, Params{}},
		{"POST", "/files/a.txt", func(f *fixture) *route.Route { return f.anyFile }, Params{}},
		{"GET", "/health", func(f *fixture) *route.Route { return f.health }, Params{}},
		{"DELETE", "/health", func(f *fixture) *route.Route { return f.health }, Params{}},
		{"GET", "/team/about", func(f *fixture) *route.Route { return f.about }, Params{"section": "team"}},
		{"GET", "/archive", func(f *fixture) *route.Route { return f.archive }, Params{}},
		{"GET", "/archive/2024", func(f *fixture) *route.Route { return f.archive }, Params{"year": "2024"}},
		{"GET", "/archive/2024/07", func(f *fixture) *route.Route { return f.archive }, Params{"year": "2024", "month": "07"}},
		{"GET", "/archive/24", nil, nil},
		{"PUT", "/users/7", func(f *fixture) *route.Route { return f.putUser }, Params{"id": "7"}},
		{"PUT", "/users/list", func(f *fixture) *route.Route { return f.putUser }, Params{"id": "list"}},
		{"GET", "/nope/nope/nope", nil, nil},
	}
}
