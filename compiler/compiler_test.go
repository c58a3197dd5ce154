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
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/dispatch/route"
)

func TestCompile_Static(t *testing.T) {
	t.Parallel()

	first := newRoute(t, 0, "/health", "GET")
	dup := newRoute(t, 1, "/health", "GET")
	anyAbout := newRoute(t, 2, "/about")
	getAbout := newRoute(t, 3, "/about", "GET")
	post := newRoute(t, 4, "/submit", "POST")

	table, err := Compile([]*route.Route{first, dup, anyAbout, getAbout, post}, Config{})
	require.NoError(t, err)

	assert.Same(t, first, table.LookupStatic("get", "/health"), "earliest registration wins")
	assert.Same(t, getAbout, table.LookupStatic("get", "/about"), "concrete method beats any")
	assert.Same(t, anyAbout, table.LookupStatic("post", "/about"), "any merged into other methods")
	assert.Same(t, anyAbout, table.LookupStatic("delete", "/about"), "unknown method falls back to any")
	assert.Nil(t, table.LookupStatic("get", "/submit"))
	assert.Nil(t, table.LookupStatic("get", "/missing"))

	assert.Equal(t, []string{"*", "get", "post"}, table.Methods())

	rep := table.Report()
	assert.Equal(t, 5, rep.Routes)
	assert.Equal(t, 0, rep.Dynamic)
}

func TestCompile_StaticWithBloom(t *testing.T) {
	t.Parallel()

	routes := make([]*route.Route, 0, 50)
	for i := range 50 {
		routes = append(routes, newRoute(t, i, fmt.Sprintf("/page/%d", i), "GET"))
	}

	table, err := Compile(routes, Config{BloomHashFuncs: 4})
	require.NoError(t, err)

	for i, rt := range routes {
		assert.Same(t, rt, table.LookupStatic("get", fmt.Sprintf("/page/%d", i)))
	}
	assert.Nil(t, table.LookupStatic("get", "/page/50"))
}

func TestCompile_Dynamic(t *testing.T) {
	t.Parallel()

	patterns := make([]string, 45)
	for i := range patterns {
		patterns[i] = fmt.Sprintf("/items/:id/f%d", i)
	}
	routes := newRoutes(t, "GET", patterns...)
	wild := newRoute(t, 45, "/files/*", "*")
	routes = append(routes, wild)

	table, err := Compile(routes, Config{})
	require.NoError(t, err)

	rep := table.Report()
	assert.Equal(t, 46, rep.Dynamic)
	assert.Equal(t, 45, rep.HintsDropped, "single-route hint groups merge into the prefix bucket")
	assert.Equal(t, 2, rep.Buckets)
	assert.Equal(t, 4, rep.Bundles)

	assert.Len(t, table.Bundles("get"), 3)
	assert.Nil(t, table.Bundles("*"))
	require.Len(t, table.WildcardBundles(), 1)
	assert.Same(t, wild, table.WildcardBundles()[0].Head())

	for _, rt := range routes {
		assert.NotNil(t, rt.CachedRegexes(), "regexes are built during compile: %s", rt)
	}
}

func TestCompile_BundleSize(t *testing.T) {
	t.Parallel()

	routes := newRoutes(t, "GET", "/a/:x", "/a/:y/b", "/a/:z/c")
	table, err := Compile(routes, Config{ChunkSize: 1})
	require.NoError(t, err)
	assert.Len(t, table.Bundles("get"), 3)
}

func TestCompile_InvalidRule(t *testing.T) {
	t.Parallel()

	rt := newRoute(t, 0, "/users/:id", "GET")
	// Unowned routes skip rule validation, so compile catches it.
	require.NoError(t, rt.SetRules(map[string]string{"id": `\d{2,1}`}))

	table, err := Compile([]*route.Route{rt}, Config{})
	require.Error(t, err)
	assert.Nil(t, table)

	var ce *route.CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "/users/:id", ce.Pattern)
}

func TestCompile_Empty(t *testing.T) {
	t.Parallel()

	table, err := Compile(nil, Config{})
	require.NoError(t, err)
	assert.Nil(t, table.LookupStatic("get", "/"))
	assert.Empty(t, table.Bundles("get"))
	assert.Equal(t, 1, table.Trie().Len())
}
