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
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/dispatch/route"
)

func TestTranslate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
		rules   map[string]string
		extract string
		match   string
		bundle  string
		params  []string
	}{
		{
			name:    "default rule",
			pattern: "/users/:id",
			extract: `^(?:/users/(?P<id>[^/]+))/?$`,
			match:   `^(?:/users/(?:[^/]+))/?$`,
			bundle:  `/users/([^/]+)`,
			params:  []string{"id"},
		},
		{
			name:    "optional group with rule",
			pattern: "/users(/:id)",
			rules:   map[string]string{"id": `\d+`},
			extract: `^(?:/users(?:/(?P<id>\d+))?)/?$`,
			match:   `^(?:/users(?:/(?:\d+))?)/?$`,
			bundle:  `/users(?:/(\d+))?`,
			params:  []string{"id"},
		},
		{
			name:    "capturing rule is neutralized",
			pattern: "/:kind",
			rules:   map[string]string{"kind": `(a|b)`},
			extract: `^(?:/(?P<kind>(?:a|b)))/?$`,
			match:   `^(?:/(?:(?:a|b)))/?$`,
			bundle:  `/((?:a|b))`,
			params:  []string{"kind"},
		},
		{
			name:    "wildcard",
			pattern: "/files/*",
			extract: `^(?:/files/.*)/?$`,
			match:   `^(?:/files/.*)/?$`,
			bundle:  `/files/.*`,
		},
		{
			name:    "dot is literal",
			pattern: "/feed.:format",
			extract: `^(?:/feed\.(?P<format>[^/]+))/?$`,
			match:   `^(?:/feed\.(?:[^/]+))/?$`,
			bundle:  `/feed\.([^/]+)`,
			params:  []string{"format"},
		},
		{
			name:    "inline class copied",
			pattern: "/v[0-9]+/:id",
			extract: `^(?:/v[0-9]+/(?P<id>[^/]+))/?$`,
			match:   `^(?:/v[0-9]+/(?:[^/]+))/?$`,
			bundle:  `/v[0-9]+/([^/]+)`,
			params:  []string{"id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f, err := Translate(tt.pattern, tt.rules)
			require.NoError(t, err)
			assert.Equal(t, tt.extract, f.Extract)
			assert.Equal(t, tt.match, f.Match)
			assert.Equal(t, tt.bundle, f.Bundle)
			assert.Equal(t, tt.params, f.Params)

			re := regexp.MustCompile(f.Extract)
			assert.Equal(t, len(tt.params), re.NumSubexp())
			assert.Zero(t, regexp.MustCompile(f.Match).NumSubexp())
		})
	}
}

func TestNonCapturing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{`\d+`, `\d+`},
		{`(a|b)`, `(?:a|b)`},
		{`((a)(b))`, `(?:(?:a)(?:b))`},
		{`(?P<x>\d+)`, `(?:\d+)`},
		{`(?<x>\d+)`, `(?:\d+)`},
		{`(?:a)`, `(?:a)`},
		{`(?i)abc`, `(?i)abc`},
		{`(?i:abc)`, `(?i:abc)`},
		{`\(x\)`, `\(x\)`},
		{`[(]+`, `[(]+`},
		{`[[:alpha:])]+`, `[[:alpha:])]+`},
		{`\Q(\E+`, `\Q(\E+`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := NonCapturing(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			re, err := regexp.Compile(got)
			require.NoError(t, err)
			assert.Zero(t, re.NumSubexp())
		})
	}
}

func TestNonCapturing_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want error
	}{
		{`(a`, route.ErrUnbalancedGroup},
		{`a)`, route.ErrUnbalancedGroup},
		{`a\`, route.ErrInvalidRule},
		{`[abc`, route.ErrInvalidRule},
		{`(?P<x`, route.ErrInvalidRule},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			_, err := NonCapturing(tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func FuzzNonCapturing(f *testing.F) {
	for _, seed := range []string{`\d+`, `(a|b)`, `(?P<n>x)`, `[(]`, `\Q(\E`, `(?i)(x)`, `[[:digit:]]{2}`} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, fragment string) {
		if _, err := regexp.Compile(fragment); err != nil {
			return
		}
		nc, err := NonCapturing(fragment)
		if err != nil {
			return
		}

		re, err := regexp.Compile(nc)
		require.NoError(t, err, "fragment %q rewritten to %q", fragment, nc)
		assert.Zero(t, re.NumSubexp(), "fragment %q rewritten to %q", fragment, nc)
	})
}

func TestValidateRule(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateRule("/users/:id", "id", `\d+`))

	err := ValidateRule("/users/:id", "id", `(\d+`)
	require.ErrorIs(t, err, route.ErrUnbalancedGroup)

	err = ValidateRule("/users/:id", "id", `\d{2,1}`)
	require.ErrorIs(t, err, route.ErrInvalidRule)

	var ce *route.CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "id", ce.Param)
	assert.Equal(t, "/users/:id", ce.Pattern)
}

func TestValidatePattern(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidatePattern("/users/:id(/:tab)"))
	require.ErrorIs(t, ValidatePattern("/a/x{2,1}"), route.ErrInvalidPattern)
}

func TestRouteRegexes_Cached(t *testing.T) {
	t.Parallel()

	rt := newRoute(t, 0, "/users/:id", "GET")
	rx1, err := RouteRegexes(rt)
	require.NoError(t, err)
	rx2, err := RouteRegexes(rt)
	require.NoError(t, err)
	assert.Same(t, rx1, rx2)

	require.NoError(t, rt.SetRules(map[string]string{"id": `\d+`}))
	rx3, err := RouteRegexes(rt)
	require.NoError(t, err)
	assert.NotSame(t, rx1, rx3)
	assert.False(t, rx3.Match.MatchString("/users/abc"))
}

func TestExtract(t *testing.T) {
	t.Parallel()

	f, err := Translate("/users/:id(/:tab)", nil)
	require.NoError(t, err)
	re := regexp.MustCompile(f.Extract)

	params, ok := Extract(re, "/users/42")
	require.True(t, ok)
	assert.Equal(t, route.Params{"id": "42"}, params)

	params, ok = Extract(re, "/users/42/posts/")
	require.True(t, ok)
	assert.Equal(t, route.Params{"id": "42", "tab": "posts"}, params)

	_, ok = Extract(re, "/teams/1")
	assert.False(t, ok)
}

func TestMayMatchSlash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		fragment string
		want     bool
	}{
		{`[^/]+`, false},
		{`\d+`, false},
		{`[a-z0-9-]+`, false},
		{`.*`, true},
		{`.+`, true},
		{`[a/b]`, true},
		{`a/b`, true},
		{`\S+`, true},
		{`(`, true},
	}

	for _, tt := range tests {
		t.Run(tt.fragment, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, MayMatchSlash(tt.fragment))
		})
	}
}
