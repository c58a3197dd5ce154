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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRegistrar struct {
	validateErr error
	changed     []*Route
	tags        map[string]*Route
}

func (r *recordingRegistrar) ValidateRules(*Route, map[string]string) error {
	return r.validateErr
}

func (r *recordingRegistrar) RulesChanged(rt *Route) {
	r.changed = append(r.changed, rt)
}

func (r *recordingRegistrar) TagRoute(rt *Route, tag string) error {
	if other, ok := r.tags[tag]; ok && other != rt {
		return errors.New("taken")
	}
	if r.tags == nil {
		r.tags = make(map[string]*Route)
	}
	r.tags[tag] = rt
	return nil
}

var nopHandler = HandlerFunc(func(Params) error { return nil })

func mustRoute(t *testing.T, reg Registrar, pattern string, methods ...string) *Route {
	t.Helper()

	rt, err := New(reg, 0, pattern, methods, nopHandler)
	require.NoError(t, err)
	return rt
}

func TestNew_Methods(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		methods []string
		want    []string
		any     bool
	}{
		{name: "empty means any", methods: nil, want: []string{AnyMethod}, any: true},
		{name: "lower-cased and sorted", methods: []string{"POST", "get"}, want: []string{"get", "post"}},
		{name: "deduplicated", methods: []string{"GET", "get", " Get "}, want: []string{"get"}},
		{name: "star with concrete", methods: []string{"*", "GET"}, want: []string{AnyMethod, "get"}, any: true},
		{name: "blank entries skipped", methods: []string{"", "  "}, want: []string{AnyMethod}, any: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rt := mustRoute(t, nil, "/x", tt.methods...)
			assert.Equal(t, tt.want, rt.Methods())
			assert.Equal(t, tt.any, rt.AnswersAny())
		})
	}
}

func TestRoute_HasMethod(t *testing.T) {
	t.Parallel()

	rt := mustRoute(t, nil, "/x", "GET", "PUT")
	assert.True(t, rt.HasMethod("get"))
	assert.True(t, rt.HasMethod("put"))
	assert.False(t, rt.HasMethod("post"))
	assert.False(t, rt.HasMethod("*"))
	assert.Equal(t, "GET,PUT /x", rt.String())
}

func TestRoute_SetRules(t *testing.T) {
	t.Parallel()

	t.Run("stores rules and notifies", func(t *testing.T) {
		t.Parallel()

		reg := &recordingRegistrar{}
		rt := mustRoute(t, reg, "/users/:id", "GET")
		_, v0 := rt.RulesVersion()

		require.NoError(t, rt.SetRules(map[string]string{"id": `\d+`}))

		rules, v1 := rt.RulesVersion()
		assert.Equal(t, map[string]string{"id": `\d+`}, rules)
		assert.NotEqual(t, v0, v1)
		assert.Equal(t, []*Route{rt}, reg.changed)
	})

	t.Run("unknown parameter", func(t *testing.T) {
		t.Parallel()

		reg := &recordingRegistrar{}
		rt := mustRoute(t, reg, "/users/:id", "GET")

		err := rt.SetRules(map[string]string{"name": `\w+`})
		require.ErrorIs(t, err, ErrUnknownParam)

		var ce *CompileError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "name", ce.Param)
		assert.Empty(t, reg.changed)
	})

	t.Run("registrar rejects", func(t *testing.T) {
		t.Parallel()

		reg := &recordingRegistrar{validateErr: ErrInvalidRule}
		rt := mustRoute(t, reg, "/users/:id", "GET")

		require.ErrorIs(t, rt.SetRules(map[string]string{"id": `(`}), ErrInvalidRule)
		assert.Empty(t, rt.Rules())
		assert.Empty(t, reg.changed)
	})

	t.Run("drops cached regexes", func(t *testing.T) {
		t.Parallel()

		rt := mustRoute(t, nil, "/users/:id", "GET")
		_, v := rt.RulesVersion()
		rt.CacheRegexes(v, &Regexes{})
		require.NotNil(t, rt.CachedRegexes())

		require.NoError(t, rt.SetRules(map[string]string{"id": `\d+`}))
		assert.Nil(t, rt.CachedRegexes())

		// Regexes built from the old rules are discarded.
		rt.CacheRegexes(v, &Regexes{})
		assert.Nil(t, rt.CachedRegexes())
	})
}

func TestRoute_Where(t *testing.T) {
	t.Parallel()

	rt := mustRoute(t, nil, "/posts/:year/:slug", "GET").
		WhereInt("year").
		WhereSlug("slug")

	year, ok := rt.Rule("year")
	require.True(t, ok)
	assert.Equal(t, `-?\d+`, year)

	_, ok = rt.Rule("missing")
	assert.False(t, ok)

	assert.Panics(t, func() { rt.Where("nope", `\d+`) })
}

func TestRoute_SetTag(t *testing.T) {
	t.Parallel()

	reg := &recordingRegistrar{}
	a := mustRoute(t, reg, "/a", "GET")
	b := mustRoute(t, reg, "/b", "GET")

	require.NoError(t, a.SetTag("home"))
	assert.Equal(t, "home", a.Tag())
	require.Error(t, b.SetTag("home"))
	assert.Empty(t, b.Tag())
}

func TestRule_Fragment(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Rule{}.Fragment())
	assert.Equal(t, `(a\.b|c)`, Rule{Kind: RuleEnum, Enum: []string{"a.b", "c"}}.Fragment())
	assert.Equal(t, `x+`, Rule{Kind: RuleRegex, Pattern: `x+`}.Fragment())

	frags := Fragments(map[string]Rule{
		"id":   {Kind: RuleInt},
		"none": {},
	})
	assert.Equal(t, map[string]string{"id": `-?\d+`}, frags)
}

func TestParams_Get(t *testing.T) {
	t.Parallel()

	p := Params{"id": "42"}
	v, ok := p.Get("id")
	assert.True(t, ok)
	assert.Equal(t, "42", v)

	_, ok = Params(nil).Get("id")
	assert.False(t, ok)
}
