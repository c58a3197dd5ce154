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
	"slices"
	"strings"

	"rivaas.dev/dispatch/route"
)

// bucketKey groups dynamic routes that can be rejected by the same
// literal checks.
type bucketKey struct {
	prefix  string
	hint    string
	hintPos int
}

// bucket is a set of same-method dynamic routes in precedence order.
type bucket struct {
	key    bucketKey
	routes []*route.Route
}

// prefixString renders static prefix segments as a path ("" for none).
func prefixString(segs []string) string {
	if len(segs) == 0 {
		return ""
	}

	return "/" + strings.Join(segs, "/")
}

// Hint returns the first literal segment after a route's dynamic boundary
// and its segment index. A hint is only reported when its position is fixed:
// the pattern has no optional groups and every segment before the hint
// spans exactly one path segment.
func Hint(rt *route.Route) (string, int, bool) {
	a := rt.Analysis()
	if !a.Dynamic || a.Optional {
		return "", 0, false
	}

	rules := rt.Rules()
	segs := route.SplitSegments(a.Pattern)
	for i := len(a.Prefix); i < len(segs); i++ {
		seg := segs[i]
		if seg != "" && route.IsLiteral(seg) {
			return seg, i, true
		}
		if !singleSegment(seg, rules) {
			return "", 0, false
		}
	}

	return "", 0, false
}

// singleSegment reports whether a pattern segment always matches exactly
// one path segment: plain text and parameters whose rules cannot match '/'.
func singleSegment(seg string, rules map[string]string) bool {
	if seg == "" || strings.ContainsAny(seg, `()?[*+\|`) {
		return false
	}

	for i := 0; i < len(seg); i++ {
		if seg[i] != ':' {
			continue
		}
		name := route.ParamName(seg, i)
		if frag := rules[name]; frag != "" && MayMatchSlash(frag) {
			return false
		}
		i += len(name)
	}

	return true
}

// bucketize groups routes (already in precedence order) by prefix and hint.
// Groups smaller than minHint lose their hint and merge into the plain
// prefix group. It returns the buckets and the number of dropped hints.
func bucketize(routes []*route.Route, minHint int) ([]*bucket, int) {
	var (
		order   []bucketKey
		grouped = make(map[bucketKey][]*route.Route)
	)
	add := func(key bucketKey, rts ...*route.Route) {
		if _, ok := grouped[key]; !ok {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], rts...)
	}

	for _, rt := range routes {
		key := bucketKey{prefix: prefixString(rt.Prefix())}
		if hint, pos, ok := Hint(rt); ok {
			key.hint = hint
			key.hintPos = pos
		}
		add(key, rt)
	}

	dropped := 0
	for _, key := range slices.Clone(order) {
		if key.hint == "" || len(grouped[key]) >= minHint {
			continue
		}
		rts := grouped[key]
		delete(grouped, key)
		add(bucketKey{prefix: key.prefix}, rts...)
		dropped++
	}

	buckets := make([]*bucket, 0, len(grouped))
	for _, key := range order {
		rts, ok := grouped[key]
		if !ok {
			continue
		}
		slices.SortStableFunc(rts, ComparePrecedence)
		buckets = append(buckets, &bucket{key: key, routes: rts})
	}

	return buckets, dropped
}
