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
	"regexp"
	"strconv"
	"strings"

	"rivaas.dev/dispatch/route"
)

// Member maps one alternative of a bundle back to its route. Group is the
// capture group index of the alternative's label; Params holds the capture
// group index of each parameter, in Names order.
type Member struct {
	Route  *route.Route
	Group  int
	Params []int
	Names  []string
}

// Bundle is one alternation regex over a chunk of same-bucket routes.
// At most one labeled alternative takes part in a match; because Go's
// regexp is leftmost-first, it is the first (best ranked) member that
// matches the whole path.
type Bundle struct {
	Prefix  string // literal path prefix, "" for none
	Hint    string // literal discriminant segment, "" if unused
	HintPos int    // segment index of Hint
	Regex   *regexp.Regexp
	Members []Member
}

// Head returns the best ranked member route.
func (b *Bundle) Head() *route.Route {
	return b.Members[0].Route
}

// PrefixMatches reports whether path starts with the bundle prefix on a
// segment boundary.
func (b *Bundle) PrefixMatches(path string) bool {
	if b.Prefix == "" {
		return true
	}
	if !strings.HasPrefix(path, b.Prefix) {
		return false
	}

	return len(path) == len(b.Prefix) || path[len(b.Prefix)] == '/'
}

// HintMatches reports whether the path segment at HintPos equals Hint.
// Bundles without a hint always pass.
func (b *Bundle) HintMatches(path string) bool {
	if b.Hint == "" {
		return true
	}
	seg, ok := SegmentAt(path, b.HintPos)

	return ok && seg == b.Hint
}

// Match runs the bundle regex once and returns the member route that
// matched together with its parameters.
func (b *Bundle) Match(path string) (*route.Route, route.Params, bool) {
	m := b.Regex.FindStringSubmatchIndex(path)
	if m == nil {
		return nil, nil, false
	}

	for i := range b.Members {
		mem := &b.Members[i]
		if m[2*mem.Group] < 0 {
			continue
		}

		params := make(route.Params, len(mem.Params))
		for j, g := range mem.Params {
			if m[2*g] >= 0 {
				params[mem.Names[j]] = path[m[2*g]:m[2*g+1]]
			}
		}

		return mem.Route, params, true
	}

	return nil, nil, false
}

// buildBundles splits a bucket into chunks of at most size routes and
// compiles one alternation per chunk:
//
//	^(?:(?P<__r0>frag0)|(?P<__r1>frag1)|...)/?$
func buildBundles(bk *bucket, size int) ([]*Bundle, error) {
	bundles := make([]*Bundle, 0, (len(bk.routes)+size-1)/size)

	for start := 0; start < len(bk.routes); start += size {
		chunk := bk.routes[start:min(start+size, len(bk.routes))]

		var src strings.Builder
		src.WriteString("^(?:")
		members := make([]Member, 0, len(chunk))
		group := 1
		for k, rt := range chunk {
			f, err := Translate(rt.Pattern(), rt.Rules())
			if err != nil {
				return nil, err
			}
			if k > 0 {
				src.WriteByte('|')
			}
			src.WriteString("(?P<__r" + strconv.Itoa(k) + ">")
			src.WriteString(f.Bundle)
			src.WriteByte(')')

			mem := Member{Route: rt, Group: group, Names: f.Params}
			for j := range f.Params {
				mem.Params = append(mem.Params, group+1+j)
			}
			members = append(members, mem)
			group += 1 + len(f.Params)
		}
		src.WriteString(")/?$")

		re, err := regexp.Compile(src.String())
		if err != nil {
			return nil, &route.CompileError{Pattern: chunk[0].Pattern(), Err: fmt.Errorf("%w: bundle: %v", route.ErrInvalidPattern, err)}
		}
		if re.NumSubexp() != group-1 {
			return nil, fmt.Errorf("compiler: bundle has %d groups, expected %d", re.NumSubexp(), group-1)
		}

		bundles = append(bundles, &Bundle{
			Prefix:  bk.key.prefix,
			Hint:    bk.key.hint,
			HintPos: bk.key.hintPos,
			Regex:   re,
			Members: members,
		})
	}

	return bundles, nil
}

// SegmentAt returns the pos-th segment of a normalized path without
// allocating.
func SegmentAt(path string, pos int) (string, bool) {
	if len(path) == 0 || path[0] != '/' {
		return "", false
	}

	rest := path[1:]
	for i := 0; ; i++ {
		end := strings.IndexByte(rest, '/')
		if i == pos {
			if end < 0 {
				return rest, true
			}
			return rest[:end], true
		}
		if end < 0 {
			return "", false
		}
		rest = rest[end+1:]
	}
}
