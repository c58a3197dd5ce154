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
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// segmentKind distinguishes the parts of a reverse pattern.
type segmentKind uint8

const (
	segmentStatic segmentKind = iota
	segmentParam
	segmentOptional
)

// Segment is one part of a reverse pattern: static text, a parameter, or an
// optional group holding further segments.
type Segment struct {
	kind     segmentKind
	Value    string    // static text or parameter name
	Children []Segment // for optional groups
}

// ReversePattern is a pattern parsed for URL building (reverse routing).
type ReversePattern struct {
	Segments []Segment
}

// ParseReversePattern parses a normalized pattern for URL building.
// Patterns that contain '*' or raw regex syntax are not reversible.
//
// Example: "/users/:id(/:tab)" ->
// [{static:"/users/"}, {param:"id"}, {optional:[{static:"/"}, {param:"tab"}]}]
func ParseReversePattern(pattern string) (*ReversePattern, error) {
	segs, rest, err := parseReverse(pattern, 0)
	if err != nil {
		return nil, err
	}
	if rest != len(pattern) {
		return nil, fmt.Errorf("%w: %s", ErrUnbalancedGroup, pattern)
	}

	return &ReversePattern{Segments: segs}, nil
}

func parseReverse(p string, i int) ([]Segment, int, error) {
	var (
		segs []Segment
		text strings.Builder
	)
	flush := func() {
		if text.Len() > 0 {
			segs = append(segs, Segment{kind: segmentStatic, Value: text.String()})
			text.Reset()
		}
	}

	for i < len(p) {
		c := p[i]
		switch c {
		case '\\':
			if i+1 < len(p) {
				text.WriteByte(p[i+1])
			}
			i += 2
		case ':':
			name := ParamName(p, i)
			if name == "" {
				return nil, i, ErrInvalidParam
			}
			flush()
			segs = append(segs, Segment{kind: segmentParam, Value: name})
			i += len(name) + 1
		case '(':
			flush()
			children, next, err := parseReverse(p, i+1)
			if err != nil {
				return nil, next, err
			}
			if next >= len(p) || p[next] != ')' {
				return nil, next, ErrUnbalancedGroup
			}
			segs = append(segs, Segment{kind: segmentOptional, Children: children})
			i = next + 1
		case ')':
			flush()
			return segs, i, nil
		case '*', '?', '[', '+':
			return nil, i, fmt.Errorf("%w: %q", ErrNotReversible, c)
		default:
			text.WriteByte(c)
			i++
		}
	}
	flush()

	return segs, i, nil
}

// BuildURL builds a path from the pattern. Required parameters must be
// present; an optional group is emitted only when every parameter inside it
// is present. Values are path-escaped and checked against rules, if any.
func (p *ReversePattern) BuildURL(params map[string]string, rules map[string]string) (string, error) {
	var buf strings.Builder
	if err := buildSegments(&buf, p.Segments, params, rules, true); err != nil {
		return "", err
	}
	if buf.Len() == 0 {
		return "/", nil
	}

	return buf.String(), nil
}

func buildSegments(buf *strings.Builder, segs []Segment, params, rules map[string]string, required bool) error {
	for _, seg := range segs {
		switch seg.kind {
		case segmentStatic:
			buf.WriteString(seg.Value)
		case segmentParam:
			val, ok := params[seg.Value]
			if !ok {
				if required {
					return fmt.Errorf("%w: %s", ErrMissingParam, seg.Value)
				}
				return errSkipGroup
			}
			if frag, has := rules[seg.Value]; has {
				re, err := regexp.Compile("^(?:" + frag + ")$")
				if err != nil {
					return &CompileError{Param: seg.Value, Err: ErrInvalidRule}
				}
				if !re.MatchString(val) {
					return fmt.Errorf("%w: %s=%q", ErrRuleMismatch, seg.Value, val)
				}
			}
			buf.WriteString(url.PathEscape(val))
		case segmentOptional:
			if !hasParams(seg.Children) {
				continue
			}
			var group strings.Builder
			err := buildSegments(&group, seg.Children, params, rules, false)
			if errors.Is(err, errSkipGroup) {
				continue
			}
			if err != nil {
				return err
			}
			buf.WriteString(group.String())
		}
	}

	return nil
}

// errSkipGroup signals a missing parameter inside an optional group.
var errSkipGroup = errors.New("skip optional group")

func hasParams(segs []Segment) bool {
	for _, seg := range segs {
		if seg.kind == segmentParam || (seg.kind == segmentOptional && hasParams(seg.Children)) {
			return true
		}
	}

	return false
}

// URL builds a path for this route from parameter values.
func (r *Route) URL(params map[string]string) (string, error) {
	rp, err := ParseReversePattern(r.analysis.Pattern)
	if err != nil {
		return "", err
	}

	return rp.BuildURL(params, r.Rules())
}
