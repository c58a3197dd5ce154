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

import "strings"

const (
	// dynamicChars marks a pattern as dynamic. Anything outside the plain
	// path alphabet turns on regex compilation.
	dynamicChars = ":(?[*+"

	// nonLiteralChars may not appear in a segment used as a static prefix or hint.
	nonLiteralChars = dynamicChars + `\$^|{})]`

	// specificityPerSegment is the weight of one fully literal segment.
	specificityPerSegment = 100
)

// Analysis is the result of analyzing one route pattern.
type Analysis struct {
	Pattern     string   // Normalized pattern
	Dynamic     bool     // Pattern contains parameters, optional groups or regex syntax
	Optional    bool     // Pattern contains at least one optional group
	Params      []string // Parameter names in declaration order
	Prefix      []string // Literal segments before the first dynamic boundary
	StaticCount int      // Fully literal segments outside optional groups
	Specificity int      // 100*StaticCount + len(Pattern)
}

// Normalize brings a pattern into canonical form: a leading slash, optional
// groups that own their leading slash ("/a/(:b)" becomes "/a(/:b)") and no
// trailing slash. A group covering the whole path follows the root slash
// ("/(:a)").
func Normalize(pattern string) string {
	p := strings.TrimSpace(pattern)
	if p == "" {
		return "/"
	}
	if p[0] != '/' {
		p = "/" + p
	}

	p = strings.ReplaceAll(p, "/(/", "(/")
	p = strings.ReplaceAll(p, "/(", "(/")
	p = strings.ReplaceAll(p, "/)", ")")

	for len(p) > 1 && p[len(p)-1] == '/' {
		p = p[:len(p)-1]
	}
	if p == "" {
		return "/"
	}

	// A group spanning the whole pattern gives its slash back: "(/:a)" and
	// "/(:a)" match the same paths.
	if strings.HasPrefix(p, "(/") && groupEnd(p, 0) == len(p)-1 {
		p = "/(" + p[2:]
	}

	return p
}

// groupEnd returns the index of the ')' closing the group opened at p[i],
// or -1 if it is not closed.
func groupEnd(p string, i int) int {
	depth := 0
	for j := i; j < len(p); j++ {
		switch p[j] {
		case '\\':
			j++
		case '[':
			if end, ok := ClassEnd(p, j); ok {
				j = end
			}
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return j
			}
		}
	}

	return -1
}

// NormalizePath brings a request path into the form patterns are matched
// against. Trailing slashes are insignificant.
func NormalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if path[0] != '/' {
		path = "/" + path
	}
	for len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	return path
}

// Analyze parses a pattern into its literal structure, parameters and
// specificity score. Malformed patterns return a *CompileError.
//
// Example:
//
//	a, _ := route.Analyze("/users/:id/posts(/:page)")
//	// a.Params == []string{"id", "page"}
//	// a.Prefix == []string{"users"}
//	// a.StaticCount == 2 ("users", "posts")
func Analyze(pattern string) (Analysis, error) {
	p := Normalize(pattern)
	a := Analysis{
		Pattern: p,
		Dynamic: strings.ContainsAny(p, dynamicChars),
	}

	if !a.Dynamic {
		a.Prefix = PathSegments(p)
		for _, seg := range a.Prefix {
			if seg != "" {
				a.StaticCount++
			}
		}
		a.Specificity = specificity(a.StaticCount, len(p))

		return a, nil
	}

	params, optional, err := scanParams(p)
	if err != nil {
		return Analysis{}, &CompileError{Pattern: p, Err: err}
	}

	a.Params = params
	a.Optional = optional
	a.Prefix = staticPrefix(p)
	a.StaticCount = countStatic(p)
	a.Specificity = specificity(a.StaticCount, len(p))

	return a, nil
}

func specificity(staticCount, length int) int {
	return staticCount*specificityPerSegment + length
}

// scanParams collects parameter names and checks group balance.
func scanParams(p string) ([]string, bool, error) {
	var (
		params   []string
		optional bool
		depth    int
	)

	for i := 0; i < len(p); i++ {
		switch p[i] {
		case '\\':
			i++
		case '[':
			end, ok := ClassEnd(p, i)
			if !ok {
				return nil, false, ErrInvalidPattern
			}
			i = end
		case '(':
			depth++
			optional = true
		case ')':
			depth--
			if depth < 0 {
				return nil, false, ErrUnbalancedGroup
			}
		case ':':
			name := ParamName(p, i)
			if name == "" {
				return nil, false, ErrInvalidParam
			}
			for _, seen := range params {
				if seen == name {
					return nil, false, ErrDuplicateParam
				}
			}
			params = append(params, name)
			i += len(name)
		}
	}

	if depth != 0 {
		return nil, false, ErrUnbalancedGroup
	}

	return params, optional, nil
}

// ParamName returns the identifier following the ':' at p[i], or "" if
// there is none.
func ParamName(p string, i int) string {
	j := i + 1
	for j < len(p) && isNameByte(p[j], j == i+1) {
		j++
	}

	return p[i+1 : j]
}

func isNameByte(c byte, first bool) bool {
	switch {
	case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return !first
	default:
		return false
	}
}

// ClassEnd returns the index of the ']' closing the bracket expression that
// starts at s[i]. A leading ']' or "^]" is literal, as are escaped bytes and
// POSIX classes such as [:alpha:].
func ClassEnd(s string, i int) (int, bool) {
	j := i + 1
	if j < len(s) && s[j] == '^' {
		j++
	}
	if j < len(s) && s[j] == ']' {
		j++
	}

	for j < len(s) {
		switch s[j] {
		case '\\':
			j += 2
			continue
		case '[':
			if j+1 < len(s) && s[j+1] == ':' {
				if k := strings.Index(s[j+2:], ":]"); k >= 0 {
					j += k + 4
					continue
				}
			}
		case ']':
			return j, true
		}
		j++
	}

	return len(s), false
}

// SplitSegments splits a pattern on '/' outside bracket expressions and
// escapes. The leading slash does not produce a segment; "/" yields none.
func SplitSegments(p string) []string {
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return nil
	}

	var segs []string
	start := 0
	for i := 0; i < len(p); i++ {
		switch p[i] {
		case '\\':
			i++
		case '[':
			if end, ok := ClassEnd(p, i); ok {
				i = end
			}
		case '/':
			segs = append(segs, p[start:i])
			start = i + 1
		}
	}

	return append(segs, p[start:])
}

// IsLiteral reports whether a segment is plain text that a request path
// segment can be compared against byte for byte.
func IsLiteral(seg string) bool {
	return !strings.ContainsAny(seg, nonLiteralChars)
}

// staticPrefix returns the literal segments before the first dynamic
// boundary. A segment cut by a dynamic character is dropped unless the
// boundary is an optional group that starts with its own slash.
func staticPrefix(p string) []string {
	idx := strings.IndexAny(p, dynamicChars+`\`)
	if idx < 0 {
		return PathSegments(p)
	}

	complete := p[:idx]
	if p[idx] != '(' || idx+1 >= len(p) || p[idx+1] != '/' {
		if k := strings.LastIndexByte(complete, '/'); k >= 0 {
			complete = complete[:k]
		} else {
			complete = ""
		}
	}

	var prefix []string
	for _, seg := range PathSegments(complete) {
		if !IsLiteral(seg) {
			break
		}
		prefix = append(prefix, seg)
	}

	return prefix
}

// countStatic counts the literal segments that remain once optional groups
// are removed.
func countStatic(p string) int {
	var b strings.Builder
	depth := 0
	for i := 0; i < len(p); i++ {
		c := p[i]
		switch c {
		case '(':
			depth++
			continue
		case ')':
			depth--
			continue
		case '\\':
			if depth == 0 && i+1 < len(p) {
				b.WriteByte(c)
				b.WriteByte(p[i+1])
			}
			i++
			continue
		case '[':
			if end, ok := ClassEnd(p, i); ok {
				if depth == 0 {
					b.WriteString(p[i : end+1])
				}
				i = end
				continue
			}
		}
		if depth == 0 {
			b.WriteByte(c)
		}
	}

	n := 0
	for _, seg := range SplitSegments(b.String()) {
		if seg != "" && IsLiteral(seg) {
			n++
		}
	}

	return n
}

// PathSegments splits a normalized request path (or literal pattern text)
// on every '/'. Empty segments are kept so positions line up with the path.
func PathSegments(p string) []string {
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return nil
	}

	return strings.Split(p, "/")
}
