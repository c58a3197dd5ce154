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
	"regexp/syntax"
	"strings"

	"rivaas.dev/dispatch/route"
)

// DefaultRule is the fragment used for parameters without a rule: one or
// more non-slash characters.
const DefaultRule = `[^/]+`

// Fragments holds the three regex forms of one pattern.
type Fragments struct {
	Extract string   // anchored, one named group per parameter
	Match   string   // anchored, no capturing groups
	Bundle  string   // unanchored, one unnamed group per parameter
	Params  []string // parameter names in Bundle group order
}

// Translate turns a normalized pattern and its rules into regex source.
//
// Translation rules:
//   - ":name" becomes a group holding rules[name], or DefaultRule
//   - "." is escaped
//   - "*" matches anything, including slashes
//   - "(...)" becomes an optional non-capturing group
//   - bracket expressions and escapes are copied verbatim
//
// Rule fragments are rewritten with NonCapturing first, so the only
// capturing groups in the output are the parameter groups.
func Translate(pattern string, rules map[string]string) (Fragments, error) {
	var (
		ex, mt, bd strings.Builder
		params     []string
	)
	writeAll := func(s string) {
		ex.WriteString(s)
		mt.WriteString(s)
		bd.WriteString(s)
	}

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch c {
		case '\\':
			if i+1 >= len(pattern) {
				return Fragments{}, &route.CompileError{Pattern: pattern, Err: route.ErrInvalidPattern}
			}
			writeAll(pattern[i : i+2])
			i++
		case '[':
			end, ok := route.ClassEnd(pattern, i)
			if !ok {
				return Fragments{}, &route.CompileError{Pattern: pattern, Err: route.ErrInvalidPattern}
			}
			writeAll(pattern[i : end+1])
			i = end
		case '.':
			writeAll(`\.`)
		case '*':
			writeAll(`.*`)
		case '(':
			writeAll(`(?:`)
		case ')':
			writeAll(`)?`)
		case ':':
			name := route.ParamName(pattern, i)
			if name == "" {
				return Fragments{}, &route.CompileError{Pattern: pattern, Err: route.ErrInvalidParam}
			}
			rule := DefaultRule
			if r := rules[name]; r != "" {
				rule = r
			}
			nc, err := NonCapturing(rule)
			if err != nil {
				return Fragments{}, &route.CompileError{Pattern: pattern, Param: name, Err: err}
			}
			ex.WriteString("(?P<" + name + ">" + nc + ")")
			mt.WriteString("(?:" + nc + ")")
			bd.WriteString("(" + nc + ")")
			params = append(params, name)
			i += len(name)
		default:
			ex.WriteByte(c)
			mt.WriteByte(c)
			bd.WriteByte(c)
		}
	}

	return Fragments{
		Extract: "^(?:" + ex.String() + ")/?$",
		Match:   "^(?:" + mt.String() + ")/?$",
		Bundle:  bd.String(),
		Params:  params,
	}, nil
}

// NonCapturing rewrites every capturing group in a regex fragment as a
// non-capturing one. Named groups lose their names. Escapes and bracket
// expressions are skipped, so "\(" and "[(]" stay literal.
//
// It fails with route.ErrUnbalancedGroup on unmatched parentheses and with
// route.ErrInvalidRule on a dangling escape or unterminated bracket
// expression.
func NonCapturing(fragment string) (string, error) {
	var (
		b     strings.Builder
		depth int
	)
	b.Grow(len(fragment) + 8)

	for i := 0; i < len(fragment); i++ {
		c := fragment[i]
		switch c {
		case '\\':
			if i+1 >= len(fragment) {
				return "", route.ErrInvalidRule
			}
			if fragment[i+1] == 'Q' {
				// \Q...\E quotes everything up to \E or the end.
				j := len(fragment)
				if end := strings.Index(fragment[i+2:], `\E`); end >= 0 {
					j = i + 2 + end + 2
				}
				b.WriteString(fragment[i:j])
				i = j - 1
				continue
			}
			b.WriteString(fragment[i : i+2])
			i++
		case '[':
			end, ok := route.ClassEnd(fragment, i)
			if !ok {
				return "", route.ErrInvalidRule
			}
			b.WriteString(fragment[i : end+1])
			i = end
		case '(':
			depth++
			rest := fragment[i+1:]
			switch {
			case strings.HasPrefix(rest, "?P<"), strings.HasPrefix(rest, "?<"):
				end := strings.IndexByte(rest, '>')
				if end < 0 {
					return "", route.ErrInvalidRule
				}
				b.WriteString("(?:")
				i += end + 1
			case strings.HasPrefix(rest, "?"):
				// (?:...), (?i) and (?i:...) are already non-capturing.
				b.WriteByte('(')
			default:
				b.WriteString("(?:")
			}
		case ')':
			depth--
			if depth < 0 {
				return "", route.ErrUnbalancedGroup
			}
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}

	if depth != 0 {
		return "", route.ErrUnbalancedGroup
	}

	return b.String(), nil
}

// ValidateRule checks that a rule fragment can be embedded in a route
// regex. Errors are *route.CompileError values naming the parameter.
func ValidateRule(pattern, param, fragment string) error {
	nc, err := NonCapturing(fragment)
	if err != nil {
		return &route.CompileError{Pattern: pattern, Param: param, Err: err}
	}
	if _, err = regexp.Compile("^(?:" + nc + ")$"); err != nil {
		return &route.CompileError{Pattern: pattern, Param: param, Err: fmt.Errorf("%w: %v", route.ErrInvalidRule, err)}
	}

	return nil
}

// ValidateRules validates every rule of a route.
func ValidateRules(pattern string, rules map[string]string) error {
	for param, frag := range rules {
		if err := ValidateRule(pattern, param, frag); err != nil {
			return err
		}
	}

	return nil
}

// ValidatePattern checks that a pattern translates to a valid regex with
// default rules. Nothing is cached.
func ValidatePattern(pattern string) error {
	f, err := Translate(pattern, nil)
	if err != nil {
		return err
	}
	if _, err = regexp.Compile(f.Match); err != nil {
		return &route.CompileError{Pattern: pattern, Err: fmt.Errorf("%w: %v", route.ErrInvalidPattern, err)}
	}

	return nil
}

// RouteRegexes returns the compiled regexes of a route, building and
// caching them on first use.
func RouteRegexes(rt *route.Route) (*route.Regexes, error) {
	if rx := rt.CachedRegexes(); rx != nil {
		return rx, nil
	}

	rules, version := rt.RulesVersion()
	f, err := Translate(rt.Pattern(), rules)
	if err != nil {
		return nil, err
	}

	extract, err := regexp.Compile(f.Extract)
	if err != nil {
		return nil, &route.CompileError{Pattern: rt.Pattern(), Err: fmt.Errorf("%w: %v", route.ErrInvalidPattern, err)}
	}
	match, err := regexp.Compile(f.Match)
	if err != nil {
		return nil, &route.CompileError{Pattern: rt.Pattern(), Err: fmt.Errorf("%w: %v", route.ErrInvalidPattern, err)}
	}

	rx := &route.Regexes{Match: match, Extract: extract}
	rt.CacheRegexes(version, rx)

	return rx, nil
}

// Extract runs an extract regex and returns the named groups that took part
// in the match.
func Extract(re *regexp.Regexp, path string) (route.Params, bool) {
	m := re.FindStringSubmatchIndex(path)
	if m == nil {
		return nil, false
	}

	params := make(route.Params, re.NumSubexp())
	for i, name := range re.SubexpNames() {
		if i == 0 || name == "" || m[2*i] < 0 {
			continue
		}
		params[name] = path[m[2*i]:m[2*i+1]]
	}

	return params, true
}

// MayMatchSlash reports whether a rule fragment could consume a '/'. It
// inspects the parsed syntax tree and answers true when unsure.
func MayMatchSlash(fragment string) bool {
	re, err := syntax.Parse(fragment, syntax.Perl)
	if err != nil {
		return true
	}

	return mayMatchSlash(re.Simplify())
}

func mayMatchSlash(re *syntax.Regexp) bool {
	switch re.Op {
	case syntax.OpAnyChar, syntax.OpAnyCharNotNL:
		return true
	case syntax.OpLiteral:
		for _, r := range re.Rune {
			if r == '/' {
				return true
			}
		}
		return false
	case syntax.OpCharClass:
		for i := 0; i+1 < len(re.Rune); i += 2 {
			if re.Rune[i] <= '/' && '/' <= re.Rune[i+1] {
				return true
			}
		}
		return false
	}

	for _, sub := range re.Sub {
		if mayMatchSlash(sub) {
			return true
		}
	}

	return false
}
