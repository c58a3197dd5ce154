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
	"regexp"
	"strings"
)

// RuleKind identifies a typed parameter rule.
type RuleKind uint8

const (
	RuleNone RuleKind = iota
	RuleInt
	RuleFloat
	RuleUUID
	RuleAlpha
	RuleAlnum
	RuleSlug
	RuleRegex
	RuleEnum
	RuleDate     // RFC3339 full-date
	RuleDateTime // RFC3339 date-time
)

// Rule is a typed parameter rule. It renders to the regex fragment stored
// in a route's rule map.
type Rule struct {
	Kind    RuleKind
	Pattern string   // for RuleRegex
	Enum    []string // for RuleEnum
}

// Fragment returns the regex fragment for the rule, or "" for RuleNone and
// unknown kinds. The fragment is unanchored; the compiler embeds it.
func (r Rule) Fragment() string {
	switch r.Kind {
	case RuleInt:
		return `-?\d+`
	case RuleFloat:
		return `-?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`
	case RuleUUID:
		return `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`
	case RuleAlpha:
		return `[a-zA-Z]+`
	case RuleAlnum:
		return `[a-zA-Z0-9]+`
	case RuleSlug:
		return `[a-z0-9]+(?:-[a-z0-9]+)*`
	case RuleRegex:
		return r.Pattern
	case RuleEnum:
		escaped := make([]string, 0, len(r.Enum))
		for _, v := range r.Enum {
			escaped = append(escaped, regexp.QuoteMeta(v))
		}
		return "(" + strings.Join(escaped, "|") + ")"
	case RuleDate:
		return `\d{4}-\d{2}-\d{2}`
	case RuleDateTime:
		return `\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:\d{2})`
	default:
		return ""
	}
}

// Fragments renders a set of typed rules into a rule map. RuleNone entries
// are skipped.
func Fragments(rules map[string]Rule) map[string]string {
	out := make(map[string]string, len(rules))
	for param, rule := range rules {
		if frag := rule.Fragment(); frag != "" {
			out[param] = frag
		}
	}

	return out
}

// WhereRule constrains a parameter with a typed rule. See Where.
func (r *Route) WhereRule(param string, rule Rule) *Route {
	return r.Where(param, rule.Fragment())
}

// WhereInt constrains a parameter to an optionally signed integer.
//
// Example:
//
//	r.GET("/users/:id", h).WhereInt("id")
func (r *Route) WhereInt(param string) *Route {
	return r.WhereRule(param, Rule{Kind: RuleInt})
}

// WhereFloat constrains a parameter to a decimal number.
func (r *Route) WhereFloat(param string) *Route {
	return r.WhereRule(param, Rule{Kind: RuleFloat})
}

// WhereUUID constrains a parameter to a canonical UUID.
func (r *Route) WhereUUID(param string) *Route {
	return r.WhereRule(param, Rule{Kind: RuleUUID})
}

// WhereAlpha constrains a parameter to ASCII letters.
func (r *Route) WhereAlpha(param string) *Route {
	return r.WhereRule(param, Rule{Kind: RuleAlpha})
}

// WhereAlnum constrains a parameter to ASCII letters and digits.
func (r *Route) WhereAlnum(param string) *Route {
	return r.WhereRule(param, Rule{Kind: RuleAlnum})
}

// WhereSlug constrains a parameter to lower-case words joined by dashes.
func (r *Route) WhereSlug(param string) *Route {
	return r.WhereRule(param, Rule{Kind: RuleSlug})
}

// WhereEnum constrains a parameter to one of the given values.
//
// Example:
//
//	r.GET("/status/:state", h).WhereEnum("state", "active", "pending")
func (r *Route) WhereEnum(param string, values ...string) *Route {
	return r.WhereRule(param, Rule{Kind: RuleEnum, Enum: append([]string(nil), values...)})
}

// WhereDate constrains a parameter to an RFC3339 full-date (2024-01-18).
func (r *Route) WhereDate(param string) *Route {
	return r.WhereRule(param, Rule{Kind: RuleDate})
}

// WhereDateTime constrains a parameter to an RFC3339 date-time.
func (r *Route) WhereDateTime(param string) *Route {
	return r.WhereRule(param, Rule{Kind: RuleDateTime})
}
