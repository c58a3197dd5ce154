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
	"strings"
)

var (
	// ErrUnbalancedGroup indicates that a pattern or rule has unmatched parentheses.
	ErrUnbalancedGroup = errors.New("unbalanced group")

	// ErrInvalidParam indicates a ':' that is not followed by a parameter name.
	ErrInvalidParam = errors.New("invalid parameter name")

	// ErrDuplicateParam indicates that a parameter name occurs twice in one pattern.
	ErrDuplicateParam = errors.New("duplicate parameter name")

	// ErrInvalidRule indicates that a parameter rule is not a valid regular expression fragment.
	ErrInvalidRule = errors.New("invalid parameter rule")

	// ErrInvalidPattern indicates that a pattern does not translate to a valid regular expression.
	ErrInvalidPattern = errors.New("invalid route pattern")

	// ErrMissingParam indicates that a URL could not be built because a required parameter is missing.
	ErrMissingParam = errors.New("missing required parameter")

	// ErrUnknownParam indicates a rule for a parameter the pattern does not declare.
	ErrUnknownParam = errors.New("unknown parameter")

	// ErrNotReversible indicates that a pattern uses regex syntax or '*' and cannot be turned back into a URL.
	ErrNotReversible = errors.New("pattern cannot be reversed")

	// ErrRuleMismatch indicates that a value passed for URL building does not satisfy its parameter rule.
	ErrRuleMismatch = errors.New("value does not satisfy parameter rule")
)

// CompileError reports a malformed pattern or rule. It is returned at
// registration, rule assignment or compile time, never during dispatch.
type CompileError struct {
	Pattern string // Normalized or raw pattern being compiled
	Param   string // Parameter whose rule failed, empty for pattern errors
	Err     error  // Underlying cause, usually one of the Err* sentinels
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	var b strings.Builder
	b.WriteString("compile ")
	b.WriteString(e.Pattern)
	if e.Param != "" {
		b.WriteString(" (param ")
		b.WriteString(e.Param)
		b.WriteString(")")
	}
	b.WriteString(": ")
	if e.Err != nil {
		b.WriteString(e.Err.Error())
	} else {
		b.WriteString("unknown error")
	}

	return b.String()
}

// Unwrap returns the underlying cause.
func (e *CompileError) Unwrap() error {
	return e.Err
}
