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

package dispatch

import (
	"errors"

	"rivaas.dev/dispatch/route"
)

// CompileError reports a malformed pattern or parameter rule.
type CompileError = route.CompileError

var (
	// ErrUnbalancedGroup indicates that a pattern or rule has unmatched parentheses.
	ErrUnbalancedGroup = route.ErrUnbalancedGroup

	// ErrInvalidParam indicates a ':' that is not followed by a parameter name.
	ErrInvalidParam = route.ErrInvalidParam

	// ErrDuplicateParam indicates that a parameter name occurs twice in one pattern.
	ErrDuplicateParam = route.ErrDuplicateParam

	// ErrInvalidRule indicates that a parameter rule is not a valid regex fragment.
	ErrInvalidRule = route.ErrInvalidRule

	// ErrInvalidPattern indicates that a pattern does not translate to a valid regex.
	ErrInvalidPattern = route.ErrInvalidPattern

	// ErrUnknownParam indicates a rule for a parameter the pattern does not declare.
	ErrUnknownParam = route.ErrUnknownParam

	// ErrMissingParam indicates that a URL could not be built because a parameter is missing.
	ErrMissingParam = route.ErrMissingParam

	// ErrRuleMismatch indicates a URL parameter value that does not satisfy its rule.
	ErrRuleMismatch = route.ErrRuleMismatch

	// ErrNilHandler indicates a registration without a handler.
	ErrNilHandler = errors.New("handler must not be nil")

	// ErrForeignRoute indicates a route registered with another router, or before the last Reset.
	ErrForeignRoute = errors.New("route does not belong to this router")

	// ErrDuplicateTag indicates that a tag is already used by another route.
	ErrDuplicateTag = errors.New("tag already in use")

	// ErrUnknownTag indicates that no route carries the requested tag.
	ErrUnknownTag = errors.New("unknown route tag")

	// ErrInvalidDispatcher indicates an unknown dispatcher strategy name.
	ErrInvalidDispatcher = errors.New("invalid dispatcher")

	// ErrBundleSizeInvalid indicates that the bundle chunk size must be positive.
	ErrBundleSizeInvalid = errors.New("bundle size must be positive")
)
