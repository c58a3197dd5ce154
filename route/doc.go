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

// Package route defines route descriptors for the dispatch router: pattern
// analysis, parameter rules and reverse URL building.
//
// # Pattern Grammar
//
//   - "/users/list": literal segments separated by '/'
//   - ":name": a named parameter, by default one or more non-slash characters
//   - "(...)": an optional trailing fragment; "/a(/b)" matches "/a" and "/a/b"
//   - "*": matches anything, including slashes
//   - trailing slashes are insignificant
//
// Parameters can be constrained with regex fragments:
//
//	rt.Where("id", `\d+`)
//	rt.WhereUUID("uuid")
//	rt.WhereEnum("state", "active", "pending")
package route
