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

// Package config loads router settings from files and the environment.
//
// Settings are merged in order over the defaults: later sources override
// earlier ones. Keys are case-insensitive and may sit at the top level or
// under a "dispatch" section.
//
//	# dispatch.yaml
//	dispatch:
//	  loop_mode: true
//	  loop_dispatcher: tree
//	  pruning: false
//
//	opts, err := config.Load(ctx,
//	    config.NewFile("dispatch.yaml"),
//	    config.NewEnv("DISPATCH_"),
//	)
//	r, err := dispatch.New(opts.RouterOptions()...)
//
// Supported keys: loop_mode, loop_dispatcher, debug, auto_optimize,
// pruning, bundle_size, bloom_size, bloom_hash_functions.
package config
