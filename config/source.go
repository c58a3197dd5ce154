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

package config

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Source loads raw settings.
type Source interface {
	Load(ctx context.Context) (map[string]any, error)
}

// File loads settings from a file path or from in-memory content.
type File struct {
	path    string
	data    []byte
	decoder Decoder
}

// NewFile creates a source reading path. The format follows the extension.
func NewFile(path string) *File {
	return &File{path: path}
}

// NewFileContent creates a source decoding data with decoder.
func NewFileContent(data []byte, decoder Decoder) *File {
	return &File{data: data, decoder: decoder}
}

// Load implements Source.
func (f *File) Load(context.Context) (map[string]any, error) {
	data, decoder := f.data, f.decoder
	if f.path != "" {
		var err error
		if decoder == nil {
			if decoder, err = DecoderFor(f.path); err != nil {
				return nil, err
			}
		}
		if data, err = os.ReadFile(f.path); err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
	}

	var conf map[string]any
	if err := decoder.Decode(data, &conf); err != nil {
		return nil, fmt.Errorf("failed to decode file: %w", err)
	}

	return conf, nil
}

// Env loads settings from environment variables sharing a prefix, which is
// stripped: with prefix "DISPATCH_", DISPATCH_LOOP_MODE sets loop_mode.
type Env struct {
	prefix string
}

// NewEnv creates an environment source.
func NewEnv(prefix string) *Env {
	return &Env{prefix: prefix}
}

// Load implements Source.
func (e *Env) Load(context.Context) (map[string]any, error) {
	var lines []string
	for _, kv := range os.Environ() {
		if rest, ok := strings.CutPrefix(kv, e.prefix); ok {
			lines = append(lines, rest)
		}
	}

	var conf map[string]any
	if err := (EnvVarCodec{}).Decode([]byte(strings.Join(lines, "\n")), &conf); err != nil {
		return nil, fmt.Errorf("failed to decode environment variables: %w", err)
	}

	return conf, nil
}

// Map is a source backed by a literal map, mostly for tests and flags.
type Map map[string]any

// Load implements Source.
func (m Map) Load(context.Context) (map[string]any, error) {
	return m, nil
}
