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
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
)

// Decoder turns raw configuration bytes into a value.
type Decoder interface {
	Decode(data []byte, v any) error
}

// YAMLCodec decodes YAML.
type YAMLCodec struct{}

// Decode implements Decoder.
func (YAMLCodec) Decode(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

// TOMLCodec decodes TOML.
type TOMLCodec struct{}

// Decode implements Decoder.
func (TOMLCodec) Decode(data []byte, v any) error {
	return toml.Unmarshal(data, v)
}

// JSONCodec decodes JSON.
type JSONCodec struct{}

// Decode implements Decoder.
func (JSONCodec) Decode(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// EnvVarCodec decodes KEY=value lines into a flat map with lower-cased
// keys. Values stay strings; they are converted when decoded into Options.
type EnvVarCodec struct{}

// Decode implements Decoder. v must be a *map[string]any.
func (EnvVarCodec) Decode(data []byte, v any) error {
	out, ok := v.(*map[string]any)
	if !ok {
		return fmt.Errorf("env decoder needs *map[string]any, got %T", v)
	}

	conf := make(map[string]any)
	for _, line := range bytes.Split(data, []byte("\n")) {
		key, value, found := strings.Cut(string(line), "=")
		if !found {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		conf[key] = value
	}
	*out = conf

	return nil
}

// DecoderFor picks a decoder from a file extension.
func DecoderFor(path string) (Decoder, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAMLCodec{}, nil
	case ".toml":
		return TOMLCodec{}, nil
	case ".json":
		return JSONCodec{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
}
