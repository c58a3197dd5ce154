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
	"strings"

	"dario.cat/mergo"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"

	"rivaas.dev/dispatch"
)

// sectionKey is the optional enclosing section of every setting.
const sectionKey = "dispatch"

// Options are the router settings a deployment can change without code.
type Options struct {
	LoopMode       bool   `config:"loop_mode"`
	Dispatcher     string `config:"loop_dispatcher"`
	Debug          bool   `config:"debug"`
	AutoOptimize   bool   `config:"auto_optimize"`
	Pruning        bool   `config:"pruning"`
	BundleSize     int    `config:"bundle_size"`
	BloomSize      uint64 `config:"bloom_size"` // 0 sizes the filter automatically
	BloomHashFuncs int    `config:"bloom_hash_functions"`
}

// Defaults returns the settings dispatch.New uses without options.
func Defaults() Options {
	return Options{
		LoopMode:       true,
		Dispatcher:     string(dispatch.DispatcherFast),
		AutoOptimize:   true,
		Pruning:        true,
		BundleSize:     20,
		BloomHashFuncs: 3,
	}
}

// Load merges sources over Defaults in order and validates the result.
// Unknown keys are rejected.
func Load(ctx context.Context, sources ...Source) (Options, error) {
	values := make(map[string]any)
	if err := decode(Defaults(), &values, false); err != nil {
		return Options{}, NewError("defaults", "decode", err)
	}

	for i, src := range sources {
		name := fmt.Sprintf("source[%d]", i)

		conf, err := src.Load(ctx)
		if err != nil {
			return Options{}, NewError(name, "load", err)
		}
		conf, err = settings(conf)
		if err != nil {
			return Options{}, NewError(name, "load", err)
		}
		if err = mergo.Map(&values, conf, mergo.WithOverride); err != nil {
			return Options{}, NewError(name, "merge", err)
		}
	}

	var o Options
	if err := decode(values, &o, true); err != nil {
		return Options{}, NewError("options", "decode", err)
	}
	if err := o.Validate(); err != nil {
		return Options{}, err
	}

	return o, nil
}

func decode(input, output any, strict bool) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "config",
		WeaklyTypedInput: true,
		ErrorUnused:      strict,
		Result:           output,
	})
	if err != nil {
		return err
	}

	return dec.Decode(input)
}

// settings lower-cases keys and unwraps the dispatch section if present.
func settings(conf map[string]any) (map[string]any, error) {
	conf = normalizeMapKeys(conf)
	sec, ok := conf[sectionKey]
	if !ok {
		return conf, nil
	}

	m, err := cast.ToStringMapE(sec)
	if err != nil {
		return nil, fmt.Errorf("section %q: %w", sectionKey, err)
	}
	out := normalizeMapKeys(m)
	for k, v := range conf {
		if k != sectionKey {
			out[k] = v
		}
	}

	return out, nil
}

func normalizeMapKeys(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = v
	}
	return out
}

// Validate checks every setting.
func (o Options) Validate() error {
	if !dispatch.Dispatcher(o.Dispatcher).Valid() {
		return NewFieldError("options", "loop_dispatcher", "validate",
			fmt.Errorf("%w: %q (want fast or tree)", ErrInvalidValue, o.Dispatcher))
	}
	if o.BundleSize <= 0 {
		return NewFieldError("options", "bundle_size", "validate",
			fmt.Errorf("%w: %d (must be positive)", ErrInvalidValue, o.BundleSize))
	}
	if o.BloomHashFuncs < 1 || o.BloomHashFuncs > 10 {
		return NewFieldError("options", "bloom_hash_functions", "validate",
			fmt.Errorf("%w: %d (want 1 to 10)", ErrInvalidValue, o.BloomHashFuncs))
	}

	return nil
}

// RouterOptions converts the settings into router options.
func (o Options) RouterOptions() []dispatch.Option {
	return []dispatch.Option{
		dispatch.WithLoopMode(o.LoopMode),
		dispatch.WithDispatcher(dispatch.Dispatcher(o.Dispatcher)),
		dispatch.WithDebug(o.Debug),
		dispatch.WithAutoOptimize(o.AutoOptimize),
		dispatch.WithPruning(o.Pruning),
		dispatch.WithBundleSize(o.BundleSize),
		dispatch.WithBloomFilterSize(o.BloomSize),
		dispatch.WithBloomFilterHashFunctions(o.BloomHashFuncs),
	}
}
