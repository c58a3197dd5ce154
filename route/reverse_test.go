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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoute_URL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
		rules   map[string]string
		params  map[string]string
		want    string
		wantErr error
	}{
		{
			name:    "static",
			pattern: "/about",
			want:    "/about",
		},
		{
			name:    "root",
			pattern: "/",
			want:    "/",
		},
		{
			name:    "required param",
			pattern: "/users/:id",
			params:  map[string]string{"id": "42"},
			want:    "/users/42",
		},
		{
			name:    "escaped value",
			pattern: "/files/:name",
			params:  map[string]string{"name": "a b/c"},
			want:    "/files/a%20b%2Fc",
		},
		{
			name:    "optional group omitted",
			pattern: "/users/:id(/:tab)",
			params:  map[string]string{"id": "42"},
			want:    "/users/42",
		},
		{
			name:    "optional group emitted",
			pattern: "/users/:id(/:tab)",
			params:  map[string]string{"id": "42", "tab": "posts"},
			want:    "/users/42/posts",
		},
		{
			name:    "nested optional needs outer params",
			pattern: "/archive(/:year(/:month))",
			params:  map[string]string{"month": "07"},
			want:    "/archive",
		},
		{
			name:    "nested optional complete",
			pattern: "/archive(/:year(/:month))",
			params:  map[string]string{"year": "2024", "month": "07"},
			want:    "/archive/2024/07",
		},
		{
			name:    "dotted literal",
			pattern: "/feed/:name.xml",
			params:  map[string]string{"name": "news"},
			want:    "/feed/news.xml",
		},
		{
			name:    "missing required",
			pattern: "/users/:id",
			wantErr: ErrMissingParam,
		},
		{
			name:    "rule mismatch",
			pattern: "/users/:id",
			rules:   map[string]string{"id": `\d+`},
			params:  map[string]string{"id": "abc"},
			wantErr: ErrRuleMismatch,
		},
		{
			name:    "wildcard is not reversible",
			pattern: "/static/*",
			wantErr: ErrNotReversible,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rt := mustRoute(t, nil, tt.pattern, "GET")
			if tt.rules != nil {
				require.NoError(t, rt.SetRules(tt.rules))
			}

			got, err := rt.URL(tt.params)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseReversePattern_Unbalanced(t *testing.T) {
	t.Parallel()

	_, err := ParseReversePattern("/a(/:b")
	require.ErrorIs(t, err, ErrUnbalancedGroup)

	_, err = ParseReversePattern("/a/:b)")
	require.ErrorIs(t, err, ErrUnbalancedGroup)
}
