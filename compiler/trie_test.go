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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/dispatch/route"
)

func TestTrie_InsertWalk(t *testing.T) {
	t.Parallel()

	trie := NewTrie()
	users := newRoute(t, 0, "/users", "GET")
	byID := newRoute(t, 1, "/users/:id", "GET")
	posts := newRoute(t, 2, "/users/:id/posts", "GET")
	root := newRoute(t, 3, "/", "GET")
	for _, rt := range []*route.Route{users, byID, posts, root} {
		trie.Insert(rt)
	}

	visited, complete := trie.Walk(route.PathSegments("/users"))
	require.True(t, complete)
	require.Len(t, visited, 2)
	node := trie.Node(visited[1])
	assert.Equal(t, "users", node.Segment)
	assert.Equal(t, 1, node.Depth)
	assert.Equal(t, []*route.Route{users}, node.Static)
	assert.Equal(t, []*route.Route{posts, byID}, node.Dynamic, "dynamic routes by precedence")

	visited, complete = trie.Walk(route.PathSegments("/users/42/posts"))
	assert.False(t, complete)
	assert.Len(t, visited, 2)

	visited, complete = trie.Walk(route.PathSegments("/"))
	assert.True(t, complete)
	assert.Equal(t, []*route.Route{root}, trie.Node(visited[0]).Static)

	assert.Equal(t, 2, trie.Len())
}

func TestTrie_StaticBySeq(t *testing.T) {
	t.Parallel()

	trie := NewTrie()
	later := newRoute(t, 5, "/a", "GET")
	earlier := newRoute(t, 1, "/a", "POST")
	trie.Insert(later)
	trie.Insert(earlier)

	visited, _ := trie.Walk([]string{"a"})
	assert.Equal(t, []*route.Route{earlier, later}, trie.Node(visited[1]).Static)
}

func TestClass(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
		methods []string
		method  string
		want    int
	}{
		{"static concrete", "/a", []string{"GET"}, "get", ClassStatic},
		{"static any", "/a", nil, "get", ClassStaticAny},
		{"dynamic concrete", "/a/:b", []string{"GET"}, "get", ClassDynamic},
		{"dynamic any", "/a/:b", []string{"*"}, "get", ClassDynamicAny},
		{"other method", "/a", []string{"POST"}, "get", ClassNone},
		{"star request hits any", "/a", nil, "*", ClassStatic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rt := newRoute(t, 0, tt.pattern, tt.methods...)
			assert.Equal(t, tt.want, Class(rt, tt.method))
		})
	}
}

func TestPrecedence(t *testing.T) {
	t.Parallel()

	short := newRoute(t, 0, "/a/:b", "GET")
	long := newRoute(t, 1, "/a/:b/c", "GET")
	twin := newRoute(t, 2, "/a/:x", "GET")

	assert.True(t, Precedes(long, short), "higher specificity first")
	assert.True(t, Precedes(short, twin), "earlier registration breaks ties")
	assert.False(t, Precedes(twin, short))

	assert.True(t, Outranks(short, ClassDynamic, nil, ClassNone))
	assert.True(t, Outranks(short, ClassDynamic, long, ClassDynamicAny), "class beats specificity")
	assert.False(t, Outranks(short, ClassDynamic, long, ClassDynamic))
}
