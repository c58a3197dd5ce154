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
	"slices"

	"rivaas.dev/dispatch/route"
)

// Node is one trie node. Children map a literal segment to the index of the
// child node in the owning Trie.
type Node struct {
	Segment  string
	Depth    int
	Children map[string]int32
	Static   []*route.Route // static routes ending here, by registration
	Dynamic  []*route.Route // dynamic routes whose static prefix ends here, by precedence
}

// Trie is an arena of nodes keyed by literal path segments. Node 0 is the
// root. A Trie is mutated only by Insert; once published it is read-only.
type Trie struct {
	nodes []Node
}

// NewTrie creates a trie holding only the root node.
func NewTrie() *Trie {
	return &Trie{nodes: make([]Node, 1, 16)}
}

// Insert attaches a route to the node addressed by its static prefix,
// creating nodes as needed. Dynamic routes are kept in precedence order.
func (t *Trie) Insert(rt *route.Route) {
	idx := int32(0)
	for _, seg := range rt.Prefix() {
		idx = t.child(idx, seg)
	}

	n := &t.nodes[idx]
	if rt.Dynamic() {
		pos, _ := slices.BinarySearchFunc(n.Dynamic, rt, ComparePrecedence)
		n.Dynamic = slices.Insert(n.Dynamic, pos, rt)
		return
	}

	pos, _ := slices.BinarySearchFunc(n.Static, rt, func(a, b *route.Route) int {
		return a.Seq() - b.Seq()
	})
	n.Static = slices.Insert(n.Static, pos, rt)
}

func (t *Trie) child(parent int32, seg string) int32 {
	if c, ok := t.nodes[parent].Children[seg]; ok {
		return c
	}

	//nolint:gosec // G115: node count is bounded by the number of route segments
	c := int32(len(t.nodes))
	t.nodes = append(t.nodes, Node{Segment: seg, Depth: t.nodes[parent].Depth + 1})
	if t.nodes[parent].Children == nil {
		t.nodes[parent].Children = make(map[string]int32, 2)
	}
	t.nodes[parent].Children[seg] = c

	return c
}

// Walk follows literal children for as many path segments as possible.
// It returns the indexes of the visited nodes, root first, and whether every
// segment was consumed.
func (t *Trie) Walk(segments []string) ([]int32, bool) {
	visited := make([]int32, 1, len(segments)+1)
	idx := int32(0)
	for _, seg := range segments {
		c, ok := t.nodes[idx].Children[seg]
		if !ok {
			return visited, false
		}
		idx = c
		visited = append(visited, idx)
	}

	return visited, true
}

// Node returns the node at index i.
func (t *Trie) Node(i int32) *Node {
	return &t.nodes[i]
}

// Len returns the number of nodes.
func (t *Trie) Len() int {
	return len(t.nodes)
}

// ComparePrecedence orders two routes of the same class: higher specificity
// first, then earlier registration.
func ComparePrecedence(a, b *route.Route) int {
	if a.Specificity() != b.Specificity() {
		return b.Specificity() - a.Specificity()
	}

	return a.Seq() - b.Seq()
}

// Precedes reports whether a wins over b within the same class.
func Precedes(a, b *route.Route) bool {
	return ComparePrecedence(a, b) < 0
}

// Route classes, best first. A request method selects a class for every
// route that answers it.
const (
	ClassNone       = -1
	ClassStatic     = 0
	ClassStaticAny  = 1
	ClassDynamic    = 2
	ClassDynamicAny = 3
)

// Class ranks a route for a lower-cased request method, or returns
// ClassNone if the route does not answer the method.
func Class(rt *route.Route, method string) int {
	base := ClassStatic
	if rt.Dynamic() {
		base = ClassDynamic
	}

	switch {
	case rt.HasMethod(method):
		return base
	case rt.AnswersAny():
		return base + 1
	default:
		return ClassNone
	}
}

// Outranks reports whether route a of class ca beats route b of class cb.
// A nil b is beaten by anything.
func Outranks(a *route.Route, ca int, b *route.Route, cb int) bool {
	if b == nil {
		return true
	}
	if ca != cb {
		return ca < cb
	}

	return Precedes(a, b)
}
