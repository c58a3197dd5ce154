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
	"slices"

	"rivaas.dev/dispatch/compiler"
	"rivaas.dev/dispatch/route"
)

// TreeView is a read-only rendering of the route tree.
type TreeView struct {
	Compiled   bool     `json:"compiled"`
	RouteCount int      `json:"route_count"`
	Tree       NodeView `json:"tree"`
}

// NodeView is one literal segment of the tree and the routes attached to it.
// Routes render as "METHODS pattern".
type NodeView struct {
	Segment  string     `json:"segment"`
	Static   []string   `json:"static,omitempty"`
	Dynamic  []string   `json:"dynamic,omitempty"`
	Children []NodeView `json:"children,omitempty"`
}

// DebugTree renders the route tree. It shows the published table when one
// is current; otherwise a tree is built from the registered routes and
// Compiled is false.
func (r *Router) DebugTree() TreeView {
	reg := r.reg.Load()
	if t := reg.table.Load(); t != nil {
		return TreeView{Compiled: true, RouteCount: t.Report().Routes, Tree: nodeView(t.Trie(), 0)}
	}

	reg.mu.RLock()
	defer reg.mu.RUnlock()

	trie := reg.index
	if trie == nil {
		trie = compiler.NewTrie()
		for _, rt := range reg.routes {
			trie.Insert(rt)
		}
	}

	return TreeView{RouteCount: len(reg.routes), Tree: nodeView(trie, 0)}
}

func nodeView(t *compiler.Trie, idx int32) NodeView {
	n := t.Node(idx)
	v := NodeView{
		Segment: n.Segment,
		Static:  routeNames(n.Static),
		Dynamic: routeNames(n.Dynamic),
	}

	segs := make([]string, 0, len(n.Children))
	for seg := range n.Children {
		segs = append(segs, seg)
	}
	slices.Sort(segs)
	for _, seg := range segs {
		v.Children = append(v.Children, nodeView(t, n.Children[seg]))
	}

	return v
}

func routeNames(routes []*route.Route) []string {
	if len(routes) == 0 {
		return nil
	}
	out := make([]string, len(routes))
	for i, rt := range routes {
		out[i] = rt.String()
	}

	return out
}
