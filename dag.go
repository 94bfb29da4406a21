// Copyright 2015 Google Inc. All rights reserved
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pyrrhic

import "sort"

// DAG maps each canonical path to its Node; the map itself has no order,
// and callers that need one use sortedNodes (sorted by path). It is mutable
// only while being built; once construction finishes (cycle checking has
// passed) it should be treated as read-only.
type DAG struct {
	nodes map[string]*Node
}

// NewDAG returns an empty DAG.
func NewDAG() *DAG {
	return &DAG{nodes: make(map[string]*Node)}
}

// Get returns the existing Node for path, or inserts and returns a new one.
func (g *DAG) Get(path string) *Node {
	if n, ok := g.nodes[path]; ok {
		return n
	}
	n := newNode(path)
	g.nodes[path] = n
	return n
}

// Pick returns the Node for path, or nil if the DAG has no such node.
func (g *DAG) Pick(path string) *Node {
	return g.nodes[path]
}

// Len returns the number of nodes in the DAG.
func (g *DAG) Len() int { return len(g.nodes) }

// sortedNodes returns every node in the DAG ordered by path. Go maps carry
// no iteration order, unlike the source implementation's OrderedDict, so
// every place that needs "sorted by path" (serialization, diffing, DOT
// rendering) goes through this helper rather than ranging over g.nodes
// directly.
func (g *DAG) sortedNodes() []*Node {
	out := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	sortNodesByPath(out)
	return out
}

func sortNodesByPath(nodes []*Node) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Path < nodes[j].Path })
}

// SourceNodes returns every node with no inbound producer (RLinks is
// empty), sorted by path.
func (g *DAG) SourceNodes() []*Node {
	var out []*Node
	for _, n := range g.sortedNodes() {
		if len(n.RLinks) == 0 {
			out = append(out, n)
		}
	}
	return out
}

// Equal reports whether g and o have the same set of path keys and, for
// each path, Node.Equal Nodes.
func (g *DAG) Equal(o *DAG) bool {
	if o == nil {
		return len(g.nodes) == 0
	}
	if len(g.nodes) != len(o.nodes) {
		return false
	}
	for path, n := range g.nodes {
		on, ok := o.nodes[path]
		if !ok {
			return false
		}
		if !n.Equal(on) {
			return false
		}
	}
	return true
}
