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

// BuildDAG converts a Resolver's output into a DAG, rejecting cycles and
// double-produced outputs. Grounded in kati's dep.go depBuilder.buildPlan,
// which walks a dependency tree assigning parents as it goes; generalized
// here from "pick a make rule for an output" to "intern the node for an
// already-resolved output".
//
// A single edge gets exactly one Link object, shared between AllSources and
// DirectInputs bookkeeping: the source implementation's Link defines
// value equality (and a value-based set hash) so an edge that is both an
// AllSources member and a DirectInputs member collapses to one set entry;
// Go map keys compare by pointer, so this builder has to do that collapsing
// itself rather than let two independently-allocated but Equal Links both
// land in the same map.
func BuildDAG(resolved []ResolvedOutput, stats *RunStats) (*DAG, error) {
	dag := NewDAG()
	orderIndex := 0

	for _, r := range resolved {
		destNode := dag.Get(r.OutputPath)
		if destNode.Production != nil {
			return nil, &DuplicateOutputError{Path: r.OutputPath}
		}
		destNode.Production = r.Command
		destNode.OrderIndex = orderIndex
		orderIndex++
		if stats != nil {
			stats.addNode()
		}

		bySrc := make(map[string]*Link, len(r.AllSources))

		for _, src := range r.AllSources {
			srcPath := src.Join()
			if _, dup := bySrc[srcPath]; dup {
				continue
			}
			srcNode := dag.Get(srcPath)
			link, err := newLink(r.Command, srcNode, destNode, src.Base)
			if err != nil {
				return nil, err
			}
			srcNode.Links[link] = true
			destNode.RLinks[link] = true
			bySrc[srcPath] = link
			if stats != nil {
				stats.addLink()
			}
		}

		for _, src := range r.DirectInputs {
			srcPath := src.Join()
			link, ok := bySrc[srcPath]
			if !ok {
				srcNode := dag.Get(srcPath)
				l, err := newLink(r.Command, srcNode, destNode, src.Base)
				if err != nil {
					return nil, err
				}
				srcNode.Links[l] = true
				destNode.RLinks[l] = true
				bySrc[srcPath] = l
				link = l
				if stats != nil {
					stats.addLink()
				}
			}
			link.Src.DirectLinks[link] = true
			destNode.DirectRLinks[link] = true
		}
	}

	if stats != nil {
		stats.addCycleCheck()
	}
	if node, link := findCycle(dag); node != nil {
		warnf("cycle detected at %s via %s", node.Path, link)
		return nil, &CycleDetectedError{Node: node, Link: link}
	}

	return dag, nil
}

// findCycle runs a standard three-color DFS over the DAG: white
// (unvisited), grey (on the current path), black (finished). A back-edge
// into a grey node is a cycle. Returns the node and link where the back-
// edge was found, or (nil, nil) if the graph is acyclic.
func findCycle(dag *DAG) (*Node, *Link) {
	const (
		white = 0
		grey  = 1
		black = 2
	)
	colors := make(map[string]int, dag.Len())
	for _, n := range dag.sortedNodes() {
		colors[n.Path] = white
	}

	var visit func(n *Node) (*Node, *Link)
	visit = func(n *Node) (*Node, *Link) {
		colors[n.Path] = grey
		links := make([]*Link, 0, len(n.Links))
		for l := range n.Links {
			links = append(links, l)
		}
		sortLinks(links)
		for _, l := range links {
			switch colors[l.Dest.Path] {
			case white:
				if badNode, badLink := visit(l.Dest); badNode != nil {
					return badNode, badLink
				}
			case grey:
				return n, l
			}
		}
		colors[n.Path] = black
		return nil, nil
	}

	for _, n := range dag.sortedNodes() {
		if colors[n.Path] == white {
			if badNode, badLink := visit(n); badNode != nil {
				return badNode, badLink
			}
		}
	}
	return nil, nil
}
