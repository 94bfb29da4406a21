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

// PlanOp is one of the two operations a Plan entry can carry.
type PlanOp string

const (
	// OpDelete removes a file that the previous DAG produced but the
	// current DAG no longer does.
	OpDelete PlanOp = "d"
	// OpWrite (re)produces a file because it or something it depends on
	// changed, or because it didn't exist before.
	OpWrite PlanOp = "w"
)

// PlanEntry is one scheduled filesystem operation.
type PlanEntry struct {
	Op   PlanOp
	Node *Node
}

// Plan computes the diff between current and previous (which may be nil,
// meaning no prior run) and returns an ordered sequence of deletions
// followed by writes. Grounded directly in
// original_source/pyrrhic/rules.py's DAG._apply (search/_visit), which
// this reimplements stage-for-stage per spec §4.7.
//
// Deletions are sorted by path. Writes are left in the order search/visit
// first emits them: depth-first from each source node, children visited in
// sorted-path order, each node emitted once on first visit. A node's
// emission position can and does precede a node with a numerically lower
// Node.OrderIndex, whenever DFS reaches the lower-index node later — the
// worked examples this engine is tested against are explicit about the
// exact resulting order, and it is this emission order, not a final
// sort-by-OrderIndex pass. (OrderIndex records each node's declaration
// order at build time; nothing in this function, or elsewhere in the
// engine, sorts by it.)
//
// The structural-diff criterion (stage 2, "dest.Links != pnode.Links or
// dest.RLinks != pnode.RLinks") compares the FULL link sets of both
// endpoints, exactly as the source does. This can over-trigger a rebuild
// when an unrelated downstream node gains or loses an edge elsewhere in
// the graph; the spec's own Design Notes flag this as a known, accepted
// tradeoff of matching the source rather than a narrower dependency-only
// comparison, so it is kept as specified rather than narrowed.
func Plan(current, previous *DAG, oracle MTimeOracle, stats *RunStats) ([]PlanEntry, error) {
	if previous == nil {
		previous = NewDAG()
	}

	mtimes := make(map[string]float64)
	getMTime := func(path string) float64 {
		if v, ok := mtimes[path]; ok {
			return v
		}
		v := oracle.MTime(path)
		mtimes[path] = v
		return v
	}

	var deletions []PlanEntry
	for _, n := range previous.sortedNodes() {
		if len(n.RLinks) == 0 {
			continue // source node, never scheduled for deletion
		}
		if current.Pick(n.Path) != nil {
			continue // still produced by the current DAG
		}
		deletions = append(deletions, PlanEntry{Op: OpDelete, Node: n})
		mtimes[n.Path] = -1.0
	}

	seen := make(map[string]bool)
	var writes []PlanEntry

	var visit func(n *Node)
	visit = func(n *Node) {
		if seen[n.Path] {
			return
		}
		seen[n.Path] = true
		writes = append(writes, PlanEntry{Op: OpWrite, Node: n})
		for _, child := range n.children() {
			visit(child)
		}
	}

	var planErr error
	var search func(n *Node)
	search = func(n *Node) {
		if planErr != nil {
			return
		}
		for _, dest := range n.children() {
			if seen[dest.Path] {
				continue
			}

			pnode := previous.Pick(dest.Path)
			switch {
			case pnode == nil:
				visit(dest)
				continue
			case !linkSetEqual(dest.Links, pnode.Links) || !linkSetEqual(dest.RLinks, pnode.RLinks):
				logf("plan: %s structurally changed since last run", dest.Path)
				visit(dest)
				continue
			}

			srcMTime := getMTime(n.Path)
			if srcMTime < 0 {
				planErr = &MissingInputError{Path: n.Path}
				return
			}
			destMTime := getMTime(dest.Path)
			if destMTime < 0 || srcMTime > destMTime {
				visit(dest)
				mtimes[dest.Path] = srcMTime
				continue
			}

			search(dest)
			if planErr != nil {
				return
			}
		}
	}

	for _, n := range current.SourceNodes() {
		search(n)
		if planErr != nil {
			return nil, planErr
		}
	}

	all := append(deletions, writes...)
	if stats != nil {
		for _, e := range all {
			stats.addPlan(e.Op)
		}
	}
	return all, nil
}
