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

import (
	"fmt"
	"sort"
)

// Node is a vertex in the dependency graph, identified by a canonical path.
// A Node with a nil Production is a source node: a hand-written input file
// with no rule producing it.
type Node struct {
	Path string

	Links       map[*Link]bool
	DirectLinks map[*Link]bool
	RLinks      map[*Link]bool
	DirectRLinks map[*Link]bool

	Production *Command
	OrderIndex int
}

func newNode(path string) *Node {
	return &Node{
		Path:         path,
		Links:        make(map[*Link]bool),
		DirectLinks:  make(map[*Link]bool),
		RLinks:       make(map[*Link]bool),
		DirectRLinks: make(map[*Link]bool),
	}
}

func (n *Node) String() string {
	return fmt.Sprintf("Node{path=%s links=%d rlinks=%d production=%v}",
		n.Path, len(n.Links), len(n.RLinks), n.Production != nil)
}

// children returns the destination nodes of n's outgoing links, sorted by
// path. Diff and plan (C7) requires this stable order; cycle detection
// (C4) walks links in sortLinks order instead.
func (n *Node) children() []*Node {
	seen := make(map[string]*Node, len(n.Links))
	for l := range n.Links {
		seen[l.Dest.Path] = l.Dest
	}
	out := make([]*Node, 0, len(seen))
	for _, c := range seen {
		out = append(out, c)
	}
	sortNodesByPath(out)
	return out
}

// linkSetEqual reports whether two link sets are equal under Link.Equal.
// Used by Node.Equal and by the structural-diff criterion in plan.go.
func linkSetEqual(a, b map[*Link]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for la := range a {
		found := false
		for lb := range b {
			if la.Equal(lb) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Equal reports structural equality: same path, and equal Links,
// DirectLinks, RLinks and DirectRLinks sets (invariant 6 of the DAG model:
// comparison never depends on Production, a deferred writer, or any other
// non-reproducible field).
func (n *Node) Equal(o *Node) bool {
	if n.Path != o.Path {
		return false
	}
	return linkSetEqual(n.Links, o.Links) &&
		linkSetEqual(n.DirectLinks, o.DirectLinks) &&
		linkSetEqual(n.RLinks, o.RLinks) &&
		linkSetEqual(n.DirectRLinks, o.DirectRLinks)
}

// Link is a directed edge from Src to Dest labeled with the command
// responsible for it. Membership in a Node's DirectLinks/DirectRLinks
// (rather than a field on Link itself) is what distinguishes a direct
// input from an indirect one discovered by the command.
type Link struct {
	CommandName string
	CommandHash [HashSize]byte
	Src         *Node
	Dest        *Node

	// BaseDir is the rule-declared base directory for Src, used only when
	// Node.Apply reconstructs a node's direct inputs. It carries no
	// weight in Link.Equal: two otherwise-identical links with different
	// base dirs are still the same edge for structural-diff purposes, but
	// Apply still needs a concrete base to re-invoke the producer.
	BaseDir string
}

func newLink(cmd *Command, src, dest *Node, baseDir string) (*Link, error) {
	if src == dest {
		return nil, &CycleDetectedError{Node: src, Link: &Link{Src: src, Dest: dest}}
	}
	return &Link{
		CommandName: cmd.Name,
		CommandHash: cmd.Hash,
		Src:         src,
		Dest:        dest,
		BaseDir:     baseDir,
	}, nil
}

// Equal compares (command name, command hash, src path, dest path); the
// producer callable is never part of identity.
func (l *Link) Equal(o *Link) bool {
	return l.CommandName == o.CommandName &&
		l.CommandHash == o.CommandHash &&
		l.Src.Path == o.Src.Path &&
		l.Dest.Path == o.Dest.Path
}

// Less implements a total lexicographic order over
// (command name, command hash, src path, dest path). The source
// implementation's equivalent comparison returns on the first inequality
// encountered in a disjunction of independent comparisons, which is not a
// total order (see spec Open Question on Link.__lt__); this is the
// strict, total-order replacement.
func (l *Link) Less(o *Link) bool {
	if l.CommandName != o.CommandName {
		return l.CommandName < o.CommandName
	}
	if l.CommandHash != o.CommandHash {
		return string(l.CommandHash[:]) < string(o.CommandHash[:])
	}
	if l.Src.Path != o.Src.Path {
		return l.Src.Path < o.Src.Path
	}
	return l.Dest.Path < o.Dest.Path
}

// sortLinks orders links per Link.Less, the total lexicographic order
// over (command name, command hash, src path, dest path).
func sortLinks(links []*Link) {
	sort.Slice(links, func(i, j int) bool { return links[i].Less(links[j]) })
}

func (l *Link) String() string {
	return fmt.Sprintf("Link{%s %x %s => %s}", l.CommandName, l.CommandHash[:4], l.Src.Path, l.Dest.Path)
}
