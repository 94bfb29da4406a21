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
	"strconv"
	"strings"
)

// Digraph renders g as a DOT graph named name. Indirect edges (links that
// are not also DirectLinks, e.g. a Scss file's discovered @import) are
// labeled in parentheses; direct edges are unparenthesized. Grounded in
// original_source/pyrrhic/rules.py's DAG._digraph/digraph, with kati's
// query.go showNode/showDeps as the nearest in-repo precedent for a
// diagnostic graph dump.
//
// Pipe the result to `dot -Tsvg` or similar to render it.
func Digraph(g *DAG, name string) string {
	var b strings.Builder

	nodes := g.sortedNodes()
	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		index[n.Path] = i
	}

	fmt.Fprintf(&b, "digraph %s {\n", dquo(name))
	b.WriteString("    rankdir=LR;\n")

	for i, n := range nodes {
		fmt.Fprintf(&b, "    N_%d [label=%s];\n", i, dquo(n.Path))
	}

	for i, n := range nodes {
		links := make([]*Link, 0, len(n.Links))
		for l := range n.Links {
			links = append(links, l)
		}
		sortLinks(links)
		if len(links) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n    // %s\n", n.Path)
		for _, l := range links {
			left, right := "(", ")"
			if n.DirectLinks[l] {
				left, right = "", ""
			}
			fmt.Fprintf(&b, "    N_%d -> N_%d [label=%s];\n",
				i, index[l.Dest.Path], dquo(left+l.CommandName+right))
		}
	}

	b.WriteString("}\n")
	return b.String()
}

// dquo renders s as a DOT-quoted string literal.
func dquo(s string) string {
	return strconv.Quote(s)
}
