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
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// dagFormat is the only format version this codec writes. A future
// format that bumps this number must still be decodable by an older
// reader as "empty DAG, diagnostic" rather than a hard failure; see
// Deserialize's UnknownFormatError handling.
const dagFormat = 2

// pathEscape/pathUnescape give every path and command name a
// whitespace- and control-character-free encoding so the line-oriented
// grammar never has to guess where a token ends. Grounded in kati's own
// net/url.QueryEscape use in serialize.go's cacheFilename.
func pathEscape(s string) string { return url.QueryEscape(s) }

func pathUnescape(s string) (string, error) { return url.QueryUnescape(s) }

// Serialize encodes g as the stable, line-oriented text format described
// by the DAG persistence format: a "format" header, then one "node" line
// per node (sorted by path, index = emission position), one "func" line
// per distinct (command name, command hash) pair (first-encountered
// order over that same sorted traversal), then "link"/"dlink" lines for
// every edge. Byte-identical for equal DAGs across runs.
func Serialize(g *DAG) string {
	var b strings.Builder

	b.WriteString("# pyrrhic dependency graph\n")
	b.WriteString(fmt.Sprintf("format %d\n", dagFormat))

	nodes := g.sortedNodes()
	index := make(map[string]int, len(nodes))

	b.WriteString("\n# node num_links path\n")
	for i, n := range nodes {
		index[n.Path] = i
		b.WriteString(fmt.Sprintf("node %d %s\n", len(n.Links), pathEscape(n.Path)))
	}

	type funcKey struct {
		name string
		hash [HashSize]byte
	}
	var funcs []funcKey
	funcIndex := make(map[funcKey]int)

	sortedLinksOf := func(n *Node) []*Link {
		links := make([]*Link, 0, len(n.Links))
		for l := range n.Links {
			links = append(links, l)
		}
		sortLinks(links)
		return links
	}

	for _, n := range nodes {
		for _, l := range sortedLinksOf(n) {
			k := funcKey{name: l.CommandName, hash: l.CommandHash}
			if _, ok := funcIndex[k]; !ok {
				funcIndex[k] = len(funcs)
				funcs = append(funcs, k)
			}
		}
	}

	b.WriteString("\n# func name hash\n")
	for _, f := range funcs {
		b.WriteString(fmt.Sprintf("func %s %s\n", pathEscape(f.name), hex.EncodeToString(f.hash[:])))
	}

	b.WriteString("\n# (d)link src_index dest_index func_index\n")
	b.WriteString("# dlink means the input is direct, link means indirect\n")
	for _, n := range nodes {
		srcIndex := index[n.Path]
		for _, l := range sortedLinksOf(n) {
			fi := funcIndex[funcKey{name: l.CommandName, hash: l.CommandHash}]
			label := "link"
			if n.DirectLinks[l] {
				label = "dlink"
			}
			b.WriteString(fmt.Sprintf("%s %d %d %d\n", label, srcIndex, index[l.Dest.Path], fi))
		}
	}

	return b.String()
}

// Deserialize decodes the text format written by Serialize. Links keep
// each command's name and hash, and every produced node's Production
// becomes a do-not-call stub: only name and hash survive a round trip. A syntax error returns an empty DAG alongside a
// *MalformedDagError; an unrecognized format version returns an empty DAG
// alongside a *UnknownFormatError. Neither is meant to abort the caller —
// both signal "treat this the way you'd treat a missing previous DAG".
func Deserialize(data string) (*DAG, error) {
	dag := NewDAG()
	var paths []string
	type funcEntry struct {
		name string
		hash [HashSize]byte
	}
	var funcs []funcEntry

	lines := strings.Split(data, "\n")
	for lineNo, line := range lines {
		if line == "" || strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		label, rest, ok := strings.Cut(line, " ")
		if !ok {
			return NewDAG(), &MalformedDagError{Line: lineNo + 1, Msg: "missing argument"}
		}

		switch label {
		case "format":
			v, err := strconv.Atoi(strings.TrimSpace(rest))
			if err != nil {
				return NewDAG(), &MalformedDagError{Line: lineNo + 1, Msg: "bad format number"}
			}
			if v != dagFormat {
				warnf("serialize: unknown dag format %d, treating as empty", v)
				return NewDAG(), &UnknownFormatError{Format: v}
			}

		case "node":
			numLinksStr, path, ok := strings.Cut(rest, " ")
			if !ok {
				return NewDAG(), &MalformedDagError{Line: lineNo + 1, Msg: "malformed node record"}
			}
			if _, err := strconv.Atoi(numLinksStr); err != nil {
				return NewDAG(), &MalformedDagError{Line: lineNo + 1, Msg: "bad num_links"}
			}
			decodedPath, err := pathUnescape(path)
			if err != nil {
				return NewDAG(), &MalformedDagError{Line: lineNo + 1, Msg: "bad path escaping"}
			}
			dag.Get(decodedPath)
			paths = append(paths, decodedPath)

		case "func":
			name, hashHex, ok := strings.Cut(rest, " ")
			if !ok {
				return NewDAG(), &MalformedDagError{Line: lineNo + 1, Msg: "malformed func record"}
			}
			decodedName, err := pathUnescape(name)
			if err != nil {
				return NewDAG(), &MalformedDagError{Line: lineNo + 1, Msg: "bad func name escaping"}
			}
			raw, err := hex.DecodeString(hashHex)
			if err != nil || len(raw) != HashSize {
				return NewDAG(), &MalformedDagError{Line: lineNo + 1, Msg: "bad func hash"}
			}
			var h [HashSize]byte
			copy(h[:], raw)
			funcs = append(funcs, funcEntry{name: decodedName, hash: h})

		case "link", "dlink":
			fields := strings.Fields(rest)
			if len(fields) != 3 {
				return NewDAG(), &MalformedDagError{Line: lineNo + 1, Msg: "malformed link record"}
			}
			srcIdx, err1 := strconv.Atoi(fields[0])
			destIdx, err2 := strconv.Atoi(fields[1])
			funcIdx, err3 := strconv.Atoi(fields[2])
			if err1 != nil || err2 != nil || err3 != nil {
				return NewDAG(), &MalformedDagError{Line: lineNo + 1, Msg: "bad link indices"}
			}
			if srcIdx < 0 || srcIdx >= len(paths) || destIdx < 0 || destIdx >= len(paths) || funcIdx < 0 || funcIdx >= len(funcs) {
				return NewDAG(), &MalformedDagError{Line: lineNo + 1, Msg: "link index out of range"}
			}
			srcNode := dag.Get(paths[srcIdx])
			destNode := dag.Get(paths[destIdx])
			f := funcs[funcIdx]
			if destNode.Production == nil {
				destNode.Production = stubCommand(f.name, f.hash)
			}
			link := &Link{CommandName: f.name, CommandHash: f.hash, Src: srcNode, Dest: destNode}
			srcNode.Links[link] = true
			destNode.RLinks[link] = true
			if label == "dlink" {
				srcNode.DirectLinks[link] = true
				destNode.DirectRLinks[link] = true
			}

		default:
			return NewDAG(), &MalformedDagError{Line: lineNo + 1, Msg: fmt.Sprintf("unknown record %q", label)}
		}
	}

	return dag, nil
}
