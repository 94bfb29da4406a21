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

// Command pyrrhicb builds a small static website: SCSS styles, a markdown
// page index, and the pages themselves copied into an output directory.
// It is the Go counterpart of original_source/examples/website/build.py,
// kept here as a worked example of wiring a rule list through Resolve,
// BuildDAG and Plan rather than as a general-purpose build frontend.
//
// Usage:
//
//	pyrrhicb [-n] [-graphviz dag.dot] [-state lastrun.pyrrhic.txt] [-root .]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang/glog"

	"github.com/tawesoft/pyrrhic"
)

var (
	rootFlag     = flag.String("root", ".", "project root; styles/, content/ and out/ are resolved relative to this")
	stateFlag    = flag.String("state", "lastrun.pyrrhic.txt", "path to the persisted dependency graph from the previous run")
	dryRunFlag   = flag.Bool("n", false, "only print the planned operations, do not apply them")
	graphvizFlag = flag.String("graphviz", "", "if set, write a DOT rendering of the current dependency graph to this path")
	yesFlag      = flag.Bool("y", false, "do not prompt before deleting a stale output")
)

func rules(root string) []pyrrhic.Rule {
	styles := filepath.Join(root, "styles")
	content := filepath.Join(root, "content")
	out := filepath.Join(root, "out")

	return []pyrrhic.Rule{
		{
			Command: pyrrhic.Scss(filepath.Join(out, "style.css")),
			Inputs:  []pyrrhic.Input{{Base: styles, Path: "main.scss"}},
		},
		{
			Command: pyrrhic.MarkdownIndex(filepath.Join(out, "posts.xml")),
			Inputs:  []pyrrhic.Input{{Base: content, Path: "posts/**/*.md"}},
		},
		{
			Command: pyrrhic.MarkdownIndex(filepath.Join(out, "pages.xml")),
			Inputs: []pyrrhic.Input{
				{Base: content, Path: "pages/*.md"},
				{Base: content, Path: "pages/**/*.md"},
			},
		},
		{
			Command: pyrrhic.Copy(out),
			Inputs: []pyrrhic.Input{
				{Base: content, Path: "posts/**/*.md"},
				{Base: content, Path: "pages/*.md"},
				{Base: content, Path: "pages/**/*.md"},
			},
		},
	}
}

func main() {
	flag.Parse()
	defer glog.Flush()

	if err := run(); err != nil {
		glog.Errorf("pyrrhicb: %v", err)
		fmt.Fprintf(os.Stderr, "pyrrhicb: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	stats := &pyrrhic.RunStats{}
	start := time.Now()
	defer func() { stats.Elapsed = time.Since(start); glog.V(1).Info(stats.String()) }()

	resolver := pyrrhic.NewResolver(pyrrhic.NewFilesystemGlobOracle())
	resolver.Stats = stats

	resolved, err := resolver.Resolve(rules(*rootFlag))
	if err != nil {
		return fmt.Errorf("resolving rules: %w", err)
	}

	dag, err := pyrrhic.BuildDAG(resolved, stats)
	if err != nil {
		return fmt.Errorf("building dependency graph: %w", err)
	}

	if *graphvizFlag != "" {
		if err := os.WriteFile(*graphvizFlag, []byte(pyrrhic.Digraph(dag, "pyrrhicb")), 0o644); err != nil {
			return fmt.Errorf("writing graphviz output: %w", err)
		}
	}

	previous, err := loadPrevious(*stateFlag)
	if err != nil {
		return fmt.Errorf("loading previous state: %w", err)
	}

	plan, err := pyrrhic.Plan(dag, previous, pyrrhic.RealMTimeOracle{}, stats)
	if err != nil {
		return fmt.Errorf("planning: %w", err)
	}

	for _, entry := range plan {
		fmt.Printf("%s %s\n", entry.Op, entry.Node.Path)
		if *dryRunFlag {
			continue
		}
		if err := applyEntry(entry); err != nil {
			return err
		}
	}

	if *dryRunFlag {
		return nil
	}
	return savePrevious(*stateFlag, dag)
}

func applyEntry(entry pyrrhic.PlanEntry) error {
	switch entry.Op {
	case pyrrhic.OpDelete:
		if !*yesFlag && !confirm(fmt.Sprintf("delete %s", entry.Node.Path)) {
			return nil
		}
		return entry.Node.Unlink()
	case pyrrhic.OpWrite:
		return entry.Node.Apply(context.Background())
	default:
		return fmt.Errorf("unknown plan op %q", entry.Op)
	}
}

func confirm(prompt string) bool {
	fmt.Printf("%s (y/n)? ", prompt)
	var reply string
	if _, err := fmt.Scanln(&reply); err != nil {
		return false
	}
	return len(reply) > 0 && (reply[0] == 'y' || reply[0] == 'Y')
}

func loadPrevious(path string) (*pyrrhic.DAG, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	dag, err := pyrrhic.Deserialize(string(data))
	if err != nil {
		glog.Warningf("discarding previous state: %v", err)
		return nil, nil
	}
	return dag, nil
}

func savePrevious(path string, dag *pyrrhic.DAG) error {
	return os.WriteFile(path, []byte(pyrrhic.Serialize(dag)), 0o644)
}
