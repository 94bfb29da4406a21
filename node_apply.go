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
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Apply re-invokes n's producing command over n's reconstructed direct
// inputs and writes the resulting bytes to n.Path, creating parent
// directories as needed. It is the external applier's entry point for a
// PlanEntry{Op: OpWrite}; the core engine never calls it.
//
// The source implementation warns and writes to whatever path the
// producer itself returned when it disagrees with n.Path. Per the spec's
// Design Notes (the "apply() path mismatch" Open Question), this is the
// stricter policy: a mismatch is a contract violation and escalates to
// *BadCommandUsageError instead of silently honoring the producer's path.
func (n *Node) Apply(ctx context.Context) error {
	if n.Production == nil {
		return fmt.Errorf("pyrrhic: node %q has no production, nothing to apply", n.Path)
	}
	if n.Production.Producer == nil {
		return fmt.Errorf("pyrrhic: node %q has a production with no producer, nothing to apply", n.Path)
	}

	inputs := n.directInputs()
	logf("apply: %s via %s (%d direct inputs)", n.Path, n.Production.Name, len(inputs))

	descriptors, err := n.Production.Producer(inputs)
	if err != nil {
		return fmt.Errorf("pyrrhic: applying %s: %w", n.Path, err)
	}

	applied := false
	for _, d := range descriptors {
		if d.OutputPath != n.Path {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writeFile(d.OutputPath, d.DeferredWriter); err != nil {
			return err
		}
		applied = true
	}

	if !applied {
		return badCommandUsage(n.Production.Name,
			fmt.Sprintf("producer did not emit an output matching node path %q", n.Path))
	}
	return nil
}

// directInputs reconstructs the (base, path) pairs n's command was
// originally invoked with, from n.DirectRLinks (the direct inbound edges
// recorded at DAG-build time). Grounded in the source's Node.apply, which
// rebuilds `sources` from `self.drlinks`.
func (n *Node) directInputs() []Input {
	var inputs []Input
	for l := range n.DirectRLinks {
		rel, err := filepath.Rel(l.BaseDir, l.Src.Path)
		if err != nil {
			rel = l.Src.Path
		}
		inputs = append(inputs, Input{Base: l.BaseDir, Path: rel})
	}
	return inputs
}

func writeFile(path string, writer func() ([]byte, error)) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("pyrrhic: creating parent dirs for %s: %w", path, err)
		}
	}
	data, err := writer()
	if err != nil {
		return fmt.Errorf("pyrrhic: writing %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("pyrrhic: writing %s: %w", path, err)
	}
	return nil
}

// Unlink removes n's file. A missing file is a silent no-op.
func (n *Node) Unlink() error {
	err := os.Remove(n.Path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("pyrrhic: unlinking %s: %w", n.Path, err)
	}
	return nil
}
