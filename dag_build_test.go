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

import "testing"

// rule is a test-only shorthand for building a Rule out of a Cat command
// and a flat list of (base, path) pairs, mirroring how
// original_source/pyrrhic/test/test_dag.py builds its rule lists from
// bw.commands.cat(dest), [(base, path), ...].
func rule(dest string, pairs ...string) Rule {
	if len(pairs)%2 != 0 {
		panic("rule: pairs must be (base, path) tuples")
	}
	var inputs []Input
	for i := 0; i < len(pairs); i += 2 {
		inputs = append(inputs, Input{Base: pairs[i], Path: pairs[i+1]})
	}
	return Rule{Command: Cat(dest), Inputs: inputs}
}

func buildDAG(t *testing.T, rules []Rule) (*DAG, error) {
	t.Helper()
	resolved, err := NewResolver(NewFilesystemGlobOracle()).Resolve(rules)
	if err != nil {
		return nil, err
	}
	return BuildDAG(resolved, nil)
}

// Scenario A: a rule whose sole input is also its own output is a
// self-cycle, rejected at Link-construction time.
func TestDAGSelfCycle(t *testing.T) {
	_, err := buildDAG(t, []Rule{rule("a", "", "a")})
	if _, ok := err.(*CycleDetectedError); !ok {
		t.Fatalf("buildDAG() err = %v, want *CycleDetectedError", err)
	}
}

// Scenario B: a longer cycle (b<-a, c<-b, a<-c) is rejected by the
// three-color DFS cycle check after the graph is fully built.
func TestDAGLongerCycle(t *testing.T) {
	_, err := buildDAG(t, []Rule{
		rule("b", "", "a"),
		rule("c", "", "b"),
		rule("a", "", "c"),
	})
	if _, ok := err.(*CycleDetectedError); !ok {
		t.Fatalf("buildDAG() err = %v, want *CycleDetectedError", err)
	}
}

// Scenario C: two rules producing the same output path fail; distinct
// output paths are fine.
func TestDAGDuplicateOutput(t *testing.T) {
	_, err := buildDAG(t, []Rule{
		rule("output", "", "a"),
		rule("output", "", "b"),
	})
	if _, ok := err.(*DuplicateOutputError); !ok {
		t.Fatalf("buildDAG() err = %v, want *DuplicateOutputError", err)
	}

	if _, err := buildDAG(t, []Rule{
		rule("output1", "", "a"),
		rule("output2", "", "b"),
	}); err != nil {
		t.Fatalf("buildDAG() with distinct outputs: unexpected error %v", err)
	}
}

// Two DAGs built from the same rule list compare equal; a third, built
// from a different rule list, compares unequal to both. Grounded in
// original_source/pyrrhic/test/test_dag.py's test_dag_eq.
func TestDAGEqual(t *testing.T) {
	build := func(extra bool) []Rule {
		rules := []Rule{
			rule("bin/a", "examples", "a"),
			rule("bin/b", "examples", "b"),
		}
		if extra {
			rules = append(rules, rule("bin/c", "examples", "c"))
		}
		rules = append(rules, rule("bin/ab", "examples", "a", "examples", "b"))
		return rules
	}

	dag1, err := buildDAG(t, build(false))
	if err != nil {
		t.Fatalf("buildDAG(rules1): %v", err)
	}
	dag2, err := buildDAG(t, build(false))
	if err != nil {
		t.Fatalf("buildDAG(rules2): %v", err)
	}
	dag3, err := buildDAG(t, build(true))
	if err != nil {
		t.Fatalf("buildDAG(rules3): %v", err)
	}

	if !dag1.Equal(dag2) {
		t.Errorf("dag1 and dag2 (same construction) compare unequal")
	}
	if dag2.Equal(dag3) {
		t.Errorf("dag2 and dag3 (different construction) compare equal")
	}
	if dag1.Equal(dag3) {
		t.Errorf("dag1 and dag3 (different construction) compare equal")
	}
}

// An edge that is both a direct input and part of AllSources collapses to
// a single Link, not two: Node.Links/DirectLinks are value-deduplicated
// sets in the source implementation, and this builder has to replicate
// that by hand since Go maps key on pointer identity.
func TestDAGBuildCollapsesDuplicateEdge(t *testing.T) {
	dag, err := buildDAG(t, []Rule{rule("dest/a", "src", "a")})
	if err != nil {
		t.Fatalf("buildDAG: %v", err)
	}

	destNode := dag.Pick("dest/a")
	if destNode == nil {
		t.Fatal("dest/a not found in built DAG")
	}
	if got := len(destNode.RLinks); got != 1 {
		t.Errorf("len(dest/a.RLinks) = %d, want 1", got)
	}
	if got := len(destNode.DirectRLinks); got != 1 {
		t.Errorf("len(dest/a.DirectRLinks) = %d, want 1", got)
	}

	srcNode := dag.Pick("src/a")
	if got := len(srcNode.Links); got != 1 {
		t.Errorf("len(src/a.Links) = %d, want 1", got)
	}
	if got := len(srcNode.DirectLinks); got != 1 {
		t.Errorf("len(src/a.DirectLinks) = %d, want 1", got)
	}
}
