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

// Rules are evaluated in declaration order, and each resolved output's
// OutputPath becomes visible to later rules' glob expansion within the
// same Resolve call (the "declared outputs" half of C2's two-stage glob).
func TestResolverDeclaredOutputsVisibleToLaterRules(t *testing.T) {
	oracle := fakeGlobOracle{
		"out\x00*.txt": nil, // nothing on disk yet
	}
	rules := []Rule{
		{Command: Cat("out/a.txt"), Inputs: []Input{{Base: "src", Path: "a"}}},
		{Command: Cat("out/bundle.txt"), Inputs: []Input{{Base: "out", Path: "*.txt"}}},
	}

	resolver := NewResolver(oracle)
	resolver.Stats = &RunStats{}
	out, err := resolver.Resolve(rules)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if len(out) != 2 {
		t.Fatalf("Resolve() returned %d outputs, want 2", len(out))
	}
	second := out[1]
	if second.OutputPath != "out/bundle.txt" {
		t.Fatalf("second output path = %q, want out/bundle.txt", second.OutputPath)
	}
	if len(second.DirectInputs) != 1 || second.DirectInputs[0] != (Input{Base: "out", Path: "a.txt"}) {
		t.Errorf("second rule's inputs = %v, want a single out/a.txt glob match", second.DirectInputs)
	}

	if resolver.Stats.RulesResolved != 2 || resolver.Stats.OutputsResolved != 2 {
		t.Errorf("Stats = %+v, want 2 rules and 2 outputs", resolver.Stats)
	}
}

// A Producer error propagates straight out of Resolve.
func TestResolverPropagatesProducerError(t *testing.T) {
	boom := Command{
		Name: "boom",
		Producer: func(inputs []Input) ([]OutputDescriptor, error) {
			return nil, badCommandUsage("boom", "always fails")
		},
	}
	_, err := NewResolver(fakeGlobOracle{}).Resolve([]Rule{{Command: boom}})
	if _, ok := err.(*BadCommandUsageError); !ok {
		t.Fatalf("Resolve() err = %v, want *BadCommandUsageError", err)
	}
}
