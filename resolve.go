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


// Rule pairs a Command with the ordered (base, pattern) inputs it
// consumes.
type Rule struct {
	Command Command
	Inputs  []Input
}

// ResolvedOutput is one (command, output, direct-inputs, all-sources)
// tuple yielded per OutputDescriptor a rule's command produces.
type ResolvedOutput struct {
	Command      *Command
	OutputPath   string
	DirectInputs []Input
	AllSources   []Input
}

// Resolver walks a rule list in declaration order, invoking each rule's
// command over its glob-expanded inputs. declaredOutputs is confined to
// one Resolve call (the source implementation's Globber.outputs, kept
// here as an explicit field rather than package state per the "Global
// mutable state" design note).
type Resolver struct {
	oracle          GlobOracle
	declaredOutputs []string

	// Stats, if non-nil, accumulates counters for this Resolver's calls to
	// Resolve. Nil is the zero-overhead default.
	Stats *RunStats
}

// NewResolver returns a Resolver that expands wildcarded inputs via
// oracle.
func NewResolver(oracle GlobOracle) *Resolver {
	return &Resolver{oracle: oracle}
}

// Resolve evaluates every rule in order, returning one ResolvedOutput per
// OutputDescriptor emitted by any rule's command.
func (r *Resolver) Resolve(rules []Rule) ([]ResolvedOutput, error) {
	var out []ResolvedOutput
	r.declaredOutputs = nil

	for _, rule := range rules {
		if r.Stats != nil {
			r.Stats.addRule()
		}

		expanded, err := r.expandInputs(rule.Inputs)
		if err != nil {
			return nil, err
		}

		cmd := rule.Command
		descriptors, err := cmd.Producer(expanded)
		if err != nil {
			return nil, err
		}

		for _, d := range descriptors {
			logf("resolve: %s -> %s (%d direct, %d sources)",
				cmd.Name, d.OutputPath, len(d.DirectInputs), len(d.AllSources))
			r.declaredOutputs = append(r.declaredOutputs, d.OutputPath)
			if r.Stats != nil {
				r.Stats.addOutput()
			}
			out = append(out, ResolvedOutput{
				Command:      &cmd,
				OutputPath:   d.OutputPath,
				DirectInputs: d.DirectInputs,
				AllSources:   d.AllSources,
			})
		}
	}

	return out, nil
}

func (r *Resolver) expandInputs(inputs []Input) ([]Input, error) {
	var out []Input
	for _, in := range inputs {
		expanded, err := expandGlob(r.oracle, r.declaredOutputs, in)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded...)
	}
	return out, nil
}
