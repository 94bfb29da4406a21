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

// Input is one (base directory, path-or-pattern) pair as declared in a
// Rule, or, once glob-expanded, one concrete (base, relative path) pair.
type Input struct {
	Base string
	Path string
}

// Join returns the canonical path this Input resolves to.
func (i Input) Join() string {
	return canonicalJoin(i.Base, i.Path)
}

// OutputDescriptor is the 4-tuple a command's Producer emits per output:
// the artifact it produces, the inputs the rule explicitly listed, the
// full set of sources (direct inputs plus anything the command discovers
// on its own, e.g. a scanned @import), and a deferred writer that the core
// engine never calls itself.
type OutputDescriptor struct {
	OutputPath     string
	DirectInputs   []Input
	AllSources     []Input
	DeferredWriter func() ([]byte, error)
}

// Producer is the callable a Command wraps: given the glob-expanded
// inputs for one rule, it yields the outputs that rule's command is
// responsible for. A Producer whose contract is violated (e.g. it
// requires exactly one input and receives zero or several) returns a
// *BadCommandUsageError.
type Producer func(inputs []Input) ([]OutputDescriptor, error)

// Command is a named, hashed, parameterized Producer. Hash must be
// deterministic across process runs for semantically identical commands
// and distinct for differently-parameterized ones (see hash.go).
type Command struct {
	Producer Producer
	Name     string
	Hash     [HashSize]byte
}

// doNotCall is the producer every deserialized Command carries: a
// deserialized DAG is for structural comparison only, since only a
// command's name and hash survive a serialize/deserialize round trip.
func doNotCall(inputs []Input) ([]OutputDescriptor, error) {
	panic("pyrrhic: producer of a deserialized command must never be called")
}

// stubCommand builds a Command whose Producer is doNotCall, used when
// rebuilding a DAG from its serialized form.
func stubCommand(name string, hash [HashSize]byte) *Command {
	return &Command{Producer: doNotCall, Name: name, Hash: hash}
}

func badCommandUsage(name, details string) error {
	return &BadCommandUsageError{Command: name, Details: details}
}
