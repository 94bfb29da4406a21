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

import "fmt"

// CycleDetectedError reports that the dependency graph contains a cycle.
// Node and Link identify where the back-edge was found during the
// three-color DFS.
type CycleDetectedError struct {
	Node *Node
	Link *Link
}

func (e *CycleDetectedError) Error() string {
	return fmt.Sprintf("cycle detected: %s -> %s", e.Link.Src.Path, e.Link.Dest.Path)
}

// DuplicateOutputError reports that two rules produced the same output path.
type DuplicateOutputError struct {
	Path string
}

func (e *DuplicateOutputError) Error() string {
	return fmt.Sprintf("output %q used in multiple productions", e.Path)
}

// BadCommandUsageError reports that a command's producer received an
// input count its contract forbids.
type BadCommandUsageError struct {
	Command string
	Details string
}

func (e *BadCommandUsageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Command, e.Details)
}

// MissingInputError reports that a source node has neither an on-disk
// file nor a producer in the current DAG.
type MissingInputError struct {
	Path string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("input %q not found", e.Path)
}

// MalformedDagError reports a deserialization failure at a specific line.
// It is recoverable: the caller may discard the previous DAG and proceed
// as if none existed.
type MalformedDagError struct {
	Line int
	Msg  string
}

func (e *MalformedDagError) Error() string {
	return fmt.Sprintf("malformed dag at line %d: %s", e.Line, e.Msg)
}

// UnknownFormatError reports that the deserializer saw a format version
// it does not support. The caller receives an empty DAG, not a hard
// failure, alongside this diagnostic.
type UnknownFormatError struct {
	Format int
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown dag format %d", e.Format)
}
