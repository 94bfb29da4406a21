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
	"bytes"
	"crypto/sha1"
	"encoding/binary"
	"sort"
)

// HashSize is the fixed width, in bytes, of a command identity hash.
const HashSize = sha1.Size

// paramEncoder builds a deterministic byte encoding of a command's
// parameters for hashing. It is the identity-hash analogue of kati's
// dumpbuf in serialize.go: every value is written length-prefixed or
// fixed-width, and nothing that depends on pointer identity, map
// iteration order, or wall-clock time is ever written.
type paramEncoder struct {
	buf bytes.Buffer
}

func newParamEncoder(tag byte) *paramEncoder {
	e := &paramEncoder{}
	e.buf.WriteByte(tag)
	return e
}

func (e *paramEncoder) str(s string) *paramEncoder {
	var n [4]byte
	binary.LittleEndian.PutUint32(n[:], uint32(len(s)))
	e.buf.Write(n[:])
	e.buf.WriteString(s)
	return e
}

func (e *paramEncoder) strs(ss []string) *paramEncoder {
	var n [4]byte
	binary.LittleEndian.PutUint32(n[:], uint32(len(ss)))
	e.buf.Write(n[:])
	for _, s := range ss {
		e.str(s)
	}
	return e
}

func (e *paramEncoder) bool(b bool) *paramEncoder {
	if b {
		e.buf.WriteByte(1)
	} else {
		e.buf.WriteByte(0)
	}
	return e
}

// stringSet writes a set of strings in sorted order, so that insertion
// order into whatever container the caller built the set with (which Go
// maps never guarantee) can never leak into the hash.
func (e *paramEncoder) stringSet(set map[string]bool) *paramEncoder {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return e.strs(keys)
}

// sum computes the fixed-width fingerprint of the accumulated parameters.
func (e *paramEncoder) sum() [HashSize]byte {
	return sha1.Sum(e.buf.Bytes())
}

// commandKind tags each concrete command variant's parameter encoding so
// that, e.g., a Cat and a Copy that happen to share incidental parameter
// bytes never collide.
type commandKind byte

const (
	kindCat commandKind = iota + 1
	kindCopy
	kindCompileFile
	kindScss
	kindMarkdownIndex
	kindUserCustom
)

// hashParams is a convenience wrapper used by the concrete command
// constructors in commands.go: it tags the encoding with kind and folds
// in each string parameter in the order given.
func hashParams(kind commandKind, params ...string) [HashSize]byte {
	e := newParamEncoder(byte(kind))
	e.strs(params)
	return e.sum()
}
