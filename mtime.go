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

import "os"

// MTimeOracle answers modification-time questions for a path, returning
// -1.0 for a path that does not exist. Implementations must be monotonic
// within a single run.
type MTimeOracle interface {
	MTime(path string) float64
}

// exists reports whether filename exists on disk. Grounded in kati's
// fileutil.go exists(), minus the VPATH-search variant (existsInVPATH),
// which has no analogue here: this engine has no make-style VPATH
// directive, only explicit (base, pattern) rule inputs.
func exists(filename string) bool {
	_, err := os.Stat(filename)
	return !os.IsNotExist(err)
}

// RealMTimeOracle answers MTime using os.Stat.
type RealMTimeOracle struct{}

// MTime implements MTimeOracle.
func (RealMTimeOracle) MTime(path string) float64 {
	fi, err := os.Stat(path)
	if err != nil {
		return -1.0
	}
	return float64(fi.ModTime().UnixNano()) / 1e9
}

// MapMTimeOracle answers MTime from a fixed map, for tests. Grounded in
// the source implementation's test-only `_mtimes` parameter to DAG.apply
// (original_source/pyrrhic/test/test_dag.py).
type MapMTimeOracle map[string]float64

// MTime implements MTimeOracle.
func (m MapMTimeOracle) MTime(path string) float64 {
	if v, ok := m[path]; ok {
		return v
	}
	return -1.0
}
