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

import "path/filepath"

// canonicalJoin joins a base directory and a relative path into the single
// normalized form every path key in the DAG is compared and stored under
// (invariant 6: same separators, no redundant "." or ".." components,
// string-equal after normalization). Unlike the teacher's filepathClean,
// this does not consult the filesystem to resolve ".." across symlinks:
// that matters for make's VPATH-style source trees but this engine's
// rules never need a symlink-aware clean, only a stable normal form.
func canonicalJoin(base, path string) string {
	if base == "" {
		return filepath.ToSlash(filepath.Clean(path))
	}
	return filepath.ToSlash(filepath.Clean(filepath.Join(base, path)))
}
