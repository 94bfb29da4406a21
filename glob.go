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
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// GlobOracle expands a (base, pattern) pair into the relative paths under
// base that match pattern. "**" means recursive, matching any number of
// path components.
type GlobOracle interface {
	Glob(base, pattern string) ([]string, error)
}

// hasWildcardMeta reports whether pat contains a glob metacharacter.
// Grounded in kati's pathutil.go hasWildcardMeta/hasWildcardMetaByte.
func hasWildcardMeta(pat string) bool {
	return strings.ContainsAny(pat, "*?[")
}

type filesystemGlobOracle struct{}

// NewFilesystemGlobOracle returns a GlobOracle backed by the real
// filesystem. It is the production oracle passed to Resolve; tests
// substitute a fake. Grounded in kati's fsCacheT.Glob (pathutil.go),
// minus its find-cache: this engine's scale (spec §4.8: up to ~10^5
// distinct commands) does not warrant the AOSP-scale directory cache
// kati maintains.
func NewFilesystemGlobOracle() GlobOracle {
	return filesystemGlobOracle{}
}

func (filesystemGlobOracle) Glob(base, pattern string) ([]string, error) {
	if strings.Contains(pattern, "**") {
		return globRecursive(base, pattern)
	}
	full := filepath.Join(base, pattern)
	matches, err := filepath.Glob(full)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		rel, err := filepath.Rel(base, m)
		if err != nil {
			return nil, err
		}
		out = append(out, filepath.ToSlash(rel))
	}
	sort.Strings(out)
	return out, nil
}

// globRecursive implements "**" by walking base and matching each
// candidate's slash-joined relative path against pattern with "**"
// rewritten to match across separators.
func globRecursive(base, pattern string) ([]string, error) {
	// Walk every file under base and keep those matchDoubleStar accepts,
	// so each candidate path's segment count can vary.
	var out []string
	err := filepath.WalkDir(base, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // best-effort: skip unreadable entries
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(base, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if matchDoubleStar(pattern, rel) {
			out = append(out, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

// matchDoubleStar matches rel against pattern, where pattern may contain
// "**" meaning "zero or more path components". Every other glob
// metacharacter keeps its filepath.Match meaning within a single segment.
func matchDoubleStar(pattern, rel string) bool {
	if !strings.Contains(pattern, "**") {
		ok, _ := filepath.Match(pattern, rel)
		return ok
	}
	prefix, suffix, _ := strings.Cut(pattern, "**")
	prefix = strings.TrimSuffix(prefix, "/")
	suffix = strings.TrimPrefix(suffix, "/")

	if prefix != "" {
		n := strings.Count(prefix, "/") + 1
		segs := strings.SplitN(rel, "/", n+1)
		if len(segs) < n {
			return false
		}
		if ok, _ := filepath.Match(prefix, strings.Join(segs[:n], "/")); !ok {
			return false
		}
		rel = ""
		if len(segs) > n {
			rel = segs[n]
		}
	}
	if suffix == "" {
		return true
	}
	// The remaining relative path must end with a path whose base
	// segment matches suffix's final glob segment, after any number of
	// intervening directories.
	parts := strings.Split(rel, "/")
	for i := 0; i <= len(parts); i++ {
		candidate := strings.Join(parts[i:], "/")
		if ok, _ := filepath.Match(suffix, candidate); ok {
			return true
		}
	}
	return false
}

// expandGlob expands a single (base, path-or-pattern) Input against the
// filesystem oracle and against declaredOutputs (outputs already queued by
// earlier rules in this resolve pass, even though they may not yet exist
// on disk). Filesystem matches are yielded before declared-output matches;
// duplicates (by canonical path) are suppressed. declaredOutputs is owned
// by the caller (the Resolver) for the duration of one Resolve call, never
// package-level state.
func expandGlob(oracle GlobOracle, declaredOutputs []string, in Input) ([]Input, error) {
	if !hasWildcardMeta(in.Path) {
		return []Input{in}, nil
	}

	seen := make(map[string]bool)
	var out []Input

	fsMatches, err := oracle.Glob(in.Base, in.Path)
	if err != nil {
		return nil, err
	}
	for _, m := range fsMatches {
		canon := canonicalJoin(in.Base, m)
		if seen[canon] {
			continue
		}
		seen[canon] = true
		out = append(out, Input{Base: in.Base, Path: m})
	}

	fullPattern := canonicalJoin(in.Base, in.Path)
	for _, declared := range declaredOutputs {
		ok, err := filepath.Match(fullPattern, declared)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if seen[declared] {
			continue
		}
		seen[declared] = true
		rel, err := filepath.Rel(in.Base, declared)
		if err != nil {
			warnf("glob: declared output %q outside base %q", declared, in.Base)
			continue
		}
		out = append(out, Input{Base: in.Base, Path: filepath.ToSlash(rel)})
	}

	return out, nil
}
