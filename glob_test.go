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
	"reflect"
	"testing"
)

func TestHasWildcardMeta(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want bool
	}{
		{"plain.txt", false},
		{"*.md", true},
		{"posts/**/*.md", true},
		{"file?.txt", true},
		{"[abc].txt", true},
	} {
		if got := hasWildcardMeta(tc.in); got != tc.want {
			t.Errorf("hasWildcardMeta(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestMatchDoubleStar(t *testing.T) {
	for _, tc := range []struct {
		pattern, rel string
		want         bool
	}{
		{"posts/**/*.md", "posts/a.md", true},
		{"posts/**/*.md", "posts/2020/a.md", true},
		{"posts/**/*.md", "posts/2020/01/a.md", true},
		{"posts/**/*.md", "pages/a.md", false},
		{"posts/**/*.md", "posts/a.txt", false},
		{"**/*.scss", "styles/main.scss", true},
		{"**/*.scss", "main.scss", true},
		{"*.md", "a.md", true},
	} {
		if got := matchDoubleStar(tc.pattern, tc.rel); got != tc.want {
			t.Errorf("matchDoubleStar(%q, %q) = %v, want %v", tc.pattern, tc.rel, got, tc.want)
		}
	}
}

type fakeGlobOracle map[string][]string

func (f fakeGlobOracle) Glob(base, pattern string) ([]string, error) {
	return f[base+"\x00"+pattern], nil
}

// A non-wildcard Input passes through unchanged.
func TestExpandGlobNoWildcard(t *testing.T) {
	in := Input{Base: "content", Path: "about.md"}
	got, err := expandGlob(fakeGlobOracle{}, nil, in)
	if err != nil {
		t.Fatalf("expandGlob: %v", err)
	}
	if !reflect.DeepEqual(got, []Input{in}) {
		t.Errorf("expandGlob(%v) = %v, want [%v]", in, got, in)
	}
}

// Filesystem matches come before declared-output matches, and duplicate
// canonical paths are suppressed, per spec §4.2.
func TestExpandGlobOrderingAndDedup(t *testing.T) {
	oracle := fakeGlobOracle{
		"content\x00*.md": {"a.md", "b.md"},
	}
	declared := []string{"content/b.md", "content/c.md"}

	got, err := expandGlob(oracle, declared, Input{Base: "content", Path: "*.md"})
	if err != nil {
		t.Fatalf("expandGlob: %v", err)
	}

	want := []Input{
		{Base: "content", Path: "a.md"},
		{Base: "content", Path: "b.md"},
		{Base: "content", Path: "c.md"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expandGlob() = %v, want %v", got, want)
	}
}
