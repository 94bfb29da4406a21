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
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, dir, name, content string) {
	t.Helper()
	full := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestCatConcatenatesInOrder(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "a.txt", "hello ")
	writeTemp(t, dir, "b.txt", "world")

	cmd := Cat("out.txt")
	descriptors, err := cmd.Producer([]Input{
		{Base: dir, Path: "a.txt"},
		{Base: dir, Path: "b.txt"},
	})
	if err != nil {
		t.Fatalf("Producer: %v", err)
	}
	if len(descriptors) != 1 {
		t.Fatalf("got %d descriptors, want 1", len(descriptors))
	}
	d := descriptors[0]
	if d.OutputPath != "out.txt" {
		t.Errorf("OutputPath = %q, want out.txt", d.OutputPath)
	}
	if len(d.DirectInputs) != 2 || len(d.AllSources) != 2 {
		t.Errorf("DirectInputs/AllSources = %v/%v, want 2 of each", d.DirectInputs, d.AllSources)
	}
	got, err := d.DeferredWriter()
	if err != nil {
		t.Fatalf("DeferredWriter: %v", err)
	}
	if string(got) != "hello world" {
		t.Errorf("Cat output = %q, want %q", got, "hello world")
	}
}

func TestCatAppliesTrans(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "a.txt", "ab")

	upper := func(b []byte) []byte { return bytes.ToUpper(b) }
	cmd := Cat("out.txt", WithCatTrans(upper))
	descriptors, err := cmd.Producer([]Input{{Base: dir, Path: "a.txt"}})
	if err != nil {
		t.Fatalf("Producer: %v", err)
	}
	got, err := descriptors[0].DeferredWriter()
	if err != nil {
		t.Fatalf("DeferredWriter: %v", err)
	}
	if string(got) != "AB" {
		t.Errorf("Cat with WithCatTrans = %q, want AB", got)
	}
}

func TestCopyEmitsOneDescriptorPerInput(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "posts/a.md", "A")
	writeTemp(t, dir, "posts/b.md", "B")

	cmd := Copy("out")
	descriptors, err := cmd.Producer([]Input{
		{Base: dir, Path: "posts/a.md"},
		{Base: dir, Path: "posts/b.md"},
	})
	if err != nil {
		t.Fatalf("Producer: %v", err)
	}
	if len(descriptors) != 2 {
		t.Fatalf("got %d descriptors, want 2", len(descriptors))
	}
	if descriptors[0].OutputPath != filepath.Join("out", "posts/a.md") {
		t.Errorf("descriptors[0].OutputPath = %q", descriptors[0].OutputPath)
	}
	data, err := descriptors[1].DeferredWriter()
	if err != nil {
		t.Fatalf("DeferredWriter: %v", err)
	}
	if string(data) != "B" {
		t.Errorf("descriptors[1] content = %q, want B", data)
	}
}

func TestCompileFileRejectsWrongInputCount(t *testing.T) {
	cmd := CompileFile("out.html", func(base, path string) ([]byte, error) {
		return nil, nil
	}, nil, "render")

	if _, err := cmd.Producer(nil); err == nil {
		t.Fatal("Producer(nil) succeeded, want *BadCommandUsageError")
	} else if _, ok := err.(*BadCommandUsageError); !ok {
		t.Errorf("Producer(nil) err = %v, want *BadCommandUsageError", err)
	}

	in := Input{Base: t.TempDir(), Path: "a.md"}
	if _, err := cmd.Producer([]Input{in, in}); err == nil {
		t.Fatal("Producer(2 inputs) succeeded, want *BadCommandUsageError")
	}
}

func TestScssScannerFollowsImports(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "styles/_base.scss", "body { margin: 0; }")
	writeTemp(t, dir, "styles/main.scss", `@import "base";
.page { color: red; }`)

	cmd := Scss("out.css")
	descriptors, err := cmd.Producer([]Input{{Base: dir, Path: "styles/main.scss"}})
	if err != nil {
		t.Fatalf("Producer: %v", err)
	}
	d := descriptors[0]
	if len(d.DirectInputs) != 1 || d.DirectInputs[0].Path != "styles/main.scss" {
		t.Errorf("DirectInputs = %v, want just main.scss", d.DirectInputs)
	}
	if len(d.AllSources) != 2 {
		t.Fatalf("AllSources = %v, want main.scss plus the resolved import", d.AllSources)
	}
	found := false
	for _, s := range d.AllSources {
		if s.Path == "styles/_base.scss" {
			found = true
		}
	}
	if !found {
		t.Errorf("AllSources = %v, want styles/_base.scss among them", d.AllSources)
	}
}

func TestMarkdownIndexJSON(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "a.md", "Alpha\n====\n\nFirst page summary.\n")
	writeTemp(t, dir, "b.md", "Beta\n====\n\nSecond page summary.\n")

	cmd := MarkdownIndex("index.json", WithMarkdownIndexFormat(IndexFormatJSON))
	descriptors, err := cmd.Producer([]Input{
		{Base: dir, Path: "a.md"},
		{Base: dir, Path: "b.md"},
	})
	if err != nil {
		t.Fatalf("Producer: %v", err)
	}
	data, err := descriptors[0].DeferredWriter()
	if err != nil {
		t.Fatalf("DeferredWriter: %v", err)
	}

	var pages []map[string]string
	if err := json.Unmarshal(data, &pages); err != nil {
		t.Fatalf("json.Unmarshal: %v\n%s", err, data)
	}
	if len(pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(pages))
	}
	titles := map[string]bool{pages[0]["title"]: true, pages[1]["title"]: true}
	if !titles["Alpha"] || !titles["Beta"] {
		t.Errorf("pages = %v, want titles Alpha and Beta", pages)
	}
}
