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
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// identity is the default byte transform every command with a trans hook
// falls back to: the input passes through unchanged.
func identity(b []byte) []byte { return b }

// --- Cat -------------------------------------------------------------------

type catConfig struct {
	name       string
	trans      func([]byte) []byte
	transFinal func([]byte) []byte
}

// CatOption configures Cat.
type CatOption func(*catConfig)

// WithCatName overrides the command's identity name (default "cat").
func WithCatName(name string) CatOption { return func(c *catConfig) { c.name = name } }

// WithCatTrans applies trans to each input's bytes before concatenation.
func WithCatTrans(trans func([]byte) []byte) CatOption {
	return func(c *catConfig) { c.trans = trans }
}

// WithCatTransFinal applies trans to the whole concatenated output.
func WithCatTransFinal(trans func([]byte) []byte) CatOption {
	return func(c *catConfig) { c.transFinal = trans }
}

// Cat builds a Command that concatenates every input, in the order given,
// into a single file at dest. Mirrors original_source/pyrrhic/commands.py's
// cat().
func Cat(dest string, opts ...CatOption) Command {
	cfg := catConfig{name: "cat", trans: identity, transFinal: identity}
	for _, o := range opts {
		o(&cfg)
	}

	producer := func(inputs []Input) ([]OutputDescriptor, error) {
		ins := append([]Input(nil), inputs...)
		return []OutputDescriptor{{
			OutputPath:   dest,
			DirectInputs: ins,
			AllSources:   ins,
			DeferredWriter: func() ([]byte, error) {
				var buf bytes.Buffer
				for _, in := range ins {
					data, err := os.ReadFile(in.Join())
					if err != nil {
						return nil, err
					}
					buf.Write(cfg.trans(data))
				}
				return cfg.transFinal(buf.Bytes()), nil
			},
		}}, nil
	}

	return Command{Producer: producer, Name: cfg.name, Hash: hashParams(kindCat, dest, cfg.name)}
}

// --- Copy --------------------------------------------------------------

type copyConfig struct {
	name  string
	trans func([]byte) []byte
}

// CopyOption configures Copy.
type CopyOption func(*copyConfig)

// WithCopyName overrides the command's identity name (default "copy").
func WithCopyName(name string) CopyOption { return func(c *copyConfig) { c.name = name } }

// WithCopyTrans applies trans to each input's bytes before it is written.
func WithCopyTrans(trans func([]byte) []byte) CopyOption {
	return func(c *copyConfig) { c.trans = trans }
}

// Copy builds a Command that copies every input to destDir, preserving each
// input's path relative to its own base. One OutputDescriptor per input.
// Mirrors commands.py's copy().
func Copy(destDir string, opts ...CopyOption) Command {
	cfg := copyConfig{name: "copy", trans: identity}
	for _, o := range opts {
		o(&cfg)
	}

	producer := func(inputs []Input) ([]OutputDescriptor, error) {
		out := make([]OutputDescriptor, 0, len(inputs))
		for _, in := range inputs {
			in := in
			output := filepath.Join(destDir, in.Path)
			out = append(out, OutputDescriptor{
				OutputPath:   output,
				DirectInputs: []Input{in},
				AllSources:   []Input{in},
				DeferredWriter: func() ([]byte, error) {
					data, err := os.ReadFile(in.Join())
					if err != nil {
						return nil, err
					}
					return cfg.trans(data), nil
				},
			})
		}
		return out, nil
	}

	return Command{Producer: producer, Name: cfg.name, Hash: hashParams(kindCopy, destDir, cfg.name)}
}

// --- CompileFile ---------------------------------------------------------

// CompileFunc compiles the file at base/path to the bytes written to the
// command's output.
type CompileFunc func(base, path string) ([]byte, error)

// CompileFile builds a Command that takes exactly one input, compiles it
// with compile, and additionally tracks whatever scan discovers as indirect
// sources. Mirrors commands.py's compile_file(). A rule invoking a
// CompileFile-derived command over anything but exactly one input is a
// *BadCommandUsageError.
func CompileFile(dest string, compile CompileFunc, scan ScanFunc, name string) Command {
	if scan == nil {
		scan = noScan
	}

	producer := func(inputs []Input) ([]OutputDescriptor, error) {
		if len(inputs) != 1 {
			return nil, badCommandUsage(name, fmt.Sprintf("expected exactly 1 input, got %d", len(inputs)))
		}
		in := inputs[0]

		discovered, err := scan(in.Base, in.Path)
		if err != nil {
			return nil, err
		}
		sources := append([]Input{in}, discovered...)

		return []OutputDescriptor{{
			OutputPath:   dest,
			DirectInputs: []Input{in},
			AllSources:   sources,
			DeferredWriter: func() ([]byte, error) {
				return compile(in.Base, in.Path)
			},
		}}, nil
	}

	return Command{Producer: producer, Name: name, Hash: hashParams(kindCompileFile, dest, name)}
}

// --- Scss ------------------------------------------------------------------

type scssConfig struct {
	name     string
	encoding string
	compile  CompileFunc
}

// ScssOption configures Scss.
type ScssOption func(*scssConfig)

// WithScssName overrides the command's identity name (default "scss").
func WithScssName(name string) ScssOption { return func(c *scssConfig) { c.name = name } }

// WithScssEncoding sets the text encoding used to read and scan the source
// file (default "utf-8"; only "utf-8" is currently honored, since Go source
// files and os.ReadFile both assume it).
func WithScssEncoding(encoding string) ScssOption {
	return func(c *scssConfig) { c.encoding = encoding }
}

// WithScssCompile overrides the default stand-in transform with a real SCSS
// compiler binding (e.g. a cgo libsass wrapper or a Dart Sass subprocess
// shim). Without this option Scss does not compile SCSS at all: it passes
// the source through unchanged, since a real compiler is an external
// collaborator this engine does not ship.
func WithScssCompile(compile CompileFunc) ScssOption {
	return func(c *scssConfig) { c.compile = compile }
}

// passthroughCompile is Scss's default CompileFunc: it reads the source
// unchanged. Real SCSS compilation is out of scope (see WithScssCompile);
// this exists only so Scss is usable end to end in a worked example without
// a cgo dependency.
func passthroughCompile(base, path string) ([]byte, error) {
	return os.ReadFile(filepath.Join(base, path))
}

// Scss builds a CompileFile-derived Command that tracks a SCSS file's
// @import targets as indirect sources. Mirrors commands.py's scss(), minus
// the bound libsass call: see WithScssCompile.
func Scss(dest string, opts ...ScssOption) Command {
	cfg := scssConfig{name: "scss", encoding: "utf-8", compile: passthroughCompile}
	for _, o := range opts {
		o(&cfg)
	}
	return CompileFile(dest, cfg.compile, scssImportScanner(cfg.encoding), cfg.name)
}

// --- MarkdownIndex -----------------------------------------------------

// IndexFormat selects MarkdownIndex's output encoding.
type IndexFormat int

const (
	// IndexFormatXML writes an XML document whose root is <pages>.
	IndexFormatXML IndexFormat = iota
	// IndexFormatJSON writes a JSON array of page objects.
	IndexFormatJSON
)

type markdownIndexConfig struct {
	name   string
	format IndexFormat
}

// MarkdownIndexOption configures MarkdownIndex.
type MarkdownIndexOption func(*markdownIndexConfig)

// WithMarkdownIndexName overrides the command's identity name (default
// "markdown_index").
func WithMarkdownIndexName(name string) MarkdownIndexOption {
	return func(c *markdownIndexConfig) { c.name = name }
}

// WithMarkdownIndexFormat selects the index's output encoding (default
// IndexFormatXML).
func WithMarkdownIndexFormat(format IndexFormat) MarkdownIndexOption {
	return func(c *markdownIndexConfig) { c.format = format }
}

type markdownPage struct {
	XMLName  xml.Name `xml:"page" json:"-"`
	ID       string   `xml:"id" json:"id"`
	Title    string   `xml:"title" json:"title"`
	Modified string   `xml:"modified" json:"modified"`
	Summary  string   `xml:"summary" json:"summary"`
}

type markdownPages struct {
	XMLName xml.Name       `xml:"pages"`
	Pages   []markdownPage `xml:"page"`
}

// MarkdownIndex builds a Command that summarizes every input markdown page
// (title and first paragraph, per getMarkdownInfo) into a single index file.
// Mirrors original_source/examples/website/mycommands.py's make_xml_index,
// generalized to also emit JSON, since this repo has no lxml analogue in
// its dependency surface.
func MarkdownIndex(dest string, opts ...MarkdownIndexOption) Command {
	cfg := markdownIndexConfig{name: "markdown_index", format: IndexFormatXML}
	for _, o := range opts {
		o(&cfg)
	}

	producer := func(inputs []Input) ([]OutputDescriptor, error) {
		ins := append([]Input(nil), inputs...)
		return []OutputDescriptor{{
			OutputPath:   dest,
			DirectInputs: ins,
			AllSources:   ins,
			DeferredWriter: func() ([]byte, error) {
				return buildMarkdownIndex(ins, cfg.format)
			},
		}}, nil
	}

	return Command{Producer: producer, Name: cfg.name, Hash: hashParams(kindMarkdownIndex, dest, cfg.name)}
}

func buildMarkdownIndex(inputs []Input, format IndexFormat) ([]byte, error) {
	sorted := append([]Input(nil), inputs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path > sorted[j].Path })

	pages := make([]markdownPage, 0, len(sorted))
	for _, in := range sorted {
		full := in.Join()
		fi, err := os.Stat(full)
		if err != nil {
			return nil, err
		}
		title, summary, err := getMarkdownInfo(full)
		if err != nil {
			return nil, err
		}

		id := pageID(in.Path)
		pages = append(pages, markdownPage{
			ID:       id,
			Title:    title,
			Modified: fi.ModTime().UTC().Format("2006-01-02T15:04:05Z"),
			Summary:  summary,
		})
	}

	switch format {
	case IndexFormatJSON:
		return json.MarshalIndent(pages, "", "  ")
	default:
		doc := markdownPages{Pages: pages}
		body, err := xml.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, err
		}
		return append([]byte(xml.Header), body...), nil
	}
}

// pageID mirrors mycommands.py's `str(input.parent) + "/" + input.stem`
// convention, dropping the "./" prefix for pages at the index root.
func pageID(path string) string {
	dir := filepath.Dir(path)
	stem := path[:len(path)-len(filepath.Ext(path))]
	if dir == "." {
		return filepath.Base(stem)
	}
	return filepath.ToSlash(stem)
}

// getMarkdownInfo extracts a page's title (first line) and summary (the
// next paragraph, i.e. the fourth line onward up to the first blank line) per
// the "Title\n====\n\nParagraph" convention get_markdown_info assumes.
func getMarkdownInfo(path string) (title, summary string, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}

	lines := splitLines(data)
	if len(lines) < 3 {
		return "", "", fmt.Errorf("pyrrhic: %s: too short to contain a title and summary", path)
	}
	title = string(bytes.TrimSpace(lines[0]))

	var parts [][]byte
	for _, line := range lines[3:] {
		if len(bytes.TrimSpace(line)) == 0 {
			break
		}
		parts = append(parts, line)
	}
	summary = string(bytes.TrimSpace(bytes.Join(parts, []byte(" "))))
	return title, summary, nil
}

func splitLines(data []byte) [][]byte {
	var lines [][]byte
	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			if len(data) > 0 {
				lines = append(lines, data)
			}
			break
		}
		lines = append(lines, data[:i])
		data = data[i+1:]
	}
	return lines
}
