// Package sourcemap maps a broken link's surrounding HTML text back to the
// Markdown source paragraph it was rendered from. It is optional: a run
// with no source directory configured never touches this package.
package sourcemap

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/blake3"

	"github.com/golink-dev/golink/internal/store"
)

// Location is one place in the Markdown source tree a ParagraphHash was seen.
type Location struct {
	File string
	Line int
}

// Map is the prepared ParagraphHash -> Location index built from a tree of
// Markdown files.
type Map struct {
	byHash map[store.ParagraphHash][]Location
}

// markdownExtensions lists the file suffixes treated as Markdown sources.
var markdownExtensions = map[string]bool{
	".md":       true,
	".mdx":      true,
	".markdown": true,
}

// Build enumerates every Markdown file under root in parallel, computing each
// one's paragraph index, then merges them into a single Map.
func Build(ctx context.Context, root string) (*Map, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if markdownExtensions[strings.ToLower(filepath.Ext(p))] {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("enumerating markdown under %s: %w", root, err)
	}

	perFile := make([]map[store.ParagraphHash][]Location, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			rel, err := filepath.Rel(root, f)
			if err != nil {
				rel = f
			}
			data, err := os.ReadFile(f)
			if err != nil {
				return fmt.Errorf("reading %s: %w", f, err)
			}
			perFile[i] = indexFile(filepath.ToSlash(rel), data)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byHash := make(map[store.ParagraphHash][]Location)
	for _, m := range perFile {
		for h, locs := range m {
			byHash[h] = append(byHash[h], locs...)
		}
	}
	return &Map{byHash: byHash}, nil
}

// HashContext normalizes raw surrounding HTML text the same way indexFile
// normalizes Markdown paragraph text, and hashes it. The engine calls this
// per extracted link when the source-mapper is enabled, so both sides of
// the eventual Lookup hash identically normalized text.
func HashContext(text string) store.ParagraphHash {
	return hashParagraph(normalize(text))
}

// Lookup returns every recorded location whose normalized paragraph text
// hashes to h. The zero hash (context recording disabled) always misses.
func (m *Map) Lookup(h store.ParagraphHash) []Location {
	if m == nil || h == (store.ParagraphHash{}) {
		return nil
	}
	return m.byHash[h]
}

// indexFile parses one Markdown file's block structure and records a
// ParagraphHash for the whole text of each text-bearing block, plus one for
// each span formed by dropping a single word from either end — a small set
// of robust substrings that tolerate minor rendering differences.
func indexFile(relPath string, content []byte) map[store.ParagraphHash][]Location {
	md := goldmark.New()
	reader := text.NewReader(content)
	doc := md.Parser().Parse(reader)
	lines := buildLineIndex(content)

	out := make(map[store.ParagraphHash][]Location)
	record := func(text string, byteOffset int) {
		if text == "" {
			return
		}
		line := offsetToLine(lines, byteOffset)
		for _, variant := range paragraphVariants(text) {
			h := hashParagraph(variant)
			out[h] = append(out[h], Location{File: relPath, Line: line})
		}
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Type() != ast.TypeBlock {
			return ast.WalkContinue, nil
		}
		if n.Kind() == ast.KindCodeBlock || n.Kind() == ast.KindFencedCodeBlock {
			return ast.WalkSkipChildren, nil
		}
		lns := n.Lines()
		if lns == nil || lns.Len() == 0 {
			return ast.WalkContinue, nil
		}
		// Collect the block's visible inline text (link labels, not their
		// destinations), the same text the rendered HTML shows.
		var buf bytes.Buffer
		_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
			if t, ok := c.(*ast.Text); ok && entering {
				buf.Write(t.Segment.Value(content))
				if t.SoftLineBreak() || t.HardLineBreak() {
					buf.WriteByte(' ')
				}
			}
			return ast.WalkContinue, nil
		})
		record(buf.String(), lns.At(0).Start)
		return ast.WalkContinue, nil
	})

	return out
}

// paragraphVariants returns the normalized whole text plus the substrings
// formed by dropping the first word, the last word, or both.
func paragraphVariants(raw string) []string {
	words := strings.Fields(raw)
	if len(words) == 0 {
		return nil
	}
	variants := make([]string, 0, 4)
	variants = append(variants, normalize(raw))
	if len(words) > 1 {
		variants = append(variants, normalize(strings.Join(words[1:], " ")))
		variants = append(variants, normalize(strings.Join(words[:len(words)-1], " ")))
	}
	if len(words) > 2 {
		variants = append(variants, normalize(strings.Join(words[1:len(words)-1], " ")))
	}
	return dedupe(variants)
}

func dedupe(ss []string) []string {
	seen := make(map[string]struct{}, len(ss))
	out := ss[:0]
	for _, s := range ss {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// normalize lowercases, collapses whitespace, and strips Markdown
// inline-syntax characters and surrounding punctuation so that matching
// tolerates minor rendering differences between source and output.
func normalize(s string) string {
	var b strings.Builder
	lastSpace := true
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteByte(' ')
			}
			lastSpace = true
		case strings.ContainsRune("*_`[]()#", r):
			// dropped entirely, not replaced with a space
		default:
			b.WriteRune(unicode.ToLower(r))
			lastSpace = false
		}
	}
	return strings.TrimFunc(b.String(), func(r rune) bool {
		return r == ' ' || unicode.IsPunct(r)
	})
}

// hashParagraph computes the 128-bit BLAKE3 digest of normalized text.
func hashParagraph(normalized string) store.ParagraphHash {
	h, _ := blake3.New(16, nil)
	h.Write([]byte(normalized))
	var out store.ParagraphHash
	copy(out[:], h.Sum(nil))
	return out
}

// buildLineIndex returns, for each line, the byte offset of its first byte.
func buildLineIndex(content []byte) []int {
	lines := []int{0}
	for i, b := range content {
		if b == '\n' && i+1 < len(content) {
			lines = append(lines, i+1)
		}
	}
	return lines
}

func offsetToLine(lines []int, offset int) int {
	line := 1
	for i, start := range lines {
		if offset < start {
			break
		}
		line = i + 1
	}
	return line
}
