// Package report formats classified findings for two output modes: a plain
// one-line-per-finding format for terminals and logs, and a GitHub Actions
// annotation format for CI.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/golink-dev/golink/internal/classify"
	"github.com/golink-dev/golink/internal/sourcemap"
	"github.com/golink-dev/golink/internal/store"
)

// Format selects the reporter's output shape.
type Format int

const (
	// Plain writes "<target> referenced from <source>[ (anchor <a>)]" lines.
	Plain Format = iota
	// GitHubActions writes "::error file=<path>,line=<n>::<message>" annotations.
	GitHubActions
)

// Locator resolves a Finding's context hash back to a source-markdown
// location, when the optional source-mapper is enabled. A nil Locator (or
// one that always reports no match) falls back to the HTML path at line 1.
type Locator interface {
	Lookup(hash store.ParagraphHash) []sourcemap.Location
}

// Write renders findings to w in the requested format. htmlPath, given a
// Finding's Source DocumentId, returns the on-disk HTML path to fall back to
// when no source-map location is found (the driver owns the root-to-absolute-path mapping, so it
// supplies this rather than report computing it).
func Write(w io.Writer, findings []classify.Finding, format Format, loc Locator, htmlPath func(doc string) string) error {
	switch format {
	case GitHubActions:
		return writeGitHubActions(w, findings, loc, htmlPath)
	default:
		return writePlain(w, findings)
	}
}

func writePlain(w io.Writer, findings []classify.Finding) error {
	for _, f := range findings {
		line := fmt.Sprintf("%s referenced from %s", f.Target, f.Source)
		if f.Kind == classify.BrokenAnchor {
			line += fmt.Sprintf(" (anchor %s)", f.Anchor)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func writeGitHubActions(w io.Writer, findings []classify.Finding, loc Locator, htmlPath func(doc string) string) error {
	for _, f := range findings {
		file, line := resolveLocation(f, loc, htmlPath)
		message := annotationMessage(f)
		severity := "error"
		if f.Kind == classify.BrokenAnchor {
			severity = "warning"
		}
		if _, err := fmt.Fprintf(w, "::%s file=%s,line=%d::%s\n", severity, file, line, escape(message)); err != nil {
			return err
		}
	}
	return nil
}

func resolveLocation(f classify.Finding, loc Locator, htmlPath func(doc string) string) (file string, line int) {
	if loc != nil {
		if candidates := loc.Lookup(f.Context); len(candidates) > 0 {
			best := candidates[0]
			return best.File, best.Line
		}
	}
	return htmlPath(f.Source), 1
}

func annotationMessage(f classify.Finding) string {
	if f.Kind == classify.BrokenAnchor {
		return fmt.Sprintf("broken anchor: %s references %s#%s, which has no such anchor", f.Source, f.Target, f.Anchor)
	}
	return fmt.Sprintf("broken link: %s references %s, which does not exist", f.Source, f.Target)
}

// escape neutralizes the characters the GitHub annotation format reserves
// (`%`, `\r`, `\n`) so a link target containing them cannot corrupt the line.
func escape(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	return s
}
