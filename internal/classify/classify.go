// Package classify walks a reduced LinkStore and turns its Defined/Used
// bookkeeping into the two reportable finding kinds: broken links (a Used
// key that was never Defined) and broken anchors (a required anchor that
// never appeared on the Defined key it targets).
package classify

import (
	"sort"

	"github.com/golink-dev/golink/internal/store"
)

// Kind distinguishes the two finding severities.
type Kind int

const (
	// BrokenLink is an error: the target document does not exist anywhere
	// in the site.
	BrokenLink Kind = iota
	// BrokenAnchor is a warning: the target document exists, but not with
	// the required anchor.
	BrokenAnchor
)

func (k Kind) String() string {
	if k == BrokenAnchor {
		return "broken-anchor"
	}
	return "broken-link"
}

// Finding is one reportable broken reference, already deduplicated on
// (Source, Target, Anchor).
type Finding struct {
	Kind    Kind
	Source  string // DocumentId of the document containing the reference
	Target  string // DocumentId that was referenced
	Anchor  string // required anchor, "" if none
	Context store.ParagraphHash
}

// Options controls which finding kinds classify produces.
type Options struct {
	// CheckAnchors enables the broken-anchor pass. Broken links are always
	// reported.
	CheckAnchors bool
}

// Run walks s and returns every broken-link error and, if opts.CheckAnchors,
// every broken-anchor warning, each appearing once regardless of how many
// times the same (source, target, anchor) triple was used. The result is
// already in the canonical (source, target, anchor) order applied by Sort,
// rather than the backing radix tree's key order.
func Run(s *store.LinkStore, opts Options) []Finding {
	seen := make(map[triple]struct{})
	var findings []Finding

	add := func(f Finding) {
		t := triple{f.Kind, f.Source, f.Target, f.Anchor}
		if _, dup := seen[t]; dup {
			return
		}
		seen[t] = struct{}{}
		findings = append(findings, f)
	}

	s.Walk(
		func(d store.DefinedEntry) {
			if !opts.CheckAnchors {
				return
			}
			anchors := make(map[string]struct{}, len(d.Anchors))
			for _, a := range d.Anchors {
				anchors[a] = struct{}{}
			}
			for _, u := range d.Uses {
				if u.Anchor == "" {
					continue
				}
				if _, ok := anchors[u.Anchor]; ok {
					continue
				}
				add(Finding{Kind: BrokenAnchor, Source: u.Source, Target: d.Doc, Anchor: u.Anchor, Context: u.Context})
			}
		},
		func(used store.UsedEntry) {
			for _, u := range used.Uses {
				add(Finding{Kind: BrokenLink, Source: u.Source, Target: used.Doc, Anchor: u.Anchor, Context: u.Context})
			}
		},
	)

	Sort(findings)
	return findings
}

// Sort orders findings by source, then target, then anchor: a canonical
// order for reproducible reports across runs where the underlying radix
// tree's key order is the only other available ordering.
func Sort(findings []Finding) {
	sort.Slice(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.Target != b.Target {
			return a.Target < b.Target
		}
		return a.Anchor < b.Anchor
	})
}

type triple struct {
	kind           Kind
	source, target string
	anchor         string
}

// Errors returns only the BrokenLink findings.
func Errors(findings []Finding) []Finding {
	return filter(findings, BrokenLink)
}

// Warnings returns only the BrokenAnchor findings.
func Warnings(findings []Finding) []Finding {
	return filter(findings, BrokenAnchor)
}

func filter(findings []Finding, kind Kind) []Finding {
	var out []Finding
	for _, f := range findings {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}

// ExitCode maps a classified finding set to the process exit code
// convention: 1 if any broken link exists, 2 if only broken anchors exist, 0
// otherwise.
func ExitCode(findings []Finding) int {
	hasError, hasWarning := false, false
	for _, f := range findings {
		switch f.Kind {
		case BrokenLink:
			hasError = true
		case BrokenAnchor:
			hasWarning = true
		}
	}
	switch {
	case hasError:
		return 1
	case hasWarning:
		return 2
	default:
		return 0
	}
}
