package report

import (
	"strings"
	"testing"

	"github.com/golink-dev/golink/internal/classify"
	"github.com/golink-dev/golink/internal/sourcemap"
	"github.com/golink-dev/golink/internal/store"
)

func TestWritePlain(t *testing.T) {
	findings := []classify.Finding{
		{Kind: classify.BrokenLink, Source: "/a.html", Target: "/missing.html"},
		{Kind: classify.BrokenAnchor, Source: "/a.html", Target: "/b.html", Anchor: "nope"},
	}

	var buf strings.Builder
	if err := Write(&buf, findings, Plain, nil, htmlPathIdentity); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got := buf.String()
	want := "/missing.html referenced from /a.html\n/b.html referenced from /a.html (anchor nope)\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriteGitHubActionsFallsBackToHTMLPath(t *testing.T) {
	findings := []classify.Finding{
		{Kind: classify.BrokenLink, Source: "/a.html", Target: "/missing.html"},
	}

	var buf strings.Builder
	if err := Write(&buf, findings, GitHubActions, nil, htmlPathIdentity); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got := buf.String()
	if !strings.HasPrefix(got, "::error file=/a.html,line=1::") {
		t.Fatalf("unexpected annotation: %q", got)
	}
}

type fakeLocator struct {
	hash store.ParagraphHash
	locs []sourcemap.Location
}

func (f fakeLocator) Lookup(h store.ParagraphHash) []sourcemap.Location {
	if h != f.hash {
		return nil
	}
	return f.locs
}

func TestWriteGitHubActionsUsesLocator(t *testing.T) {
	hash := store.ParagraphHash{1, 2, 3}
	findings := []classify.Finding{
		{Kind: classify.BrokenLink, Source: "/a.html", Target: "/missing.html", Context: hash},
	}
	loc := fakeLocator{hash: hash, locs: []sourcemap.Location{{File: "docs/a.md", Line: 12}}}

	var buf strings.Builder
	if err := Write(&buf, findings, GitHubActions, loc, htmlPathIdentity); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got := buf.String()
	if !strings.HasPrefix(got, "::error file=docs/a.md,line=12::") {
		t.Fatalf("unexpected annotation: %q", got)
	}
}

func htmlPathIdentity(doc string) string { return doc }
