package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golink-dev/golink/internal/store"
)

func TestRun_BrokenLink(t *testing.T) {
	t.Parallel()

	s := store.New()
	s.InsertDefined("/index.html", nil)
	s.InsertUse("/missing.html", store.Use{Source: "/index.html"})

	findings := Run(s, Options{})
	require.Len(t, findings, 1)
	assert.Equal(t, BrokenLink, findings[0].Kind)
	assert.Equal(t, "/index.html", findings[0].Source)
	assert.Equal(t, "/missing.html", findings[0].Target)
}

func TestRun_DefinedTargetIsNotBroken(t *testing.T) {
	t.Parallel()

	s := store.New()
	s.InsertDefined("/index.html", nil)
	s.InsertDefined("/about.html", nil)
	s.InsertUse("/about.html", store.Use{Source: "/index.html"})

	findings := Run(s, Options{})
	assert.Empty(t, findings)
}

func TestRun_BrokenAnchorOnlyWhenEnabled(t *testing.T) {
	t.Parallel()

	s := store.New()
	s.InsertDefined("/about.html", []string{"team"})
	s.InsertUse("/about.html", store.Use{Source: "/index.html", Anchor: "history"})

	withoutCheck := Run(s, Options{CheckAnchors: false})
	assert.Empty(t, withoutCheck)

	withCheck := Run(s, Options{CheckAnchors: true})
	require.Len(t, withCheck, 1)
	assert.Equal(t, BrokenAnchor, withCheck[0].Kind)
	assert.Equal(t, "history", withCheck[0].Anchor)
}

func TestRun_KnownAnchorIsNotBroken(t *testing.T) {
	t.Parallel()

	s := store.New()
	s.InsertDefined("/about.html", []string{"team"})
	s.InsertUse("/about.html", store.Use{Source: "/index.html", Anchor: "team"})

	findings := Run(s, Options{CheckAnchors: true})
	assert.Empty(t, findings)
}

func TestRun_DeduplicatesIdenticalTriples(t *testing.T) {
	t.Parallel()

	s := store.New()
	s.InsertUse("/missing.html", store.Use{Source: "/index.html"})
	s.InsertUse("/missing.html", store.Use{Source: "/index.html"})
	s.InsertUse("/missing.html", store.Use{Source: "/other.html"})

	findings := Run(s, Options{})
	require.Len(t, findings, 2)
}

func TestRun_SortedBySourceThenTargetThenAnchor(t *testing.T) {
	t.Parallel()

	s := store.New()
	s.InsertUse("/b.html", store.Use{Source: "/z.html"})
	s.InsertUse("/a.html", store.Use{Source: "/z.html"})
	s.InsertUse("/c.html", store.Use{Source: "/a.html"})

	findings := Run(s, Options{})
	require.Len(t, findings, 3)
	assert.Equal(t, "/a.html", findings[0].Source)
	assert.Equal(t, "/z.html", findings[1].Source)
	assert.Equal(t, "/a.html", findings[1].Target)
	assert.Equal(t, "/z.html", findings[2].Source)
	assert.Equal(t, "/b.html", findings[2].Target)
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		findings []Finding
		want     int
	}{
		{"clean", nil, 0},
		{"error", []Finding{{Kind: BrokenLink}}, 1},
		{"warningOnly", []Finding{{Kind: BrokenAnchor}}, 2},
		{"errorBeatsWarning", []Finding{{Kind: BrokenAnchor}, {Kind: BrokenLink}}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ExitCode(tt.findings))
		})
	}
}

func TestErrorsAndWarningsFilter(t *testing.T) {
	t.Parallel()

	findings := []Finding{
		{Kind: BrokenLink, Target: "/a.html"},
		{Kind: BrokenAnchor, Target: "/b.html"},
	}
	assert.Len(t, Errors(findings), 1)
	assert.Len(t, Warnings(findings), 1)
}
