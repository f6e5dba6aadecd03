package href

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		raw      string
		doc      string
		wantOK   bool
		wantPath string
		wantAnc  string
	}{
		{"emptyResolvesToSelf", "", "/guides/intro.html", true, "/guides/intro.html", ""},
		{"bareAnchor", "#top", "/guides/intro.html", true, "/guides/intro.html", "top"},
		{"rootRelative", "/b.html#top", "/guides/intro.html", true, "/b.html", "top"},
		{"parentDir", "..", "/dir/index.html", true, "/index.html", ""},
		{"siblingDirForm", "foo/", "/index.html", true, "/foo/index.html", ""},
		{"siblingExplicitIndex", "foo/index.html", "/index.html", true, "/foo/index.html", ""},
		{"percentDecoded", "/a%20b.html", "/index.html", true, "/a b.html", ""},
		{"httpExternal", "http://example.com/x", "/index.html", false, "", ""},
		{"protocolRelative", "//example.com/x", "/index.html", false, "", ""},
		{"mailto", "mailto:a@example.com", "/index.html", false, "", ""},
		{"rootEscape", "../../../etc/passwd", "/a/b.html", false, "", ""},
		{"queryStripped", "/a.html?x=1#y", "/index.html", true, "/a.html", "y"},
		{"dotSegment", "./b.html", "/dir/index.html", true, "/dir/b.html", ""},
		{"rootDirectoryAlias", "/", "/index.html", true, "/index.html", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, ok := Resolve(tt.raw, tt.doc)
			require := assert.New(t)
			require.Equal(tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			require.Equal(tt.wantPath, h.Path)
			require.Equal(tt.wantAnc, h.Anchor)
		})
	}
}

func TestResolve_SiblingDirAndExplicitIndexAlias(t *testing.T) {
	t.Parallel()

	a, ok := Resolve("foo/", "/index.html")
	assert.True(t, ok)
	b, ok := Resolve("foo/index.html", "/index.html")
	assert.True(t, ok)
	assert.Equal(t, a.Path, b.Path)
}

func TestDocumentId(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/a/b.html", DocumentId("a/b.html"))
	assert.Equal(t, "/a/b.html", DocumentId("/a/b.html"))
	assert.Equal(t, "/a/b.html", DocumentId(`a\b.html`))
}

func TestDir(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/guides", Dir("/guides/intro.html"))
	assert.Equal(t, "", Dir("/index.html"))
}

func TestHref_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/a.html", Href{Path: "/a.html"}.String())
	assert.Equal(t, "/a.html#x", Href{Path: "/a.html", Anchor: "x"}.String())
}
