package sourcemap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestBuild_LooksUpExactParagraph(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "guide.md", "See the [docs](/docs/index.html) for more.\n")

	m, err := Build(context.Background(), dir)
	require.NoError(t, err)

	h := hashParagraph(normalize("See the docs for more."))
	locs := m.Lookup(h)
	require.Len(t, locs, 1)
	assert.Equal(t, "guide.md", locs[0].File)
	assert.Equal(t, 1, locs[0].Line)
}

func TestBuild_IgnoresCodeBlocks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "snippet.md", "```\nsee the docs for more\n```\n")

	m, err := Build(context.Background(), dir)
	require.NoError(t, err)

	h := hashParagraph(normalize("see the docs for more"))
	assert.Empty(t, m.Lookup(h))
}

func TestLookup_ZeroHashAlwaysMisses(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.md", "Some paragraph text.\n")

	m, err := Build(context.Background(), dir)
	require.NoError(t, err)

	var zero [16]byte
	assert.Empty(t, m.Lookup(zero))
}

func TestNormalize_StripsMarkdownSyntaxAndCase(t *testing.T) {
	t.Parallel()

	got := normalize("See the **Docs** (linked) now")
	assert.Equal(t, "see the docs linked now", got)
}

func TestParagraphVariants_DropsWordsFromEnds(t *testing.T) {
	t.Parallel()

	variants := paragraphVariants("one two three")
	assert.Contains(t, variants, normalize("one two three"))
	assert.Contains(t, variants, normalize("two three"))
	assert.Contains(t, variants, normalize("one two"))
	assert.Contains(t, variants, normalize("two"))
}

func TestParagraphVariants_SingleWordHasNoSpans(t *testing.T) {
	t.Parallel()

	variants := paragraphVariants("alone")
	assert.Equal(t, []string{normalize("alone")}, variants)
}
