package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golink-dev/golink/internal/store"
	"github.com/golink-dev/golink/internal/walker"
)

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func definedDocs(t *testing.T, s *store.LinkStore) []string {
	t.Helper()
	var docs []string
	s.Walk(func(d store.DefinedEntry) { docs = append(docs, d.Doc) }, func(store.UsedEntry) {})
	return docs
}

func usedDocs(t *testing.T, s *store.LinkStore) []string {
	t.Helper()
	var docs []string
	s.Walk(func(store.DefinedEntry) {}, func(u store.UsedEntry) { docs = append(docs, u.Doc) })
	return docs
}

func TestRun_BuildsExpectedStore(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "index.html"), `<a href="/guides/intro.html">guide</a>`)
	mustWrite(t, filepath.Join(root, "guides", "index.html"), `<a href="/missing.html">dead</a>`)
	mustWrite(t, filepath.Join(root, "data.json"), `{}`)

	s, err := Run(context.Background(), root, walker.Options{}, Options{Jobs: 2})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		"/index.html", "/", "/guides/index.html", "/guides/", "/data.json",
		"/guides/intro.html", "/missing.html",
	}, definedAndUsedDocs(t, s))
	assert.Contains(t, usedDocs(t, s), "/missing.html")
}

func definedAndUsedDocs(t *testing.T, s *store.LinkStore) []string {
	return append(definedDocs(t, s), usedDocs(t, s)...)
}

func TestRun_IndexHTMLGetsDirectoryAlias(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "guides", "index.html"), `<div id="top"></div>`)

	s, err := Run(context.Background(), root, walker.Options{}, Options{Jobs: 1})
	require.NoError(t, err)

	docs := definedDocs(t, s)
	assert.Contains(t, docs, "/guides/index.html")
	assert.Contains(t, docs, "/guides/")
}

func TestRun_InvalidUTF8ReportedAndSkipped(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "bad.html"), "")
	require.NoError(t, os.WriteFile(filepath.Join(root, "bad.html"), []byte{0xff, 0xfe, 0xfd}, 0o644))

	var reported []string
	s, err := Run(context.Background(), root, walker.Options{}, Options{
		Jobs:        1,
		OnFileError: func(doc string, _ error) { reported = append(reported, doc) },
	})
	require.NoError(t, err)
	assert.Contains(t, reported, "/bad.html")
	assert.NotContains(t, definedDocs(t, s), "/bad.html")
}

func TestDirectoryAlias(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/", directoryAlias("/index.html"))
	assert.Equal(t, "/guides/", directoryAlias("/guides/index.html"))
}

func TestPartition_SplitsIntoRoughlyEqualShards(t *testing.T) {
	t.Parallel()

	files := make([]walker.File, 7)
	shards := partition(files, 3)
	require.Len(t, shards, 3)
	total := 0
	for _, sh := range shards {
		total += len(sh)
	}
	assert.Equal(t, 7, total)
}
