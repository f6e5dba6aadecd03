// Package engine drives the map-reduce phase: a bounded worker pool maps
// Extract over every enumerated file, and a pairwise tree-reduce combines
// the resulting per-worker LinkStores into one, exercising the commutative,
// associative merge algebra from store.Merge under real concurrency instead
// of folding results into a single accumulator one at a time.
package engine

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"runtime"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/golink-dev/golink/internal/htmlextract"
	"github.com/golink-dev/golink/internal/store"
	"github.com/golink-dev/golink/internal/walker"
)

// Options configures a Run.
type Options struct {
	// Jobs is the worker count. Zero or negative means runtime.NumCPU().
	Jobs int
	// HashContext, when non-nil, is called with the normalized text
	// preceding each outbound link (as htmlextract.Extract collects it) to
	// produce its ParagraphHash for the source-mapper. Nil disables context
	// recording.
	HashContext func(string) store.ParagraphHash
	// OnFileError is called (from worker goroutines) for a per-file error
	// that should be logged and skipped rather than aborting the run — a
	// read failure or invalid UTF-8. May be nil.
	OnFileError func(doc string, err error)
}

// Run enumerates root, extracts links from every file in parallel, and
// returns the single reduced LinkStore. It returns an error only for a
// fatal, non-isolable failure (root unreadable, or ctx canceled).
func Run(ctx context.Context, root string, walkOpts walker.Options, opts Options) (*store.LinkStore, error) {
	files, err := walker.Walk(root, walkOpts)
	if err != nil {
		return nil, fmt.Errorf("enumerating %s: %w", root, err)
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	if jobs > len(files) && len(files) > 0 {
		jobs = len(files)
	}
	if jobs < 1 {
		jobs = 1
	}

	// Partition files into contiguous shards, one per worker. Each worker
	// builds its own LinkStore with its own arena; arenas stay strictly
	// thread-local during the map phase, so there is no shared mutable state
	// between goroutines here.
	shards := partition(files, jobs)
	workerStores := make([]*store.LinkStore, len(shards))

	g, gctx := errgroup.WithContext(ctx)
	for i, shard := range shards {
		i, shard := i, shard
		g.Go(func() error {
			s := store.New()
			for _, f := range shard {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				if err := processFile(f, root, s, opts); err != nil {
					return err
				}
			}
			workerStores[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return reduceTree(workerStores), nil
}

// processFile classifies a single enumerated file and applies it to s. I/O
// and decode errors are per-file isolable: they are reported via
// opts.OnFileError and the file is skipped, never propagated as a fatal Run
// error.
func processFile(f walker.File, root string, s *store.LinkStore, opts Options) error {
	lower := strings.ToLower(f.Doc)
	isHTML := strings.HasSuffix(lower, ".html") || strings.HasSuffix(lower, ".htm")

	if !isHTML {
		s.InsertDefined(f.Doc, nil)
		return nil
	}

	data, err := os.ReadFile(f.AbsPath)
	if err != nil {
		reportFileError(opts, f.Doc, err)
		return nil
	}
	if !isValidUTF8(data) {
		reportFileError(opts, f.Doc, fmt.Errorf("invalid UTF-8"))
		return nil
	}

	s.InsertDefined(f.Doc, nil)
	var alias string
	if strings.HasSuffix(lower, "/index.html") {
		alias = directoryAlias(f.Doc)
		s.InsertDefined(alias, nil)
	}

	if err := htmlextract.Extract(bytes.NewReader(data), f.Doc, alias, s, opts.HashContext); err != nil {
		reportFileError(opts, f.Doc, err)
	}
	return nil
}

// directoryAlias returns the directory form of a DocumentId ending in
// "/index.html", e.g. "/guides/index.html" -> "/guides/", "/index.html" -> "/".
func directoryAlias(doc string) string {
	dir := path.Dir(doc)
	if dir == "/" {
		return "/"
	}
	return dir + "/"
}

func reportFileError(opts Options, doc string, err error) {
	if opts.OnFileError != nil {
		opts.OnFileError(doc, err)
	}
}

func isValidUTF8(data []byte) bool {
	return utf8.Valid(data)
}

// partition splits files into n contiguous, roughly equal shards.
func partition(files []walker.File, n int) [][]walker.File {
	if n < 1 {
		n = 1
	}
	shards := make([][]walker.File, n)
	if len(files) == 0 {
		return shards
	}
	base := len(files) / n
	rem := len(files) % n
	start := 0
	for i := 0; i < n; i++ {
		size := base
		if i < rem {
			size++
		}
		shards[i] = files[start : start+size]
		start += size
	}
	return shards
}

// reduceTree pairwise-merges worker stores into one, rather than folding
// left to right, so the reduce is a genuine binary tree. Each tier's pairs
// are merged concurrently.
func reduceTree(stores []*store.LinkStore) *store.LinkStore {
	live := nonNilStores(stores)
	if len(live) == 0 {
		return store.New()
	}
	for len(live) > 1 {
		next := make([]*store.LinkStore, (len(live)+1)/2)
		var wg sync.WaitGroup
		for i := 0; i*2 < len(live); i++ {
			i := i
			left := live[i*2]
			if i*2+1 >= len(live) {
				next[i] = left
				continue
			}
			right := live[i*2+1]
			wg.Add(1)
			go func() {
				defer wg.Done()
				next[i] = store.Merge(left, right)
			}()
		}
		wg.Wait()
		live = next
	}
	return live[0]
}

func nonNilStores(stores []*store.LinkStore) []*store.LinkStore {
	out := make([]*store.LinkStore, 0, len(stores))
	for _, s := range stores {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

