// Package store implements the map-reduce link-accounting engine's central
// structure: a per-worker LinkStore mapping DocumentId to a Defined/Used
// state, backed by an arena for string storage and a radix tree (exploiting
// the long common path prefixes typical of a rendered site) for the key
// index, plus the merge algebra that lets many LinkStores be combined by
// pairwise, order-independent tree-reduce.
package store

import (
	iradix "github.com/hashicorp/go-immutable-radix"
)

// ParagraphHash is a 128-bit BLAKE3 digest of the normalized text
// surrounding a link occurrence. The zero value means "no context was
// recorded" (the source-mapper is disabled for this run).
type ParagraphHash [16]byte

// Use records a single outbound reference to a DocumentId that has not (yet)
// been confirmed to exist.
type Use struct {
	Source  string        // DocumentId of the document containing the link
	Anchor  string        // required anchor, "" if the link has none
	Context ParagraphHash // surrounding-text hash, zero if unrecorded
}

// entry is the immutable value stored per DocumentId key. defined and uses
// are independent axes so that a Used->Defined transition can retain the
// pending uses for anchor validation.
type entry struct {
	anchors map[string]struct{}
	uses    []Use
	defined bool
}

func (e *entry) hasAnchor(a string) bool {
	if e == nil || e.anchors == nil {
		return false
	}
	_, ok := e.anchors[a]
	return ok
}

// mergeEntry implements the Defined/Used merge algebra: defined is sticky
// (absorbs Used), anchors union, uses accumulate regardless of which side is
// defined. Never mutates x or y.
func mergeEntry(x, y *entry) *entry {
	switch {
	case x == nil && y == nil:
		return &entry{}
	case x == nil:
		return y
	case y == nil:
		return x
	}

	out := &entry{defined: x.defined || y.defined}

	switch {
	case x.anchors == nil:
		out.anchors = y.anchors
	case y.anchors == nil:
		out.anchors = x.anchors
	default:
		merged := make(map[string]struct{}, len(x.anchors)+len(y.anchors))
		for a := range x.anchors {
			merged[a] = struct{}{}
		}
		for a := range y.anchors {
			merged[a] = struct{}{}
		}
		out.anchors = merged
	}

	if len(x.uses) == 0 {
		out.uses = y.uses
	} else if len(y.uses) == 0 {
		out.uses = x.uses
	} else {
		out.uses = make([]Use, 0, len(x.uses)+len(y.uses))
		out.uses = append(out.uses, x.uses...)
		out.uses = append(out.uses, y.uses...)
	}

	return out
}

// LinkStore is one worker's (or the reducer's) accumulated link bookkeeping.
// The zero value is not usable; construct with New.
type LinkStore struct {
	arena *Arena
	tree  *iradix.Tree
}

// New returns an empty LinkStore with its own arena.
func New() *LinkStore {
	return &LinkStore{arena: NewArena(4096), tree: iradix.New()}
}

// InsertDefined records that doc exists, optionally declaring anchors.
// Applying this twice, or after Used references have already arrived, is
// safe and idempotent per the merge algebra above.
func (s *LinkStore) InsertDefined(doc string, anchors []string) {
	add := &entry{defined: true}
	if len(anchors) > 0 {
		set := make(map[string]struct{}, len(anchors))
		for _, a := range anchors {
			set[a] = struct{}{}
		}
		add.anchors = set
	}
	s.upsert(doc, add)
}

// InsertUse records that source references target, requiring anchor (empty
// if none) and carrying the paragraph context hash (zero if the
// source-mapper is disabled).
func (s *LinkStore) InsertUse(target string, use Use) {
	s.upsert(target, &entry{uses: []Use{use}})
}

func (s *LinkStore) upsert(key string, add *entry) {
	txn := s.tree.Txn()
	k := []byte(key)
	var cur *entry
	if raw, ok := txn.Get(k); ok {
		cur = raw.(*entry)
	}
	merged := mergeEntry(cur, add)
	interned := s.arena.Intern(key)
	txn.Insert([]byte(interned), merged)
	s.tree = txn.Commit()
}

// Len reports the number of distinct DocumentId keys held.
func (s *LinkStore) Len() int {
	return s.tree.Len()
}

// Merge combines a and b into a new LinkStore using the commutative,
// associative merge algebra above. Neither a nor b is mutated, which is
// what lets the engine tree-reduce many stores concurrently without locking:
// any two stores (worker-local or themselves the result of an earlier merge)
// can be combined in any order.
func Merge(a, b *LinkStore) *LinkStore {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}

	out := &LinkStore{arena: a.arena, tree: a.tree}
	txn := out.tree.Txn()

	b.tree.Root().Walk(func(k []byte, v interface{}) bool {
		var cur *entry
		if raw, ok := txn.Get(k); ok {
			cur = raw.(*entry)
		}
		merged := mergeEntry(cur, v.(*entry))
		interned := out.arena.Intern(string(k))
		txn.Insert([]byte(interned), merged)
		return false
	})

	out.tree = txn.Commit()
	return out
}

// MergeAll tree-reduces a slice of stores pairwise instead of folding them
// into a single accumulator, so the same binary merge tree the engine builds
// is what actually runs (callers that want true parallel reduction should
// instead merge disjoint pairs concurrently and recurse; MergeAll is the
// sequential reference reduction used by tests and small inputs).
func MergeAll(stores []*LinkStore) *LinkStore {
	stores = nonNil(stores)
	if len(stores) == 0 {
		return New()
	}
	for len(stores) > 1 {
		next := make([]*LinkStore, 0, (len(stores)+1)/2)
		for i := 0; i < len(stores); i += 2 {
			if i+1 < len(stores) {
				next = append(next, Merge(stores[i], stores[i+1]))
			} else {
				next = append(next, stores[i])
			}
		}
		stores = next
	}
	return stores[0]
}

func nonNil(stores []*LinkStore) []*LinkStore {
	out := stores[:0:0]
	for _, s := range stores {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

// DefinedEntry is a snapshot of a Defined key's state, returned by Walk.
type DefinedEntry struct {
	Doc     string
	Anchors []string
	Uses    []Use // uses seen against this key before it became Defined
}

// UsedEntry is a snapshot of a Used (never-defined) key's state.
type UsedEntry struct {
	Doc  string
	Uses []Use
}

// Walk visits every key in the store, invoking onDefined or onUsed depending
// on the key's final state. Iteration order is the radix tree's key order
// (lexicographic) by target DocumentId; the canonical (source, target,
// anchor) order from spec §4.5/§5 is applied by the classifier to its own
// output.
func (s *LinkStore) Walk(onDefined func(DefinedEntry), onUsed func(UsedEntry)) {
	s.tree.Root().Walk(func(k []byte, v interface{}) bool {
		e := v.(*entry)
		doc := string(k)
		if e.defined {
			if onDefined != nil {
				onDefined(DefinedEntry{Doc: doc, Anchors: anchorList(e.anchors), Uses: e.uses})
			}
		} else if onUsed != nil {
			onUsed(UsedEntry{Doc: doc, Uses: e.uses})
		}
		return false
	})
}

func anchorList(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for a := range set {
		out = append(out, a)
	}
	return out
}
