package ir

import (
	"bytes"

	"github.com/cespare/xxhash/v2"
)

// TableStats describes the interning table of one arena.
type TableStats struct {
	Entries      int // structural nodes
	Nominal      int
	Buckets      int
	Hits         uint64
	Misses       uint64
	LongestChain int
}

type tableEntry struct {
	id  NodeID
	key []byte
}

// table maps structural content to the canonical node holding it. Nominal
// nodes are never stored here: their identity is their allocation.
type table struct {
	buckets map[uint64][]tableEntry
	entries int
	nominal int
	hits    uint64
	misses  uint64
	longest int
}

func newTable() table {
	return table{buckets: make(map[uint64][]tableEntry, 256)}
}

func hashKey(key []byte) uint64 {
	return xxhash.Sum64(key)
}

// lookup probes the chain for hash linearly.
func (t *table) lookup(hash uint64, key []byte) (NodeID, bool) {
	id, ok := t.find(hash, key)
	if ok {
		t.hits++
	} else {
		t.misses++
	}
	return id, ok
}

// find is lookup without statistics.
func (t *table) find(hash uint64, key []byte) (NodeID, bool) {
	for _, e := range t.buckets[hash] {
		if bytes.Equal(e.key, key) {
			return e.id, true
		}
	}
	return NoNodeID, false
}

// insert registers id under key; key is copied.
func (t *table) insert(hash uint64, key []byte, id NodeID) {
	chain := append(t.buckets[hash], tableEntry{id: id, key: bytes.Clone(key)})
	t.buckets[hash] = chain
	t.entries++
	if len(chain) > t.longest {
		t.longest = len(chain)
	}
}

func (t *table) stats() TableStats {
	return TableStats{
		Entries:      t.entries,
		Nominal:      t.nominal,
		Buckets:      len(t.buckets),
		Hits:         t.hits,
		Misses:       t.misses,
		LongestChain: t.longest,
	}
}
