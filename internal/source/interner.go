package source

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// StringID is a handle to a string stored in an Interner.
type StringID uint32

// NoStringID is the empty string.
const NoStringID StringID = 0

// Interner deduplicates strings. It is not safe for concurrent use; every IR
// arena owns one.
type Interner struct {
	byID  []string // byID[0] = "" for NoStringID
	index map[string]StringID
}

func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]StringID{"": NoStringID},
	}
}

// Intern returns the ID of s, storing a private copy on first sight.
func (i *Interner) Intern(s string) StringID {
	if id, ok := i.index[s]; ok {
		return id
	}
	n, err := safecast.Conv[uint32](len(i.byID))
	if err != nil {
		panic(fmt.Errorf("len(strings) overflow: %w", err))
	}
	cpy := string([]byte(s))
	id := StringID(n)
	i.byID = append(i.byID, cpy)
	i.index[cpy] = id
	return id
}

// InternBytes interns the string held in b.
func (i *Interner) InternBytes(b []byte) StringID {
	return i.Intern(string(b))
}

// Lookup returns the string for id.
func (i *Interner) Lookup(id StringID) (string, bool) {
	if !i.Has(id) {
		return "", false
	}
	return i.byID[id], true
}

// MustLookup is Lookup that panics on unknown IDs.
func (i *Interner) MustLookup(id StringID) string {
	s, ok := i.Lookup(id)
	if !ok {
		panic(fmt.Sprintf("invalid string ID %d", id))
	}
	return s
}

// Has reports whether id was issued by this interner.
func (i *Interner) Has(id StringID) bool {
	return int(id) < len(i.byID)
}

// Len counts stored strings, including the empty string.
func (i *Interner) Len() int {
	return len(i.byID)
}

// Snapshot copies all strings in ID order.
func (i *Interner) Snapshot() []string {
	return slices.Clone(i.byID)
}
