package ir

import (
	"encoding/binary"
	"slices"

	"shady/internal/source"
)

// keyEncoder serialises the identity-relevant part of a payload. Every field
// is self-delimiting and fields appear in a fixed per-kind order, so two
// payloads of one kind encode to the same bytes exactly when their relevant
// fields are equal. Hash and equality are both computed from this encoding.
type keyEncoder struct {
	buf      []byte
	relevant []string
}

func (e *keyEncoder) encode(k Kind, p Payload) []byte {
	e.buf = append(e.buf[:0], byte(k))
	e.relevant = kindTable[k].Relevant
	if p != nil {
		p.VisitFields(e)
	}
	return e.buf
}

func (e *keyEncoder) include(name string) bool {
	return e.relevant == nil || slices.Contains(e.relevant, name)
}

func (e *keyEncoder) Node(name string, id NodeID) {
	if e.include(name) {
		e.buf = binary.LittleEndian.AppendUint64(e.buf, uint64(id))
	}
}

func (e *keyEncoder) Nodes(name string, ids []NodeID) {
	if !e.include(name) {
		return
	}
	e.buf = binary.AppendUvarint(e.buf, uint64(len(ids)))
	for _, id := range ids {
		e.buf = binary.LittleEndian.AppendUint64(e.buf, uint64(id))
	}
}

func (e *keyEncoder) Uint(name string, v uint64) {
	if e.include(name) {
		e.buf = binary.AppendUvarint(e.buf, v)
	}
}

func (e *keyEncoder) Bool(name string, v bool) {
	if !e.include(name) {
		return
	}
	if v {
		e.buf = append(e.buf, 1)
	} else {
		e.buf = append(e.buf, 0)
	}
}

func (e *keyEncoder) String(name string, id source.StringID) {
	if e.include(name) {
		e.buf = binary.AppendUvarint(e.buf, uint64(id))
	}
}

func (e *keyEncoder) Strings(name string, ids []source.StringID) {
	if !e.include(name) {
		return
	}
	e.buf = binary.AppendUvarint(e.buf, uint64(len(ids)))
	for _, id := range ids {
		e.buf = binary.AppendUvarint(e.buf, uint64(id))
	}
}

func (e *keyEncoder) Enum(name string, ordinal uint64, _ string) {
	if e.include(name) {
		e.buf = binary.AppendUvarint(e.buf, ordinal)
	}
}
