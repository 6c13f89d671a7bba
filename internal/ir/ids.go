package ir

import "fmt"

// NodeID is a handle to a node inside one Arena. The high 32 bits hold the
// owning arena's tag, the low 32 bits a 1-based slot index.
type NodeID uint64

// NoNodeID marks an absent child.
const NoNodeID NodeID = 0

func makeNodeID(tag, index uint32) NodeID {
	return NodeID(uint64(tag)<<32 | uint64(index))
}

// IsValid reports whether id refers to a node.
func (id NodeID) IsValid() bool { return id != NoNodeID }

func (id NodeID) index() uint32 { return uint32(id) }

func (id NodeID) tag() uint32 { return uint32(id >> 32) }

// Index returns the arena-local slot number (1-based, 0 for NoNodeID).
func (id NodeID) Index() uint32 { return id.index() }

func (id NodeID) String() string {
	if id == NoNodeID {
		return "none"
	}
	return fmt.Sprintf("%%%d", id.index())
}
