package ir

import (
	"fmt"
	"iter"
	"math"
	"sync/atomic"

	"fortio.org/safecast"

	"shady/internal/source"
	"shady/internal/trace"
)

// Config is fixed at arena creation.
type Config struct {
	// CheckTypes enables type derivation on construction.
	CheckTypes bool
	// IntWidth is the width of the target's default integer.
	IntWidth IntWidth
	// PtrWidth is the width of the target's pointers.
	PtrWidth IntWidth
}

// DefaultConfig returns a type-checking configuration with 32-bit integers
// and 64-bit pointers.
func DefaultConfig() Config {
	return Config{
		CheckTypes: true,
		IntWidth:   IntWidth32,
		PtrWidth:   IntWidth64,
	}
}

// Node is the immutable view of one arena slot.
type Node struct {
	Kind    Kind
	Type    NodeID
	Payload Payload
}

type slot struct {
	node    Node
	hash    uint64
	bodySet bool
}

// Option configures an arena.
type Option func(*Arena)

// WithTracer routes node-scope events to t.
func WithTracer(t trace.Tracer) Option {
	return func(a *Arena) {
		if t != nil {
			a.tracer = t
		}
	}
}

var arenaTags atomic.Uint32

// Arena owns every node of one IR module. It is not safe for concurrent use;
// distinct arenas are independent.
type Arena struct {
	tag       uint32
	cfg       Config
	slots     []slot // slot 0 is reserved for NoNodeID
	strings   *source.Interner
	tbl       table
	enc       keyEncoder
	nextID    uint64
	destroyed bool
	tracer    trace.Tracer
}

// NewArena creates an empty arena.
func NewArena(cfg Config, opts ...Option) *Arena {
	if cfg.IntWidth == 0 {
		cfg.IntWidth = IntWidth32
	}
	if cfg.PtrWidth == 0 {
		cfg.PtrWidth = IntWidth64
	}
	a := &Arena{
		tag:     arenaTags.Add(1),
		cfg:     cfg,
		slots:   make([]slot, 1, 256),
		strings: source.NewInterner(),
		tbl:     newTable(),
		tracer:  trace.Nop,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Config returns the configuration the arena was created with.
func (a *Arena) Config() Config { return a.cfg }

// Destroy releases the arena's storage. Any later use panics.
func (a *Arena) Destroy() {
	if a.destroyed {
		return
	}
	if trace.Wants(a.tracer, trace.ScopeNode) {
		trace.Point(a.tracer, trace.ScopeNode, "arena.destroy", "", map[string]string{
			"nodes": fmt.Sprint(len(a.slots) - 1),
		})
	}
	a.destroyed = true
	a.slots = nil
	a.strings = nil
	a.tbl = table{}
	a.enc = keyEncoder{}
}

// Destroyed reports whether Destroy has been called.
func (a *Arena) Destroyed() bool { return a.destroyed }

func (a *Arena) live(op string) {
	if a.destroyed {
		invariantf(op, nil, "arena used after Destroy")
	}
}

// MaxVariableID bounds variable ids written by hand. Ids above it belong
// to FreshID, so reserving an explicit id never exhausts it.
const MaxVariableID uint64 = math.MaxUint64 >> 1

// FreshID returns a new identifier for variables, unique within the arena.
func (a *Arena) FreshID() uint64 {
	a.live("fresh_id")
	if a.nextID == math.MaxUint64 {
		invariantf("fresh_id", nil, "variable ids exhausted")
	}
	a.nextID++
	return a.nextID
}

// ReserveID makes sure FreshID never returns id or anything below it.
func (a *Arena) ReserveID(id uint64) {
	a.live("reserve_id")
	if id > a.nextID {
		a.nextID = id
	}
}

// Intern stores s in the arena's string table.
func (a *Arena) Intern(s string) source.StringID {
	a.live("intern")
	return a.strings.Intern(s)
}

// String resolves a string interned in this arena.
func (a *Arena) String(id source.StringID) string {
	a.live("string")
	s, ok := a.strings.Lookup(id)
	if !ok {
		invariantf("string", nil, "unknown string id %d", id)
	}
	return s
}

// Owns reports whether id is a node of this arena.
func (a *Arena) Owns(id NodeID) bool {
	return !a.destroyed && id != NoNodeID && id.tag() == a.tag && int(id.index()) < len(a.slots)
}

func (a *Arena) slot(op string, id NodeID) *slot {
	a.live(op)
	if id == NoNodeID {
		return nil
	}
	if id.tag() != a.tag {
		invariantf(op, nil, "node %s belongs to another arena", id)
	}
	if int(id.index()) >= len(a.slots) {
		invariantf(op, nil, "node %s out of range", id)
	}
	return &a.slots[id.index()]
}

// Node returns the node behind id. The payload's slices must not be modified.
func (a *Arena) Node(id NodeID) Node {
	s := a.slot("node", id)
	if s == nil {
		invariantf("node", nil, "lookup of NoNodeID")
	}
	return s.node
}

// Kind returns the kind of id, or KindInvalid for NoNodeID.
func (a *Arena) Kind(id NodeID) Kind {
	if s := a.slot("kind", id); s != nil {
		return s.node.Kind
	}
	return KindInvalid
}

// TypeOf returns the type derived for id at construction, or NoNodeID.
func (a *Arena) TypeOf(id NodeID) NodeID {
	if s := a.slot("type_of", id); s != nil {
		return s.node.Type
	}
	return NoNodeID
}

// Payload returns the payload of id, or nil for NoNodeID.
func (a *Arena) Payload(id NodeID) Payload {
	if s := a.slot("payload", id); s != nil {
		return s.node.Payload
	}
	return nil
}

// PayloadAs returns the payload of id when it has type T.
func PayloadAs[T Payload](a *Arena, id NodeID) (T, bool) {
	p, ok := a.Payload(id).(T)
	return p, ok
}

// Hash returns the interning hash of a structural node, 0 for nominal ones.
func (a *Arena) Hash(id NodeID) uint64 {
	if s := a.slot("hash", id); s != nil {
		return s.hash
	}
	return 0
}

// HasBody reports whether the body of a nominal node has been attached.
func (a *Arena) HasBody(id NodeID) bool {
	if s := a.slot("has_body", id); s != nil {
		return s.bodySet
	}
	return false
}

// Len returns the number of nodes in the arena.
func (a *Arena) Len() int {
	a.live("len")
	return len(a.slots) - 1
}

// All iterates nodes in allocation order.
func (a *Arena) All() iter.Seq2[NodeID, Node] {
	a.live("all")
	return func(yield func(NodeID, Node) bool) {
		for i := 1; i < len(a.slots); i++ {
			if !yield(makeNodeID(a.tag, uint32(i)), a.slots[i].node) { //nolint:gosec // bounded by allocate
				return
			}
		}
	}
}

// Stats reports interning table statistics.
func (a *Arena) Stats() TableStats {
	a.live("stats")
	return a.tbl.stats()
}

func (a *Arena) allocate(n Node, hash uint64, bodySet bool) NodeID {
	index, err := safecast.Conv[uint32](len(a.slots))
	if err != nil {
		panic(fmt.Errorf("len(nodes) overflow: %w", err))
	}
	a.slots = append(a.slots, slot{node: n, hash: hash, bodySet: bodySet})
	return makeNodeID(a.tag, index)
}
