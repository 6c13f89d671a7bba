// Package ir is the node arena of the shady compiler: a hash-consed,
// immutable, typed IR graph shared by every front-end, pass, printer and
// backend.
//
// # Arena
//
// An Arena owns every node constructed through it, the interning table that
// makes structural nodes canonical, the string table used by payloads and
// the per-compilation Config. Nodes are addressed by NodeID handles that
// carry the owning arena's tag, so a handle from one arena is rejected by
// another. Destroy releases everything at once; using the arena afterwards
// panics.
//
// # Kinds
//
// Every node has a Kind. The classifier (see KindInfo) declares per kind:
//
//   - whether it is nominal (identity is authoritative) or structural
//     (content is authoritative and the node is hash-consed);
//   - which payload fields take part in hashing and equality;
//   - the single mutable body field of nominal kinds;
//   - the typing rule used to derive Node.Type when Config.CheckTypes is set.
//
// # Construction
//
//	i32 := a.MustConstruct(ir.KindInt, ir.Int{Width: ir.IntWidth32, Signed: true})
//	ptr, err := a.Construct(ir.KindPtrType, ir.PtrType{AddressSpace: ir.AsGlobal, Pointee: i32})
//
// Constructing a structural node twice with equal relevant fields yields the
// same NodeID. Nominal nodes are never deduplicated and support two-phase
// construction: declare first, then attach the body with SetBody.
//
// Children are compared by handle only; they were canonical when they were
// constructed, so equality never descends into the graph.
package ir
