package ir

import (
	"fmt"

	"shady/internal/source"
)

// RewriteFunc lets a pass replace a node before the default copy runs. It
// returns the node to use in the destination arena and whether it handled id.
type RewriteFunc func(r *Rewriter, id NodeID) (NodeID, bool, error)

// Rewriter copies nodes from one arena into another, sharing results so that
// each source node is rewritten once. Nominal nodes are copied in two phases:
// the header is created and recorded first, then the body is rewritten and
// attached, which lets bodies refer back to their owner.
type Rewriter struct {
	src  *Arena
	dst  *Arena
	hook RewriteFunc
	memo map[NodeID]NodeID
	strs map[source.StringID]source.StringID
}

// NewRewriter prepares a copy from src into dst. hook may be nil.
func NewRewriter(src, dst *Arena, hook RewriteFunc) *Rewriter {
	return &Rewriter{
		src:  src,
		dst:  dst,
		hook: hook,
		memo: make(map[NodeID]NodeID, src.Len()),
		strs: make(map[source.StringID]source.StringID),
	}
}

func (r *Rewriter) Src() *Arena { return r.src }
func (r *Rewriter) Dst() *Arena { return r.dst }

// Lookup returns the rewritten counterpart of id if it exists.
func (r *Rewriter) Lookup(id NodeID) (NodeID, bool) {
	out, ok := r.memo[id]
	return out, ok
}

// Rewrite returns the counterpart of id in the destination arena.
func (r *Rewriter) Rewrite(id NodeID) (NodeID, error) {
	if id == NoNodeID {
		return NoNodeID, nil
	}
	if out, ok := r.memo[id]; ok {
		return out, nil
	}
	if r.hook != nil {
		out, handled, err := r.hook(r, id)
		if err != nil {
			return NoNodeID, err
		}
		if handled {
			r.memo[id] = out
			return out, nil
		}
	}
	return r.Copy(id)
}

// RewriteAll rewrites a list of nodes.
func (r *Rewriter) RewriteAll(ids []NodeID) ([]NodeID, error) {
	out := make([]NodeID, len(ids))
	for i, id := range ids {
		var err error
		if out[i], err = r.Rewrite(id); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Copy rewrites id by copying its payload with rewritten children, skipping
// the hook for id itself.
func (r *Rewriter) Copy(id NodeID) (NodeID, error) {
	n := r.src.Node(id)
	if v, ok := n.Payload.(Variable); ok {
		r.dst.ReserveID(v.ID)
	}

	if !n.Kind.IsNominal() {
		p, err := r.mapPayload(n.Payload)
		if err != nil {
			return NoNodeID, err
		}
		out, err := r.dst.Construct(n.Kind, p)
		if err != nil {
			return NoNodeID, fmt.Errorf("rewrite %s %s: %w", n.Kind, id, err)
		}
		r.memo[id] = out
		return out, nil
	}

	b := n.Payload.(bodied)
	header, err := r.mapPayload(b.withBody(NoNodeID))
	if err != nil {
		return NoNodeID, err
	}
	// A header field may lead back here through another nominal body.
	if out, ok := r.memo[id]; ok {
		return out, nil
	}
	out, err := r.dst.Construct(n.Kind, header)
	if err != nil {
		return NoNodeID, fmt.Errorf("rewrite %s %s: %w", n.Kind, id, err)
	}
	r.memo[id] = out
	if !r.src.HasBody(id) {
		return out, nil
	}
	body, err := r.Rewrite(b.body())
	if err != nil {
		return NoNodeID, err
	}
	if err := r.dst.SetBody(out, body); err != nil {
		return NoNodeID, fmt.Errorf("rewrite body of %s %s: %w", n.Kind, id, err)
	}
	return out, nil
}

func (r *Rewriter) mapPayload(p Payload) (Payload, error) {
	var firstErr error
	out := MapPayload(p, func(child NodeID) NodeID {
		if firstErr != nil || child == NoNodeID {
			return NoNodeID
		}
		mapped, err := r.Rewrite(child)
		if err != nil {
			firstErr = err
		}
		return mapped
	}, r.mapString)
	return out, firstErr
}

func (r *Rewriter) mapString(id source.StringID) source.StringID {
	if id == source.NoStringID {
		return source.NoStringID
	}
	if out, ok := r.strs[id]; ok {
		return out
	}
	out := r.dst.Intern(r.src.String(id))
	r.strs[id] = out
	return out
}
