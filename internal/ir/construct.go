package ir

import (
	"errors"
	"strconv"

	"shady/internal/source"
	"shady/internal/trace"
)

// Construct returns the node of kind k with payload p.
//
// Structural kinds are interned: constructing equal content twice yields the
// same NodeID. Nominal kinds always allocate a new node. With type checking
// enabled, a payload whose type cannot be derived yields a *TypeError and no
// node for it is created; type nodes the rule derived on the way stay
// interned. Misuse (unknown kind, mismatched payload, children
// from another arena) panics with *InvariantError.
func (a *Arena) Construct(k Kind, p Payload) (NodeID, error) {
	a.live("construct")
	a.validate(k, p)

	info := &kindTable[k]

	// Type rules may construct derived types; they run before the key is
	// encoded because the encoder buffer is shared.
	var typ NodeID
	if a.cfg.CheckTypes {
		t, err := info.typeOf(a, p)
		if err != nil {
			a.traceConstruct(k, NoNodeID, "type_error", err.Error())
			return NoNodeID, err
		}
		typ = t
	}

	p = clonePayload(p)

	if info.Nominal {
		bodySet := false
		if b, ok := p.(bodied); ok && b.body() != NoNodeID {
			if a.cfg.CheckTypes {
				if err := info.checkBody(a, p, b.body()); err != nil {
					a.traceConstruct(k, NoNodeID, "type_error", err.Error())
					return NoNodeID, err
				}
			}
			bodySet = true
		}
		id := a.allocate(Node{Kind: k, Type: typ, Payload: p}, 0, bodySet)
		a.tbl.nominal++
		a.traceConstruct(k, id, "nominal", "")
		return id, nil
	}

	key := a.enc.encode(k, p)
	hash := hashKey(key)
	if id, ok := a.tbl.lookup(hash, key); ok {
		a.traceConstruct(k, id, "hit", "")
		return id, nil
	}
	id := a.allocate(Node{Kind: k, Type: typ, Payload: p}, hash, false)
	a.tbl.insert(hash, key, id)
	a.traceConstruct(k, id, "miss", "")
	return id, nil
}

// MustConstruct is Construct for callers that know the payload is well
// typed. A type error panics.
func (a *Arena) MustConstruct(k Kind, p Payload) NodeID {
	id, err := a.Construct(k, p)
	if err != nil {
		panic(err)
	}
	return id
}

// Make constructs the node described by p.
func (a *Arena) Make(p Payload) (NodeID, error) {
	if p == nil {
		invariantf("construct", nil, "nil payload")
	}
	return a.Construct(p.Kind(), p)
}

// derived constructs a node needed by a typing rule. Its children are already
// canonical types, so failure means a broken rule.
func (a *Arena) derived(k Kind, p Payload) NodeID {
	id, err := a.Construct(k, p)
	if err != nil {
		var te *TypeError
		if errors.As(err, &te) {
			invariantf("derive", p, "derived %s is ill-typed: %s", k, te.Msg)
		}
		panic(err)
	}
	return id
}

// SetBody attaches the body of a nominal node. It is allowed once per node;
// with type checking enabled a body the node cannot accept yields a
// *TypeError and nothing changes.
func (a *Arena) SetBody(id, body NodeID) error {
	s := a.slot("set_body", id)
	if s == nil {
		invariantf("set_body", nil, "body attached to NoNodeID")
	}
	info := &kindTable[s.node.Kind]
	if !info.Nominal {
		invariantf("set_body", s.node.Payload, "%s %s is structural and has no body", s.node.Kind, id)
	}
	if s.bodySet {
		invariantf("set_body", s.node.Payload, "body of %s %s already attached", s.node.Kind, id)
	}
	if body == NoNodeID {
		invariantf("set_body", s.node.Payload, "empty body for %s %s", s.node.Kind, id)
	}
	if !a.Owns(body) {
		invariantf("set_body", s.node.Payload, "body %s belongs to another arena", body)
	}
	if a.cfg.CheckTypes {
		if err := info.checkBody(a, s.node.Payload, body); err != nil {
			a.traceConstruct(s.node.Kind, id, "body_type_error", err.Error())
			return err
		}
	}
	s.node.Payload = s.node.Payload.(bodied).withBody(body)
	s.bodySet = true
	a.traceConstruct(s.node.Kind, id, "body", body.String())
	return nil
}

func (a *Arena) validate(k Kind, p Payload) {
	if !k.Valid() {
		invariantf("construct", p, "unknown kind %d", uint8(k))
	}
	info := &kindTable[k]
	if info.Proto == nil {
		if p != nil {
			invariantf("construct", p, "%s takes no payload", k)
		}
		return
	}
	if p == nil {
		invariantf("construct", nil, "%s requires a payload", k)
	}
	if p.Kind() != k {
		invariantf("construct", p, "payload of %s passed for %s", p.Kind(), k)
	}
	if v, ok := p.(Variable); ok && v.ID == 0 {
		invariantf("construct", p, "variable without id")
	}
	p.VisitFields(childCheck{a: a, kind: k, payload: p})
}

// childCheck rejects children that do not belong to the arena.
type childCheck struct {
	a       *Arena
	kind    Kind
	payload Payload
}

func (c childCheck) Node(name string, id NodeID) {
	if id != NoNodeID && !c.a.Owns(id) {
		invariantf("construct", c.payload, "%s.%s: node %s belongs to another arena", c.kind, name, id)
	}
}

func (c childCheck) Nodes(name string, ids []NodeID) {
	for i, id := range ids {
		if id == NoNodeID {
			invariantf("construct", c.payload, "%s.%s[%d] is empty", c.kind, name, i)
		}
		if !c.a.Owns(id) {
			invariantf("construct", c.payload, "%s.%s[%d]: node %s belongs to another arena", c.kind, name, i, id)
		}
	}
}

func (c childCheck) Uint(string, uint64) {}
func (c childCheck) Bool(string, bool) {}
func (c childCheck) Enum(string, uint64, string) {}
func (c childCheck) Strings(name string, ids []source.StringID) {
	for _, id := range ids {
		c.String(name, id)
	}
}

func (c childCheck) String(name string, id source.StringID) {
	if !c.a.strings.Has(id) {
		invariantf("construct", c.payload, "%s.%s: string %d is not interned in this arena", c.kind, name, id)
	}
}

func (a *Arena) traceConstruct(k Kind, id NodeID, outcome, detail string) {
	if !trace.Wants(a.tracer, trace.ScopeNode) {
		return
	}
	trace.Point(a.tracer, trace.ScopeNode, "construct", detail, map[string]string{
		"kind":    k.String(),
		"id":      id.String(),
		"outcome": outcome,
		"arena":   strconv.FormatUint(uint64(a.tag), 10),
	})
}
