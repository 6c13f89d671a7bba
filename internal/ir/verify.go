package ir

import "fmt"

// VerifyCheck names the invariant a VerifyError breaks.
type VerifyCheck uint8

const (
	CheckOrder     VerifyCheck = iota + 1 // children precede parents
	CheckBody                             // nominal body bookkeeping
	CheckCanonical                        // hash and interning table agree
	CheckTyping                           // types present where required
)

func (c VerifyCheck) String() string {
	switch c {
	case CheckOrder:
		return "order"
	case CheckBody:
		return "body"
	case CheckCanonical:
		return "canonical"
	case CheckTyping:
		return "typing"
	default:
		return "unknown"
	}
}

// VerifyError describes one broken invariant found by Verify.
type VerifyError struct {
	ID    NodeID
	Kind  Kind
	Check VerifyCheck
	Msg   string
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Kind, e.ID, e.Msg)
}

// Verify re-checks the arena's structural invariants: children precede their
// parents (except nominal bodies), every structural node is the canonical
// holder of its content under its recorded hash, and with type checking
// enabled every value, instruction and terminator carries a type.
func Verify(a *Arena) []*VerifyError {
	var errs []*VerifyError
	report := func(id NodeID, k Kind, check VerifyCheck, format string, args ...any) {
		errs = append(errs, &VerifyError{ID: id, Kind: k, Check: check, Msg: fmt.Sprintf(format, args...)})
	}

	var enc keyEncoder
	noRetKey := enc.encode(KindNoRet, nil)
	noRet, _ := a.tbl.find(hashKey(noRetKey), noRetKey)
	for id, n := range a.All() {
		info := &kindTable[n.Kind]
		for op := range a.Operands(id) {
			if info.Nominal && op.Field == info.Body {
				continue
			}
			if op.ID.index() >= id.index() {
				report(id, n.Kind, CheckOrder, "field %s refers forward to %s", op.Field, op.ID)
			}
		}

		if info.Nominal {
			if b := n.Payload.(bodied).body(); a.HasBody(id) != (b != NoNodeID) {
				report(id, n.Kind, CheckBody, "body state out of sync")
			}
		} else {
			key := enc.encode(n.Kind, n.Payload)
			hash := hashKey(key)
			if hash != a.slots[id.index()].hash {
				report(id, n.Kind, CheckCanonical, "stored hash %x, content hashes to %x", a.slots[id.index()].hash, hash)
			}
			if canon, ok := a.tbl.find(hash, key); !ok {
				report(id, n.Kind, CheckCanonical, "not registered in the interning table")
			} else if canon != id {
				report(id, n.Kind, CheckCanonical, "duplicate of canonical node %s", canon)
			}
		}

		if !a.cfg.CheckTypes {
			continue
		}
		switch n.Kind.Category() {
		case CategoryValue, CategoryInstruction:
			if n.Type == NoNodeID && n.Kind != KindUnbound {
				report(id, n.Kind, CheckTyping, "missing type")
			} else if n.Type != NoNodeID && !a.isType(n.Type) {
				report(id, n.Kind, CheckTyping, "type %s is a %s", n.Type, a.Kind(n.Type))
			}
		case CategoryTerminator:
			if noRet == NoNodeID || n.Type != noRet {
				report(id, n.Kind, CheckTyping, "terminator typed %s", n.Type)
			}
		case CategoryType:
			if n.Type != NoNodeID {
				report(id, n.Kind, CheckTyping, "type node carries type %s", n.Type)
			}
		}
	}
	return errs
}
