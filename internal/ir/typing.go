package ir

import "strconv"

// Typing rules, one per kind, registered in the classifier table. A rule
// validates its payload against the already-constructed children and returns
// the node's type. Types themselves have no type.

func (a *Arena) isType(id NodeID) bool {
	return id != NoNodeID && a.Kind(id).Category() == CategoryType
}

func (a *Arena) isValue(id NodeID) bool {
	return id != NoNodeID && a.Kind(id).Category() == CategoryValue
}

// unqualified strips a uniform/varying qualifier.
func (a *Arena) unqualified(t NodeID) NodeID {
	if q, ok := PayloadAs[QualifiedType](a, t); ok {
		return q.Type
	}
	return t
}

// SameType compares types ignoring qualifiers. Types are interned, so equal
// structure means equal ids.
func (a *Arena) SameType(x, y NodeID) bool {
	return a.unqualified(x) == a.unqualified(y)
}

func (a *Arena) describe(t NodeID) string {
	if t == NoNodeID {
		return "<none>"
	}
	return a.kindString(a.unqualified(t))
}

func (a *Arena) kindString(t NodeID) string {
	switch p := a.Payload(t).(type) {
	case Int:
		if p.Signed {
			return "i" + p.Width.String()
		}
		return "u" + p.Width.String()
	case Float:
		return "f" + p.Width.String()
	case PtrType:
		return "ptr(" + p.AddressSpace.String() + ", " + a.describe(p.Pointee) + ")"
	}
	return a.Kind(t).String() + " " + t.String()
}

func (a *Arena) familyOf(t NodeID) FamilyMask {
	t = a.unqualified(t)
	switch p := a.Payload(t).(type) {
	case Int:
		if p.Signed {
			return FamilySignedInt
		}
		return FamilyUnsignedInt
	case Float:
		return FamilyFloat
	case PtrType:
		return FamilyPointer
	case RecordType, ArrType:
		return FamilyAggregate
	case PackType:
		return a.familyOf(p.ElementType) | FamilyAggregate
	}
	switch a.Kind(t) {
	case KindBool:
		return FamilyBool
	case KindMaskType:
		return FamilyMaskType
	}
	return FamilyNone
}

func accepts(mask, fam FamilyMask) bool {
	return mask&FamilyAny != 0 || mask&fam != 0
}

func (a *Arena) requireType(k Kind, field string, id NodeID) error {
	if !a.isType(id) {
		return typeErrorf(k, "%s must be a type, got %s", field, a.Kind(id))
	}
	return nil
}

func (a *Arena) requireTypes(k Kind, field string, ids []NodeID) error {
	for i, id := range ids {
		if !a.isType(id) {
			return typeErrorf(k, "%s[%d] must be a type, got %s", field, i, a.Kind(id))
		}
	}
	return nil
}

func (a *Arena) requireKind(k Kind, field string, id NodeID, want ...Kind) error {
	got := a.Kind(id)
	for _, w := range want {
		if got == w {
			return nil
		}
	}
	if len(want) == 1 {
		return typeErrorf(k, "%s must be a %s, got %s", field, want[0], got)
	}
	return typeErrorf(k, "%s has unexpected kind %s", field, got)
}

func (a *Arena) requireKinds(k Kind, field string, ids []NodeID, want Kind) error {
	for i, id := range ids {
		if got := a.Kind(id); got != want {
			return typeErrorf(k, "%s[%d] must be a %s, got %s", field, i, want, got)
		}
	}
	return nil
}

func (a *Arena) requireCategory(k Kind, field string, id NodeID, c Category) error {
	if got := a.Kind(id); got.Category() != c {
		return typeErrorf(k, "%s must be a %s, got %s", field, c, got)
	}
	return nil
}

// valueType returns the type of a value operand.
func (a *Arena) valueType(k Kind, field string, id NodeID) (NodeID, error) {
	if !a.isValue(id) {
		return NoNodeID, typeErrorf(k, "%s must be a value, got %s", field, a.Kind(id))
	}
	t := a.TypeOf(id)
	if t == NoNodeID {
		return NoNodeID, typeErrorf(k, "%s (%s) has no type", field, a.Kind(id))
	}
	return t, nil
}

func (a *Arena) requireValueOf(k Kind, field string, id, want NodeID) error {
	t, err := a.valueType(k, field, id)
	if err != nil {
		return err
	}
	if !a.SameType(t, want) {
		return typeErrorf(k, "%s has type %s, expected %s", field, a.describe(t), a.describe(want))
	}
	return nil
}

func (a *Arena) requireValues(k Kind, field string, ids []NodeID) error {
	for _, id := range ids {
		if _, err := a.valueType(k, field, id); err != nil {
			return err
		}
	}
	return nil
}

// checkArgs matches args against parameter types.
func (a *Arena) checkArgs(k Kind, field string, params, args []NodeID) error {
	if len(params) != len(args) {
		return typeErrorf(k, "%s: expected %d arguments, got %d", field, len(params), len(args))
	}
	for i := range args {
		t, err := a.valueType(k, field, args[i])
		if err != nil {
			return err
		}
		if !a.SameType(t, params[i]) {
			return typeErrorf(k, "%s[%d] has type %s, expected %s", field, i, a.describe(t), a.describe(params[i]))
		}
	}
	return nil
}

// paramTypes returns the declared types of variables.
func (a *Arena) paramTypes(params []NodeID) []NodeID {
	out := make([]NodeID, len(params))
	for i, p := range params {
		if v, ok := PayloadAs[Variable](a, p); ok {
			out[i] = v.Type
		}
	}
	return out
}

// fnSignature resolves a callee type: a function type or a pointer to one.
func (a *Arena) fnSignature(t NodeID) (FnType, bool) {
	t = a.unqualified(t)
	if ptr, ok := PayloadAs[PtrType](a, t); ok {
		t = a.unqualified(ptr.Pointee)
	}
	return PayloadAs[FnType](a, t)
}

// Types ----------------------------------------------------------------------

func typeOfLeaf(*Arena, Payload) (NodeID, error) { return NoNodeID, nil }

func typeOfInt(_ *Arena, p Payload) (NodeID, error) {
	if p.(Int).Width.Bits() == 0 {
		return NoNodeID, typeErrorf(KindInt, "invalid width %s", p.(Int).Width)
	}
	return NoNodeID, nil
}

func typeOfFloat(_ *Arena, p Payload) (NodeID, error) {
	if p.(Float).Width.Bits() == 0 {
		return NoNodeID, typeErrorf(KindFloat, "invalid width %s", p.(Float).Width)
	}
	return NoNodeID, nil
}

func typeOfRecordType(a *Arena, p Payload) (NodeID, error) {
	r := p.(RecordType)
	if err := a.requireTypes(KindRecordType, "members", r.Members); err != nil {
		return NoNodeID, err
	}
	if len(r.Names) != 0 && len(r.Names) != len(r.Members) {
		return NoNodeID, typeErrorf(KindRecordType, "%d names for %d members", len(r.Names), len(r.Members))
	}
	if r.Special > RecordBlock {
		return NoNodeID, typeErrorf(KindRecordType, "invalid special %s", r.Special)
	}
	return NoNodeID, nil
}

func typeOfFnType(a *Arena, p Payload) (NodeID, error) {
	f := p.(FnType)
	if err := a.requireTypes(KindFnType, "param_types", f.ParamTypes); err != nil {
		return NoNodeID, err
	}
	if f.IsContinuation && len(f.ReturnTypes) != 0 {
		return NoNodeID, typeErrorf(KindFnType, "continuations do not return")
	}
	return NoNodeID, a.requireTypes(KindFnType, "return_types", f.ReturnTypes)
}

func typeOfPtrType(a *Arena, p Payload) (NodeID, error) {
	ptr := p.(PtrType)
	if !ptr.AddressSpace.Valid() {
		return NoNodeID, typeErrorf(KindPtrType, "invalid address space %s", ptr.AddressSpace)
	}
	return NoNodeID, a.requireType(KindPtrType, "pointee", ptr.Pointee)
}

func typeOfQualifiedType(a *Arena, p Payload) (NodeID, error) {
	q := p.(QualifiedType)
	if err := a.requireType(KindQualifiedType, "type", q.Type); err != nil {
		return NoNodeID, err
	}
	if a.Kind(q.Type) == KindQualifiedType {
		return NoNodeID, typeErrorf(KindQualifiedType, "type is already qualified")
	}
	return NoNodeID, nil
}

func typeOfArrType(a *Arena, p Payload) (NodeID, error) {
	arr := p.(ArrType)
	if err := a.requireType(KindArrType, "element_type", arr.ElementType); err != nil {
		return NoNodeID, err
	}
	if arr.Size == NoNodeID {
		return NoNodeID, nil
	}
	t, err := a.valueType(KindArrType, "size", arr.Size)
	if err != nil {
		return NoNodeID, err
	}
	if a.familyOf(t)&FamilyIntegral == 0 {
		return NoNodeID, typeErrorf(KindArrType, "size must be an integer, got %s", a.describe(t))
	}
	return NoNodeID, nil
}

func typeOfPackType(a *Arena, p Payload) (NodeID, error) {
	pack := p.(PackType)
	switch a.Kind(pack.ElementType) {
	case KindBool, KindInt, KindFloat:
	default:
		return NoNodeID, typeErrorf(KindPackType, "element_type must be a scalar, got %s", a.Kind(pack.ElementType))
	}
	if pack.Width == 0 {
		return NoNodeID, typeErrorf(KindPackType, "width must be positive")
	}
	return NoNodeID, nil
}

func typeOfTypeDeclRef(a *Arena, p Payload) (NodeID, error) {
	return NoNodeID, a.requireKind(KindTypeDeclRef, "decl", p.(TypeDeclRef).Decl, KindNominalType)
}

func typeOfImageType(a *Arena, p Payload) (NodeID, error) {
	img := p.(ImageType)
	if err := a.requireType(KindImageType, "sampled_type", img.SampledType); err != nil {
		return NoNodeID, err
	}
	if img.Dim < Dim1D || img.Dim > DimCube {
		return NoNodeID, typeErrorf(KindImageType, "invalid dimension %s", img.Dim)
	}
	return NoNodeID, nil
}

// Values ---------------------------------------------------------------------

func typeOfIntLiteral(a *Arena, p Payload) (NodeID, error) {
	lit := p.(IntLiteral)
	bits := lit.Width.Bits()
	if bits == 0 {
		return NoNodeID, typeErrorf(KindIntLiteral, "invalid width %s", lit.Width)
	}
	if bits < 64 && lit.Value>>bits != 0 {
		return NoNodeID, typeErrorf(KindIntLiteral, "value %d does not fit in %d bits", lit.Value, bits)
	}
	return a.IntType(lit.Width, lit.Signed), nil
}

func typeOfFloatLiteral(a *Arena, p Payload) (NodeID, error) {
	lit := p.(FloatLiteral)
	bits := lit.Width.Bits()
	if bits == 0 {
		return NoNodeID, typeErrorf(KindFloatLiteral, "invalid width %s", lit.Width)
	}
	if bits < 64 && lit.Bits>>bits != 0 {
		return NoNodeID, typeErrorf(KindFloatLiteral, "bit pattern %#x does not fit in %d bits", lit.Bits, bits)
	}
	return a.FloatType(lit.Width), nil
}

func typeOfBoolLiteral(a *Arena, _ Payload) (NodeID, error) {
	return a.BoolType(), nil
}

func typeOfStringLiteral(a *Arena, _ Payload) (NodeID, error) {
	return a.PtrType(AsGeneric, a.IntType(IntWidth8, false)), nil
}

func typeOfNullPtr(a *Arena, p Payload) (NodeID, error) {
	n := p.(NullPtr)
	if err := a.requireKind(KindNullPtr, "ptr_type", a.unqualified(n.PtrType), KindPtrType); err != nil {
		return NoNodeID, err
	}
	return n.PtrType, nil
}

func typeOfUndef(a *Arena, p Payload) (NodeID, error) {
	u := p.(Undef)
	if err := a.requireType(KindUndef, "type", u.Type); err != nil {
		return NoNodeID, err
	}
	return u.Type, nil
}

func typeOfComposite(a *Arena, p Payload) (NodeID, error) {
	c := p.(Composite)
	if err := a.requireType(KindComposite, "type", c.Type); err != nil {
		return NoNodeID, err
	}
	switch agg := a.Payload(a.unqualified(c.Type)).(type) {
	case RecordType:
		if err := a.checkArgs(KindComposite, "contents", agg.Members, c.Contents); err != nil {
			return NoNodeID, err
		}
	case ArrType:
		if n, ok := a.constantLength(agg.Size); ok && n != uint64(len(c.Contents)) {
			return NoNodeID, typeErrorf(KindComposite, "array of %d elements built from %d", n, len(c.Contents))
		}
		for i, v := range c.Contents {
			if err := a.requireValueOf(KindComposite, indexed("contents", i), v, agg.ElementType); err != nil {
				return NoNodeID, err
			}
		}
	case PackType:
		if uint64(agg.Width) != uint64(len(c.Contents)) {
			return NoNodeID, typeErrorf(KindComposite, "pack of %d elements built from %d", agg.Width, len(c.Contents))
		}
		for i, v := range c.Contents {
			if err := a.requireValueOf(KindComposite, indexed("contents", i), v, agg.ElementType); err != nil {
				return NoNodeID, err
			}
		}
	default:
		return NoNodeID, typeErrorf(KindComposite, "type must be an aggregate, got %s", a.describe(c.Type))
	}
	return c.Type, nil
}

func typeOfFill(a *Arena, p Payload) (NodeID, error) {
	f := p.(Fill)
	var elem NodeID
	switch agg := a.Payload(a.unqualified(f.Type)).(type) {
	case ArrType:
		elem = agg.ElementType
	case PackType:
		elem = agg.ElementType
	default:
		return NoNodeID, typeErrorf(KindFill, "type must be an array or pack, got %s", a.describe(f.Type))
	}
	if err := a.requireValueOf(KindFill, "value", f.Value, elem); err != nil {
		return NoNodeID, err
	}
	return f.Type, nil
}

func typeOfFnAddr(a *Arena, p Payload) (NodeID, error) {
	fn := p.(FnAddr).Fn
	if err := a.requireKind(KindFnAddr, "fn", fn, KindFunction); err != nil {
		return NoNodeID, err
	}
	t := a.TypeOf(fn)
	if t == NoNodeID {
		return NoNodeID, typeErrorf(KindFnAddr, "function %s has no type", fn)
	}
	return a.PtrType(AsProgramCode, t), nil
}

func typeOfRefDecl(a *Arena, p Payload) (NodeID, error) {
	decl := p.(RefDecl).Decl
	if err := a.requireKind(KindRefDecl, "decl", decl, KindConstant, KindGlobalVariable, KindFunction); err != nil {
		return NoNodeID, err
	}
	t := a.TypeOf(decl)
	if t == NoNodeID {
		return NoNodeID, typeErrorf(KindRefDecl, "%s %s has no type", a.Kind(decl), decl)
	}
	return t, nil
}

func typeOfVariable(a *Arena, p Payload) (NodeID, error) {
	v := p.(Variable)
	if err := a.requireType(KindVariable, "type", v.Type); err != nil {
		return NoNodeID, err
	}
	return v.Type, nil
}

func typeOfUnbound(*Arena, Payload) (NodeID, error) { return NoNodeID, nil }

// Instructions ---------------------------------------------------------------

func typeOfPrimOp(a *Arena, p Payload) (NodeID, error) {
	op := p.(PrimOp)
	sig, ok := SignatureOf(op.Op)
	if !ok {
		return NoNodeID, typeErrorf(KindPrimOp, "unknown op %s", op.Op)
	}
	if len(op.TypeArgs) != sig.TypeArgs {
		return NoNodeID, typeErrorf(KindPrimOp, "%s takes %d type arguments, got %d", op.Op, sig.TypeArgs, len(op.TypeArgs))
	}
	if err := a.requireTypes(KindPrimOp, "type_args", op.TypeArgs); err != nil {
		return NoNodeID, err
	}

	fixed := len(sig.Operands)
	if sig.Flags&OpFlagVariadic != 0 {
		if len(op.Operands) < fixed {
			return NoNodeID, typeErrorf(KindPrimOp, "%s takes at least %d operands, got %d", op.Op, fixed, len(op.Operands))
		}
	} else if len(op.Operands) != fixed {
		return NoNodeID, typeErrorf(KindPrimOp, "%s takes %d operands, got %d", op.Op, fixed, len(op.Operands))
	}

	types := make([]NodeID, fixed)
	for i := range fixed {
		t, err := a.valueType(KindPrimOp, indexed("operands", i), op.Operands[i])
		if err != nil {
			return NoNodeID, err
		}
		if !accepts(sig.Operands[i], a.familyOf(t)) {
			return NoNodeID, typeErrorf(KindPrimOp, "%s: operand %d has type %s", op.Op, i, a.describe(t))
		}
		types[i] = t
	}

	if sig.Flags&OpFlagSameType != 0 {
		for i := 1; i < fixed; i++ {
			if !a.SameType(types[0], types[i]) {
				return NoNodeID, typeErrorf(KindPrimOp, "%s: operand types %s and %s differ",
					op.Op, a.describe(types[0]), a.describe(types[i]))
			}
		}
	}
	if op.Op == OpSelect && !a.SameType(types[1], types[2]) {
		return NoNodeID, typeErrorf(KindPrimOp, "select: alternatives have types %s and %s",
			a.describe(types[1]), a.describe(types[2]))
	}

	var member NodeID
	if sig.Flags&OpFlagVariadic != 0 {
		var err error
		if member, err = a.selectMember(types[0], op.Operands[fixed:]); err != nil {
			return NoNodeID, err
		}
	}
	if sig.Flags&OpFlagStoreValue != 0 {
		pointee := PtrTypeOf(a, types[0]).Pointee
		if !a.SameType(pointee, types[1]) {
			return NoNodeID, typeErrorf(KindPrimOp, "store: value of type %s into pointer to %s",
				a.describe(types[1]), a.describe(pointee))
		}
	}
	if sig.Flags&OpFlagInsertValue != 0 && !a.SameType(member, types[1]) {
		return NoNodeID, typeErrorf(KindPrimOp, "insert: value of type %s into member of type %s",
			a.describe(types[1]), a.describe(member))
	}

	switch sig.Result {
	case OpResultFirst:
		return types[0], nil
	case OpResultSecond:
		return types[1], nil
	case OpResultBool:
		return a.BoolType(), nil
	case OpResultUnit:
		return a.UnitType(), nil
	case OpResultTypeArg:
		target := op.TypeArgs[0]
		if op.Op == OpConvert && a.familyOf(target)&(FamilyNumeric|FamilyBool) == 0 {
			return NoNodeID, typeErrorf(KindPrimOp, "convert: cannot convert to %s", a.describe(target))
		}
		return target, nil
	case OpResultPointee:
		return PtrTypeOf(a, types[0]).Pointee, nil
	case OpResultAllocPtr:
		return a.PtrType(AsFunction, op.TypeArgs[0]), nil
	case OpResultMember:
		return member, nil
	default:
		return NoNodeID, typeErrorf(KindPrimOp, "%s has no result rule", op.Op)
	}
}

// PtrTypeOf returns the pointer payload of t, ignoring qualifiers.
func PtrTypeOf(a *Arena, t NodeID) PtrType {
	ptr, _ := PayloadAs[PtrType](a, a.unqualified(t))
	return ptr
}

// selectMember walks constant indices into an aggregate type.
func (a *Arena) selectMember(agg NodeID, indices []NodeID) (NodeID, error) {
	if len(indices) == 0 {
		return NoNodeID, typeErrorf(KindPrimOp, "missing member index")
	}
	t := agg
	for i, idx := range indices {
		lit, ok := PayloadAs[IntLiteral](a, idx)
		if !ok {
			return NoNodeID, typeErrorf(KindPrimOp, "index %d must be an int_literal, got %s", i, a.Kind(idx))
		}
		switch p := a.Payload(a.unqualified(t)).(type) {
		case RecordType:
			if lit.Value >= uint64(len(p.Members)) {
				return NoNodeID, typeErrorf(KindPrimOp, "member %d out of range for record of %d", lit.Value, len(p.Members))
			}
			t = p.Members[lit.Value]
		case ArrType:
			if n, ok := a.constantLength(p.Size); ok && lit.Value >= n {
				return NoNodeID, typeErrorf(KindPrimOp, "element %d out of range for array of %d", lit.Value, n)
			}
			t = p.ElementType
		case PackType:
			if lit.Value >= uint64(p.Width) {
				return NoNodeID, typeErrorf(KindPrimOp, "element %d out of range for pack of %d", lit.Value, p.Width)
			}
			t = p.ElementType
		default:
			return NoNodeID, typeErrorf(KindPrimOp, "cannot index into %s", a.describe(t))
		}
	}
	return t, nil
}

// constantLength reads an array size given as an integer literal.
func (a *Arena) constantLength(size NodeID) (uint64, bool) {
	if size == NoNodeID {
		return 0, false
	}
	lit, ok := PayloadAs[IntLiteral](a, size)
	return lit.Value, ok
}

func typeOfCall(a *Arena, p Payload) (NodeID, error) {
	c := p.(Call)
	t, err := a.valueType(KindCall, "callee", c.Callee)
	if err != nil {
		return NoNodeID, err
	}
	sig, ok := a.fnSignature(t)
	if !ok || sig.IsContinuation {
		return NoNodeID, typeErrorf(KindCall, "callee of type %s is not a function", a.describe(t))
	}
	if err := a.checkArgs(KindCall, "args", sig.ParamTypes, c.Args); err != nil {
		return NoNodeID, err
	}
	return a.ResultType(sig.ReturnTypes), nil
}

func typeOfIf(a *Arena, p Payload) (NodeID, error) {
	n := p.(If)
	if err := a.requireTypes(KindIf, "yield_types", n.YieldTypes); err != nil {
		return NoNodeID, err
	}
	if err := a.requireValueOf(KindIf, "condition", n.Condition, a.BoolType()); err != nil {
		return NoNodeID, err
	}
	if err := a.requireKind(KindIf, "if_true", n.IfTrue, KindCase); err != nil {
		return NoNodeID, err
	}
	if n.IfFalse != NoNodeID {
		if err := a.requireKind(KindIf, "if_false", n.IfFalse, KindCase); err != nil {
			return NoNodeID, err
		}
	} else if len(n.YieldTypes) != 0 {
		return NoNodeID, typeErrorf(KindIf, "if without else cannot yield values")
	}
	return a.ResultType(n.YieldTypes), nil
}

func typeOfMatch(a *Arena, p Payload) (NodeID, error) {
	m := p.(Match)
	if err := a.requireTypes(KindMatch, "yield_types", m.YieldTypes); err != nil {
		return NoNodeID, err
	}
	t, err := a.valueType(KindMatch, "inspect", m.Inspect)
	if err != nil {
		return NoNodeID, err
	}
	if a.familyOf(t)&FamilyIntegral == 0 {
		return NoNodeID, typeErrorf(KindMatch, "inspect must be an integer, got %s", a.describe(t))
	}
	if len(m.Literals) != len(m.Cases) {
		return NoNodeID, typeErrorf(KindMatch, "%d literals for %d cases", len(m.Literals), len(m.Cases))
	}
	if err := a.requireKinds(KindMatch, "literals", m.Literals, KindIntLiteral); err != nil {
		return NoNodeID, err
	}
	for i, lit := range m.Literals {
		if err := a.requireValueOf(KindMatch, indexed("literals", i), lit, t); err != nil {
			return NoNodeID, err
		}
	}
	if err := a.requireKinds(KindMatch, "cases", m.Cases, KindCase); err != nil {
		return NoNodeID, err
	}
	if err := a.requireKind(KindMatch, "default", m.Default, KindCase); err != nil {
		return NoNodeID, err
	}
	return a.ResultType(m.YieldTypes), nil
}

func typeOfLoop(a *Arena, p Payload) (NodeID, error) {
	l := p.(Loop)
	if err := a.requireTypes(KindLoop, "yield_types", l.YieldTypes); err != nil {
		return NoNodeID, err
	}
	if err := a.requireKinds(KindLoop, "params", l.Params, KindVariable); err != nil {
		return NoNodeID, err
	}
	if err := a.requireKind(KindLoop, "body", l.Body, KindCase); err != nil {
		return NoNodeID, err
	}
	if err := a.checkArgs(KindLoop, "initial_args", a.paramTypes(l.Params), l.InitialArgs); err != nil {
		return NoNodeID, err
	}
	return a.ResultType(l.YieldTypes), nil
}

func typeOfControl(a *Arena, p Payload) (NodeID, error) {
	c := p.(Control)
	if err := a.requireTypes(KindControl, "yield_types", c.YieldTypes); err != nil {
		return NoNodeID, err
	}
	if err := a.requireKind(KindControl, "inside", c.Inside, KindCase); err != nil {
		return NoNodeID, err
	}
	return a.ResultType(c.YieldTypes), nil
}

// Terminators ----------------------------------------------------------------

func typeOfLet(a *Arena, p Payload) (NodeID, error) {
	l := p.(Let)
	if err := a.requireCategory(KindLet, "instruction", l.Instruction, CategoryInstruction); err != nil {
		return NoNodeID, err
	}
	if err := a.requireKinds(KindLet, "variables", l.Variables, KindVariable); err != nil {
		return NoNodeID, err
	}
	if err := a.requireCategory(KindLet, "tail", l.Tail, CategoryTerminator); err != nil {
		return NoNodeID, err
	}
	results := a.unpackResults(a.TypeOf(l.Instruction))
	if len(results) != len(l.Variables) {
		return NoNodeID, typeErrorf(KindLet, "%s yields %d values, bound to %d variables",
			a.Kind(l.Instruction), len(results), len(l.Variables))
	}
	for i, t := range a.paramTypes(l.Variables) {
		if !a.SameType(t, results[i]) {
			return NoNodeID, typeErrorf(KindLet, "variables[%d] has type %s, bound to %s",
				i, a.describe(t), a.describe(results[i]))
		}
	}
	return a.NoRetType(), nil
}

// unpackResults inverts ResultType.
func (a *Arena) unpackResults(t NodeID) []NodeID {
	switch {
	case t == NoNodeID || a.Kind(t) == KindUnit:
		return nil
	default:
		if r, ok := PayloadAs[RecordType](a, t); ok && r.Special == RecordMultipleReturn {
			return r.Members
		}
		return []NodeID{t}
	}
}

func typeOfJump(a *Arena, p Payload) (NodeID, error) {
	j := p.(Jump)
	bb, ok := PayloadAs[BasicBlock](a, j.Target)
	if !ok {
		return NoNodeID, typeErrorf(KindJump, "target must be a basic_block, got %s", a.Kind(j.Target))
	}
	if err := a.checkArgs(KindJump, "args", a.paramTypes(bb.Params), j.Args); err != nil {
		return NoNodeID, err
	}
	return a.NoRetType(), nil
}

func typeOfBranch(a *Arena, p Payload) (NodeID, error) {
	b := p.(Branch)
	if err := a.requireValueOf(KindBranch, "condition", b.Condition, a.BoolType()); err != nil {
		return NoNodeID, err
	}
	for _, target := range []struct {
		field string
		id    NodeID
	}{{"true_target", b.TrueTarget}, {"false_target", b.FalseTarget}} {
		bb, ok := PayloadAs[BasicBlock](a, target.id)
		if !ok {
			return NoNodeID, typeErrorf(KindBranch, "%s must be a basic_block, got %s", target.field, a.Kind(target.id))
		}
		if err := a.checkArgs(KindBranch, target.field, a.paramTypes(bb.Params), b.Args); err != nil {
			return NoNodeID, err
		}
	}
	return a.NoRetType(), nil
}

func typeOfReturn(a *Arena, p Payload) (NodeID, error) {
	r := p.(Return)
	fn, ok := PayloadAs[Function](a, r.Fn)
	if !ok {
		return NoNodeID, typeErrorf(KindReturn, "fn must be a function, got %s", a.Kind(r.Fn))
	}
	if err := a.checkArgs(KindReturn, "values", fn.ReturnTypes, r.Values); err != nil {
		return NoNodeID, err
	}
	return a.NoRetType(), nil
}

func typeOfUnreachable(a *Arena, _ Payload) (NodeID, error) {
	return a.NoRetType(), nil
}

func typeOfYield(a *Arena, p Payload) (NodeID, error) {
	if err := a.requireValues(KindYield, "values", p.(Yield).Values); err != nil {
		return NoNodeID, err
	}
	return a.NoRetType(), nil
}

func typeOfMergeContinue(a *Arena, p Payload) (NodeID, error) {
	if err := a.requireValues(KindMergeContinue, "values", p.(MergeContinue).Values); err != nil {
		return NoNodeID, err
	}
	return a.NoRetType(), nil
}

func typeOfMergeBreak(a *Arena, p Payload) (NodeID, error) {
	if err := a.requireValues(KindMergeBreak, "values", p.(MergeBreak).Values); err != nil {
		return NoNodeID, err
	}
	return a.NoRetType(), nil
}

func typeOfTailCall(a *Arena, p Payload) (NodeID, error) {
	tc := p.(TailCall)
	t, err := a.valueType(KindTailCall, "target", tc.Target)
	if err != nil {
		return NoNodeID, err
	}
	sig, ok := a.fnSignature(t)
	if !ok {
		return NoNodeID, typeErrorf(KindTailCall, "target of type %s is not a function", a.describe(t))
	}
	if err := a.checkArgs(KindTailCall, "args", sig.ParamTypes, tc.Args); err != nil {
		return NoNodeID, err
	}
	return a.NoRetType(), nil
}

// Abstractions and declarations ----------------------------------------------

func typeOfCase(a *Arena, p Payload) (NodeID, error) {
	c := p.(Case)
	if err := a.requireKinds(KindCase, "params", c.Params, KindVariable); err != nil {
		return NoNodeID, err
	}
	return NoNodeID, a.requireCategory(KindCase, "body", c.Body, CategoryTerminator)
}

func typeOfBasicBlock(a *Arena, p Payload) (NodeID, error) {
	bb := p.(BasicBlock)
	if err := a.requireKinds(KindBasicBlock, "params", bb.Params, KindVariable); err != nil {
		return NoNodeID, err
	}
	if bb.Fn != NoNodeID {
		if err := a.requireKind(KindBasicBlock, "fn", bb.Fn, KindFunction); err != nil {
			return NoNodeID, err
		}
	}
	return a.derived(KindFnType, FnType{IsContinuation: true, ParamTypes: a.paramTypes(bb.Params)}), nil
}

func typeOfFunction(a *Arena, p Payload) (NodeID, error) {
	fn := p.(Function)
	if err := a.requireKinds(KindFunction, "annotations", fn.Annotations, KindAnnotation); err != nil {
		return NoNodeID, err
	}
	if err := a.requireKinds(KindFunction, "params", fn.Params, KindVariable); err != nil {
		return NoNodeID, err
	}
	if err := a.requireTypes(KindFunction, "return_types", fn.ReturnTypes); err != nil {
		return NoNodeID, err
	}
	return a.FnTypeOf(a.paramTypes(fn.Params), fn.ReturnTypes), nil
}

func typeOfConstant(a *Arena, p Payload) (NodeID, error) {
	c := p.(Constant)
	if err := a.requireKinds(KindConstant, "annotations", c.Annotations, KindAnnotation); err != nil {
		return NoNodeID, err
	}
	if c.TypeHint == NoNodeID {
		return NoNodeID, nil
	}
	if err := a.requireType(KindConstant, "type_hint", c.TypeHint); err != nil {
		return NoNodeID, err
	}
	return c.TypeHint, nil
}

func typeOfGlobalVariable(a *Arena, p Payload) (NodeID, error) {
	g := p.(GlobalVariable)
	if err := a.requireKinds(KindGlobalVariable, "annotations", g.Annotations, KindAnnotation); err != nil {
		return NoNodeID, err
	}
	if !g.AddressSpace.Valid() {
		return NoNodeID, typeErrorf(KindGlobalVariable, "invalid address space %s", g.AddressSpace)
	}
	if err := a.requireType(KindGlobalVariable, "type", g.Type); err != nil {
		return NoNodeID, err
	}
	return a.PtrType(g.AddressSpace, g.Type), nil
}

func typeOfNominalType(*Arena, Payload) (NodeID, error) { return NoNodeID, nil }

func typeOfAnnotation(a *Arena, p Payload) (NodeID, error) {
	an := p.(Annotation)
	if an.Value != NoNodeID && !a.isValue(an.Value) {
		return NoNodeID, typeErrorf(KindAnnotation, "value must be a value, got %s", a.Kind(an.Value))
	}
	return NoNodeID, nil
}

func typeOfRoot(a *Arena, p Payload) (NodeID, error) {
	for i, d := range p.(Root).Declarations {
		if a.Kind(d).Category() != CategoryDeclaration {
			return NoNodeID, typeErrorf(KindRoot, "declarations[%d] must be a declaration, got %s", i, a.Kind(d))
		}
	}
	return NoNodeID, nil
}

// Bodies ---------------------------------------------------------------------

func checkTerminatorBody(a *Arena, p Payload, body NodeID) error {
	return a.requireCategory(p.Kind(), "body", body, CategoryTerminator)
}

func checkFunctionBody(a *Arena, _ Payload, body NodeID) error {
	return a.requireCategory(KindFunction, "body", body, CategoryTerminator)
}

func checkConstantBody(a *Arena, p Payload, body NodeID) error {
	c := p.(Constant)
	if c.TypeHint == NoNodeID {
		_, err := a.valueType(KindConstant, "value", body)
		return err
	}
	return a.requireValueOf(KindConstant, "value", body, c.TypeHint)
}

func checkGlobalInit(a *Arena, p Payload, body NodeID) error {
	return a.requireValueOf(KindGlobalVariable, "init", body, p.(GlobalVariable).Type)
}

func checkNominalTypeBody(a *Arena, _ Payload, body NodeID) error {
	return a.requireType(KindNominalType, "body", body)
}

func indexed(field string, i int) string {
	return field + "[" + strconv.Itoa(i) + "]"
}
