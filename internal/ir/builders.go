package ir

// Convenience constructors for common nodes. Type constructors panic on
// malformed arguments; value constructors return type errors.

func (a *Arena) UnitType() NodeID  { return a.derived(KindUnit, nil) }
func (a *Arena) NoRetType() NodeID { return a.derived(KindNoRet, nil) }
func (a *Arena) BoolType() NodeID  { return a.derived(KindBool, nil) }
func (a *Arena) MaskType() NodeID  { return a.derived(KindMaskType, nil) }

func (a *Arena) IntType(w IntWidth, signed bool) NodeID {
	return a.derived(KindInt, Int{Width: w, Signed: signed})
}

func (a *Arena) FloatType(w FloatWidth) NodeID {
	return a.derived(KindFloat, Float{Width: w})
}

func (a *Arena) PtrType(as AddressSpace, pointee NodeID) NodeID {
	return a.derived(KindPtrType, PtrType{AddressSpace: as, Pointee: pointee})
}

// RecordOf returns the anonymous record of members.
func (a *Arena) RecordOf(members ...NodeID) NodeID {
	return a.derived(KindRecordType, RecordType{Members: members})
}

// FnTypeOf returns the function type from params to returns.
func (a *Arena) FnTypeOf(params, returns []NodeID) NodeID {
	return a.derived(KindFnType, FnType{ParamTypes: params, ReturnTypes: returns})
}

// ResultType packs the result types of a multi-valued instruction: unit for
// none, the type itself for one, a multiple_return record otherwise.
func (a *Arena) ResultType(types []NodeID) NodeID {
	switch len(types) {
	case 0:
		return a.UnitType()
	case 1:
		return types[0]
	default:
		return a.derived(KindRecordType, RecordType{Members: types, Special: RecordMultipleReturn})
	}
}

// IntLiteral returns the literal v of the given integer type. v is the
// value's bit pattern; negative signed values are passed two's complement
// truncated to the width.
func (a *Arena) IntLiteral(w IntWidth, signed bool, v uint64) (NodeID, error) {
	return a.Construct(KindIntLiteral, IntLiteral{Width: w, Signed: signed, Value: v})
}

func (a *Arena) True() NodeID  { return a.MustConstruct(KindTrue, nil) }
func (a *Arena) False() NodeID { return a.MustConstruct(KindFalse, nil) }

// NewVariable declares a fresh variable of type typ.
func (a *Arena) NewVariable(name string, typ NodeID) (NodeID, error) {
	return a.Construct(KindVariable, Variable{Type: typ, Name: a.Intern(name), ID: a.FreshID()})
}

// PrimOp builds a prim_op instruction.
func (a *Arena) PrimOp(op Op, typeArgs []NodeID, operands ...NodeID) (NodeID, error) {
	return a.Construct(KindPrimOp, PrimOp{Op: op, TypeArgs: typeArgs, Operands: operands})
}
