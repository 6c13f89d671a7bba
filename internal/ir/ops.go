package ir

import "fmt"

// Op is the operation performed by a prim_op instruction.
type Op uint8

const (
	OpInvalid Op = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpNeg
	OpAnd
	OpOr
	OpXor
	OpNot
	OpLshift
	OpRshiftLogical
	OpRshiftArithm
	OpEq
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte
	OpSelect
	OpConvert
	OpReinterpret
	OpLoad
	OpStore
	OpAlloca
	OpExtract
	OpInsert
	opCount
)

var opNames = [opCount]string{
	OpInvalid:       "invalid",
	OpAdd:           "add",
	OpSub:           "sub",
	OpMul:           "mul",
	OpDiv:           "div",
	OpMod:           "mod",
	OpNeg:           "neg",
	OpAnd:           "and",
	OpOr:            "or",
	OpXor:           "xor",
	OpNot:           "not",
	OpLshift:        "lshift",
	OpRshiftLogical: "rshift_logical",
	OpRshiftArithm:  "rshift_arithm",
	OpEq:            "eq",
	OpNeq:           "neq",
	OpLt:            "lt",
	OpLte:           "lte",
	OpGt:            "gt",
	OpGte:           "gte",
	OpSelect:        "select",
	OpConvert:       "convert",
	OpReinterpret:   "reinterpret",
	OpLoad:          "load",
	OpStore:         "store",
	OpAlloca:        "alloca",
	OpExtract:       "extract",
	OpInsert:        "insert",
}

func (op Op) String() string {
	if op < opCount {
		return opNames[op]
	}
	return fmt.Sprintf("Op(%d)", uint8(op))
}

// Valid reports whether op names a real operation.
func (op Op) Valid() bool { return op > OpInvalid && op < opCount }

// UnmarshalText parses an op name.
func (op *Op) UnmarshalText(text []byte) error {
	for i := OpInvalid + 1; i < opCount; i++ {
		if opNames[i] == string(text) {
			*op = i
			return nil
		}
	}
	return fmt.Errorf("unknown op %q", text)
}

// FamilyMask describes broad categories of types an operand accepts.
type FamilyMask uint16

const (
	FamilyNone FamilyMask = 0
	FamilyAny  FamilyMask = 1 << iota
	FamilyBool
	FamilySignedInt
	FamilyUnsignedInt
	FamilyFloat
	FamilyMaskType
	FamilyPointer
	FamilyAggregate
)

const (
	FamilyIntegral = FamilySignedInt | FamilyUnsignedInt
	FamilyNumeric  = FamilyIntegral | FamilyFloat
	FamilyBitwise  = FamilyIntegral | FamilyBool | FamilyMaskType
)

// OpResult describes how to derive the result type of an operation.
type OpResult uint8

const (
	OpResultUnknown OpResult = iota
	OpResultFirst            // type of the first operand
	OpResultSecond           // type of the second operand
	OpResultBool
	OpResultUnit
	OpResultTypeArg  // the single type argument
	OpResultPointee  // pointee of the first operand
	OpResultAllocPtr // function-space pointer to the type argument
	OpResultMember   // member of the aggregate selected by constant indices
)

// OpFlags annotate special handling for an operation.
type OpFlags uint8

const (
	OpFlagNone     OpFlags = 0
	OpFlagSameType OpFlags = 1 << iota // all listed operands share one type
	OpFlagVariadic                     // operands beyond Operands are constant indices
	OpFlagStoreValue                   // second operand must match the pointee of the first
	OpFlagInsertValue                  // second operand must match the selected member
)

// OpSignature lists operand families, type-argument count and result rule for an
// operation. Operands holds one mask per fixed operand.
type OpSignature struct {
	Operands []FamilyMask
	TypeArgs int
	Result   OpResult
	Flags    OpFlags
}

var opSignatures = [opCount]OpSignature{
	OpAdd: {Operands: []FamilyMask{FamilyNumeric, FamilyNumeric}, Result: OpResultFirst, Flags: OpFlagSameType},
	OpSub: {Operands: []FamilyMask{FamilyNumeric, FamilyNumeric}, Result: OpResultFirst, Flags: OpFlagSameType},
	OpMul: {Operands: []FamilyMask{FamilyNumeric, FamilyNumeric}, Result: OpResultFirst, Flags: OpFlagSameType},
	OpDiv: {Operands: []FamilyMask{FamilyNumeric, FamilyNumeric}, Result: OpResultFirst, Flags: OpFlagSameType},
	OpMod: {Operands: []FamilyMask{FamilyIntegral, FamilyIntegral}, Result: OpResultFirst, Flags: OpFlagSameType},
	OpNeg: {Operands: []FamilyMask{FamilySignedInt | FamilyFloat}, Result: OpResultFirst},

	OpAnd: {Operands: []FamilyMask{FamilyBitwise, FamilyBitwise}, Result: OpResultFirst, Flags: OpFlagSameType},
	OpOr:  {Operands: []FamilyMask{FamilyBitwise, FamilyBitwise}, Result: OpResultFirst, Flags: OpFlagSameType},
	OpXor: {Operands: []FamilyMask{FamilyBitwise, FamilyBitwise}, Result: OpResultFirst, Flags: OpFlagSameType},
	OpNot: {Operands: []FamilyMask{FamilyBitwise}, Result: OpResultFirst},

	OpLshift:        {Operands: []FamilyMask{FamilyIntegral, FamilyIntegral}, Result: OpResultFirst},
	OpRshiftLogical: {Operands: []FamilyMask{FamilyIntegral, FamilyIntegral}, Result: OpResultFirst},
	OpRshiftArithm:  {Operands: []FamilyMask{FamilyIntegral, FamilyIntegral}, Result: OpResultFirst},

	OpEq:  {Operands: []FamilyMask{FamilyAny, FamilyAny}, Result: OpResultBool, Flags: OpFlagSameType},
	OpNeq: {Operands: []FamilyMask{FamilyAny, FamilyAny}, Result: OpResultBool, Flags: OpFlagSameType},
	OpLt:  {Operands: []FamilyMask{FamilyNumeric, FamilyNumeric}, Result: OpResultBool, Flags: OpFlagSameType},
	OpLte: {Operands: []FamilyMask{FamilyNumeric, FamilyNumeric}, Result: OpResultBool, Flags: OpFlagSameType},
	OpGt:  {Operands: []FamilyMask{FamilyNumeric, FamilyNumeric}, Result: OpResultBool, Flags: OpFlagSameType},
	OpGte: {Operands: []FamilyMask{FamilyNumeric, FamilyNumeric}, Result: OpResultBool, Flags: OpFlagSameType},

	// select checks its two alternatives separately; see checkPrimOp.
	OpSelect: {Operands: []FamilyMask{FamilyBool, FamilyAny, FamilyAny}, Result: OpResultSecond},

	OpConvert:     {Operands: []FamilyMask{FamilyNumeric | FamilyBool}, TypeArgs: 1, Result: OpResultTypeArg},
	OpReinterpret: {Operands: []FamilyMask{FamilyAny}, TypeArgs: 1, Result: OpResultTypeArg},

	OpLoad:   {Operands: []FamilyMask{FamilyPointer}, Result: OpResultPointee},
	OpStore:  {Operands: []FamilyMask{FamilyPointer, FamilyAny}, Result: OpResultUnit, Flags: OpFlagStoreValue},
	OpAlloca: {TypeArgs: 1, Result: OpResultAllocPtr},

	OpExtract: {Operands: []FamilyMask{FamilyAggregate}, Result: OpResultMember, Flags: OpFlagVariadic},
	OpInsert:  {Operands: []FamilyMask{FamilyAggregate, FamilyAny}, Result: OpResultFirst, Flags: OpFlagVariadic | OpFlagInsertValue},
}

// SignatureOf returns the typing signature of op.
func SignatureOf(op Op) (OpSignature, bool) {
	if !op.Valid() {
		return OpSignature{}, false
	}
	return opSignatures[op], true
}
