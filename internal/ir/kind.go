package ir

import (
	"fmt"

	"github.com/iancoleman/strcase"
)

// Kind is the discriminant of a node.
type Kind uint8

const (
	KindInvalid Kind = iota

	// types
	KindMaskType
	KindNoRet
	KindUnit
	KindBool
	KindInt
	KindFloat
	KindRecordType
	KindFnType
	KindPtrType
	KindQualifiedType
	KindArrType
	KindPackType
	KindTypeDeclRef
	KindSamplerType
	KindImageType

	// values
	KindIntLiteral
	KindFloatLiteral
	KindTrue
	KindFalse
	KindStringLiteral
	KindNullPtr
	KindUndef
	KindComposite
	KindFill
	KindFnAddr
	KindRefDecl
	KindVariable
	KindUnbound

	// instructions
	KindPrimOp
	KindCall
	KindIf
	KindMatch
	KindLoop
	KindControl

	// terminators
	KindLet
	KindJump
	KindBranch
	KindReturn
	KindUnreachable
	KindYield
	KindMergeContinue
	KindMergeBreak
	KindTailCall

	// abstractions and declarations
	KindCase
	KindBasicBlock
	KindFunction
	KindConstant
	KindGlobalVariable
	KindNominalType
	KindAnnotation
	KindRoot

	kindCount
)

// Category groups kinds for passes that handle them generically.
type Category uint8

const (
	CategoryNone Category = iota
	CategoryType
	CategoryValue
	CategoryInstruction
	CategoryTerminator
	CategoryAbstraction
	CategoryDeclaration
	CategoryMisc
)

func (c Category) String() string {
	switch c {
	case CategoryType:
		return "type"
	case CategoryValue:
		return "value"
	case CategoryInstruction:
		return "instruction"
	case CategoryTerminator:
		return "terminator"
	case CategoryAbstraction:
		return "abstraction"
	case CategoryDeclaration:
		return "declaration"
	case CategoryMisc:
		return "misc"
	default:
		return "none"
	}
}

// goNames are the identifiers kind names are derived from.
var goNames = [kindCount]string{
	KindMaskType:       "MaskType",
	KindNoRet:          "NoRet",
	KindUnit:           "Unit",
	KindBool:           "Bool",
	KindInt:            "Int",
	KindFloat:          "Float",
	KindRecordType:     "RecordType",
	KindFnType:         "FnType",
	KindPtrType:        "PtrType",
	KindQualifiedType:  "QualifiedType",
	KindArrType:        "ArrType",
	KindPackType:       "PackType",
	KindTypeDeclRef:    "TypeDeclRef",
	KindSamplerType:    "SamplerType",
	KindImageType:      "ImageType",
	KindIntLiteral:     "IntLiteral",
	KindFloatLiteral:   "FloatLiteral",
	KindTrue:           "True",
	KindFalse:          "False",
	KindStringLiteral:  "StringLiteral",
	KindNullPtr:        "NullPtr",
	KindUndef:          "Undef",
	KindComposite:      "Composite",
	KindFill:           "Fill",
	KindFnAddr:         "FnAddr",
	KindRefDecl:        "RefDecl",
	KindVariable:       "Variable",
	KindUnbound:        "Unbound",
	KindPrimOp:         "PrimOp",
	KindCall:           "Call",
	KindIf:             "If",
	KindMatch:          "Match",
	KindLoop:           "Loop",
	KindControl:        "Control",
	KindLet:            "Let",
	KindJump:           "Jump",
	KindBranch:         "Branch",
	KindReturn:         "Return",
	KindUnreachable:    "Unreachable",
	KindYield:          "Yield",
	KindMergeContinue:  "MergeContinue",
	KindMergeBreak:     "MergeBreak",
	KindTailCall:       "TailCall",
	KindCase:           "Case",
	KindBasicBlock:     "BasicBlock",
	KindFunction:       "Function",
	KindConstant:       "Constant",
	KindGlobalVariable: "GlobalVariable",
	KindNominalType:    "NominalType",
	KindAnnotation:     "Annotation",
	KindRoot:           "Root",
}

var (
	kindNames  [kindCount]string
	kindByName map[string]Kind
)

func init() {
	kindByName = make(map[string]Kind, kindCount)
	for k := KindInvalid + 1; k < kindCount; k++ {
		name := strcase.ToSnake(goNames[k])
		kindNames[k] = name
		kindByName[name] = k
	}
}

// String returns the snake_case name used in diagnostics and textual IR.
func (k Kind) String() string {
	if k > KindInvalid && k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool { return k > KindInvalid && k < kindCount }

// LookupKind finds a kind by its snake_case name.
func LookupKind(name string) (Kind, bool) {
	k, ok := kindByName[name]
	return k, ok
}

// Kinds returns every valid kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount-1)
	for k := KindInvalid + 1; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}
