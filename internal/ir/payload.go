package ir

import (
	"slices"

	"shady/internal/source"
)

// Payload is the kind-specific content of a node. Each payload type belongs
// to exactly one kind; kinds without fields take a nil payload.
//
// Payloads are values. Slices inside a payload are copied on construction and
// must be treated as read-only by callers of Arena.Node.
type Payload interface {
	Kind() Kind
	// VisitFields reports every field in declaration order. The names match
	// the `ir` struct tags and the classifier's relevant-field lists.
	VisitFields(v FieldVisitor)
}

// FieldVisitor receives payload fields. It is the single generic view of a
// payload used by hashing, equality, printing, verification and rewriting.
type FieldVisitor interface {
	Node(name string, id NodeID)
	Nodes(name string, ids []NodeID)
	Uint(name string, v uint64)
	Bool(name string, v bool)
	String(name string, id source.StringID)
	Strings(name string, ids []source.StringID)
	Enum(name string, ordinal uint64, text string)
}

type cloner interface {
	clone() Payload
}

// bodied is implemented by the payloads of nominal kinds.
type bodied interface {
	body() NodeID
	withBody(NodeID) Payload
}

func cloneIDs(ids []NodeID) []NodeID {
	if len(ids) == 0 {
		return nil
	}
	return slices.Clone(ids)
}

func clonePayload(p Payload) Payload {
	if c, ok := p.(cloner); ok {
		return c.clone()
	}
	return p
}

// Types ----------------------------------------------------------------------

type Int struct {
	Width  IntWidth `ir:"width"`
	Signed bool     `ir:"signed"`
}

func (Int) Kind() Kind { return KindInt }
func (p Int) VisitFields(v FieldVisitor) {
	v.Enum("width", uint64(p.Width), p.Width.String())
	v.Bool("signed", p.Signed)
}

type Float struct {
	Width FloatWidth `ir:"width"`
}

func (Float) Kind() Kind { return KindFloat }
func (p Float) VisitFields(v FieldVisitor) {
	v.Enum("width", uint64(p.Width), p.Width.String())
}

// RecordType is an aggregate. Names is either empty or parallel to Members.
type RecordType struct {
	Members []NodeID          `ir:"members"`
	Names   []source.StringID `ir:"names"`
	Special RecordSpecial     `ir:"special"`
}

func (RecordType) Kind() Kind { return KindRecordType }
func (p RecordType) VisitFields(v FieldVisitor) {
	v.Nodes("members", p.Members)
	v.Strings("names", p.Names)
	v.Enum("special", uint64(p.Special), p.Special.String())
}
func (p RecordType) clone() Payload {
	p.Members = cloneIDs(p.Members)
	if len(p.Names) == 0 {
		p.Names = nil
	} else {
		p.Names = slices.Clone(p.Names)
	}
	return p
}

type FnType struct {
	IsContinuation bool     `ir:"is_continuation"`
	ParamTypes     []NodeID `ir:"param_types"`
	ReturnTypes    []NodeID `ir:"return_types"`
}

func (FnType) Kind() Kind { return KindFnType }
func (p FnType) VisitFields(v FieldVisitor) {
	v.Bool("is_continuation", p.IsContinuation)
	v.Nodes("param_types", p.ParamTypes)
	v.Nodes("return_types", p.ReturnTypes)
}
func (p FnType) clone() Payload {
	p.ParamTypes = cloneIDs(p.ParamTypes)
	p.ReturnTypes = cloneIDs(p.ReturnTypes)
	return p
}

type PtrType struct {
	AddressSpace AddressSpace `ir:"address_space"`
	Pointee      NodeID       `ir:"pointee"`
}

func (PtrType) Kind() Kind { return KindPtrType }
func (p PtrType) VisitFields(v FieldVisitor) {
	v.Enum("address_space", uint64(p.AddressSpace), p.AddressSpace.String())
	v.Node("pointee", p.Pointee)
}

type QualifiedType struct {
	IsUniform bool   `ir:"is_uniform"`
	Type      NodeID `ir:"type"`
}

func (QualifiedType) Kind() Kind { return KindQualifiedType }
func (p QualifiedType) VisitFields(v FieldVisitor) {
	v.Bool("is_uniform", p.IsUniform)
	v.Node("type", p.Type)
}

// ArrType is an array; a missing Size makes it runtime-sized.
type ArrType struct {
	ElementType NodeID `ir:"element_type"`
	Size        NodeID `ir:"size"`
}

func (ArrType) Kind() Kind { return KindArrType }
func (p ArrType) VisitFields(v FieldVisitor) {
	v.Node("element_type", p.ElementType)
	v.Node("size", p.Size)
}

type PackType struct {
	ElementType NodeID `ir:"element_type"`
	Width       uint32 `ir:"width"`
}

func (PackType) Kind() Kind { return KindPackType }
func (p PackType) VisitFields(v FieldVisitor) {
	v.Node("element_type", p.ElementType)
	v.Uint("width", uint64(p.Width))
}

type TypeDeclRef struct {
	Decl NodeID `ir:"decl"`
}

func (TypeDeclRef) Kind() Kind { return KindTypeDeclRef }
func (p TypeDeclRef) VisitFields(v FieldVisitor) {
	v.Node("decl", p.Decl)
}

type ImageType struct {
	SampledType  NodeID   `ir:"sampled_type"`
	Dim          ImageDim `ir:"dim"`
	Arrayed      bool     `ir:"arrayed"`
	Multisampled bool     `ir:"multisampled"`
}

func (ImageType) Kind() Kind { return KindImageType }
func (p ImageType) VisitFields(v FieldVisitor) {
	v.Node("sampled_type", p.SampledType)
	v.Enum("dim", uint64(p.Dim), p.Dim.String())
	v.Bool("arrayed", p.Arrayed)
	v.Bool("multisampled", p.Multisampled)
}

// Values ---------------------------------------------------------------------

// IntLiteral holds the value zero-extended to 64 bits. Spelling keeps the
// source text for printers and does not take part in identity.
type IntLiteral struct {
	Width    IntWidth        `ir:"width"`
	Signed   bool            `ir:"signed"`
	Value    uint64          `ir:"value"`
	Spelling source.StringID `ir:"spelling"`
}

func (IntLiteral) Kind() Kind { return KindIntLiteral }
func (p IntLiteral) VisitFields(v FieldVisitor) {
	v.Enum("width", uint64(p.Width), p.Width.String())
	v.Bool("signed", p.Signed)
	v.Uint("value", p.Value)
	v.String("spelling", p.Spelling)
}

// FloatLiteral stores the IEEE bit pattern of the value.
type FloatLiteral struct {
	Width FloatWidth `ir:"width"`
	Bits  uint64     `ir:"bits"`
}

func (FloatLiteral) Kind() Kind { return KindFloatLiteral }
func (p FloatLiteral) VisitFields(v FieldVisitor) {
	v.Enum("width", uint64(p.Width), p.Width.String())
	v.Uint("bits", p.Bits)
}

type StringLiteral struct {
	Value source.StringID `ir:"value"`
}

func (StringLiteral) Kind() Kind { return KindStringLiteral }
func (p StringLiteral) VisitFields(v FieldVisitor) {
	v.String("value", p.Value)
}

type NullPtr struct {
	PtrType NodeID `ir:"ptr_type"`
}

func (NullPtr) Kind() Kind { return KindNullPtr }
func (p NullPtr) VisitFields(v FieldVisitor) {
	v.Node("ptr_type", p.PtrType)
}

type Undef struct {
	Type NodeID `ir:"type"`
}

func (Undef) Kind() Kind { return KindUndef }
func (p Undef) VisitFields(v FieldVisitor) {
	v.Node("type", p.Type)
}

type Composite struct {
	Type     NodeID   `ir:"type"`
	Contents []NodeID `ir:"contents"`
}

func (Composite) Kind() Kind { return KindComposite }
func (p Composite) VisitFields(v FieldVisitor) {
	v.Node("type", p.Type)
	v.Nodes("contents", p.Contents)
}
func (p Composite) clone() Payload {
	p.Contents = cloneIDs(p.Contents)
	return p
}

type Fill struct {
	Type  NodeID `ir:"type"`
	Value NodeID `ir:"value"`
}

func (Fill) Kind() Kind { return KindFill }
func (p Fill) VisitFields(v FieldVisitor) {
	v.Node("type", p.Type)
	v.Node("value", p.Value)
}

type FnAddr struct {
	Fn NodeID `ir:"fn"`
}

func (FnAddr) Kind() Kind { return KindFnAddr }
func (p FnAddr) VisitFields(v FieldVisitor) {
	v.Node("fn", p.Fn)
}

type RefDecl struct {
	Decl NodeID `ir:"decl"`
}

func (RefDecl) Kind() Kind { return KindRefDecl }
func (p RefDecl) VisitFields(v FieldVisitor) {
	v.Node("decl", p.Decl)
}

// Variable is identified by ID alone; use Arena.FreshID to obtain one.
type Variable struct {
	Type NodeID          `ir:"type"`
	Name source.StringID `ir:"name"`
	ID   uint64          `ir:"id"`
}

func (Variable) Kind() Kind { return KindVariable }
func (p Variable) VisitFields(v FieldVisitor) {
	v.Node("type", p.Type)
	v.String("name", p.Name)
	v.Uint("id", p.ID)
}

// Unbound is a name a front-end has not resolved yet.
type Unbound struct {
	Name source.StringID `ir:"name"`
}

func (Unbound) Kind() Kind { return KindUnbound }
func (p Unbound) VisitFields(v FieldVisitor) {
	v.String("name", p.Name)
}

// Instructions ---------------------------------------------------------------

type PrimOp struct {
	Op       Op       `ir:"op"`
	TypeArgs []NodeID `ir:"type_args"`
	Operands []NodeID `ir:"operands"`
}

func (PrimOp) Kind() Kind { return KindPrimOp }
func (p PrimOp) VisitFields(v FieldVisitor) {
	v.Enum("op", uint64(p.Op), p.Op.String())
	v.Nodes("type_args", p.TypeArgs)
	v.Nodes("operands", p.Operands)
}
func (p PrimOp) clone() Payload {
	p.TypeArgs = cloneIDs(p.TypeArgs)
	p.Operands = cloneIDs(p.Operands)
	return p
}

type Call struct {
	Callee NodeID   `ir:"callee"`
	Args   []NodeID `ir:"args"`
}

func (Call) Kind() Kind { return KindCall }
func (p Call) VisitFields(v FieldVisitor) {
	v.Node("callee", p.Callee)
	v.Nodes("args", p.Args)
}
func (p Call) clone() Payload {
	p.Args = cloneIDs(p.Args)
	return p
}

type If struct {
	YieldTypes []NodeID `ir:"yield_types"`
	Condition  NodeID   `ir:"condition"`
	IfTrue     NodeID   `ir:"if_true"`
	IfFalse    NodeID   `ir:"if_false"`
}

func (If) Kind() Kind { return KindIf }
func (p If) VisitFields(v FieldVisitor) {
	v.Nodes("yield_types", p.YieldTypes)
	v.Node("condition", p.Condition)
	v.Node("if_true", p.IfTrue)
	v.Node("if_false", p.IfFalse)
}
func (p If) clone() Payload {
	p.YieldTypes = cloneIDs(p.YieldTypes)
	return p
}

type Match struct {
	YieldTypes []NodeID `ir:"yield_types"`
	Inspect    NodeID   `ir:"inspect"`
	Literals   []NodeID `ir:"literals"`
	Cases      []NodeID `ir:"cases"`
	Default    NodeID   `ir:"default"`
}

func (Match) Kind() Kind { return KindMatch }
func (p Match) VisitFields(v FieldVisitor) {
	v.Nodes("yield_types", p.YieldTypes)
	v.Node("inspect", p.Inspect)
	v.Nodes("literals", p.Literals)
	v.Nodes("cases", p.Cases)
	v.Node("default", p.Default)
}
func (p Match) clone() Payload {
	p.YieldTypes = cloneIDs(p.YieldTypes)
	p.Literals = cloneIDs(p.Literals)
	p.Cases = cloneIDs(p.Cases)
	return p
}

type Loop struct {
	YieldTypes  []NodeID `ir:"yield_types"`
	Params      []NodeID `ir:"params"`
	Body        NodeID   `ir:"body"`
	InitialArgs []NodeID `ir:"initial_args"`
}

func (Loop) Kind() Kind { return KindLoop }
func (p Loop) VisitFields(v FieldVisitor) {
	v.Nodes("yield_types", p.YieldTypes)
	v.Nodes("params", p.Params)
	v.Node("body", p.Body)
	v.Nodes("initial_args", p.InitialArgs)
}
func (p Loop) clone() Payload {
	p.YieldTypes = cloneIDs(p.YieldTypes)
	p.Params = cloneIDs(p.Params)
	p.InitialArgs = cloneIDs(p.InitialArgs)
	return p
}

// Control runs Inside with a join point; jumping to it yields YieldTypes.
type Control struct {
	YieldTypes []NodeID `ir:"yield_types"`
	Inside     NodeID   `ir:"inside"`
}

func (Control) Kind() Kind { return KindControl }
func (p Control) VisitFields(v FieldVisitor) {
	v.Nodes("yield_types", p.YieldTypes)
	v.Node("inside", p.Inside)
}
func (p Control) clone() Payload {
	p.YieldTypes = cloneIDs(p.YieldTypes)
	return p
}

// Terminators ----------------------------------------------------------------

// Let binds the results of Instruction to Variables and continues with Tail.
type Let struct {
	Instruction NodeID   `ir:"instruction"`
	Variables   []NodeID `ir:"variables"`
	Tail        NodeID   `ir:"tail"`
}

func (Let) Kind() Kind { return KindLet }
func (p Let) VisitFields(v FieldVisitor) {
	v.Node("instruction", p.Instruction)
	v.Nodes("variables", p.Variables)
	v.Node("tail", p.Tail)
}
func (p Let) clone() Payload {
	p.Variables = cloneIDs(p.Variables)
	return p
}

type Jump struct {
	Target NodeID   `ir:"target"`
	Args   []NodeID `ir:"args"`
}

func (Jump) Kind() Kind { return KindJump }
func (p Jump) VisitFields(v FieldVisitor) {
	v.Node("target", p.Target)
	v.Nodes("args", p.Args)
}
func (p Jump) clone() Payload {
	p.Args = cloneIDs(p.Args)
	return p
}

type Branch struct {
	Condition   NodeID   `ir:"condition"`
	TrueTarget  NodeID   `ir:"true_target"`
	FalseTarget NodeID   `ir:"false_target"`
	Args        []NodeID `ir:"args"`
}

func (Branch) Kind() Kind { return KindBranch }
func (p Branch) VisitFields(v FieldVisitor) {
	v.Node("condition", p.Condition)
	v.Node("true_target", p.TrueTarget)
	v.Node("false_target", p.FalseTarget)
	v.Nodes("args", p.Args)
}
func (p Branch) clone() Payload {
	p.Args = cloneIDs(p.Args)
	return p
}

type Return struct {
	Fn     NodeID   `ir:"fn"`
	Values []NodeID `ir:"values"`
}

func (Return) Kind() Kind { return KindReturn }
func (p Return) VisitFields(v FieldVisitor) {
	v.Node("fn", p.Fn)
	v.Nodes("values", p.Values)
}
func (p Return) clone() Payload {
	p.Values = cloneIDs(p.Values)
	return p
}

type Yield struct {
	Values []NodeID `ir:"values"`
}

func (Yield) Kind() Kind { return KindYield }
func (p Yield) VisitFields(v FieldVisitor) {
	v.Nodes("values", p.Values)
}
func (p Yield) clone() Payload {
	p.Values = cloneIDs(p.Values)
	return p
}

type MergeContinue struct {
	Values []NodeID `ir:"values"`
}

func (MergeContinue) Kind() Kind { return KindMergeContinue }
func (p MergeContinue) VisitFields(v FieldVisitor) {
	v.Nodes("values", p.Values)
}
func (p MergeContinue) clone() Payload {
	p.Values = cloneIDs(p.Values)
	return p
}

type MergeBreak struct {
	Values []NodeID `ir:"values"`
}

func (MergeBreak) Kind() Kind { return KindMergeBreak }
func (p MergeBreak) VisitFields(v FieldVisitor) {
	v.Nodes("values", p.Values)
}
func (p MergeBreak) clone() Payload {
	p.Values = cloneIDs(p.Values)
	return p
}

type TailCall struct {
	Target NodeID   `ir:"target"`
	Args   []NodeID `ir:"args"`
}

func (TailCall) Kind() Kind { return KindTailCall }
func (p TailCall) VisitFields(v FieldVisitor) {
	v.Node("target", p.Target)
	v.Nodes("args", p.Args)
}
func (p TailCall) clone() Payload {
	p.Args = cloneIDs(p.Args)
	return p
}

// Abstractions and declarations ----------------------------------------------

// Case is an anonymous block with parameters, used by structured control flow.
type Case struct {
	Params []NodeID `ir:"params"`
	Body   NodeID   `ir:"body"`
}

func (Case) Kind() Kind { return KindCase }
func (p Case) VisitFields(v FieldVisitor) {
	v.Nodes("params", p.Params)
	v.Node("body", p.Body)
}
func (p Case) clone() Payload {
	p.Params = cloneIDs(p.Params)
	return p
}

type BasicBlock struct {
	Name   source.StringID `ir:"name"`
	Params []NodeID        `ir:"params"`
	Fn     NodeID          `ir:"fn"`
	Body   NodeID          `ir:"body"`
}

func (BasicBlock) Kind() Kind { return KindBasicBlock }
func (p BasicBlock) VisitFields(v FieldVisitor) {
	v.String("name", p.Name)
	v.Nodes("params", p.Params)
	v.Node("fn", p.Fn)
	v.Node("body", p.Body)
}
func (p BasicBlock) clone() Payload {
	p.Params = cloneIDs(p.Params)
	return p
}
func (p BasicBlock) body() NodeID { return p.Body }
func (p BasicBlock) withBody(id NodeID) Payload {
	p.Body = id
	return p
}

type Function struct {
	Name        source.StringID `ir:"name"`
	Annotations []NodeID        `ir:"annotations"`
	Params      []NodeID        `ir:"params"`
	ReturnTypes []NodeID        `ir:"return_types"`
	Body        NodeID          `ir:"body"`
}

func (Function) Kind() Kind { return KindFunction }
func (p Function) VisitFields(v FieldVisitor) {
	v.String("name", p.Name)
	v.Nodes("annotations", p.Annotations)
	v.Nodes("params", p.Params)
	v.Nodes("return_types", p.ReturnTypes)
	v.Node("body", p.Body)
}
func (p Function) clone() Payload {
	p.Annotations = cloneIDs(p.Annotations)
	p.Params = cloneIDs(p.Params)
	p.ReturnTypes = cloneIDs(p.ReturnTypes)
	return p
}
func (p Function) body() NodeID { return p.Body }
func (p Function) withBody(id NodeID) Payload {
	p.Body = id
	return p
}

type Constant struct {
	Name        source.StringID `ir:"name"`
	Annotations []NodeID        `ir:"annotations"`
	TypeHint    NodeID          `ir:"type_hint"`
	Value       NodeID          `ir:"value"`
}

func (Constant) Kind() Kind { return KindConstant }
func (p Constant) VisitFields(v FieldVisitor) {
	v.String("name", p.Name)
	v.Nodes("annotations", p.Annotations)
	v.Node("type_hint", p.TypeHint)
	v.Node("value", p.Value)
}
func (p Constant) clone() Payload {
	p.Annotations = cloneIDs(p.Annotations)
	return p
}
func (p Constant) body() NodeID { return p.Value }
func (p Constant) withBody(id NodeID) Payload {
	p.Value = id
	return p
}

type GlobalVariable struct {
	Name         source.StringID `ir:"name"`
	Annotations  []NodeID        `ir:"annotations"`
	AddressSpace AddressSpace    `ir:"address_space"`
	Type         NodeID          `ir:"type"`
	Init         NodeID          `ir:"init"`
}

func (GlobalVariable) Kind() Kind { return KindGlobalVariable }
func (p GlobalVariable) VisitFields(v FieldVisitor) {
	v.String("name", p.Name)
	v.Nodes("annotations", p.Annotations)
	v.Enum("address_space", uint64(p.AddressSpace), p.AddressSpace.String())
	v.Node("type", p.Type)
	v.Node("init", p.Init)
}
func (p GlobalVariable) clone() Payload {
	p.Annotations = cloneIDs(p.Annotations)
	return p
}
func (p GlobalVariable) body() NodeID { return p.Init }
func (p GlobalVariable) withBody(id NodeID) Payload {
	p.Init = id
	return p
}

type NominalType struct {
	Name source.StringID `ir:"name"`
	Body NodeID          `ir:"body"`
}

func (NominalType) Kind() Kind { return KindNominalType }
func (p NominalType) VisitFields(v FieldVisitor) {
	v.String("name", p.Name)
	v.Node("body", p.Body)
}
func (p NominalType) body() NodeID { return p.Body }
func (p NominalType) withBody(id NodeID) Payload {
	p.Body = id
	return p
}

type Annotation struct {
	Name  source.StringID `ir:"name"`
	Value NodeID          `ir:"value"`
}

func (Annotation) Kind() Kind { return KindAnnotation }
func (p Annotation) VisitFields(v FieldVisitor) {
	v.String("name", p.Name)
	v.Node("value", p.Value)
}

type Root struct {
	Declarations []NodeID `ir:"declarations"`
}

func (Root) Kind() Kind { return KindRoot }
func (p Root) VisitFields(v FieldVisitor) {
	v.Nodes("declarations", p.Declarations)
}
func (p Root) clone() Payload {
	p.Declarations = cloneIDs(p.Declarations)
	return p
}
