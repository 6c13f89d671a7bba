package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireTypeError(t *testing.T, err error, kind Kind) *TypeError {
	t.Helper()
	var te *TypeError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, kind, te.Kind)
	return te
}

func TestArithmeticAndComparison(t *testing.T) {
	a := newTestArena()
	i32 := a.IntType(IntWidth32, true)
	x := mustID(t)(a.IntLiteral(IntWidth32, true, 2))
	y := mustID(t)(a.IntLiteral(IntWidth32, true, 3))

	sum := mustID(t)(a.PrimOp(OpMul, nil, x, y))
	assert.Equal(t, i32, a.TypeOf(sum))

	lt := mustID(t)(a.PrimOp(OpLt, nil, x, y))
	assert.Equal(t, a.BoolType(), a.TypeOf(lt))

	_, err := a.PrimOp(OpAdd, nil, x)
	te := requireTypeError(t, err, KindPrimOp)
	assert.Contains(t, te.Msg, "takes 2 operands")

	_, err = a.PrimOp(OpAdd, nil, x, a.True())
	requireTypeError(t, err, KindPrimOp)

	_, err = a.PrimOp(OpMod, nil, a.MustConstruct(KindFloatLiteral, FloatLiteral{Width: FloatWidth32}),
		a.MustConstruct(KindFloatLiteral, FloatLiteral{Width: FloatWidth32}))
	requireTypeError(t, err, KindPrimOp)

	_, err = a.PrimOp(OpInvalid, nil)
	requireTypeError(t, err, KindPrimOp)

	// Shifts do not require matching widths.
	amount := mustID(t)(a.IntLiteral(IntWidth8, false, 1))
	shl := mustID(t)(a.PrimOp(OpLshift, nil, x, amount))
	assert.Equal(t, i32, a.TypeOf(shl))
}

func TestOperandMustBeValue(t *testing.T) {
	a := newTestArena()
	i32 := a.IntType(IntWidth32, true)
	_, err := a.PrimOp(OpNeg, nil, i32)
	te := requireTypeError(t, err, KindPrimOp)
	assert.Contains(t, te.Msg, "must be a value")
}

func TestSelect(t *testing.T) {
	a := newTestArena()
	x := mustID(t)(a.IntLiteral(IntWidth32, true, 1))
	y := mustID(t)(a.IntLiteral(IntWidth32, true, 2))
	sel := mustID(t)(a.PrimOp(OpSelect, nil, a.True(), x, y))
	assert.Equal(t, a.TypeOf(x), a.TypeOf(sel))

	_, err := a.PrimOp(OpSelect, nil, a.True(), x, a.False())
	requireTypeError(t, err, KindPrimOp)
	_, err = a.PrimOp(OpSelect, nil, x, x, y)
	requireTypeError(t, err, KindPrimOp)
}

func TestMemoryOps(t *testing.T) {
	a := newTestArena()
	f32 := a.FloatType(FloatWidth32)

	slot := mustID(t)(a.PrimOp(OpAlloca, []NodeID{f32}))
	ptrT := a.PtrType(AsFunction, f32)
	assert.Equal(t, ptrT, a.TypeOf(slot))

	ptr := mustID(t)(a.NewVariable("p", ptrT))
	load := mustID(t)(a.PrimOp(OpLoad, nil, ptr))
	assert.Equal(t, f32, a.TypeOf(load))

	one := a.MustConstruct(KindFloatLiteral, FloatLiteral{Width: FloatWidth32, Bits: 0x3f800000})
	store := mustID(t)(a.PrimOp(OpStore, nil, ptr, one))
	assert.Equal(t, a.UnitType(), a.TypeOf(store))

	_, err := a.PrimOp(OpStore, nil, ptr, mustID(t)(a.IntLiteral(IntWidth32, true, 1)))
	te := requireTypeError(t, err, KindPrimOp)
	assert.Contains(t, te.Msg, "store")

	_, err = a.PrimOp(OpLoad, nil, one)
	requireTypeError(t, err, KindPrimOp)

	_, err = a.PrimOp(OpAlloca, nil)
	requireTypeError(t, err, KindPrimOp)
}

func TestConvertAndReinterpret(t *testing.T) {
	a := newTestArena()
	f32 := a.FloatType(FloatWidth32)
	x := mustID(t)(a.IntLiteral(IntWidth32, true, 3))

	conv := mustID(t)(a.PrimOp(OpConvert, []NodeID{f32}, x))
	assert.Equal(t, f32, a.TypeOf(conv))

	ptr := a.PtrType(AsGeneric, f32)
	_, err := a.PrimOp(OpConvert, []NodeID{ptr}, x)
	requireTypeError(t, err, KindPrimOp)

	re := mustID(t)(a.PrimOp(OpReinterpret, []NodeID{ptr}, x))
	assert.Equal(t, ptr, a.TypeOf(re))
}

func TestExtractAndInsert(t *testing.T) {
	a := newTestArena()
	i32 := a.IntType(IntWidth32, true)
	f32 := a.FloatType(FloatWidth32)
	rec := a.RecordOf(i32, f32)

	v := mustID(t)(a.NewVariable("v", rec))
	idx1 := mustID(t)(a.IntLiteral(IntWidth32, false, 1))
	ext := mustID(t)(a.PrimOp(OpExtract, nil, v, idx1))
	assert.Equal(t, f32, a.TypeOf(ext))

	val := a.MustConstruct(KindFloatLiteral, FloatLiteral{Width: FloatWidth32})
	ins := mustID(t)(a.PrimOp(OpInsert, nil, v, val, idx1))
	assert.Equal(t, rec, a.TypeOf(ins))

	idx0 := mustID(t)(a.IntLiteral(IntWidth32, false, 0))
	_, err := a.PrimOp(OpInsert, nil, v, val, idx0)
	requireTypeError(t, err, KindPrimOp)

	idx5 := mustID(t)(a.IntLiteral(IntWidth32, false, 5))
	_, err = a.PrimOp(OpExtract, nil, v, idx5)
	requireTypeError(t, err, KindPrimOp)

	_, err = a.PrimOp(OpExtract, nil, v)
	requireTypeError(t, err, KindPrimOp)
}

func TestPackArithmetic(t *testing.T) {
	a := newTestArena()
	f32 := a.FloatType(FloatWidth32)
	vec4 := a.MustConstruct(KindPackType, PackType{ElementType: f32, Width: 4})
	v := mustID(t)(a.NewVariable("v", vec4))
	sum := mustID(t)(a.PrimOp(OpAdd, nil, v, v))
	assert.Equal(t, vec4, a.TypeOf(sum))

	zero := a.MustConstruct(KindFloatLiteral, FloatLiteral{Width: FloatWidth32})
	fill := mustID(t)(a.Construct(KindFill, Fill{Type: vec4, Value: zero}))
	assert.Equal(t, vec4, a.TypeOf(fill))

	_, err := a.Construct(KindComposite, Composite{Type: vec4, Contents: []NodeID{zero, zero}})
	requireTypeError(t, err, KindComposite)
	comp := mustID(t)(a.Construct(KindComposite, Composite{Type: vec4, Contents: []NodeID{zero, zero, zero, zero}}))
	assert.Equal(t, vec4, a.TypeOf(comp))
}

func TestQualifiedTypesCompareUnqualified(t *testing.T) {
	a := newTestArena()
	i32 := a.IntType(IntWidth32, true)
	uni := a.MustConstruct(KindQualifiedType, QualifiedType{IsUniform: true, Type: i32})
	u := mustID(t)(a.NewVariable("u", uni))
	x := mustID(t)(a.IntLiteral(IntWidth32, true, 1))
	sum := mustID(t)(a.PrimOp(OpAdd, nil, u, x))
	assert.Equal(t, uni, a.TypeOf(sum))

	_, err := a.Construct(KindQualifiedType, QualifiedType{Type: uni})
	requireTypeError(t, err, KindQualifiedType)
}

func TestCalls(t *testing.T) {
	a := newTestArena()
	fn := buildAddOne(t, a)
	i32 := a.IntType(IntWidth32, true)

	addr := a.MustConstruct(KindFnAddr, FnAddr{Fn: fn})
	assert.Equal(t, a.PtrType(AsProgramCode, a.FnTypeOf([]NodeID{i32}, []NodeID{i32})), a.TypeOf(addr))

	arg := mustID(t)(a.IntLiteral(IntWidth32, true, 41))
	call := mustID(t)(a.Construct(KindCall, Call{Callee: addr, Args: []NodeID{arg}}))
	assert.Equal(t, i32, a.TypeOf(call))

	_, err := a.Construct(KindCall, Call{Callee: addr})
	te := requireTypeError(t, err, KindCall)
	assert.Contains(t, te.Msg, "expected 1 arguments")

	_, err = a.Construct(KindCall, Call{Callee: arg})
	requireTypeError(t, err, KindCall)
}

func TestMultipleResults(t *testing.T) {
	a := newTestArena()
	i32 := a.IntType(IntWidth32, true)
	f32 := a.FloatType(FloatWidth32)
	fn := a.MustConstruct(KindFunction, Function{Name: a.Intern("pair"), ReturnTypes: []NodeID{i32, f32}})
	call := mustID(t)(a.Construct(KindCall, Call{Callee: a.MustConstruct(KindFnAddr, FnAddr{Fn: fn})}))

	rt, ok := PayloadAs[RecordType](a, a.TypeOf(call))
	require.True(t, ok)
	assert.Equal(t, RecordMultipleReturn, rt.Special)
	assert.Equal(t, []NodeID{i32, f32}, rt.Members)

	x := mustID(t)(a.NewVariable("x", i32))
	y := mustID(t)(a.NewVariable("y", f32))
	tail := a.MustConstruct(KindUnreachable, nil)
	let := mustID(t)(a.Construct(KindLet, Let{Instruction: call, Variables: []NodeID{x, y}, Tail: tail}))
	assert.Equal(t, a.NoRetType(), a.TypeOf(let))

	_, err := a.Construct(KindLet, Let{Instruction: call, Variables: []NodeID{x}, Tail: tail})
	requireTypeError(t, err, KindLet)
	_, err = a.Construct(KindLet, Let{Instruction: call, Variables: []NodeID{y, x}, Tail: tail})
	requireTypeError(t, err, KindLet)
}

func TestStructuredControlFlow(t *testing.T) {
	a := newTestArena()
	i32 := a.IntType(IntWidth32, true)
	one := mustID(t)(a.IntLiteral(IntWidth32, true, 1))
	two := mustID(t)(a.IntLiteral(IntWidth32, true, 2))

	thenCase := a.MustConstruct(KindCase, Case{Body: a.MustConstruct(KindYield, Yield{Values: []NodeID{one}})})
	elseCase := a.MustConstruct(KindCase, Case{Body: a.MustConstruct(KindYield, Yield{Values: []NodeID{two}})})

	ifn := mustID(t)(a.Construct(KindIf, If{YieldTypes: []NodeID{i32}, Condition: a.True(), IfTrue: thenCase, IfFalse: elseCase}))
	assert.Equal(t, i32, a.TypeOf(ifn))

	_, err := a.Construct(KindIf, If{YieldTypes: []NodeID{i32}, Condition: a.True(), IfTrue: thenCase})
	requireTypeError(t, err, KindIf)
	_, err = a.Construct(KindIf, If{Condition: one, IfTrue: thenCase})
	requireTypeError(t, err, KindIf)

	m := mustID(t)(a.Construct(KindMatch, Match{
		Inspect:  two,
		Literals: []NodeID{one},
		Cases:    []NodeID{thenCase},
		Default:  elseCase,
	}))
	assert.Equal(t, a.UnitType(), a.TypeOf(m))

	p := mustID(t)(a.NewVariable("i", i32))
	body := a.MustConstruct(KindCase, Case{Params: []NodeID{p}, Body: a.MustConstruct(KindMergeBreak, MergeBreak{})})
	loop := mustID(t)(a.Construct(KindLoop, Loop{Params: []NodeID{p}, Body: body, InitialArgs: []NodeID{one}}))
	assert.Equal(t, a.UnitType(), a.TypeOf(loop))
	_, err = a.Construct(KindLoop, Loop{Params: []NodeID{p}, Body: body})
	requireTypeError(t, err, KindLoop)

	ctrl := mustID(t)(a.Construct(KindControl, Control{Inside: body}))
	assert.Equal(t, a.UnitType(), a.TypeOf(ctrl))
}

func TestBlocksAndBranches(t *testing.T) {
	a := newTestArena()
	fn := buildCountLoop(t, a)
	assert.True(t, a.HasBody(fn))

	// Jumping with the wrong argument count is rejected.
	bb := a.MustConstruct(KindBasicBlock, BasicBlock{Name: a.Intern("b"), Fn: fn})
	_, err := a.Construct(KindJump, Jump{Target: bb, Args: []NodeID{mustID(t)(a.IntLiteral(IntWidth32, true, 0))}})
	requireTypeError(t, err, KindJump)

	cont, ok := PayloadAs[FnType](a, a.TypeOf(bb))
	require.True(t, ok)
	assert.True(t, cont.IsContinuation)

	_, err = a.Construct(KindReturn, Return{Fn: bb})
	requireTypeError(t, err, KindReturn)
}

func TestDeclarations(t *testing.T) {
	a := newTestArena()
	i32 := a.IntType(IntWidth32, true)

	c := a.MustConstruct(KindConstant, Constant{Name: a.Intern("k"), TypeHint: i32})
	ref := mustID(t)(a.Construct(KindRefDecl, RefDecl{Decl: c}))
	assert.Equal(t, i32, a.TypeOf(ref))

	untyped := a.MustConstruct(KindConstant, Constant{Name: a.Intern("u")})
	_, err := a.Construct(KindRefDecl, RefDecl{Decl: untyped})
	requireTypeError(t, err, KindRefDecl)

	nt := a.MustConstruct(KindNominalType, NominalType{Name: a.Intern("S")})
	require.NoError(t, a.SetBody(nt, a.RecordOf(i32)))
	ref2 := a.MustConstruct(KindTypeDeclRef, TypeDeclRef{Decl: nt})
	assert.Equal(t, ref2, a.MustConstruct(KindTypeDeclRef, TypeDeclRef{Decl: nt}))

	other := a.MustConstruct(KindNominalType, NominalType{Name: a.Intern("S")})
	assert.NotEqual(t, ref2, a.MustConstruct(KindTypeDeclRef, TypeDeclRef{Decl: other}))
	assert.Error(t, a.SetBody(other, mustID(t)(a.IntLiteral(IntWidth32, true, 0))))

	ann := a.MustConstruct(KindAnnotation, Annotation{Name: a.Intern("EntryPoint"), Value: a.MustConstruct(KindStringLiteral, StringLiteral{Value: a.Intern("compute")})})
	fn := a.MustConstruct(KindFunction, Function{Name: a.Intern("main"), Annotations: []NodeID{ann}})
	root := mustID(t)(a.Construct(KindRoot, Root{Declarations: []NodeID{c, nt, fn}}))
	assert.Equal(t, NoNodeID, a.TypeOf(root))

	_, err = a.Construct(KindRoot, Root{Declarations: []NodeID{i32}})
	requireTypeError(t, err, KindRoot)
}

func TestLiteralRanges(t *testing.T) {
	a := newTestArena()
	_, err := a.IntLiteral(IntWidth8, false, 255)
	require.NoError(t, err)
	_, err = a.IntLiteral(IntWidth8, false, 256)
	requireTypeError(t, err, KindIntLiteral)
	_, err = a.IntLiteral(IntWidth64, true, ^uint64(0))
	require.NoError(t, err)
	_, err = a.Construct(KindFloatLiteral, FloatLiteral{Width: FloatWidth16, Bits: 0x10000})
	requireTypeError(t, err, KindFloatLiteral)
	_, err = a.Construct(KindInt, Int{Width: 9})
	requireTypeError(t, err, KindInt)
}

func TestStringAndNullLiterals(t *testing.T) {
	a := newTestArena()
	s := a.MustConstruct(KindStringLiteral, StringLiteral{Value: a.Intern("hi")})
	assert.Equal(t, a.PtrType(AsGeneric, a.IntType(IntWidth8, false)), a.TypeOf(s))

	ptr := a.PtrType(AsGlobal, a.BoolType())
	null := a.MustConstruct(KindNullPtr, NullPtr{PtrType: ptr})
	assert.Equal(t, ptr, a.TypeOf(null))
	_, err := a.Construct(KindNullPtr, NullPtr{PtrType: a.BoolType()})
	requireTypeError(t, err, KindNullPtr)
}

func TestSignatureTableCoversEveryOp(t *testing.T) {
	for op := OpInvalid + 1; op < opCount; op++ {
		sig, ok := SignatureOf(op)
		require.True(t, ok, op.String())
		assert.NotEqual(t, OpResultUnknown, sig.Result, op.String())

		var parsed Op
		require.NoError(t, parsed.UnmarshalText([]byte(op.String())))
		assert.Equal(t, op, parsed)
	}
}
