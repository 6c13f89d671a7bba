package ir

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shady/internal/source"
)

func TestIntLiteralIsInterned(t *testing.T) {
	a := newTestArena()
	x := mustID(t)(a.IntLiteral(IntWidth32, true, 5))
	y := mustID(t)(a.IntLiteral(IntWidth32, true, 5))
	assert.Equal(t, x, y)

	n := a.Len()
	_ = mustID(t)(a.IntLiteral(IntWidth32, true, 5))
	assert.Equal(t, n, a.Len(), "a hit must not allocate")
}

func TestIntLiteralIdentityIncludesWidthAndSign(t *testing.T) {
	a := newTestArena()
	base := mustID(t)(a.IntLiteral(IntWidth32, true, 5))
	assert.NotEqual(t, base, mustID(t)(a.IntLiteral(IntWidth64, true, 5)))
	assert.NotEqual(t, base, mustID(t)(a.IntLiteral(IntWidth32, false, 5)))
	assert.NotEqual(t, base, mustID(t)(a.IntLiteral(IntWidth32, true, 6)))
}

func TestIntLiteralSpellingIsIgnored(t *testing.T) {
	a := newTestArena()
	hex := a.MustConstruct(KindIntLiteral, IntLiteral{Width: IntWidth32, Value: 16, Spelling: a.Intern("0x10")})
	dec := a.MustConstruct(KindIntLiteral, IntLiteral{Width: IntWidth32, Value: 16, Spelling: a.Intern("16")})
	assert.Equal(t, hex, dec)

	lit, ok := PayloadAs[IntLiteral](a, hex)
	require.True(t, ok)
	assert.Equal(t, "0x10", a.String(lit.Spelling), "first construction wins")
}

func TestVariablesWithSameNameAreDistinct(t *testing.T) {
	a := newTestArena()
	i32 := a.IntType(IntWidth32, true)
	x1 := mustID(t)(a.NewVariable("x", i32))
	x2 := mustID(t)(a.NewVariable("x", i32))
	assert.NotEqual(t, x1, x2)
	assert.Equal(t, a.TypeOf(x1), a.TypeOf(x2))
}

func TestVariableIdentityIsItsID(t *testing.T) {
	a := newTestArena()
	i32 := a.IntType(IntWidth32, true)
	f32 := a.FloatType(FloatWidth32)
	id := a.FreshID()
	v1 := a.MustConstruct(KindVariable, Variable{Type: i32, Name: a.Intern("a"), ID: id})
	v2 := a.MustConstruct(KindVariable, Variable{Type: f32, Name: a.Intern("b"), ID: id})
	assert.Equal(t, v1, v2)
}

func TestPointerTypesAreStructural(t *testing.T) {
	a := newTestArena()
	i32 := a.IntType(IntWidth32, true)
	f32 := a.FloatType(FloatWidth32)

	p1 := a.MustConstruct(KindPtrType, PtrType{AddressSpace: AsGlobal, Pointee: i32})
	p2 := a.MustConstruct(KindPtrType, PtrType{AddressSpace: AsGlobal, Pointee: i32})
	p3 := a.MustConstruct(KindPtrType, PtrType{AddressSpace: AsGlobal, Pointee: f32})
	p4 := a.MustConstruct(KindPtrType, PtrType{AddressSpace: AsPrivate, Pointee: i32})

	assert.Equal(t, p1, p2)
	assert.NotEqual(t, p1, p3)
	assert.NotEqual(t, p1, p4)
}

func TestRecordOfSeparatelyBuiltMembers(t *testing.T) {
	a := newTestArena()
	m1 := a.MustConstruct(KindInt, Int{Width: IntWidth32, Signed: true})
	m2 := a.MustConstruct(KindInt, Int{Width: IntWidth32, Signed: true})
	r1 := a.MustConstruct(KindRecordType, RecordType{Members: []NodeID{m1, m1}})
	r2 := a.MustConstruct(KindRecordType, RecordType{Members: []NodeID{m2, m2}})
	assert.Equal(t, r1, r2)

	named := a.MustConstruct(KindRecordType, RecordType{
		Members: []NodeID{m1, m1},
		Names:   []source.StringID{a.Intern("x"), a.Intern("y")},
	})
	assert.NotEqual(t, r1, named)
}

func TestIllTypedAddIsRejected(t *testing.T) {
	a := newTestArena()
	i := mustID(t)(a.IntLiteral(IntWidth32, true, 1))
	f := a.MustConstruct(KindFloatLiteral, FloatLiteral{Width: FloatWidth32, Bits: 0x3f800000})
	before := a.Len()

	id, err := a.PrimOp(OpAdd, nil, i, f)
	require.Error(t, err)
	assert.Equal(t, NoNodeID, id)

	var te *TypeError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, KindPrimOp, te.Kind)
	assert.Equal(t, before, a.Len(), "a failed construction allocates nothing")
}

func TestNominalNodesAreDistinct(t *testing.T) {
	a := newTestArena()
	name := a.Intern("main")
	f1 := a.MustConstruct(KindFunction, Function{Name: name})
	f2 := a.MustConstruct(KindFunction, Function{Name: name})
	assert.NotEqual(t, f1, f2)
	assert.True(t, KindFunction.IsNominal())
	assert.False(t, KindPtrType.IsNominal())
	assert.Equal(t, 2, a.Stats().Nominal)
}

func TestConstructionIsConfluent(t *testing.T) {
	a := newTestArena()
	// Build the same record from children interned in opposite orders.
	f32 := a.FloatType(FloatWidth32)
	i64 := a.IntType(IntWidth64, false)
	r1 := a.RecordOf(i64, f32)

	b := newTestArena()
	i64b := b.IntType(IntWidth64, false)
	f32b := b.FloatType(FloatWidth32)
	r2 := b.RecordOf(i64b, f32b)

	p1, _ := PayloadAs[RecordType](a, r1)
	p2, _ := PayloadAs[RecordType](b, r2)
	require.Len(t, p2.Members, len(p1.Members))
	for i := range p1.Members {
		assert.Equal(t, a.Payload(p1.Members[i]), b.Payload(p2.Members[i]))
	}
	assert.Equal(t, r1, a.RecordOf(a.IntType(IntWidth64, false), a.FloatType(FloatWidth32)))
}

func TestTypeIsFixedAtConstruction(t *testing.T) {
	a := newTestArena()
	i32 := a.IntType(IntWidth32, true)
	f32 := a.FloatType(FloatWidth32)

	members := []NodeID{i32}
	r := a.RecordOf(members...)
	members[0] = f32
	got, ok := PayloadAs[RecordType](a, r)
	require.True(t, ok)
	assert.Equal(t, []NodeID{i32}, got.Members, "payload slices are copied")

	lit := mustID(t)(a.IntLiteral(IntWidth32, true, 7))
	typ := a.TypeOf(lit)
	buildAddOne(t, a)
	assert.Equal(t, typ, a.TypeOf(lit))
	assert.Equal(t, i32, typ)
}

func TestArenasAreIsolated(t *testing.T) {
	a := newTestArena()
	b := newTestArena()
	i32 := a.IntType(IntWidth32, true)

	assert.True(t, a.Owns(i32))
	assert.False(t, b.Owns(i32))

	e := requireInvariant(t, func() {
		b.MustConstruct(KindPtrType, PtrType{AddressSpace: AsGlobal, Pointee: i32})
	})
	assert.Contains(t, e.Msg, "another arena")

	requireInvariant(t, func() { b.Kind(i32) })

	b.MustConstruct(KindPtrType, PtrType{AddressSpace: AsGlobal, Pointee: b.IntType(IntWidth8, false)})
	b.Destroy()
	assert.Equal(t, KindInt, a.Kind(i32))
	assert.Equal(t, i32, a.IntType(IntWidth32, true))
	lit := mustID(t)(a.IntLiteral(IntWidth32, true, 5))
	assert.Equal(t, i32, a.TypeOf(lit))
	assert.Empty(t, Verify(a))
}

func TestRejectedPayloadCreatesNoNode(t *testing.T) {
	a := newTestArena()
	one := mustID(t)(a.IntLiteral(IntWidth32, true, 1))
	_, err := a.Construct(KindIf, If{Condition: one})
	var te *TypeError
	require.ErrorAs(t, err, &te)
	for _, n := range a.All() {
		assert.NotEqual(t, KindIf, n.Kind)
	}
}

func TestVariableIDBounds(t *testing.T) {
	a := newTestArena()
	a.ReserveID(MaxVariableID)
	v := mustID(t)(a.NewVariable("v", a.BoolType()))
	got, ok := PayloadAs[Variable](a, v)
	require.True(t, ok)
	assert.Equal(t, MaxVariableID+1, got.ID)

	a.ReserveID(math.MaxUint64)
	e := requireInvariant(t, func() { a.FreshID() })
	assert.Contains(t, e.Msg, "exhausted")
}

func TestDestroyedArenaPanics(t *testing.T) {
	a := newTestArena()
	i32 := a.IntType(IntWidth32, true)
	a.Destroy()
	assert.True(t, a.Destroyed())
	requireInvariant(t, func() { a.Kind(i32) })
	requireInvariant(t, func() { a.IntType(IntWidth32, true) })
	requireInvariant(t, func() { a.FreshID() })
	a.Destroy()
}

func TestConstructRejectsMalformedPayloads(t *testing.T) {
	a := newTestArena()
	requireInvariant(t, func() { _, _ = a.Construct(kindCount, nil) })
	requireInvariant(t, func() { _, _ = a.Construct(KindInt, nil) })
	requireInvariant(t, func() { _, _ = a.Construct(KindUnit, Int{Width: IntWidth8}) })
	requireInvariant(t, func() { _, _ = a.Construct(KindFloat, Int{Width: IntWidth8}) })
	requireInvariant(t, func() { _, _ = a.Construct(KindVariable, Variable{Type: a.BoolType()}) })
	requireInvariant(t, func() {
		_, _ = a.Construct(KindRecordType, RecordType{Members: []NodeID{NoNodeID}})
	})
}

func TestSetBody(t *testing.T) {
	a := newTestArena()
	i32 := a.IntType(IntWidth32, true)
	five := mustID(t)(a.IntLiteral(IntWidth32, true, 5))
	c := a.MustConstruct(KindConstant, Constant{Name: a.Intern("five"), TypeHint: i32})

	assert.False(t, a.HasBody(c))
	require.NoError(t, a.SetBody(c, five))
	assert.True(t, a.HasBody(c))
	got, _ := PayloadAs[Constant](a, c)
	assert.Equal(t, five, got.Value)

	requireInvariant(t, func() { _ = a.SetBody(c, five) })
	requireInvariant(t, func() { _ = a.SetBody(i32, five) })
}

func TestSetBodyTypeMismatch(t *testing.T) {
	a := newTestArena()
	i32 := a.IntType(IntWidth32, true)
	yes := a.True()
	c := a.MustConstruct(KindConstant, Constant{Name: a.Intern("c"), TypeHint: i32})

	err := a.SetBody(c, yes)
	var te *TypeError
	require.ErrorAs(t, err, &te)
	assert.False(t, a.HasBody(c), "a rejected body is not attached")
	require.NoError(t, a.SetBody(c, mustID(t)(a.IntLiteral(IntWidth32, true, 1))))
}

func TestBodyAtConstruction(t *testing.T) {
	a := newTestArena()
	i32 := a.IntType(IntWidth32, true)
	one := mustID(t)(a.IntLiteral(IntWidth32, true, 1))
	g := a.MustConstruct(KindGlobalVariable, GlobalVariable{
		Name: a.Intern("g"), AddressSpace: AsPrivate, Type: i32, Init: one,
	})
	assert.True(t, a.HasBody(g))
	assert.Equal(t, a.PtrType(AsPrivate, i32), a.TypeOf(g))
	requireInvariant(t, func() { _ = a.SetBody(g, one) })
}

func TestFreshAndReservedIDs(t *testing.T) {
	a := newTestArena()
	assert.Equal(t, uint64(1), a.FreshID())
	a.ReserveID(41)
	assert.Equal(t, uint64(42), a.FreshID())
	a.ReserveID(3)
	assert.Equal(t, uint64(43), a.FreshID())
}

func TestTableStats(t *testing.T) {
	a := newTestArena()
	a.IntType(IntWidth32, true)
	a.IntType(IntWidth32, true)
	a.IntType(IntWidth16, true)
	s := a.Stats()
	assert.Equal(t, 2, s.Entries)
	assert.Equal(t, uint64(1), s.Hits)
	assert.Equal(t, uint64(2), s.Misses)
	assert.GreaterOrEqual(t, s.LongestChain, 1)
}

func TestUncheckedArenaSkipsTyping(t *testing.T) {
	a := NewArena(Config{CheckTypes: false})
	i := mustID(t)(a.IntLiteral(IntWidth32, true, 1))
	f := a.MustConstruct(KindFloatLiteral, FloatLiteral{Width: FloatWidth32})
	add, err := a.PrimOp(OpAdd, nil, i, f)
	require.NoError(t, err)
	assert.Equal(t, NoNodeID, a.TypeOf(add))
	assert.Equal(t, IntWidth32, a.Config().IntWidth)
}

func TestMustConstructPanicsOnTypeError(t *testing.T) {
	a := newTestArena()
	defer func() {
		err, ok := recover().(error)
		require.True(t, ok)
		var te *TypeError
		assert.True(t, errors.As(err, &te))
	}()
	a.MustConstruct(KindIntLiteral, IntLiteral{Width: IntWidth8, Value: 256})
}

func TestAllAndOperands(t *testing.T) {
	a := newTestArena()
	fn := buildAddOne(t, a)

	count := 0
	for id, n := range a.All() {
		count++
		assert.Equal(t, n.Kind, a.Kind(id))
	}
	assert.Equal(t, a.Len(), count)

	var fields []string
	for op := range a.Operands(fn) {
		fields = append(fields, op.Field)
	}
	assert.Equal(t, []string{"params", "return_types", "body"}, fields)
}
