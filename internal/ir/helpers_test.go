package ir

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestArena() *Arena {
	return NewArena(DefaultConfig())
}

func requireInvariant(t *testing.T, fn func()) *InvariantError {
	t.Helper()
	var got *InvariantError
	func() {
		defer func() {
			r := recover()
			e, ok := r.(*InvariantError)
			require.Truef(t, ok, "expected *InvariantError panic, got %#v", r)
			got = e
		}()
		fn()
	}()
	return got
}

func mustID(t *testing.T) func(NodeID, error) NodeID {
	return func(id NodeID, err error) NodeID {
		t.Helper()
		require.NoError(t, err)
		require.True(t, id.IsValid())
		return id
	}
}

// buildAddOne builds `fn add_one(x: i32) -> i32 { let r = add(x, 1); return r }`.
func buildAddOne(t *testing.T, a *Arena) NodeID {
	t.Helper()
	i32 := a.IntType(IntWidth32, true)
	x := mustID(t)(a.NewVariable("x", i32))
	fn := mustID(t)(a.Construct(KindFunction, Function{
		Name:        a.Intern("add_one"),
		Params:      []NodeID{x},
		ReturnTypes: []NodeID{i32},
	}))
	one := mustID(t)(a.IntLiteral(IntWidth32, true, 1))
	sum := mustID(t)(a.PrimOp(OpAdd, nil, x, one))
	r := mustID(t)(a.NewVariable("r", i32))
	ret := mustID(t)(a.Construct(KindReturn, Return{Fn: fn, Values: []NodeID{r}}))
	let := mustID(t)(a.Construct(KindLet, Let{Instruction: sum, Variables: []NodeID{r}, Tail: ret}))
	require.NoError(t, a.SetBody(fn, let))
	return fn
}

// buildCountLoop builds a function whose blocks jump to each other:
//
//	fn count(n: i32) { jump header(0) }
//	header(i): let c = lt(i, n); branch(c, step, exit, i)
//	step(j):   let k = add(j, 1); jump header(k)
//	exit(e):   return
func buildCountLoop(t *testing.T, a *Arena) NodeID {
	t.Helper()
	i32 := a.IntType(IntWidth32, true)
	n := mustID(t)(a.NewVariable("n", i32))
	fn := mustID(t)(a.Construct(KindFunction, Function{Name: a.Intern("count"), Params: []NodeID{n}}))

	block := func(name string) (NodeID, NodeID) {
		p := mustID(t)(a.NewVariable(name+".p", i32))
		bb := mustID(t)(a.Construct(KindBasicBlock, BasicBlock{Name: a.Intern(name), Params: []NodeID{p}, Fn: fn}))
		return bb, p
	}
	header, i := block("header")
	step, j := block("step")
	exit, _ := block("exit")

	zero := mustID(t)(a.IntLiteral(IntWidth32, true, 0))
	entry := mustID(t)(a.Construct(KindJump, Jump{Target: header, Args: []NodeID{zero}}))
	require.NoError(t, a.SetBody(fn, entry))

	cmp := mustID(t)(a.PrimOp(OpLt, nil, i, n))
	c := mustID(t)(a.NewVariable("c", a.BoolType()))
	br := mustID(t)(a.Construct(KindBranch, Branch{Condition: c, TrueTarget: step, FalseTarget: exit, Args: []NodeID{i}}))
	require.NoError(t, a.SetBody(header, mustID(t)(a.Construct(KindLet, Let{Instruction: cmp, Variables: []NodeID{c}, Tail: br}))))

	one := mustID(t)(a.IntLiteral(IntWidth32, true, 1))
	inc := mustID(t)(a.PrimOp(OpAdd, nil, j, one))
	k := mustID(t)(a.NewVariable("k", i32))
	back := mustID(t)(a.Construct(KindJump, Jump{Target: header, Args: []NodeID{k}}))
	require.NoError(t, a.SetBody(step, mustID(t)(a.Construct(KindLet, Let{Instruction: inc, Variables: []NodeID{k}, Tail: back}))))

	require.NoError(t, a.SetBody(exit, mustID(t)(a.Construct(KindReturn, Return{Fn: fn}))))
	return fn
}
