package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewriteCopiesCyclicModule(t *testing.T) {
	src := newTestArena()
	fn := buildCountLoop(t, src)
	root := src.MustConstruct(KindRoot, Root{Declarations: []NodeID{fn}})

	dst := newTestArena()
	r := NewRewriter(src, dst, nil)
	newRoot, err := r.Rewrite(root)
	require.NoError(t, err)
	require.Empty(t, Verify(dst))

	rp, ok := PayloadAs[Root](dst, newRoot)
	require.True(t, ok)
	require.Len(t, rp.Declarations, 1)
	newFn := rp.Declarations[0]
	f, ok := PayloadAs[Function](dst, newFn)
	require.True(t, ok)
	assert.Equal(t, "count", dst.String(f.Name))
	assert.True(t, dst.HasBody(newFn))

	// Every block refers back to the copied function, once.
	blocks := 0
	for id, n := range dst.All() {
		if n.Kind != KindBasicBlock {
			continue
		}
		blocks++
		bb, _ := PayloadAs[BasicBlock](dst, id)
		assert.Equal(t, newFn, bb.Fn)
		assert.True(t, dst.HasBody(id))
	}
	assert.Equal(t, 3, blocks)
	assert.Equal(t, src.Len(), dst.Len())

	again, err := r.Rewrite(root)
	require.NoError(t, err)
	assert.Equal(t, newRoot, again)
}

func TestRewriteKeepsVariableIDsUnique(t *testing.T) {
	src := newTestArena()
	fn := buildAddOne(t, src)

	dst := newTestArena()
	_, err := NewRewriter(src, dst, nil).Rewrite(fn)
	require.NoError(t, err)

	var maxID uint64
	for _, n := range dst.All() {
		if v, ok := n.Payload.(Variable); ok && v.ID > maxID {
			maxID = v.ID
		}
	}
	assert.Greater(t, dst.FreshID(), maxID)
}

func TestRewriteHook(t *testing.T) {
	src := newTestArena()
	fn := buildAddOne(t, src)

	dst := newTestArena()
	// Replace every add by a sub.
	hook := func(r *Rewriter, id NodeID) (NodeID, bool, error) {
		op, ok := PayloadAs[PrimOp](r.Src(), id)
		if !ok || op.Op != OpAdd {
			return NoNodeID, false, nil
		}
		operands, err := r.RewriteAll(op.Operands)
		if err != nil {
			return NoNodeID, false, err
		}
		out, err := r.Dst().PrimOp(OpSub, nil, operands...)
		return out, true, err
	}
	_, err := NewRewriter(src, dst, hook).Rewrite(fn)
	require.NoError(t, err)

	var ops []Op
	for _, n := range dst.All() {
		if p, ok := n.Payload.(PrimOp); ok {
			ops = append(ops, p.Op)
		}
	}
	assert.Equal(t, []Op{OpSub}, ops)
}
