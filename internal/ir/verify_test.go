package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifyCleanArena(t *testing.T) {
	a := newTestArena()
	buildAddOne(t, a)
	buildCountLoop(t, a)
	assert.Empty(t, Verify(a))
}

func TestVerifyDetectsCorruption(t *testing.T) {
	a := newTestArena()
	i32 := a.IntType(IntWidth32, true)
	a.IntType(IntWidth64, true)

	// Simulate a broken slot: same content as %1 under a different id.
	a.slots[2].node.Payload = Int{Width: IntWidth32, Signed: true}

	errs := Verify(a)
	assert.NotEmpty(t, errs)
	for _, e := range errs {
		assert.NotEqual(t, i32, e.ID)
		assert.Equal(t, CheckCanonical, e.Check)
	}
}
