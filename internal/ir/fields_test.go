package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shady/internal/source"
)

type nameRecorder struct{ names []string }

func (r *nameRecorder) Node(name string, _ NodeID) { r.names = append(r.names, name) }
func (r *nameRecorder) Nodes(name string, _ []NodeID) { r.names = append(r.names, name) }
func (r *nameRecorder) Uint(name string, _ uint64) { r.names = append(r.names, name) }
func (r *nameRecorder) Bool(name string, _ bool) { r.names = append(r.names, name) }
func (r *nameRecorder) String(name string, _ source.StringID) { r.names = append(r.names, name) }
func (r *nameRecorder) Strings(name string, _ []source.StringID) { r.names = append(r.names, name) }
func (r *nameRecorder) Enum(name string, _ uint64, _ string) { r.names = append(r.names, name) }

// Struct tags, visitor order and the classifier must agree for every kind.
func TestFieldTablesAgree(t *testing.T) {
	for _, k := range Kinds() {
		info := Info(k)
		if info.Proto == nil {
			assert.Empty(t, Fields(k), k.String())
			continue
		}
		assert.Equal(t, k, info.Proto.Kind(), "prototype of %s", k)

		var rec nameRecorder
		info.Proto.VisitFields(&rec)
		fields := Fields(k)
		require.Len(t, fields, len(rec.names), k.String())
		for i, f := range fields {
			assert.Equal(t, rec.names[i], f.Name, "%s field %d", k, i)
		}
		for _, name := range info.Relevant {
			_, ok := LookupField(k, name)
			assert.True(t, ok, "%s relevant field %q", k, name)
		}
		if info.Nominal {
			f, ok := LookupField(k, info.Body)
			require.True(t, ok, "%s body field %q", k, info.Body)
			assert.Equal(t, FieldNode, f.Type)
			_, isBodied := info.Proto.(bodied)
			assert.True(t, isBodied, k.String())
		}
	}
}

func TestKindNames(t *testing.T) {
	assert.Equal(t, "int_literal", KindIntLiteral.String())
	assert.Equal(t, "type_decl_ref", KindTypeDeclRef.String())
	assert.Equal(t, "merge_continue", KindMergeContinue.String())
	for _, k := range Kinds() {
		got, ok := LookupKind(k.String())
		require.True(t, ok, k.String())
		assert.Equal(t, k, got)
	}
	_, ok := LookupKind("nope")
	assert.False(t, ok)
}

func TestPayloadBuilder(t *testing.T) {
	a := newTestArena()
	i32 := a.IntType(IntWidth32, true)

	b := NewPayloadBuilder(KindPtrType)
	require.NotNil(t, b)
	require.NoError(t, b.SetEnum("address_space", "uniform"))
	require.NoError(t, b.SetNode("pointee", i32))
	assert.Equal(t, PtrType{AddressSpace: AsUniform, Pointee: i32}, b.Payload())

	assert.Error(t, b.SetEnum("address_space", "nowhere"))
	assert.Error(t, b.SetNode("missing", i32))
	assert.Error(t, b.SetBool("pointee", true))

	pack := NewPayloadBuilder(KindPackType)
	assert.Error(t, pack.SetUint("width", 1<<40))
	require.NoError(t, pack.SetUint("width", 4))

	assert.Nil(t, NewPayloadBuilder(KindUnit))
}

func TestMapPayload(t *testing.T) {
	p := Function{Name: 3, Params: []NodeID{1, 2}, ReturnTypes: []NodeID{5}, Body: 7}
	out := MapPayload(p, func(id NodeID) NodeID { return id + 100 }, func(s source.StringID) source.StringID { return s * 2 })
	assert.Equal(t, Function{Name: 6, Params: []NodeID{101, 102}, ReturnTypes: []NodeID{105}, Body: 107}, out)
	assert.Equal(t, []NodeID{1, 2}, p.Params, "input is not modified")
}
