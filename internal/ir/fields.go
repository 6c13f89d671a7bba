package ir

import (
	"encoding"
	"fmt"
	"iter"
	"reflect"

	"shady/internal/source"
)

// FieldType classifies a payload field for generic consumers.
type FieldType uint8

const (
	FieldNode FieldType = iota + 1
	FieldNodes
	FieldString
	FieldStrings
	FieldBool
	FieldUint
	FieldEnum
)

func (t FieldType) String() string {
	switch t {
	case FieldNode:
		return "node"
	case FieldNodes:
		return "node list"
	case FieldString:
		return "string"
	case FieldStrings:
		return "string list"
	case FieldBool:
		return "bool"
	case FieldUint:
		return "integer"
	case FieldEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// FieldInfo describes one payload field.
type FieldInfo struct {
	Name string
	Type FieldType

	index int
}

var (
	nodeIDType      = reflect.TypeFor[NodeID]()
	nodeIDsType     = reflect.TypeFor[[]NodeID]()
	stringIDType    = reflect.TypeFor[source.StringID]()
	stringIDsType   = reflect.TypeFor[[]source.StringID]()
	unmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

var shapes [kindCount][]FieldInfo

// buildShapes derives field layouts from the classifier prototypes.
func buildShapes() {
	for k := KindInvalid + 1; k < kindCount; k++ {
		proto := kindTable[k].Proto
		if proto == nil {
			continue
		}
		rt := reflect.TypeOf(proto)
		fields := make([]FieldInfo, 0, rt.NumField())
		for i := range rt.NumField() {
			f := rt.Field(i)
			name := f.Tag.Get("ir")
			if name == "" {
				panic(fmt.Sprintf("ir: %s.%s has no ir tag", rt.Name(), f.Name))
			}
			fields = append(fields, FieldInfo{Name: name, Type: classifyField(f.Type), index: i})
		}
		shapes[k] = fields
	}
}

func classifyField(t reflect.Type) FieldType {
	switch {
	case t == nodeIDType:
		return FieldNode
	case t == nodeIDsType:
		return FieldNodes
	case t == stringIDType:
		return FieldString
	case t == stringIDsType:
		return FieldStrings
	case t.Kind() == reflect.Bool:
		return FieldBool
	case reflect.PointerTo(t).Implements(unmarshalerType):
		return FieldEnum
	case t.Kind() >= reflect.Uint8 && t.Kind() <= reflect.Uint64:
		return FieldUint
	}
	panic(fmt.Sprintf("ir: unsupported payload field type %s", t))
}

// Fields lists the payload fields of k in declaration order.
func Fields(k Kind) []FieldInfo {
	if !k.Valid() {
		return nil
	}
	return shapes[k]
}

// LookupField finds a field of k by name.
func LookupField(k Kind, name string) (FieldInfo, bool) {
	for _, f := range Fields(k) {
		if f.Name == name {
			return f, true
		}
	}
	return FieldInfo{}, false
}

// PayloadBuilder assembles a payload field by field.
type PayloadBuilder struct {
	kind Kind
	v    reflect.Value
}

// NewPayloadBuilder starts an empty payload of kind k. It returns nil for
// kinds without fields.
func NewPayloadBuilder(k Kind) *PayloadBuilder {
	if !k.HasPayload() {
		return nil
	}
	v := reflect.New(reflect.TypeOf(kindTable[k].Proto)).Elem()
	return &PayloadBuilder{kind: k, v: v}
}

func (b *PayloadBuilder) field(name string, want FieldType) (reflect.Value, error) {
	f, ok := LookupField(b.kind, name)
	if !ok {
		return reflect.Value{}, fmt.Errorf("%s has no field %q", b.kind, name)
	}
	if f.Type != want {
		return reflect.Value{}, fmt.Errorf("%s.%s is a %s, not a %s", b.kind, name, f.Type, want)
	}
	return b.v.Field(f.index), nil
}

func (b *PayloadBuilder) SetNode(name string, id NodeID) error {
	fv, err := b.field(name, FieldNode)
	if err != nil {
		return err
	}
	fv.SetUint(uint64(id))
	return nil
}

func (b *PayloadBuilder) SetNodes(name string, ids []NodeID) error {
	fv, err := b.field(name, FieldNodes)
	if err != nil {
		return err
	}
	fv.Set(reflect.ValueOf(ids))
	return nil
}

func (b *PayloadBuilder) SetString(name string, id source.StringID) error {
	fv, err := b.field(name, FieldString)
	if err != nil {
		return err
	}
	fv.SetUint(uint64(id))
	return nil
}

func (b *PayloadBuilder) SetStrings(name string, ids []source.StringID) error {
	fv, err := b.field(name, FieldStrings)
	if err != nil {
		return err
	}
	fv.Set(reflect.ValueOf(ids))
	return nil
}

func (b *PayloadBuilder) SetBool(name string, v bool) error {
	fv, err := b.field(name, FieldBool)
	if err != nil {
		return err
	}
	fv.SetBool(v)
	return nil
}

func (b *PayloadBuilder) SetUint(name string, v uint64) error {
	fv, err := b.field(name, FieldUint)
	if err != nil {
		return err
	}
	if fv.OverflowUint(v) {
		return fmt.Errorf("%s.%s: %d out of range", b.kind, name, v)
	}
	fv.SetUint(v)
	return nil
}

// SetEnum parses text with the field type's UnmarshalText.
func (b *PayloadBuilder) SetEnum(name, text string) error {
	fv, err := b.field(name, FieldEnum)
	if err != nil {
		return err
	}
	u, ok := fv.Addr().Interface().(encoding.TextUnmarshaler)
	if !ok {
		return fmt.Errorf("%s.%s cannot be parsed", b.kind, name)
	}
	if err := u.UnmarshalText([]byte(text)); err != nil {
		return fmt.Errorf("%s.%s: %w", b.kind, name, err)
	}
	return nil
}

// Payload returns the assembled payload.
func (b *PayloadBuilder) Payload() Payload {
	return b.v.Interface().(Payload)
}

// MapPayload returns a copy of p with every child and string passed through
// the mapping functions. Slices are freshly allocated.
func MapPayload(p Payload, node func(NodeID) NodeID, str func(source.StringID) source.StringID) Payload {
	if p == nil {
		return nil
	}
	v := reflect.New(reflect.TypeOf(p)).Elem()
	v.Set(reflect.ValueOf(p))
	for _, f := range shapes[p.Kind()] {
		fv := v.Field(f.index)
		switch f.Type {
		case FieldNode:
			fv.SetUint(uint64(node(NodeID(fv.Uint()))))
		case FieldNodes:
			src := fv.Interface().([]NodeID)
			if len(src) == 0 {
				continue
			}
			dst := make([]NodeID, len(src))
			for i, id := range src {
				dst[i] = node(id)
			}
			fv.Set(reflect.ValueOf(dst))
		case FieldString:
			fv.SetUint(uint64(str(source.StringID(fv.Uint()))))
		case FieldStrings:
			src := fv.Interface().([]source.StringID)
			if len(src) == 0 {
				continue
			}
			dst := make([]source.StringID, len(src))
			for i, id := range src {
				dst[i] = str(id)
			}
			fv.Set(reflect.ValueOf(dst))
		}
	}
	return v.Interface().(Payload)
}

// Operand is one child edge of a node.
type Operand struct {
	Field string
	Index int // position in a list field, -1 for single fields
	ID    NodeID
}

type operandCollector struct{ out []Operand }

func (c *operandCollector) Node(name string, id NodeID) {
	if id != NoNodeID {
		c.out = append(c.out, Operand{Field: name, Index: -1, ID: id})
	}
}

func (c *operandCollector) Nodes(name string, ids []NodeID) {
	for i, id := range ids {
		c.out = append(c.out, Operand{Field: name, Index: i, ID: id})
	}
}

func (*operandCollector) Uint(string, uint64) {}
func (*operandCollector) Bool(string, bool) {}
func (*operandCollector) String(string, source.StringID) {}
func (*operandCollector) Strings(string, []source.StringID) {}
func (*operandCollector) Enum(string, uint64, string) {}

// Operands iterates the non-empty children of id in field order.
func (a *Arena) Operands(id NodeID) iter.Seq[Operand] {
	p := a.Payload(id)
	return func(yield func(Operand) bool) {
		if p == nil {
			return
		}
		var c operandCollector
		p.VisitFields(&c)
		for _, op := range c.out {
			if !yield(op) {
				return
			}
		}
	}
}
