package irtext

import (
	"errors"
	"fmt"

	"shady/internal/diag"
	"shady/internal/ir"
	"shady/internal/source"
)

// Module is the outcome of building a parsed file into an arena.
type Module struct {
	Arena *ir.Arena
	// Names maps every successfully bound name to its node.
	Names map[string]ir.NodeID
	// Defs records where each name was bound.
	Defs map[string]source.Span
}

// Lookup returns the node bound to name.
func (m *Module) Lookup(name string) (ir.NodeID, bool) {
	id, ok := m.Names[name]
	return id, ok
}

type builder struct {
	a        *ir.Arena
	opts     Options
	mod      *Module
	poisoned map[string]bool
}

// Load parses f and builds its nodes into a.
func Load(a *ir.Arena, f *source.File, opts Options) *Module {
	return Build(a, ParseFile(f, opts), opts)
}

// Build constructs the items of f in order. An item that fails is reported
// and leaves its name unbound; later uses of that name fail silently so one
// mistake yields one diagnostic.
func Build(a *ir.Arena, f *File, opts Options) *Module {
	b := &builder{
		a:    a,
		opts: opts,
		mod: &Module{
			Arena: a,
			Names: make(map[string]ir.NodeID, len(f.Items)),
			Defs:  make(map[string]source.Span, len(f.Items)),
		},
		poisoned: make(map[string]bool),
	}
	b.reserveIDs(f)
	for i := range f.Items {
		item := &f.Items[i]
		if item.Body {
			b.attachBody(item)
			continue
		}
		b.bind(item)
	}
	return b.mod
}

func (b *builder) errorf(code diag.Code, sp source.Span, format string, args ...any) *diag.ReportBuilder {
	return diag.ReportError(b.opts.Reporter, code, sp, fmt.Sprintf(format, args...))
}

// reserveIDs keeps fresh variable ids clear of every id written in the file.
func (b *builder) reserveIDs(f *File) {
	for i := range f.Items {
		f.Items[i].Value.walk(func(v *Value) {
			if v.Kind != ValConstruct || v.Text != ir.KindVariable.String() {
				return
			}
			for _, fld := range v.Fields {
				if fld.Name == "id" && fld.Value.Kind == ValNumber && fld.Value.Num <= ir.MaxVariableID {
					b.a.ReserveID(fld.Value.Num)
				}
			}
		})
	}
}

func (b *builder) bind(item *Item) {
	if prev, dup := b.mod.Defs[item.Name]; dup || b.poisoned[item.Name] {
		rb := b.errorf(diag.BuildDuplicateName, item.NameSpan, "%%%s is already bound", item.Name)
		if dup {
			rb.WithNote(prev, "first bound here")
		}
		rb.Emit()
		return
	}
	id, ok := b.node(item.Value)
	if !ok {
		b.poisoned[item.Name] = true
		return
	}
	b.mod.Names[item.Name] = id
	b.mod.Defs[item.Name] = item.NameSpan
}

func (b *builder) attachBody(item *Item) {
	target, ok := b.ref(item.Name, item.NameSpan)
	if !ok {
		return
	}
	body, ok := b.ref(item.Value.Text, item.Value.Span)
	if !ok {
		return
	}
	kind := b.a.Kind(target)
	if !kind.IsNominal() {
		b.errorf(diag.BuildBodyNotNominal, item.NameSpan, "%%%s is a %s, which has no body", item.Name, kind).Emit()
		return
	}
	if b.a.HasBody(target) {
		b.errorf(diag.BuildBodyTwice, item.Span, "body of %%%s is already attached", item.Name).Emit()
		return
	}
	b.protect(item.Span, func() error { return b.a.SetBody(target, body) })
}

func (b *builder) ref(name string, sp source.Span) (ir.NodeID, bool) {
	if id, ok := b.mod.Names[name]; ok {
		return id, true
	}
	if !b.poisoned[name] {
		b.errorf(diag.BuildUndefinedName, sp, "%%%s is not bound", name).Emit()
	}
	return ir.NoNodeID, false
}

// node evaluates a value in node position.
func (b *builder) node(v *Value) (ir.NodeID, bool) {
	switch v.Kind {
	case ValRef:
		return b.ref(v.Text, v.Span)
	case ValNone:
		return ir.NoNodeID, true
	case ValWord, ValConstruct:
		return b.construct(v)
	}
	b.errorf(diag.BuildFieldMismatch, v.Span, "expected a node, found a %s", v.Kind).Emit()
	return ir.NoNodeID, false
}

func (b *builder) construct(v *Value) (ir.NodeID, bool) {
	kind, ok := ir.LookupKind(v.Text)
	if !ok {
		b.errorf(diag.BuildUnknownKind, v.Span, "unknown node kind %q", v.Text).Emit()
		return ir.NoNodeID, false
	}
	if !kind.HasPayload() {
		if len(v.Fields) > 0 {
			b.errorf(diag.BuildUnknownField, v.Fields[0].NameSpan, "%s takes no fields", kind).Emit()
			return ir.NoNodeID, false
		}
		var id ir.NodeID
		ok := b.protect(v.Span, func() (err error) {
			id, err = b.a.Construct(kind, nil)
			return err
		})
		return id, ok
	}

	pb := ir.NewPayloadBuilder(kind)
	ok = true
	hasID := false
	for _, f := range v.Fields {
		info, found := ir.LookupField(kind, f.Name)
		if !found {
			b.errorf(diag.BuildUnknownField, f.NameSpan, "%s has no field %q", kind, f.Name).Emit()
			ok = false
			continue
		}
		if kind == ir.KindVariable && f.Name == "id" {
			hasID = true
			if f.Value.Kind == ValNumber && f.Value.Num == 0 {
				b.errorf(diag.BuildBadVariableID, f.Value.Span, "variable ids start at 1").Emit()
				ok = false
				continue
			}
			if f.Value.Kind == ValNumber && f.Value.Num > ir.MaxVariableID {
				b.errorf(diag.BuildBadVariableID, f.Value.Span, "variable id %d is above %d", f.Value.Num, ir.MaxVariableID).Emit()
				ok = false
				continue
			}
		}
		if !b.setField(pb, kind, info, f.Value) {
			ok = false
		}
	}
	if !ok {
		return ir.NoNodeID, false
	}
	if kind == ir.KindVariable && !hasID {
		if err := pb.SetUint("id", b.a.FreshID()); err != nil {
			panic(err)
		}
	}
	var id ir.NodeID
	ok = b.protect(v.Span, func() (err error) {
		id, err = b.a.Construct(kind, pb.Payload())
		return err
	})
	return id, ok
}

func (b *builder) mismatch(kind ir.Kind, info ir.FieldInfo, v *Value) bool {
	b.errorf(diag.BuildFieldMismatch, v.Span, "%s.%s expects a %s, found a %s", kind, info.Name, info.Type, v.Kind).Emit()
	return false
}

func (b *builder) setField(pb *ir.PayloadBuilder, kind ir.Kind, info ir.FieldInfo, v *Value) bool {
	var err error
	switch info.Type {
	case ir.FieldNode:
		id, ok := b.node(v)
		if !ok {
			return false
		}
		err = pb.SetNode(info.Name, id)
	case ir.FieldNodes:
		if v.Kind != ValList {
			return b.mismatch(kind, info, v)
		}
		ids := make([]ir.NodeID, 0, len(v.Items))
		ok := true
		for _, it := range v.Items {
			if it.Kind == ValNone {
				b.errorf(diag.BuildFieldMismatch, it.Span, "%s.%s cannot hold none", kind, info.Name).Emit()
				ok = false
				continue
			}
			id, itemOK := b.node(it)
			ok = ok && itemOK
			ids = append(ids, id)
		}
		if !ok {
			return false
		}
		err = pb.SetNodes(info.Name, ids)
	case ir.FieldString:
		if v.Kind != ValString {
			return b.mismatch(kind, info, v)
		}
		err = pb.SetString(info.Name, b.a.Intern(v.Text))
	case ir.FieldStrings:
		if v.Kind != ValList {
			return b.mismatch(kind, info, v)
		}
		ids := make([]source.StringID, 0, len(v.Items))
		for _, it := range v.Items {
			if it.Kind != ValString {
				return b.mismatch(kind, info, it)
			}
			ids = append(ids, b.a.Intern(it.Text))
		}
		err = pb.SetStrings(info.Name, ids)
	case ir.FieldBool:
		if v.Kind != ValWord || (v.Text != "true" && v.Text != "false") {
			return b.mismatch(kind, info, v)
		}
		err = pb.SetBool(info.Name, v.Text == "true")
	case ir.FieldUint:
		if v.Kind != ValNumber {
			return b.mismatch(kind, info, v)
		}
		err = pb.SetUint(info.Name, v.Num)
	case ir.FieldEnum:
		if v.Kind != ValWord && v.Kind != ValNumber {
			return b.mismatch(kind, info, v)
		}
		err = pb.SetEnum(info.Name, v.Text)
	}
	if err != nil {
		b.errorf(diag.BuildFieldMismatch, v.Span, "%v", err).Emit()
		return false
	}
	return true
}

// protect runs an arena operation, turning type errors and arena invariant
// panics into diagnostics at sp.
func (b *builder) protect(sp source.Span, fn func() error) (ok bool) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		ie, isInvariant := r.(*ir.InvariantError)
		if !isInvariant {
			panic(r)
		}
		b.errorf(diag.BuildInvariant, sp, "%s: %s", ie.Op, ie.Msg).Emit()
		ok = false
	}()
	if err := fn(); err != nil {
		var te *ir.TypeError
		if errors.As(err, &te) {
			b.errorf(diag.BuildTypeError, sp, "%s", te.Error()).Emit()
		} else {
			b.errorf(diag.BuildInvariant, sp, "%v", err).Emit()
		}
		return false
	}
	return true
}
