package irtext

import "shady/internal/source"

// ValueKind classifies a parsed field value.
type ValueKind uint8

const (
	ValNone      ValueKind = iota + 1 // none
	ValRef                            // %name
	ValWord                           // bare identifier: kind, enum word, true/false
	ValNumber                         // 123, 0x7f
	ValString                         // "text"
	ValList                           // [v, ...]
	ValConstruct                      // kind(field: v, ...)
)

func (k ValueKind) String() string {
	switch k {
	case ValNone:
		return "none"
	case ValRef:
		return "node name"
	case ValWord:
		return "word"
	case ValNumber:
		return "number"
	case ValString:
		return "string"
	case ValList:
		return "list"
	case ValConstruct:
		return "constructor"
	default:
		return "value"
	}
}

// Value is one syntactic value. Text is the word, name (without %), number
// literal or decoded string; Items holds list elements; Fields the
// constructor arguments with Text naming the kind.
type Value struct {
	Kind   ValueKind
	Span   source.Span
	Text   string
	Num    uint64
	Items  []*Value
	Fields []Field
}

// Field is `name: value` inside a constructor.
type Field struct {
	Name     string
	NameSpan source.Span
	Value    *Value
}

// Item is a top-level statement.
type Item struct {
	// Body marks `body %name = %target`.
	Body     bool
	Name     string
	NameSpan source.Span
	Value    *Value
	Span     source.Span
}

// File is a parsed textual module.
type File struct {
	ID    source.FileID
	Items []Item
}

// walk calls fn on v and every nested value, depth first.
func (v *Value) walk(fn func(*Value)) {
	if v == nil {
		return
	}
	fn(v)
	for _, it := range v.Items {
		it.walk(fn)
	}
	for _, f := range v.Fields {
		f.Value.walk(fn)
	}
}
