package ir

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"shady/internal/source"
)

// PrintOptions controls the textual dump of an arena.
type PrintOptions struct {
	// Types appends the derived type of each node as a comment.
	Types bool
	// Hashes appends the interning hash of structural nodes.
	Hashes bool
}

// Print writes every node of a in allocation order:
//
//	%1 = int(width: 32, signed: true)
//	%2 = int_literal(width: 32, signed: true, value: 5, spelling: "")  # : %1
//
// Bodies of nominal nodes are printed as none in the node line and attached
// afterwards with `body %N = %M`, so the output can be read back in one pass.
func Print(w io.Writer, a *Arena, opts PrintOptions) error {
	bw := bufio.NewWriter(w)
	var bodies []NodeID
	for id, n := range a.All() {
		bw.WriteString(a.formatNode(id, n, opts))
		bw.WriteByte('\n')
		if n.Kind.IsNominal() && a.HasBody(id) {
			bodies = append(bodies, id)
		}
	}
	for _, id := range bodies {
		b := a.Payload(id).(bodied).body()
		bw.WriteString("body ")
		bw.WriteString(id.String())
		bw.WriteString(" = ")
		bw.WriteString(b.String())
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// Format renders the single node id in Print's syntax, without the body of
// nominal nodes.
func (a *Arena) Format(id NodeID) string {
	return a.formatNode(id, a.Node(id), PrintOptions{})
}

func (a *Arena) formatNode(id NodeID, n Node, opts PrintOptions) string {
	var sb strings.Builder
	sb.WriteString(id.String())
	sb.WriteString(" = ")
	sb.WriteString(n.Kind.String())
	if n.Payload != nil {
		fp := fieldPrinter{a: a, sb: &sb, skip: kindTable[n.Kind].Body}
		sb.WriteByte('(')
		n.Payload.VisitFields(&fp)
		sb.WriteByte(')')
	}
	var notes []string
	if opts.Types && n.Type != NoNodeID {
		notes = append(notes, ": "+n.Type.String())
	}
	if opts.Hashes && !n.Kind.IsNominal() {
		notes = append(notes, "hash "+strconv.FormatUint(a.Hash(id), 16))
	}
	if len(notes) > 0 {
		sb.WriteString("  # ")
		sb.WriteString(strings.Join(notes, ", "))
	}
	return sb.String()
}

type fieldPrinter struct {
	a     *Arena
	sb    *strings.Builder
	skip  string
	count int
}

func (p *fieldPrinter) name(name string) {
	if p.count > 0 {
		p.sb.WriteString(", ")
	}
	p.count++
	p.sb.WriteString(name)
	p.sb.WriteString(": ")
}

func (p *fieldPrinter) Node(name string, id NodeID) {
	p.name(name)
	if name == p.skip {
		id = NoNodeID
	}
	p.sb.WriteString(id.String())
}

func (p *fieldPrinter) Nodes(name string, ids []NodeID) {
	p.name(name)
	p.sb.WriteByte('[')
	for i, id := range ids {
		if i > 0 {
			p.sb.WriteString(", ")
		}
		p.sb.WriteString(id.String())
	}
	p.sb.WriteByte(']')
}

func (p *fieldPrinter) Uint(name string, v uint64) {
	p.name(name)
	p.sb.WriteString(strconv.FormatUint(v, 10))
}

func (p *fieldPrinter) Bool(name string, v bool) {
	p.name(name)
	p.sb.WriteString(strconv.FormatBool(v))
}

func (p *fieldPrinter) String(name string, id source.StringID) {
	p.name(name)
	p.sb.WriteString(strconv.Quote(p.a.String(id)))
}

func (p *fieldPrinter) Strings(name string, ids []source.StringID) {
	p.name(name)
	p.sb.WriteByte('[')
	for i, id := range ids {
		if i > 0 {
			p.sb.WriteString(", ")
		}
		p.sb.WriteString(strconv.Quote(p.a.String(id)))
	}
	p.sb.WriteByte(']')
}

func (p *fieldPrinter) Enum(name string, _ uint64, text string) {
	p.name(name)
	p.sb.WriteString(text)
}
