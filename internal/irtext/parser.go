package irtext

import (
	"fmt"
	"strconv"

	"shady/internal/diag"
	"shady/internal/source"
)

// Options configures parsing and building.
type Options struct {
	Reporter diag.Reporter
	// MaxErrors stops parsing after that many syntax errors; 0 means no limit.
	MaxErrors int
}

type parser struct {
	lx     *lexer
	opts   Options
	errors int
	last   source.Span
}

// ParseFile parses the textual IR held in f. Syntax errors are reported and
// the offending item is skipped; the returned File holds every item that
// parsed cleanly.
func ParseFile(f *source.File, opts Options) *File {
	counting := &countingReporter{next: opts.Reporter}
	p := &parser{lx: newLexer(f, counting), opts: opts}
	out := &File{ID: f.ID}
	for p.lx.Peek().Kind != TokEOF {
		if p.enough(counting.errors) {
			break
		}
		from := p.lx.Peek().Span.Start
		if item, ok := p.parseItem(); ok {
			out.Items = append(out.Items, item)
		} else {
			p.recover(from)
		}
	}
	return out
}

type countingReporter struct {
	next   diag.Reporter
	errors int
}

func (r *countingReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	if sev >= diag.SevError {
		r.errors++
	}
	if r.next != nil {
		r.next.Report(code, sev, primary, msg, notes)
	}
}

func (p *parser) enough(lexErrors int) bool {
	return p.opts.MaxErrors > 0 && p.errors+lexErrors >= p.opts.MaxErrors
}

func (p *parser) next() Token {
	tok := p.lx.Next()
	p.last = tok.Span
	return tok
}

func (p *parser) at(k TokenKind) bool {
	return p.lx.Peek().Kind == k
}

func (p *parser) errorf(code diag.Code, sp source.Span, format string, args ...any) {
	p.errors++
	if p.opts.Reporter != nil {
		diag.ReportError(p.opts.Reporter, code, sp, fmt.Sprintf(format, args...)).Emit()
	}
}

func (p *parser) expect(k TokenKind, code diag.Code) (Token, bool) {
	tok := p.lx.Peek()
	if tok.Kind != k {
		if tok.Kind != TokInvalid {
			p.errorf(code, tok.Span, "expected %s, found %s", k, tok.describe())
		}
		return tok, false
	}
	return p.next(), true
}

// recover skips to the next statement after offset from: a name or `body`
// at the beginning of a line.
func (p *parser) recover(from uint32) {
	for {
		tok := p.lx.Peek()
		if tok.Kind == TokEOF {
			return
		}
		isStart := tok.Kind == TokName || (tok.Kind == TokIdent && tok.Text == "body")
		if isStart && tok.Span.Start > from && p.startsLine(tok.Span) {
			return
		}
		p.next()
	}
}

func (p *parser) startsLine(sp source.Span) bool {
	content := p.lx.cur.file.Content
	for i := int(sp.Start) - 1; i >= 0; i-- {
		switch content[i] {
		case '\n':
			return true
		case ' ', '\t', '\r':
			continue
		default:
			return false
		}
	}
	return true
}

func (p *parser) parseItem() (Item, bool) {
	first := p.lx.Peek()
	item := Item{Span: first.Span}
	if first.Kind == TokIdent && first.Text == "body" {
		p.next()
		item.Body = true
	} else if first.Kind != TokName {
		if first.Kind != TokInvalid {
			p.errorf(diag.SynUnexpectedTopLevel, first.Span, "expected a binding `%%name = ...` or `body %%name = %%node`, found %s", first.describe())
		}
		p.next()
		return item, false
	}
	name, ok := p.expect(TokName, diag.SynExpectIdentifier)
	if !ok {
		return item, false
	}
	item.Name, item.NameSpan = name.Text, name.Span
	if _, ok := p.expect(TokEquals, diag.SynExpectEquals); !ok {
		return item, false
	}
	if item.Body {
		target, ok := p.expect(TokName, diag.SynExpectIdentifier)
		if !ok {
			return item, false
		}
		item.Value = &Value{Kind: ValRef, Span: target.Span, Text: target.Text}
	} else {
		v, ok := p.parseValue()
		if !ok {
			return item, false
		}
		if v.Kind != ValConstruct && v.Kind != ValWord && v.Kind != ValRef {
			p.errorf(diag.SynExpectValue, v.Span, "a binding needs a node, found a %s", v.Kind)
			return item, false
		}
		item.Value = v
	}
	item.Span = item.Span.Cover(p.last)
	return item, true
}

func (p *parser) parseValue() (*Value, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case TokName:
		p.next()
		return &Value{Kind: ValRef, Span: tok.Span, Text: tok.Text}, true
	case TokString:
		p.next()
		return &Value{Kind: ValString, Span: tok.Span, Text: tok.Text}, true
	case TokNumber:
		p.next()
		n, err := strconv.ParseUint(tok.Text, 0, 64)
		if err != nil {
			p.errorf(diag.LexBadNumber, tok.Span, "malformed number %q", tok.Text)
			return nil, false
		}
		return &Value{Kind: ValNumber, Span: tok.Span, Text: tok.Text, Num: n}, true
	case TokLBracket:
		return p.parseList()
	case TokIdent:
		p.next()
		if tok.Text == "none" {
			return &Value{Kind: ValNone, Span: tok.Span, Text: tok.Text}, true
		}
		if p.at(TokLParen) {
			return p.parseConstruct(tok)
		}
		return &Value{Kind: ValWord, Span: tok.Span, Text: tok.Text}, true
	case TokInvalid:
		p.next()
		return nil, false
	}
	p.errorf(diag.SynExpectValue, tok.Span, "expected a value, found %s", tok.describe())
	return nil, false
}

func (p *parser) parseList() (*Value, bool) {
	open := p.next()
	v := &Value{Kind: ValList, Span: open.Span}
	for !p.at(TokRBracket) {
		if p.at(TokEOF) {
			p.errorf(diag.SynUnclosedBracket, open.Span, "unclosed '['")
			return nil, false
		}
		item, ok := p.parseValue()
		if !ok {
			return nil, false
		}
		v.Items = append(v.Items, item)
		if !p.at(TokComma) {
			break
		}
		p.next()
	}
	closing, ok := p.expect(TokRBracket, diag.SynUnclosedBracket)
	if !ok {
		return nil, false
	}
	v.Span = v.Span.Cover(closing.Span)
	return v, true
}

func (p *parser) parseConstruct(kind Token) (*Value, bool) {
	open := p.next()
	v := &Value{Kind: ValConstruct, Span: kind.Span, Text: kind.Text}
	seen := make(map[string]source.Span)
	for !p.at(TokRParen) {
		if p.at(TokEOF) {
			p.errorf(diag.SynUnclosedParen, open.Span, "unclosed '(' after %s", kind.Text)
			return nil, false
		}
		name, ok := p.expect(TokIdent, diag.SynExpectIdentifier)
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(TokColon, diag.SynExpectColon); !ok {
			return nil, false
		}
		val, ok := p.parseValue()
		if !ok {
			return nil, false
		}
		if prev, dup := seen[name.Text]; dup {
			p.errors++
			if p.opts.Reporter != nil {
				diag.ReportError(p.opts.Reporter, diag.SynDuplicateField, name.Span,
					fmt.Sprintf("field %q given twice", name.Text)).
					WithNote(prev, "first given here").
					Emit()
			}
			return nil, false
		}
		seen[name.Text] = name.Span
		v.Fields = append(v.Fields, Field{Name: name.Text, NameSpan: name.Span, Value: val})
		if !p.at(TokComma) {
			break
		}
		p.next()
	}
	closing, ok := p.expect(TokRParen, diag.SynUnclosedParen)
	if !ok {
		return nil, false
	}
	v.Span = v.Span.Cover(closing.Span)
	return v, true
}
