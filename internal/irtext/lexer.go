package irtext

import (
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"shady/internal/diag"
	"shady/internal/source"
)

type lexer struct {
	cur  cursor
	rep  diag.Reporter
	look *Token
}

func newLexer(f *source.File, rep diag.Reporter) *lexer {
	return &lexer{cur: newCursor(f), rep: rep}
}

func (lx *lexer) report(code diag.Code, sp source.Span, msg string) {
	if lx.rep != nil {
		diag.ReportError(lx.rep, code, sp, msg).Emit()
	}
}

// Peek returns the next token without consuming it.
func (lx *lexer) Peek() Token {
	if lx.look == nil {
		tok := lx.scan()
		lx.look = &tok
	}
	return *lx.look
}

// Next consumes one token. After EOF it keeps returning EOF.
func (lx *lexer) Next() Token {
	tok := lx.Peek()
	lx.look = nil
	return tok
}

func (lx *lexer) skipTrivia() {
	for !lx.cur.eof() {
		switch b := lx.cur.peek(); {
		case b == ' ' || b == '\t' || b == '\n' || b == '\r':
			lx.cur.bump()
		case b == '#':
			lx.cur.bumpWhile(func(b byte) bool { return b != '\n' })
		default:
			return
		}
	}
}

func (lx *lexer) scan() Token {
	for {
		lx.skipTrivia()
		start := lx.cur.off
		if lx.cur.eof() {
			return Token{Kind: TokEOF, Span: lx.cur.spanFrom(start)}
		}
		b := lx.cur.peek()
		switch {
		case isIdentStart(b):
			lx.cur.bumpWhile(isIdentContinue)
			sp := lx.cur.spanFrom(start)
			return Token{Kind: TokIdent, Span: sp, Text: lx.cur.text(sp)}
		case isDigit(b):
			return lx.scanNumber(start)
		case b == '%':
			lx.cur.bump()
			lx.cur.bumpWhile(isNameContinue)
			sp := lx.cur.spanFrom(start)
			if sp.Len() == 1 {
				lx.report(diag.SynExpectIdentifier, sp, "expected a name after '%'")
				continue
			}
			return Token{Kind: TokName, Span: sp, Text: norm.NFC.String(lx.cur.text(sp)[1:])}
		case b == '"':
			if tok, ok := lx.scanString(start); ok {
				return tok
			}
			continue
		}
		lx.cur.bump()
		sp := lx.cur.spanFrom(start)
		if kind, ok := punct[b]; ok {
			return Token{Kind: kind, Span: sp}
		}
		if b >= utf8.RuneSelf {
			// swallow the rest of the rune so we report it once
			lx.cur.bumpWhile(func(b byte) bool { return b >= 0x80 && b < 0xC0 })
			sp = lx.cur.spanFrom(start)
		}
		lx.report(diag.LexUnknownChar, sp, "unexpected character "+strconv.Quote(lx.cur.text(sp)))
	}
}

var punct = map[byte]TokenKind{
	'(': TokLParen,
	')': TokRParen,
	'[': TokLBracket,
	']': TokRBracket,
	',': TokComma,
	':': TokColon,
	'=': TokEquals,
}

func (lx *lexer) scanNumber(start uint32) Token {
	lx.cur.bumpWhile(isIdentContinue)
	sp := lx.cur.spanFrom(start)
	text := lx.cur.text(sp)
	if _, err := strconv.ParseUint(text, 0, 64); err != nil {
		lx.report(diag.LexBadNumber, sp, "malformed number "+strconv.Quote(text))
		return Token{Kind: TokInvalid, Span: sp, Text: text}
	}
	return Token{Kind: TokNumber, Span: sp, Text: text}
}

func (lx *lexer) scanString(start uint32) (Token, bool) {
	lx.cur.bump() // opening quote
	for !lx.cur.eof() {
		switch lx.cur.peek() {
		case '"':
			lx.cur.bump()
			sp := lx.cur.spanFrom(start)
			val, err := strconv.Unquote(lx.cur.text(sp))
			if err != nil {
				lx.report(diag.LexBadEscape, sp, "invalid escape in string literal")
				return Token{Kind: TokInvalid, Span: sp}, true
			}
			return Token{Kind: TokString, Span: sp, Text: norm.NFC.String(val)}, true
		case '\\':
			lx.cur.bump()
			lx.cur.bump()
		case '\n':
			lx.report(diag.LexUnterminatedString, lx.cur.spanFrom(start), "newline in string literal")
			return Token{}, false
		default:
			lx.cur.bump()
		}
	}
	lx.report(diag.LexUnterminatedString, lx.cur.spanFrom(start), "unterminated string literal")
	return Token{}, false
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentContinue(b byte) bool {
	return isIdentStart(b) || isDigit(b)
}

// names may use any non-ASCII letters; they are NFC-normalized
func isNameContinue(b byte) bool {
	return isIdentContinue(b) || b >= utf8.RuneSelf
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
