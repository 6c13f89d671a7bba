package irtext

import (
	"fmt"

	"shady/internal/source"
)

// TokenKind classifies a lexeme.
type TokenKind uint8

const (
	TokInvalid TokenKind = iota
	TokEOF
	TokIdent  // kind names, field names, enum words, true/false, none, body
	TokName   // %name or %123
	TokNumber // decimal or 0x hex
	TokString // "..." with Go escapes
	TokLParen
	TokRParen
	TokLBracket
	TokRBracket
	TokComma
	TokColon
	TokEquals
)

var tokenKindNames = [...]string{
	TokInvalid:  "invalid token",
	TokEOF:      "end of file",
	TokIdent:    "identifier",
	TokName:     "node name",
	TokNumber:   "number",
	TokString:   "string",
	TokLParen:   "'('",
	TokRParen:   "')'",
	TokLBracket: "'['",
	TokRBracket: "']'",
	TokComma:    "','",
	TokColon:    "':'",
	TokEquals:   "'='",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", uint8(k))
}

// Token is one lexeme. Text holds the raw source for identifiers, names and
// numbers; for strings it holds the decoded value.
type Token struct {
	Kind TokenKind
	Span source.Span
	Text string
}

func (t Token) describe() string {
	switch t.Kind {
	case TokIdent, TokName, TokNumber:
		return fmt.Sprintf("%s %q", t.Kind, t.Text)
	default:
		return t.Kind.String()
	}
}
