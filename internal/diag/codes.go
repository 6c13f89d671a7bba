package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadNumber          Code = 1003
	LexBadEscape          Code = 1004

	// Syntax
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynExpectIdentifier   Code = 2002
	SynExpectEquals       Code = 2003
	SynExpectColon        Code = 2004
	SynUnclosedParen      Code = 2005
	SynUnclosedBracket    Code = 2006
	SynExpectValue        Code = 2007
	SynDuplicateField     Code = 2008
	SynUnexpectedTopLevel Code = 2009

	// Building nodes from text
	BuildInfo            Code = 3000
	BuildUnknownKind     Code = 3001
	BuildUnknownField    Code = 3002
	BuildFieldMismatch   Code = 3003
	BuildUndefinedName   Code = 3004
	BuildDuplicateName   Code = 3005
	BuildTypeError       Code = 3006
	BuildInvariant       Code = 3007
	BuildBodyTwice       Code = 3008
	BuildBodyNotNominal  Code = 3009
	BuildBadVariableID   Code = 3010

	// Verification
	VerInfo       Code = 4000
	VerForwardRef Code = 4001
	VerBody       Code = 4002
	VerCanonical  Code = 4003
	VerTyping     Code = 4004
	VerPassFailed Code = 4005

	// I/O and driver
	IOLoadFileError       Code = 5001
	IOUnsupportedLanguage Code = 5002
	IOCacheError          Code = 5003

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:           "Unknown error",
	LexInfo:               "Lexical information",
	LexUnknownChar:        "Unknown character",
	LexUnterminatedString: "Unterminated string",
	LexBadNumber:          "Malformed number",
	LexBadEscape:          "Invalid escape sequence",
	SynInfo:               "Syntax information",
	SynUnexpectedToken:    "Unexpected token",
	SynExpectIdentifier:   "Expected identifier",
	SynExpectEquals:       "Expected '='",
	SynExpectColon:        "Expected ':' after field name",
	SynUnclosedParen:      "Unclosed parenthesis",
	SynUnclosedBracket:    "Unclosed bracket",
	SynExpectValue:        "Expected a field value",
	SynDuplicateField:     "Field given twice",
	SynUnexpectedTopLevel: "Unexpected top-level item",
	BuildInfo:             "Build information",
	BuildUnknownKind:      "Unknown node kind",
	BuildUnknownField:     "Unknown field for node kind",
	BuildFieldMismatch:    "Value does not fit field",
	BuildUndefinedName:    "Undefined node name",
	BuildDuplicateName:    "Node name defined twice",
	BuildTypeError:        "Ill-typed node",
	BuildInvariant:        "Malformed node",
	BuildBodyTwice:        "Body attached twice",
	BuildBodyNotNominal:   "Body attached to a structural node",
	BuildBadVariableID:    "Invalid variable id",
	VerInfo:               "Verification information",
	VerForwardRef:         "Forward reference",
	VerBody:               "Missing or unexpected body",
	VerCanonical:          "Non-canonical node",
	VerTyping:             "Typing violation",
	VerPassFailed:         "Pass failed",
	IOLoadFileError:       "I/O load file error",
	IOUnsupportedLanguage: "Unsupported input language",
	IOCacheError:          "Cache error",
	ObsInfo:               "Observability information",
	ObsTimings:            "Pipeline timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("IRB%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("VER%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
