// Package token splits Metamath source into whitespace-delimited tokens
// with file/line/column provenance, stripping $( ... $) comments.
//
// The scan is a single forward pass over the raw bytes. The token sequence
// is finite; re-invoke Scan on fresh input to restart.
package token

import "fmt"

// Pos is a source position. Line and Col are 1-based.
type Pos struct {
	File string
	Line int
	Col  int
}

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
}

// IsValid reports whether the position has been set.
func (p Pos) IsValid() bool {
	return p.Line > 0
}

// Token is a whitespace-delimited chunk of source with its position.
type Token struct {
	Text string
	Pos  Pos
}

// Metamath keyword tokens. Every token starting with '$' must be one of
// these (or a comment delimiter, which Scan strips).
const (
	KwConstant   = "$c"
	KwVariable   = "$v"
	KwFloating   = "$f"
	KwEssential  = "$e"
	KwDisjoint   = "$d"
	KwAxiom      = "$a"
	KwProvable   = "$p"
	KwProof      = "$="
	KwEnd        = "$."
	KwOpenScope  = "${"
	KwCloseScope = "$}"

	commentOpen  = "$("
	commentClose = "$)"
)

var keywords = map[string]bool{
	KwConstant:   true,
	KwVariable:   true,
	KwFloating:   true,
	KwEssential:  true,
	KwDisjoint:   true,
	KwAxiom:      true,
	KwProvable:   true,
	KwProof:      true,
	KwEnd:        true,
	KwOpenScope:  true,
	KwCloseScope: true,
}

// IsKeyword reports whether s is a Metamath keyword token.
func IsKeyword(s string) bool {
	return keywords[s]
}

// IsMathSymbol reports whether s is a legal math symbol token: printable
// ASCII with no '$'.
func IsMathSymbol(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] == '$' {
			return false
		}
	}
	return true
}

// IsLabel reports whether s is a legal label token: letters, digits,
// and the characters '-', '_', '.'.
func IsLabel(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '_' || c == '.':
		default:
			return false
		}
	}
	return true
}
