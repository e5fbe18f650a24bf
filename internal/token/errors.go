package token

import "fmt"

// ScanCode categorizes tokenizer failures.
type ScanCode string

const (
	// CodeMalformedComment indicates an unterminated or nested $( comment.
	CodeMalformedComment ScanCode = "MALFORMED_COMMENT"

	// CodeIllegalCharacter indicates a byte outside printable ASCII and
	// Metamath whitespace.
	CodeIllegalCharacter ScanCode = "ILLEGAL_CHARACTER"
)

// ScanError is a structural tokenizer failure with full position context.
type ScanError struct {
	Code    ScanCode
	Pos     Pos
	Message string
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Pos, e.Code, e.Message)
}
