package database

import (
	"errors"
	"fmt"

	"github.com/mmcheck/mmcheck/internal/token"
)

// LoadCode categorizes structural load failures. Structural failures are
// always fatal to the overall database load; exactly one is reported.
type LoadCode string

const (
	// CodeMalformedComment is an unterminated or nested comment.
	CodeMalformedComment LoadCode = "MALFORMED_COMMENT"

	// CodeIllegalCharacter is a byte outside printable ASCII and whitespace.
	CodeIllegalCharacter LoadCode = "ILLEGAL_CHARACTER"

	// CodeMalformedStatement is a syntax error in a statement.
	CodeMalformedStatement LoadCode = "MALFORMED_STATEMENT"

	// CodeDuplicateLabel is a label already declared anywhere in the
	// database, including inside scopes that have since closed.
	CodeDuplicateLabel LoadCode = "DUPLICATE_LABEL"

	// CodeUnknownLabel is a proof step referencing a label that is not
	// visible at the theorem's position (undeclared, declared later, or
	// belonging to a closed scope).
	CodeUnknownLabel LoadCode = "UNKNOWN_LABEL"

	// CodeUnbalancedScope is a $} with no matching ${.
	CodeUnbalancedScope LoadCode = "UNBALANCED_SCOPE"

	// CodeUnclosedScope is a ${ still open at end of input.
	CodeUnclosedScope LoadCode = "UNCLOSED_SCOPE"

	// CodeSymbolRedeclared is a math symbol declared with a conflicting
	// kind, or an active symbol declared twice.
	CodeSymbolRedeclared LoadCode = "SYMBOL_REDECLARED"

	// CodeUndeclaredSymbol is a math symbol used before declaration, or a
	// variable used outside every scope that declares it.
	CodeUndeclaredSymbol LoadCode = "UNDECLARED_SYMBOL"

	// CodeUntypedVariable is a variable used in a $e, $a or $p statement
	// with no active $f hypothesis giving its type.
	CodeUntypedVariable LoadCode = "UNTYPED_VARIABLE"
)

// LoadError is a structural failure with full position context.
type LoadError struct {
	Code    LoadCode
	Pos     token.Pos
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Pos, e.Code, e.Message)
}

// ErrCode extracts the LoadCode from err, or "" if err is not a LoadError.
func ErrCode(err error) LoadCode {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code
	}
	return ""
}

func loadErrorf(code LoadCode, pos token.Pos, format string, args ...any) *LoadError {
	return &LoadError{Code: code, Pos: pos, Message: fmt.Sprintf(format, args...)}
}
