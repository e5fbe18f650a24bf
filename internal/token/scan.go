package token

import "fmt"

// Metamath whitespace: space, tab, carriage return, line feed, form feed.
func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f'
}

func isPrintable(c byte) bool {
	return c >= 0x21 && c <= 0x7e
}

// Scan tokenizes src, stripping comments. name is used for positions only.
//
// Comments run from a whitespace-delimited $( token to the next $) token
// and do not nest; an unterminated comment fails with CodeMalformedComment
// at the opener's position, as does a $( seen inside a comment.
func Scan(name string, src []byte) ([]Token, error) {
	raw, err := scanRaw(name, src)
	if err != nil {
		return nil, err
	}
	return stripComments(raw)
}

// scanRaw splits src on whitespace, tracking line and column.
func scanRaw(name string, src []byte) ([]Token, error) {
	var toks []Token
	line, col := 1, 1
	start := -1
	var startPos Pos
	for i := 0; i <= len(src); i++ {
		var c byte
		if i < len(src) {
			c = src[i]
		} else {
			c = ' ' // sentinel terminates a trailing token
		}
		if isWhitespace(c) || i == len(src) {
			if start >= 0 {
				toks = append(toks, Token{Text: string(src[start:i]), Pos: startPos})
				start = -1
			}
		} else {
			if !isPrintable(c) {
				return nil, &ScanError{
					Code:    CodeIllegalCharacter,
					Pos:     Pos{File: name, Line: line, Col: col},
					Message: fmt.Sprintf("illegal character 0x%02x", c),
				}
			}
			if start < 0 {
				start = i
				startPos = Pos{File: name, Line: line, Col: col}
			}
		}
		if c == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return toks, nil
}

// stripComments removes $( ... $) runs from the raw token stream.
func stripComments(raw []Token) ([]Token, error) {
	out := raw[:0:0]
	for i := 0; i < len(raw); i++ {
		if raw[i].Text != commentOpen {
			out = append(out, raw[i])
			continue
		}
		open := raw[i]
		closed := false
		for i++; i < len(raw); i++ {
			switch raw[i].Text {
			case commentClose:
				closed = true
			case commentOpen:
				return nil, &ScanError{
					Code:    CodeMalformedComment,
					Pos:     raw[i].Pos,
					Message: "comments may not nest",
				}
			}
			if closed {
				break
			}
		}
		if !closed {
			return nil, &ScanError{
				Code:    CodeMalformedComment,
				Pos:     open.Pos,
				Message: "unterminated comment",
			}
		}
	}
	return out, nil
}
