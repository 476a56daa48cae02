package subst

import "strings"

// Token is one well-formed placeholder found in template text.
type Token struct {
	// Text is the raw token as it appears in the template, e.g. "$(ProjectName:upper())".
	Text string
	// Name is the base name, or the literal text when Literal is set.
	Name       string
	Literal    bool
	Transforms []string
	Offset     int
}

// Scan returns the well-formed tokens of text in order of appearance.
// Malformed "$(" sequences are not tokens and are skipped.
func Scan(text string) []Token {
	var tokens []Token
	for i := 0; i < len(text); {
		n := strings.Index(text[i:], "$(")
		if n < 0 {
			break
		}
		i += n
		tok, end, ok := parseToken(text, i)
		if !ok {
			i++
			continue
		}
		tokens = append(tokens, tok)
		i = end
	}
	return tokens
}

// parseToken parses a token starting at text[start], which must be "$(".
// It returns the index just past the closing ")".
func parseToken(text string, start int) (Token, int, bool) {
	tok := Token{Offset: start}
	j := start + 2
	if j >= len(text) {
		return tok, 0, false
	}

	switch c := text[j]; {
	case c == '"':
		k := strings.IndexAny(text[j+1:], "\"\n")
		if k < 0 || text[j+1+k] != '"' {
			return tok, 0, false
		}
		tok.Name = text[j+1 : j+1+k]
		tok.Literal = true
		j += k + 2
	case c == '#':
		tok.Name = "#"
		j++
	case isIdentStart(c):
		k := scanIdent(text, j)
		tok.Name = text[j:k]
		j = k
	default:
		return tok, 0, false
	}

	for j < len(text) {
		switch text[j] {
		case ')':
			tok.Text = text[start : j+1]
			return tok, j + 1, true
		case ':':
			j++
			if j >= len(text) || !isIdentStart(text[j]) {
				return tok, 0, false
			}
			k := scanIdent(text, j)
			if !strings.HasPrefix(text[k:], "()") {
				return tok, 0, false
			}
			tok.Transforms = append(tok.Transforms, text[j:k])
			j = k + 2
		default:
			return tok, 0, false
		}
	}
	return tok, 0, false
}

func scanIdent(text string, i int) int {
	for i < len(text) && isIdentPart(text[i]) {
		i++
	}
	return i
}

func isIdentStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || ('0' <= c && c <= '9')
}

// IsIdentifier reports whether s is a non-empty ASCII identifier that does not
// start with a digit.
func IsIdentifier(s string) bool {
	if s == "" || !isIdentStart(s[0]) {
		return false
	}
	return scanIdent(s, 0) == len(s)
}

// position converts a byte offset into a 1-based line and column.
func position(text string, offset int) (line, col int) {
	before := text[:offset]
	line = strings.Count(before, "\n") + 1
	col = offset - strings.LastIndexByte(before, '\n')
	return line, col
}
