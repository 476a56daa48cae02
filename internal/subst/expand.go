// Package subst expands "$(Name)" and "$(Name:transform())" placeholders in
// template text. Everything that is not a well-formed token is copied byte for
// byte.
package subst

import "strings"

// Expand replaces every token in text with its resolved value. The first token
// that cannot be resolved aborts expansion with a *TokenError.
func (c *Context) Expand(text string) (string, error) {
	var b strings.Builder
	b.Grow(len(text))

	last := 0
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

		v, err := c.Resolve(tok)
		if err != nil {
			line, col := position(text, tok.Offset)
			return "", &TokenError{Token: tok.Text, Offset: tok.Offset, Line: line, Column: col, Err: err}
		}
		b.WriteString(text[last:i])
		b.WriteString(v)
		i = end
		last = end
	}
	b.WriteString(text[last:])
	return b.String(), nil
}

// Check resolves every token of text without building output and returns all
// failures in order of appearance.
func (c *Context) Check(text string) []*TokenError {
	var errs []*TokenError
	for _, tok := range Scan(text) {
		if _, err := c.Resolve(tok); err != nil {
			line, col := position(text, tok.Offset)
			errs = append(errs, &TokenError{Token: tok.Text, Offset: tok.Offset, Line: line, Column: col, Err: err})
		}
	}
	return errs
}
