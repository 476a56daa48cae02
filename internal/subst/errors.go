package subst

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidProjectName = errors.New("invalid project name")
	ErrUnresolvedToken    = errors.New("unresolved token")
	ErrUnknownTransform   = errors.New("unknown transform")
)

// TokenError reports a token that could not be expanded. Offset is the byte
// offset of the token's "$" in the scanned text; Line and Column are 1-based.
type TokenError struct {
	Token  string
	Offset int
	Line   int
	Column int
	Err    error
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("%d:%d: %s: %v", e.Line, e.Column, e.Token, e.Err)
}

func (e *TokenError) Unwrap() error {
	return e.Err
}
