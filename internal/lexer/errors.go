package lexer

import (
	"errors"
	"fmt"
)

var errUnterminatedText = errors.New("unterminated text literal")

func errUnexpectedChar(c rune) error {
	return fmt.Errorf("unexpected character %q", c)
}
