package calc

import (
	"fmt"
	"strconv"
	"unicode"
)

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokCaret
	tokLParen
	tokRParen
	tokEOF
)

type token struct {
	kind tokenKind
	num  float64
	text string
	pos  int
}

// tokenize splits expr into tokens. "**" is read as the power operator.
func tokenize(expr string) ([]token, error) {
	runes := []rune(expr)
	var toks []token

	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case unicode.IsDigit(r) || r == '.':
			start := i
			for i < len(runes) && (unicode.IsDigit(runes[i]) || runes[i] == '.') {
				i++
			}
			lit := string(runes[start:i])
			v, err := strconv.ParseFloat(lit, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %w %q", ErrEvaluation, errMalformedNumber, lit)
			}
			toks = append(toks, token{kind: tokNumber, num: v, text: lit, pos: start})
		case unicode.IsLetter(r) || r == '_':
			start := i
			for i < len(runes) && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_') {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: string(runes[start:i]), pos: start})
		case r == '*' && i+1 < len(runes) && runes[i+1] == '*':
			toks = append(toks, token{kind: tokCaret, text: "**", pos: i})
			i += 2
		default:
			kind, ok := operators[r]
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrInvalidCharacters, r)
			}
			toks = append(toks, token{kind: kind, text: string(r), pos: i})
			i++
		}
	}

	return append(toks, token{kind: tokEOF, pos: len(runes)}), nil
}

var operators = map[rune]tokenKind{
	'+': tokPlus,
	'-': tokMinus,
	'*': tokStar,
	'/': tokSlash,
	'^': tokCaret,
	'(': tokLParen,
	')': tokRParen,
}
