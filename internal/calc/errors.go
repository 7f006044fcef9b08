package calc

import "errors"

// Sentinel errors returned by Calculate and Eval. Evaluation failures wrap
// ErrEvaluation with the concrete reason.
var (
	ErrExpressionEmpty    = errors.New("calc: no expression found")
	ErrInvalidCharacters  = errors.New("calc: expression contains invalid characters")
	ErrEvaluation         = errors.New("calc: invalid expression")
	errDivisionByZero     = errors.New("division by zero")
	errNonFinite          = errors.New("result is not a finite number")
	errUnexpectedEnd      = errors.New("unexpected end of expression")
	errUnknownIdentifier  = errors.New("unknown identifier")
	errUnbalancedParen    = errors.New("unbalanced parenthesis")
	errMalformedNumber    = errors.New("malformed number")
	errUnexpectedToken    = errors.New("unexpected token")
	errFunctionWithoutArg = errors.New("function call requires parentheses")
)

// Reason renders err as the Portuguese sentence shown to the user.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrExpressionEmpty):
		return "Nenhuma expressão matemática encontrada."
	case errors.Is(err, ErrInvalidCharacters):
		return "Expressão contém caracteres inválidos."
	case errors.Is(err, errDivisionByZero):
		return "Divisão por zero."
	default:
		return "Expressão inválida."
	}
}
