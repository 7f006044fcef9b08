package calc

import (
	"fmt"
	"math"
)

// parser evaluates while it parses; there is no intermediate tree.
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/") unary }
//	unary   = ("+" | "-") unary | power
//	power   = primary [ "^" unary ]
//	primary = number | "(" expr ")" | ident [ "(" expr ")" ]
type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) parse() (float64, error) {
	v, err := p.expr()
	if err != nil {
		return 0, err
	}
	if t := p.peek(); t.kind != tokEOF {
		if t.kind == tokRParen {
			return 0, fmt.Errorf("%w: %w", ErrEvaluation, errUnbalancedParen)
		}
		return 0, fmt.Errorf("%w: %w %q at %d", ErrEvaluation, errUnexpectedToken, t.text, t.pos)
	}
	return v, nil
}

func (p *parser) expr() (float64, error) {
	left, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek().kind {
		case tokPlus:
			p.next()
			right, err := p.term()
			if err != nil {
				return 0, err
			}
			left += right
		case tokMinus:
			p.next()
			right, err := p.term()
			if err != nil {
				return 0, err
			}
			left -= right
		default:
			return left, nil
		}
	}
}

func (p *parser) term() (float64, error) {
	left, err := p.unary()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek().kind {
		case tokStar:
			p.next()
			right, err := p.unary()
			if err != nil {
				return 0, err
			}
			left *= right
		case tokSlash:
			p.next()
			right, err := p.unary()
			if err != nil {
				return 0, err
			}
			if right == 0 {
				return 0, fmt.Errorf("%w: %w", ErrEvaluation, errDivisionByZero)
			}
			left /= right
		default:
			return left, nil
		}
	}
}

func (p *parser) unary() (float64, error) {
	switch p.peek().kind {
	case tokPlus:
		p.next()
		return p.unary()
	case tokMinus:
		p.next()
		v, err := p.unary()
		return -v, err
	default:
		return p.power()
	}
}

func (p *parser) power() (float64, error) {
	base, err := p.primary()
	if err != nil {
		return 0, err
	}
	if p.peek().kind != tokCaret {
		return base, nil
	}
	p.next()
	// The exponent goes through unary, which recurses into power:
	// 2^3^2 is 2^(3^2) and 2^-1 is allowed.
	exp, err := p.unary()
	if err != nil {
		return 0, err
	}
	if base == 0 && exp < 0 {
		return 0, fmt.Errorf("%w: %w", ErrEvaluation, errDivisionByZero)
	}
	return math.Pow(base, exp), nil
}

func (p *parser) primary() (float64, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return t.num, nil
	case tokLParen:
		v, err := p.expr()
		if err != nil {
			return 0, err
		}
		if p.next().kind != tokRParen {
			return 0, fmt.Errorf("%w: %w", ErrEvaluation, errUnbalancedParen)
		}
		return v, nil
	case tokIdent:
		return p.identifier(t)
	case tokEOF:
		return 0, fmt.Errorf("%w: %w", ErrEvaluation, errUnexpectedEnd)
	default:
		return 0, fmt.Errorf("%w: %w %q at %d", ErrEvaluation, errUnexpectedToken, t.text, t.pos)
	}
}

func (p *parser) identifier(t token) (float64, error) {
	if c, ok := constants[t.text]; ok {
		return c, nil
	}
	fn, ok := functions[t.text]
	if !ok {
		return 0, fmt.Errorf("%w: %w %q", ErrEvaluation, errUnknownIdentifier, t.text)
	}
	if p.next().kind != tokLParen {
		return 0, fmt.Errorf("%w: %w: %s", ErrEvaluation, errFunctionWithoutArg, t.text)
	}
	arg, err := p.expr()
	if err != nil {
		return 0, err
	}
	if p.next().kind != tokRParen {
		return 0, fmt.Errorf("%w: %w", ErrEvaluation, errUnbalancedParen)
	}
	return fn(arg), nil
}

var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

var functions = map[string]func(float64) float64{
	"sqrt":  math.Sqrt,
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"log":   math.Log,
	"log10": math.Log10,
	"exp":   math.Exp,
	"abs":   math.Abs,
	"floor": math.Floor,
	"ceil":  math.Ceil,
}
