// Package calc evaluates the arithmetic found in free text. It never
// executes anything: input goes through a fixed tokenizer and a
// recursive-descent evaluator that only knows numbers, + - * / ^,
// parentheses and a small whitelist of math functions.
package calc

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// exprRun matches every run of characters that can belong to an
	// expression. Everything else in the text is dropped.
	exprRun = regexp.MustCompile(`[0-9+\-*/().^]+`)

	allowed = regexp.MustCompile(`^[0-9+\-*/().^]+$`)

	normalizer = strings.NewReplacer("vezes", "*", "x", "*", "×", "*", "**", "^")
)

// Extract pulls the expression out of a sentence:
// "Quanto é 12 + 35 * 2?" becomes "12+35*2". Extraction is lossy on
// purpose; words between numbers disappear.
func Extract(text string) (string, error) {
	normalized := normalizer.Replace(text)

	runs := exprRun.FindAllString(normalized, -1)
	if len(runs) == 0 {
		return "", ErrExpressionEmpty
	}
	expr := strings.Join(runs, "")

	if !allowed.MatchString(expr) {
		return "", ErrInvalidCharacters
	}
	return expr, nil
}

// Calculate extracts the expression from text and evaluates it.
func Calculate(text string) (float64, error) {
	expr, err := Extract(text)
	if err != nil {
		return 0, err
	}
	return Eval(expr)
}

// Eval evaluates expr. Besides the operators it accepts the constants pi
// and e and the functions sqrt, sin, cos, tan, log, log10, exp, abs,
// floor and ceil.
func Eval(expr string) (float64, error) {
	if strings.TrimSpace(expr) == "" {
		return 0, ErrExpressionEmpty
	}

	toks, err := tokenize(expr)
	if err != nil {
		return 0, err
	}

	p := &parser{toks: toks}
	v, err := p.parse()
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %w", ErrEvaluation, errNonFinite)
	}
	return v, nil
}

// Format renders v for display. Integral values have no decimal part.
func Format(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	abs := math.Abs(v)
	if abs >= 1e-4 && abs < 1e16 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
