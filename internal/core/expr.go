package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// EvaluateExpression resolves committed field input against the field's
// current value.
//
//   - Input starting with an operator is an incremental update: "+50"
//     on a field holding 100 evaluates "100+50".
//   - Input containing an operator anywhere else replaces the value
//     with the standalone expression: "20*3" evaluates to 60.
//   - Anything else is a plain currency value.
//
// Only + - * / with standard precedence are understood; there is no
// identifier resolution and no parenthesization. Division by zero is
// an error, which callers absorb by keeping the prior value.
func EvaluateExpression(current decimal.Decimal, raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, ErrNotNumeric
	}
	if isOperator(rune(raw[0])) {
		return evalArithmetic(current.String() + raw)
	}
	if strings.ContainsAny(raw, "+-*/") {
		return evalArithmetic(raw)
	}
	return ParseCurrency(raw)
}

func isOperator(r rune) bool {
	return r == '+' || r == '-' || r == '*' || r == '/'
}

type exprToken struct {
	op  byte // 0 for a number token
	num decimal.Decimal
}

// tokenize splits an expression into number and operator tokens.
// Any character outside digits, '.', operators and spaces is rejected.
func tokenize(expr string) ([]exprToken, error) {
	var toks []exprToken
	i := 0
	for i < len(expr) {
		c := expr[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case isOperator(rune(c)):
			toks = append(toks, exprToken{op: c})
			i++
		case c >= '0' && c <= '9' || c == '.':
			j := i
			for j < len(expr) && (expr[j] >= '0' && expr[j] <= '9' || expr[j] == '.') {
				j++
			}
			d, err := decimal.NewFromString(expr[i:j])
			if err != nil {
				return nil, ErrNotNumeric
			}
			toks = append(toks, exprToken{num: d})
			i = j
		default:
			return nil, ErrNotNumeric
		}
	}
	if len(toks) == 0 {
		return nil, ErrNotNumeric
	}
	return toks, nil
}

// exprParser is a precedence-climbing evaluator over the token stream.
type exprParser struct {
	toks []exprToken
	pos  int
}

func evalArithmetic(expr string) (decimal.Decimal, error) {
	toks, err := tokenize(expr)
	if err != nil {
		return decimal.Zero, err
	}
	p := &exprParser{toks: toks}
	result, err := p.parse(0)
	if err != nil {
		return decimal.Zero, err
	}
	if p.pos != len(p.toks) {
		return decimal.Zero, ErrNotNumeric
	}
	return result, nil
}

func precedence(op byte) int {
	if op == '*' || op == '/' {
		return 2
	}
	return 1
}

func (p *exprParser) parse(minPrec int) (decimal.Decimal, error) {
	left, err := p.primary()
	if err != nil {
		return decimal.Zero, err
	}
	for p.pos < len(p.toks) {
		tok := p.toks[p.pos]
		if tok.op == 0 || precedence(tok.op) < minPrec {
			break
		}
		p.pos++
		right, err := p.parse(precedence(tok.op) + 1)
		if err != nil {
			return decimal.Zero, err
		}
		switch tok.op {
		case '+':
			left = left.Add(right)
		case '-':
			left = left.Sub(right)
		case '*':
			left = left.Mul(right)
		case '/':
			if right.IsZero() {
				return decimal.Zero, ErrNotNumeric
			}
			left = left.Div(right)
		}
	}
	return left, nil
}

// primary consumes an optional run of unary signs followed by a number.
func (p *exprParser) primary() (decimal.Decimal, error) {
	negate := false
	for p.pos < len(p.toks) && (p.toks[p.pos].op == '-' || p.toks[p.pos].op == '+') {
		if p.toks[p.pos].op == '-' {
			negate = !negate
		}
		p.pos++
	}
	if p.pos >= len(p.toks) || p.toks[p.pos].op != 0 {
		return decimal.Zero, ErrNotNumeric
	}
	n := p.toks[p.pos].num
	p.pos++
	if negate {
		n = n.Neg()
	}
	return n, nil
}
