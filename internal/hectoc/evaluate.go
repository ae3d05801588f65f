package hectoc

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"
)

// Target is the value every hectoc solution must reach.
const Target = 100.0

// Tolerance absorbs floating-point drift from chained divisions.
const Tolerance = 1e-3

var (
	ErrIllegalToken  = errors.New("illegal token")
	ErrOrderMismatch = errors.New("order mismatch")
	ErrMathError     = errors.New("math error")
)

// Result is the structured feedback returned for a submission.
type Result struct {
	Valid  bool    `json:"valid"`
	Result float64 `json:"result"`
	Error  string  `json:"error,omitempty"`
}

// Evaluate checks an expression against a puzzle sequence: the digits
// of the expression, read left to right, must equal the sequence
// exactly, and the expression must evaluate to 100 within Tolerance.
func Evaluate(expression, sequence string) Result {
	canonical := Normalize(expression)

	if err := checkCharset(canonical); err != nil {
		return Result{Error: errCode(err)}
	}
	if !digitsMatch(canonical, sequence) {
		return Result{Error: errCode(ErrOrderMismatch)}
	}

	value, err := evalExpr(canonical)
	if err != nil {
		return Result{Error: errCode(err)}
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Result{Error: errCode(ErrMathError)}
	}

	rounded := math.Round(value*1000) / 1000
	return Result{
		Valid:  math.Abs(value-Target) < Tolerance,
		Result: rounded,
	}
}

// Normalize folds glyph variants into the canonical operator set and
// strips whitespace. The charset check runs on this form so synonym
// substitution cannot smuggle characters past the whitelist.
func Normalize(expression string) string {
	r := strings.NewReplacer(
		"×", "*",
		"÷", "/",
		"−", "-",
		"**", "^",
	)
	var b strings.Builder
	for _, c := range r.Replace(expression) {
		if unicode.IsSpace(c) {
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

func checkCharset(canonical string) error {
	for _, c := range canonical {
		switch {
		case c >= '0' && c <= '9':
		case c == '+' || c == '-' || c == '*' || c == '/' || c == '^':
		case c == '(' || c == ')':
		default:
			return ErrIllegalToken
		}
	}
	return nil
}

// digitsMatch requires the digit subsequence of the expression to be
// exactly the puzzle sequence: no omission, repetition or reorder.
func digitsMatch(canonical, sequence string) bool {
	i := 0
	for _, c := range canonical {
		if c < '0' || c > '9' {
			continue
		}
		if i >= len(sequence) || byte(c) != sequence[i] {
			return false
		}
		i++
	}
	return i == len(sequence)
}

func errCode(err error) string {
	switch {
	case errors.Is(err, ErrIllegalToken):
		return "illegal_token"
	case errors.Is(err, ErrOrderMismatch):
		return "order_mismatch"
	case errors.Is(err, ErrMathError):
		return "math_error"
	}
	return "math_error"
}

// --- parser ---
//
// Precedence climbing over the canonical string. Grammar:
//
//	expr    = unary { binop unary }
//	unary   = "-" unary | primary
//	primary = number | "(" expr ")"
//
// ^ binds tightest and is right-associative, then * /, then + -.

type parser struct {
	src string
	pos int
}

func evalExpr(canonical string) (float64, error) {
	if canonical == "" {
		return 0, ErrIllegalToken
	}
	p := &parser{src: canonical}
	v, err := p.parseExpr(0)
	if err != nil {
		return 0, err
	}
	if p.pos != len(p.src) {
		return 0, ErrIllegalToken
	}
	return v, nil
}

func precedence(op byte) int {
	switch op {
	case '+', '-':
		return 1
	case '*', '/':
		return 2
	case '^':
		return 3
	}
	return 0
}

func (p *parser) parseExpr(minPrec int) (float64, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}

	for p.pos < len(p.src) {
		op := p.src[p.pos]
		prec := precedence(op)
		if prec == 0 || prec < minPrec {
			break
		}
		p.pos++

		// Right-associative exponent keeps the same precedence on
		// recursion; the left-associative operators bump it.
		next := prec + 1
		if op == '^' {
			next = prec
		}
		right, err := p.parseExpr(next)
		if err != nil {
			return 0, err
		}

		switch op {
		case '+':
			left += right
		case '-':
			left -= right
		case '*':
			left *= right
		case '/':
			if right == 0 {
				return 0, fmt.Errorf("division by zero: %w", ErrMathError)
			}
			left /= right
		case '^':
			left = math.Pow(left, right)
		}
	}
	return left, nil
}

func (p *parser) parseUnary() (float64, error) {
	if p.pos < len(p.src) && p.src[p.pos] == '-' {
		p.pos++
		v, err := p.parseUnary()
		return -v, err
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (float64, error) {
	if p.pos >= len(p.src) {
		return 0, ErrIllegalToken
	}

	if p.src[p.pos] == '(' {
		p.pos++
		v, err := p.parseExpr(0)
		if err != nil {
			return 0, err
		}
		if p.pos >= len(p.src) || p.src[p.pos] != ')' {
			return 0, ErrIllegalToken
		}
		p.pos++
		return v, nil
	}

	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	if p.pos == start {
		return 0, ErrIllegalToken
	}

	var v float64
	for _, c := range p.src[start:p.pos] {
		v = v*10 + float64(c-'0')
	}
	return v, nil
}
