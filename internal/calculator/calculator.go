// Package calculator evaluates two-operand arithmetic of the form "A op B".
package calculator

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"taskboard/internal/apperrors"
)

var (
	ErrDivisionByZero      = apperrors.Domain("DIVISION_BY_ZERO", "cannot divide by zero")
	ErrNegativeSqrt        = apperrors.Domain("INVALID_ARGUMENT", "cannot calculate square root of negative number")
	ErrUnsupportedOperator = apperrors.Domain("UNSUPPORTED_OPERATOR", "unsupported operator")
	ErrInvalidFormat       = apperrors.Validation("INVALID_FORMAT", "invalid expression format, use: 'number operator number'")
	ErrInvalidNumber       = apperrors.Validation("INVALID_NUMBER", "invalid number")
)

// Add returns a + b.
func Add(a, b float64) float64 { return a + b }

// Subtract returns a - b.
func Subtract(a, b float64) float64 { return a - b }

// Multiply returns a * b.
func Multiply(a, b float64) float64 { return a * b }

// Divide fails only when b is exactly zero.
func Divide(a, b float64) (float64, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	return a / b, nil
}

// Power follows math.Pow, so a negative base with a fractional exponent is NaN.
func Power(base, exponent float64) float64 {
	return math.Pow(base, exponent)
}

// Sqrt fails with ErrNegativeSqrt for v < 0.
func Sqrt(v float64) (float64, error) {
	if v < 0 {
		return 0, ErrNegativeSqrt
	}
	return math.Sqrt(v), nil
}

// Calculate splits expression on single spaces into exactly three tokens
// and applies the operator (one of + - * / ^) to the two operands.
// "1 + 2 + 3" and "1  + 2" are rejected.
func Calculate(expression string) (float64, error) {
	parts := strings.Split(expression, " ")
	if len(parts) != 3 {
		return 0, ErrInvalidFormat
	}
	a, err := parseOperand(parts[0])
	if err != nil {
		return 0, err
	}
	b, err := parseOperand(parts[2])
	if err != nil {
		return 0, err
	}
	switch op := parts[1]; op {
	case "+":
		return Add(a, b), nil
	case "-":
		return Subtract(a, b), nil
	case "*":
		return Multiply(a, b), nil
	case "/":
		return Divide(a, b)
	case "^":
		return Power(a, b), nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedOperator, op)
	}
}

// parseOperand accepts anything ParseFloat does; out-of-range values
// overflow to ±Inf instead of failing.
func parseOperand(tok string) (float64, error) {
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("%w: %s", ErrInvalidNumber, tok)
	}
	return v, nil
}
