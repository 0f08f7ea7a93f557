// Package dice provides the randomness abstraction and roll grammar for
// player dice rolls.
package dice

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Source is the randomness provider for dice rolls.
//
// Implementations must be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// cryptoSource implements Source using crypto/rand.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
//
// Postcondition: every value returned by Intn is uniform in [0, n).
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Intn returns a cryptographically secure random int in [0, n).
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" if n <= 0.
func (c *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

// Expression is a parsed roll request: an inclusive integer range.
type Expression struct {
	Raw string // original input string, e.g. "d20" or "3-18"
	Min int
	Max int
}

// Parse parses a roll request string into an Expression.
//
// Supported forms: "dN" for an N-sided die (range 1..N) and "min-max" for
// a custom inclusive range. Anything else — including malformed numbers
// and inverted ranges — falls back to a d20. Parse is total: it never
// returns an error and never panics.
//
// Postcondition: result.Min <= result.Max and result.Min >= 1 for die
// forms.
func Parse(expr string) Expression {
	raw := expr
	s := strings.TrimSpace(strings.ToLower(expr))

	if strings.HasPrefix(s, "d") {
		sides, err := strconv.Atoi(s[1:])
		if err == nil && sides >= 2 {
			return Expression{Raw: raw, Min: 1, Max: sides}
		}
		return d20(raw)
	}

	if lo, hi, ok := strings.Cut(s, "-"); ok {
		min, errLo := strconv.Atoi(strings.TrimSpace(lo))
		max, errHi := strconv.Atoi(strings.TrimSpace(hi))
		if errLo == nil && errHi == nil && min <= max {
			return Expression{Raw: raw, Min: min, Max: max}
		}
	}

	return d20(raw)
}

func d20(raw string) Expression {
	return Expression{Raw: raw, Min: 1, Max: 20}
}

// Roll evaluates an Expression using the given Source.
//
// Precondition: expr must come from Parse (Min <= Max); src must be non-nil.
// Postcondition: Min <= result <= Max.
func Roll(expr Expression, src Source) int {
	return expr.Min + src.Intn(expr.Max-expr.Min+1)
}

// String renders the expression's range for audit output.
func (e Expression) String() string {
	return fmt.Sprintf("%s [%d-%d]", e.Raw, e.Min, e.Max)
}
