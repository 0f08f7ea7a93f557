package dice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"
)

// seqSource returns preset values in order, cycling.
type seqSource struct {
	values []int
	pos    int
}

func (s *seqSource) Intn(n int) int {
	v := s.values[s.pos%len(s.values)]
	s.pos++
	return v % n
}

func TestParseDie(t *testing.T) {
	e := Parse("d20")
	assert.Equal(t, 1, e.Min)
	assert.Equal(t, 20, e.Max)

	e = Parse("D6")
	assert.Equal(t, 1, e.Min)
	assert.Equal(t, 6, e.Max)

	e = Parse(" d100 ")
	assert.Equal(t, 100, e.Max)
}

func TestParseRange(t *testing.T) {
	e := Parse("3-18")
	assert.Equal(t, 3, e.Min)
	assert.Equal(t, 18, e.Max)

	e = Parse("5-5")
	assert.Equal(t, 5, e.Min)
	assert.Equal(t, 5, e.Max)
}

func TestParseFallbackToD20(t *testing.T) {
	for _, expr := range []string{"", "banana", "d1", "d0", "dX", "9-3", "a-b", "-"} {
		e := Parse(expr)
		assert.Equal(t, 1, e.Min, "expr %q", expr)
		assert.Equal(t, 20, e.Max, "expr %q", expr)
	}
}

func TestParseKeepsRaw(t *testing.T) {
	assert.Equal(t, "D6", Parse("D6").Raw)
	assert.Equal(t, "garbage", Parse("garbage").Raw)
}

func TestRollDeterministic(t *testing.T) {
	src := &seqSource{values: []int{0, 5, 19}}
	e := Parse("d20")
	assert.Equal(t, 1, Roll(e, src))
	assert.Equal(t, 6, Roll(e, src))
	assert.Equal(t, 20, Roll(e, src))
}

func TestRollerLogsAndRolls(t *testing.T) {
	r := NewLoggedRoller(&seqSource{values: []int{3}}, zaptest.NewLogger(t))
	assert.Equal(t, 4, r.RollExpr("d6"))
}

func TestCryptoSourcePanicsOnInvalidN(t *testing.T) {
	src := NewCryptoSource()
	assert.Panics(t, func() { src.Intn(0) })
	assert.Panics(t, func() { src.Intn(-1) })
}

func TestExpressionString(t *testing.T) {
	assert.Equal(t, "d6 [1-6]", Parse("d6").String())
}

// Property-based tests

func TestPropertyParseIsTotal(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		expr := rapid.String().Draw(t, "expr")
		e := Parse(expr)
		if e.Min > e.Max {
			t.Fatalf("parse produced inverted range %d-%d from %q", e.Min, e.Max, expr)
		}
	})
}

func TestPropertyRollInRange(t *testing.T) {
	src := NewCryptoSource()
	rapid.Check(t, func(t *rapid.T) {
		sides := rapid.IntRange(2, 100).Draw(t, "sides")
		e := Expression{Min: 1, Max: sides}
		v := Roll(e, src)
		if v < 1 || v > sides {
			t.Fatalf("roll %d out of range 1-%d", v, sides)
		}
	})
}
