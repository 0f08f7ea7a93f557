package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged dice rolling.
// Every roll is logged at debug level with expression, range, and value.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// RollExpr parses expr and rolls it, logging the result.
//
// Postcondition: Returns a value within the parsed expression's range.
func (r *Roller) RollExpr(expr string) int {
	e := Parse(expr)
	value := Roll(e, r.src)
	r.logger.Debug("dice roll",
		zap.String("expression", e.Raw),
		zap.Int("min", e.Min),
		zap.Int("max", e.Max),
		zap.Int("value", value),
	)
	return value
}
