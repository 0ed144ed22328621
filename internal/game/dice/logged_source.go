package dice

import "go.uber.org/zap"

// LoggedSource wraps a Source and logs every draw at debug level.
type LoggedSource struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedSource creates a Source that draws from src and logs each draw to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedSource(src Source, logger *zap.Logger) *LoggedSource {
	return &LoggedSource{src: src, logger: logger}
}

// Intn draws from the wrapped source and logs the bound and result.
func (l *LoggedSource) Intn(n int) int {
	v := l.src.Intn(n)
	l.logger.Debug("random int", zap.Int("n", n), zap.Int("value", v))
	return v
}

// Float64 draws from the wrapped source and logs the sample.
func (l *LoggedSource) Float64() float64 {
	v := l.src.Float64()
	l.logger.Debug("random sample", zap.Float64("value", v))
	return v
}

// Roll evaluates expr against the wrapped source and logs the full roll.
//
// Postcondition: Returns the same result as Roll(expr, l).
func (l *LoggedSource) Roll(expr Expression) RollResult {
	result := Roll(expr, l.src)
	l.logger.Debug("dice roll",
		zap.String("expression", result.Expression),
		zap.Ints("dice", result.Dice),
		zap.Int("modifier", result.Modifier),
		zap.Int("total", result.Total()),
	)
	return result
}
