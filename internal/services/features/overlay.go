package features

import (
	"github.com/markcheno/go-talib"
)

// MovingAverage returns a simple moving average aligned with values. Entries before the
// first full window are nil so charts draw a gap instead of a ramp from zero.
// It returns nil when period is out of range for the series.
func MovingAverage(values []float64, period int) []*float64 {
	if period < 2 || len(values) < period {
		return nil
	}
	sma := talib.Sma(values, period)
	out := make([]*float64, len(values))
	for i := period - 1; i < len(sma) && i < len(values); i++ {
		v := sma[i]
		out[i] = &v
	}
	return out
}
