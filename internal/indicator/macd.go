package indicator

import (
	"fmt"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/strategy-backtest/internal/types"
)

// MACDLines bundles the three series the MACD indicator produces.
type MACDLines struct {
	MACD      Series
	Signal    Series
	Histogram Series
}

// MACDSeries computes the MACD line (fast EMA minus slow EMA), its signal
// line, and the histogram. The signal line is the EMA of only the defined
// MACD values, left-padded back to the original length.
func MACDSeries(values []float64, fastPeriod, slowPeriod, signalPeriod int) MACDLines {
	fastEMA := EMASeries(values, fastPeriod)
	slowEMA := EMASeries(values, slowPeriod)

	macdLine := NewSeries(len(values))

	for i := range macdLine {
		if fastEMA.Valid(i) && slowEMA.Valid(i) {
			macdLine[i] = optional.Some(fastEMA.Value(i) - slowEMA.Value(i))
		}
	}

	defined := make([]float64, 0, len(macdLine))

	for i := range macdLine {
		if macdLine[i].IsSome() {
			defined = append(defined, macdLine[i].Unwrap())
		}
	}

	signalEMA := EMASeries(defined, signalPeriod)

	// Left-pad the signal line to restore positional alignment.
	signalLine := NewSeries(len(macdLine))
	offset := len(macdLine) - len(signalEMA)

	for i := range signalEMA {
		signalLine[offset+i] = signalEMA[i]
	}

	histogram := NewSeries(len(macdLine))

	for i := range macdLine {
		if macdLine.Valid(i) && signalLine.Valid(i) {
			histogram[i] = optional.Some(macdLine.Value(i) - signalLine.Value(i))
		}
	}

	return MACDLines{
		MACD:      macdLine,
		Signal:    signalLine,
		Histogram: histogram,
	}
}

// MACD represents the moving average convergence divergence indicator.
type MACD struct {
	fastPeriod   int
	slowPeriod   int
	signalPeriod int
}

// NewMACD creates a new MACD indicator with default configuration.
func NewMACD() Indicator {
	return &MACD{
		fastPeriod:   12,
		slowPeriod:   26,
		signalPeriod: 9,
	}
}

// Name returns the name of the indicator.
func (m *MACD) Name() types.IndicatorType {
	return types.IndicatorTypeMACD
}

// Config configures the MACD indicator. Expected parameters: fastPeriod
// (int), slowPeriod (int), signalPeriod (int).
func (m *MACD) Config(params ...any) error {
	if len(params) < 3 {
		return fmt.Errorf("Config expects 3 parameters: fastPeriod (int), slowPeriod (int), signalPeriod (int)")
	}

	periods := make([]int, 3)

	for i := 0; i < 3; i++ {
		period, ok := params[i].(int)
		if !ok {
			return fmt.Errorf("invalid type for parameter %d, expected int", i)
		}

		if period <= 0 {
			return fmt.Errorf("period must be a positive integer, got %d", period)
		}

		periods[i] = period
	}

	m.fastPeriod = periods[0]
	m.slowPeriod = periods[1]
	m.signalPeriod = periods[2]

	return nil
}

// Lines returns the MACD, signal and histogram series.
func (m *MACD) Lines(data []types.PricePoint) (MACDLines, error) {
	return MACDSeries(types.Closes(data), m.fastPeriod, m.slowPeriod, m.signalPeriod), nil
}

// Compute implements the Indicator interface and returns the MACD line.
func (m *MACD) Compute(data []types.PricePoint) (Series, error) {
	lines, err := m.Lines(data)
	if err != nil {
		return nil, err
	}

	return lines.MACD, nil
}
