package types

import "time"

type SignalType string

const (
	// SignalTypeLong is a signal that tells the engine to open or keep a long position
	SignalTypeLong SignalType = "long"
	// SignalTypeShort is a signal that tells the engine to open a short position, or to close a long one
	SignalTypeShort SignalType = "short"
	// SignalTypeNone is the absence of a directional instruction for the bar
	SignalTypeNone SignalType = "none"
)

type Signal struct {
	// Time is the time of the signal
	Time time.Time
	// Type is the type of the signal
	Type SignalType
	// Reason is the reason for the signal
	Reason string
	// Strategy is the strategy type that generated the signal
	Strategy StrategyType
	// BarIndex is the index of the bar the signal fired on
	BarIndex int
}
