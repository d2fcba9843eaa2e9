package mocks

import (
	"testing"
	"time"
)

func TestDataGenerator_Generate(t *testing.T) {
	gen := NewDataGenerator(42) // Fixed seed for reproducibility
	config := DefaultConfig()
	config.Count = 100

	data := gen.Generate(config)

	if len(data) != 100 {
		t.Errorf("expected 100 data points, got %d", len(data))
	}

	// Verify data is in chronological order
	for i := 1; i < len(data); i++ {
		if !data[i].Time.After(data[i-1].Time) {
			t.Errorf("data not in chronological order at index %d", i)
		}
	}

	// Verify OHLC values are positive
	for i, d := range data {
		if d.Open <= 0 || d.High <= 0 || d.Low <= 0 || d.Close <= 0 {
			t.Errorf("invalid OHLC values at index %d: O=%f H=%f L=%f C=%f",
				i, d.Open, d.High, d.Low, d.Close)
		}
	}

	// Verify High >= Low
	for i, d := range data {
		if d.High < d.Low {
			t.Errorf("High < Low at index %d: H=%f L=%f", i, d.High, d.Low)
		}
	}

	// Verify time intervals
	for i := 1; i < len(data); i++ {
		interval := data[i].Time.Sub(data[i-1].Time)
		if interval != config.Interval {
			t.Errorf("unexpected interval at index %d: %v", i, interval)
		}
	}
}

func TestDataGenerator_Reproducible(t *testing.T) {
	config := DefaultConfig()
	config.Count = 50

	first := NewDataGenerator(7).Generate(config)
	second := NewDataGenerator(7).Generate(config)

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("generated data differs at index %d with the same seed", i)
		}
	}
}

func TestDataGenerator_Trend(t *testing.T) {
	config := DefaultConfig()
	config.Count = 500
	config.Volatility = 0.001
	config.Trend = 5.0 // Strong bullish drift

	data := NewDataGenerator(42).Generate(config)

	if data[len(data)-1].Close <= data[0].Close {
		t.Errorf("expected upward drift, first close %f, last close %f",
			data[0].Close, data[len(data)-1].Close)
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Interval != 24*time.Hour {
		t.Errorf("expected default interval of one day, got %v", config.Interval)
	}

	if config.InitialPrice != 100.0 {
		t.Errorf("expected default initial price 100.0, got %f", config.InitialPrice)
	}

	if config.Count != 252 {
		t.Errorf("expected one trading year of bars, got %d", config.Count)
	}
}
