// Package core holds the domain types shared across the charting engine:
// candles, world/screen coordinates, and the primitive canvas contract.
package core

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

// Candle represents a single OHLCV bar. Candles are ordered by time,
// carry unique timestamps, and are immutable once handed to the engine.
type Candle struct {
	Pair     string
	Time     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   float64
	Complete bool
}

// GetTime returns the timestamp of the candle.
func (c Candle) GetTime() time.Time { return c.Time }

// TimeMillis returns the candle timestamp as Unix milliseconds, the unit
// used by world coordinates.
func (c Candle) TimeMillis() int64 { return c.Time.UnixMilli() }

// IsEmpty reports whether the candle contains no significant data.
func (c Candle) IsEmpty() bool { return c.Open == 0 && c.Close == 0 && c.Volume == 0 }

// ToSlice converts a candle to a string slice for CSV serialization
// with the specified decimal precision.
func (c Candle) ToSlice(precision int) []string {
	return []string{
		fmt.Sprintf("%d", c.Time.Unix()),
		strconv.FormatFloat(c.Open, 'f', precision, 64),
		strconv.FormatFloat(c.Close, 'f', precision, 64),
		strconv.FormatFloat(c.Low, 'f', precision, 64),
		strconv.FormatFloat(c.High, 'f', precision, 64),
		strconv.FormatFloat(c.Volume, 'f', precision, 64),
	}
}

// SortCandles orders candles by time ascending, in place.
func SortCandles(candles []Candle) {
	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Time.Before(candles[j].Time)
	})
}

// PriceExtent returns the lowest low and highest high over the given candles.
// Returns ok=false for an empty slice.
func PriceExtent(candles []Candle) (low, high float64, ok bool) {
	if len(candles) == 0 {
		return 0, 0, false
	}

	low, high = candles[0].Low, candles[0].High
	for _, c := range candles[1:] {
		if c.Low < low {
			low = c.Low
		}
		if c.High > high {
			high = c.High
		}
	}

	return low, high, true
}
