// Package feed loads candle data for the chart. The engine itself only
// ever sees the resulting ordered candle slice.
package feed

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/raykavin/chartline/pkg/core"
	str2duration "github.com/xhit/go-str2duration/v2"
)

// defaultHeaderMap is the column layout of a headerless CSV file.
var defaultHeaderMap = map[string]int{
	"time": 0, "open": 1, "close": 2, "low": 3, "high": 4, "volume": 5,
}

// LoadCSV reads candles from a CSV file. A header row is auto-detected:
// when the first cell is not a number, the row names the columns.
// Timestamps are Unix seconds.
func LoadCSV(file, pair string) ([]core.Candle, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, errors.Wrap(err, "opening csv feed")
	}
	defer f.Close()

	lines, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "reading csv feed")
	}
	if len(lines) == 0 {
		return nil, errors.New("csv feed is empty")
	}

	headerMap, hasHeader := parseHeaders(lines[0])
	if hasHeader {
		lines = lines[1:]
	}

	candles := make([]core.Candle, 0, len(lines))
	for i, line := range lines {
		candle, err := parseCandle(line, headerMap, pair)
		if err != nil {
			return nil, errors.Wrapf(err, "csv line %d", i+1)
		}
		candles = append(candles, candle)
	}

	core.SortCandles(candles)
	return candles, nil
}

// parseHeaders returns the column index map, detecting a header row.
func parseHeaders(headers []string) (map[string]int, bool) {
	if _, err := strconv.Atoi(headers[0]); err == nil {
		return defaultHeaderMap, false
	}

	headerMap := make(map[string]int, len(headers))
	for index, header := range headers {
		headerMap[header] = index
	}
	return headerMap, true
}

// parseCandle builds one candle from a CSV line.
func parseCandle(line []string, headerMap map[string]int, pair string) (core.Candle, error) {
	get := func(column string) (float64, error) {
		idx, ok := headerMap[column]
		if !ok || idx >= len(line) {
			return 0, errors.Errorf("missing column %q", column)
		}
		return strconv.ParseFloat(line[idx], 64)
	}

	tsIdx, ok := headerMap["time"]
	if !ok || tsIdx >= len(line) {
		return core.Candle{}, errors.New("missing column \"time\"")
	}
	timestamp, err := strconv.ParseInt(line[tsIdx], 10, 64)
	if err != nil {
		return core.Candle{}, errors.Wrap(err, "parsing timestamp")
	}

	candle := core.Candle{
		Pair:     pair,
		Time:     time.Unix(timestamp, 0).UTC(),
		Complete: true,
	}

	if candle.Open, err = get("open"); err != nil {
		return core.Candle{}, err
	}
	if candle.Close, err = get("close"); err != nil {
		return core.Candle{}, err
	}
	if candle.Low, err = get("low"); err != nil {
		return core.Candle{}, err
	}
	if candle.High, err = get("high"); err != nil {
		return core.Candle{}, err
	}
	if candle.Volume, err = get("volume"); err != nil {
		return core.Candle{}, err
	}

	return candle, nil
}

// Resample aggregates candles into a larger timeframe such as "15m",
// "1h" or "1d". Buckets align to the Unix epoch.
func Resample(candles []core.Candle, timeframe string) ([]core.Candle, error) {
	bucket, err := str2duration.ParseDuration(timeframe)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid timeframe %q", timeframe)
	}
	if bucket <= 0 {
		return nil, errors.Errorf("invalid timeframe %q", timeframe)
	}

	out := make([]core.Candle, 0, len(candles))
	var current core.Candle
	var currentStart time.Time
	open := false

	flush := func() {
		if open {
			out = append(out, current)
			open = false
		}
	}

	for _, c := range candles {
		start := c.Time.Truncate(bucket)

		if !open || !start.Equal(currentStart) {
			flush()
			current = c
			current.Time = start
			currentStart = start
			open = true
			continue
		}

		current.High = maxFloat(current.High, c.High)
		current.Low = minFloat(current.Low, c.Low)
		current.Close = c.Close
		current.Volume += c.Volume
	}
	flush()

	return out, nil
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
