package price

import (
	"sort"
	"strconv"
	"time"

	"github.com/okian/runelens/internal/domain/model"
)

// HistorySeries is the raw graph payload: two maps keyed by
// millisecond-epoch timestamp strings. Key order on the wire carries no
// meaning and must not be trusted.
type HistorySeries struct {
	Daily   map[string]float64 `json:"daily"`
	Average map[string]float64 `json:"average"`
}

// ParseHistory turns both series into sequences sorted ascending by
// timestamp. Keys that do not parse as integers are skipped; the rest of
// the series still parses.
func ParseHistory(series HistorySeries) model.PriceHistory {
	return model.PriceHistory{
		Daily:   parseSeries(series.Daily),
		Average: parseSeries(series.Average),
	}
}

func parseSeries(points map[string]float64) []model.PriceHistoryPoint {
	out := make([]model.PriceHistoryPoint, 0, len(points))
	for key, value := range points {
		ts, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, model.PriceHistoryPoint{
			Date:      dateFromMillis(ts),
			Timestamp: ts,
			Price:     value,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	return out
}

// dateFromMillis derives the calendar date from a millisecond-epoch
// timestamp. The wire is milliseconds; divide before converting.
func dateFromMillis(ms int64) string {
	return time.Unix(ms/1000, 0).UTC().Format("2006-01-02")
}
