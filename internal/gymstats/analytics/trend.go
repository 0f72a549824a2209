package analytics

import (
	"errors"
	"fmt"
)

type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// trendThreshold is the percent change that must be exceeded (strictly) to leave stable.
const trendThreshold = 5.0

const defaultTrendPeriods = 4

var ErrUnknownMetric = errors.New("unknown metric")

type Metric string

const (
	MetricTotalWeightLifted   Metric = "totalWeightLifted"
	MetricTotalSets           Metric = "totalSets"
	MetricAverageWeightPerRep Metric = "averageWeightPerRep"
	MetricWorkoutCount        Metric = "workoutCount"
)

var Metrics = []Metric{
	MetricTotalWeightLifted,
	MetricTotalSets,
	MetricAverageWeightPerRep,
	MetricWorkoutCount,
}

func ParseMetric(s string) (Metric, error) {
	for _, m := range Metrics {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMetric, s)
}

// Value returns the week's value for the given metric; unknown metrics read as 0.
func (w WeeklyMetrics) Value(metric Metric) float64 {
	switch metric {
	case MetricTotalWeightLifted:
		return w.TotalWeightLifted
	case MetricTotalSets:
		return float64(w.TotalSets)
	case MetricAverageWeightPerRep:
		return w.AverageWeightPerRep
	case MetricWorkoutCount:
		return float64(w.WorkoutCount)
	default:
		return 0
	}
}

// ClassifyTrend maps a percent change onto a trend using a strict ±5% band.
func ClassifyTrend(percentChange float64) Trend {
	switch {
	case percentChange > trendThreshold:
		return TrendIncreasing
	case percentChange < -trendThreshold:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

func percentChange(prev, curr float64) float64 {
	return (curr - prev) / prev * 100
}

// WithTrends returns a copy of weeks where every week after the first carries the percent
// change of total weight lifted against the previous week, and its trend. Weeks following
// a zero-weight week get neither. The input slice is left untouched.
func WithTrends(weeks []WeeklyMetrics) []WeeklyMetrics {
	enriched := make([]WeeklyMetrics, len(weeks))
	copy(enriched, weeks)

	for i := range enriched {
		enriched[i].PercentChangeFromPrevious = nil
		enriched[i].Trend = ""
		if i == 0 {
			continue
		}
		prev := enriched[i-1].TotalWeightLifted
		if prev <= 0 {
			continue
		}
		change := percentChange(prev, enriched[i].TotalWeightLifted)
		enriched[i].PercentChangeFromPrevious = &change
		enriched[i].Trend = ClassifyTrend(change)
	}

	return enriched
}

type WindowTrend struct {
	Trend         Trend   `json:"trend"`
	AverageChange float64 `json:"averageChange"`
	TotalChange   float64 `json:"totalChange"`
}

// TrendOverWindow classifies the average week-over-week change of a metric across the
// last periods+1 weeks (periods <= 0 means 4). Pairs starting at 0 are skipped in the
// average; TotalChange compares the first and last week of the window.
func TrendOverWindow(weeks []WeeklyMetrics, metric Metric, periods int) WindowTrend {
	if periods <= 0 {
		periods = defaultTrendPeriods
	}

	n := min(periods+1, len(weeks))
	if n < 2 {
		return WindowTrend{Trend: TrendStable}
	}
	window := weeks[len(weeks)-n:]

	var changes []float64
	for i := 1; i < len(window); i++ {
		prev := window[i-1].Value(metric)
		if prev == 0 {
			continue
		}
		changes = append(changes, percentChange(prev, window[i].Value(metric)))
	}

	var avg float64
	if len(changes) > 0 {
		var sum float64
		for _, c := range changes {
			sum += c
		}
		avg = sum / float64(len(changes))
	}

	var total float64
	first := window[0].Value(metric)
	if first != 0 {
		total = percentChange(first, window[len(window)-1].Value(metric))
	}

	return WindowTrend{
		Trend:         ClassifyTrend(avg),
		AverageChange: avg,
		TotalChange:   total,
	}
}
