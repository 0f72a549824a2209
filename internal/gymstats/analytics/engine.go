// Package analytics turns workout logs into weekly time series, muscle group volume
// attribution, trends and summary insights. It does no I/O and holds no state between calls.
package analytics

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	OpWeeklyMetrics     = "weekly_metrics"
	OpMuscleGroupRollup = "muscle_group_rollup"
	OpInsights          = "insights"
	OpTrendOverWindow   = "trend_over_window"
)

type EngineParams struct {
	Catalog    Catalog
	Translator Translator
	// Clock defines "today" for week anchoring; defaults to time.Now.
	Clock  func() time.Time
	Logger logrus.FieldLogger
	// OnFailure is called when an operation recovers from a panic and returns its empty result.
	OnFailure func(op string, err error)
}

// Engine runs the aggregations. Every operation is fail-soft: an unexpected failure is logged,
// reported through OnFailure, and turned into an empty result instead of being propagated.
type Engine struct {
	resolver  *Resolver
	clock     func() time.Time
	logger    logrus.FieldLogger
	onFailure func(op string, err error)
}

func NewEngine(params EngineParams) *Engine {
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := params.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Engine{
		resolver:  NewResolver(params.Catalog, params.Translator),
		clock:     clock,
		logger:    logger,
		onFailure: params.OnFailure,
	}
}

func (e *Engine) Resolver() *Resolver {
	return e.resolver
}

// WeeklyMetrics buckets completed logs into Monday-Sunday weeks, oldest first, with
// week-over-week trends filled in. Returns an empty slice when there is nothing to report.
func (e *Engine) WeeklyMetrics(logs []WorkoutLog, params WeeklyParams) (weeks []WeeklyMetrics) {
	defer func() {
		if r := recover(); r != nil {
			e.failed(OpWeeklyMetrics, r)
			weeks = []WeeklyMetrics{}
		}
	}()
	return e.weeklyMetrics(logs, params)
}

// MuscleGroupRollup sums attributed sets per muscle group across the weeks (or only the week
// labelled selectedWeek). When logs are given, each group also gets a per-exercise breakdown.
func (e *Engine) MuscleGroupRollup(weeks []WeeklyMetrics, selectedWeek string, logs []WorkoutLog) (groups []MuscleGroupMetrics) {
	defer func() {
		if r := recover(); r != nil {
			e.failed(OpMuscleGroupRollup, r)
			groups = []MuscleGroupMetrics{}
		}
	}()
	return e.muscleGroupRollup(weeks, selectedWeek, logs)
}

func (e *Engine) Insights(weeks []WeeklyMetrics, metric Metric) (insights Insights) {
	defer func() {
		if r := recover(); r != nil {
			e.failed(OpInsights, r)
			insights = Insights{Metric: metric, Trend: TrendStable}
		}
	}()
	return e.insights(weeks, metric)
}

func (e *Engine) TrendOverWindow(weeks []WeeklyMetrics, metric Metric, periods int) (trend WindowTrend) {
	defer func() {
		if r := recover(); r != nil {
			e.failed(OpTrendOverWindow, r)
			trend = WindowTrend{Trend: TrendStable}
		}
	}()
	return TrendOverWindow(weeks, metric, periods)
}

// CurrentWeekStart is the Monday of the engine's current week. Every week window the
// engine builds is anchored on it, so results computed in different weeks differ.
func (e *Engine) CurrentWeekStart() time.Time {
	return weekMonday(e.today())
}

func (e *Engine) today() time.Time {
	now := e.clock()
	return calendarDate(now.Year(), now.Month(), now.Day())
}

func (e *Engine) failed(op string, recovered any) {
	err, ok := recovered.(error)
	if !ok {
		err = fmt.Errorf("%v", recovered)
	}
	err = fmt.Errorf("analytics %s: %w", op, err)

	e.logger.WithField("op", op).Errorf("analytics operation failed, returning empty result: %s", err)
	if e.onFailure != nil {
		e.onFailure(op, err)
	}
}
