package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/gymstats/internal/gymstats/analytics"
	"github.com/2beens/gymstats/internal/gymstats/workouts"
	"github.com/2beens/gymstats/internal/telemetry/metrics"
	"github.com/2beens/gymstats/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=stats_test

type workoutsLister interface {
	ListAll(ctx context.Context, params workouts.ListAllParams) ([]analytics.WorkoutLog, error)
}

type resultCache interface {
	Key(ctx context.Context, op, params string) (string, error)
	Load(ctx context.Context, key string, dst any) (bool, error)
	Store(ctx context.Context, key string, value any) error
}

type MuscleGroupsParams struct {
	Weeks int
	// Week is a week label (e.g. "Apr 14"); empty means all weeks.
	Week      string
	Breakdown bool
}

type TrendParams struct {
	Metric  analytics.Metric
	Periods int
	Weeks   int
}

type InsightsParams struct {
	Metric analytics.Metric
	Weeks  int
}

// Service runs the analytics engine over the stored, completed workout logs.
// Results are cached when a cache is configured; cache failures only cost a recomputation.
type Service struct {
	engine         *analytics.Engine
	repo           workoutsLister
	cache          resultCache
	metricsManager *metrics.Manager
}

func NewService(
	engine *analytics.Engine,
	repo workoutsLister,
	cache resultCache,
	metricsManager *metrics.Manager,
) *Service {
	return &Service{
		engine:         engine,
		repo:           repo,
		cache:          cache,
		metricsManager: metricsManager,
	}
}

func (s *Service) WeeklyMetrics(ctx context.Context, params analytics.WeeklyParams) (_ []analytics.WeeklyMetrics, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.gymstats.stats.weekly")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("weeks", params.Weeks))
	span.SetAttributes(attribute.String("muscle_group", params.MuscleGroup))
	span.SetAttributes(attribute.String("exercise", params.Exercise))

	return runCached(ctx, s, analytics.OpWeeklyMetrics,
		fmt.Sprintf("%d|%s|%s", params.Weeks, params.MuscleGroup, params.Exercise),
		func(logs []analytics.WorkoutLog) []analytics.WeeklyMetrics {
			return s.engine.WeeklyMetrics(logs, params)
		},
	)
}

func (s *Service) MuscleGroups(ctx context.Context, params MuscleGroupsParams) (_ []analytics.MuscleGroupMetrics, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.gymstats.stats.muscle_groups")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("weeks", params.Weeks))
	span.SetAttributes(attribute.String("week", params.Week))
	span.SetAttributes(attribute.Bool("breakdown", params.Breakdown))

	return runCached(ctx, s, analytics.OpMuscleGroupRollup,
		fmt.Sprintf("%d|%s|%t", params.Weeks, params.Week, params.Breakdown),
		func(logs []analytics.WorkoutLog) []analytics.MuscleGroupMetrics {
			weeks := s.engine.WeeklyMetrics(logs, analytics.WeeklyParams{Weeks: params.Weeks})
			var breakdownLogs []analytics.WorkoutLog
			if params.Breakdown {
				breakdownLogs = logs
			}
			return s.engine.MuscleGroupRollup(weeks, params.Week, breakdownLogs)
		},
	)
}

func (s *Service) Insights(ctx context.Context, params InsightsParams) (_ analytics.Insights, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.gymstats.stats.insights")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("metric", string(params.Metric)))
	span.SetAttributes(attribute.Int("weeks", params.Weeks))

	return runCached(ctx, s, analytics.OpInsights,
		fmt.Sprintf("%s|%d", params.Metric, params.Weeks),
		func(logs []analytics.WorkoutLog) analytics.Insights {
			weeks := s.engine.WeeklyMetrics(logs, analytics.WeeklyParams{Weeks: params.Weeks})
			return s.engine.Insights(weeks, params.Metric)
		},
	)
}

func (s *Service) Trend(ctx context.Context, params TrendParams) (_ analytics.WindowTrend, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.gymstats.stats.trend")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("metric", string(params.Metric)))
	span.SetAttributes(attribute.Int("periods", params.Periods))
	span.SetAttributes(attribute.Int("weeks", params.Weeks))

	return runCached(ctx, s, analytics.OpTrendOverWindow,
		fmt.Sprintf("%s|%d|%d", params.Metric, params.Periods, params.Weeks),
		func(logs []analytics.WorkoutLog) analytics.WindowTrend {
			weeks := s.engine.WeeklyMetrics(logs, analytics.WeeklyParams{Weeks: params.Weeks})
			return s.engine.TrendOverWindow(weeks, params.Metric, params.Periods)
		},
	)
}

// runCached returns op's result from the cache, or loads the completed logs, runs compute
// and stores its result. Cache keys include the engine's current week start, since week
// windows move with the clock while the cached inputs do not.
func runCached[T any](
	ctx context.Context,
	s *Service,
	op, params string,
	compute func(logs []analytics.WorkoutLog) T,
) (T, error) {
	var result T

	var key string
	if s.cache != nil {
		var err error
		anchored := s.engine.CurrentWeekStart().Format("2006-01-02") + "|" + params
		if key, err = s.cache.Key(ctx, op, anchored); err != nil {
			log.Warnf("stats cache key [%s]: %s", op, err)
		} else if found, err := s.cache.Load(ctx, key, &result); err != nil {
			log.Warnf("stats cache load [%s]: %s", key, err)
		} else if found {
			s.metricsManager.CounterStatsCacheHits.Inc()
			return result, nil
		}
		s.metricsManager.CounterStatsCacheMisses.Inc()
	}

	logs, err := s.repo.ListAll(ctx, workouts.ListAllParams{CompletedOnly: true})
	if err != nil {
		return result, fmt.Errorf("list completed workouts: %w", err)
	}

	begin := time.Now()
	result = compute(logs)
	s.metricsManager.HistogramAnalyticsDuration.WithLabelValues(op).Observe(time.Since(begin).Seconds())

	if key != "" {
		if err := s.cache.Store(ctx, key, result); err != nil {
			log.Warnf("stats cache store [%s]: %s", key, err)
		}
	}
	return result, nil
}
