package stats

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/2beens/gymstats/internal/gymstats/analytics"
	"github.com/2beens/gymstats/internal/telemetry/tracing"
	"github.com/2beens/gymstats/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=stats_test

type statsService interface {
	WeeklyMetrics(ctx context.Context, params analytics.WeeklyParams) ([]analytics.WeeklyMetrics, error)
	MuscleGroups(ctx context.Context, params MuscleGroupsParams) ([]analytics.MuscleGroupMetrics, error)
	Insights(ctx context.Context, params InsightsParams) (analytics.Insights, error)
	Trend(ctx context.Context, params TrendParams) (analytics.WindowTrend, error)
}

const (
	MaxWeeks   = 104
	MaxPeriods = 52
)

// WeekView is a week of metrics with display strings for the weight and the weekly change.
type WeekView struct {
	analytics.WeeklyMetrics
	FormattedWeight string `json:"formattedWeight"`
	FormattedChange string `json:"formattedChange,omitempty"`
}

// NewWeekViews never returns nil, so an empty series encodes as [].
func NewWeekViews(weeks []analytics.WeeklyMetrics) []WeekView {
	views := make([]WeekView, 0, len(weeks))
	for _, week := range weeks {
		view := WeekView{
			WeeklyMetrics:   week,
			FormattedWeight: analytics.FormatWeight(week.TotalWeightLifted),
		}
		if week.PercentChangeFromPrevious != nil {
			view.FormattedChange = analytics.FormatPercentChange(*week.PercentChangeFromPrevious)
		}
		views = append(views, view)
	}
	return views
}

type WeeklyResponse struct {
	Weeks []WeekView `json:"weeks"`
}

type MuscleGroupsResponse struct {
	Week         string                         `json:"week,omitempty"`
	MuscleGroups []analytics.MuscleGroupMetrics `json:"muscleGroups"`
}

type InsightsResponse struct {
	analytics.Insights
	FormattedAverage       string `json:"formattedAverage"`
	FormattedAverageGrowth string `json:"formattedAverageGrowth"`
}

type TrendResponse struct {
	analytics.WindowTrend
	Metric                 analytics.Metric `json:"metric"`
	Periods                int              `json:"periods"`
	FormattedAverageChange string           `json:"formattedAverageChange"`
	FormattedTotalChange   string           `json:"formattedTotalChange"`
}

type Handler struct {
	service statsService
	// weeks used when the request has no weeks parameter; 0 derives it from the logs
	defaultWeeks int
}

func NewHandler(service statsService, defaultWeeks int) *Handler {
	return &Handler{
		service:      service,
		defaultWeeks: defaultWeeks,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/gymstats/stats/weekly", handler.HandleWeekly).Methods("GET", "OPTIONS").Name("stats-weekly")
	r.HandleFunc("/gymstats/stats/muscle-groups", handler.HandleMuscleGroups).Methods("GET", "OPTIONS").Name("stats-muscle-groups")
	r.HandleFunc("/gymstats/stats/insights", handler.HandleInsights).Methods("GET", "OPTIONS").Name("stats-insights")
	r.HandleFunc("/gymstats/stats/trend", handler.HandleTrend).Methods("GET", "OPTIONS").Name("stats-trend")
}

func (handler *Handler) HandleWeekly(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.stats.weekly")
	defer span.End()

	query := r.URL.Query()
	weeks, err := handler.weeksParam(query)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	weekly, err := handler.service.WeeklyMetrics(ctx, analytics.WeeklyParams{
		Weeks:       weeks,
		MuscleGroup: query.Get("muscle_group"),
		Exercise:    query.Get("exercise"),
	})
	if err != nil {
		log.Errorf("get weekly metrics: %s", err)
		http.Error(w, "failed to get weekly metrics", http.StatusInternalServerError)
		return
	}

	writeJSON(w, WeeklyResponse{Weeks: NewWeekViews(weekly)})
}

func (handler *Handler) HandleMuscleGroups(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.stats.muscle_groups")
	defer span.End()

	query := r.URL.Query()
	weeks, err := handler.weeksParam(query)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	breakdown := false
	if breakdownStr := query.Get("breakdown"); breakdownStr != "" {
		if breakdown, err = strconv.ParseBool(breakdownStr); err != nil {
			http.Error(w, "failed to parse breakdown param", http.StatusBadRequest)
			return
		}
	}

	params := MuscleGroupsParams{
		Weeks:     weeks,
		Week:      query.Get("week"),
		Breakdown: breakdown,
	}
	groups, err := handler.service.MuscleGroups(ctx, params)
	if err != nil {
		log.Errorf("get muscle groups: %s", err)
		http.Error(w, "failed to get muscle groups", http.StatusInternalServerError)
		return
	}

	writeJSON(w, MuscleGroupsResponse{
		Week:         params.Week,
		MuscleGroups: groups,
	})
}

func (handler *Handler) HandleInsights(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.stats.insights")
	defer span.End()

	query := r.URL.Query()
	weeks, err := handler.weeksParam(query)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	metric, err := metricParam(query)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	insights, err := handler.service.Insights(ctx, InsightsParams{
		Metric: metric,
		Weeks:  weeks,
	})
	if err != nil {
		log.Errorf("get insights [%s]: %s", metric, err)
		http.Error(w, "failed to get insights", http.StatusInternalServerError)
		return
	}

	resp := InsightsResponse{
		Insights:               insights,
		FormattedAverageGrowth: analytics.FormatPercentChange(insights.AverageGrowth),
	}
	if metric == analytics.MetricTotalWeightLifted {
		resp.FormattedAverage = analytics.FormatWeight(insights.Average)
	} else {
		resp.FormattedAverage = strconv.FormatFloat(insights.Average, 'f', 1, 64)
	}

	writeJSON(w, resp)
}

func (handler *Handler) HandleTrend(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.stats.trend")
	defer span.End()

	query := r.URL.Query()
	weeks, err := handler.weeksParam(query)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	metric, err := metricParam(query)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	periods, err := intParam(query, "periods", 4, 1, MaxPeriods)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	trend, err := handler.service.Trend(ctx, TrendParams{
		Metric:  metric,
		Periods: periods,
		Weeks:   weeks,
	})
	if err != nil {
		log.Errorf("get trend [%s]: %s", metric, err)
		http.Error(w, "failed to get trend", http.StatusInternalServerError)
		return
	}

	writeJSON(w, TrendResponse{
		WindowTrend:            trend,
		Metric:                 metric,
		Periods:                periods,
		FormattedAverageChange: analytics.FormatPercentChange(trend.AverageChange),
		FormattedTotalChange:   analytics.FormatPercentChange(trend.TotalChange),
	})
}

// weeksParam reads weeks: absent means the handler default, 0 derives the count from the logs.
func (handler *Handler) weeksParam(query url.Values) (int, error) {
	return intParam(query, "weeks", handler.defaultWeeks, 0, MaxWeeks)
}

func metricParam(query url.Values) (analytics.Metric, error) {
	metricStr := query.Get("metric")
	if metricStr == "" {
		return analytics.MetricTotalWeightLifted, nil
	}
	return analytics.ParseMetric(metricStr)
}

func intParam(query url.Values, name string, def, minVal, maxVal int) (int, error) {
	valStr := query.Get(name)
	if valStr == "" {
		return def, nil
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Tracef("parse <%s> param: %s", name, err)
		return 0, fmt.Errorf("parameter <%s> NaN", name)
	}
	if val < minVal || val > maxVal {
		return 0, fmt.Errorf("parameter <%s> has to be between %d and %d", name, minVal, maxVal)
	}
	return val, nil
}

func writeJSON(w http.ResponseWriter, resp any) {
	pkg.WriteJSON(w, resp, http.StatusOK)
}
