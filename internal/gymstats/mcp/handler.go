package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/2beens/gymstats/internal/gymstats/analytics"
	"github.com/2beens/gymstats/internal/gymstats/stats"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handler handles MCP tool requests and responses: parses input, calls the service, formats MCP result.
type Handler struct {
	service      contextService
	defaultWeeks int
}

// NewHandler builds a handler with the given service. defaultWeeks is used when a tool
// call has no weeks argument; 0 derives the week count from the logs.
func NewHandler(service contextService, defaultWeeks int) *Handler {
	return &Handler{
		service:      service,
		defaultWeeks: defaultWeeks,
	}
}

// SchemaInput is the (empty) input for get_gymstats_context.
type SchemaInput struct{}

// GetGymstatsContextTool returns the MCP tool handler for get_gymstats_context.
func (h *Handler) GetGymstatsContextTool() func(context.Context, *mcp.CallToolRequest, SchemaInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ SchemaInput) (*mcp.CallToolResult, any, error) {
		text, err := h.service.GetSchema(ctx)
		if err != nil {
			return errorResult("Error fetching schema: " + err.Error()), nil, nil
		}
		return textResult(text), nil, nil
	}
}

// WeeklyMetricsInput is the input for get_weekly_metrics.
type WeeklyMetricsInput struct {
	Weeks       int    `json:"weeks,omitempty" jsonschema:"Number of weeks ending with the current one (max 104); omit for the default"`
	MuscleGroup string `json:"muscle_group,omitempty" jsonschema:"Only count exercises training this muscle group (e.g. chest, legs)"`
	Exercise    string `json:"exercise,omitempty" jsonschema:"Only count this exercise (e.g. Bench Press)"`
}

// GetWeeklyMetricsTool returns the MCP tool handler for get_weekly_metrics.
func (h *Handler) GetWeeklyMetricsTool() func(context.Context, *mcp.CallToolRequest, WeeklyMetricsInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in WeeklyMetricsInput) (*mcp.CallToolResult, any, error) {
		weeks, err := h.weeks(in.Weeks)
		if err != nil {
			return errorResult("Invalid input: " + err.Error()), nil, nil
		}

		views, err := h.service.GetWeeklyMetrics(ctx, analytics.WeeklyParams{
			Weeks:       weeks,
			MuscleGroup: in.MuscleGroup,
			Exercise:    in.Exercise,
		})
		if err != nil {
			return errorResult("Error computing weekly metrics: " + err.Error()), nil, nil
		}
		return jsonResult(views), nil, nil
	}
}

// MuscleGroupBreakdownInput is the input for get_muscle_group_breakdown.
type MuscleGroupBreakdownInput struct {
	Weeks     int    `json:"weeks,omitempty" jsonschema:"Number of weeks ending with the current one (max 104); omit for the default"`
	Week      string `json:"week,omitempty" jsonschema:"Only this week, by label of its Monday (e.g. Apr 14); omit for all weeks"`
	Breakdown bool   `json:"breakdown,omitempty" jsonschema:"Include the per exercise breakdown of each muscle group"`
}

// GetMuscleGroupBreakdownTool returns the MCP tool handler for get_muscle_group_breakdown.
func (h *Handler) GetMuscleGroupBreakdownTool() func(context.Context, *mcp.CallToolRequest, MuscleGroupBreakdownInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in MuscleGroupBreakdownInput) (*mcp.CallToolResult, any, error) {
		weeks, err := h.weeks(in.Weeks)
		if err != nil {
			return errorResult("Invalid input: " + err.Error()), nil, nil
		}

		groups, err := h.service.GetMuscleGroups(ctx, stats.MuscleGroupsParams{
			Weeks:     weeks,
			Week:      in.Week,
			Breakdown: in.Breakdown,
		})
		if err != nil {
			return errorResult("Error computing muscle groups: " + err.Error()), nil, nil
		}
		if len(groups) == 0 {
			return textResult("No completed workouts in the selected weeks."), nil, nil
		}
		return jsonResult(groups), nil, nil
	}
}

// InsightsInput is the input for get_insights.
type InsightsInput struct {
	Metric string `json:"metric,omitempty" jsonschema:"One of totalWeightLifted, totalSets, averageWeightPerRep, workoutCount (default totalWeightLifted)"`
	Weeks  int    `json:"weeks,omitempty" jsonschema:"Number of weeks ending with the current one (max 104); omit for the default"`
}

// GetInsightsTool returns the MCP tool handler for get_insights.
func (h *Handler) GetInsightsTool() func(context.Context, *mcp.CallToolRequest, InsightsInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in InsightsInput) (*mcp.CallToolResult, any, error) {
		metric, err := parseMetric(in.Metric)
		if err != nil {
			return errorResult("Invalid input: " + err.Error()), nil, nil
		}
		weeks, err := h.weeks(in.Weeks)
		if err != nil {
			return errorResult("Invalid input: " + err.Error()), nil, nil
		}

		insights, err := h.service.GetInsights(ctx, stats.InsightsParams{
			Metric: metric,
			Weeks:  weeks,
		})
		if err != nil {
			return errorResult("Error computing insights: " + err.Error()), nil, nil
		}
		return jsonResult(insights), nil, nil
	}
}

// TrendInput is the input for get_trend.
type TrendInput struct {
	Metric  string `json:"metric,omitempty" jsonschema:"One of totalWeightLifted, totalSets, averageWeightPerRep, workoutCount (default totalWeightLifted)"`
	Periods int    `json:"periods,omitempty" jsonschema:"Number of week-over-week changes to average (default 4, max 52)"`
	Weeks   int    `json:"weeks,omitempty" jsonschema:"Number of weeks ending with the current one (max 104); omit for the default"`
}

// GetTrendTool returns the MCP tool handler for get_trend.
func (h *Handler) GetTrendTool() func(context.Context, *mcp.CallToolRequest, TrendInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in TrendInput) (*mcp.CallToolResult, any, error) {
		metric, err := parseMetric(in.Metric)
		if err != nil {
			return errorResult("Invalid input: " + err.Error()), nil, nil
		}
		weeks, err := h.weeks(in.Weeks)
		if err != nil {
			return errorResult("Invalid input: " + err.Error()), nil, nil
		}
		if in.Periods < 0 || in.Periods > stats.MaxPeriods {
			return errorResult(fmt.Sprintf("Invalid input: periods has to be between 1 and %d", stats.MaxPeriods)), nil, nil
		}

		trend, err := h.service.GetTrend(ctx, stats.TrendParams{
			Metric:  metric,
			Periods: in.Periods,
			Weeks:   weeks,
		})
		if err != nil {
			return errorResult("Error computing trend: " + err.Error()), nil, nil
		}
		return jsonResult(trend), nil, nil
	}
}

// CatalogInput is the input for get_exercise_catalog.
type CatalogInput struct {
	MuscleGroup string `json:"muscle_group,omitempty" jsonschema:"Only exercises training this muscle group as primary or secondary muscle"`
}

// GetExerciseCatalogTool returns the MCP tool handler for get_exercise_catalog.
func (h *Handler) GetExerciseCatalogTool() func(context.Context, *mcp.CallToolRequest, CatalogInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in CatalogInput) (*mcp.CallToolResult, any, error) {
		exercises, err := h.service.GetCatalog(ctx, in.MuscleGroup)
		if err != nil {
			return errorResult("Error fetching catalog: " + err.Error()), nil, nil
		}
		return jsonResult(exercises), nil, nil
	}
}

func (h *Handler) weeks(weeks int) (int, error) {
	if weeks == 0 {
		return h.defaultWeeks, nil
	}
	if weeks < 0 || weeks > stats.MaxWeeks {
		return 0, fmt.Errorf("weeks has to be between 1 and %d", stats.MaxWeeks)
	}
	return weeks, nil
}

func parseMetric(metric string) (analytics.Metric, error) {
	if metric == "" {
		return analytics.MetricTotalWeightLifted, nil
	}
	m, err := analytics.ParseMetric(metric)
	if err != nil {
		return "", fmt.Errorf("unknown metric %q, use one of %v", metric, analytics.Metrics)
	}
	return m, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error())
	}
	return textResult(string(raw))
}
