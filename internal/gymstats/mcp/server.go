package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const ServerVersion = "1.0.0"

// NewServer builds an MCP server with the gymstats analytics tools. Used over stdio by
// cmd/gymstats_mcp and mounted at /mcp by the main backend.
func NewServer(service *ContextService, defaultWeeks int) *mcp.Server {
	h := NewHandler(service, defaultWeeks)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "gymstats-analytics",
		Version: ServerVersion,
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_gymstats_context",
		Description: "Returns the DB schema of the gymstats tables (workout_log, exercise_type): columns, types, nullable, default. Use when you need the actual backend schema.",
	}, h.GetGymstatsContextTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_weekly_metrics",
		Description: "Returns Monday-Sunday weekly training metrics, oldest first: total weight lifted, sets, reps, average weight per rep, workouts, sets and weight per muscle group, and the week-over-week change with its trend. Optional filters: muscle_group, exercise.",
	}, h.GetWeeklyMetricsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_muscle_group_breakdown",
		Description: "Returns the sets per muscle group over the selected weeks (or a single week), largest first, with the percentage of all sets. With breakdown=true also lists the contributing exercises. Secondary muscles count half a set.",
	}, h.GetMuscleGroupBreakdownTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_insights",
		Description: "Returns summary insights for one metric: average over active weeks, best and worst week, trend, average growth, consistency (percent of active weeks) and the current streak. For totalSets also the most targeted muscle group.",
	}, h.GetInsightsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_trend",
		Description: "Classifies the recent direction of a metric (increasing, decreasing, stable) from the average week-over-week change across the last periods weeks, plus the total change over that window.",
	}, h.GetTrendTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_exercise_catalog",
		Description: "Returns the exercise catalog used for muscle attribution: key, display name, primary and secondary muscles, aliases. Optional filter: muscle_group.",
	}, h.GetExerciseCatalogTool())

	return s
}
