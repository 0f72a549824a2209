package mcp

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/2beens/gymstats/internal/gymstats/analytics"
	"github.com/2beens/gymstats/internal/gymstats/catalog"
	"github.com/2beens/gymstats/internal/gymstats/stats"
)

var errNoSchemaRepo = errors.New("schema not available without a database")

// analyticsService runs the analytics over the stored workout logs.
type analyticsService interface {
	WeeklyMetrics(ctx context.Context, params analytics.WeeklyParams) ([]analytics.WeeklyMetrics, error)
	MuscleGroups(ctx context.Context, params stats.MuscleGroupsParams) ([]analytics.MuscleGroupMetrics, error)
	Insights(ctx context.Context, params stats.InsightsParams) (analytics.Insights, error)
	Trend(ctx context.Context, params stats.TrendParams) (analytics.WindowTrend, error)
}

type exerciseCatalog interface {
	Exercises() []catalog.Exercise
}

// contextService provides gymstats context data (schema, analytics, catalog).
// Used by Handler for testability.
type contextService interface {
	GetSchema(ctx context.Context) (string, error)
	GetWeeklyMetrics(ctx context.Context, params analytics.WeeklyParams) ([]stats.WeekView, error)
	GetMuscleGroups(ctx context.Context, params stats.MuscleGroupsParams) ([]analytics.MuscleGroupMetrics, error)
	GetInsights(ctx context.Context, params stats.InsightsParams) (analytics.Insights, error)
	GetTrend(ctx context.Context, params stats.TrendParams) (analytics.WindowTrend, error)
	GetCatalog(ctx context.Context, muscleGroup string) ([]catalog.Exercise, error)
}

// ContextService holds dependencies and implements the gymstats context business logic.
type ContextService struct {
	schema    SchemaRepo
	analytics analyticsService
	catalog   exerciseCatalog
}

// NewContextService builds a ContextService. schemaRepo may be nil when no database is used.
func NewContextService(schemaRepo SchemaRepo, statsService analyticsService, exercises exerciseCatalog) *ContextService {
	return &ContextService{
		schema:    schemaRepo,
		analytics: statsService,
		catalog:   exercises,
	}
}

// GetSchema returns the DB schema (table names, columns, types) of the gymstats tables.
func (s *ContextService) GetSchema(ctx context.Context) (string, error) {
	if s.schema == nil {
		return "", errNoSchemaRepo
	}
	cols, err := s.schema.GetGymstatsColumns(ctx)
	if err != nil {
		return "", err
	}
	return formatGymstatsSchema(cols), nil
}

func formatGymstatsSchema(cols []SchemaColumn) string {
	if len(cols) == 0 {
		return "# Gymstats DB Schema\n\nNo gymstats tables found in the database.\n"
	}

	byTable := make(map[string][]SchemaColumn)
	for _, c := range cols {
		byTable[c.TableName] = append(byTable[c.TableName], c)
	}

	tableOrder := make([]string, 0, len(byTable))
	for t := range byTable {
		tableOrder = append(tableOrder, t)
	}
	sort.Strings(tableOrder)

	var b strings.Builder
	b.WriteString("# Gymstats DB Schema\n\n")
	b.WriteString("Tables: " + strings.Join(gymstatsTables, ", ") + " (schema: public).\n")
	b.WriteString("workout_log.exercises is a JSON array of exercises, each with its sets (reps, weight, rest_time, order).\n\n")

	for _, tableName := range tableOrder {
		b.WriteString("## ")
		b.WriteString(tableName)
		b.WriteString("\n\n| Column | Type | Nullable | Default |\n|--------|------|----------|--------|\n")
		for _, c := range byTable[tableName] {
			def := "-"
			if c.ColumnDef != nil && *c.ColumnDef != "" {
				def = *c.ColumnDef
			}
			b.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", c.ColumnName, c.DataType, c.IsNullable, def))
		}
		b.WriteString("\n")
	}

	return strings.TrimSuffix(b.String(), "\n\n") + "\n"
}

// GetWeeklyMetrics returns the weekly series with display strings for weight and weekly change.
func (s *ContextService) GetWeeklyMetrics(ctx context.Context, params analytics.WeeklyParams) ([]stats.WeekView, error) {
	weeks, err := s.analytics.WeeklyMetrics(ctx, params)
	if err != nil {
		return nil, err
	}

	return stats.NewWeekViews(weeks), nil
}

func (s *ContextService) GetMuscleGroups(ctx context.Context, params stats.MuscleGroupsParams) ([]analytics.MuscleGroupMetrics, error) {
	return s.analytics.MuscleGroups(ctx, params)
}

func (s *ContextService) GetInsights(ctx context.Context, params stats.InsightsParams) (analytics.Insights, error) {
	return s.analytics.Insights(ctx, params)
}

func (s *ContextService) GetTrend(ctx context.Context, params stats.TrendParams) (analytics.WindowTrend, error) {
	return s.analytics.Trend(ctx, params)
}

// GetCatalog returns the catalog exercises, optionally only those training muscleGroup
// as primary or secondary muscle.
func (s *ContextService) GetCatalog(_ context.Context, muscleGroup string) ([]catalog.Exercise, error) {
	all := s.catalog.Exercises()
	if muscleGroup == "" {
		return all, nil
	}

	wanted := analytics.ParseMuscleGroup(muscleGroup)
	filtered := []catalog.Exercise{}
	for _, ex := range all {
		if trains(ex, wanted) {
			filtered = append(filtered, ex)
		}
	}
	return filtered, nil
}

func trains(ex catalog.Exercise, mg analytics.MuscleGroup) bool {
	if analytics.ParseMuscleGroup(ex.Primary) == mg {
		return true
	}
	for _, secondary := range ex.Secondary {
		if analytics.ParseMuscleGroup(secondary) == mg {
			return true
		}
	}
	return false
}
