package mcp

import (
	"context"
	"fmt"

	"github.com/2beens/gymstats/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type SchemaRepo interface {
	GetGymstatsColumns(ctx context.Context) ([]SchemaColumn, error)
}

// SchemaColumn is one information_schema.columns row of a gymstats table.
type SchemaColumn struct {
	TableSchema string  `db:"table_schema"`
	TableName   string  `db:"table_name"`
	ColumnName  string  `db:"column_name"`
	DataType    string  `db:"data_type"`
	IsNullable  string  `db:"is_nullable"`
	ColumnDef   *string `db:"column_default"`
}

// tables described to MCP clients, as created by schema.sql
var gymstatsTables = []string{"workout_log", "exercise_type"}

type poolSchemaRepo struct {
	pool *pgxpool.Pool
}

func NewPoolSchemaRepo(pool *pgxpool.Pool) SchemaRepo {
	return &poolSchemaRepo{pool: pool}
}

func (r *poolSchemaRepo) GetGymstatsColumns(ctx context.Context) (_ []SchemaColumn, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.mcp.schema_columns")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.pool.Query(
		ctx,
		`
			SELECT table_schema::text, table_name::text, column_name::text, data_type::text,
			       is_nullable::text, column_default::text
			FROM information_schema.columns
			WHERE table_schema = 'public'
			  AND table_name = ANY($1)
			ORDER BY table_name, ordinal_position
		`,
		gymstatsTables,
	)
	if err != nil {
		return nil, fmt.Errorf("query information_schema: %w", err)
	}

	cols, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[SchemaColumn])
	if err != nil {
		return nil, fmt.Errorf("collect schema columns: %w", err)
	}
	span.SetAttributes(attribute.Int("columns.count", len(cols)))

	return cols, nil
}
