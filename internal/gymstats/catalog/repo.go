package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/gymstats/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrExerciseExists = errors.New("exercise already exists")

// https://www.postgresql.org/docs/current/errcodes-appendix.html
const pgUniqueViolation = "23505"

// Repo reads catalog entries from the exercise_type table.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) ListExercises(ctx context.Context) (_ []Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.catalog.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
			    id, name, muscle_group,
			    COALESCE(secondary_muscles, '{}'), COALESCE(aliases, '{}')
			FROM exercise_type
			ORDER BY id
		`,
	)
	if err != nil {
		return nil, fmt.Errorf("catalog exercises [query]: %w", err)
	}
	defer rows.Close()

	var exercises []Exercise
	for rows.Next() {
		var ex Exercise
		if err := rows.Scan(
			&ex.Key,
			&ex.Name,
			&ex.Primary,
			&ex.Secondary,
			&ex.Aliases,
		); err != nil {
			return nil, fmt.Errorf("catalog exercises [rows scan]: %w", err)
		}
		exercises = append(exercises, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog exercises [rows error]: %w", err)
	}

	span.SetAttributes(attribute.Int("exercises.count", len(exercises)))
	return exercises, nil
}

func (r *Repo) AddExercise(ctx context.Context, ex Exercise) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.catalog.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.key", ex.Key))

	_, err = r.db.Exec(
		ctx,
		`
			INSERT INTO exercise_type
			    (id, name, muscle_group, secondary_muscles, aliases)
			VALUES ($1, $2, $3, $4, $5)
		`,
		ex.Key,
		ex.Name,
		ex.Primary,
		ex.Secondary,
		ex.Aliases,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %s", ErrExerciseExists, ex.Key)
	} else if err != nil {
		return fmt.Errorf("add catalog exercise: %w", err)
	}

	return nil
}

// LoadFromDB builds a validated catalog from the exercise_type table.
func LoadFromDB(ctx context.Context, repo *Repo) (*Catalog, error) {
	exercises, err := repo.ListExercises(ctx)
	if err != nil {
		return nil, err
	}
	return New(exercises)
}
