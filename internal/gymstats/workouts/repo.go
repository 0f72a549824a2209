package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/gymstats/internal/gymstats/analytics"
	"github.com/2beens/gymstats/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrWorkoutNotFound = errors.New("workout not found")

type ListAllParams struct {
	CompletedOnly bool
}

type ListParams struct {
	ListAllParams
	Page int
	Size int
}

// Repo stores workout logs in the workout_log table. The exercises of a log are kept
// as a jsonb document and the date exactly as received.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, workout analytics.WorkoutLog) (_ *analytics.WorkoutLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.workouts.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if workout.Exercises == nil {
		workout.Exercises = []analytics.ExerciseLog{}
	}
	exercisesJson, err := json.Marshal(workout.Exercises)
	if err != nil {
		return nil, fmt.Errorf("marshal exercises: %w", err)
	}
	if workout.CreatedAt.IsZero() {
		workout.CreatedAt = time.Now()
	}

	var id int
	if err := r.db.QueryRow(
		ctx,
		`INSERT INTO workout_log
				(date, completed, exercises, created_at)
				VALUES ($1, $2, $3, $4)
			RETURNING id;`,
		workout.Date, workout.Completed, exercisesJson, workout.CreatedAt,
	).Scan(&id); err != nil {
		return nil, fmt.Errorf("insert workout: %w", err)
	}

	span.SetAttributes(attribute.Int("workout.id", id))
	span.SetAttributes(attribute.Int("workout.exercises", len(workout.Exercises)))

	workout.ID = id
	return &workout, nil
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.workouts.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM workout_log WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *analytics.WorkoutLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.workouts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT id, date, completed, exercises, created_at
			FROM workout_log
			WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workouts, err := rows2workouts(rows)
	if err != nil {
		return nil, err
	}

	if len(workouts) != 1 {
		return nil, ErrWorkoutNotFound
	}

	return &workouts[0], nil
}

// ListAll returns every stored log, oldest first. The analytics engine consumes this list.
func (r *Repo) ListAll(ctx context.Context, params ListAllParams) (_ []analytics.WorkoutLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.workouts.listall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Bool("completed-only", params.CompletedOnly))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT id, date, completed, exercises, created_at
			FROM workout_log
				WHERE ($1::boolean IS FALSE OR completed IS TRUE)
			ORDER BY created_at, id;`,
		params.CompletedOnly,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	workouts, err := rows2workouts(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2workouts: %w", err)
	}

	span.SetAttributes(attribute.Int("workouts.count", len(workouts)))
	return workouts, nil
}

// List is like ListAll, but returns one page, newest first.
func (r *Repo) List(ctx context.Context, params ListParams) (_ []analytics.WorkoutLog, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.workouts.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("page", params.Page))
	span.SetAttributes(attribute.Int("size", params.Size))
	span.SetAttributes(attribute.Bool("completed-only", params.CompletedOnly))

	if params.Page < 1 {
		return nil, -1, errors.New("page must be greater than 0")
	}
	if params.Size < 1 {
		return nil, -1, errors.New("size must be greater than 0")
	}

	countAll, err := r.Count(ctx, params.ListAllParams)
	if err != nil {
		return nil, -1, err
	}

	limit, offset := pageBounds(countAll, params.Page, params.Size)
	span.SetAttributes(attribute.Int("count_all", countAll))
	span.SetAttributes(attribute.Int("limit", limit))
	span.SetAttributes(attribute.Int("offset", offset))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT id, date, completed, exercises, created_at
			FROM workout_log
				WHERE ($1::boolean IS FALSE OR completed IS TRUE)
			ORDER BY created_at DESC, id DESC
			LIMIT $2
			OFFSET $3;`,
		params.CompletedOnly,
		limit, offset,
	)
	if err != nil {
		return nil, -1, err
	}
	defer rows.Close()

	workouts, err := rows2workouts(rows)
	if err != nil {
		return nil, -1, err
	}
	return workouts, countAll, nil
}

func (r *Repo) Count(ctx context.Context, params ListAllParams) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.workouts.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var count int
	if err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM workout_log
			WHERE ($1::boolean IS FALSE OR completed IS TRUE);
	`,
		params.CompletedOnly,
	).Scan(&count); err != nil {
		return -1, fmt.Errorf("count workouts: %w", err)
	}

	return count, nil
}

// pageBounds clamps the page so that a page past the end returns the last full page.
func pageBounds(countAll, page, size int) (limit, offset int) {
	limit = size
	offset = (page - 1) * size

	if countAll <= limit {
		return countAll, 0
	}
	if countAll-offset < limit {
		offset = countAll - limit
	}
	return limit, offset
}

func rows2workouts(rows pgx.Rows) ([]analytics.WorkoutLog, error) {
	workouts := make([]analytics.WorkoutLog, 0)
	for rows.Next() {
		var w analytics.WorkoutLog
		var exercisesBytes []byte
		if err := rows.Scan(&w.ID, &w.Date, &w.Completed, &exercisesBytes, &w.CreatedAt); err != nil {
			return nil, err
		}

		w.Exercises = []analytics.ExerciseLog{}
		if len(exercisesBytes) > 0 {
			if err := json.Unmarshal(exercisesBytes, &w.Exercises); err != nil {
				return nil, fmt.Errorf("unmarshal exercises for workout %d: %w", w.ID, err)
			}
		}

		workouts = append(workouts, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return workouts, nil
}
