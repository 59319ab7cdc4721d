package sets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/gymsignal/internal/telemetry/tracing"
	"github.com/2beens/gymsignal/pkg"
)

var (
	ErrSetNotFound     = errors.New("set not found")
	ErrUnknownExercise = errors.New("exercise not in catalog")
	ErrInvalidSet      = errors.New("set values out of range")
)

const selectColumns = `
	id, workout_id, exercise_name, reps, weight, assistance_weight, duration_seconds,
	distance, completed, target_reps, target_weight, metadata, created_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func mapWriteErr(err error) error {
	switch {
	case pkg.IsForeignKeyViolationError(err):
		return ErrUnknownExercise
	case pkg.IsCheckViolationError(err):
		return ErrInvalidSet
	}
	return err
}

func (r *Repo) Add(ctx context.Context, set WorkoutSet) (_ *WorkoutSet, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sets.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise", set.ExerciseName))
	span.SetAttributes(attribute.String("workout_id", set.WorkoutID))

	if set.Metadata == nil {
		set.Metadata = map[string]string{}
	}
	metadataJson, err := json.Marshal(set.Metadata)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO workout_set
				(workout_id, exercise_name, reps, weight, assistance_weight, duration_seconds,
				 distance, completed, target_reps, target_weight, metadata, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING id;`,
		set.WorkoutID, set.ExerciseName, set.Reps, set.Weight, set.AssistanceWeight, set.DurationSeconds,
		set.Distance, set.Completed, set.TargetReps, set.TargetWeight, metadataJson, set.CreatedAt,
	)
	if err != nil {
		return nil, mapWriteErr(err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, mapWriteErr(err)
		}
		return nil, errors.New("unexpected error [no rows next]")
	}

	var id int
	if err := rows.Scan(&id); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}
	span.SetAttributes(attribute.Int("set.id", id))

	set.ID = id
	return &set, nil
}

func (r *Repo) Update(ctx context.Context, set *WorkoutSet) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sets.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", set.ID))

	if set.Metadata == nil {
		set.Metadata = map[string]string{}
	}
	metadataJson, err := json.Marshal(set.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	tag, err := r.db.Exec(
		ctx,
		`UPDATE workout_set SET
				workout_id = $1, exercise_name = $2, reps = $3, weight = $4, assistance_weight = $5,
				duration_seconds = $6, distance = $7, completed = $8, target_reps = $9,
				target_weight = $10, metadata = $11, created_at = $12
			WHERE id = $13;`,
		set.WorkoutID, set.ExerciseName, set.Reps, set.Weight, set.AssistanceWeight,
		set.DurationSeconds, set.Distance, set.Completed, set.TargetReps,
		set.TargetWeight, metadataJson, set.CreatedAt,
		set.ID,
	)
	if err != nil {
		return mapWriteErr(err)
	}

	if tag.RowsAffected() == 0 {
		return ErrSetNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sets.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM workout_set WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSetNotFound
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *WorkoutSet, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sets.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT `+selectColumns+` FROM workout_set WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sets, err := r.rows2sets(rows)
	if err != nil {
		return nil, err
	}
	if len(sets) != 1 {
		return nil, ErrSetNotFound
	}
	return &sets[0], nil
}

// ListAll returns the sets matching the params, newest first.
func (r *Repo) ListAll(ctx context.Context, params ListParams) (_ []WorkoutSet, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sets.listall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise", params.ExerciseName))
	span.SetAttributes(attribute.String("workout_id", params.WorkoutID))
	span.SetAttributes(attribute.Bool("only-completed", params.OnlyCompleted))
	if params.From != nil {
		span.SetAttributes(attribute.String("from", params.From.String()))
	}
	if params.To != nil {
		span.SetAttributes(attribute.String("to", params.To.String()))
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT `+selectColumns+` FROM workout_set
				WHERE ($1::text = '' OR exercise_name = $1)
				AND ($2::text = '' OR workout_id = $2)
				AND ($3::timestamptz IS NULL OR created_at >= $3)
				AND ($4::timestamptz IS NULL OR created_at <= $4)
				AND ($5::boolean IS FALSE OR completed)
			ORDER BY created_at DESC, id DESC;`,
		params.ExerciseName, params.WorkoutID,
		params.From, params.To,
		params.OnlyCompleted,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	sets, err := r.rows2sets(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2sets: %w", err)
	}
	return sets, nil
}

// LatestSession returns the sets of the exercise logged in its most recent workout
// started before the given time, newest first. No workout means no sets.
func (r *Repo) LatestSession(ctx context.Context, exerciseName string, before time.Time) (_ []WorkoutSet, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sets.latestsession")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise", exerciseName))
	span.SetAttributes(attribute.String("before", before.String()))

	rows, err := r.db.Query(
		ctx,
		`SELECT `+selectColumns+` FROM workout_set
				WHERE exercise_name = $1
				AND workout_id = (
					SELECT workout_id FROM workout_set
						WHERE exercise_name = $1 AND created_at < $2
						ORDER BY created_at DESC, id DESC
						LIMIT 1
				)
			ORDER BY created_at DESC, id DESC;`,
		exerciseName, before,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	sets, err := r.rows2sets(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2sets: %w", err)
	}
	return sets, nil
}

func (r *Repo) Count(ctx context.Context, params ListParams) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sets.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var count int
	err = r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM workout_set
			WHERE ($1::text = '' OR exercise_name = $1)
			AND ($2::text = '' OR workout_id = $2)
			AND ($3::timestamptz IS NULL OR created_at >= $3)
			AND ($4::timestamptz IS NULL OR created_at <= $4)
			AND ($5::boolean IS FALSE OR completed);
	`,
		params.ExerciseName, params.WorkoutID,
		params.From, params.To,
		params.OnlyCompleted,
	).Scan(&count)
	if err != nil {
		return -1, fmt.Errorf("count sets: %w", err)
	}
	return count, nil
}

func (r *Repo) rows2sets(rows pgx.Rows) ([]WorkoutSet, error) {
	sets := make([]WorkoutSet, 0)
	for rows.Next() {
		var s WorkoutSet
		var metadataBytes []byte
		var createdAt time.Time
		if err := rows.Scan(
			&s.ID, &s.WorkoutID, &s.ExerciseName, &s.Reps, &s.Weight, &s.AssistanceWeight, &s.DurationSeconds,
			&s.Distance, &s.Completed, &s.TargetReps, &s.TargetWeight, &metadataBytes, &createdAt,
		); err != nil {
			return nil, err
		}
		s.CreatedAt = createdAt

		s.Metadata = map[string]string{}
		if len(metadataBytes) > 0 {
			if err := json.Unmarshal(metadataBytes, &s.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshal metadata for set %d: %w", s.ID, err)
			}
		}

		sets = append(sets, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sets, nil
}
