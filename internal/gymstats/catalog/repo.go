package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/gymsignal/internal/gymstats/suggest"
	"github.com/2beens/gymsignal/internal/telemetry/tracing"
	"github.com/2beens/gymsignal/pkg"
)

var (
	ErrEntryNotFound = errors.New("catalog entry not found")
	ErrEntryInUse    = errors.New("catalog entry has logged sets")
)

// Store is implemented by the postgres Repo and by the CachedRepo wrapping it.
type Store interface {
	Upsert(ctx context.Context, entry Entry) (*Entry, error)
	Get(ctx context.Context, name string) (*Entry, error)
	List(ctx context.Context, muscleGroup string) ([]Entry, error)
	Delete(ctx context.Context, name string) error
}

var (
	_ Store = (*Repo)(nil)
	_ Store = (*CachedRepo)(nil)
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Upsert(ctx context.Context, entry Entry) (_ *Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("name", entry.Name))

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO exercise_catalog (name, muscle_group, equipment, exercise_type, is_compound)
				VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (name) DO UPDATE SET
				muscle_group = EXCLUDED.muscle_group,
				equipment = EXCLUDED.equipment,
				exercise_type = EXCLUDED.exercise_type,
				is_compound = EXCLUDED.is_compound
			RETURNING created_at;`,
		entry.Name, entry.MuscleGroup, string(entry.Equipment), string(entry.ExerciseType), entry.IsCompound,
	).Scan(&entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert catalog entry: %w", err)
	}
	return &entry, nil
}

func (r *Repo) Get(ctx context.Context, name string) (_ *Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("name", name))

	rows, err := r.db.Query(
		ctx,
		`SELECT name, muscle_group, equipment, exercise_type, is_compound, created_at
			FROM exercise_catalog
			WHERE name = $1;`,
		name,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries, err := rows2entries(rows)
	if err != nil {
		return nil, err
	}
	if len(entries) != 1 {
		return nil, ErrEntryNotFound
	}
	return &entries[0], nil
}

// List returns the catalog ordered by name, all of it when muscleGroup is empty.
func (r *Repo) List(ctx context.Context, muscleGroup string) (_ []Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("muscle_group", muscleGroup))

	rows, err := r.db.Query(
		ctx,
		`SELECT name, muscle_group, equipment, exercise_type, is_compound, created_at
			FROM exercise_catalog
			WHERE ($1::text = '' OR muscle_group = $1)
			ORDER BY name;`,
		muscleGroup,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	return rows2entries(rows)
}

func (r *Repo) Delete(ctx context.Context, name string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("name", name))

	tag, err := r.db.Exec(ctx, `DELETE FROM exercise_catalog WHERE name = $1`, name)
	if pkg.IsForeignKeyViolationError(err) {
		return ErrEntryInUse
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func rows2entries(rows pgx.Rows) ([]Entry, error) {
	entries := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		var equipment, exerciseType string
		if err := rows.Scan(&e.Name, &e.MuscleGroup, &equipment, &exerciseType, &e.IsCompound, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Equipment = suggest.EquipmentType(equipment)
		e.ExerciseType = suggest.ExerciseType(exerciseType)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
