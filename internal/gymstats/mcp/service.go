package mcp

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/2beens/gymsignal/internal/gymstats/catalog"
	"github.com/2beens/gymsignal/internal/gymstats/suggest"
	"github.com/2beens/gymsignal/internal/gymstats/suggestions"
)

// SuggestionService is the part of the suggestions service the tools use.
type SuggestionService interface {
	Suggest(ctx context.Context, params suggestions.Params) (*suggest.SmartSuggestionResult, error)
	Trend(ctx context.Context, name string) (*suggestions.TrendResult, error)
}

// CatalogLister lists exercise catalog entries.
type CatalogLister interface {
	List(ctx context.Context, muscleGroup string) ([]catalog.Entry, error)
}

// contextService is what the Handler needs, kept small for tests.
type contextService interface {
	GetSchema(ctx context.Context) (string, error)
	GetSuggestion(ctx context.Context, exercise, workoutID string) (*suggest.SmartSuggestionResult, error)
	GetTrend(ctx context.Context, exercise string) (*suggestions.TrendResult, error)
	GetCatalog(ctx context.Context, muscleGroup string) ([]catalog.Entry, error)
}

type ContextService struct {
	schema      SchemaRepo
	suggestions SuggestionService
	catalog     CatalogLister
}

func NewContextService(schemaRepo SchemaRepo, suggestionService SuggestionService, catalogLister CatalogLister) *ContextService {
	return &ContextService{
		schema:      schemaRepo,
		suggestions: suggestionService,
		catalog:     catalogLister,
	}
}

// GetSchema returns the exercise_catalog and workout_set tables as markdown.
func (s *ContextService) GetSchema(ctx context.Context) (string, error) {
	cols, err := s.schema.GetColumns(ctx)
	if err != nil {
		return "", err
	}
	return formatSchema(cols), nil
}

func formatSchema(cols []SchemaColumn) string {
	if len(cols) == 0 {
		return "# GymSignal DB Schema\n\nNo gymsignal tables found in the database.\n"
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
	b.WriteString("# GymSignal DB Schema\n\n")
	b.WriteString("Tables: " + strings.Join(tableOrder, ", ") + " (schema: public).\n\n")

	for _, tableName := range tableOrder {
		b.WriteString("## ")
		b.WriteString(tableName)
		b.WriteString("\n\n| Column | Type | Nullable | Default |\n|--------|------|----------|--------|\n")
		for _, c := range byTable[tableName] {
			def := "-"
			if c.ColumnDef != nil && *c.ColumnDef != "" {
				def = *c.ColumnDef
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", c.ColumnName, c.DataType, c.IsNullable, def)
		}
		b.WriteString("\n")
	}

	return strings.TrimSuffix(b.String(), "\n\n") + "\n"
}

func (s *ContextService) GetSuggestion(ctx context.Context, exercise, workoutID string) (*suggest.SmartSuggestionResult, error) {
	return s.suggestions.Suggest(ctx, suggestions.Params{
		ExerciseName: exercise,
		WorkoutID:    workoutID,
	})
}

func (s *ContextService) GetTrend(ctx context.Context, exercise string) (*suggestions.TrendResult, error) {
	return s.suggestions.Trend(ctx, exercise)
}

func (s *ContextService) GetCatalog(ctx context.Context, muscleGroup string) ([]catalog.Entry, error) {
	return s.catalog.List(ctx, strings.ToLower(strings.TrimSpace(muscleGroup)))
}
