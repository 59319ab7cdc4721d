package mcp

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handler handles MCP tool requests: parses input, calls the service, formats the result.
// Failures are reported as IsError results so the client model can read them.
type Handler struct {
	service contextService
}

func NewHandler(service contextService) *Handler {
	return &Handler{
		service: service,
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
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}
}

// SchemaTool returns the MCP tool handler for get_gymsignal_schema.
func (h *Handler) SchemaTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		text, err := h.service.GetSchema(ctx)
		if err != nil {
			return errorResult("Error fetching schema: " + err.Error()), nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil, nil
	}
}

// SetSuggestionInput is the input for get_set_suggestion.
type SetSuggestionInput struct {
	Exercise  string `json:"exercise" jsonschema:"Exercise name as in the catalog (e.g. squat)"`
	WorkoutID string `json:"workout_id,omitempty" jsonschema:"Workout in progress; its completed sets adapt the remaining ones"`
}

// SetSuggestionTool returns the MCP tool handler for get_set_suggestion.
func (h *Handler) SetSuggestionTool() func(context.Context, *mcp.CallToolRequest, SetSuggestionInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in SetSuggestionInput) (*mcp.CallToolResult, any, error) {
		if strings.TrimSpace(in.Exercise) == "" {
			return errorResult("Missing exercise"), nil, nil
		}
		res, err := h.service.GetSuggestion(ctx, in.Exercise, in.WorkoutID)
		if err != nil {
			return errorResult("Error getting suggestion: " + err.Error()), nil, nil
		}
		return jsonResult(res), nil, nil
	}
}

// ExerciseTrendInput is the input for get_exercise_trend.
type ExerciseTrendInput struct {
	Exercise string `json:"exercise" jsonschema:"Exercise name as in the catalog (e.g. squat)"`
}

// ExerciseTrendTool returns the MCP tool handler for get_exercise_trend.
func (h *Handler) ExerciseTrendTool() func(context.Context, *mcp.CallToolRequest, ExerciseTrendInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ExerciseTrendInput) (*mcp.CallToolResult, any, error) {
		if strings.TrimSpace(in.Exercise) == "" {
			return errorResult("Missing exercise"), nil, nil
		}
		trend, err := h.service.GetTrend(ctx, in.Exercise)
		if err != nil {
			return errorResult("Error getting trend: " + err.Error()), nil, nil
		}
		return jsonResult(trend), nil, nil
	}
}

// ExerciseCatalogInput is the input for get_exercise_catalog.
type ExerciseCatalogInput struct {
	MuscleGroup string `json:"muscle_group,omitempty" jsonschema:"Filter by muscle group (e.g. chest, legs)"`
}

// ExerciseCatalogTool returns the MCP tool handler for get_exercise_catalog.
func (h *Handler) ExerciseCatalogTool() func(context.Context, *mcp.CallToolRequest, ExerciseCatalogInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ExerciseCatalogInput) (*mcp.CallToolResult, any, error) {
		entries, err := h.service.GetCatalog(ctx, in.MuscleGroup)
		if err != nil {
			return errorResult("Error fetching catalog: " + err.Error()), nil, nil
		}
		return jsonResult(entries), nil, nil
	}
}
