package mcp

import (
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NewServer builds the gymsignal MCP server. The main service mounts it at /mcp,
// cmd/gymsignal_mcp runs it over stdio.
func NewServer(svc contextService) *mcp.Server {
	h := NewHandler(svc)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "gymsignal",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_set_suggestion",
		Description: "Suggests the next sets (reps, weight) for an exercise, from its logged history. Detects the training pattern (progressive overload, rep cycling, deload, stable) and reports it with a confidence. Optional workout_id adapts the remaining sets to the ones already done today.",
	}, h.SetSuggestionTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_exercise_trend",
		Description: "Returns the per-session data points (top weight, avg reps, volume) and the detected training pattern for an exercise. Use when asked how an exercise has been progressing.",
	}, h.ExerciseTrendTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_exercise_catalog",
		Description: "Returns the exercise catalog (name, muscle group, equipment, exercise type, compound). Optional filter: muscle_group. Use to find the exact exercise names the other tools accept.",
	}, h.ExerciseCatalogTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_gymsignal_schema",
		Description: "Returns the DB schema of the exercise_catalog and workout_set tables: columns, types, nullable, default.",
	}, h.SchemaTool())

	return s
}

// NewHTTPHandler serves the MCP server over streamable HTTP.
func NewHTTPHandler(s *mcp.Server) http.Handler {
	h := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s
	}, nil)
	return otelhttp.NewHandler(h, "mcp")
}
