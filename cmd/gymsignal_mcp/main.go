// Package main runs the gymsignal MCP server over stdio (for local MCP clients).
// The same MCP server is also mounted on the main service at /mcp over HTTP.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/gymsignal/internal/config"
	"github.com/2beens/gymsignal/internal/db"
	"github.com/2beens/gymsignal/internal/gymstats/catalog"
	gymsignalmcp "github.com/2beens/gymsignal/internal/gymstats/mcp"
	"github.com/2beens/gymsignal/internal/gymstats/sets"
	"github.com/2beens/gymsignal/internal/gymstats/suggest"
	"github.com/2beens/gymsignal/internal/gymstats/suggestions"
	"github.com/2beens/gymsignal/internal/telemetry/metrics"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	flag.Parse()

	// stdout carries the protocol
	log.SetOutput(os.Stderr)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBName:     cfg.PostgresDBName,
		DBUser:     cfg.PostgresUser,
		DBPassword: os.Getenv("GYMSIGNAL_DB_PASS"),
	})
	if err != nil {
		log.Fatalf("db pool: %s", err)
	}
	defer dbPool.Close()

	catalogRepo := catalog.NewRepo(dbPool)
	suggestionService := suggestions.NewService(
		catalogRepo,
		sets.NewRepo(dbPool),
		suggest.NewAnalyzer(cfg.Suggestions.Options()),
		metrics.NewManager("gymsignal", "mcp", nil),
		suggestions.CacheParams{
			SizeMB: cfg.SuggestionCacheSizeMB,
			TTL:    cfg.SuggestionCacheTTL,
		},
	)

	server := gymsignalmcp.NewServer(gymsignalmcp.NewContextService(
		gymsignalmcp.NewPoolSchemaRepo(dbPool),
		suggestionService,
		catalogRepo,
	))

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Errorf("mcp server: %s", err)
	}
}
