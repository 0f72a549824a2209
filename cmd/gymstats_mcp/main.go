// Package main runs the gymstats MCP server over stdio (for local editor/agent use).
// The same MCP server is also mounted on the main service at /mcp over HTTP.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/2beens/gymstats/internal/config"
	"github.com/2beens/gymstats/internal/db"
	"github.com/2beens/gymstats/internal/gymstats/analytics"
	"github.com/2beens/gymstats/internal/gymstats/catalog"
	gymstatsmcp "github.com/2beens/gymstats/internal/gymstats/mcp"
	"github.com/2beens/gymstats/internal/gymstats/stats"
	"github.com/2beens/gymstats/internal/gymstats/workouts"
	"github.com/2beens/gymstats/internal/logging"
	"github.com/2beens/gymstats/internal/telemetry/metrics"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development | ddev | dockerdev]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	flag.Parse()

	// stdout carries the MCP protocol
	log.SetOutput(os.Stderr)
	log.SetLevel(log.InfoLevel)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}
	log.SetLevel(logging.GetLevel(cfg.LogLevel))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBName:     cfg.PostgresDBName,
		DBUser:     cfg.PostgresUser,
		DBPassword: os.Getenv("GYMSTATS_DB_PASS"),
	})
	if err != nil {
		log.Fatalf("db pool: %s", err)
	}
	defer dbPool.Close()

	exerciseCatalog, err := catalog.FromSource(ctx, cfg.CatalogSource, cfg.CatalogPath, catalog.NewRepo(dbPool))
	if err != nil {
		log.Fatalf("load exercise catalog: %s", err)
	}

	metricsManager := metrics.NewManager("gymstats", "mcp", prometheus.NewRegistry())
	engine := analytics.NewEngine(analytics.EngineParams{
		Catalog:    catalog.NewCached(exerciseCatalog, cfg.CatalogCacheSizeMB),
		Translator: exerciseCatalog.Translator(),
		Logger:     log.StandardLogger(),
		OnFailure:  metricsManager.AnalyticsFailed,
	})
	// short-lived process, results are not cached
	statsService := stats.NewService(engine, workouts.NewRepo(dbPool), nil, metricsManager)

	contextService := gymstatsmcp.NewContextService(
		gymstatsmcp.NewPoolSchemaRepo(dbPool),
		statsService,
		exerciseCatalog,
	)
	server := gymstatsmcp.NewServer(contextService, cfg.DefaultWeeks)

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Errorf("mcp server: %s", err)
	}
}
