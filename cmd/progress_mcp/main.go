// Package main runs the progress MCP server over stdio for local MCP clients.
// The same tools are mounted on the main service at /mcp over streamable HTTP.
package main

import (
	"context"
	"flag"
	"net"

	"github.com/2beens/gymtracker/internal/config"
	"github.com/2beens/gymtracker/internal/db"
	"github.com/2beens/gymtracker/internal/progress"
	progressmcp "github.com/2beens/gymtracker/internal/progress/mcp"
	"github.com/2beens/gymtracker/internal/telemetry/metrics"

	"github.com/go-redis/redis/v8"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development | ddev | dockerdev | docker]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	flag.Parse()

	// stdout carries the protocol, logrus writes to stderr
	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	secrets, err := config.LoadSecrets()
	if err != nil {
		log.Fatalf("load secrets: %v", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("time zone: %v", err)
	}

	ctx := context.Background()
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBUser:         cfg.PostgresUser,
		DBPassword:     secrets.PostgresPassword,
		DBName:         cfg.PostgresDBName,
		TracingEnabled: false,
	})
	if err != nil {
		log.Fatalf("db pool: %v", err)
	}
	defer dbPool.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: secrets.RedisPassword,
	})
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Errorf("close redis client: %s", err)
		}
	}()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warnf("redis ping failed, stats will not be cached: %s", err)
	}

	metricsManager := metrics.NewManager("mcp", "stdio", prometheus.NewRegistry())
	service := progress.NewService(
		progress.NewRepo(dbPool),
		progress.NewRedisStatsCache(rdb, cfg.StatsCacheTTL(), metricsManager),
		metricsManager,
		loc,
		nil,
	)
	server := progressmcp.NewServer(dbPool, service)

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatal(err)
	}
}
