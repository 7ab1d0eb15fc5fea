package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"hotel_curator/internal/adapters/observability"
	redisad "hotel_curator/internal/adapters/redis"
	"hotel_curator/internal/domain"
	"hotel_curator/internal/shared"
	mysqlrepo "hotel_curator/internal/storage/mysql"
)

var cfg shared.Config

var rootCmd = &cobra.Command{
	Use:   "curator",
	Short: "Curate hotel photos, scores and categories",
	Long:  "Acquires photos from the configured providers, scores each hotel, gates it into the catalogue and writes the result to MySQL.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = shared.Load()
		log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)
	},
	SilenceUsage: true,
}

// stores opens MySQL and Redis; the returned func closes both.
func stores(ctx context.Context) (*mysqlrepo.Repo, *redisad.Cache, func(), error) {
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open mysql: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, nil, fmt.Errorf("ping mysql: %w", err)
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cache.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("redis unavailable; continuing without cache")
		_ = cache.Close()
		cache = nil
	}
	closer := func() {
		_ = db.Close()
		if cache != nil {
			_ = cache.Close()
		}
	}
	return mysqlrepo.New(db), cache, closer, nil
}

// asCache keeps a nil *redisad.Cache from becoming a non-nil interface.
func asCache(c *redisad.Cache) domain.Cache {
	if c == nil {
		return nil
	}
	return c
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
