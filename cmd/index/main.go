package main

import (
	"context"
	"time"

	"tours-api/internal/config"
	"tours-api/internal/database"
	"tours-api/internal/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env, cfg.LogLevel)

	log.Info().Msg("starting migration")

	mongoDB, err := database.NewMongoDB(cfg.MongoURI, cfg.MongoDatabase, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer mongoDB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	names, err := database.EnsureIndexes(ctx, mongoDB.Database)
	for _, name := range names {
		log.Info().Str("index", name).Msg("index ready")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	log.Info().Int("indexes", len(names)).Msg("migration completed")
}
