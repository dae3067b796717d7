package main

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/storefront/storefront-service/config"
	"github.com/storefront/storefront-service/internal/app"
	"github.com/storefront/storefront-service/internal/infrastructure/database/mongodb"
)

func main() {
	conf := config.CreateNewConfig()

	db, err := mongodb.ConnectToMongoDB(conf.MongoDBConfig.URI, conf.MongoDBConfig.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}

	defer db.Client().Disconnect(context.Background())

	application := app.App{
		DB:     db,
		Config: conf,
	}

	application.Start()
}
