package main

import (
	"context"
	"fmt"

	"github.com/NamigGuliyef/avian-chat-sub000/config"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/bootstrap"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/global"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/logger"
)

// initLogger sets up logging from the LOG_* environment.
func initLogger() {
	if err := logger.Init(nil); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	logger.GetAppLogger().Info("Logger system initialized successfully")
}

// InitGlobal loads the configuration, the validator and the collection names.
func InitGlobal() {
	log := logger.GetAppLogger()

	global.InitColNames()
	log.Info("Initialized collection names")

	global.InitValidator()
	log.Info("Initialized validator")

	global.MongoDB_ServerConfig = config.NewConfig()
	if global.MongoDB_ServerConfig == nil {
		log.Fatal("Failed to initialize config: config is nil")
	}
	log.Info("Initialized server config")
}

// InitStore opens the configured store and makes sure its indexes exist.
func InitStore(ctx context.Context) *bootstrap.Backend {
	log := logger.GetAppLogger()
	backend, err := bootstrap.OpenStore(ctx, global.MongoDB_ServerConfig)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	if err := backend.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}
	log.WithField("driver", global.MongoDB_ServerConfig.StoreDriver).Info("Store ready")
	return backend
}
