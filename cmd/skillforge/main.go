package main

import (
	"context"
	"log"

	"github.com/skillforge-labs/skillforge-core/internal/repository"
	"github.com/skillforge-labs/skillforge-core/internal/service"
	"github.com/skillforge-labs/skillforge-core/internal/store"
	"github.com/skillforge-labs/skillforge-core/pkg/config"
	"github.com/skillforge-labs/skillforge-core/pkg/hash"
	"github.com/skillforge-labs/skillforge-core/pkg/logger"
	"github.com/skillforge-labs/skillforge-core/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	jsonStore, err := store.New(cfg.Data.Dir, cfg.Data.UsersFile, cfg.Data.CoursesFile, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to open data store", "error", err)
	}

	repo, err := repository.Load(jsonStore)
	if err != nil {
		logr.Sugar().Fatalw("failed to load collections", "error", err)
	}

	exports, err := storage.NewLocalStorage(cfg.Exports.Dir)
	if err != nil {
		logr.Sugar().Fatalw("failed to open exports storage", "error", err)
	}

	engine := service.NewEngine(repo, hash.NewBcrypt(0), exports, logr)

	if err := engine.Auth.EnsureAdmin(context.Background(), service.AdminBootstrap{
		Email:    cfg.Admin.Email,
		Name:     cfg.Admin.Name,
		Password: cfg.Admin.Password,
	}); err != nil {
		logr.Sugar().Fatalw("failed to bootstrap admin account", "error", err)
	}

	logr.Sugar().Infow("engine ready",
		"env", cfg.Env,
		"dataDir", cfg.Data.Dir,
		"users", len(repo.Users()),
		"courses", len(repo.Courses()))
}
