package main

import (
	"log/slog"
	"os"

	"powgate/internal/adapter/storage"
	"powgate/internal/adapter/transport/httpapi"
	"powgate/internal/app"
	"powgate/internal/service"
	"powgate/pkg/config"
	"powgate/pkg/logger"
)

func main() {
	cfg := config.Parse()

	log := logger.NewJSON(logger.LevelFromEnv(cfg.LogLevel))

	tokenPath := cfg.TokenPath
	if tokenPath == "" {
		tokenPath = storage.DefaultPath()
	}

	api := httpapi.NewClient(log, cfg.APIBaseURL, cfg.HTTPTimeout)
	solver := service.NewHashcash(cfg.SolverBatch)
	reg := service.NewRegistration(log, api, api, solver)
	auth := service.NewAuth(api, api)
	sessions := service.NewSession(log, auth, api, storage.NewFile(tokenPath))

	cli := app.NewCLI(log, sessions, reg, os.Stdout)
	if err := app.New(cli, os.Args[1:]).Run(); err != nil {
		log.Error("command failed", slog.Any("err", err))
		os.Exit(1)
	}
}
