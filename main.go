package main

import (
	"fmt"
	"net/http"

	"hubpanel/backend/hubd/internal/config"
	"hubpanel/backend/hubd/internal/hubcfg"
	"hubpanel/backend/hubd/internal/server"
)

func main() {
	cfg := config.FromEnv()
	logger := server.Logger(cfg)

	hubs := hubcfg.Load(cfg.HubsPaths()...)
	r := server.NewRouter(cfg, hubs)

	addr := fmt.Sprintf("%s:%d", cfg.Bind, cfg.Port)
	logger.Info().Msgf("hubd listening on http://%s", addr)

	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}
