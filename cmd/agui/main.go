package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/viant/agui"
)

func main() {
	configURL := flag.String("config", "", "optional YAML config location")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	config, err := loadConfig(ctx, *configURL)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	service, err := agui.New(ctx, agui.WithConfig(config))
	if err != nil {
		log.Fatalf("failed to initialise service: %v", err)
	}

	log.Printf("listening on %v (model: %v @ %v)", config.Server.Addr, config.Model.Name, config.Model.BaseURL)
	if err := service.ListenAndServe(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server failed: %v", err)
	}
}

func loadConfig(ctx context.Context, configURL string) (*agui.Config, error) {
	if configURL != "" {
		return agui.NewConfigFromURL(ctx, configURL)
	}
	return agui.NewConfigFromEnv()
}
