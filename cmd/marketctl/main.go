// Command marketctl runs moderation tasks against the configured store
// without going through the HTTP API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/iliyamo/farm-market/internal/app"
	"github.com/iliyamo/farm-market/internal/config"
	"github.com/iliyamo/farm-market/internal/logging"
	"github.com/iliyamo/farm-market/internal/queue"
)

func main() {
	_ = godotenv.Load()
	cmd := newRootCmd(os.Stdout, openFromEnv)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func openFromEnv(ctx context.Context) (*app.Services, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logging.InitTo(os.Stderr, cfg.LogLevel)
	if cfg.StoreBackend == config.BackendMemory {
		return nil, nil, fmt.Errorf("STORE_BACKEND=memory has no shared state; point marketctl at redis or mysql")
	}
	// the CLI never serves traffic
	cfg.RateLimit.Enabled, cfg.Cache.Enabled = false, false

	b, err := app.OpenBackend(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	svc := app.NewServices(b.KV, cfg, queue.NopPublisher{})
	return &svc, func() { _ = b.Close() }, nil
}
