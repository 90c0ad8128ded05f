// Package treasury parses treasury service flags and launches the service.
package treasury

import (
	"context"
	"flag"

	server "github.com/guildforge/treasury/internal/app/server"
	entrypoint "github.com/guildforge/treasury/internal/platform/cmd"
)

// Config holds treasury command configuration.
type Config struct {
	Port int `env:"GUILDFORGE_TREASURY_PORT" envDefault:"8094"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The treasury HTTP server port")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the treasury HTTP API service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceTreasury, func(context.Context) error {
		return server.Run(ctx, cfg.Port)
	})
}
