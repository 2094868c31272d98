package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/renancavalcantercb/SpotCLI/internal/shared"
	"github.com/urfave/cli/v3"
)

const configFile = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	// .env is optional; real environment variables win either way.
	_ = godotenv.Load()

	if os.Getenv("SPOTCLI_DEBUG") != "" {
		shared.SetLogLevel(logger, log.DebugLevel)
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat(configFile); err == nil {
		if loadedConfig, err := shared.LoadConfig(configFile); err == nil {
			config = loadedConfig
		} else {
			logger.Warnf("ignoring unreadable config: %v", err)
		}
	}

	if err := shared.ApplyEnv(config); err != nil {
		logger.Fatalf("configuration error: %v", err)
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configFile,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:    "spotcli",
		Usage:   "Control Spotify playback from an interactive terminal menu",
		Version: "1.0.0",
		Action:  runner.Run,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("%v", err)
	}
}
