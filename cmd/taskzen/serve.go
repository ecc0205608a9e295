package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Sidyaa10/Task-Zen/internal/config"
	"github.com/Sidyaa10/Task-Zen/internal/core"
	"github.com/Sidyaa10/Task-Zen/internal/storage"
	"github.com/Sidyaa10/Task-Zen/internal/web"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Task-Zen API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				cfg.Addr = addr
			}

			logger := newLogger(cfg.LogLevel)

			store, err := storage.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			server := web.NewServer(web.ServerDeps{
				Engine:   core.NewEngine(store),
				Users:    store,
				Secret:   cfg.JWTSecret,
				TokenTTL: cfg.TokenTTL,
				Logger:   logger,
			})

			logger.Info("starting server", "addr", cfg.Addr, "db", cfg.DBPath)
			return server.Run(cfg.Addr)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (overrides TASKZEN_ADDR)")

	return cmd
}

func newLogger(level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{Level: lvl})
}
