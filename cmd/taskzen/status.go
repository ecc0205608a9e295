package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sidyaa10/Task-Zen/internal/config"
	"github.com/Sidyaa10/Task-Zen/internal/storage"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show store statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			store, err := storage.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			counts, err := store.Counts(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Println("Task-Zen Status")
			fmt.Println("===============")
			fmt.Printf("Database: %s\n", cfg.DBPath)
			for _, table := range []string{"users", "tasks", "subtasks", "sessions"} {
				fmt.Printf("%-10s %d\n", table, counts[table])
			}
			return nil
		},
	}
}
