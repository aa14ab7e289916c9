package main

import (
	"fmt"
	"io/fs"
	"sort"

	"github.com/spf13/cobra"

	"github.com/t-okubo/revplan/internal/database"
	"github.com/t-okubo/revplan/schemas"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply embedded schema migrations to the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("loadConfig() > %w", err)
			}

			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("database.Open() > %w", err)
			}
			defer func() { _ = db.Close() }()

			entries, err := fs.ReadDir(schemas.Migrations, "migrations")
			if err != nil {
				return fmt.Errorf("fs.ReadDir(migrations) > %w", err)
			}
			names := make([]string, 0, len(entries))
			for _, entry := range entries {
				names = append(names, entry.Name())
			}
			sort.Strings(names)

			for _, name := range names {
				statements, err := fs.ReadFile(schemas.Migrations, "migrations/"+name)
				if err != nil {
					return fmt.Errorf("fs.ReadFile(%s) > %w", name, err)
				}
				if _, err := db.ExecContext(ctx, string(statements)); err != nil {
					return fmt.Errorf("apply migration %s > %w", name, err)
				}
				fmt.Printf("applied %s\n", name)
			}
			return nil
		},
	}
}
