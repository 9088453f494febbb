package main

import (
	"context"
	"database/sql"
	"log"
	"os"

	"github.com/urfave/cli/v3"
	"github.com/vncsmyrnk/escrutinio/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/escrutinio/internal/config"
)

func main() {
	args := os.Args
	if len(args) == 1 {
		args = append(args, "--help")
	}

	root := &cli.Command{
		Name:  "migrations",
		Usage: "Apply or inspect the embedded database migrations",
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "Apply every pending migration",
				Action: withDB(func(ctx context.Context, db *sql.DB) error {
					if err := postgres.Migrate(ctx, db); err != nil {
						return err
					}
					log.Println("Migrations applied successfully.")
					return nil
				}),
			},
			{
				Name:   "down",
				Usage:  "Roll back the most recent migration",
				Action: withDB(postgres.MigrateDown),
			},
			{
				Name:   "status",
				Usage:  "Print the state of every migration",
				Action: withDB(postgres.MigrationStatus),
			},
		},
	}

	if err := root.Run(context.Background(), args); err != nil {
		log.Fatal(err)
	}
}

func withDB(fn func(ctx context.Context, db *sql.DB) error) cli.ActionFunc {
	return func(ctx context.Context, _ *cli.Command) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		d := cfg.Database
		db, err := postgres.Open(ctx, postgres.Config{
			Host:     d.Host,
			Port:     d.Port,
			User:     d.User,
			Password: d.Password,
			Name:     d.Name,
			SSLMode:  d.SSLMode,
		})
		if err != nil {
			return err
		}
		defer db.Close()
		return fn(ctx, db)
	}
}
