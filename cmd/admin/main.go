package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"
	"github.com/vncsmyrnk/escrutinio/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/escrutinio/internal/config"
	"github.com/vncsmyrnk/escrutinio/internal/core/domain"
	"github.com/vncsmyrnk/escrutinio/internal/core/ports"
	"github.com/vncsmyrnk/escrutinio/internal/core/services"
	"gopkg.in/yaml.v3"
)

func main() {
	args := os.Args
	if len(args) == 1 {
		args = append(args, "--help")
	}

	root := &cli.Command{
		Name:  "admin",
		Usage: "Election setup and account management",
		Commands: []*cli.Command{
			loadStructureCommand(),
			createUserCommand(),
			summaryCommand(),
		},
	}

	if err := root.Run(context.Background(), args); err != nil {
		log.Fatal(err)
	}
}

func loadStructureCommand() *cli.Command {
	return &cli.Command{
		Name:  "load-structure",
		Usage: "Load subjurisdictions, sites, stations, offices and parties from a YAML file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Required: true, Usage: "structure YAML file"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			structure, err := readStructure(c.String("file"))
			if err != nil {
				return err
			}
			return withDB(ctx, func(db *sql.DB) error {
				svc := services.NewStructureService(postgres.NewStructureRepository(db))
				stats, err := svc.Load(ctx, *structure)
				if err != nil {
					return err
				}
				return printJSON(stats)
			})
		},
	}
}

func readStructure(path string) (*domain.Structure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read structure file: %w", err)
	}
	var structure domain.Structure
	if err := yaml.Unmarshal(data, &structure); err != nil {
		return nil, fmt.Errorf("failed to parse structure file: %w", err)
	}
	return &structure, nil
}

func createUserCommand() *cli.Command {
	return &cli.Command{
		Name:  "create-user",
		Usage: "Create an operator, panelist or admin account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Required: true},
			&cli.StringFlag{Name: "password", Required: true, Sources: cli.EnvVars("ADMIN_NEW_PASSWORD")},
			&cli.StringFlag{Name: "role", Value: string(domain.RoleOperator), Usage: "operador, panelista or admin"},
			&cli.Int64Flag{Name: "site-id", Usage: "site (escuela) id, required for operators"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			input := ports.CreateUserInput{
				Username: c.String("username"),
				Password: c.String("password"),
				Role:     domain.Role(c.String("role")),
			}
			if c.IsSet("site-id") {
				site := c.Int64("site-id")
				input.SiteID = &site
			}

			return withDB(ctx, func(db *sql.DB) error {
				svc := services.NewUserService(postgres.NewUserRepository(db), 15*time.Minute)
				user, err := svc.Create(ctx, input)
				if err != nil {
					return err
				}
				return printJSON(user)
			})
		},
	}
}

// summaryCommand prints the same office summary the panel shows, for use
// without the dashboard.
func summaryCommand() *cli.Command {
	return &cli.Command{
		Name:  "summary",
		Usage: "Print the party totals for one office",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "cargo", Required: true, Usage: "office id, name or alias"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return withDB(ctx, func(db *sql.DB) error {
				ballot := services.NewBallotService(postgres.NewBallotRepository(db))
				svc := services.NewAggregationService(postgres.NewAggregationRepository(db), ballot)
				summary, err := svc.SummaryByOffice(ctx, cliActor(), c.String("cargo"))
				if err != nil {
					return err
				}
				return printJSON(summary)
			})
		},
	}
}

func cliActor() *domain.Actor {
	return &domain.Actor{UserID: cliUserID, Username: "cli", Role: domain.RoleAdmin}
}

func withDB(ctx context.Context, fn func(db *sql.DB) error) error {
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
	return fn(db)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var cliUserID = uuid.MustParse("00000000-0000-0000-0000-00000000c11a")
