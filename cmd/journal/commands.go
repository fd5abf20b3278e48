package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/templui/golfjournal/internal/app"
	"github.com/templui/golfjournal/internal/config"
	"github.com/templui/golfjournal/internal/db"
	"github.com/templui/golfjournal/internal/jobs"
	"github.com/urfave/cli/v2"
)

func newCLI(cfg *config.Config, out io.Writer) *cli.App {
	return &cli.App{
		Name:      "journal",
		Usage:     "operate a golf journal deployment",
		Writer:    out,
		ErrWriter: out,
		Commands: []*cli.Command{
			migrateCommand(cfg, out),
			tokenCommand(cfg, out),
			statsCommand(cfg, out),
			tokensCommand(cfg, out),
		},
	}
}

func migrateCommand(cfg *config.Config, out io.Writer) *cli.Command {
	run := func(step func(database *sql.DB, driver string) error) cli.ActionFunc {
		return func(c *cli.Context) error {
			database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close(database) }()

			err = step(database.DB, cfg.DBDriver)
			if err != nil {
				return err
			}

			version, err := db.Version(database.DB, cfg.DBDriver)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "database at version %d\n", version)
			return nil
		}
	}

	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:   "up",
				Usage:  "apply all pending migrations",
				Action: run(db.RunMigrations),
			},
			{
				Name:   "down",
				Usage:  "roll back the latest migration",
				Action: run(db.MigrateDown),
			},
			{
				Name:   "status",
				Usage:  "print the current version",
				Action: run(func(*sql.DB, string) error { return nil }),
			},
		},
	}
}

// withApp builds the application for one command and closes it after.
func withApp(cfg *config.Config, fn func(c *cli.Context, a *app.App) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		a, err := app.New(c.Context, cfg)
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()
		return fn(c, a)
	}
}

func tokenCommand(cfg *config.Config, out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "pre-issued sign-in tokens",
		Subcommands: []*cli.Command{
			{
				Name:  "issue",
				Usage: "issue a single-use sign-in link for an email address",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
				},
				Action: withApp(cfg, func(c *cli.Context, a *app.App) error {
					user, value, err := a.AuthService.IssueSignInToken(c.Context, c.String("email"))
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "user:    %s\n", user.ID)
					fmt.Fprintf(out, "expires: %s\n", time.Now().Add(cfg.TokenSignInExpiry).UTC().Format(time.RFC3339))
					fmt.Fprintf(out, "link:    %s\n", a.EmailService.SignInURL(value))
					return nil
				}),
			},
		},
	}
}

func statsCommand(cfg *config.Config, out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "print a user's statistics and goal progress as JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "user", Required: true, Usage: "user id"},
		},
		Action: withApp(cfg, func(c *cli.Context, a *app.App) error {
			user, err := a.UserService.ByID(c.Context, c.String("user"))
			if err != nil {
				return err
			}

			view, err := a.JournalService.Dashboard(c.Context, user.ID)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(view)
		}),
	}
}

func tokensCommand(cfg *config.Config, out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "tokens",
		Usage: "sign-in token maintenance",
		Subcommands: []*cli.Command{
			{
				Name:  "cleanup",
				Usage: "remove used and expired tokens",
				Flags: []cli.Flag{
					&cli.DurationFlag{Name: "older-than", Value: cfg.TokenRetention},
				},
				Action: withApp(cfg, func(c *cli.Context, a *app.App) error {
					removed, err := jobs.RunTokenCleanup(c.Context, a.AuthService, c.Duration("older-than"))
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "removed %d tokens\n", removed)
					return nil
				}),
			},
		},
	}
}
