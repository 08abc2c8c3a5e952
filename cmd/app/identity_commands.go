package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/loans/cmd/app/commands"
	"github.com/allisson/loans/internal/app"
	"github.com/allisson/loans/internal/config"
)

func getIdentityCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-identity",
			Usage: "Register a new identity",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Display name",
				},
				&cli.StringFlag{
					Name:     "national-id",
					Aliases:  []string{"d"},
					Required: true,
					Usage:    "National ID (8 digits followed by an uppercase letter)",
				},
				&cli.StringFlag{
					Name:     "email",
					Aliases:  []string{"e"},
					Required: true,
					Usage:    "Email address",
				},
				&cli.StringFlag{
					Name:    "role",
					Aliases: []string{"r"},
					Usage:   "Optional role: CLIENT or MANAGER",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				defer func() { _ = container.Shutdown(ctx) }()

				identityUseCase, err := container.IdentityUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateIdentity(
					ctx,
					identityUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("name"),
					cmd.String("national-id"),
					cmd.String("email"),
					cmd.String("role"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "list-identities",
			Usage: "List identities, optionally filtered by email, national ID or role",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Exact email"},
				&cli.StringFlag{Name: "national-id", Aliases: []string{"d"}, Usage: "Exact national ID"},
				&cli.StringFlag{Name: "role", Aliases: []string{"r"}, Usage: "CLIENT or MANAGER"},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				defer func() { _ = container.Shutdown(ctx) }()

				identityUseCase, err := container.IdentityUseCase()
				if err != nil {
					return err
				}

				return commands.RunListIdentities(
					ctx,
					identityUseCase,
					commands.DefaultIO().Writer,
					cmd.String("email"),
					cmd.String("national-id"),
					cmd.String("role"),
					cmd.String("format"),
				)
			},
		},
	}
}
