package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/loans/cmd/app/commands"
	"github.com/allisson/loans/internal/app"
	"github.com/allisson/loans/internal/config"
)

func getOutboxCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "clean-outbox-events",
			Usage: "Delete outbox events processed more than the given number of days ago",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "days",
					Aliases: []string{"d"},
					Value:   7,
					Usage:   "Keep events processed within this many days",
				},
				&cli.BoolFlag{
					Name:    "dry-run",
					Aliases: []string{"n"},
					Usage:   "Only count the events that would be deleted",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				defer func() { _ = container.Shutdown(ctx) }()

				outboxUseCase, err := container.OutboxUseCase()
				if err != nil {
					return err
				}

				return commands.RunCleanOutboxEvents(
					ctx,
					outboxUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					int(cmd.Int("days")),
					cmd.Bool("dry-run"),
					cmd.String("format"),
				)
			},
		},
	}
}
