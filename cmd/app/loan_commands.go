package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/loans/cmd/app/commands"
	"github.com/allisson/loans/internal/app"
	"github.com/allisson/loans/internal/config"
)

func getLoanCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-loan-request",
			Usage: "File a PENDING loan request for an existing borrower",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "borrower-id",
					Aliases:  []string{"b"},
					Required: true,
					Usage:    "Borrower identity ID (UUID)",
				},
				&cli.FloatFlag{
					Name:     "amount",
					Aliases:  []string{"a"},
					Required: true,
					Usage:    "Requested amount, greater than zero",
				},
				&cli.StringFlag{
					Name:     "currency",
					Aliases:  []string{"c"},
					Required: true,
					Usage:    "EUR, USD or GBP",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				defer func() { _ = container.Shutdown(ctx) }()

				loanRequestUseCase, err := container.LoanRequestUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateLoanRequest(
					ctx,
					loanRequestUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("borrower-id"),
					cmd.Float("amount"),
					cmd.String("currency"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "list-loan-requests",
			Usage: "List loan requests, optionally filtered by status, borrower or currency",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "status", Aliases: []string{"s"}, Usage: "PENDING, APPROVED, REJECTED or CANCELLED"},
				&cli.StringFlag{Name: "borrower-id", Aliases: []string{"b"}, Usage: "Borrower identity ID (UUID)"},
				&cli.StringFlag{Name: "currency", Aliases: []string{"c"}, Usage: "EUR, USD or GBP"},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				defer func() { _ = container.Shutdown(ctx) }()

				loanRequestUseCase, err := container.LoanRequestUseCase()
				if err != nil {
					return err
				}

				return commands.RunListLoanRequests(
					ctx,
					loanRequestUseCase,
					commands.DefaultIO().Writer,
					cmd.String("status"),
					cmd.String("borrower-id"),
					cmd.String("currency"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "update-loan-status",
			Usage: "Move a loan request along the status state machine",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "id",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Loan request ID (UUID)",
				},
				&cli.StringFlag{
					Name:     "status",
					Aliases:  []string{"s"},
					Required: true,
					Usage:    "Target status: APPROVED, REJECTED or CANCELLED",
				},
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				defer func() { _ = container.Shutdown(ctx) }()

				loanRequestUseCase, err := container.LoanRequestUseCase()
				if err != nil {
					return err
				}

				return commands.RunUpdateLoanStatus(
					ctx,
					loanRequestUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("id"),
					cmd.String("status"),
					cmd.String("format"),
				)
			},
		},
	}
}
