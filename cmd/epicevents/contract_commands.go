package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"epicevents.org/internal/crm"
)

func contractCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "contract",
			Usage: "Manage contracts",
			Commands: []*cli.Command{
				{
					Name:  "create",
					Usage: "Create a contract (Management only)",
					Flags: []cli.Flag{
						&cli.Int64Flag{Name: "client", Required: true, Usage: "Client id"},
						&cli.Int64Flag{Name: "commercial", Usage: "Commercial contact id (defaults to the client's)"},
						&cli.StringFlag{Name: "total", Required: true, Usage: "Total amount, e.g. 10000.00"},
						&cli.StringFlag{Name: "remaining", Required: true, Usage: "Remaining amount, e.g. 2500.00"},
					},
					Action: func(ctx context.Context, cmd *cli.Command) error {
						return run(ctx, func(ctx context.Context, a *app) error {
							total, err := parseAmount(cmd.String("total"))
							if err != nil {
								return err
							}
							remaining, err := parseAmount(cmd.String("remaining"))
							if err != nil {
								return err
							}
							contract, err := a.svc.CreateContract(ctx, crm.CreateContractInput{
								ClientID:            cmd.Int64("client"),
								CommercialContactID: cmd.Int64("commercial"),
								TotalCents:          total,
								RemainingCents:      remaining,
							})
							if err != nil {
								return err
							}
							return printJSON(contract)
						})
					},
				},
				{
					Name:      "update",
					Usage:     "Update a contract's amounts or commercial contact",
					ArgsUsage: "<contract-id>",
					Flags: []cli.Flag{
						&cli.StringFlag{Name: "total", Usage: "New total amount"},
						&cli.StringFlag{Name: "remaining", Usage: "New remaining amount"},
						&cli.Int64Flag{Name: "commercial", Usage: "New commercial contact id"},
					},
					Action: func(ctx context.Context, cmd *cli.Command) error {
						return run(ctx, func(ctx context.Context, a *app) error {
							id, err := argID(cmd)
							if err != nil {
								return err
							}
							var upd crm.ContractUpdate
							if cmd.IsSet("total") {
								v, err := parseAmount(cmd.String("total"))
								if err != nil {
									return err
								}
								upd.TotalCents = &v
							}
							if cmd.IsSet("remaining") {
								v, err := parseAmount(cmd.String("remaining"))
								if err != nil {
									return err
								}
								upd.RemainingCents = &v
							}
							if cmd.IsSet("commercial") {
								v := cmd.Int64("commercial")
								upd.CommercialContactID = &v
							}
							contract, err := a.svc.UpdateContract(ctx, id, upd)
							if err != nil {
								return err
							}
							return printJSON(contract)
						})
					},
				},
				{
					Name:      "sign",
					Usage:     "Mark a contract as signed (one-way)",
					ArgsUsage: "<contract-id>",
					Action: func(ctx context.Context, cmd *cli.Command) error {
						return run(ctx, func(ctx context.Context, a *app) error {
							id, err := argID(cmd)
							if err != nil {
								return err
							}
							contract, alreadySigned, err := a.svc.SignContract(ctx, id)
							if err != nil {
								return err
							}
							if alreadySigned {
								fmt.Printf("Contract %d was already signed\n", contract.ID)
								return nil
							}
							return printJSON(contract)
						})
					},
				},
				{
					Name:  "list",
					Usage: "List contracts",
					Flags: []cli.Flag{
						&cli.BoolFlag{Name: "unsigned", Usage: "Only unsigned contracts"},
						&cli.BoolFlag{Name: "unpaid", Usage: "Only contracts with a remaining balance"},
					},
					Action: func(ctx context.Context, cmd *cli.Command) error {
						return run(ctx, func(ctx context.Context, a *app) error {
							contracts, err := a.svc.ListContracts(ctx, crm.ContractFilter{
								UnsignedOnly: cmd.Bool("unsigned"),
								UnpaidOnly:   cmd.Bool("unpaid"),
							})
							if err != nil {
								return err
							}
							return printJSON(contracts)
						})
					},
				},
			},
		},
	}
}
