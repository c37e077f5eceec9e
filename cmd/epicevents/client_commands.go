package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"epicevents.org/internal/crm"
)

func clientCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "client",
			Usage: "Manage client records",
			Commands: []*cli.Command{
				{
					Name:  "create",
					Usage: "Create a client owned by the calling commercial",
					Flags: []cli.Flag{
						&cli.StringFlag{Name: "name", Required: true, Usage: "Client full name"},
						&cli.StringFlag{Name: "email", Required: true, Usage: "Client email address"},
						&cli.StringFlag{Name: "phone", Required: true, Usage: "Client phone number"},
						&cli.StringFlag{Name: "company", Required: true, Usage: "Company name"},
					},
					Action: func(ctx context.Context, cmd *cli.Command) error {
						return run(ctx, func(ctx context.Context, a *app) error {
							client, err := a.svc.CreateClient(ctx, crm.CreateClientInput{
								FullName:    cmd.String("name"),
								Email:       cmd.String("email"),
								Phone:       cmd.String("phone"),
								CompanyName: cmd.String("company"),
							})
							if err != nil {
								return err
							}
							return printJSON(client)
						})
					},
				},
				{
					Name:      "update",
					Usage:     "Update a client record",
					ArgsUsage: "<client-id>",
					Flags: []cli.Flag{
						&cli.StringFlag{Name: "name", Usage: "New full name"},
						&cli.StringFlag{Name: "email", Usage: "New email address"},
						&cli.StringFlag{Name: "phone", Usage: "New phone number"},
						&cli.StringFlag{Name: "company", Usage: "New company name"},
					},
					Action: func(ctx context.Context, cmd *cli.Command) error {
						return run(ctx, func(ctx context.Context, a *app) error {
							id, err := argID(cmd)
							if err != nil {
								return err
							}
							var upd crm.ClientUpdate
							if cmd.IsSet("name") {
								v := cmd.String("name")
								upd.FullName = &v
							}
							if cmd.IsSet("email") {
								v := cmd.String("email")
								upd.Email = &v
							}
							if cmd.IsSet("phone") {
								v := cmd.String("phone")
								upd.Phone = &v
							}
							if cmd.IsSet("company") {
								v := cmd.String("company")
								upd.CompanyName = &v
							}
							client, err := a.svc.UpdateClient(ctx, id, upd)
							if err != nil {
								return err
							}
							return printJSON(client)
						})
					},
				},
				{
					Name:  "list",
					Usage: "List all clients",
					Action: func(ctx context.Context, cmd *cli.Command) error {
						return run(ctx, func(ctx context.Context, a *app) error {
							clients, err := a.svc.ListClients(ctx)
							if err != nil {
								return err
							}
							return printJSON(clients)
						})
					},
				},
			},
		},
	}
}
