package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func migrateCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "migrate",
			Usage: "Manage the database schema",
			Commands: []*cli.Command{
				{
					Name:  "up",
					Usage: "Apply pending migrations",
					Action: func(ctx context.Context, cmd *cli.Command) error {
						return run(ctx, func(ctx context.Context, a *app) error {
							if err := a.migrator().Up(ctx); err != nil {
								return err
							}
							fmt.Println("Migrations applied")
							return nil
						})
					},
				},
				{
					Name:  "down",
					Usage: "Roll back the most recent migration",
					Action: func(ctx context.Context, cmd *cli.Command) error {
						return run(ctx, func(ctx context.Context, a *app) error {
							if err := a.migrator().Down(ctx); err != nil {
								return err
							}
							fmt.Println("Rolled back one migration")
							return nil
						})
					},
				},
				{
					Name:  "status",
					Usage: "Show applied migrations",
					Action: func(ctx context.Context, cmd *cli.Command) error {
						return run(ctx, func(ctx context.Context, a *app) error {
							applied, err := a.migrator().Status(ctx)
							if err != nil {
								return err
							}
							if len(applied) == 0 {
								fmt.Println("No migrations applied")
								return nil
							}
							for _, name := range applied {
								fmt.Println(name)
							}
							return nil
						})
					},
				},
			},
		},
	}
}
