package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"epicevents.org/internal/crm"
)

func userCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "user",
			Usage: "Manage employee accounts (Management only)",
			Commands: []*cli.Command{
				{
					Name:  "create",
					Usage: "Create an employee account",
					Flags: []cli.Flag{
						&cli.StringFlag{Name: "employee-id", Required: true, Usage: "Unique employee number, e.g. COM001"},
						&cli.StringFlag{Name: "name", Required: true, Usage: "Full name"},
						&cli.StringFlag{Name: "email", Required: true, Usage: "Email address"},
						&cli.StringFlag{Name: "department", Required: true, Usage: "Commercial, Support or Management"},
						&cli.StringFlag{Name: "password", Usage: "Password (prompted when omitted)"},
					},
					Action: func(ctx context.Context, cmd *cli.Command) error {
						return run(ctx, func(ctx context.Context, a *app) error {
							password := cmd.String("password")
							if password == "" {
								var err error
								password, err = promptSecret("Password")
								if err != nil {
									return err
								}
							}
							user, err := a.svc.CreateUser(ctx, crm.CreateUserInput{
								EmployeeID: cmd.String("employee-id"),
								Name:       cmd.String("name"),
								Email:      cmd.String("email"),
								Department: cmd.String("department"),
								Password:   password,
							})
							if err != nil {
								return err
							}
							return printJSON(user)
						})
					},
				},
				{
					Name:      "update",
					Usage:     "Update an employee account",
					ArgsUsage: "<user-id>",
					Flags: []cli.Flag{
						&cli.StringFlag{Name: "name", Usage: "New full name"},
						&cli.StringFlag{Name: "email", Usage: "New email address"},
						&cli.StringFlag{Name: "department", Usage: "New department"},
						&cli.StringFlag{Name: "password", Usage: "New password"},
					},
					Action: func(ctx context.Context, cmd *cli.Command) error {
						return run(ctx, func(ctx context.Context, a *app) error {
							id, err := argID(cmd)
							if err != nil {
								return err
							}
							var upd crm.UserUpdate
							if cmd.IsSet("name") {
								v := cmd.String("name")
								upd.Name = &v
							}
							if cmd.IsSet("email") {
								v := cmd.String("email")
								upd.Email = &v
							}
							if cmd.IsSet("department") {
								v := cmd.String("department")
								upd.Department = &v
							}
							if cmd.IsSet("password") {
								v := cmd.String("password")
								upd.Password = &v
							}
							user, err := a.svc.UpdateUser(ctx, id, upd)
							if err != nil {
								return err
							}
							return printJSON(user)
						})
					},
				},
				{
					Name:      "delete",
					Usage:     "Delete an employee account",
					ArgsUsage: "<user-id>",
					Action: func(ctx context.Context, cmd *cli.Command) error {
						return run(ctx, func(ctx context.Context, a *app) error {
							id, err := argID(cmd)
							if err != nil {
								return err
							}
							if err := a.svc.DeleteUser(ctx, id); err != nil {
								return err
							}
							fmt.Printf("Deleted user %d\n", id)
							return nil
						})
					},
				},
				{
					Name:  "list",
					Usage: "List employee accounts",
					Action: func(ctx context.Context, cmd *cli.Command) error {
						return run(ctx, func(ctx context.Context, a *app) error {
							users, err := a.svc.ListUsers(ctx)
							if err != nil {
								return err
							}
							return printJSON(users)
						})
					},
				},
			},
		},
	}
}
