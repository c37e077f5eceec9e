package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func authCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "login",
			Usage: "Authenticate and persist a session token",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "email",
					Aliases:  []string{"e"},
					Required: true,
					Usage:    "Employee email address",
				},
				&cli.StringFlag{
					Name:    "password",
					Aliases: []string{"p"},
					Usage:   "Password (prompted when omitted)",
				},
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
					user, err := a.svc.Login(ctx, cmd.String("email"), password)
					if err != nil {
						return err
					}
					fmt.Printf("Logged in as %s (%s, %s)\n", user.Name, user.EmployeeID, user.Department)
					return nil
				})
			},
		},
		{
			Name:  "logout",
			Usage: "Clear the persisted session token",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return run(ctx, func(ctx context.Context, a *app) error {
					if err := a.svc.Logout(ctx); err != nil {
						return err
					}
					fmt.Println("Logged out")
					return nil
				})
			},
		},
		{
			Name:  "whoami",
			Usage: "Show the current session identity",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return run(ctx, func(ctx context.Context, a *app) error {
					claims, err := a.svc.Whoami(ctx)
					if err != nil {
						return err
					}
					fmt.Printf("%s (%s, %s) <%s>\n", claims.Name, claims.EmployeeID, claims.Department, claims.Email)
					fmt.Printf("Session expires %s\n", claims.ExpiresAt.Time.Local().Format("2006-01-02 15:04"))
					return nil
				})
			},
		},
	}
}
