package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"epicevents.org/internal/auth"
	"epicevents.org/internal/crm"
)

// seedCommands bootstraps a fresh installation with sample data. Account
// creation normally requires an authenticated Management session; the seed
// writes through the store directly so the first Management account can
// exist at all.
func seedCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "seed",
			Usage: "Load sample data into an empty database",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "password",
					Value: "epicevents",
					Usage: "Password assigned to every sample account",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return run(ctx, func(ctx context.Context, a *app) error {
					return seed(ctx, a, cmd.String("password"))
				})
			},
		},
	}
}

func seed(ctx context.Context, a *app, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	users := []crm.User{
		{EmployeeID: "COM001", Name: "Bill Boquet", Email: "bill@epicevents.com", Department: auth.DeptCommercial},
		{EmployeeID: "SUP001", Name: "Kate Hastroff", Email: "kate@epicevents.com", Department: auth.DeptSupport},
		{EmployeeID: "MAN001", Name: "Alice Manager", Email: "alice@epicevents.com", Department: auth.DeptManagement},
	}
	byEmployeeID := map[string]crm.User{}
	for _, u := range users {
		u.PasswordHash = hash
		existing, err := a.store.GetUserByEmail(ctx, u.Email)
		if err == nil {
			byEmployeeID[u.EmployeeID] = existing
			continue
		}
		if !errors.Is(err, crm.ErrNotFound) {
			return err
		}
		if err := a.store.CreateUser(ctx, &u); err != nil {
			return err
		}
		byEmployeeID[u.EmployeeID] = u
		fmt.Printf("Created user %s (%s)\n", u.Name, u.EmployeeID)
	}

	commercial := byEmployeeID["COM001"]
	client := crm.Client{
		FullName:            "Kevin Casey",
		Email:               "kevin@startup.io",
		Phone:               "+678 123 456 78",
		CompanyName:         "Cool Startup LLC",
		CommercialContactID: commercial.ID,
	}
	if err := a.store.CreateClient(ctx, &client); err != nil {
		if errors.Is(err, crm.ErrConflict) {
			fmt.Println("Sample data already present, nothing to do")
			return nil
		}
		return err
	}
	fmt.Printf("Created client %s (%s)\n", client.FullName, client.CompanyName)

	contract := crm.Contract{
		ClientID:            client.ID,
		CommercialContactID: commercial.ID,
		TotalCents:          1_500_000,
		RemainingCents:      500_000,
		IsSigned:            true,
	}
	if err := a.store.CreateContract(ctx, &contract); err != nil {
		return err
	}
	fmt.Printf("Created signed contract %d for %s\n", contract.ID, client.FullName)

	start := time.Now().AddDate(0, 1, 0).Truncate(time.Hour)
	event := crm.Event{
		ContractID: contract.ID,
		Name:       "Kevin Casey Launch Party",
		StartAt:    start,
		EndAt:      start.Add(6 * time.Hour),
		Location:   "53 Rue du Chateau, Candé-sur-Beuvron",
		Attendees:  75,
		Notes:      "Wedding starts at 3PM, by the river.",
	}
	if err := a.store.CreateEvent(ctx, &event); err != nil {
		return err
	}
	fmt.Printf("Created event %q\n", event.Name)
	fmt.Printf("All sample accounts use the password %q\n", password)
	return nil
}
