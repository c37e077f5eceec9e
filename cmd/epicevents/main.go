// Package main is the Epic Events CRM command line interface. Every command
// runs against the shared PostgreSQL database; the caller's identity comes
// from the locally persisted session token.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"epicevents.org/internal/auth"
	"epicevents.org/internal/crm"
	"epicevents.org/internal/obs"
)

func main() {
	cmd := &cli.Command{
		Name:    "epicevents",
		Usage:   "Epic Events CRM",
		Version: "1.0.0",
		Commands: join(
			authCommands(),
			userCommands(),
			clientCommands(),
			contractCommands(),
			eventCommands(),
			migrateCommands(),
			seedCommands(),
		),
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		obs.Error("command failed", err, map[string]any{"args": os.Args[1:]})
		fmt.Fprintln(os.Stderr, "Error:", reason(err))
		os.Exit(1)
	}
}

func join(groups ...[]*cli.Command) []*cli.Command {
	var all []*cli.Command
	for _, g := range groups {
		all = append(all, g...)
	}
	return all
}

// reason translates sentinel errors into the short messages shown to the
// operator. Unknown errors pass through unchanged.
func reason(err error) string {
	switch {
	case errors.Is(err, auth.ErrAuthentication):
		return "not authenticated, run `epicevents login` first"
	case errors.Is(err, auth.ErrAuthorization):
		return "permission denied: " + err.Error()
	case errors.Is(err, crm.ErrNotFound):
		return "record not found"
	default:
		return err.Error()
	}
}
