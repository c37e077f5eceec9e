package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"epicevents.org/internal/crm"
)

func eventCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "event",
			Usage: "Manage events",
			Commands: []*cli.Command{
				{
					Name:  "create",
					Usage: "Create an event under a signed contract you own",
					Flags: []cli.Flag{
						&cli.Int64Flag{Name: "contract", Required: true, Usage: "Contract id"},
						&cli.StringFlag{Name: "name", Required: true, Usage: "Event name"},
						&cli.StringFlag{Name: "start", Required: true, Usage: "Start date, e.g. \"2026-06-04 13:00\""},
						&cli.StringFlag{Name: "end", Required: true, Usage: "End date"},
						&cli.StringFlag{Name: "location", Required: true, Usage: "Venue address"},
						&cli.IntFlag{Name: "attendees", Required: true, Usage: "Expected attendee count"},
						&cli.StringFlag{Name: "notes", Usage: "Free-form notes"},
					},
					Action: func(ctx context.Context, cmd *cli.Command) error {
						return run(ctx, func(ctx context.Context, a *app) error {
							start, err := parseDate(cmd.String("start"))
							if err != nil {
								return err
							}
							end, err := parseDate(cmd.String("end"))
							if err != nil {
								return err
							}
							event, err := a.svc.CreateEvent(ctx, crm.CreateEventInput{
								ContractID: cmd.Int64("contract"),
								Name:       cmd.String("name"),
								StartAt:    start,
								EndAt:      end,
								Location:   cmd.String("location"),
								Attendees:  int(cmd.Int("attendees")),
								Notes:      cmd.String("notes"),
							})
							if err != nil {
								return err
							}
							return printJSON(event)
						})
					},
				},
				{
					Name:      "update",
					Usage:     "Update an event",
					ArgsUsage: "<event-id>",
					Flags: []cli.Flag{
						&cli.StringFlag{Name: "name", Usage: "New event name"},
						&cli.StringFlag{Name: "start", Usage: "New start date"},
						&cli.StringFlag{Name: "end", Usage: "New end date"},
						&cli.StringFlag{Name: "location", Usage: "New venue address"},
						&cli.IntFlag{Name: "attendees", Usage: "New attendee count"},
						&cli.StringFlag{Name: "notes", Usage: "New notes"},
					},
					Action: func(ctx context.Context, cmd *cli.Command) error {
						return run(ctx, func(ctx context.Context, a *app) error {
							id, err := argID(cmd)
							if err != nil {
								return err
							}
							var upd crm.EventUpdate
							if cmd.IsSet("name") {
								v := cmd.String("name")
								upd.Name = &v
							}
							if cmd.IsSet("start") {
								v, err := parseDate(cmd.String("start"))
								if err != nil {
									return err
								}
								upd.StartAt = &v
							}
							if cmd.IsSet("end") {
								v, err := parseDate(cmd.String("end"))
								if err != nil {
									return err
								}
								upd.EndAt = &v
							}
							if cmd.IsSet("location") {
								v := cmd.String("location")
								upd.Location = &v
							}
							if cmd.IsSet("attendees") {
								v := int(cmd.Int("attendees"))
								upd.Attendees = &v
							}
							if cmd.IsSet("notes") {
								v := cmd.String("notes")
								upd.Notes = &v
							}
							event, err := a.svc.UpdateEvent(ctx, id, upd)
							if err != nil {
								return err
							}
							return printJSON(event)
						})
					},
				},
				{
					Name:      "assign-support",
					Usage:     "Assign a Support user to an event (Management only)",
					ArgsUsage: "<event-id>",
					Flags: []cli.Flag{
						&cli.Int64Flag{Name: "support", Usage: "Support user id, 0 clears the assignment"},
					},
					Action: func(ctx context.Context, cmd *cli.Command) error {
						return run(ctx, func(ctx context.Context, a *app) error {
							id, err := argID(cmd)
							if err != nil {
								return err
							}
							event, err := a.svc.AssignSupport(ctx, id, cmd.Int64("support"))
							if err != nil {
								return err
							}
							return printJSON(event)
						})
					},
				},
				{
					Name:  "list",
					Usage: "List events",
					Flags: []cli.Flag{
						&cli.BoolFlag{Name: "no-support", Usage: "Only events without a support contact"},
						&cli.BoolFlag{Name: "own", Usage: "Only events assigned to you (Support)"},
					},
					Action: func(ctx context.Context, cmd *cli.Command) error {
						return run(ctx, func(ctx context.Context, a *app) error {
							events, err := a.svc.ListEvents(ctx, crm.EventFilter{
								WithoutSupport: cmd.Bool("no-support"),
								OwnOnly:        cmd.Bool("own"),
							})
							if err != nil {
								return err
							}
							return printJSON(events)
						})
					},
				},
			},
		},
	}
}
