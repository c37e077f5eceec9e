package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"epicevents.org/internal/audit"
	"epicevents.org/internal/auth"
	"epicevents.org/internal/config"
	"epicevents.org/internal/crm"
	"epicevents.org/internal/ids"
	"epicevents.org/internal/migrate"
	"epicevents.org/internal/obs"
	"epicevents.org/internal/store/pg"
)

// app wires the collaborators for a single CLI invocation.
type app struct {
	cfg      *config.Config
	store    *pg.Store
	sessions *auth.SessionStore
	svc      *crm.Service
}

// newApp builds the dependency graph and tags the context with a request id
// so every audit event from this invocation correlates.
func newApp(ctx context.Context) (*app, context.Context, error) {
	cfg := config.Load()

	store, err := pg.Open(cfg.DatabaseURL,
		pg.WithPool(cfg.DatabaseMaxOpenConns, cfg.DatabaseMaxIdleConns, cfg.DatabaseConnMaxLifetime))
	if err != nil {
		return nil, ctx, fmt.Errorf("open database: %w", err)
	}

	codec, err := auth.NewTokenCodec(cfg.AuthSecret)
	if err != nil {
		return nil, ctx, err
	}
	sessions, err := auth.NewSessionStore(cfg.SessionFile)
	if err != nil {
		return nil, ctx, err
	}
	gate, err := auth.NewGate(sessions, codec)
	if err != nil {
		return nil, ctx, err
	}
	svc, err := crm.NewService(store, gate, codec, sessions)
	if err != nil {
		return nil, ctx, err
	}

	if cfg.UsingDevSecret() {
		obs.Log("warn", "signing with the development secret, set EPICEVENTS_AUTH_SECRET", nil)
	}

	ctx = audit.WithRequestID(ctx, ids.New())
	return &app{cfg: cfg, store: store, sessions: sessions, svc: svc}, ctx, nil
}

func (a *app) Close() { _ = a.store.Close() }

func (a *app) migrator() *migrate.Manager {
	return migrate.NewManager(a.store.DB(), a.cfg.MigrationsDir)
}

// run builds the app, executes fn and tears down.
func run(ctx context.Context, fn func(ctx context.Context, a *app) error) error {
	a, ctx, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

// argID parses the single positional argument as a record id.
func argID(cmd *cli.Command) (int64, error) {
	arg := strings.TrimSpace(cmd.Args().First())
	if arg == "" {
		return 0, fmt.Errorf("a record id is required")
	}
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid record id %q", arg)
	}
	return id, nil
}

// printJSON renders a record for the operator.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// promptSecret reads a value from stdin when the flag was left empty.
func promptSecret(label string) (string, error) {
	fmt.Fprintf(os.Stderr, "%s: ", label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(line), nil
}

// parseAmount converts a decimal amount like "12345.67" into cents.
func parseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("amount is required")
	}
	neg := strings.HasPrefix(s, "-")
	whole, frac, _ := strings.Cut(strings.TrimPrefix(s, "-"), ".")
	if whole == "" {
		whole = "0"
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	var cents int64
	switch len(frac) {
	case 0:
	case 1:
		d, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
		cents = d * 10
	case 2:
		d, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
		cents = d
	default:
		return 0, fmt.Errorf("invalid amount %q: at most two decimal places", s)
	}
	total := units*100 + cents
	if neg {
		total = -total
	}
	return total, nil
}

// parseDate accepts RFC 3339 or "2006-01-02 15:04" in local time.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", s, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q, use RFC 3339 or \"2006-01-02 15:04\"", s)
}
