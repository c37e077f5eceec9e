package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/urfave/cli/v3"

	"epicevents.org/internal/auth"
	"epicevents.org/internal/crm"
)

func findCommand(t *testing.T, cmds []*cli.Command, path ...string) *cli.Command {
	t.Helper()
	var current *cli.Command
	scope := cmds
	for _, name := range path {
		current = nil
		for _, c := range scope {
			if c.Name == name {
				current = c
				break
			}
		}
		if current == nil {
			t.Fatalf("command %v not found", path)
		}
		scope = current.Commands
	}
	return current
}

// Record ids are int64 end to end; the flags carrying them must be
// Int64Flags so their values assign to the service input types without
// truncation.
func TestRecordIDFlagsAreInt64(t *testing.T) {
	cases := []struct {
		path  []string
		flags []string
	}{
		{[]string{"contract", "create"}, []string{"client", "commercial"}},
		{[]string{"contract", "update"}, []string{"commercial"}},
		{[]string{"event", "create"}, []string{"contract"}},
		{[]string{"event", "assign-support"}, []string{"support"}},
	}
	all := join(contractCommands(), eventCommands())
	for _, tc := range cases {
		cmd := findCommand(t, all, tc.path...)
		for _, name := range tc.flags {
			var found bool
			for _, f := range cmd.Flags {
				for _, n := range f.Names() {
					if n != name {
						continue
					}
					found = true
					if _, ok := f.(*cli.Int64Flag); !ok {
						t.Errorf("%v --%s: expected *cli.Int64Flag, got %T", tc.path, name, f)
					}
				}
			}
			if !found {
				t.Errorf("%v: flag %s not found", tc.path, name)
			}
		}
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in      string
		cents   int64
		wantErr bool
	}{
		{"10000.00", 1_000_000, false},
		{"2500", 250_000, false},
		{"0.5", 50, false},
		{"0.05", 5, false},
		{"-12.34", -1234, false},
		{"", 0, true},
		{"abc", 0, true},
		{"1.234", 0, true},
		{"1.2.3", 0, true},
	}
	for _, tc := range cases {
		got, err := parseAmount(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parseAmount(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseAmount(%q): %v", tc.in, err)
			continue
		}
		if got != tc.cents {
			t.Errorf("parseAmount(%q) = %d, want %d", tc.in, got, tc.cents)
		}
	}
}

func TestParseDate(t *testing.T) {
	if _, err := parseDate("2026-06-04 13:00"); err != nil {
		t.Errorf("local format: %v", err)
	}
	if _, err := parseDate("2026-06-04T13:00:00Z"); err != nil {
		t.Errorf("RFC 3339: %v", err)
	}
	for _, in := range []string{"", "04/06/2026", "2026-06-04"} {
		if _, err := parseDate(in); err == nil {
			t.Errorf("parseDate(%q): expected error", in)
		}
	}
}

func TestReasonMessages(t *testing.T) {
	if got := reason(auth.ErrAuthentication); got != "not authenticated, run `epicevents login` first" {
		t.Errorf("authentication: %q", got)
	}
	authz := fmt.Errorf("%w: capability %q required", auth.ErrAuthorization, auth.CapCreateUser)
	if got := reason(authz); got == "" || got == authz.Error() {
		t.Errorf("authorization should carry the prefix: %q", got)
	}
	if got := reason(crm.ErrNotFound); got != "record not found" {
		t.Errorf("not found: %q", got)
	}
	other := errors.New("disk on fire")
	if got := reason(other); got != "disk on fire" {
		t.Errorf("passthrough: %q", got)
	}
}
