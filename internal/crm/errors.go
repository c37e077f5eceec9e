package crm

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound     = errors.New("crm: not found")
	ErrConflict     = errors.New("crm: already exists")
	ErrInvalidInput = errors.New("crm: invalid input")

	// ErrOwnership marks a caller whose department holds the capability but
	// who does not own or is not assigned to the target record.
	ErrOwnership = errors.New("crm: record is not owned by the caller")

	// ErrContractNotSigned is the distinct reason reported when an event is
	// created against an unsigned contract.
	ErrContractNotSigned = errors.New("crm: contract must be signed first")

	// ErrNotSupportUser is the distinct reason reported when a user outside
	// the Support department is assigned as an event's support contact.
	ErrNotSupportUser = errors.New("crm: user must be from Support department")

	// ErrSelfDeletion blocks users from deleting their own account.
	ErrSelfDeletion = errors.New("crm: users cannot delete their own account")
)

// ReferentialIntegrityError blocks user deletion while dependent records
// still reference the user. The message reports the blocking count per
// entity kind.
type ReferentialIntegrityError struct {
	Clients   int64
	Contracts int64
	Events    int64
}

func (e *ReferentialIntegrityError) Error() string {
	parts := make([]string, 0, 3)
	if e.Clients > 0 {
		parts = append(parts, fmt.Sprintf("%d client(s) assigned", e.Clients))
	}
	if e.Contracts > 0 {
		parts = append(parts, fmt.Sprintf("%d contract(s) assigned", e.Contracts))
	}
	if e.Events > 0 {
		parts = append(parts, fmt.Sprintf("%d event(s) assigned", e.Events))
	}
	return "crm: cannot delete user: " + strings.Join(parts, ", ")
}

// Blocking reports whether any dependent records remain.
func (e *ReferentialIntegrityError) Blocking() bool {
	return e.Clients > 0 || e.Contracts > 0 || e.Events > 0
}
