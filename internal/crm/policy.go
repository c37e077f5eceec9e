package crm

import (
	"fmt"

	"epicevents.org/internal/auth"
)

// Ownership policy rules. Each predicate runs after the gate has
// authenticated the caller and before any mutation is committed. A nil
// return means the caller may proceed; auth.ErrAuthorization means the
// department can never perform the operation; ErrOwnership means the
// department could, but the record belongs to someone else.

func requireClientUpdate(caller *auth.Claims, client Client) error {
	switch {
	case caller.Department == auth.DeptManagement:
		return nil
	case auth.HasPermission(caller.Department, auth.CapUpdateOwnClient):
		if client.CommercialContactID == caller.UserID {
			return nil
		}
		return fmt.Errorf("%w: client %d belongs to another commercial contact", ErrOwnership, client.ID)
	default:
		return fmt.Errorf("%w: capability %q required", auth.ErrAuthorization, auth.CapUpdateOwnClient)
	}
}

func requireContractUpdate(caller *auth.Claims, contract Contract) error {
	switch {
	case auth.HasPermission(caller.Department, auth.CapUpdateContract):
		return nil
	case auth.HasPermission(caller.Department, auth.CapUpdateOwnContract):
		if contract.CommercialContactID == caller.UserID {
			return nil
		}
		return fmt.Errorf("%w: contract %d belongs to another commercial contact", ErrOwnership, contract.ID)
	default:
		return fmt.Errorf("%w: capability %q required", auth.ErrAuthorization, auth.CapUpdateOwnContract)
	}
}

// Commercial holds neither event-update capability: commercial users can
// create events but never update them.
func requireEventUpdate(caller *auth.Claims, event Event) error {
	switch {
	case auth.HasPermission(caller.Department, auth.CapUpdateEvent):
		return nil
	case auth.HasPermission(caller.Department, auth.CapUpdateOwnEvent):
		if event.SupportContactID != nil && *event.SupportContactID == caller.UserID {
			return nil
		}
		return fmt.Errorf("%w: event %d is assigned to another support contact", ErrOwnership, event.ID)
	default:
		return fmt.Errorf("%w: capability %q required", auth.ErrAuthorization, auth.CapUpdateEvent)
	}
}

// requireEventCreate runs after the gate has already confirmed the
// create_event_for_signed_contract capability: the contract must belong to
// the caller and be signed. An unsigned contract is reported with its own
// reason, not a generic denial.
func requireEventCreate(caller *auth.Claims, contract Contract) error {
	if contract.CommercialContactID != caller.UserID {
		return fmt.Errorf("%w: contract %d belongs to another commercial contact", ErrOwnership, contract.ID)
	}
	if !contract.IsSigned {
		return fmt.Errorf("%w: contract %d", ErrContractNotSigned, contract.ID)
	}
	return nil
}

// requireSupportAssignee validates the target of a support assignment: the
// assignee must belong to the Support department.
func requireSupportAssignee(assignee User) error {
	if assignee.Department != auth.DeptSupport {
		return fmt.Errorf("%w: %s is in %s", ErrNotSupportUser, assignee.Name, assignee.Department)
	}
	return nil
}

// requireUserDeletion blocks self-deletion and deletion of users still
// referenced by clients, contracts or events.
func requireUserDeletion(caller *auth.Claims, targetID int64, clients, contracts, events int64) error {
	if caller.UserID == targetID {
		return ErrSelfDeletion
	}
	ref := &ReferentialIntegrityError{Clients: clients, Contracts: contracts, Events: events}
	if ref.Blocking() {
		return ref
	}
	return nil
}
