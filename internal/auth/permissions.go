package auth

// The three departments are a fixed set; there is no dynamic department
// creation in normal operation.
const (
	DeptCommercial = "Commercial"
	DeptSupport    = "Support"
	DeptManagement = "Management"
)

// Capability names are stable identifiers. External tooling that inspects
// tokens or audit logs relies on these exact strings.
const (
	CapCreateClient                 = "create_client"
	CapUpdateOwnClient              = "update_own_client"
	CapUpdateOwnContract            = "update_own_contract"
	CapCreateEventForSignedContract = "create_event_for_signed_contract"
	CapFilterContracts              = "filter_contracts"
	CapFilterOwnEvents              = "filter_own_events"
	CapUpdateOwnEvent               = "update_own_event"
	CapCreateUser                   = "create_user"
	CapUpdateUser                   = "update_user"
	CapDeleteUser                   = "delete_user"
	CapCreateContract               = "create_contract"
	CapUpdateContract               = "update_contract"
	CapFilterEvents                 = "filter_events"
	CapUpdateEvent                  = "update_event"
	CapAssignSupportToEvent         = "assign_support_to_event"
	CapViewAllData                  = "view_all_data"
)

var permissions = map[string]map[string]struct{}{
	DeptCommercial: capSet(
		CapCreateClient,
		CapUpdateOwnClient,
		CapUpdateOwnContract,
		CapCreateEventForSignedContract,
		CapFilterContracts,
		CapViewAllData,
	),
	DeptSupport: capSet(
		CapFilterOwnEvents,
		CapUpdateOwnEvent,
		CapViewAllData,
	),
	DeptManagement: capSet(
		CapCreateUser,
		CapUpdateUser,
		CapDeleteUser,
		CapCreateContract,
		CapUpdateContract,
		CapFilterEvents,
		CapUpdateEvent,
		CapAssignSupportToEvent,
		CapViewAllData,
	),
}

func capSet(caps ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(caps))
	for _, c := range caps {
		set[c] = struct{}{}
	}
	return set
}

// HasPermission reports whether the department holds the capability.
// Unknown departments hold nothing.
func HasPermission(department, capability string) bool {
	set, ok := permissions[department]
	if !ok {
		return false
	}
	_, ok = set[capability]
	return ok
}

// ValidDepartment reports whether name is one of the three fixed departments.
func ValidDepartment(name string) bool {
	_, ok := permissions[name]
	return ok
}

// Departments returns the fixed department names.
func Departments() []string {
	return []string{DeptCommercial, DeptSupport, DeptManagement}
}
