package crm

import "time"

// User is an employee identity. Every user belongs to exactly one of the
// fixed departments.
type User struct {
	ID           int64     `json:"id"`
	EmployeeID   string    `json:"employee_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Department   string    `json:"department"`
	CreatedAt    time.Time `json:"created_at"`
}

// Client is a customer record. CommercialContactID references the Commercial
// user who owns the relationship.
type Client struct {
	ID                  int64     `json:"id"`
	FullName            string    `json:"full_name"`
	Email               string    `json:"email"`
	Phone               string    `json:"phone"`
	CompanyName         string    `json:"company_name"`
	CommercialContactID int64     `json:"commercial_contact_id"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Contract tracks an engagement with a client. Amounts are stored in cents
// to avoid floating point drift. The signed flag moves one way only:
// Unsigned to Signed.
type Contract struct {
	ID                  int64     `json:"id"`
	ClientID            int64     `json:"client_id"`
	CommercialContactID int64     `json:"commercial_contact_id"`
	TotalCents          int64     `json:"total_cents"`
	RemainingCents      int64     `json:"remaining_cents"`
	IsSigned            bool      `json:"is_signed"`
	CreatedAt           time.Time `json:"created_at"`
}

// Event is an occasion organized under a signed contract. SupportContactID
// is nil until a Support user is assigned.
type Event struct {
	ID               int64     `json:"id"`
	ContractID       int64     `json:"contract_id"`
	Name             string    `json:"name"`
	StartAt          time.Time `json:"start_at"`
	EndAt            time.Time `json:"end_at"`
	SupportContactID *int64    `json:"support_contact_id,omitempty"`
	Location         string    `json:"location"`
	Attendees        int       `json:"attendees"`
	Notes            string    `json:"notes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// Update structs use pointer fields: only non-nil fields are applied.

// UserUpdate mutates a user. Password carries plaintext on the way into the
// service, which replaces it with the hash before delegating to the store.
type UserUpdate struct {
	Name       *string
	Email      *string
	Department *string
	Password   *string
}

type ClientUpdate struct {
	FullName    *string
	Email       *string
	Phone       *string
	CompanyName *string
}

// ContractUpdate mutates a contract. Signing is a separate one-way
// operation and deliberately not expressible here.
type ContractUpdate struct {
	TotalCents          *int64
	RemainingCents      *int64
	CommercialContactID *int64
}

// EventUpdate mutates an event. Support assignment is a separate operation
// with its own policy.
type EventUpdate struct {
	Name      *string
	StartAt   *time.Time
	EndAt     *time.Time
	Location  *string
	Attendees *int
	Notes     *string
}

// ContractFilter narrows contract listings.
type ContractFilter struct {
	UnsignedOnly bool
	UnpaidOnly   bool
}

// Zero reports whether the filter selects everything.
func (f ContractFilter) Zero() bool { return !f.UnsignedOnly && !f.UnpaidOnly }

// EventFilter narrows event listings. OwnOnly is resolved by the service
// into SupportContactID from the caller's claims.
type EventFilter struct {
	WithoutSupport   bool
	OwnOnly          bool
	SupportContactID int64
}

// Zero reports whether the filter selects everything.
func (f EventFilter) Zero() bool {
	return !f.WithoutSupport && !f.OwnOnly && f.SupportContactID == 0
}
