package crm

import "context"

// Store is the persistence collaborator for the CRM schema. Implementations
// must return ErrNotFound for missing records and ErrConflict for duplicate
// unique fields, and treat each multi-statement mutation as one transaction.
type Store interface {
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id int64) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	UpdateUser(ctx context.Context, id int64, upd UserUpdate) (User, error)
	DeleteUser(ctx context.Context, id int64) error
	// DependentCounts reports how many clients, contracts and events still
	// reference the user. Deletion is refused while any count is non-zero.
	DependentCounts(ctx context.Context, userID int64) (clients, contracts, events int64, err error)

	CreateClient(ctx context.Context, c *Client) error
	GetClient(ctx context.Context, id int64) (Client, error)
	ListClients(ctx context.Context) ([]Client, error)
	UpdateClient(ctx context.Context, id int64, upd ClientUpdate) (Client, error)

	CreateContract(ctx context.Context, c *Contract) error
	GetContract(ctx context.Context, id int64) (Contract, error)
	ListContracts(ctx context.Context, f ContractFilter) ([]Contract, error)
	UpdateContract(ctx context.Context, id int64, upd ContractUpdate) (Contract, error)
	MarkContractSigned(ctx context.Context, id int64) (Contract, error)

	CreateEvent(ctx context.Context, e *Event) error
	GetEvent(ctx context.Context, id int64) (Event, error)
	ListEvents(ctx context.Context, f EventFilter) ([]Event, error)
	UpdateEvent(ctx context.Context, id int64, upd EventUpdate) (Event, error)
	// SetEventSupport assigns or, with a nil id, clears the support contact.
	SetEventSupport(ctx context.Context, id int64, supportID *int64) (Event, error)
}
