package crm

import (
	"context"
	"time"
)

// memStore is an in-memory Store used by the service tests. It mirrors the
// contract of the PostgreSQL store: ErrNotFound for missing records,
// ErrConflict for duplicate unique fields.
type memStore struct {
	users     map[int64]User
	clients   map[int64]Client
	contracts map[int64]Contract
	events    map[int64]Event
	nextID    int64
}

func newMemStore() *memStore {
	return &memStore{
		users:     map[int64]User{},
		clients:   map[int64]Client{},
		contracts: map[int64]Contract{},
		events:    map[int64]Event{},
		nextID:    1,
	}
}

func (m *memStore) id() int64 {
	id := m.nextID
	m.nextID++
	return id
}

func (m *memStore) CreateUser(_ context.Context, u *User) error {
	for _, existing := range m.users {
		if existing.EmployeeID == u.EmployeeID || existing.Email == u.Email {
			return ErrConflict
		}
	}
	u.ID = m.id()
	u.CreatedAt = time.Now().UTC()
	m.users[u.ID] = *u
	return nil
}

func (m *memStore) GetUser(_ context.Context, id int64) (User, error) {
	u, ok := m.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (m *memStore) ListUsers(_ context.Context) ([]User, error) {
	var users []User
	for _, u := range m.users {
		users = append(users, u)
	}
	return users, nil
}

func (m *memStore) UpdateUser(_ context.Context, id int64, upd UserUpdate) (User, error) {
	u, ok := m.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	if upd.Email != nil {
		for otherID, other := range m.users {
			if otherID != id && other.Email == *upd.Email {
				return User{}, ErrConflict
			}
		}
		u.Email = *upd.Email
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Department != nil {
		u.Department = *upd.Department
	}
	if upd.Password != nil {
		u.PasswordHash = *upd.Password
	}
	m.users[id] = u
	return u, nil
}

func (m *memStore) DeleteUser(_ context.Context, id int64) error {
	if _, ok := m.users[id]; !ok {
		return ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *memStore) DependentCounts(_ context.Context, userID int64) (clients, contracts, events int64, err error) {
	for _, c := range m.clients {
		if c.CommercialContactID == userID {
			clients++
		}
	}
	for _, c := range m.contracts {
		if c.CommercialContactID == userID {
			contracts++
		}
	}
	for _, e := range m.events {
		if e.SupportContactID != nil && *e.SupportContactID == userID {
			events++
		}
	}
	return clients, contracts, events, nil
}

func (m *memStore) CreateClient(_ context.Context, c *Client) error {
	for _, existing := range m.clients {
		if existing.Email == c.Email {
			return ErrConflict
		}
	}
	c.ID = m.id()
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	m.clients[c.ID] = *c
	return nil
}

func (m *memStore) GetClient(_ context.Context, id int64) (Client, error) {
	c, ok := m.clients[id]
	if !ok {
		return Client{}, ErrNotFound
	}
	return c, nil
}

func (m *memStore) ListClients(_ context.Context) ([]Client, error) {
	var clients []Client
	for _, c := range m.clients {
		clients = append(clients, c)
	}
	return clients, nil
}

func (m *memStore) UpdateClient(_ context.Context, id int64, upd ClientUpdate) (Client, error) {
	c, ok := m.clients[id]
	if !ok {
		return Client{}, ErrNotFound
	}
	if upd.FullName != nil {
		c.FullName = *upd.FullName
	}
	if upd.Email != nil {
		c.Email = *upd.Email
	}
	if upd.Phone != nil {
		c.Phone = *upd.Phone
	}
	if upd.CompanyName != nil {
		c.CompanyName = *upd.CompanyName
	}
	c.UpdatedAt = time.Now().UTC()
	m.clients[id] = c
	return c, nil
}

func (m *memStore) CreateContract(_ context.Context, c *Contract) error {
	c.ID = m.id()
	c.CreatedAt = time.Now().UTC()
	m.contracts[c.ID] = *c
	return nil
}

func (m *memStore) GetContract(_ context.Context, id int64) (Contract, error) {
	c, ok := m.contracts[id]
	if !ok {
		return Contract{}, ErrNotFound
	}
	return c, nil
}

func (m *memStore) ListContracts(_ context.Context, f ContractFilter) ([]Contract, error) {
	var contracts []Contract
	for _, c := range m.contracts {
		if f.UnsignedOnly && c.IsSigned {
			continue
		}
		if f.UnpaidOnly && c.RemainingCents == 0 {
			continue
		}
		contracts = append(contracts, c)
	}
	return contracts, nil
}

func (m *memStore) UpdateContract(_ context.Context, id int64, upd ContractUpdate) (Contract, error) {
	c, ok := m.contracts[id]
	if !ok {
		return Contract{}, ErrNotFound
	}
	if upd.TotalCents != nil {
		c.TotalCents = *upd.TotalCents
	}
	if upd.RemainingCents != nil {
		c.RemainingCents = *upd.RemainingCents
	}
	if upd.CommercialContactID != nil {
		c.CommercialContactID = *upd.CommercialContactID
	}
	m.contracts[id] = c
	return c, nil
}

func (m *memStore) MarkContractSigned(_ context.Context, id int64) (Contract, error) {
	c, ok := m.contracts[id]
	if !ok {
		return Contract{}, ErrNotFound
	}
	c.IsSigned = true
	m.contracts[id] = c
	return c, nil
}

func (m *memStore) CreateEvent(_ context.Context, e *Event) error {
	e.ID = m.id()
	e.CreatedAt = time.Now().UTC()
	m.events[e.ID] = *e
	return nil
}

func (m *memStore) GetEvent(_ context.Context, id int64) (Event, error) {
	e, ok := m.events[id]
	if !ok {
		return Event{}, ErrNotFound
	}
	return e, nil
}

func (m *memStore) ListEvents(_ context.Context, f EventFilter) ([]Event, error) {
	var events []Event
	for _, e := range m.events {
		if f.WithoutSupport && e.SupportContactID != nil {
			continue
		}
		if f.SupportContactID != 0 {
			if e.SupportContactID == nil || *e.SupportContactID != f.SupportContactID {
				continue
			}
		}
		events = append(events, e)
	}
	return events, nil
}

func (m *memStore) UpdateEvent(_ context.Context, id int64, upd EventUpdate) (Event, error) {
	e, ok := m.events[id]
	if !ok {
		return Event{}, ErrNotFound
	}
	if upd.Name != nil {
		e.Name = *upd.Name
	}
	if upd.StartAt != nil {
		e.StartAt = *upd.StartAt
	}
	if upd.EndAt != nil {
		e.EndAt = *upd.EndAt
	}
	if upd.Location != nil {
		e.Location = *upd.Location
	}
	if upd.Attendees != nil {
		e.Attendees = *upd.Attendees
	}
	if upd.Notes != nil {
		e.Notes = *upd.Notes
	}
	m.events[id] = e
	return e, nil
}

func (m *memStore) SetEventSupport(_ context.Context, id int64, supportID *int64) (Event, error) {
	e, ok := m.events[id]
	if !ok {
		return Event{}, ErrNotFound
	}
	e.SupportContactID = supportID
	m.events[id] = e
	return e, nil
}

var _ Store = (*memStore)(nil)
