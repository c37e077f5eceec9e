package crm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"epicevents.org/internal/audit"
	"epicevents.org/internal/auth"
)

// Service exposes the protected CRM operations. Every mutating operation
// authenticates the caller through the gate, applies the relevant ownership
// rule, validates input, and only then touches the store. Failures abort
// before any mutation is attempted.
type Service struct {
	store    Store
	gate     *auth.Gate
	codec    *auth.TokenCodec
	sessions *auth.SessionStore
}

// NewService wires the service over its collaborators. Time-dependent
// behavior lives in the token codec, which carries its own clock.
func NewService(store Store, gate *auth.Gate, codec *auth.TokenCodec, sessions *auth.SessionStore) (*Service, error) {
	if store == nil || gate == nil || codec == nil || sessions == nil {
		return nil, errors.New("crm: store, gate, codec and session store are required")
	}
	return &Service{
		store:    store,
		gate:     gate,
		codec:    codec,
		sessions: sessions,
	}, nil
}

// Session lifecycle ---------------------------------------------------------

// Login verifies the credentials, issues a session token and persists it to
// the local session slot, replacing any previous session.
func (s *Service) Login(ctx context.Context, email, password string) (User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return User{}, fmt.Errorf("%w: invalid credentials", auth.ErrAuthentication)
	}
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		_ = audit.LogEvent(ctx, "auth.login_failed", map[string]any{"email": email})
		if errors.Is(err, ErrNotFound) {
			return User{}, fmt.Errorf("%w: invalid credentials", auth.ErrAuthentication)
		}
		return User{}, err
	}
	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		_ = audit.LogEvent(ctx, "auth.login_failed", map[string]any{"email": email})
		return User{}, fmt.Errorf("%w: invalid credentials", auth.ErrAuthentication)
	}

	token, err := s.codec.Issue(auth.Identity{
		UserID:     user.ID,
		EmployeeID: user.EmployeeID,
		Name:       user.Name,
		Email:      user.Email,
		Department: user.Department,
	})
	if err != nil {
		return User{}, err
	}
	if err := s.sessions.Store(token); err != nil {
		return User{}, err
	}
	_ = audit.LogEvent(ctx, "auth.login", map[string]any{
		"user_id":    user.ID,
		"department": user.Department,
	})
	return user, nil
}

// Logout clears the persisted session. Logging out without a session is not
// an error.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.sessions.Clear(); err != nil {
		return err
	}
	_ = audit.LogEvent(ctx, "auth.logout", nil)
	return nil
}

// Whoami returns the resolved claims of the current caller.
func (s *Service) Whoami(ctx context.Context) (*auth.Claims, error) {
	return s.gate.RequireAuthenticated()
}

// Users -----------------------------------------------------------------

// CreateUserInput carries the fields for a new user.
type CreateUserInput struct {
	EmployeeID string
	Name       string
	Email      string
	Department string
	Password   string
}

func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (User, error) {
	claims, err := s.gate.RequireCapability(auth.CapCreateUser)
	if err != nil {
		return User{}, s.denied(ctx, "user.create", err)
	}
	ctx = auth.ContextWithClaims(ctx, claims)

	in.EmployeeID = strings.TrimSpace(in.EmployeeID)
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Department = strings.TrimSpace(in.Department)
	if in.EmployeeID == "" || in.Name == "" {
		return User{}, fmt.Errorf("%w: employee id and name are required", ErrInvalidInput)
	}
	if err := validateEmail(in.Email); err != nil {
		return User{}, err
	}
	if !auth.ValidDepartment(in.Department) {
		return User{}, fmt.Errorf("%w: unknown department %q", ErrInvalidInput, in.Department)
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return User{}, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}

	user := User{
		EmployeeID:   in.EmployeeID,
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Department:   in.Department,
	}
	if err := s.store.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, ErrConflict) {
			return User{}, fmt.Errorf("%w: employee id or email already exists", ErrConflict)
		}
		return User{}, err
	}
	_ = audit.LogEvent(ctx, "user.created", map[string]any{
		"target_user_id": user.ID,
		"department":     user.Department,
	})
	return user, nil
}

func (s *Service) UpdateUser(ctx context.Context, id int64, upd UserUpdate) (User, error) {
	claims, err := s.gate.RequireCapability(auth.CapUpdateUser)
	if err != nil {
		return User{}, s.denied(ctx, "user.update", err)
	}
	ctx = auth.ContextWithClaims(ctx, claims)

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return User{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
		}
		upd.Name = &name
	}
	if upd.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*upd.Email))
		if err := validateEmail(email); err != nil {
			return User{}, err
		}
		upd.Email = &email
	}
	if upd.Department != nil {
		dept := strings.TrimSpace(*upd.Department)
		if !auth.ValidDepartment(dept) {
			return User{}, fmt.Errorf("%w: unknown department %q", ErrInvalidInput, dept)
		}
		upd.Department = &dept
	}
	if upd.Password != nil {
		hash, err := auth.HashPassword(strings.TrimSpace(*upd.Password))
		if err != nil {
			return User{}, fmt.Errorf("%w: password is required", ErrInvalidInput)
		}
		upd.Password = &hash
	}

	user, err := s.store.UpdateUser(ctx, id, upd)
	if err != nil {
		if errors.Is(err, ErrConflict) {
			return User{}, fmt.Errorf("%w: email already in use", ErrConflict)
		}
		return User{}, err
	}
	_ = audit.LogEvent(ctx, "user.updated", map[string]any{"target_user_id": id})
	return user, nil
}

// DeleteUser removes a user. Deletion is refused while any client, contract
// or event still references the user, and users cannot delete themselves.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	claims, err := s.gate.RequireCapability(auth.CapDeleteUser)
	if err != nil {
		return s.denied(ctx, "user.delete", err)
	}
	ctx = auth.ContextWithClaims(ctx, claims)

	if _, err := s.store.GetUser(ctx, id); err != nil {
		return err
	}
	clients, contracts, events, err := s.store.DependentCounts(ctx, id)
	if err != nil {
		return err
	}
	if err := requireUserDeletion(claims, id, clients, contracts, events); err != nil {
		return err
	}
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return err
	}
	_ = audit.LogEvent(ctx, "user.deleted", map[string]any{"target_user_id": id})
	return nil
}

func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	if _, err := s.gate.RequireCapability(auth.CapUpdateUser); err != nil {
		return nil, err
	}
	return s.store.ListUsers(ctx)
}

// Clients ---------------------------------------------------------------

// CreateClientInput carries the fields for a new client. The creating
// commercial user becomes the client's commercial contact.
type CreateClientInput struct {
	FullName    string
	Email       string
	Phone       string
	CompanyName string
}

func (s *Service) CreateClient(ctx context.Context, in CreateClientInput) (Client, error) {
	claims, err := s.gate.RequireCapability(auth.CapCreateClient)
	if err != nil {
		return Client{}, s.denied(ctx, "client.create", err)
	}
	ctx = auth.ContextWithClaims(ctx, claims)

	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	if in.FullName == "" || in.Phone == "" || in.CompanyName == "" {
		return Client{}, fmt.Errorf("%w: full name, phone and company name are required", ErrInvalidInput)
	}
	if err := validateEmail(in.Email); err != nil {
		return Client{}, err
	}

	client := Client{
		FullName:            in.FullName,
		Email:               in.Email,
		Phone:               in.Phone,
		CompanyName:         in.CompanyName,
		CommercialContactID: claims.UserID,
	}
	if err := s.store.CreateClient(ctx, &client); err != nil {
		if errors.Is(err, ErrConflict) {
			return Client{}, fmt.Errorf("%w: client email already exists", ErrConflict)
		}
		return Client{}, err
	}
	_ = audit.LogEvent(ctx, "client.created", map[string]any{"client_id": client.ID})
	return client, nil
}

func (s *Service) UpdateClient(ctx context.Context, id int64, upd ClientUpdate) (Client, error) {
	claims, err := s.gate.RequireAuthenticated()
	if err != nil {
		return Client{}, err
	}
	ctx = auth.ContextWithClaims(ctx, claims)

	client, err := s.store.GetClient(ctx, id)
	if err != nil {
		return Client{}, err
	}
	if err := requireClientUpdate(claims, client); err != nil {
		return Client{}, s.denied(ctx, "client.update", err)
	}

	if upd.FullName != nil {
		name := strings.TrimSpace(*upd.FullName)
		if name == "" {
			return Client{}, fmt.Errorf("%w: full name is required", ErrInvalidInput)
		}
		upd.FullName = &name
	}
	if upd.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*upd.Email))
		if err := validateEmail(email); err != nil {
			return Client{}, err
		}
		upd.Email = &email
	}

	updated, err := s.store.UpdateClient(ctx, id, upd)
	if err != nil {
		if errors.Is(err, ErrConflict) {
			return Client{}, fmt.Errorf("%w: client email already exists", ErrConflict)
		}
		return Client{}, err
	}
	_ = audit.LogEvent(ctx, "client.updated", map[string]any{"client_id": id})
	return updated, nil
}

func (s *Service) ListClients(ctx context.Context) ([]Client, error) {
	if _, err := s.gate.RequireCapability(auth.CapViewAllData); err != nil {
		return nil, err
	}
	return s.store.ListClients(ctx)
}

// Contracts --------------------------------------------------------------

// CreateContractInput carries the fields for a new contract. A zero
// CommercialContactID inherits the client's commercial contact.
type CreateContractInput struct {
	ClientID            int64
	CommercialContactID int64
	TotalCents          int64
	RemainingCents      int64
}

func (s *Service) CreateContract(ctx context.Context, in CreateContractInput) (Contract, error) {
	claims, err := s.gate.RequireCapability(auth.CapCreateContract)
	if err != nil {
		return Contract{}, s.denied(ctx, "contract.create", err)
	}
	ctx = auth.ContextWithClaims(ctx, claims)

	if in.TotalCents <= 0 {
		return Contract{}, fmt.Errorf("%w: total amount must be positive", ErrInvalidInput)
	}
	if in.RemainingCents < 0 {
		return Contract{}, fmt.Errorf("%w: remaining amount cannot be negative", ErrInvalidInput)
	}
	if in.RemainingCents > in.TotalCents {
		return Contract{}, fmt.Errorf("%w: remaining amount cannot exceed total amount", ErrInvalidInput)
	}

	client, err := s.store.GetClient(ctx, in.ClientID)
	if err != nil {
		return Contract{}, err
	}
	if in.CommercialContactID == 0 {
		in.CommercialContactID = client.CommercialContactID
	}
	if err := s.requireCommercialUser(ctx, in.CommercialContactID); err != nil {
		return Contract{}, err
	}

	contract := Contract{
		ClientID:            in.ClientID,
		CommercialContactID: in.CommercialContactID,
		TotalCents:          in.TotalCents,
		RemainingCents:      in.RemainingCents,
	}
	if err := s.store.CreateContract(ctx, &contract); err != nil {
		return Contract{}, err
	}
	_ = audit.LogEvent(ctx, "contract.created", map[string]any{
		"contract_id": contract.ID,
		"client_id":   contract.ClientID,
	})
	return contract, nil
}

// UpdateContract applies amount and contact changes. Remaining amount is
// validated against the resulting total after applying both updates: the
// new total when supplied, the stored total otherwise.
func (s *Service) UpdateContract(ctx context.Context, id int64, upd ContractUpdate) (Contract, error) {
	claims, err := s.gate.RequireAuthenticated()
	if err != nil {
		return Contract{}, err
	}
	ctx = auth.ContextWithClaims(ctx, claims)

	contract, err := s.store.GetContract(ctx, id)
	if err != nil {
		return Contract{}, err
	}
	if err := requireContractUpdate(claims, contract); err != nil {
		return Contract{}, s.denied(ctx, "contract.update", err)
	}

	resultingTotal := contract.TotalCents
	if upd.TotalCents != nil {
		if *upd.TotalCents <= 0 {
			return Contract{}, fmt.Errorf("%w: total amount must be positive", ErrInvalidInput)
		}
		resultingTotal = *upd.TotalCents
	}
	resultingRemaining := contract.RemainingCents
	if upd.RemainingCents != nil {
		if *upd.RemainingCents < 0 {
			return Contract{}, fmt.Errorf("%w: remaining amount cannot be negative", ErrInvalidInput)
		}
		resultingRemaining = *upd.RemainingCents
	}
	if resultingRemaining > resultingTotal {
		return Contract{}, fmt.Errorf("%w: remaining amount cannot exceed total amount", ErrInvalidInput)
	}
	if upd.CommercialContactID != nil {
		if err := s.requireCommercialUser(ctx, *upd.CommercialContactID); err != nil {
			return Contract{}, err
		}
	}

	updated, err := s.store.UpdateContract(ctx, id, upd)
	if err != nil {
		return Contract{}, err
	}
	_ = audit.LogEvent(ctx, "contract.updated", map[string]any{"contract_id": id})
	return updated, nil
}

// SignContract moves the contract from Unsigned to Signed. Signing an
// already-signed contract is a no-op reported through alreadySigned, not an
// error. There is no reverse transition.
func (s *Service) SignContract(ctx context.Context, id int64) (contract Contract, alreadySigned bool, err error) {
	claims, err := s.gate.RequireAuthenticated()
	if err != nil {
		return Contract{}, false, err
	}
	ctx = auth.ContextWithClaims(ctx, claims)

	contract, err = s.store.GetContract(ctx, id)
	if err != nil {
		return Contract{}, false, err
	}
	if err := requireContractUpdate(claims, contract); err != nil {
		return Contract{}, false, s.denied(ctx, "contract.sign", err)
	}
	if contract.IsSigned {
		return contract, true, nil
	}

	contract, err = s.store.MarkContractSigned(ctx, id)
	if err != nil {
		return Contract{}, false, err
	}
	_ = audit.LogEvent(ctx, "contract.signed", map[string]any{"contract_id": id})
	return contract, false, nil
}

func (s *Service) ListContracts(ctx context.Context, f ContractFilter) ([]Contract, error) {
	capability := auth.CapViewAllData
	if !f.Zero() {
		capability = auth.CapFilterContracts
	}
	if _, err := s.gate.RequireCapability(capability); err != nil {
		return nil, err
	}
	return s.store.ListContracts(ctx, f)
}

// Events -----------------------------------------------------------------

// CreateEventInput carries the fields for a new event. Support assignment
// happens later through AssignSupport.
type CreateEventInput struct {
	ContractID int64
	Name       string
	StartAt    time.Time
	EndAt      time.Time
	Location   string
	Attendees  int
	Notes      string
}

func (s *Service) CreateEvent(ctx context.Context, in CreateEventInput) (Event, error) {
	claims, err := s.gate.RequireCapability(auth.CapCreateEventForSignedContract)
	if err != nil {
		return Event{}, s.denied(ctx, "event.create", err)
	}
	ctx = auth.ContextWithClaims(ctx, claims)

	contract, err := s.store.GetContract(ctx, in.ContractID)
	if err != nil {
		return Event{}, err
	}
	if err := requireEventCreate(claims, contract); err != nil {
		return Event{}, s.denied(ctx, "event.create", err)
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Location = strings.TrimSpace(in.Location)
	if in.Name == "" || in.Location == "" {
		return Event{}, fmt.Errorf("%w: event name and location are required", ErrInvalidInput)
	}
	if in.StartAt.IsZero() || in.EndAt.IsZero() || !in.EndAt.After(in.StartAt) {
		return Event{}, fmt.Errorf("%w: event end must be after its start", ErrInvalidInput)
	}
	if in.Attendees <= 0 {
		return Event{}, fmt.Errorf("%w: attendee count must be positive", ErrInvalidInput)
	}

	event := Event{
		ContractID: in.ContractID,
		Name:       in.Name,
		StartAt:    in.StartAt.UTC(),
		EndAt:      in.EndAt.UTC(),
		Location:   in.Location,
		Attendees:  in.Attendees,
		Notes:      strings.TrimSpace(in.Notes),
	}
	if err := s.store.CreateEvent(ctx, &event); err != nil {
		return Event{}, err
	}
	_ = audit.LogEvent(ctx, "event.created", map[string]any{
		"event_id":    event.ID,
		"contract_id": event.ContractID,
	})
	return event, nil
}

func (s *Service) UpdateEvent(ctx context.Context, id int64, upd EventUpdate) (Event, error) {
	claims, err := s.gate.RequireAuthenticated()
	if err != nil {
		return Event{}, err
	}
	ctx = auth.ContextWithClaims(ctx, claims)

	event, err := s.store.GetEvent(ctx, id)
	if err != nil {
		return Event{}, err
	}
	if err := requireEventUpdate(claims, event); err != nil {
		return Event{}, s.denied(ctx, "event.update", err)
	}

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return Event{}, fmt.Errorf("%w: event name is required", ErrInvalidInput)
		}
		upd.Name = &name
	}
	if upd.Attendees != nil && *upd.Attendees <= 0 {
		return Event{}, fmt.Errorf("%w: attendee count must be positive", ErrInvalidInput)
	}
	resultingStart := event.StartAt
	if upd.StartAt != nil {
		resultingStart = *upd.StartAt
	}
	resultingEnd := event.EndAt
	if upd.EndAt != nil {
		resultingEnd = *upd.EndAt
	}
	if !resultingEnd.After(resultingStart) {
		return Event{}, fmt.Errorf("%w: event end must be after its start", ErrInvalidInput)
	}

	updated, err := s.store.UpdateEvent(ctx, id, upd)
	if err != nil {
		return Event{}, err
	}
	_ = audit.LogEvent(ctx, "event.updated", map[string]any{"event_id": id})
	return updated, nil
}

// AssignSupport assigns a Support user to the event, or clears the
// assignment when supportID is zero.
func (s *Service) AssignSupport(ctx context.Context, eventID, supportID int64) (Event, error) {
	claims, err := s.gate.RequireCapability(auth.CapAssignSupportToEvent)
	if err != nil {
		return Event{}, s.denied(ctx, "event.assign_support", err)
	}
	ctx = auth.ContextWithClaims(ctx, claims)

	if _, err := s.store.GetEvent(ctx, eventID); err != nil {
		return Event{}, err
	}

	var assigneeID *int64
	if supportID != 0 {
		assignee, err := s.store.GetUser(ctx, supportID)
		if err != nil {
			return Event{}, err
		}
		if err := requireSupportAssignee(assignee); err != nil {
			return Event{}, s.denied(ctx, "event.assign_support", err)
		}
		assigneeID = &supportID
	}

	event, err := s.store.SetEventSupport(ctx, eventID, assigneeID)
	if err != nil {
		return Event{}, err
	}
	_ = audit.LogEvent(ctx, "event.support_assigned", map[string]any{
		"event_id":   eventID,
		"support_id": supportID,
	})
	return event, nil
}

func (s *Service) ListEvents(ctx context.Context, f EventFilter) ([]Event, error) {
	capability := auth.CapViewAllData
	switch {
	case f.OwnOnly:
		capability = auth.CapFilterOwnEvents
	case f.WithoutSupport:
		capability = auth.CapFilterEvents
	}
	claims, err := s.gate.RequireCapability(capability)
	if err != nil {
		return nil, err
	}
	if f.OwnOnly {
		f.SupportContactID = claims.UserID
	}
	return s.store.ListEvents(ctx, f)
}

// Helpers ----------------------------------------------------------------

// requireCommercialUser enforces the assignment-time invariant that a
// client's or contract's commercial contact references a Commercial user.
func (s *Service) requireCommercialUser(ctx context.Context, userID int64) error {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: user %d not found", ErrInvalidInput, userID)
		}
		return err
	}
	if user.Department != auth.DeptCommercial {
		return fmt.Errorf("%w: %s must be from Commercial department", ErrInvalidInput, user.Name)
	}
	return nil
}

// denied audits an authorization, ownership or policy denial and passes the
// error through unchanged.
func (s *Service) denied(ctx context.Context, operation string, err error) error {
	_ = audit.LogEvent(ctx, "authz.denied", map[string]any{
		"operation": operation,
		"reason":    err.Error(),
	})
	return err
}

func validateEmail(email string) error {
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: valid email is required", ErrInvalidInput)
	}
	return nil
}
