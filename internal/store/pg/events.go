package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"epicevents.org/internal/crm"
)

const eventColumns = `id, contract_id, name, start_at, end_at, support_contact_id, location, attendees, notes, created_at`

func scanEvent(row interface{ Scan(...any) error }) (crm.Event, error) {
	var (
		e       crm.Event
		support sql.NullInt64
	)
	err := row.Scan(&e.ID, &e.ContractID, &e.Name, &e.StartAt, &e.EndAt,
		&support, &e.Location, &e.Attendees, &e.Notes, &e.CreatedAt)
	if support.Valid {
		e.SupportContactID = &support.Int64
	}
	return e, err
}

func (s *Store) CreateEvent(ctx context.Context, e *crm.Event) error {
	var support sql.NullInt64
	if e.SupportContactID != nil {
		support = sql.NullInt64{Int64: *e.SupportContactID, Valid: true}
	}
	row := s.db.QueryRowContext(ctx, `
		insert into events (contract_id, name, start_at, end_at, support_contact_id, location, attendees, notes)
		values ($1, $2, $3, $4, $5, $6, $7, $8)
		returning id, created_at
	`, e.ContractID, e.Name, e.StartAt, e.EndAt, support, e.Location, e.Attendees, e.Notes)
	if err := row.Scan(&e.ID, &e.CreatedAt); err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrForeignKeyViolation {
			return crm.ErrNotFound
		}
		return err
	}
	return nil
}

func (s *Store) GetEvent(ctx context.Context, id int64) (crm.Event, error) {
	e, err := scanEvent(s.db.QueryRowContext(ctx,
		`select `+eventColumns+` from events where id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return crm.Event{}, crm.ErrNotFound
	}
	if err != nil {
		return crm.Event{}, err
	}
	return e, nil
}

func (s *Store) ListEvents(ctx context.Context, f crm.EventFilter) ([]crm.Event, error) {
	var (
		conds []string
		args  []any
		idx   = 1
	)
	if f.WithoutSupport {
		conds = append(conds, "support_contact_id is null")
	}
	if f.SupportContactID != 0 {
		conds = append(conds, fmt.Sprintf("support_contact_id = $%d", idx))
		args = append(args, f.SupportContactID)
		idx++
	}
	query := `select ` + eventColumns + ` from events`
	if len(conds) > 0 {
		query += " where " + strings.Join(conds, " and ")
	}
	query += " order by start_at"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []crm.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *Store) UpdateEvent(ctx context.Context, id int64, upd crm.EventUpdate) (crm.Event, error) {
	var (
		sets []string
		args []any
		idx  = 1
	)
	if upd.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", idx))
		args = append(args, *upd.Name)
		idx++
	}
	if upd.StartAt != nil {
		sets = append(sets, fmt.Sprintf("start_at = $%d", idx))
		args = append(args, *upd.StartAt)
		idx++
	}
	if upd.EndAt != nil {
		sets = append(sets, fmt.Sprintf("end_at = $%d", idx))
		args = append(args, *upd.EndAt)
		idx++
	}
	if upd.Location != nil {
		sets = append(sets, fmt.Sprintf("location = $%d", idx))
		args = append(args, *upd.Location)
		idx++
	}
	if upd.Attendees != nil {
		sets = append(sets, fmt.Sprintf("attendees = $%d", idx))
		args = append(args, *upd.Attendees)
		idx++
	}
	if upd.Notes != nil {
		sets = append(sets, fmt.Sprintf("notes = $%d", idx))
		args = append(args, *upd.Notes)
		idx++
	}
	if len(sets) > 0 {
		query := fmt.Sprintf(`update events set %s where id = $%d`, strings.Join(sets, ", "), idx)
		args = append(args, id)
		res, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			return crm.Event{}, err
		}
		aff, err := res.RowsAffected()
		if err != nil {
			return crm.Event{}, err
		}
		if aff == 0 {
			return crm.Event{}, crm.ErrNotFound
		}
	}
	return s.GetEvent(ctx, id)
}

func (s *Store) SetEventSupport(ctx context.Context, id int64, supportID *int64) (crm.Event, error) {
	var support sql.NullInt64
	if supportID != nil {
		support = sql.NullInt64{Int64: *supportID, Valid: true}
	}
	res, err := s.db.ExecContext(ctx,
		`update events set support_contact_id = $1 where id = $2`, support, id)
	if err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrForeignKeyViolation {
			return crm.Event{}, crm.ErrNotFound
		}
		return crm.Event{}, err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return crm.Event{}, err
	}
	if aff == 0 {
		return crm.Event{}, crm.ErrNotFound
	}
	return s.GetEvent(ctx, id)
}
