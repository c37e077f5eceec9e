package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"epicevents.org/internal/crm"
)

const clientColumns = `id, full_name, email, phone, company_name, commercial_contact_id, created_at, updated_at`

func scanClient(row interface{ Scan(...any) error }) (crm.Client, error) {
	var c crm.Client
	err := row.Scan(&c.ID, &c.FullName, &c.Email, &c.Phone, &c.CompanyName,
		&c.CommercialContactID, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (s *Store) CreateClient(ctx context.Context, c *crm.Client) error {
	row := s.db.QueryRowContext(ctx, `
		insert into clients (full_name, email, phone, company_name, commercial_contact_id)
		values ($1, $2, $3, $4, $5)
		returning id, created_at, updated_at
	`, c.FullName, c.Email, c.Phone, c.CompanyName, c.CommercialContactID)
	if err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if pgErr, ok := maybePgError(err); ok {
			switch pgErr.Code {
			case pgErrUniqueViolation:
				return crm.ErrConflict
			case pgErrForeignKeyViolation:
				return crm.ErrNotFound
			}
		}
		return err
	}
	return nil
}

func (s *Store) GetClient(ctx context.Context, id int64) (crm.Client, error) {
	c, err := scanClient(s.db.QueryRowContext(ctx,
		`select `+clientColumns+` from clients where id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return crm.Client{}, crm.ErrNotFound
	}
	if err != nil {
		return crm.Client{}, err
	}
	return c, nil
}

func (s *Store) ListClients(ctx context.Context) ([]crm.Client, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+clientColumns+` from clients order by full_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []crm.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (s *Store) UpdateClient(ctx context.Context, id int64, upd crm.ClientUpdate) (crm.Client, error) {
	var (
		sets []string
		args []any
		idx  = 1
	)
	if upd.FullName != nil {
		sets = append(sets, fmt.Sprintf("full_name = $%d", idx))
		args = append(args, *upd.FullName)
		idx++
	}
	if upd.Email != nil {
		sets = append(sets, fmt.Sprintf("email = $%d", idx))
		args = append(args, *upd.Email)
		idx++
	}
	if upd.Phone != nil {
		sets = append(sets, fmt.Sprintf("phone = $%d", idx))
		args = append(args, *upd.Phone)
		idx++
	}
	if upd.CompanyName != nil {
		sets = append(sets, fmt.Sprintf("company_name = $%d", idx))
		args = append(args, *upd.CompanyName)
		idx++
	}
	if len(sets) > 0 {
		sets = append(sets, "updated_at = now()")
		query := fmt.Sprintf(`update clients set %s where id = $%d`, strings.Join(sets, ", "), idx)
		args = append(args, id)
		res, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
				return crm.Client{}, crm.ErrConflict
			}
			return crm.Client{}, err
		}
		aff, err := res.RowsAffected()
		if err != nil {
			return crm.Client{}, err
		}
		if aff == 0 {
			return crm.Client{}, crm.ErrNotFound
		}
	}
	return s.GetClient(ctx, id)
}
