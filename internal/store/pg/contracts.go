package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"epicevents.org/internal/crm"
)

const contractColumns = `id, client_id, commercial_contact_id, total_cents, remaining_cents, is_signed, created_at`

func scanContract(row interface{ Scan(...any) error }) (crm.Contract, error) {
	var c crm.Contract
	err := row.Scan(&c.ID, &c.ClientID, &c.CommercialContactID,
		&c.TotalCents, &c.RemainingCents, &c.IsSigned, &c.CreatedAt)
	return c, err
}

func (s *Store) CreateContract(ctx context.Context, c *crm.Contract) error {
	row := s.db.QueryRowContext(ctx, `
		insert into contracts (client_id, commercial_contact_id, total_cents, remaining_cents, is_signed)
		values ($1, $2, $3, $4, $5)
		returning id, created_at
	`, c.ClientID, c.CommercialContactID, c.TotalCents, c.RemainingCents, c.IsSigned)
	if err := row.Scan(&c.ID, &c.CreatedAt); err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrForeignKeyViolation {
			return crm.ErrNotFound
		}
		return err
	}
	return nil
}

func (s *Store) GetContract(ctx context.Context, id int64) (crm.Contract, error) {
	c, err := scanContract(s.db.QueryRowContext(ctx,
		`select `+contractColumns+` from contracts where id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return crm.Contract{}, crm.ErrNotFound
	}
	if err != nil {
		return crm.Contract{}, err
	}
	return c, nil
}

func (s *Store) ListContracts(ctx context.Context, f crm.ContractFilter) ([]crm.Contract, error) {
	var conds []string
	if f.UnsignedOnly {
		conds = append(conds, "not is_signed")
	}
	if f.UnpaidOnly {
		conds = append(conds, "remaining_cents > 0")
	}
	query := `select ` + contractColumns + ` from contracts`
	if len(conds) > 0 {
		query += " where " + strings.Join(conds, " and ")
	}
	query += " order by id"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contracts []crm.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, c)
	}
	return contracts, rows.Err()
}

func (s *Store) UpdateContract(ctx context.Context, id int64, upd crm.ContractUpdate) (crm.Contract, error) {
	var (
		sets []string
		args []any
		idx  = 1
	)
	if upd.TotalCents != nil {
		sets = append(sets, fmt.Sprintf("total_cents = $%d", idx))
		args = append(args, *upd.TotalCents)
		idx++
	}
	if upd.RemainingCents != nil {
		sets = append(sets, fmt.Sprintf("remaining_cents = $%d", idx))
		args = append(args, *upd.RemainingCents)
		idx++
	}
	if upd.CommercialContactID != nil {
		sets = append(sets, fmt.Sprintf("commercial_contact_id = $%d", idx))
		args = append(args, *upd.CommercialContactID)
		idx++
	}
	if len(sets) > 0 {
		query := fmt.Sprintf(`update contracts set %s where id = $%d`, strings.Join(sets, ", "), idx)
		args = append(args, id)
		res, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrForeignKeyViolation {
				return crm.Contract{}, crm.ErrNotFound
			}
			return crm.Contract{}, err
		}
		aff, err := res.RowsAffected()
		if err != nil {
			return crm.Contract{}, err
		}
		if aff == 0 {
			return crm.Contract{}, crm.ErrNotFound
		}
	}
	return s.GetContract(ctx, id)
}

// MarkContractSigned flips is_signed to true. Signing an already signed
// contract leaves the row unchanged.
func (s *Store) MarkContractSigned(ctx context.Context, id int64) (crm.Contract, error) {
	res, err := s.db.ExecContext(ctx,
		`update contracts set is_signed = true where id = $1`, id)
	if err != nil {
		return crm.Contract{}, err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return crm.Contract{}, err
	}
	if aff == 0 {
		return crm.Contract{}, crm.ErrNotFound
	}
	return s.GetContract(ctx, id)
}
