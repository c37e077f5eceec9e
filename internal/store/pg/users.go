package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"epicevents.org/internal/crm"
)

const userColumns = `id, employee_id, name, email, password_hash, department, created_at`

func scanUser(row interface{ Scan(...any) error }) (crm.User, error) {
	var u crm.User
	err := row.Scan(&u.ID, &u.EmployeeID, &u.Name, &u.Email, &u.PasswordHash, &u.Department, &u.CreatedAt)
	return u, err
}

func (s *Store) CreateUser(ctx context.Context, u *crm.User) error {
	if s.db == nil {
		return errors.New("database connection unavailable")
	}
	row := s.db.QueryRowContext(ctx, `
		insert into users (employee_id, name, email, password_hash, department)
		values ($1, $2, $3, $4, $5)
		returning id, created_at
	`, u.EmployeeID, u.Name, u.Email, u.PasswordHash, u.Department)
	if err := row.Scan(&u.ID, &u.CreatedAt); err != nil {
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

func (s *Store) GetUser(ctx context.Context, id int64) (crm.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`select `+userColumns+` from users where id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return crm.User{}, crm.ErrNotFound
	}
	if err != nil {
		return crm.User{}, err
	}
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (crm.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`select `+userColumns+` from users where email = $1`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return crm.User{}, crm.ErrNotFound
	}
	if err != nil {
		return crm.User{}, err
	}
	return u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]crm.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+userColumns+` from users order by employee_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []crm.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) UpdateUser(ctx context.Context, id int64, upd crm.UserUpdate) (crm.User, error) {
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
	if upd.Email != nil {
		sets = append(sets, fmt.Sprintf("email = $%d", idx))
		args = append(args, *upd.Email)
		idx++
	}
	if upd.Department != nil {
		sets = append(sets, fmt.Sprintf("department = $%d", idx))
		args = append(args, *upd.Department)
		idx++
	}
	if upd.Password != nil {
		// Password carries the bcrypt hash by the time it reaches the store.
		sets = append(sets, fmt.Sprintf("password_hash = $%d", idx))
		args = append(args, *upd.Password)
		idx++
	}
	if len(sets) > 0 {
		query := fmt.Sprintf(`update users set %s where id = $%d`, strings.Join(sets, ", "), idx)
		args = append(args, id)
		res, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
				return crm.User{}, crm.ErrConflict
			}
			return crm.User{}, err
		}
		aff, err := res.RowsAffected()
		if err != nil {
			return crm.User{}, err
		}
		if aff == 0 {
			return crm.User{}, crm.ErrNotFound
		}
	}
	return s.GetUser(ctx, id)
}

func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `delete from users where id = $1`, id)
	if err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrForeignKeyViolation {
			return crm.ErrConflict
		}
		return err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		return crm.ErrNotFound
	}
	return nil
}

func (s *Store) DependentCounts(ctx context.Context, userID int64) (clients, contracts, events int64, err error) {
	err = s.db.QueryRowContext(ctx, `
		select
			(select count(*) from clients where commercial_contact_id = $1),
			(select count(*) from contracts where commercial_contact_id = $1),
			(select count(*) from events where support_contact_id = $1)
	`, userID).Scan(&clients, &contracts, &events)
	return clients, contracts, events, err
}
