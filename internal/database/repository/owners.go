package repository

import (
	"context"
	"database/sql"
)

// OwnerFilters defines list filters.
type OwnerFilters struct {
	Search string // LIKE match on first/last name, email, phone
	Limit  int
	Offset int
}

// OwnerRepo handles owners.
type OwnerRepo struct {
	db *sql.DB
}

func NewOwnerRepo(db *sql.DB) *OwnerRepo { return &OwnerRepo{db: db} }

func (r *OwnerRepo) Insert(ctx context.Context, o Owner) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO owners(id, first_name, last_name, email, phone, address, created_at, updated_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?);
	`, o.ID, o.FirstName, o.LastName, o.Email, o.Phone, o.Address, o.CreatedAt, o.UpdatedAt)
	return err
}

func (r *OwnerRepo) Update(ctx context.Context, o Owner) error {
	_, err := r.db.ExecContext(ctx, `
	UPDATE owners SET first_name = ?, last_name = ?, email = ?, phone = ?, address = ?, updated_at = ?
	WHERE id = ?;
	`, o.FirstName, o.LastName, o.Email, o.Phone, o.Address, o.UpdatedAt, o.ID)
	return err
}

func (r *OwnerRepo) Get(ctx context.Context, id string) (*Owner, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+ownerColumns+` FROM owners WHERE id = ?`, id)
	o, err := scanOwner(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *OwnerRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM owners WHERE id = ?`, id)
	return err
}

func (r *OwnerRepo) List(ctx context.Context, f OwnerFilters) ([]Owner, error) {
	where, args := ownerWhere(f)
	query := `SELECT ` + ownerColumns + ` FROM owners` + where + ` ORDER BY last_name, first_name`
	if f.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, f.Limit, f.Offset)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Owner
	for rows.Next() {
		o, err := scanOwner(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Count returns the number of rows List would match ignoring paging.
func (r *OwnerRepo) Count(ctx context.Context, f OwnerFilters) (int, error) {
	where, args := ownerWhere(f)
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM owners`+where, args...).Scan(&n)
	return n, err
}

func ownerWhere(f OwnerFilters) (string, []interface{}) {
	if f.Search == "" {
		return "", nil
	}
	like := "%" + f.Search + "%"
	clause := ` WHERE (first_name LIKE ? OR last_name LIKE ? OR email LIKE ? OR phone LIKE ?)`
	return clause, []interface{}{like, like, like, like}
}

const ownerColumns = `id, first_name, last_name, email, phone, address, created_at, updated_at`

func scanOwner(row scanner) (Owner, error) {
	var o Owner
	var email, phone, address sql.NullString
	if err := row.Scan(&o.ID, &o.FirstName, &o.LastName, &email, &phone, &address, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return Owner{}, err
	}
	if email.Valid {
		o.Email = &email.String
	}
	if phone.Valid {
		o.Phone = &phone.String
	}
	if address.Valid {
		o.Address = &address.String
	}
	return o, nil
}

// scanner handles nullable fields for both Row and Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}
