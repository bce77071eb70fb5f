package repository

import (
	"context"
	"database/sql"
)

// SpeciesRepo handles the species reference table.
type SpeciesRepo struct {
	db *sql.DB
}

func NewSpeciesRepo(db *sql.DB) *SpeciesRepo { return &SpeciesRepo{db: db} }

func (r *SpeciesRepo) Upsert(ctx context.Context, s Species) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO species(id, name, sort_order)
	VALUES (?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 name=excluded.name,
	 sort_order=excluded.sort_order;
	`, s.ID, s.Name, s.SortOrder)
	return err
}

func (r *SpeciesRepo) List(ctx context.Context) ([]Species, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, sort_order FROM species ORDER BY sort_order, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Species
	for rows.Next() {
		var s Species
		if err := rows.Scan(&s.ID, &s.Name, &s.SortOrder); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
