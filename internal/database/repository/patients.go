package repository

import (
	"context"
	"database/sql"
	"strings"
)

// PatientFilters defines list filters.
type PatientFilters struct {
	OwnerID string
	Species string
	Search  string // LIKE match on name, medical_id, breed, microchip
	Limit   int
	Offset  int
}

// PatientRepo handles patients.
type PatientRepo struct {
	db *sql.DB
}

func NewPatientRepo(db *sql.DB) *PatientRepo { return &PatientRepo{db: db} }

func (r *PatientRepo) Insert(ctx context.Context, p Patient) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO patients(
	 id, owner_id, medical_id, name, species, breed, sex, birth_date, weight_kg,
	 microchip, notes, created_at, updated_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`,
		p.ID, p.OwnerID, p.MedicalID, p.Name, p.Species, p.Breed, p.Sex, p.BirthDate,
		p.WeightKg, p.Microchip, p.Notes, p.CreatedAt, p.UpdatedAt)
	return err
}

// Update rewrites every editable column. medical_id is assigned once at
// creation and never changes.
func (r *PatientRepo) Update(ctx context.Context, p Patient) error {
	_, err := r.db.ExecContext(ctx, `
	UPDATE patients SET owner_id = ?, name = ?, species = ?, breed = ?, sex = ?,
	 birth_date = ?, weight_kg = ?, microchip = ?, notes = ?, updated_at = ?
	WHERE id = ?;
	`, p.OwnerID, p.Name, p.Species, p.Breed, p.Sex, p.BirthDate, p.WeightKg,
		p.Microchip, p.Notes, p.UpdatedAt, p.ID)
	return err
}

func (r *PatientRepo) Get(ctx context.Context, id string) (*Patient, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+patientColumns+` FROM patients WHERE id = ?`, id)
	return r.scanOne(row)
}

func (r *PatientRepo) GetByMedicalID(ctx context.Context, medicalID string) (*Patient, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+patientColumns+` FROM patients WHERE medical_id = ?`, medicalID)
	return r.scanOne(row)
}

func (r *PatientRepo) scanOne(row scanner) (*Patient, error) {
	p, err := scanPatient(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PatientRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM patients WHERE id = ?`, id)
	return err
}

func (r *PatientRepo) List(ctx context.Context, f PatientFilters) ([]Patient, error) {
	where, args := patientWhere(f)
	query := `SELECT ` + patientColumns + ` FROM patients` + where + ` ORDER BY name, medical_id`
	if f.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, f.Limit, f.Offset)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Count returns the number of rows List would match ignoring paging.
func (r *PatientRepo) Count(ctx context.Context, f PatientFilters) (int, error) {
	where, args := patientWhere(f)
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM patients`+where, args...).Scan(&n)
	return n, err
}

// NextMedicalSequence bumps and returns the per-year counter inside the
// caller's transaction, so an aborted create never burns a number visible to
// a committed one.
func (r *PatientRepo) NextMedicalSequence(ctx context.Context, tx *sql.Tx, year int) (int, error) {
	_, err := tx.ExecContext(ctx, `
	INSERT INTO medical_id_counters(year, next_seq) VALUES(?, 2)
	ON CONFLICT(year) DO UPDATE SET next_seq = next_seq + 1;
	`, year)
	if err != nil {
		return 0, err
	}
	var next int
	if err := tx.QueryRowContext(ctx, `SELECT next_seq FROM medical_id_counters WHERE year = ?`, year).Scan(&next); err != nil {
		return 0, err
	}
	return next - 1, nil
}

func patientWhere(f PatientFilters) (string, []interface{}) {
	var where []string
	var args []interface{}

	if f.OwnerID != "" {
		where = append(where, "owner_id = ?")
		args = append(args, f.OwnerID)
	}
	if f.Species != "" {
		where = append(where, "species = ?")
		args = append(args, f.Species)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		where = append(where, "(name LIKE ? OR medical_id LIKE ? OR breed LIKE ? OR microchip LIKE ?)")
		args = append(args, like, like, like, like)
	}
	if len(where) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

const patientColumns = `id, owner_id, medical_id, name, species, breed, sex, birth_date, weight_kg, microchip, notes, created_at, updated_at`

func scanPatient(row scanner) (Patient, error) {
	var p Patient
	var breed, microchip, notes sql.NullString
	var birth sql.NullTime
	var weight sql.NullFloat64
	if err := row.Scan(&p.ID, &p.OwnerID, &p.MedicalID, &p.Name, &p.Species, &breed, &p.Sex,
		&birth, &weight, &microchip, &notes, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return Patient{}, err
	}
	if breed.Valid {
		p.Breed = &breed.String
	}
	if birth.Valid {
		p.BirthDate = &birth.Time
	}
	if weight.Valid {
		p.WeightKg = &weight.Float64
	}
	if microchip.Valid {
		p.Microchip = &microchip.String
	}
	if notes.Valid {
		p.Notes = &notes.String
	}
	return p, nil
}
