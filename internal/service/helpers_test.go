package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vetpraxis/vetpraxis/internal/database"
	"github.com/vetpraxis/vetpraxis/internal/database/repository"
)

// openTestDB migrates and opens a throwaway sqlite database with species
// defaults seeded.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	migrations, err := filepath.Abs("../database/migrations")
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(dbPath, migrations))

	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.SeedDefaults(context.Background(), db))
	return db
}

func newTestServices(t *testing.T) (*OwnerService, *PatientService, *SearchService, *sql.DB) {
	t.Helper()
	db := openTestDB(t)
	ownerRepo := repository.NewOwnerRepo(db)
	patientRepo := repository.NewPatientRepo(db)
	speciesRepo := repository.NewSpeciesRepo(db)
	owners := &OwnerService{Owners: ownerRepo}
	patients := &PatientService{
		Patients:   patientRepo,
		Owners:     ownerRepo,
		Species:    speciesRepo,
		MedicalIDs: &MedicalIDService{DB: db, Patients: patientRepo},
	}
	search := &SearchService{Patients: patientRepo, Owners: ownerRepo}
	return owners, patients, search, db
}

func mustCreateOwner(t *testing.T, ctx context.Context, svc *OwnerService, first, last string) repository.Owner {
	t.Helper()
	o, fieldErrs, err := svc.Create(ctx, repository.Owner{FirstName: first, LastName: last})
	require.NoError(t, err)
	require.Empty(t, fieldErrs)
	return o
}

func mustCreatePatient(t *testing.T, ctx context.Context, svc *PatientService, ownerID, name, species string) repository.Patient {
	t.Helper()
	p, fieldErrs, err := svc.Create(ctx, repository.Patient{OwnerID: ownerID, Name: name, Species: species})
	require.NoError(t, err)
	require.Empty(t, fieldErrs)
	return p
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
