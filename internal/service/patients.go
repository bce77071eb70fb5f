package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vetpraxis/vetpraxis/internal/database"
	"github.com/vetpraxis/vetpraxis/internal/database/repository"
)

// PatientService orchestrates patient record CRUD. Creation assigns the row
// ID and the medical ID; updates never touch the medical ID.
type PatientService struct {
	Patients   *repository.PatientRepo
	Owners     *repository.OwnerRepo
	Species    *repository.SpeciesRepo
	MedicalIDs *MedicalIDService
}

func (s *PatientService) Create(ctx context.Context, p repository.Patient) (repository.Patient, []FieldError, error) {
	errs, err := s.validate(ctx, p)
	if err != nil {
		return repository.Patient{}, nil, err
	}
	if len(errs) > 0 {
		return repository.Patient{}, errs, nil
	}
	medicalID, err := s.MedicalIDs.Next(ctx)
	if err != nil {
		return repository.Patient{}, nil, fmt.Errorf("create patient: %w", err)
	}
	p.ID = uuid.NewString()
	p.MedicalID = medicalID
	if p.Sex == "" {
		p.Sex = "unknown"
	}
	p.CreatedAt = database.Now()
	p.UpdatedAt = p.CreatedAt
	if err := s.Patients.Insert(ctx, p); err != nil {
		return repository.Patient{}, nil, fmt.Errorf("create patient: %w", err)
	}
	return p, nil, nil
}

func (s *PatientService) Update(ctx context.Context, p repository.Patient) (repository.Patient, []FieldError, error) {
	errs, err := s.validate(ctx, p)
	if err != nil {
		return repository.Patient{}, nil, err
	}
	if len(errs) > 0 {
		return repository.Patient{}, errs, nil
	}
	existing, err := s.Patients.Get(ctx, p.ID)
	if err != nil {
		return repository.Patient{}, nil, fmt.Errorf("update patient: %w", err)
	}
	if existing == nil {
		return repository.Patient{}, nil, fmt.Errorf("update patient: no patient with id %s", p.ID)
	}
	p.MedicalID = existing.MedicalID
	p.CreatedAt = existing.CreatedAt
	if p.Sex == "" {
		p.Sex = "unknown"
	}
	p.UpdatedAt = database.Now()
	if err := s.Patients.Update(ctx, p); err != nil {
		return repository.Patient{}, nil, fmt.Errorf("update patient: %w", err)
	}
	return p, nil, nil
}

func (s *PatientService) Get(ctx context.Context, id string) (*repository.Patient, error) {
	return s.Patients.Get(ctx, id)
}

func (s *PatientService) Delete(ctx context.Context, id string) error {
	if err := s.Patients.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	return nil
}

func (s *PatientService) List(ctx context.Context, f repository.PatientFilters) ([]repository.Patient, error) {
	return s.Patients.List(ctx, f)
}

// validate runs the field rules plus the owner-exists referential check.
func (s *PatientService) validate(ctx context.Context, p repository.Patient) ([]FieldError, error) {
	species, err := s.knownSpecies(ctx)
	if err != nil {
		return nil, fmt.Errorf("load species: %w", err)
	}
	errs := ValidatePatient(p, species)
	if p.OwnerID != "" && s.Owners != nil {
		owner, err := s.Owners.Get(ctx, p.OwnerID)
		if err != nil {
			return nil, fmt.Errorf("check owner: %w", err)
		}
		if owner == nil {
			errs = append(errs, FieldError{Field: "owner_id", Message: "owner does not exist"})
		}
	}
	return errs, nil
}

func (s *PatientService) knownSpecies(ctx context.Context) ([]string, error) {
	if s.Species == nil {
		return nil, nil
	}
	rows, err := s.Species.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.Name)
	}
	return names, nil
}
