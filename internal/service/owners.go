package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vetpraxis/vetpraxis/internal/database"
	"github.com/vetpraxis/vetpraxis/internal/database/repository"
)

// OwnerService orchestrates client record CRUD: validation, ID assignment,
// timestamps. Field errors and infrastructure failures come back separately
// so the form layer can redisplay the former and fail the form on the latter.
type OwnerService struct {
	Owners *repository.OwnerRepo
}

func (s *OwnerService) Create(ctx context.Context, o repository.Owner) (repository.Owner, []FieldError, error) {
	if errs := ValidateOwner(o); len(errs) > 0 {
		return repository.Owner{}, errs, nil
	}
	o.ID = uuid.NewString()
	o.CreatedAt = database.Now()
	o.UpdatedAt = o.CreatedAt
	if err := s.Owners.Insert(ctx, o); err != nil {
		return repository.Owner{}, nil, fmt.Errorf("create owner: %w", err)
	}
	return o, nil, nil
}

func (s *OwnerService) Update(ctx context.Context, o repository.Owner) (repository.Owner, []FieldError, error) {
	if errs := ValidateOwner(o); len(errs) > 0 {
		return repository.Owner{}, errs, nil
	}
	existing, err := s.Owners.Get(ctx, o.ID)
	if err != nil {
		return repository.Owner{}, nil, fmt.Errorf("update owner: %w", err)
	}
	if existing == nil {
		return repository.Owner{}, nil, fmt.Errorf("update owner: no owner with id %s", o.ID)
	}
	o.CreatedAt = existing.CreatedAt
	o.UpdatedAt = database.Now()
	if err := s.Owners.Update(ctx, o); err != nil {
		return repository.Owner{}, nil, fmt.Errorf("update owner: %w", err)
	}
	return o, nil, nil
}

func (s *OwnerService) Get(ctx context.Context, id string) (*repository.Owner, error) {
	return s.Owners.Get(ctx, id)
}

// Delete removes the owner and, through the schema's cascade, their patients.
func (s *OwnerService) Delete(ctx context.Context, id string) error {
	if err := s.Owners.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete owner: %w", err)
	}
	return nil
}

func (s *OwnerService) List(ctx context.Context, f repository.OwnerFilters) ([]repository.Owner, error) {
	return s.Owners.List(ctx, f)
}
