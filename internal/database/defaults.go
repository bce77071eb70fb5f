package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/vetpraxis/vetpraxis/internal/database/repository"
)

// SeedDefaults ensures baseline species reference rows exist for new
// databases. It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	repo := repository.NewSpeciesRepo(db)
	existing, err := repo.List(ctx)
	if err == nil && len(existing) > 0 {
		return nil
	}
	defaults := []string{
		"Canine",
		"Feline",
		"Rabbit",
		"Rodent",
		"Avian",
		"Reptile",
		"Equine",
		"Other",
	}
	for idx, name := range defaults {
		id := uuid.NewSHA1(uuid.NameSpaceOID, []byte("species:"+name)).String()
		s := repository.Species{ID: id, Name: name, SortOrder: idx}
		if err := repo.Upsert(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
