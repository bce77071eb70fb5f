package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vetpraxis/vetpraxis/internal/database/repository"
)

func TestSearchPatientsPaging(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	owners, patients, search, _ := newTestServices(t)
	owner := mustCreateOwner(t, ctx, owners, "Claire", "Moreau")

	names := []string{"Alfie", "Bella", "Coco", "Daisy", "Ember", "Fudge", "Ginger"}
	for _, n := range names {
		mustCreatePatient(t, ctx, patients, owner.ID, n, "Canine")
	}

	page0, err := search.SearchPatients(ctx, repository.PatientFilters{}, 0, 3)
	require.NoError(t, err)
	require.Equal(t, 7, page0.Total)
	require.Equal(t, 3, page0.Pages())
	require.Len(t, page0.Items, 3)
	require.Equal(t, "Alfie", page0.Items[0].Name)

	page2, err := search.SearchPatients(ctx, repository.PatientFilters{}, 2, 3)
	require.NoError(t, err)
	require.Len(t, page2.Items, 1)
	require.Equal(t, "Ginger", page2.Items[0].Name)

	// out-of-range pages clamp to the last page instead of going empty
	clamped, err := search.SearchPatients(ctx, repository.PatientFilters{}, 99, 3)
	require.NoError(t, err)
	require.Equal(t, 2, clamped.Page)
	require.Len(t, clamped.Items, 1)
}

func TestSearchPatientsFuzzyRanking(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	owners, patients, search, _ := newTestServices(t)
	owner := mustCreateOwner(t, ctx, owners, "Claire", "Moreau")

	mustCreatePatient(t, ctx, patients, owner.ID, "Oscar", "Canine")
	mustCreatePatient(t, ctx, patients, owner.ID, "Roscoe", "Canine")
	mustCreatePatient(t, ctx, patients, owner.ID, "Mochi", "Feline")

	// prefix match outranks substring match
	res, err := search.SearchPatients(ctx, repository.PatientFilters{Search: "osc"}, 0, 10)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(res.Items), 2)
	require.Equal(t, "Oscar", res.Items[0].Name)
	require.Equal(t, "Roscoe", res.Items[1].Name)

	// medical IDs are searchable too
	oscar := res.Items[0]
	byID, err := search.SearchPatients(ctx, repository.PatientFilters{Search: oscar.MedicalID}, 0, 10)
	require.NoError(t, err)
	require.Len(t, byID.Items, 1)
	require.Equal(t, "Oscar", byID.Items[0].Name)

	// species filter composes with search
	feline, err := search.SearchPatients(ctx, repository.PatientFilters{Species: "Feline"}, 0, 10)
	require.NoError(t, err)
	require.Len(t, feline.Items, 1)
	require.Equal(t, "Mochi", feline.Items[0].Name)
}

func TestSearchOwnersRanksNameMatchesFirst(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	owners, _, search, _ := newTestServices(t)

	mustCreateOwner(t, ctx, owners, "Claire", "Moreau")
	mustCreateOwner(t, ctx, owners, "Marco", "Mori")
	_, fieldErrs, err := owners.Create(ctx, repository.Owner{
		FirstName: "Dee", LastName: "Park", Email: strPtr("fan.of.moreau@example.com"),
	})
	require.NoError(t, err)
	require.Empty(t, fieldErrs)

	res, err := search.SearchOwners(ctx, repository.OwnerFilters{Search: "moreau"}, 0, 10)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(res.Items), 2)
	// the owner actually named Moreau ranks above the email match
	require.Equal(t, "Moreau", res.Items[0].LastName)
}

func TestFieldRankBands(t *testing.T) {
	t.Parallel()

	prefix := fieldRank("osc", "oscar")
	substring := fieldRank("osc", "roscoe")
	distance := fieldRank("osc", "mochi")
	require.Less(t, prefix, substring)
	require.Less(t, substring, distance)
}
