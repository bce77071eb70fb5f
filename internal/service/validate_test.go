package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vetpraxis/vetpraxis/internal/database/repository"
)

var testSpecies = []string{"Canine", "Feline", "Avian"}

func TestValidateOwner(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		owner     repository.Owner
		wantField string // empty = valid
	}{
		{
			name:  "minimal valid",
			owner: repository.Owner{LastName: "Moreau"},
		},
		{
			name:  "first name only is enough",
			owner: repository.Owner{FirstName: "Aiyana"},
		},
		{
			name:      "no name at all",
			owner:     repository.Owner{Phone: strPtr("0400 123 456")},
			wantField: "last_name",
		},
		{
			name:      "bad email",
			owner:     repository.Owner{LastName: "Moreau", Email: strPtr("not-an-email")},
			wantField: "email",
		},
		{
			name:  "good email",
			owner: repository.Owner{LastName: "Moreau", Email: strPtr("c.moreau@example.com")},
		},
		{
			name:      "phone with letters",
			owner:     repository.Owner{LastName: "Moreau", Phone: strPtr("call me")},
			wantField: "phone",
		},
		{
			name:      "phone too short",
			owner:     repository.Owner{LastName: "Moreau", Phone: strPtr("123")},
			wantField: "phone",
		},
		{
			name:  "international phone",
			owner: repository.Owner{LastName: "Moreau", Phone: strPtr("+61 (4) 0012-3456")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateOwner(tt.owner)
			if tt.wantField == "" {
				require.Empty(t, errs)
				return
			}
			require.NotEmpty(t, errs)
			require.Equal(t, tt.wantField, errs[0].Field)
		})
	}
}

func TestValidatePatient(t *testing.T) {
	t.Parallel()

	future := time.Now().AddDate(1, 0, 0)
	past := time.Now().AddDate(-3, 0, 0)

	base := repository.Patient{OwnerID: "owner-1", Name: "Oscar", Species: "Canine"}

	t.Run("valid record", func(t *testing.T) {
		p := base
		p.BirthDate = &past
		p.WeightKg = floatPtr(24.5)
		p.Microchip = strPtr("953000012345678")
		require.Empty(t, ValidatePatient(p, testSpecies))
	})

	t.Run("missing name", func(t *testing.T) {
		p := base
		p.Name = "  "
		errs := ValidatePatient(p, testSpecies)
		require.Len(t, errs, 1)
		require.Equal(t, "name", errs[0].Field)
	})

	t.Run("missing owner", func(t *testing.T) {
		p := base
		p.OwnerID = ""
		errs := ValidatePatient(p, testSpecies)
		require.Len(t, errs, 1)
		require.Equal(t, "owner_id", errs[0].Field)
	})

	t.Run("unknown species rejected", func(t *testing.T) {
		p := base
		p.Species = "Dragon"
		errs := ValidatePatient(p, testSpecies)
		require.Len(t, errs, 1)
		require.Equal(t, "species", errs[0].Field)
	})

	t.Run("species whitelist is case-insensitive", func(t *testing.T) {
		p := base
		p.Species = "feline"
		require.Empty(t, ValidatePatient(p, testSpecies))
	})

	t.Run("empty whitelist skips species check", func(t *testing.T) {
		p := base
		p.Species = "Dragon"
		require.Empty(t, ValidatePatient(p, nil))
	})

	t.Run("future birth date", func(t *testing.T) {
		p := base
		p.BirthDate = &future
		errs := ValidatePatient(p, testSpecies)
		require.Len(t, errs, 1)
		require.Equal(t, "birth_date", errs[0].Field)
	})

	t.Run("weight bounds", func(t *testing.T) {
		p := base
		p.WeightKg = floatPtr(0)
		errs := ValidatePatient(p, testSpecies)
		require.Len(t, errs, 1)
		require.Equal(t, "weight_kg", errs[0].Field)

		p.WeightKg = floatPtr(9000)
		errs = ValidatePatient(p, testSpecies)
		require.Len(t, errs, 1)
		require.Equal(t, "weight_kg", errs[0].Field)
	})

	t.Run("bad sex value", func(t *testing.T) {
		p := base
		p.Sex = "yes"
		errs := ValidatePatient(p, testSpecies)
		require.Len(t, errs, 1)
		require.Equal(t, "sex", errs[0].Field)
	})

	t.Run("microchip shape", func(t *testing.T) {
		p := base
		p.Microchip = strPtr("12ab")
		errs := ValidatePatient(p, testSpecies)
		require.Len(t, errs, 1)
		require.Equal(t, "microchip", errs[0].Field)

		p.Microchip = strPtr("9530000123456789012")
		errs = ValidatePatient(p, testSpecies)
		require.Len(t, errs, 1)
		require.Equal(t, "microchip", errs[0].Field)
	})

	t.Run("multiple errors accumulate", func(t *testing.T) {
		p := repository.Patient{}
		errs := ValidatePatient(p, testSpecies)
		require.GreaterOrEqual(t, len(errs), 3)
	})
}
