package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/vetpraxis/vetpraxis/internal/database"
	"github.com/vetpraxis/vetpraxis/internal/database/repository"
)

// FieldError reports a single invalid field on a submitted form.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Message) }

// Sexes accepted on a patient record.
var validSexes = map[string]bool{
	"male":     true,
	"female":   true,
	"neutered": true,
	"spayed":   true,
	"unknown":  true,
}

const maxWeightKg = 2000 // heaviest plausible equine patient

// ValidateOwner checks an owner record before persistence. A nil return means
// the record is acceptable.
func ValidateOwner(o repository.Owner) []FieldError {
	var errs []FieldError
	if strings.TrimSpace(o.FirstName) == "" && strings.TrimSpace(o.LastName) == "" {
		errs = append(errs, FieldError{Field: "last_name", Message: "a first or last name is required"})
	}
	if o.Email != nil && strings.TrimSpace(*o.Email) != "" {
		e := strings.TrimSpace(*o.Email)
		at := strings.Index(e, "@")
		if at <= 0 || !strings.Contains(e[at:], ".") || strings.ContainsAny(e, " \t") {
			errs = append(errs, FieldError{Field: "email", Message: "not a valid email address"})
		}
	}
	if o.Phone != nil && strings.TrimSpace(*o.Phone) != "" {
		digits := 0
		for _, r := range *o.Phone {
			switch {
			case r >= '0' && r <= '9':
				digits++
			case r == '+' || r == ' ' || r == '-' || r == '(' || r == ')':
			default:
				errs = append(errs, FieldError{Field: "phone", Message: "contains invalid characters"})
				digits = -1
			}
			if digits < 0 {
				break
			}
		}
		if digits >= 0 && digits < 6 {
			errs = append(errs, FieldError{Field: "phone", Message: "too short to be a phone number"})
		}
	}
	return errs
}

// ValidatePatient checks a patient record before persistence. knownSpecies is
// the reference list seeded into the database; an empty list skips the
// whitelist check.
func ValidatePatient(p repository.Patient, knownSpecies []string) []FieldError {
	var errs []FieldError
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	}
	if strings.TrimSpace(p.OwnerID) == "" {
		errs = append(errs, FieldError{Field: "owner_id", Message: "patient must belong to an owner"})
	}
	if strings.TrimSpace(p.Species) == "" {
		errs = append(errs, FieldError{Field: "species", Message: "species is required"})
	} else if len(knownSpecies) > 0 {
		found := false
		for _, s := range knownSpecies {
			if strings.EqualFold(s, p.Species) {
				found = true
				break
			}
		}
		if !found {
			errs = append(errs, FieldError{Field: "species", Message: "unknown species: " + p.Species})
		}
	}
	if p.Sex != "" && !validSexes[strings.ToLower(p.Sex)] {
		errs = append(errs, FieldError{Field: "sex", Message: "must be male, female, neutered, spayed or unknown"})
	}
	if p.BirthDate != nil && p.BirthDate.After(database.Now().Add(24*time.Hour)) {
		errs = append(errs, FieldError{Field: "birth_date", Message: "birth date cannot be in the future"})
	}
	if p.WeightKg != nil {
		if *p.WeightKg <= 0 {
			errs = append(errs, FieldError{Field: "weight_kg", Message: "weight must be positive"})
		} else if *p.WeightKg > maxWeightKg {
			errs = append(errs, FieldError{Field: "weight_kg", Message: "weight is implausibly large"})
		}
	}
	if p.Microchip != nil && strings.TrimSpace(*p.Microchip) != "" {
		chip := strings.TrimSpace(*p.Microchip)
		if len(chip) < 9 || len(chip) > 15 {
			errs = append(errs, FieldError{Field: "microchip", Message: "microchip numbers are 9-15 digits"})
		} else {
			for _, r := range chip {
				if r < '0' || r > '9' {
					errs = append(errs, FieldError{Field: "microchip", Message: "microchip must be digits only"})
					break
				}
			}
		}
	}
	return errs
}
