package service

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"

	"github.com/vetpraxis/vetpraxis/internal/database"
	"github.com/vetpraxis/vetpraxis/internal/database/repository"
)

// MedicalIDService assigns patient medical IDs of the form P-<year>-<seq>,
// e.g. P-2026-0042. Sequences restart each year and are backed by the
// medical_id_counters table, so IDs stay unique across restarts.
type MedicalIDService struct {
	DB       *sql.DB
	Patients *repository.PatientRepo
}

// Next reserves and returns the next medical ID for the current year.
func (s *MedicalIDService) Next(ctx context.Context) (string, error) {
	return s.NextForYear(ctx, database.Now().Year())
}

// NextForYear reserves the next medical ID for the given year.
func (s *MedicalIDService) NextForYear(ctx context.Context, year int) (string, error) {
	var seq int
	err := database.WithTx(s.DB, func(tx *sql.Tx) error {
		var err error
		seq, err = s.Patients.NextMedicalSequence(ctx, tx, year)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("reserve medical id: %w", err)
	}
	return FormatMedicalID(year, seq), nil
}

// FormatMedicalID renders a medical ID from its parts.
func FormatMedicalID(year, seq int) string {
	return fmt.Sprintf("P-%d-%04d", year, seq)
}

var medicalIDPattern = regexp.MustCompile(`^P-(\d{4})-(\d{4,})$`)

// ParseMedicalID splits a medical ID into year and sequence, rejecting
// anything that does not match the P-<year>-<seq> shape.
func ParseMedicalID(id string) (year, seq int, err error) {
	m := medicalIDPattern.FindStringSubmatch(id)
	if m == nil {
		return 0, 0, fmt.Errorf("malformed medical id %q", id)
	}
	year, _ = strconv.Atoi(m[1])
	seq, _ = strconv.Atoi(m[2])
	return year, seq, nil
}
