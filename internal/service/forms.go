package service

import "github.com/vetpraxis/vetpraxis/internal/database/repository"

// FormKind distinguishes create from edit presentations.
type FormKind string

const (
	FormCreate FormKind = "create"
	FormEdit   FormKind = "edit"
)

// OwnerFormMode identifies an owner form presentation. Edit carries the row
// snapshot being edited; the zero Owner means create-from-blank. Comparable,
// so the TUI can diff which form is currently showing.
type OwnerFormMode struct {
	Kind  FormKind
	Owner repository.Owner
}

// PatientFormMode identifies a patient form presentation. For create the
// Patient carries any prefilled fields (typically OwnerID); for edit it is the
// row snapshot.
type PatientFormMode struct {
	Kind    FormKind
	Patient repository.Patient
}
