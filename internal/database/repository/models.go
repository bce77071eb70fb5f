package repository

import "time"

// Owner represents a client row.
type Owner struct {
	ID        string
	FirstName string
	LastName  string
	Email     *string
	Phone     *string
	Address   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName returns "First Last" for display.
func (o Owner) FullName() string {
	if o.FirstName == "" {
		return o.LastName
	}
	if o.LastName == "" {
		return o.FirstName
	}
	return o.FirstName + " " + o.LastName
}

// Patient represents an animal row.
type Patient struct {
	ID        string
	OwnerID   string
	MedicalID string
	Name      string
	Species   string
	Breed     *string
	Sex       string
	BirthDate *time.Time
	WeightKg  *float64
	Microchip *string
	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Species represents a reference species row.
type Species struct {
	ID        string
	Name      string
	SortOrder int
}
