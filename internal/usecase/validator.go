package usecase

import (
	"fmt"

	"github.com/pwnz15/Kre/internal/entity"
)

// ValidateListing checks the domain invariants of a candidate listing and
// returns every violated rule. It is pure: no state, no I/O. Callers
// validating an update must pass the merged view (stored record overridden
// by the supplied fields), never the partial input alone.
func ValidateListing(l *entity.Listing) []string {
	var violations []string

	if l.TotalCapacity <= l.CurrentOccupants {
		violations = append(violations, fmt.Sprintf(
			"total capacity (%d) must exceed current occupants (%d)",
			l.TotalCapacity, l.CurrentOccupants))
	}
	if !l.Preferences.Gender.Valid() {
		violations = append(violations, fmt.Sprintf(
			"preferences.gender must be one of %q, %q or %q, got %q",
			entity.GenderMale, entity.GenderFemale, entity.GenderAny, l.Preferences.Gender))
	}
	if !entity.IsValidGovernorate(l.Governorate) {
		violations = append(violations, fmt.Sprintf(
			"%q is not a valid governorate", l.Governorate))
	}
	if l.PricePerPerson < 0 {
		violations = append(violations, fmt.Sprintf(
			"price per person must not be negative, got %.2f", l.PricePerPerson))
	}

	return violations
}

// UpdateFields is a partial listing update. Nil means "leave unchanged".
// Status is deliberately absent: status transitions go through
// UpdateStatus only.
type UpdateFields struct {
	Title            *string
	Description      *string
	Governorate      *string
	City             *string
	Address          *string
	University       *string
	CurrentOccupants *int
	TotalCapacity    *int
	PricePerPerson   *float64
	Preferences      *entity.Preferences
}

// mergeListing applies the supplied fields on top of a copy of the stored
// record, producing the view that both validation and persistence use.
func mergeListing(existing *entity.Listing, f UpdateFields) *entity.Listing {
	merged := *existing
	if f.Title != nil {
		merged.Title = *f.Title
	}
	if f.Description != nil {
		merged.Description = *f.Description
	}
	if f.Governorate != nil {
		merged.Governorate = *f.Governorate
	}
	if f.City != nil {
		merged.City = *f.City
	}
	if f.Address != nil {
		merged.Address = *f.Address
	}
	if f.University != nil {
		merged.University = *f.University
	}
	if f.CurrentOccupants != nil {
		merged.CurrentOccupants = *f.CurrentOccupants
	}
	if f.TotalCapacity != nil {
		merged.TotalCapacity = *f.TotalCapacity
	}
	if f.PricePerPerson != nil {
		merged.PricePerPerson = *f.PricePerPerson
	}
	if f.Preferences != nil {
		merged.Preferences = *f.Preferences
	}
	return &merged
}
