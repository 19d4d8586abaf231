package usecase

import (
	"testing"

	"github.com/pwnz15/Kre/internal/entity"
	"github.com/stretchr/testify/assert"
)

func validListing() *entity.Listing {
	return &entity.Listing{
		OwnerID:          "owner-1",
		Title:            "Room in shared flat near campus",
		Description:      "Sunny room, 10 minutes from the faculty",
		Governorate:      "Tunis",
		City:             "Tunis",
		Address:          "12 Avenue de la Liberté",
		University:       "Université de Tunis El Manar",
		CurrentOccupants: 2,
		TotalCapacity:    4,
		PricePerPerson:   300,
		Preferences:      entity.Preferences{Gender: entity.GenderAny},
		Status:           entity.StatusAvailable,
	}
}

func TestValidateListing_Valid(t *testing.T) {
	assert.Empty(t, ValidateListing(validListing()))
}

func TestValidateListing_CapacityOrdering(t *testing.T) {
	l := validListing()
	l.CurrentOccupants = 4
	l.TotalCapacity = 4

	violations := ValidateListing(l)
	assert.Len(t, violations, 1)
	assert.Contains(t, violations[0], "total capacity")
}

func TestValidateListing_InvalidGender(t *testing.T) {
	l := validListing()
	l.Preferences.Gender = "other"

	violations := ValidateListing(l)
	assert.Len(t, violations, 1)
	assert.Contains(t, violations[0], "preferences.gender")
}

func TestValidateListing_InvalidGovernorate(t *testing.T) {
	l := validListing()
	l.Governorate = "Atlantis"

	violations := ValidateListing(l)
	assert.Len(t, violations, 1)
	assert.Contains(t, violations[0], "governorate")
}

func TestValidateListing_NegativePrice(t *testing.T) {
	l := validListing()
	l.PricePerPerson = -1

	violations := ValidateListing(l)
	assert.Len(t, violations, 1)
	assert.Contains(t, violations[0], "price per person")
}

func TestValidateListing_CollectsAllViolations(t *testing.T) {
	l := validListing()
	l.CurrentOccupants = 5
	l.TotalCapacity = 3
	l.Preferences.Gender = ""
	l.Governorate = "Nowhere"
	l.PricePerPerson = -50

	assert.Len(t, ValidateListing(l), 4)
}

func TestMergeListing_PartialFields(t *testing.T) {
	existing := validListing()
	existing.ID = "abc"

	occupants := 3
	merged := mergeListing(existing, UpdateFields{CurrentOccupants: &occupants})

	assert.Equal(t, 3, merged.CurrentOccupants)
	assert.Equal(t, 4, merged.TotalCapacity)
	assert.Equal(t, existing.Title, merged.Title)
	// The stored record must stay untouched.
	assert.Equal(t, 2, existing.CurrentOccupants)
}

func TestMergeListing_ValidatesAgainstStoredValues(t *testing.T) {
	// Supplying only currentOccupants must be checked against the stored
	// totalCapacity, not against the zero value of the partial input.
	existing := validListing()

	occupants := 5
	merged := mergeListing(existing, UpdateFields{CurrentOccupants: &occupants})

	violations := ValidateListing(merged)
	assert.Len(t, violations, 1)
	assert.Contains(t, violations[0], "total capacity (4)")
}
