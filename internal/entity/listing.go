package entity

import "time"

type ListingStatus string

const (
	StatusAvailable ListingStatus = "available"
	StatusFull      ListingStatus = "full"
	StatusClosed    ListingStatus = "closed"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderAny    Gender = "any"
)

// PhotoRef points at one stored photo: the public URL plus the object key
// needed to delete it from the object store later.
type PhotoRef struct {
	URL       string `json:"url" bson:"url"`
	ObjectKey string `json:"object_key" bson:"object_key"`
}

type Preferences struct {
	Gender      Gender `json:"gender"`
	StudyField  string `json:"study_field,omitempty"`
	YearOfStudy string `json:"year_of_study,omitempty"`
}

// Listing is a shared-housing ("colocation") advertisement. Its photos live
// in the object store; the record only carries references to them.
type Listing struct {
	ID               string        `json:"id"`
	OwnerID          string        `json:"owner_id"`
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	Governorate      string        `json:"governorate"`
	City             string        `json:"city"`
	Address          string        `json:"address"`
	University       string        `json:"university"`
	CurrentOccupants int           `json:"current_occupants"`
	TotalCapacity    int           `json:"total_capacity"`
	PricePerPerson   float64       `json:"price_per_person"`
	Preferences      Preferences   `json:"preferences"`
	Photos           []PhotoRef    `json:"photos"`
	Status           ListingStatus `json:"status"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// Filter narrows a listing search. Zero values mean "no constraint";
// price bounds are pointers so that 0 remains a usable bound.
type Filter struct {
	Governorate string
	Status      ListingStatus
	Gender      Gender
	MinPrice    *float64
	MaxPrice    *float64
}

func (s ListingStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusFull, StatusClosed:
		return true
	}
	return false
}

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderAny:
		return true
	}
	return false
}
