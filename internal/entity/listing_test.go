package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListing_JSONUsesSnakeCaseKeys(t *testing.T) {
	l := Listing{
		ID:               "64b0c1a2e4b0f1a2b3c4d5e6",
		OwnerID:          "owner-1",
		Title:            "Room near campus",
		Governorate:      "Tunis",
		CurrentOccupants: 2,
		TotalCapacity:    4,
		PricePerPerson:   300,
		Preferences:      Preferences{Gender: GenderAny},
		Photos:           []PhotoRef{{URL: "http://minio/photos/a.jpg", ObjectKey: "photos/a.jpg"}},
		Status:           StatusAvailable,
		CreatedAt:        time.Now(),
	}

	data, err := json.Marshal(&l)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))

	for _, key := range []string{
		"id", "owner_id", "title", "description", "governorate", "city",
		"address", "university", "current_occupants", "total_capacity",
		"price_per_person", "preferences", "photos", "status",
		"created_at", "updated_at",
	} {
		assert.Contains(t, m, key)
	}
	assert.NotContains(t, m, "OwnerID")
	assert.NotContains(t, m, "CurrentOccupants")
}
