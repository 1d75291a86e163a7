package domain

import (
	"regexp"
	"strconv"

	"github.com/google/uuid"
)

// Room is the read-only view of a catalog entry the engine needs.
// Prices are whole currency units.
type Room struct {
	ID            uuid.UUID
	Name          string
	PricePerNight int64
	PriceWithMeal int64
	MaxGuests     int
	Accommodation []string
}

var digitRun = regexp.MustCompile(`\d+`)

// ResolveCapacity returns MaxGuests when it is positive. Otherwise it sums
// every number found in the accommodation descriptors ("2 Adults",
// "1 Child" -> 3) and falls back to 1 when none are present.
func ResolveCapacity(room Room) int {
	if room.MaxGuests > 0 {
		return room.MaxGuests
	}

	total := 0
	for _, desc := range room.Accommodation {
		for _, run := range digitRun.FindAllString(desc, -1) {
			n, err := strconv.Atoi(run)
			if err != nil {
				continue
			}
			total += n
		}
	}

	if total <= 0 {
		return 1
	}

	return total
}

// NightlyRate picks the meal rate only when asked for and configured.
func (r Room) NightlyRate(withMeal bool) int64 {
	if withMeal && r.PriceWithMeal > 0 {
		return r.PriceWithMeal
	}

	return r.PricePerNight
}
