package domain

import "fmt"

type Quote struct {
	Nights        int
	PricePerNight int64
	Amount        int64
}

// QuoteStay prices a stay server-side. Caller-supplied totals are never used.
func QuoteStay(room Room, stay DateRange, withMeal bool) (Quote, error) {
	nights := stay.Nights()
	if nights <= 0 {
		return Quote{}, fmt.Errorf("%w: stay %s has no nights", ErrInvalidRange, stay)
	}

	rate := room.NightlyRate(withMeal)

	return Quote{
		Nights:        nights,
		PricePerNight: rate,
		Amount:        int64(nights) * rate,
	}, nil
}

// MinorUnits converts whole units to the gateway's minor units (paise, cents).
func MinorUnits(amount int64) int64 {
	return amount * 100
}
