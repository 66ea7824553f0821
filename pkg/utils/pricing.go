package utils

import (
	"github.com/primetaxi/backend/internal/models"
)

// PriceQuote contains the computed price and its breakdown.
type PriceQuote struct {
	BasePrice  float64 `json:"basePrice"`
	Extras     float64 `json:"extras"`
	TotalPrice float64 `json:"totalPrice"`
}

const (
	// Base prices in ISK per service type.
	TaxiBasePrice            = 3500.0
	AirportTransferBasePrice = 19500.0
	PrivateTourBasePrice     = 45000.0
	CustomTourBasePrice      = 60000.0

	// Passengers beyond this count pay a per-head surcharge.
	IncludedPassengers   = 4
	ExtraPassengerCharge = 2000.0
)

var basePrices = map[models.BookingType]float64{
	models.BookingTypeTaxi:            TaxiBasePrice,
	models.BookingTypeAirportTransfer: AirportTransferBasePrice,
	models.BookingTypePrivateTour:     PrivateTourBasePrice,
	models.BookingTypeCustomTour:      CustomTourBasePrice,
}

// KnownBookingType reports whether the type has a price table entry.
func KnownBookingType(t models.BookingType) bool {
	_, ok := basePrices[t]
	return ok
}

// Quote computes the price for a booking. The result is fixed at creation
// time and never recomputed.
func Quote(t models.BookingType, passengers int) PriceQuote {
	base := basePrices[t]

	var extras float64
	if passengers > IncludedPassengers {
		extras = float64(passengers-IncludedPassengers) * ExtraPassengerCharge
	}

	return PriceQuote{
		BasePrice:  base,
		Extras:     extras,
		TotalPrice: base + extras,
	}
}
