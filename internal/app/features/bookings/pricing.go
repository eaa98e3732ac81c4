package bookings

import (
	"math"
	"time"

	"github.com/dalemusser/stratarent/internal/domain/models"
)

// QuotePrice prices a rental from pickup to return. Whole 30-day blocks use
// the monthly rate and whole weeks the weekly rate when those rates are set;
// the remaining days are charged at the daily rate.
func QuotePrice(car *models.Car, pickup, ret time.Time) float64 {
	b := models.Booking{PickupDate: pickup, ReturnDate: ret}
	days := b.RentalDays()

	var total float64
	if car.PricePerMonth > 0 {
		total += float64(days/30) * car.PricePerMonth
		days %= 30
	}
	if car.PricePerWeek > 0 {
		total += float64(days/7) * car.PricePerWeek
		days %= 7
	}
	total += float64(days) * car.PricePerDay
	return math.Round(total*100) / 100
}
