// internal/domain/models/booking.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingStatus tracks a reservation through its lifecycle.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// AllBookingStatuses returns the statuses in lifecycle order.
func AllBookingStatuses() []BookingStatus {
	return []BookingStatus{BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted}
}

// IsValidBookingStatus checks if a booking status is valid.
func IsValidBookingStatus(s string) bool {
	for _, st := range AllBookingStatuses() {
		if BookingStatus(s) == st {
			return true
		}
	}
	return false
}

// Booking is a rental reservation for one car.
type Booking struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	CarID           primitive.ObjectID `bson:"car_id" json:"carId"`
	CustomerName    string             `bson:"customer_name" json:"customerName"`
	CustomerEmail   string             `bson:"customer_email,omitempty" json:"customerEmail,omitempty"`
	CustomerPhone   string             `bson:"customer_phone,omitempty" json:"customerPhone,omitempty"`
	PickupDate      time.Time          `bson:"pickup_date" json:"pickupDate"`
	ReturnDate      time.Time          `bson:"return_date" json:"returnDate"`
	PickupLocation  string             `bson:"pickup_location,omitempty" json:"pickupLocation,omitempty"`
	DropoffLocation string             `bson:"dropoff_location,omitempty" json:"dropoffLocation,omitempty"`
	Status          BookingStatus      `bson:"status" json:"status"`
	Notes           string             `bson:"notes,omitempty" json:"notes,omitempty"`
	TotalPrice      float64            `bson:"total_price,omitempty" json:"totalPrice,omitempty"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updatedAt"`
}

// BookingWithCar is a booking with its referenced car joined in.
// Car is nil when the car has since been deleted.
type BookingWithCar struct {
	Booking `bson:",inline"`
	Car     *Car `bson:"car,omitempty" json:"car"`
}

// RentalDays returns the number of billable days between pickup and return,
// counting any started day as a full day. Never less than one.
func (b *Booking) RentalDays() int {
	d := b.ReturnDate.Sub(b.PickupDate)
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	if days < 1 {
		days = 1
	}
	return days
}
