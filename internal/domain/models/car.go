// internal/domain/models/car.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CarType is the rental category a car is listed under.
type CarType string

const (
	CarTypeEconomy     CarType = "economy"
	CarTypeCompact     CarType = "compact"
	CarTypeSUV         CarType = "suv"
	CarTypeLuxury      CarType = "luxury"
	CarTypeVan         CarType = "van"
	CarTypeConvertible CarType = "convertible"
)

// AllCarTypes returns all valid car types in display order.
func AllCarTypes() []CarType {
	return []CarType{
		CarTypeEconomy,
		CarTypeCompact,
		CarTypeSUV,
		CarTypeLuxury,
		CarTypeVan,
		CarTypeConvertible,
	}
}

// IsValidCarType checks if a car type is valid.
func IsValidCarType(t string) bool {
	for _, ct := range AllCarTypes() {
		if string(ct) == t {
			return true
		}
	}
	return false
}

// Car is a vehicle offered for rent.
//
// Model and CarModel hold the same value. Older admin clients send "model",
// newer ones "carModel"; the store keeps both populated.
type Car struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Model         string             `bson:"model" json:"model"`
	CarModel      string             `bson:"car_model" json:"carModel"`
	Type          CarType            `bson:"type" json:"type"`
	PricePerDay   float64            `bson:"price_per_day" json:"pricePerDay"`
	PricePerWeek  float64            `bson:"price_per_week,omitempty" json:"pricePerWeek,omitempty"`
	PricePerMonth float64            `bson:"price_per_month,omitempty" json:"pricePerMonth,omitempty"`
	Deposit       float64            `bson:"deposit,omitempty" json:"deposit,omitempty"`
	Available     bool               `bson:"available" json:"available"`
	Featured      bool               `bson:"featured" json:"featured"`
	Seats         int                `bson:"seats,omitempty" json:"seats,omitempty"`
	Transmission  string             `bson:"transmission,omitempty" json:"transmission,omitempty"` // automatic, manual
	Fuel          string             `bson:"fuel,omitempty" json:"fuel,omitempty"`
	Features      []string           `bson:"features" json:"features"`
	Images        []string           `bson:"images" json:"images"`
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updatedAt"`
}

// SyncModelAliases fills whichever of Model and CarModel is empty from the
// other. When both are set they are left as given.
func (c *Car) SyncModelAliases() {
	switch {
	case c.CarModel == "" && c.Model != "":
		c.CarModel = c.Model
	case c.Model == "" && c.CarModel != "":
		c.Model = c.CarModel
	}
}
