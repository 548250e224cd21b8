package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FeedType is one of the feed SKUs the brooder sells by the bag.
type FeedType string

const (
	FeedStarter FeedType = "starter"
	FeedGrower  FeedType = "grower"
	FeedLayer   FeedType = "layer"
	FeedBroiler FeedType = "broiler"
)

// Valid reports whether the feed type is a supported SKU.
func (t FeedType) Valid() bool {
	switch t {
	case FeedStarter, FeedGrower, FeedLayer, FeedBroiler:
		return true
	}
	return false
}

// Urgency expresses how quickly a farmer needs their feed delivered.
type Urgency string

const (
	UrgencyNormal    Urgency = "normal"
	UrgencyUrgent    Urgency = "urgent"
	UrgencyEmergency Urgency = "emergency"
)

// Valid reports whether the urgency is a supported level.
func (u Urgency) Valid() bool {
	switch u {
	case UrgencyNormal, UrgencyUrgent, UrgencyEmergency:
		return true
	}
	return false
}

// Priority maps urgency to the numeric queue priority stored on the request.
func (u Urgency) Priority() int {
	switch u {
	case UrgencyEmergency:
		return 3
	case UrgencyUrgent:
		return 2
	}
	return 1
}

// PaymentStatus tracks settlement of a feed request invoice.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
	PaymentOverdue PaymentStatus = "overdue"
)

// FeedDetail is the per-feed-type breakdown of a feed request.
type FeedDetail struct {
	FeedType   FeedType `bson:"feed_type" json:"feed_type"`
	Quantity   int      `bson:"quantity" json:"quantity"`
	UnitPrice  float64  `bson:"unit_price" json:"unit_price"`
	TotalPrice float64  `bson:"total_price" json:"total_price"`
}

// FeedRequest is a farmer's order for feed bags. Reservation on approval runs
// against the feed_details breakdown, one stock line per feed type.
type FeedRequest struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Reference           string             `bson:"reference" json:"reference"`
	Farmer              primitive.ObjectID `bson:"farmer" json:"farmer"`
	FarmerName          string             `bson:"farmer_name" json:"farmer_name"`
	FarmerPhone         string             `bson:"farmer_phone" json:"farmer_phone"`
	FarmerNIN           string             `bson:"farmer_nin" json:"farmer_nin"`
	FarmerType          FarmerType         `bson:"farmer_type" json:"farmer_type"`
	CurrentChicks       int                `bson:"current_chicks" json:"current_chicks"`
	FarmLocation        string             `bson:"farm_location" json:"farm_location"`
	FeedTypes           []FeedType         `bson:"feed_types" json:"feed_types"`
	FeedQuantity        int                `bson:"feed_quantity" json:"feed_quantity"`
	Urgency             Urgency            `bson:"urgency" json:"urgency"`
	Priority            int                `bson:"priority" json:"priority"`
	SpecialRequirements string             `bson:"special_requirements,omitempty" json:"special_requirements,omitempty"`
	FeedDetails         []FeedDetail       `bson:"feed_details" json:"feed_details"`
	TotalCost           float64            `bson:"total_cost" json:"total_cost"`
	PaymentStatus       PaymentStatus      `bson:"payment_status" json:"payment_status"`
	PaymentDueDate      time.Time          `bson:"payment_due_date" json:"payment_due_date"`
	Lifecycle           `bson:",inline"`
}
