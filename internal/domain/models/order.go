package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// ReservationLine is one stock decrement an approval performs, and the matching
// increment a cancellation restores.
type ReservationLine struct {
	ItemType string `json:"item_type"`
	Quantity int    `json:"quantity"`
}

// Order is the kind-independent view the lifecycle manager operates on. Exactly
// one of Chick or Feed is set, matching Kind.
type Order struct {
	ID           primitive.ObjectID `json:"id"`
	Kind         RequestKind        `json:"kind"`
	Reference    string             `json:"reference,omitempty"`
	Farmer       primitive.ObjectID `json:"farmer"`
	FarmerName   string             `json:"farmer_name"`
	FarmerPhone  string             `json:"farmer_phone,omitempty"`
	TotalCost    float64            `json:"total_cost"`
	Lifecycle
	Reservations []ReservationLine `json:"reservations"`
	Chick        *ChickRequest     `json:"chick,omitempty"`
	Feed         *FeedRequest      `json:"feed,omitempty"`
}

// Order maps a chick request onto the lifecycle manager's view. The single
// reservation line targets the requested breed.
func (r *ChickRequest) Order() *Order {
	return &Order{
		ID:         r.ID,
		Kind:       KindChicks,
		Farmer:     r.Farmer,
		FarmerName: r.FarmerName,
		TotalCost:  r.TotalCost,
		Lifecycle:  r.Lifecycle,
		Reservations: []ReservationLine{
			{ItemType: r.ChickType, Quantity: r.Quantity},
		},
		Chick: r,
	}
}

// Order maps a feed request onto the lifecycle manager's view, one reservation
// line per feed_details entry.
func (r *FeedRequest) Order() *Order {
	lines := make([]ReservationLine, 0, len(r.FeedDetails))
	for _, d := range r.FeedDetails {
		lines = append(lines, ReservationLine{ItemType: string(d.FeedType), Quantity: d.Quantity})
	}
	return &Order{
		ID:           r.ID,
		Kind:         KindFeeds,
		Reference:    r.Reference,
		Farmer:       r.Farmer,
		FarmerName:   r.FarmerName,
		FarmerPhone:  r.FarmerPhone,
		TotalCost:    r.TotalCost,
		Lifecycle:    r.Lifecycle,
		Reservations: lines,
		Feed:         r,
	}
}
