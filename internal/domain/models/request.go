package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequestStatus is the canonical order status. A rejected request never held a
// reservation; a canceled one did and had it released.
type RequestStatus string

const (
	StatusPending    RequestStatus = "pending"
	StatusApproved   RequestStatus = "approved"
	StatusDispatched RequestStatus = "dispatched"
	StatusRejected   RequestStatus = "rejected"
	StatusCanceled   RequestStatus = "canceled"
)

// Terminal reports whether no further transition is permitted from s.
func (s RequestStatus) Terminal() bool {
	switch s {
	case StatusDispatched, StatusRejected, StatusCanceled:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to next is a legal transition.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusApproved || next == StatusRejected
	case StatusApproved:
		return next == StatusDispatched || next == StatusCanceled
	}
	return false
}

// RequestKind distinguishes the two order collections.
type RequestKind string

const (
	KindChicks RequestKind = "chicks"
	KindFeeds  RequestKind = "feeds"
)

// ParseRequestKind validates a kind value carried in a URL segment.
func ParseRequestKind(s string) (RequestKind, error) {
	switch RequestKind(s) {
	case KindChicks:
		return KindChicks, nil
	case KindFeeds:
		return KindFeeds, nil
	}
	return "", fmt.Errorf("unknown request kind %q", s)
}

// FarmerType drives the per-request quantity limits.
type FarmerType string

const (
	FarmerStarter   FarmerType = "starter"
	FarmerReturning FarmerType = "returning"
)

// Valid reports whether the farmer type is a supported value.
func (t FarmerType) Valid() bool {
	return t == FarmerStarter || t == FarmerReturning
}

// Lifecycle carries the status and transition audit stamps shared by chick and
// feed requests. Embedded inline so both documents store the same fields.
type Lifecycle struct {
	Status          RequestStatus       `bson:"status" json:"status"`
	RequestDate     time.Time           `bson:"request_date" json:"request_date"`
	ApprovedBy      *primitive.ObjectID `bson:"approved_by,omitempty" json:"approved_by,omitempty"`
	ApprovedAt      *time.Time          `bson:"approved_at,omitempty" json:"approved_at,omitempty"`
	RejectionReason string              `bson:"rejection_reason,omitempty" json:"rejection_reason,omitempty"`
	DispatchedBy    *primitive.ObjectID `bson:"dispatched_by,omitempty" json:"dispatched_by,omitempty"`
	DispatchedAt    *time.Time          `bson:"dispatched_at,omitempty" json:"dispatched_at,omitempty"`
	CanceledBy      *primitive.ObjectID `bson:"canceled_by,omitempty" json:"canceled_by,omitempty"`
	CanceledAt      *time.Time          `bson:"canceled_at,omitempty" json:"canceled_at,omitempty"`
}

// ChickRequest is a farmer's order for day-old chicks. TotalCost is fixed at
// creation and never recomputed by a transition.
type ChickRequest struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Farmer     primitive.ObjectID `bson:"farmer" json:"farmer"`
	FarmerName string             `bson:"farmer_name" json:"farmer_name"`
	FarmerType FarmerType         `bson:"farmer_type" json:"farmer_type"`
	ChickType  string             `bson:"chick_type" json:"chick_type"`
	Quantity   int                `bson:"quantity" json:"quantity"`
	UnitPrice  float64            `bson:"unit_price" json:"unit_price"`
	TotalCost  float64            `bson:"total_cost" json:"total_cost"`
	Comments   string             `bson:"comments,omitempty" json:"comments,omitempty"`
	Lifecycle  `bson:",inline"`
}

// StatusUpdate describes one transition write. The repository turns it into a
// conditional update keyed on the expected current status.
type StatusUpdate struct {
	Status  RequestStatus
	ActorID primitive.ObjectID
	At      time.Time
	Reason  string
}
