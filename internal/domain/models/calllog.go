package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CallOutcome records how a sales-rep contact attempt went.
type CallOutcome string

const (
	CallAttempted CallOutcome = "attempted"
	CallSuccess   CallOutcome = "success"
	CallNoAnswer  CallOutcome = "no_answer"
)

// Valid reports whether the outcome is a supported value.
func (o CallOutcome) Valid() bool {
	switch o {
	case CallAttempted, CallSuccess, CallNoAnswer:
		return true
	}
	return false
}

// CallLog is one customer contact recorded by a sales representative.
type CallLog struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SalesRep   primitive.ObjectID `bson:"sales_rep" json:"sales_rep"`
	FarmerName string             `bson:"farmer_name" json:"farmer_name"`
	Phone      string             `bson:"phone" json:"phone"`
	CallDate   time.Time          `bson:"call_date" json:"call_date"`
	Outcome    CallOutcome        `bson:"outcome" json:"outcome"`
	Notes      string             `bson:"notes,omitempty" json:"notes,omitempty"`
}
