package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StockItem is one inventory line: a category/type/age batch of chicks, or a
// feed-type bag count. Quantity is only ever mutated through the guarded
// reservation update and the release increment.
type StockItem struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Category     string             `bson:"category" json:"category"`
	Type         string             `bson:"type" json:"type"`
	AgeDays      int                `bson:"age_days" json:"age_days"`
	Quantity     int                `bson:"quantity" json:"quantity"`
	ReceivedDate time.Time          `bson:"received_date" json:"received_date"`
	Comments     string             `bson:"comments,omitempty" json:"comments,omitempty"`
	StaffName    string             `bson:"staff_name" json:"staff_name"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
}
