package models

import "time"

// DailyReport is the nightly operations snapshot persisted to MongoDB and
// exported to the reporting spreadsheet.
type DailyReport struct {
	Date               time.Time `bson:"date" json:"date"`
	PendingRequests    int       `bson:"pending_requests" json:"pending_requests"`
	ApprovedRequests   int       `bson:"approved_requests" json:"approved_requests"`
	DispatchedRequests int       `bson:"dispatched_requests" json:"dispatched_requests"`
	TotalStock         int       `bson:"total_stock" json:"total_stock"`
	ChickRevenue       float64   `bson:"chick_revenue" json:"chick_revenue"`
	FeedRevenue        float64   `bson:"feed_revenue" json:"feed_revenue"`
	CreatedAt          time.Time `bson:"created_at" json:"created_at"`
}
