package models

// SalesTotals aggregates chick volume and revenue over approved and dispatched
// requests.
type SalesTotals struct {
	Chicks  int     `bson:"total_chicks" json:"chicks"`
	Revenue float64 `bson:"total_revenue" json:"revenue"`
}

// FeedStats is the feed-request aggregate used on the manager dashboard.
type FeedStats struct {
	TotalRequests      int     `bson:"total_requests" json:"total_requests"`
	PendingRequests    int     `bson:"pending_requests" json:"pending_requests"`
	ApprovedRequests   int     `bson:"approved_requests" json:"approved_requests"`
	DispatchedRequests int     `bson:"dispatched_requests" json:"dispatched_requests"`
	TotalBags          int     `bson:"total_bags" json:"total_bags"`
	Revenue            float64 `bson:"revenue" json:"revenue"`
}

// ManagerStats is the management dashboard projection, computed on demand from
// the live collections.
type ManagerStats struct {
	PendingRequests    int         `json:"pending_requests"`
	ApprovedRequests   int         `json:"approved_requests"`
	DispatchedRequests int         `json:"dispatched_requests"`
	TotalFarmers       int         `json:"total_farmers"`
	TotalStock         int         `json:"total_stock"`
	ChickSales         SalesTotals `json:"chick_sales"`
	FeedStats          FeedStats   `json:"feed_stats"`
}

// FarmerStats summarizes one farmer's own requests.
type FarmerStats struct {
	PendingRequests    int         `json:"pending_requests"`
	ApprovedRequests   int         `json:"approved_requests"`
	DispatchedRequests int         `json:"dispatched_requests"`
	CanceledRequests   int         `json:"canceled_requests"`
	ChickSales         SalesTotals `json:"chick_sales"`
}

// SalesRepStats backs the sales representative dashboard.
type SalesRepStats struct {
	TotalRequests      int         `json:"total_requests"`
	PendingRequests    int         `json:"pending_requests"`
	ApprovedToday      int         `json:"approved_today"`
	DispatchedRequests int         `json:"dispatched_requests"`
	TotalRevenue       float64     `json:"total_revenue"`
	TotalStock         int         `json:"total_stock"`
	TotalCustomers     int         `json:"total_customers"`
}
