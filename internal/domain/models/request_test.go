package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCanTransitionTo(t *testing.T) {
	cases := []struct {
		from RequestStatus
		to   RequestStatus
		want bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusDispatched, false},
		{StatusPending, StatusCanceled, false},
		{StatusApproved, StatusDispatched, true},
		{StatusApproved, StatusCanceled, true},
		{StatusApproved, StatusRejected, false},
		{StatusApproved, StatusApproved, false},
		{StatusDispatched, StatusCanceled, false},
		{StatusRejected, StatusApproved, false},
		{StatusCanceled, StatusApproved, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusApproved.Terminal())
	assert.True(t, StatusDispatched.Terminal())
	assert.True(t, StatusRejected.Terminal())
	assert.True(t, StatusCanceled.Terminal())
}

func TestParseRequestKind(t *testing.T) {
	kind, err := ParseRequestKind("chicks")
	require.NoError(t, err)
	assert.Equal(t, KindChicks, kind)

	kind, err = ParseRequestKind("feeds")
	require.NoError(t, err)
	assert.Equal(t, KindFeeds, kind)

	_, err = ParseRequestKind("eggs")
	assert.Error(t, err)
}

func TestChickRequestOrderView(t *testing.T) {
	req := &ChickRequest{
		ID:         primitive.NewObjectID(),
		Farmer:     primitive.NewObjectID(),
		FarmerName: "Awa Diallo",
		ChickType:  "broiler",
		Quantity:   50,
		TotalCost:  82500,
		Lifecycle:  Lifecycle{Status: StatusPending},
	}

	order := req.Order()
	assert.Equal(t, KindChicks, order.Kind)
	assert.Equal(t, StatusPending, order.Status)
	require.Len(t, order.Reservations, 1)
	assert.Equal(t, ReservationLine{ItemType: "broiler", Quantity: 50}, order.Reservations[0])
	assert.Same(t, req, order.Chick)
	assert.Nil(t, order.Feed)
}

func TestFeedRequestOrderView(t *testing.T) {
	req := &FeedRequest{
		ID:        primitive.NewObjectID(),
		Reference: "FD260829001",
		FeedDetails: []FeedDetail{
			{FeedType: FeedStarter, Quantity: 1},
			{FeedType: FeedGrower, Quantity: 1},
		},
		Lifecycle: Lifecycle{Status: StatusApproved},
	}

	order := req.Order()
	assert.Equal(t, KindFeeds, order.Kind)
	assert.Equal(t, "FD260829001", order.Reference)
	require.Len(t, order.Reservations, 2)
	assert.Equal(t, "starter", order.Reservations[0].ItemType)
	assert.Equal(t, "grower", order.Reservations[1].ItemType)
	assert.Same(t, req, order.Feed)
	assert.Nil(t, order.Chick)
}

func TestUrgencyPriority(t *testing.T) {
	assert.Equal(t, 1, UrgencyNormal.Priority())
	assert.Equal(t, 2, UrgencyUrgent.Priority())
	assert.Equal(t, 3, UrgencyEmergency.Priority())
}
