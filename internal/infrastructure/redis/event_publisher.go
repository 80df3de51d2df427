package redis

import (
	"auction-settlement/internal/domain"
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const DefaultEventsChannel = "auction_events"

// EventPublisherImpl publishes settlement outcomes on the shared auction
// events channel, in the same "auctionID:type:userID:amount:unix" layout the
// bidding side already parses.
type EventPublisherImpl struct {
	client  *redis.Client
	channel string
}

func NewEventPublisher(client *redis.Client, channel string) *EventPublisherImpl {
	if channel == "" {
		channel = DefaultEventsChannel
	}
	return &EventPublisherImpl{client: client, channel: channel}
}

func (r *EventPublisherImpl) PublishSettlement(ctx context.Context, event *domain.SettlementEvent) error {
	eventData := fmt.Sprintf("%s:%s:%s:%s:%d",
		event.AuctionID, event.Outcome, event.WinnerID,
		event.FinalPrice.StringFixed(2), event.SettledAt.Unix())

	return r.client.Publish(ctx, r.channel, eventData).Err()
}
