package redis

import (
	"auction-settlement/internal/domain"
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const DefaultNotificationChannel = "user_notifications"

// UserNotificationPublisher hands user notifications to whichever gateway
// instance holds the user's sockets. Users without a live session are
// dropped by the gateways.
type UserNotificationPublisher struct {
	client  *redis.Client
	channel string
}

func NewUserNotificationPublisher(client *redis.Client, channel string) *UserNotificationPublisher {
	if channel == "" {
		channel = DefaultNotificationChannel
	}
	return &UserNotificationPublisher{client: client, channel: channel}
}

func (p *UserNotificationPublisher) NotifyUser(ctx context.Context, userID, event string, payload interface{}) error {
	data, err := json.Marshal(&domain.NotificationEnvelope{
		UserID:  userID,
		Event:   event,
		Payload: payload,
	})
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	return p.client.Publish(ctx, p.channel, data).Err()
}
