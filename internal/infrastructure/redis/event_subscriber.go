package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"auction-settlement/internal/domain"
	"auction-settlement/pkg/logger"

	"github.com/go-redis/redis/v8"
)

type RedisNotificationSubscriber struct {
	client  *redis.Client
	channel string
	log     logger.Logger
}

func NewRedisNotificationSubscriber(client *redis.Client, channel string, log logger.Logger) *RedisNotificationSubscriber {
	if channel == "" {
		channel = DefaultNotificationChannel
	}
	return &RedisNotificationSubscriber{
		client:  client,
		channel: channel,
		log:     log,
	}
}

// SubscribeToUserNotifications blocks until ctx is done, passing every
// well-formed envelope to handler.
func (r *RedisNotificationSubscriber) SubscribeToUserNotifications(ctx context.Context, handler domain.NotificationHandler) error {
	pubsub := r.client.Subscribe(ctx, r.channel)
	defer pubsub.Close()

	// Wait for the subscription to be confirmed before reporting ready.
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", r.channel, err)
	}

	ch := pubsub.Channel()

	r.log.Info("Subscribed to user notifications", "channel", r.channel)

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			envelope, err := parseEnvelope(msg.Payload)
			if err != nil {
				r.log.Error("Failed to parse notification", "payload", msg.Payload, "error", err)
				continue
			}

			if err := handler(envelope); err != nil {
				r.log.Error("Failed to handle notification", "user_id", envelope.UserID, "event", envelope.Event, "error", err)
			}

		case <-ctx.Done():
			r.log.Info("Notification subscriber stopped")
			return ctx.Err()
		}
	}
}

func parseEnvelope(payload string) (*domain.NotificationEnvelope, error) {
	var envelope domain.NotificationEnvelope
	if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
		return nil, err
	}
	if envelope.UserID == "" {
		return nil, fmt.Errorf("notification without user_id")
	}
	return &envelope, nil
}
