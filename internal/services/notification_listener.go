package services

import (
	"context"
	"fmt"

	"auction-settlement/internal/domain"
	"auction-settlement/pkg/logger"
)

// NotificationListener forwards user notifications published by settlement
// instances to the websocket sessions held by this gateway.
type NotificationListener struct {
	connectionManager domain.ConnectionManager
	log               logger.Logger
}

func NewNotificationListener(connectionManager domain.ConnectionManager, log logger.Logger) *NotificationListener {
	return &NotificationListener{
		connectionManager: connectionManager,
		log:               log,
	}
}

func (nl *NotificationListener) Start(ctx context.Context, subscriber domain.NotificationSubscriber) error {
	nl.log.Info("Starting notification listener")
	return subscriber.SubscribeToUserNotifications(ctx, nl.handleNotification)
}

func (nl *NotificationListener) handleNotification(envelope *domain.NotificationEnvelope) error {
	if envelope.UserID == "" {
		return fmt.Errorf("notification %q has no user", envelope.Event)
	}

	nl.log.Debug("Delivering notification", "user_id", envelope.UserID, "event", envelope.Event)

	if err := nl.connectionManager.NotifyUser(envelope.UserID, envelope); err != nil {
		nl.log.Error("Failed to deliver notification", "user_id", envelope.UserID, "event", envelope.Event, "error", err)
		return err
	}
	return nil
}
