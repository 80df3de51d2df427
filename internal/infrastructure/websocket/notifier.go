package websocket

import (
	"auction-settlement/internal/domain"
	"context"
)

// WebSocketNotifier delivers directly to sockets held by this process. The
// settlement service uses it when events.notifier is "local"; multi-instance
// deployments publish through Redis to the notification gateway instead.
type WebSocketNotifier struct {
	connManager domain.ConnectionManager
}

func NewWebSocketNotifier(connManager domain.ConnectionManager) *WebSocketNotifier {
	return &WebSocketNotifier{connManager: connManager}
}

func (n *WebSocketNotifier) NotifyUser(ctx context.Context, userID, event string, payload interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return n.connManager.NotifyUser(userID, &domain.NotificationEnvelope{
		UserID:  userID,
		Event:   event,
		Payload: payload,
	})
}
