package domain

import (
	"context"
	"time"
)

//go:generate mockgen -destination=mocks/mock_interfaces.go -package=mocks auction-settlement/internal/domain AuctionStore,OrderReader,UserNotifier,SettlementEventPublisher,AuctionStateCache,LeaderElection

// Repository interfaces
type AuctionStore interface {
	FindExpiredActive(ctx context.Context, now time.Time) ([]*Auction, error)
	// CommitSettlement moves an Active auction to newStatus and, when order is
	// non-nil, inserts it in the same transaction. It returns
	// ErrAuctionNotActive if the auction is no longer Active.
	CommitSettlement(ctx context.Context, auctionID string, newStatus AuctionStatus, order *Order) error
	GetAuction(ctx context.Context, auctionID string) (*Auction, error)
}

type OrderReader interface {
	GetOrderByAuction(ctx context.Context, auctionID string) (*Order, error)
}

// Cache interfaces
type AuctionStateCache interface {
	SetAuctionStatus(ctx context.Context, auctionID string, status AuctionStatus) error
	GetAuctionStatus(ctx context.Context, auctionID string) (AuctionStatus, error)
}

// Event interfaces
type SettlementEventPublisher interface {
	PublishSettlement(ctx context.Context, event *SettlementEvent) error
}

type NotificationHandler func(envelope *NotificationEnvelope) error

type NotificationSubscriber interface {
	SubscribeToUserNotifications(ctx context.Context, handler NotificationHandler) error
}

// Notification interfaces
type UserNotifier interface {
	NotifyUser(ctx context.Context, userID, event string, payload interface{}) error
}

// Leader election interface
type LeaderElection interface {
	BecomeLeader(ctx context.Context, instanceID string) (bool, error)
	IsLeader(ctx context.Context, instanceID string) (bool, error)
	ReleaseLeadership(ctx context.Context, instanceID string) error
}

// WebSocket interfaces
type WebSocketConnection interface {
	Send(message []byte) error
	Close() error
	UserID() string
	ID() string
}

type ConnectionManager interface {
	RegisterConnection(userID string, conn WebSocketConnection) error
	UnregisterConnection(userID, connID string) error
	GetConnectionsForUser(userID string) []WebSocketConnection
	NotifyUser(userID string, message interface{}) error
}

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
