package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Auction struct {
	ID                     string
	ProductID              string
	ProductName            string
	StartTime              time.Time
	EndTime                time.Time
	StartPrice             decimal.Decimal
	ReservePrice           decimal.Decimal
	CurrentHighestBid      decimal.Decimal
	CurrentHighestBidderID *string
	Status                 AuctionStatus
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// HasWinner reports whether a bidder currently holds the auction.
func (a *Auction) HasWinner() bool {
	return a.CurrentHighestBidderID != nil
}

// WinnerID returns the highest bidder or "" when nobody bid.
func (a *Auction) WinnerID() string {
	if a.CurrentHighestBidderID == nil {
		return ""
	}
	return *a.CurrentHighestBidderID
}

type AuctionStatus int

const (
	AuctionDraft AuctionStatus = iota
	AuctionActive
	AuctionSold
	AuctionEnded
	AuctionCancelled
)

func (s AuctionStatus) String() string {
	switch s {
	case AuctionDraft:
		return "draft"
	case AuctionActive:
		return "active"
	case AuctionSold:
		return "sold"
	case AuctionEnded:
		return "ended"
	case AuctionCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether the settlement pass must never touch an
// auction in this status again.
func (s AuctionStatus) IsTerminal() bool {
	return s == AuctionSold || s == AuctionEnded || s == AuctionCancelled
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderCancelled OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Order is the payable produced when an auction is sold. AuctionID is unique
// across orders so a Sold auction can always be traced to its order.
type Order struct {
	ID            string
	AuctionID     string
	UserID        string
	PlacedAt      time.Time
	Status        OrderStatus
	PaymentStatus PaymentStatus
	TotalAmount   decimal.Decimal
	SubTotal      decimal.Decimal
	Items         []OrderItem
}

type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

const AuctionWonEvent = "auction_won"

// SettlementNotification is pushed to the winner's live sessions. It is not
// persisted.
type SettlementNotification struct {
	Type        string          `json:"type"`
	AuctionID   string          `json:"auction_id"`
	ProductName string          `json:"product_name"`
	FinalPrice  decimal.Decimal `json:"final_price"`
	UserID      string          `json:"user_id"`
	OrderID     string          `json:"order_id"`
	SettledAt   time.Time       `json:"settled_at"`
}

type SettlementOutcome string

const (
	OutcomeSold  SettlementOutcome = "auction_sold"
	OutcomeEnded SettlementOutcome = "auction_ended"
)

// SettlementEvent is fanned out to downstream consumers after a commit.
type SettlementEvent struct {
	AuctionID  string            `json:"auction_id"`
	Outcome    SettlementOutcome `json:"outcome"`
	WinnerID   string            `json:"winner_id,omitempty"`
	FinalPrice decimal.Decimal   `json:"final_price"`
	OrderID    string            `json:"order_id,omitempty"`
	SettledAt  time.Time         `json:"settled_at"`
}

// NotificationEnvelope is the wire form of a user notification on the shared
// session directory channel.
type NotificationEnvelope struct {
	UserID  string      `json:"user_id"`
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}
