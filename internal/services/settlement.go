package services

import (
	"auction-settlement/internal/domain"
	"auction-settlement/pkg/logger"
	"auction-settlement/pkg/utils"
	"context"
	"errors"
	"fmt"
	"time"
)

type SettlementTimeouts struct {
	Commit time.Duration
	Notify time.Duration
}

var DefaultSettlementTimeouts = SettlementTimeouts{
	Commit: 10 * time.Second,
	Notify: 2 * time.Second,
}

// SettlementEngine resolves expired Active auctions into Sold or Ended.
// stateCache and eventPub may be nil.
type SettlementEngine struct {
	auctionStore domain.AuctionStore
	stateCache   domain.AuctionStateCache
	eventPub     domain.SettlementEventPublisher
	notifier     domain.UserNotifier
	timeouts     SettlementTimeouts
	log          logger.Logger
}

func NewSettlementEngine(
	auctionStore domain.AuctionStore,
	stateCache domain.AuctionStateCache,
	eventPub domain.SettlementEventPublisher,
	notifier domain.UserNotifier,
	timeouts SettlementTimeouts,
	log logger.Logger,
) *SettlementEngine {
	if timeouts.Commit <= 0 {
		timeouts.Commit = DefaultSettlementTimeouts.Commit
	}
	if timeouts.Notify <= 0 {
		timeouts.Notify = DefaultSettlementTimeouts.Notify
	}
	return &SettlementEngine{
		auctionStore: auctionStore,
		stateCache:   stateCache,
		eventPub:     eventPub,
		notifier:     notifier,
		timeouts:     timeouts,
		log:          log,
	}
}

// RunSettlementPass settles every auction that is Active with an end time at
// or before now. A failing selection query fails the whole pass with nothing
// written. Failures of individual auctions are collected in the result and
// leave those auctions Active for the next pass. Cancelling ctx stops the pass
// between auctions; a commit already in flight is allowed to finish.
func (e *SettlementEngine) RunSettlementPass(ctx context.Context, now time.Time) (*domain.PassResult, error) {
	result := &domain.PassResult{StartedAt: now}

	auctions, err := e.auctionStore.FindExpiredActive(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("find expired auctions: %w", err)
	}

	e.log.Debug("Settlement pass selected auctions", "count", len(auctions), "now", now)

	for i, auction := range auctions {
		if err := ctx.Err(); err != nil {
			e.log.Warn("Settlement pass interrupted", "settled", i, "remaining", len(auctions)-i)
			result.FinishedAt = time.Now().UTC()
			return result, fmt.Errorf("settlement pass interrupted: %w", err)
		}

		result.Processed++
		outcome, err := e.settleOne(ctx, auction, now)
		switch {
		case errors.Is(err, domain.ErrAuctionNotActive):
			e.log.Warn("Auction already settled elsewhere", "auction_id", auction.ID)
			result.Skipped++
		case err != nil:
			result.Errors = append(result.Errors, domain.AuctionError{AuctionID: auction.ID, Err: err})
		case outcome == domain.OutcomeSold:
			result.Sold++
		default:
			result.Ended++
		}
	}

	result.FinishedAt = time.Now().UTC()
	return result, nil
}

// settleOne never lets a panic from one auction escape into the batch.
func (e *SettlementEngine) settleOne(ctx context.Context, auction *domain.Auction, now time.Time) (outcome domain.SettlementOutcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("Panic while settling auction", "auction_id", auction.ID, "panic", r)
			err = fmt.Errorf("panic settling auction: %v", r)
		}
	}()

	newStatus, order, err := e.decide(auction, now)
	if err != nil {
		e.log.Error("Refusing to settle auction", "auction_id", auction.ID,
			"bidder", auction.WinnerID(), "highest_bid", auction.CurrentHighestBid.String(),
			"start_price", auction.StartPrice.String(), "error", err)
		return "", err
	}

	// The commit must not be cut off by a shutdown once it has started.
	commitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeouts.Commit)
	defer cancel()

	if err := e.auctionStore.CommitSettlement(commitCtx, auction.ID, newStatus, order); err != nil {
		if !errors.Is(err, domain.ErrAuctionNotActive) {
			e.log.Error("Failed to commit settlement", "auction_id", auction.ID, "status", newStatus.String(), "error", err)
		}
		return "", err
	}

	outcome = domain.OutcomeEnded
	if newStatus == domain.AuctionSold {
		outcome = domain.OutcomeSold
	}

	e.log.Info("Auction settled", "auction_id", auction.ID, "status", newStatus.String(),
		"winner_id", auction.WinnerID(), "order_id", orderID(order))

	e.afterCommit(ctx, auction, outcome, order, now)
	return outcome, nil
}

// decide picks the terminal status and builds the order for a sold auction.
func (e *SettlementEngine) decide(auction *domain.Auction, now time.Time) (domain.AuctionStatus, *domain.Order, error) {
	if auction.Status != domain.AuctionActive {
		return 0, nil, fmt.Errorf("%w: auction %s selected with status %s", domain.ErrInvariantViolation, auction.ID, auction.Status)
	}

	if !auction.HasWinner() {
		return domain.AuctionEnded, nil, nil
	}

	if auction.WinnerID() == "" {
		return 0, nil, fmt.Errorf("%w: auction %s has an empty highest bidder", domain.ErrInvariantViolation, auction.ID)
	}
	if auction.CurrentHighestBid.LessThan(auction.StartPrice) {
		return 0, nil, fmt.Errorf("%w: auction %s highest bid %s below start price %s", domain.ErrInvariantViolation,
			auction.ID, auction.CurrentHighestBid, auction.StartPrice)
	}

	return domain.AuctionSold, newSettlementOrder(auction, now), nil
}

func newSettlementOrder(auction *domain.Auction, now time.Time) *domain.Order {
	orderID := utils.GenerateID("order")
	return &domain.Order{
		ID:            orderID,
		AuctionID:     auction.ID,
		UserID:        auction.WinnerID(),
		PlacedAt:      now,
		Status:        domain.OrderPending,
		PaymentStatus: domain.PaymentUnpaid,
		TotalAmount:   auction.CurrentHighestBid,
		SubTotal:      auction.CurrentHighestBid,
		Items: []domain.OrderItem{{
			ID:        utils.GenerateID("item"),
			OrderID:   orderID,
			ProductID: auction.ProductID,
			Quantity:  1,
			UnitPrice: auction.CurrentHighestBid,
		}},
	}
}

// afterCommit runs the best-effort side effects of a committed settlement.
// None of them can undo the commit or change the outcome, panics included.
func (e *SettlementEngine) afterCommit(ctx context.Context, auction *domain.Auction, outcome domain.SettlementOutcome, order *domain.Order, now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("Panic after settlement commit", "auction_id", auction.ID, "outcome", outcome, "panic", r)
		}
	}()

	sideCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeouts.Notify)
	defer cancel()

	status := domain.AuctionEnded
	if outcome == domain.OutcomeSold {
		status = domain.AuctionSold
	}

	if e.stateCache != nil {
		if err := e.stateCache.SetAuctionStatus(sideCtx, auction.ID, status); err != nil {
			e.log.Warn("Failed to update auction state cache", "auction_id", auction.ID, "error", err)
		}
	}

	if e.eventPub != nil {
		err := e.eventPub.PublishSettlement(sideCtx, &domain.SettlementEvent{
			AuctionID:  auction.ID,
			Outcome:    outcome,
			WinnerID:   auction.WinnerID(),
			FinalPrice: auction.CurrentHighestBid,
			OrderID:    orderID(order),
			SettledAt:  now,
		})
		if err != nil {
			e.log.Warn("Failed to publish settlement event", "auction_id", auction.ID, "error", err)
		}
	}

	if outcome != domain.OutcomeSold || e.notifier == nil {
		return
	}

	notification := &domain.SettlementNotification{
		Type:        domain.AuctionWonEvent,
		AuctionID:   auction.ID,
		ProductName: auction.ProductName,
		FinalPrice:  auction.CurrentHighestBid,
		UserID:      auction.WinnerID(),
		OrderID:     order.ID,
		SettledAt:   now,
	}
	if err := e.notifier.NotifyUser(sideCtx, auction.WinnerID(), domain.AuctionWonEvent, notification); err != nil {
		e.log.Warn("Failed to notify winner", "auction_id", auction.ID, "user_id", auction.WinnerID(), "error", err)
	}
}

func orderID(order *domain.Order) string {
	if order == nil {
		return ""
	}
	return order.ID
}
