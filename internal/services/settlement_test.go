package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"auction-settlement/internal/domain"
	"auction-settlement/internal/domain/mocks"
	"auction-settlement/internal/infrastructure/memory"
	"auction-settlement/pkg/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

var passTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func activeAuction(id string, endTime time.Time, bidder *string, bid string) *domain.Auction {
	a := &domain.Auction{
		ID:                     id,
		ProductID:              "prod-" + id,
		ProductName:            "Product " + id,
		StartTime:              endTime.Add(-time.Hour),
		EndTime:                endTime,
		StartPrice:             decimal.NewFromInt(100),
		CurrentHighestBidderID: bidder,
		Status:                 domain.AuctionActive,
	}
	if bid != "" {
		a.CurrentHighestBid = decimal.RequireFromString(bid)
	}
	return a
}

func newEngine(store domain.AuctionStore, notifier domain.UserNotifier) *SettlementEngine {
	return NewSettlementEngine(store, nil, nil, notifier, DefaultSettlementTimeouts, logger.NewNop())
}

func mustStatus(t *testing.T, store *memory.AuctionStore, id string, want domain.AuctionStatus) {
	t.Helper()
	a, err := store.GetAuction(context.Background(), id)
	if err != nil {
		t.Fatalf("get auction %s: %v", id, err)
	}
	if a.Status != want {
		t.Fatalf("auction %s: expected status %s, got %s", id, want, a.Status)
	}
}

func TestSettlementPassSellsAuctionWithWinner(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := mocks.NewMockUserNotifier(ctrl)

	store := memory.NewAuctionStore()
	store.PutAuction(activeAuction("a1", passTime.Add(-time.Minute), strPtr("u1"), "150.00"))

	notifier.EXPECT().
		NotifyUser(gomock.Any(), "u1", domain.AuctionWonEvent, gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ string, payload any) error {
			n, ok := payload.(*domain.SettlementNotification)
			if !ok {
				t.Fatalf("unexpected payload type %T", payload)
			}
			if n.AuctionID != "a1" || !n.FinalPrice.Equal(decimal.NewFromInt(150)) || n.OrderID == "" {
				t.Errorf("unexpected notification %+v", n)
			}
			return nil
		}).Times(1)

	result, err := newEngine(store, notifier).RunSettlementPass(context.Background(), passTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Processed != 1 || result.Sold != 1 || result.Ended != 0 || !result.OK() {
		t.Fatalf("unexpected result %+v", result)
	}

	mustStatus(t, store, "a1", domain.AuctionSold)

	order, err := store.GetOrderByAuction(context.Background(), "a1")
	if err != nil {
		t.Fatalf("expected order: %v", err)
	}
	if order.UserID != "u1" || order.Status != domain.OrderPending || order.PaymentStatus != domain.PaymentUnpaid {
		t.Errorf("unexpected order %+v", order)
	}
	if !order.TotalAmount.Equal(decimal.RequireFromString("150")) || !order.SubTotal.Equal(order.TotalAmount) {
		t.Errorf("unexpected amounts total=%s sub=%s", order.TotalAmount, order.SubTotal)
	}
	if !order.PlacedAt.Equal(passTime) {
		t.Errorf("expected placed at %s, got %s", passTime, order.PlacedAt)
	}
	if len(order.Items) != 1 || order.Items[0].ProductID != "prod-a1" || order.Items[0].Quantity != 1 ||
		order.Items[0].OrderID != order.ID {
		t.Errorf("unexpected items %+v", order.Items)
	}
}

func TestSettlementPassEndsAuctionWithoutBids(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := mocks.NewMockUserNotifier(ctrl)

	store := memory.NewAuctionStore()
	store.PutAuction(activeAuction("a2", passTime.Add(-time.Minute), nil, ""))

	result, err := newEngine(store, notifier).RunSettlementPass(context.Background(), passTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Ended != 1 || result.Sold != 0 {
		t.Fatalf("unexpected result %+v", result)
	}

	mustStatus(t, store, "a2", domain.AuctionEnded)
	if len(store.Orders()) != 0 {
		t.Fatalf("expected no orders, got %d", len(store.Orders()))
	}
}

func TestSettlementPassLeavesRunningAndTerminalAuctions(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := mocks.NewMockUserNotifier(ctrl)

	store := memory.NewAuctionStore()
	store.PutAuction(activeAuction("future", passTime.Add(time.Second), strPtr("u1"), "200"))
	cancelled := activeAuction("cancelled", passTime.Add(-time.Hour), strPtr("u2"), "200")
	cancelled.Status = domain.AuctionCancelled
	store.PutAuction(cancelled)

	result, err := newEngine(store, notifier).RunSettlementPass(context.Background(), passTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Processed != 0 {
		t.Fatalf("expected nothing processed, got %+v", result)
	}

	mustStatus(t, store, "future", domain.AuctionActive)
	mustStatus(t, store, "cancelled", domain.AuctionCancelled)
}

func TestSettlementPassEndTimeIsInclusive(t *testing.T) {
	store := memory.NewAuctionStore()
	store.PutAuction(activeAuction("edge", passTime, nil, ""))

	result, err := newEngine(store, nil).RunSettlementPass(context.Background(), passTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Ended != 1 {
		t.Fatalf("expected auction ending exactly now to settle, got %+v", result)
	}
}

func TestSettlementPassIsIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := mocks.NewMockUserNotifier(ctrl)
	notifier.EXPECT().NotifyUser(gomock.Any(), "u1", domain.AuctionWonEvent, gomock.Any()).Return(nil).Times(1)

	store := memory.NewAuctionStore()
	store.PutAuction(activeAuction("a1", passTime.Add(-time.Minute), strPtr("u1"), "120"))
	store.PutAuction(activeAuction("a2", passTime.Add(-time.Minute), nil, ""))

	engine := newEngine(store, notifier)
	if _, err := engine.RunSettlementPass(context.Background(), passTime); err != nil {
		t.Fatalf("first pass: %v", err)
	}

	result, err := engine.RunSettlementPass(context.Background(), passTime.Add(time.Minute))
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if result.Processed != 0 {
		t.Fatalf("second pass should be a no-op, got %+v", result)
	}
	if len(store.Orders()) != 1 {
		t.Fatalf("expected exactly one order, got %d", len(store.Orders()))
	}
}

func TestSettlementPassFailedCommitLeavesNoPartialState(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := mocks.NewMockUserNotifier(ctrl)
	notifier.EXPECT().NotifyUser(gomock.Any(), "u2", gomock.Any(), gomock.Any()).Return(nil).Times(1)

	store := memory.NewAuctionStore()
	store.PutAuction(activeAuction("bad", passTime.Add(-2*time.Minute), strPtr("u1"), "150"))
	store.PutAuction(activeAuction("good", passTime.Add(-time.Minute), strPtr("u2"), "180"))

	dbErr := errors.New("order insert failed")
	store.CommitHook = func(auctionID string, _ domain.AuctionStatus, _ *domain.Order) error {
		if auctionID == "bad" {
			return dbErr
		}
		return nil
	}

	result, err := newEngine(store, notifier).RunSettlementPass(context.Background(), passTime)
	if err != nil {
		t.Fatalf("per-auction failure must not fail the pass: %v", err)
	}
	if result.Sold != 1 || len(result.Errors) != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.Errors[0].AuctionID != "bad" || !errors.Is(result.Errors[0], dbErr) {
		t.Errorf("unexpected error entry %+v", result.Errors[0])
	}

	mustStatus(t, store, "bad", domain.AuctionActive)
	mustStatus(t, store, "good", domain.AuctionSold)
	if _, err := store.GetOrderByAuction(context.Background(), "bad"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected no order for failed auction, got %v", err)
	}

	// The next pass retries the auction that failed.
	store.CommitHook = nil
	notifier.EXPECT().NotifyUser(gomock.Any(), "u1", gomock.Any(), gomock.Any()).Return(nil).Times(1)
	result, err = newEngine(store, notifier).RunSettlementPass(context.Background(), passTime)
	if err != nil || result.Sold != 1 {
		t.Fatalf("retry pass: %+v %v", result, err)
	}
	mustStatus(t, store, "bad", domain.AuctionSold)
}

func TestSettlementPassNotificationFailureKeepsSettlement(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := mocks.NewMockUserNotifier(ctrl)
	notifier.EXPECT().NotifyUser(gomock.Any(), "u1", gomock.Any(), gomock.Any()).
		Return(errors.New("redis unavailable")).Times(1)

	store := memory.NewAuctionStore()
	store.PutAuction(activeAuction("a1", passTime.Add(-time.Minute), strPtr("u1"), "150"))

	result, err := newEngine(store, notifier).RunSettlementPass(context.Background(), passTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Sold != 1 || !result.OK() {
		t.Fatalf("notification failure should not affect result, got %+v", result)
	}
	mustStatus(t, store, "a1", domain.AuctionSold)
}

func TestSettlementPassRejectsBidBelowStartPrice(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := mocks.NewMockUserNotifier(ctrl)

	store := memory.NewAuctionStore()
	store.PutAuction(activeAuction("corrupt", passTime.Add(-time.Minute), strPtr("u1"), "50"))

	result, err := newEngine(store, notifier).RunSettlementPass(context.Background(), passTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Errors) != 1 || !errors.Is(result.Errors[0], domain.ErrInvariantViolation) {
		t.Fatalf("expected invariant violation, got %+v", result)
	}
	mustStatus(t, store, "corrupt", domain.AuctionActive)
	if len(store.Orders()) != 0 {
		t.Fatal("no order should be created for a corrupt auction")
	}
}

func TestSettlementPassCountsConcurrentSettlementAsSkipped(t *testing.T) {
	store := memory.NewAuctionStore()
	store.PutAuction(activeAuction("raced", passTime.Add(-time.Minute), nil, ""))
	store.CommitHook = func(string, domain.AuctionStatus, *domain.Order) error {
		return domain.ErrAuctionNotActive
	}

	result, err := newEngine(store, nil).RunSettlementPass(context.Background(), passTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Skipped != 1 || !result.OK() {
		t.Fatalf("expected skipped auction, got %+v", result)
	}
}

func TestSettlementPassRecoversPanicPerAuction(t *testing.T) {
	store := memory.NewAuctionStore()
	store.PutAuction(activeAuction("boom", passTime.Add(-2*time.Minute), nil, ""))
	store.PutAuction(activeAuction("fine", passTime.Add(-time.Minute), nil, ""))
	store.CommitHook = func(auctionID string, _ domain.AuctionStatus, _ *domain.Order) error {
		if auctionID == "boom" {
			panic("driver bug")
		}
		return nil
	}

	result, err := newEngine(store, nil).RunSettlementPass(context.Background(), passTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Ended != 1 || len(result.Errors) != 1 || result.Errors[0].AuctionID != "boom" {
		t.Fatalf("unexpected result %+v", result)
	}
	mustStatus(t, store, "fine", domain.AuctionEnded)
}

func TestSettlementPassQueryFailure(t *testing.T) {
	store := memory.NewAuctionStore()
	store.PutAuction(activeAuction("a1", passTime.Add(-time.Minute), nil, ""))
	store.FindHook = func(time.Time) error { return errors.New("connection refused") }

	result, err := newEngine(store, nil).RunSettlementPass(context.Background(), passTime)
	if err == nil || result != nil {
		t.Fatalf("expected pass-level failure, got %+v %v", result, err)
	}
	mustStatus(t, store, "a1", domain.AuctionActive)
}

func TestSettlementPassStopsBetweenAuctionsOnCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := mocks.NewMockUserNotifier(ctrl)

	store := memory.NewAuctionStore()
	store.PutAuction(activeAuction("first", passTime.Add(-2*time.Minute), strPtr("u1"), "150"))
	store.PutAuction(activeAuction("second", passTime.Add(-time.Minute), strPtr("u2"), "150"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notifier.EXPECT().NotifyUser(gomock.Any(), "u1", gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, string, any) error {
			cancel()
			return nil
		}).Times(1)

	result, err := newEngine(store, notifier).RunSettlementPass(ctx, passTime)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation error, got %v", err)
	}
	if result == nil || result.Sold != 1 || result.Processed != 1 {
		t.Fatalf("expected partial result, got %+v", result)
	}

	mustStatus(t, store, "first", domain.AuctionSold)
	mustStatus(t, store, "second", domain.AuctionActive)
}

func TestSettlementPassPublishesEventAndCachesState(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockAuctionStateCache(ctrl)
	publisher := mocks.NewMockSettlementEventPublisher(ctrl)

	store := memory.NewAuctionStore()
	store.PutAuction(activeAuction("a1", passTime.Add(-time.Minute), nil, ""))

	cache.EXPECT().SetAuctionStatus(gomock.Any(), "a1", domain.AuctionEnded).Return(errors.New("cache down"))
	publisher.EXPECT().PublishSettlement(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event *domain.SettlementEvent) error {
			if event.Outcome != domain.OutcomeEnded || event.WinnerID != "" || event.OrderID != "" {
				t.Errorf("unexpected event %+v", event)
			}
			return nil
		})

	engine := NewSettlementEngine(store, cache, publisher, nil, DefaultSettlementTimeouts, logger.NewNop())
	result, err := engine.RunSettlementPass(context.Background(), passTime)
	if err != nil || result.Ended != 1 {
		t.Fatalf("unexpected outcome %+v %v", result, err)
	}
}

func TestSettlementPassPanickingNotifierKeepsOutcome(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := mocks.NewMockUserNotifier(ctrl)
	notifier.EXPECT().NotifyUser(gomock.Any(), "u1", domain.AuctionWonEvent, gomock.Any()).
		DoAndReturn(func(context.Context, string, string, any) error {
			panic("transport bug")
		}).Times(1)

	store := memory.NewAuctionStore()
	store.PutAuction(activeAuction("a1", passTime.Add(-time.Minute), strPtr("u1"), "150"))

	result, err := newEngine(store, notifier).RunSettlementPass(context.Background(), passTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Sold != 1 || !result.OK() {
		t.Fatalf("committed auction must count as sold, got %+v", result)
	}
	mustStatus(t, store, "a1", domain.AuctionSold)
	if len(store.Orders()) != 1 {
		t.Fatalf("expected one order, got %d", len(store.Orders()))
	}
}

func TestSettlementPassPanickingPublisherKeepsOutcome(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockSettlementEventPublisher(ctrl)
	publisher.EXPECT().PublishSettlement(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *domain.SettlementEvent) error {
			panic("nil connection")
		})

	store := memory.NewAuctionStore()
	store.PutAuction(activeAuction("a2", passTime.Add(-time.Minute), nil, ""))

	engine := NewSettlementEngine(store, nil, publisher, nil, DefaultSettlementTimeouts, logger.NewNop())
	result, err := engine.RunSettlementPass(context.Background(), passTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Ended != 1 || !result.OK() {
		t.Fatalf("committed auction must count as ended, got %+v", result)
	}
	mustStatus(t, store, "a2", domain.AuctionEnded)
}

func TestSettlementPassSellsZeroPriceAuction(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := mocks.NewMockUserNotifier(ctrl)
	notifier.EXPECT().NotifyUser(gomock.Any(), "u1", domain.AuctionWonEvent, gomock.Any()).Return(nil)

	store := memory.NewAuctionStore()
	free := activeAuction("free", passTime.Add(-time.Minute), strPtr("u1"), "0")
	free.StartPrice = decimal.Zero
	store.PutAuction(free)

	result, err := newEngine(store, notifier).RunSettlementPass(context.Background(), passTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Sold != 1 || !result.OK() {
		t.Fatalf("expected zero-price auction to sell, got %+v", result)
	}
	order, err := store.GetOrderByAuction(context.Background(), "free")
	if err != nil {
		t.Fatalf("expected order: %v", err)
	}
	if !order.TotalAmount.IsZero() {
		t.Errorf("expected zero total, got %s", order.TotalAmount)
	}
}
