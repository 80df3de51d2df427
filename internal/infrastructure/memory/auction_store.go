package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"auction-settlement/internal/domain"
)

// AuctionStore keeps auctions and settlement orders in process memory. A
// single mutex covers both maps, so a commit is all-or-nothing.
type AuctionStore struct {
	mu       sync.RWMutex
	auctions map[string]*domain.Auction
	orders   map[string]*domain.Order // auctionID -> order

	// CommitHook, when set, runs inside the commit before anything is
	// written. A non-nil error aborts the commit.
	CommitHook func(auctionID string, newStatus domain.AuctionStatus, order *domain.Order) error
	// FindHook, when set, can fail the expiry query.
	FindHook func(now time.Time) error
}

func NewAuctionStore() *AuctionStore {
	return &AuctionStore{
		auctions: make(map[string]*domain.Auction),
		orders:   make(map[string]*domain.Order),
	}
}

// PutAuction inserts or replaces an auction.
func (s *AuctionStore) PutAuction(auction *domain.Auction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auctions[auction.ID] = cloneAuction(auction)
}

func (s *AuctionStore) FindExpiredActive(ctx context.Context, now time.Time) ([]*domain.Auction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.FindHook != nil {
		if err := s.FindHook(now); err != nil {
			return nil, err
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var auctions []*domain.Auction
	for _, a := range s.auctions {
		if a.Status == domain.AuctionActive && !a.EndTime.After(now) {
			auctions = append(auctions, cloneAuction(a))
		}
	}
	sort.Slice(auctions, func(i, j int) bool {
		return auctions[i].EndTime.Before(auctions[j].EndTime)
	})
	return auctions, nil
}

func (s *AuctionStore) CommitSettlement(ctx context.Context, auctionID string, newStatus domain.AuctionStatus, order *domain.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	auction, ok := s.auctions[auctionID]
	if !ok {
		return domain.ErrAuctionNotFound
	}
	if auction.Status != domain.AuctionActive {
		return domain.ErrAuctionNotActive
	}
	if order != nil {
		if _, exists := s.orders[auctionID]; exists {
			return fmt.Errorf("order for auction %s already exists", auctionID)
		}
	}
	if s.CommitHook != nil {
		if err := s.CommitHook(auctionID, newStatus, order); err != nil {
			return err
		}
	}

	auction.Status = newStatus
	auction.UpdatedAt = time.Now().UTC()
	if order != nil {
		s.orders[auctionID] = cloneOrder(order)
	}
	return nil
}

func (s *AuctionStore) GetAuction(ctx context.Context, auctionID string) (*domain.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	auction, ok := s.auctions[auctionID]
	if !ok {
		return nil, domain.ErrAuctionNotFound
	}
	return cloneAuction(auction), nil
}

func (s *AuctionStore) GetOrderByAuction(ctx context.Context, auctionID string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[auctionID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

// Orders returns every stored order.
func (s *AuctionStore) Orders() []*domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make([]*domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		orders = append(orders, cloneOrder(o))
	}
	return orders
}

func cloneAuction(a *domain.Auction) *domain.Auction {
	c := *a
	if a.CurrentHighestBidderID != nil {
		bidder := *a.CurrentHighestBidderID
		c.CurrentHighestBidderID = &bidder
	}
	return &c
}

func cloneOrder(o *domain.Order) *domain.Order {
	c := *o
	c.Items = append([]domain.OrderItem(nil), o.Items...)
	return &c
}
