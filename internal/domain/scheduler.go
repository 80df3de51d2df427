package domain

import (
	"context"
	"time"
)

// Scheduler interface
type SettlementScheduler interface {
	Start(ctx context.Context) error
	Stop() error
}

// AuctionError records why a single auction could not be settled in a pass.
// The auction stays Active and is picked up again by the next pass.
type AuctionError struct {
	AuctionID string
	Err       error
}

func (e AuctionError) Error() string {
	return e.AuctionID + ": " + e.Err.Error()
}

func (e AuctionError) Unwrap() error {
	return e.Err
}

type PassResult struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Processed  int
	Sold       int
	Ended      int
	Skipped    int // settled by another writer between selection and commit
	Errors     []AuctionError
}

func (r *PassResult) OK() bool {
	return len(r.Errors) == 0
}
