package domain

import "errors"

var (
	ErrAuctionNotFound = errors.New("auction not found")
	ErrOrderNotFound   = errors.New("order not found")
	// ErrAuctionNotActive is returned by a settlement commit whose auction
	// was already moved out of Active by another writer.
	ErrAuctionNotActive   = errors.New("auction is not active")
	ErrInvariantViolation = errors.New("settlement invariant violated")
)
