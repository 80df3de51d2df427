package mysql

import (
	"context"
	"database/sql"
	"fmt"
)

// The status column stores domain.AuctionStatus as an int.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS auctions (
		id VARCHAR(64) PRIMARY KEY,
		product_id VARCHAR(64) NOT NULL,
		product_name VARCHAR(255) NOT NULL,
		start_time DATETIME(6) NOT NULL,
		end_time DATETIME(6) NOT NULL,
		start_price DECIMAL(12, 2) NOT NULL,
		reserve_price DECIMAL(12, 2) NOT NULL DEFAULT 0,
		current_highest_bid DECIMAL(12, 2) NOT NULL DEFAULT 0,
		current_highest_bidder_id VARCHAR(64) NULL,
		status TINYINT NOT NULL,
		created_at DATETIME(6) NOT NULL,
		updated_at DATETIME(6) NOT NULL,
		INDEX idx_auctions_status_end_time (status, end_time)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id VARCHAR(64) PRIMARY KEY,
		auction_id VARCHAR(64) NOT NULL,
		user_id VARCHAR(64) NOT NULL,
		placed_at DATETIME(6) NOT NULL,
		status VARCHAR(32) NOT NULL,
		payment_status VARCHAR(32) NOT NULL,
		total_amount DECIMAL(12, 2) NOT NULL,
		sub_total DECIMAL(12, 2) NOT NULL,
		UNIQUE KEY uq_orders_auction_id (auction_id),
		INDEX idx_orders_user_id (user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id VARCHAR(64) PRIMARY KEY,
		order_id VARCHAR(64) NOT NULL,
		product_id VARCHAR(64) NOT NULL,
		quantity INT NOT NULL,
		unit_price DECIMAL(12, 2) NOT NULL,
		FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
	)`,
}

// InitSchema creates the settlement tables when they do not exist yet.
func InitSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}
