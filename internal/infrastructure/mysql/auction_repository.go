package mysql

import (
	"auction-settlement/internal/domain"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

type MySQLAuctionRepository struct {
	db *sql.DB
}

func NewMySQLAuctionRepository(db *sql.DB) *MySQLAuctionRepository {
	return &MySQLAuctionRepository{db: db}
}

const auctionColumns = `id, product_id, product_name, start_time, end_time, start_price,
        reserve_price, current_highest_bid, current_highest_bidder_id, status, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAuction(row rowScanner) (*domain.Auction, error) {
	var auction domain.Auction
	var bidder sql.NullString
	var status int

	err := row.Scan(&auction.ID, &auction.ProductID, &auction.ProductName,
		&auction.StartTime, &auction.EndTime, &auction.StartPrice,
		&auction.ReservePrice, &auction.CurrentHighestBid, &bidder,
		&status, &auction.CreatedAt, &auction.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if bidder.Valid {
		auction.CurrentHighestBidderID = &bidder.String
	}
	auction.Status = domain.AuctionStatus(status)
	return &auction, nil
}

func (r *MySQLAuctionRepository) GetAuction(ctx context.Context, auctionID string) (*domain.Auction, error) {
	query := `SELECT ` + auctionColumns + ` FROM auctions WHERE id = ?`

	auction, err := scanAuction(r.db.QueryRowContext(ctx, query, auctionID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAuctionNotFound
	}
	if err != nil {
		return nil, err
	}
	return auction, nil
}

// FindExpiredActive selects every auction that is still Active with an end
// time at or before now, however long ago it expired.
func (r *MySQLAuctionRepository) FindExpiredActive(ctx context.Context, now time.Time) ([]*domain.Auction, error) {
	query := `SELECT ` + auctionColumns + `
        FROM auctions WHERE status = ? AND end_time <= ?`

	rows, err := r.db.QueryContext(ctx, query, int(domain.AuctionActive), now)
	if err != nil {
		return nil, fmt.Errorf("query expired auctions: %w", err)
	}
	defer rows.Close()

	var auctions []*domain.Auction
	for rows.Next() {
		auction, err := scanAuction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan auction: %w", err)
		}
		auctions = append(auctions, auction)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expired auctions: %w", err)
	}

	return auctions, nil
}

// CommitSettlement locks the auction row, moves it out of Active and inserts
// the order and its items in one transaction.
func (r *MySQLAuctionRepository) CommitSettlement(ctx context.Context, auctionID string, newStatus domain.AuctionStatus, order *domain.Order) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin settlement tx: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var status int
	err = tx.QueryRowContext(ctx, `SELECT status FROM auctions WHERE id = ? FOR UPDATE`, auctionID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrAuctionNotFound
	}
	if err != nil {
		return fmt.Errorf("lock auction: %w", err)
	}
	if domain.AuctionStatus(status) != domain.AuctionActive {
		return domain.ErrAuctionNotActive
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE auctions SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		int(newStatus), time.Now().UTC(), auctionID, int(domain.AuctionActive))
	if err != nil {
		return fmt.Errorf("update auction status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update auction status: %w", err)
	}
	if affected != 1 {
		return domain.ErrAuctionNotActive
	}

	if order != nil {
		if err = insertOrder(ctx, tx, order); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit settlement: %w", err)
	}
	return nil
}

func insertOrder(ctx context.Context, tx *sql.Tx, order *domain.Order) error {
	query := `
        INSERT INTO orders (id, auction_id, user_id, placed_at, status, payment_status, total_amount, sub_total)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err := tx.ExecContext(ctx, query,
		order.ID, order.AuctionID, order.UserID, order.PlacedAt,
		string(order.Status), string(order.PaymentStatus),
		order.TotalAmount, order.SubTotal)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range order.Items {
		_, err := tx.ExecContext(ctx, `
        INSERT INTO order_items (id, order_id, product_id, quantity, unit_price)
        VALUES (?, ?, ?, ?, ?)
    `, item.ID, order.ID, item.ProductID, item.Quantity, item.UnitPrice)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}
