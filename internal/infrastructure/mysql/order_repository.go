package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"auction-settlement/internal/domain"
)

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

// GetOrderByAuction returns the order a settlement created for the auction,
// with its line items.
func (r *MySQLOrderRepository) GetOrderByAuction(ctx context.Context, auctionID string) (*domain.Order, error) {
	query := `
        SELECT id, auction_id, user_id, placed_at, status, payment_status, total_amount, sub_total
        FROM orders WHERE auction_id = ?
    `

	var order domain.Order
	var status, paymentStatus string

	err := r.db.QueryRowContext(ctx, query, auctionID).Scan(
		&order.ID, &order.AuctionID, &order.UserID, &order.PlacedAt,
		&status, &paymentStatus, &order.TotalAmount, &order.SubTotal)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	order.Status = domain.OrderStatus(status)
	order.PaymentStatus = domain.PaymentStatus(paymentStatus)

	rows, err := r.db.QueryContext(ctx, `
        SELECT id, order_id, product_id, quantity, unit_price
        FROM order_items WHERE order_id = ?
    `, order.ID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &order, nil
}
