package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"auction-settlement/internal/domain"
	"auction-settlement/internal/services"
	"auction-settlement/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type settlementRunner interface {
	Run(ctx context.Context) (*domain.PassResult, error)
	Status() services.JobStatus
}

type auctionReader interface {
	GetAuction(ctx context.Context, auctionID string) (*domain.Auction, error)
}

type SettlementHandler struct {
	job      settlementRunner
	auctions auctionReader
	orders   domain.OrderReader
	log      logger.Logger
}

type AuctionResponse struct {
	AuctionID         string          `json:"auction_id"`
	ProductID         string          `json:"product_id"`
	ProductName       string          `json:"product_name"`
	StartTime         time.Time       `json:"start_time"`
	EndTime           time.Time       `json:"end_time"`
	StartPrice        decimal.Decimal `json:"start_price"`
	CurrentHighestBid decimal.Decimal `json:"current_highest_bid"`
	HighestBidderID   string          `json:"highest_bidder_id,omitempty"`
	Status            string          `json:"status"`
}

type OrderItemResponse struct {
	ItemID    string          `json:"item_id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type OrderResponse struct {
	OrderID       string              `json:"order_id"`
	AuctionID     string              `json:"auction_id"`
	UserID        string              `json:"user_id"`
	PlacedAt      time.Time           `json:"placed_at"`
	Status        string              `json:"status"`
	PaymentStatus string              `json:"payment_status"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	SubTotal      decimal.Decimal     `json:"sub_total"`
	Items         []OrderItemResponse `json:"items"`
}

func NewSettlementHandler(job settlementRunner, auctions auctionReader, orders domain.OrderReader, log logger.Logger) *SettlementHandler {
	return &SettlementHandler{
		job:      job,
		auctions: auctions,
		orders:   orders,
		log:      log,
	}
}

func (h *SettlementHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)

	api := e.Group("/api/v1")
	api.POST("/settlement/run", h.RunSettlement)
	api.GET("/settlement/status", h.GetStatus)
	api.GET("/auctions/:id", h.GetAuction)
	api.GET("/auctions/:id/order", h.GetOrder)
}

// RunSettlement triggers one pass outside the schedule.
func (h *SettlementHandler) RunSettlement(c echo.Context) error {
	h.log.Info("RunSettlement endpoint called", "remote_addr", c.RealIP())

	result, err := h.job.Run(c.Request().Context())
	switch {
	case errors.Is(err, services.ErrPassInProgress):
		return c.JSON(http.StatusConflict, map[string]string{"error": "Settlement pass already running"})
	case errors.Is(err, services.ErrNotLeader):
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "Instance is not the settlement leader"})
	case err != nil:
		h.log.Error("Manual settlement pass failed", "error", err)
		body := map[string]interface{}{"error": "Settlement pass failed"}
		if result != nil {
			body["result"] = services.NewPassSummary(result)
		}
		return c.JSON(http.StatusInternalServerError, body)
	}

	return c.JSON(http.StatusOK, services.NewPassSummary(result))
}

func (h *SettlementHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"service":   "settlement-service",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *SettlementHandler) GetStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, h.job.Status())
}

func (h *SettlementHandler) GetAuction(c echo.Context) error {
	auctionID := c.Param("id")

	auction, err := h.auctions.GetAuction(c.Request().Context(), auctionID)
	if errors.Is(err, domain.ErrAuctionNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Auction not found"})
	}
	if err != nil {
		h.log.Error("Failed to load auction", "auction_id", auctionID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load auction"})
	}

	return c.JSON(http.StatusOK, AuctionResponse{
		AuctionID:         auction.ID,
		ProductID:         auction.ProductID,
		ProductName:       auction.ProductName,
		StartTime:         auction.StartTime,
		EndTime:           auction.EndTime,
		StartPrice:        auction.StartPrice,
		CurrentHighestBid: auction.CurrentHighestBid,
		HighestBidderID:   auction.WinnerID(),
		Status:            auction.Status.String(),
	})
}

func (h *SettlementHandler) GetOrder(c echo.Context) error {
	auctionID := c.Param("id")

	order, err := h.orders.GetOrderByAuction(c.Request().Context(), auctionID)
	if errors.Is(err, domain.ErrOrderNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Order not found"})
	}
	if err != nil {
		h.log.Error("Failed to load order", "auction_id", auctionID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load order"})
	}

	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			ItemID:    item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	return c.JSON(http.StatusOK, OrderResponse{
		OrderID:       order.ID,
		AuctionID:     order.AuctionID,
		UserID:        order.UserID,
		PlacedAt:      order.PlacedAt,
		Status:        string(order.Status),
		PaymentStatus: string(order.PaymentStatus),
		TotalAmount:   order.TotalAmount,
		SubTotal:      order.SubTotal,
		Items:         items,
	})
}
