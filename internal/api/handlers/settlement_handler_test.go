package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"auction-settlement/internal/domain"
	"auction-settlement/internal/domain/mocks"
	"auction-settlement/internal/infrastructure/memory"
	"auction-settlement/internal/services"
	"auction-settlement/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

type stubJob struct {
	result *domain.PassResult
	err    error
	status services.JobStatus
}

func (s *stubJob) Run(context.Context) (*domain.PassResult, error) { return s.result, s.err }
func (s *stubJob) Status() services.JobStatus                      { return s.status }

func newServer(job settlementRunner, store *memory.AuctionStore) *echo.Echo {
	e := echo.New()
	NewSettlementHandler(job, store, store, logger.NewNop()).RegisterRoutes(e)
	return e
}

func do(e *echo.Echo, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestRunSettlementStatusCodes(t *testing.T) {
	tests := []struct {
		name string
		job  *stubJob
		want int
	}{
		{"completed", &stubJob{result: &domain.PassResult{Processed: 2, Sold: 1, Ended: 1}}, http.StatusOK},
		{"busy", &stubJob{err: services.ErrPassInProgress}, http.StatusConflict},
		{"follower", &stubJob{err: services.ErrNotLeader}, http.StatusServiceUnavailable},
		{"failed", &stubJob{err: errors.New("db down")}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(newServer(tt.job, memory.NewAuctionStore()), http.MethodPost, "/api/v1/settlement/run")
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRunSettlementReturnsSummary(t *testing.T) {
	job := &stubJob{result: &domain.PassResult{
		Processed: 2,
		Sold:      1,
		Errors:    []domain.AuctionError{{AuctionID: "a9", Err: errors.New("deadlock")}},
	}}
	rec := do(newServer(job, memory.NewAuctionStore()), http.MethodPost, "/api/v1/settlement/run")

	var summary services.PassSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if summary.Sold != 1 || summary.Failed != 1 || summary.Errors["a9"] != "deadlock" {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestGetSettlementStatus(t *testing.T) {
	job := &stubJob{status: services.JobStatus{TotalPasses: 4, ConsecutiveFailures: 1, LastError: "timeout"}}
	rec := do(newServer(job, memory.NewAuctionStore()), http.MethodGet, "/api/v1/settlement/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var status services.JobStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.TotalPasses != 4 || status.LastError != "timeout" {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestGetAuctionAndOrderAfterSettlement(t *testing.T) {
	now := time.Now().UTC()
	bidder := "u1"
	store := memory.NewAuctionStore()
	store.PutAuction(&domain.Auction{
		ID:                     "a1",
		ProductID:              "p1",
		ProductName:            "Lamp",
		EndTime:                now.Add(-time.Minute),
		StartPrice:             decimal.NewFromInt(10),
		CurrentHighestBid:      decimal.NewFromInt(25),
		CurrentHighestBidderID: &bidder,
		Status:                 domain.AuctionActive,
	})

	engine := services.NewSettlementEngine(store, nil, nil, nil, services.DefaultSettlementTimeouts, logger.NewNop())
	job := services.NewSettlementJob(engine, nil, "i1", nil, time.Minute, logger.NewNop())
	e := newServer(job, store)

	if rec := do(e, http.MethodPost, "/api/v1/settlement/run"); rec.Code != http.StatusOK {
		t.Fatalf("run: %d %s", rec.Code, rec.Body.String())
	}

	rec := do(e, http.MethodGet, "/api/v1/auctions/a1")
	var auction AuctionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &auction); err != nil {
		t.Fatalf("decode auction: %v", err)
	}
	if auction.Status != "sold" || auction.HighestBidderID != "u1" {
		t.Fatalf("unexpected auction %+v", auction)
	}

	rec = do(e, http.MethodGet, "/api/v1/auctions/a1/order")
	if rec.Code != http.StatusOK {
		t.Fatalf("order: %d", rec.Code)
	}
	var order OrderResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &order); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	if order.UserID != "u1" || !order.TotalAmount.Equal(decimal.NewFromInt(25)) || len(order.Items) != 1 {
		t.Fatalf("unexpected order %+v", order)
	}
	if order.Status != "pending" || order.PaymentStatus != "unpaid" {
		t.Fatalf("unexpected order state %s/%s", order.Status, order.PaymentStatus)
	}
}

func TestGetAuctionNotFound(t *testing.T) {
	e := newServer(&stubJob{}, memory.NewAuctionStore())

	if rec := do(e, http.MethodGet, "/api/v1/auctions/missing"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for auction, got %d", rec.Code)
	}
	if rec := do(e, http.MethodGet, "/api/v1/auctions/missing/order"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for order, got %d", rec.Code)
	}
}

func TestGetOrderStoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	orders := mocks.NewMockOrderReader(ctrl)
	orders.EXPECT().GetOrderByAuction(gomock.Any(), "a1").Return(nil, errors.New("connection reset"))

	e := echo.New()
	NewSettlementHandler(&stubJob{}, memory.NewAuctionStore(), orders, logger.NewNop()).RegisterRoutes(e)

	if rec := do(e, http.MethodGet, "/api/v1/auctions/a1/order"); rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	rec := do(newServer(&stubJob{}, memory.NewAuctionStore()), http.MethodGet, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
