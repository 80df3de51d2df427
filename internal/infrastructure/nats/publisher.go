package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"auction-settlement/internal/domain"

	"github.com/nats-io/nats.go"
)

const DefaultSubjectPrefix = "auction.settled"

// Conn is the subset of *nats.Conn the publisher needs.
type Conn interface {
	Publish(subj string, data []byte) error
}

// SettlementPublisher publishes settlement outcomes as JSON on
// "<prefix>.<auctionID>" so consumers can subscribe with "<prefix>.*".
type SettlementPublisher struct {
	conn   Conn
	prefix string
}

func NewSettlementPublisher(conn Conn, prefix string) *SettlementPublisher {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &SettlementPublisher{conn: conn, prefix: prefix}
}

// Connect dials the NATS server used for settlement events.
func Connect(url, name string) (*nats.Conn, error) {
	conn, err := nats.Connect(url, nats.Name(name), nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return conn, nil
}

// Subject maps an auction ID to exactly one subject token. Token separators,
// wildcards, whitespace and control characters become '_'.
func (p *SettlementPublisher) Subject(auctionID string) string {
	return p.prefix + "." + subjectToken(auctionID)
}

func subjectToken(id string) string {
	if id == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		if r == '.' || r == '*' || r == '>' || unicode.IsSpace(r) || unicode.IsControl(r) {
			return '_'
		}
		return r
	}, id)
}

func (p *SettlementPublisher) PublishSettlement(ctx context.Context, event *domain.SettlementEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal settlement event: %w", err)
	}

	if err := p.conn.Publish(p.Subject(event.AuctionID), data); err != nil {
		return fmt.Errorf("failed to publish settlement event: %w", err)
	}
	return nil
}
