package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rogerio-castellano/storefront/internal/cart"
	"github.com/rogerio-castellano/storefront/internal/models"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const EventCartUpdated = "CART_UPDATED"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// CartUpdated is the payload published after every cart mutation.
type CartUpdated struct {
	Session  string            `json:"session"`
	Items    []models.CartItem `json:"items"`
	Count    int               `json:"count"`
	Subtotal float64           `json:"subtotal"`
	At       time.Time         `json:"at"`
}

// CartPublisher forwards cart snapshots to Kafka. Publish never blocks the
// cart: snapshots are queued and written by Run.
type CartPublisher struct {
	writer  messageWriter
	queue   chan cart.Snapshot
	timeout time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

func NewCartPublisher(topic string, logger *zap.Logger, brokers ...string) *CartPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
	return newCartPublisher(w, logger)
}

func newCartPublisher(w messageWriter, logger *zap.Logger) *CartPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartPublisher{
		writer:  w,
		queue:   make(chan cart.Snapshot, 256),
		timeout: 5 * time.Second,
		logger:  logger.Named("events.cart"),
		now:     time.Now,
	}
}

// Publish queues snap. When the queue is full the event is dropped.
func (p *CartPublisher) Publish(snap cart.Snapshot) {
	select {
	case p.queue <- snap:
	default:
		p.logger.Warn("cart event queue full, dropping event", zap.String("key", snap.Key))
	}
}

// Run writes queued events until ctx is done, then flushes what is still
// queued within one write timeout.
func (p *CartPublisher) Run(ctx context.Context) {
	for {
		select {
		case snap := <-p.queue:
			if ctx.Err() != nil {
				p.drain(snap)
				return
			}
			p.publish(ctx, snap)
		case <-ctx.Done():
			p.drain()
			return
		}
	}
}

func (p *CartPublisher) drain(pending ...cart.Snapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	for _, snap := range pending {
		p.publish(ctx, snap)
	}
	for {
		select {
		case snap := <-p.queue:
			if ctx.Err() != nil {
				p.logger.Warn("shutdown flush timed out, dropping cart events", zap.Int("dropped", len(p.queue)+1))
				return
			}
			p.publish(ctx, snap)
		default:
			return
		}
	}
}

func (p *CartPublisher) publish(ctx context.Context, snap cart.Snapshot) {
	if err := p.write(ctx, snap); err != nil {
		p.logger.Warn("publish cart event failed", zap.String("key", snap.Key), zap.Error(err))
	}
}

func (p *CartPublisher) Close() {
	if err := p.writer.Close(); err != nil {
		p.logger.Warn("close kafka writer failed", zap.Error(err))
	}
}

func (p *CartPublisher) write(ctx context.Context, snap cart.Snapshot) error {
	session := strings.TrimPrefix(snap.Key, cart.KeyPrefix+":")
	value, err := json.Marshal(CartUpdated{
		Session:  session,
		Items:    snap.Items,
		Count:    snap.Count,
		Subtotal: snap.Subtotal,
		At:       p.now().UTC(),
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(session), // keeps one session's events ordered
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventCartUpdated)},
		},
	})
}
