package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	TypeOrderCreated              = "order.created"
	TypePaymentVerified           = "payment.verified"
	TypePaymentVerificationFailed = "payment.verification_failed"
)

// Event is a notification about something the relay did. It never carries
// a signature or any credential.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OrderID    string    `json:"order_id"`
	PaymentID  string    `json:"payment_id,omitempty"`
	Amount     int64     `json:"amount,omitempty"`
	Currency   string    `json:"currency,omitempty"`
	Receipt    string    `json:"receipt,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// Nop drops every event. Used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

// NewSyncProducer dials the brokers with acks from all replicas.
func NewSyncProducer(brokers []string, clientID string) (sarama.SyncProducer, error) {
	config := sarama.NewConfig()
	config.ClientID = clientID
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	return sarama.NewSyncProducer(brokers, config)
}

// ErrQueueFull is returned when the send queue has no room; the event is
// dropped rather than blocking the caller.
var ErrQueueFull = errors.New("events: publish queue full")

var ErrClosed = errors.New("events: publisher closed")

const DefaultQueueSize = 256

// KafkaPublisher hands events to a single background goroutine that owns
// the sync producer, so a slow or unreachable broker never holds up the
// caller.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	now      func() time.Time
	log      zerolog.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan *sarama.ProducerMessage
	done   chan struct{}
}

func NewKafkaPublisher(producer sarama.SyncProducer, topic string, queueSize int, log zerolog.Logger) *KafkaPublisher {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	p := &KafkaPublisher{
		producer: producer,
		topic:    topic,
		now:      time.Now,
		log:      log.With().Str("component", "events").Str("topic", topic).Logger(),
		queue:    make(chan *sarama.ProducerMessage, queueSize),
		done:     make(chan struct{}),
	}
	go p.run()
	return p
}

// Publish enqueues ev keyed by order id so events for one order stay on one
// partition. ID and OccurredAt are filled in when empty. Delivery failures
// are logged by the sender goroutine, not returned here.
func (p *KafkaPublisher) Publish(ctx context.Context, ev Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = p.now().UTC()
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(ev.OrderID),
		Value: sarama.ByteEncoder(b),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-type"), Value: []byte(ev.Type)},
		},
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	select {
	case p.queue <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

func (p *KafkaPublisher) run() {
	defer close(p.done)
	for msg := range p.queue {
		if _, _, err := p.producer.SendMessage(msg); err != nil {
			p.log.Warn().Err(err).Interface("key", msg.Key).Msg("send event failed")
		}
	}
}

// Close stops accepting events, flushes what is queued, then closes the
// producer.
func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	<-p.done
	return p.producer.Close()
}
