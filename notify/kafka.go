package notify

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"localmart/models"
)

// ShopDecisionEvent is the message published for each shop decision, keyed
// by shop id so decisions for one shop stay ordered.
type ShopDecisionEvent struct {
	ShopID    string    `json:"shop_id"`
	ShopName  string    `json:"shop_name"`
	OwnerID   string    `json:"owner_id"`
	Decision  string    `json:"decision"`
	Reason    string    `json:"reason,omitempty"`
	DecidedAt time.Time `json:"decided_at"`
}

// EventPublisher publishes shop-decision events to kafka. With no brokers
// configured it is disabled and every Notify is a successful no-op, so a
// deployment without kafka loses nothing but the event stream.
type EventPublisher struct {
	writer *kafka.Writer
}

// NewEventPublisher builds a publisher from a comma-separated broker list.
func NewEventPublisher(brokersCSV, topic string) *EventPublisher {
	var brokers []string
	for _, b := range strings.Split(brokersCSV, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		return &EventPublisher{}
	}
	return &EventPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

// Enabled reports whether a broker is configured.
func (p *EventPublisher) Enabled() bool {
	return p.writer != nil
}

func (p *EventPublisher) Notify(ctx context.Context, kind Kind, shop *models.Shop, owner *models.User, reason string) Result {
	if !p.Enabled() {
		return Result{Success: true}
	}

	event := ShopDecisionEvent{
		ShopID:    shop.ID.Hex(),
		ShopName:  shop.Name,
		OwnerID:   owner.ID.Hex(),
		Decision:  string(kind),
		Reason:    reason,
		DecidedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		return Result{Success: false, Err: err}
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.ShopID),
		Value: data,
		Time:  event.DecidedAt,
	})
	if err != nil {
		return Result{Success: false, Err: err}
	}
	return Result{Success: true}
}

// Close flushes and closes the underlying writer.
func (p *EventPublisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
