package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// Exchange carrying all collaboration lifecycle events (durable topic).
const Exchange = "collab_events"

// Routing keys published by this service.
const (
	RouteCollabCreated    = "collab.created"
	RouteCollabShipped    = "collab.shipped"
	RouteCollabDelivered  = "collab.delivered"
	RouteContentSubmitted = "collab.content_submitted"
	RouteCollabCompleted  = "collab.completed"
	RouteDeadlineReminder = "collab.deadline_reminder"
	RouteAchievementGrant = "creator.achievement_granted"
)

// CollabEvent is the payload for every lifecycle routing key.
type CollabEvent struct {
	CollaborationID string     `json:"collaboration_id"`
	CreatorID       string     `json:"creator_id"`
	Status          string     `json:"status"`
	Deadline        *time.Time `json:"deadline,omitempty"`
	PointsEarned    *int64     `json:"points_earned,omitempty"`
	Timestamp       time.Time  `json:"timestamp"`
}

// AchievementEvent is the payload for creator.achievement_granted.
type AchievementEvent struct {
	CreatorID       string    `json:"creator_id"`
	AchievementCode string    `json:"achievement_code"`
	Timestamp       time.Time `json:"timestamp"`
}

// Publisher is implemented by the AMQP producer and the no-op fallback.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body interface{}) error
	Close()
}

// Producer publishes JSON events to the collab_events exchange.
type Producer struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

// NewProducer dials the broker with a bounded timeout and declares the exchange.
func NewProducer(amqpURL string) (*Producer, error) {
	conn, err := amqp091.DialConfig(amqpURL, amqp091.Config{Dial: amqp091.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &Producer{conn: conn, channel: ch}, nil
}

// Publish sends one JSON message. On channel failure it reopens the channel
// and retries once.
func (p *Producer) Publish(ctx context.Context, routingKey string, body interface{}) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return err
	}

	msg := amqp091.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now(),
		Body:        jsonBody,
	}

	err = p.channel.PublishWithContext(ctx, Exchange, routingKey, false, false, msg)
	if err == nil {
		return nil
	}

	log.Printf("⚠️ Event publish failed for %s, reopening channel: %v", routingKey, err)
	ch, chErr := p.conn.Channel()
	if chErr != nil {
		return err
	}
	p.channel = ch
	if exErr := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); exErr != nil {
		return exErr
	}
	return ch.PublishWithContext(ctx, Exchange, routingKey, false, false, msg)
}

// Close gracefully closes the channel and connection.
func (p *Producer) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

// NoopPublisher is used when the broker is unreachable at startup so the
// service can still run; events are logged and dropped.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, routingKey string, body interface{}) error {
	log.Printf("⚠️ Event broker unavailable — dropped %s", routingKey)
	return nil
}

func (NoopPublisher) Close() {}
