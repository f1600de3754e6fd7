// Package events announces lesson lifecycle events on an AMQP topic exchange.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"learnos/internal/domain"
	"learnos/internal/logger"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// LessonCreatedRoutingKey is the routing key of the lesson.created event.
const LessonCreatedRoutingKey = "lesson.created"

// LessonCreatedPayload is the body of a lesson.created event.
type LessonCreatedPayload struct {
	ID            string    `json:"id"`
	Topic         string    `json:"topic"`
	KeyConcepts   int       `json:"keyConcepts"`
	Analogies     int       `json:"analogies"`
	QuizQuestions int       `json:"quizQuestions"`
	CreatedAt     time.Time `json:"createdAt"`
}

type envelope struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// publishChannel is the subset of *amqp.Channel the publisher needs.
type publishChannel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPLessonPublisher implements domain.LessonEventPublisher.
type AMQPLessonPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  publishChannel
	exchange string
}

// NewAMQPLessonPublisher dials url and declares a durable topic exchange.
func NewAMQPLessonPublisher(url, exchange string) (*AMQPLessonPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to AMQP broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open AMQP channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %q: %w", exchange, err)
	}
	logger.Get().Info("Connected lesson event publisher", zap.String("exchange", exchange))
	return &AMQPLessonPublisher{conn: conn, channel: ch, exchange: exchange}, nil
}

func newPublisherWithChannel(ch publishChannel, exchange string) *AMQPLessonPublisher {
	return &AMQPLessonPublisher{channel: ch, exchange: exchange}
}

// PublishLessonCreated implements domain.LessonEventPublisher
func (p *AMQPLessonPublisher) PublishLessonCreated(ctx context.Context, lesson *domain.Lesson) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(envelope{Type: LessonCreatedRoutingKey, Payload: NewLessonCreatedPayload(lesson)})
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", LessonCreatedRoutingKey, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.channel.Publish(
		p.exchange,
		LessonCreatedRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    lesson.ID,
			Timestamp:    lesson.CreatedAt,
			Type:         LessonCreatedRoutingKey,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", LessonCreatedRoutingKey, err)
	}
	return nil
}

// Close releases the channel and connection.
func (p *AMQPLessonPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// NewLessonCreatedPayload summarizes lesson for subscribers.
func NewLessonCreatedPayload(lesson *domain.Lesson) LessonCreatedPayload {
	return LessonCreatedPayload{
		ID:            lesson.ID,
		Topic:         lesson.TopicKey,
		KeyConcepts:   len(lesson.KeyConcepts),
		Analogies:     len(lesson.Analogies),
		QuizQuestions: len(lesson.Quiz),
		CreatedAt:     lesson.CreatedAt,
	}
}
