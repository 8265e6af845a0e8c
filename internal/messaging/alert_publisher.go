// Package messaging publishes ghost-debit alerts to the operator reversal
// workflow over RabbitMQ.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Ruwbdy/Operation-portal-sub000/internal/config"
	"github.com/Ruwbdy/Operation-portal-sub000/internal/models"
)

// GhostDebitAlert is the message published for each detected ghost debit:
// a subscription attempt the network rejected after debiting the main
// balance. The reversal workflow consumes these.
type GhostDebitAlert struct {
	CorrelationID string `json:"correlationId"`
	MSISDN        string `json:"msisdn"`
	OfferID       string `json:"offerId"`
	DebitAmount   string `json:"debitAmount"`
	FailureReason string `json:"failureReason"`
	Timestamp     string `json:"timestamp"`
	RawTimestamp  int64  `json:"rawTimestamp"`
}

// RabbitMQAlertPublisher publishes ghost-debit alerts to a topic exchange
type RabbitMQAlertPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	config  config.RabbitMQConfig
}

// NewRabbitMQAlertPublisher connects to RabbitMQ and declares the alert
// exchange.
func NewRabbitMQAlertPublisher(cfg config.RabbitMQConfig) (*RabbitMQAlertPublisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	// Declare exchange (topic exchange for routing)
	err = channel.ExchangeDeclare(
		cfg.Exchange, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	log.Printf("RabbitMQ alert publisher initialized: exchange=%s, routing_key=%s",
		cfg.Exchange, cfg.RoutingKey)

	return &RabbitMQAlertPublisher{
		conn:    conn,
		channel: channel,
		config:  cfg,
	}, nil
}

// PublishGhostDebit publishes one ghost-debit alert.
func (p *RabbitMQAlertPublisher) PublishGhostDebit(ctx context.Context, msisdn string, trace *models.FulfilmentTrace) error {
	alert := GhostDebitAlert{
		CorrelationID: trace.CorrelationID,
		MSISDN:        msisdn,
		OfferID:       trace.OfferID,
		DebitAmount:   trace.CCNDebitAmount,
		FailureReason: trace.CISFailureReason,
		Timestamp:     trace.Timestamp,
		RawTimestamp:  trace.RawTimestamp,
	}

	body, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}

	err = p.channel.PublishWithContext(ctx,
		p.config.Exchange,   // exchange
		p.config.RoutingKey, // routing key
		false,               // mandatory
		false,               // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish alert for %s: %w", trace.CorrelationID, err)
	}

	log.Printf("published ghost-debit alert: correlation_id=%s, msisdn=%s, amount=%s",
		trace.CorrelationID, msisdn, trace.CCNDebitAmount)

	return nil
}

// Close closes the RabbitMQ connection and channel
func (p *RabbitMQAlertPublisher) Close() error {
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			log.Printf("Error closing channel: %v", err)
		}
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
