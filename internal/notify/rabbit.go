// internal/notify/rabbit.go
package notify

import (
	"fmt"
	"log"

	"github.com/streadway/amqp"
)

// RabbitClient carries refresh signals between the change detector and the
// per-tenant relays over per-tenant queues.
type RabbitClient struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	URL     string
}

func NewRabbitClient(url string) (*RabbitClient, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	return &RabbitClient{
		conn:    conn,
		channel: ch,
		URL:     url,
	}, nil
}

func (r *RabbitClient) GetChannel() *amqp.Channel {
	return r.channel
}

func (r *RabbitClient) GetConnection() *amqp.Connection {
	return r.conn
}

func refreshQueueName(tenant string) string {
	return fmt.Sprintf("dashboard_%s_refresh", tenant)
}

// DeclareRefreshQueue creates a tenant's signal queue. Signals are
// disposable, so the queue is transient and removes itself once the last
// consumer goes away.
func (r *RabbitClient) DeclareRefreshQueue(tenant string) error {
	_, err := r.channel.QueueDeclare(
		refreshQueueName(tenant),
		false, // not durable
		true,  // auto-delete
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare refresh queue: %w", err)
	}
	return nil
}

// PublishRefresh sends a zero-payload refresh signal to a tenant's queue.
func (r *RabbitClient) PublishRefresh(tenant string) error {
	queueName := refreshQueueName(tenant)
	err := r.channel.Publish(
		"",        // default exchange
		queueName, // routing key (queue name)
		false,
		false,
		amqp.Publishing{
			ContentType: "text/plain",
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish to queue %s: %w", queueName, err)
	}
	return nil
}

// Broadcast satisfies the detector's broadcaster contract. A failed publish
// only delays the subscriber's next repaint, so it is logged and dropped.
func (r *RabbitClient) Broadcast(tenant string) {
	if err := r.PublishRefresh(tenant); err != nil {
		log.Printf("[Rabbit] Refresh signal for tenant %s lost: %v", tenant, err)
	}
}

// Close cleans up connection and channel
func (r *RabbitClient) Close() error {
	if err := r.channel.Close(); err != nil {
		return err
	}
	if err := r.conn.Close(); err != nil {
		return err
	}
	return nil
}
