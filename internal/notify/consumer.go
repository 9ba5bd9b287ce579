// internal/notify/consumer.go
package notify

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

// RefreshHandlerFunc receives a tenant's refresh signal.
type RefreshHandlerFunc func(tenant string)

// Consumer holds control channels and metadata for one tenant's running
// refresh-queue consumer.
type Consumer struct {
	TenantID    string
	QueueName   string
	Channel     *amqp.Channel
	StopChan    chan struct{}
	DoneChan    chan struct{}
	Handler     RefreshHandlerFunc
	ConsumerTag string
}

// StartConsumer starts a goroutine that drains a tenant's refresh queue and
// invokes the handler once per signal.
func StartConsumer(conn *amqp.Connection, tenant string, handler RefreshHandlerFunc) (*Consumer, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("tenant %s: failed to open channel: %w", tenant, err)
	}

	queueName := refreshQueueName(tenant)
	consumerTag := fmt.Sprintf("refresh-%s-%s", tenant, uuid.NewString()[:8])

	msgs, err := ch.Consume(
		queueName,
		consumerTag,
		true, // autoAck: a lost signal only delays the next repaint
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("tenant %s: failed to start consuming: %w", tenant, err)
	}

	c := &Consumer{
		TenantID:    tenant,
		QueueName:   queueName,
		Channel:     ch,
		StopChan:    make(chan struct{}),
		DoneChan:    make(chan struct{}),
		Handler:     handler,
		ConsumerTag: consumerTag,
	}

	go c.consumeLoop(msgs)

	log.Printf("[Notify] Started refresh consumer for tenant %s", tenant)
	return c, nil
}

// consumeLoop forwards signals until StopChan is closed.
func (c *Consumer) consumeLoop(msgs <-chan amqp.Delivery) {
	defer close(c.DoneChan)

	for {
		select {
		case _, ok := <-msgs:
			if !ok {
				log.Printf("[Notify] Tenant %s: delivery channel closed", c.TenantID)
				return
			}
			c.Handler(c.TenantID)

		case <-c.StopChan:
			_ = c.Channel.Cancel(c.ConsumerTag, false)
			return
		}
	}
}

// Stop signals the consumer to stop and waits for cleanup.
func (c *Consumer) Stop() {
	close(c.StopChan)
	<-c.DoneChan
	_ = c.Channel.Close()
	log.Printf("[Notify] Stopped refresh consumer for tenant %s", c.TenantID)
}
