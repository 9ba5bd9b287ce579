// internal/notify/relay.go
package notify

import (
	"log"
	"strings"
	"sync"

	"github.com/streadway/amqp"

	"pharmopera/internal/registry"
)

// Relay bridges the broker's refresh queues into the in-process
// subscription registry. A tenant's queue consumer starts with the tenant's
// first local subscriber and stops when the last one leaves.
type Relay struct {
	rabbitConn *amqp.Connection
	rabbit     *RabbitClient
	registry   *registry.Registry

	mu        sync.Mutex
	consumers map[string]*Consumer
	counts    map[string]int
}

func NewRelay(rabbit *RabbitClient, reg *registry.Registry) *Relay {
	return &Relay{
		rabbitConn: rabbit.GetConnection(),
		rabbit:     rabbit,
		registry:   reg,
		consumers:  make(map[string]*Consumer),
		counts:     make(map[string]int),
	}
}

// Registry exposes the underlying subscription registry.
func (rl *Relay) Registry() *registry.Registry {
	return rl.registry
}

// Subscribe registers a local channel under a tenant and makes sure the
// tenant's refresh queue is declared and consumed.
func (rl *Relay) Subscribe(tenant string, ch registry.Signal) error {
	tenant = strings.TrimSpace(tenant)
	rl.registry.Subscribe(tenant, ch)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if _, running := rl.consumers[tenant]; !running {
		if err := rl.rabbit.DeclareRefreshQueue(tenant); err != nil {
			rl.registry.Unsubscribe(tenant, ch)
			return err
		}
		c, err := StartConsumer(rl.rabbitConn, tenant, rl.registry.Notify)
		if err != nil {
			rl.registry.Unsubscribe(tenant, ch)
			return err
		}
		rl.consumers[tenant] = c
	}
	rl.counts[tenant]++
	return nil
}

// Unsubscribe removes a local channel; the tenant's consumer is torn down
// with its last subscriber. Unknown channels and tenants are no-ops.
func (rl *Relay) Unsubscribe(tenant string, ch registry.Signal) {
	tenant = strings.TrimSpace(tenant)
	rl.registry.Unsubscribe(tenant, ch)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.counts[tenant] == 0 {
		return
	}
	rl.counts[tenant]--
	if rl.counts[tenant] > 0 {
		return
	}
	delete(rl.counts, tenant)

	if c, ok := rl.consumers[tenant]; ok {
		c.Stop()
		delete(rl.consumers, tenant)
	}
}

// ShutdownAll stops every running consumer.
func (rl *Relay) ShutdownAll() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for tenant, c := range rl.consumers {
		c.Stop()
		log.Printf("[Notify] Shut down relay for tenant %s", tenant)
	}
	rl.consumers = make(map[string]*Consumer)
	rl.counts = make(map[string]int)
}
