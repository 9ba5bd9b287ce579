// internal/registry/registry.go
package registry

import (
	"strings"
	"sync"

	"pharmopera/internal/metrics"
)

// Signal is a subscriber's notification channel. The signal carries no
// payload; receivers re-query their own snapshot.
type Signal chan struct{}

// NewSignal returns a subscriber channel with the one-slot buffer the
// non-blocking fan-out relies on.
func NewSignal() Signal {
	return make(Signal, 1)
}

// Registry maps tenant identity to its set of live subscriber channels.
// A tenant whose last subscriber leaves is pruned; lookups for absent
// tenants are no-ops, not errors.
type Registry struct {
	mu   sync.RWMutex
	subs map[string]map[Signal]struct{}
}

func New() *Registry {
	return &Registry{subs: make(map[string]map[Signal]struct{})}
}

// Subscribe adds a channel under a tenant. Re-subscribing the same channel
// is a no-op.
func (r *Registry) Subscribe(tenant string, ch Signal) {
	tenant = strings.TrimSpace(tenant)

	r.mu.Lock()
	defer r.mu.Unlock()

	set := r.subs[tenant]
	if set == nil {
		set = make(map[Signal]struct{})
		r.subs[tenant] = set
	}
	set[ch] = struct{}{}
	metrics.ActiveSubscribers.WithLabelValues(tenant).Set(float64(len(set)))
}

// Unsubscribe removes a channel; leaving an unknown channel is a no-op.
func (r *Registry) Unsubscribe(tenant string, ch Signal) {
	tenant = strings.TrimSpace(tenant)

	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.subs[tenant]
	if !ok {
		return
	}
	delete(set, ch)
	if len(set) == 0 {
		delete(r.subs, tenant)
	}
	metrics.ActiveSubscribers.WithLabelValues(tenant).Set(float64(len(set)))
}

// SubscribersOf returns the channels currently subscribed under a tenant.
func (r *Registry) SubscribersOf(tenant string) []Signal {
	tenant = strings.TrimSpace(tenant)

	r.mu.RLock()
	defer r.mu.RUnlock()

	set := r.subs[tenant]
	out := make([]Signal, 0, len(set))
	for ch := range set {
		out = append(out, ch)
	}
	return out
}

// Tenants returns the distinct tenant identities with at least one
// subscriber.
func (r *Registry) Tenants() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.subs))
	for tenant := range r.subs {
		out = append(out, tenant)
	}
	return out
}

// Notify signals every subscriber of a tenant without blocking. A tenant
// with zero subscribers is skipped silently. A subscriber whose buffer is
// already full has a signal pending and needs no second one.
func (r *Registry) Notify(tenant string) {
	for _, ch := range r.SubscribersOf(tenant) {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
