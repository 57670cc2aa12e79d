package cart

import (
	"sync"
	"time"

	"github.com/rogerio-castellano/storefront/internal/repo"
	"go.uber.org/zap"
)

// Registry hands out one Store per shopper session.
type Registry struct {
	slot   repo.CartSlotRepository
	logger *zap.Logger

	mu        sync.Mutex
	stores    map[string]*sessionStore
	observers []func(Snapshot)
}

type sessionStore struct {
	store    *Store
	lastSeen time.Time
}

func NewRegistry(slot repo.CartSlotRepository, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		slot:   slot,
		logger: logger,
		stores: map[string]*sessionStore{},
	}
}

// SessionKey is the slot key of a session's cart.
func SessionKey(session string) string {
	return KeyPrefix + ":" + session
}

// OnChange subscribes fn to every store, current and future.
func (r *Registry) OnChange(fn func(Snapshot)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.observers = append(r.observers, fn)
	for _, ss := range r.stores {
		ss.store.Subscribe(fn)
	}
}

// Store returns the cart of session, creating it on first use.
func (r *Registry) Store(session string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ss, ok := r.stores[session]; ok {
		ss.lastSeen = time.Now()
		return ss.store
	}

	s := NewStore(SessionKey(session), r.slot, r.logger)
	for _, fn := range r.observers {
		s.Subscribe(fn)
	}
	r.stores[session] = &sessionStore{store: s, lastSeen: time.Now()}
	return s
}

// Sweep forgets stores that were neither handed out nor used for longer
// than idle. Their carts stay in the slot and are reloaded on the next
// access.
func (r *Registry) Sweep(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for session, ss := range r.stores {
		last := ss.lastSeen
		if used := ss.store.LastUsed(); used.After(last) {
			last = used
		}
		if time.Since(last) > idle {
			delete(r.stores, session)
			removed++
		}
	}
	return removed
}

func (r *Registry) StartSweepLoop(every, idle time.Duration) {
	for {
		time.Sleep(every)
		if n := r.Sweep(idle); n > 0 {
			r.logger.Debug("swept idle carts", zap.Int("count", n))
		}
	}
}
