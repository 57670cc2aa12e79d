// Package cart keeps shopping carts with clamped line quantities in a
// durable key/value slot.
package cart

import (
	"encoding/json"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rogerio-castellano/storefront/internal/models"
	"github.com/rogerio-castellano/storefront/internal/repo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// KeyPrefix versions the persisted payload layout.
const KeyPrefix = "cart:v1"

// ItemStub is the product data copied into a new cart line.
type ItemStub struct {
	ID    string
	Name  string
	Price float64
	Image string
}

type AddResult struct {
	QuantityLimitReached bool `json:"quantityLimitReached"`
}

// Snapshot is an immutable view of a cart after a mutation.
type Snapshot struct {
	Key      string            `json:"key"`
	Items    []models.CartItem `json:"items"`
	Count    int               `json:"count"`
	Subtotal float64           `json:"subtotal"`
}

// Store is the only writer of one cart. Every mutation rewrites the whole
// slot before the new state becomes visible. Slot failures are logged and
// never returned: an unreadable slot yields an empty cart and a failed
// write leaves the cart living in memory only.
type Store struct {
	key    string
	slot   repo.CartSlotRepository
	logger *zap.Logger

	mu        sync.Mutex
	loaded    bool
	items     []models.CartItem
	observers map[int]func(Snapshot)
	nextObsID int

	lastUsed atomic.Int64 // unix nanos of the last read or mutation
}

func NewStore(key string, slot repo.CartSlotRepository, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		key:       key,
		slot:      slot,
		logger:    logger.Named("cart.store").With(zap.String("key", key)),
		observers: map[int]func(Snapshot){},
	}
	s.touch()
	return s
}

func (s *Store) Key() string {
	return s.key
}

// Subscribe registers fn to receive a snapshot after every mutation.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextObsID
	s.nextObsID++
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// AddItem adds qty units of stub. An existing line grows up to MaxQty; a new
// line gets qty clamped into [MinQty, MaxQty], so zero or negative qty still
// adds one unit. QuantityLimitReached reports that units were dropped.
func (s *Store) AddItem(stub ItemStub, qty int) AddResult {
	var res AddResult

	s.mutate(func(items []models.CartItem) []models.CartItem {
		if i := indexOf(items, stub.ID); i >= 0 {
			cur := items[i].Quantity
			// compared before adding so a huge qty cannot wrap around
			if qty > MaxQty-cur {
				res.QuantityLimitReached = true
				items[i].Quantity = MaxQty
			} else {
				items[i].Quantity = clampQty(cur + qty)
			}
			return items
		}

		res.QuantityLimitReached = qty > MaxQty
		return append(items, models.CartItem{
			ID:       stub.ID,
			Name:     stub.Name,
			Price:    stub.Price,
			Image:    stub.Image,
			Quantity: clampQty(qty),
		})
	})

	return res
}

// UpdateQuantity sets the quantity of line id to floor(qty) clamped into
// [MinQty, MaxQty]. Unknown ids are ignored.
func (s *Store) UpdateQuantity(id string, qty float64) {
	q := normalizeQty(qty)
	s.mutateLine(id, func(int) int { return q })
}

func (s *Store) Increment(id string) {
	s.mutateLine(id, func(q int) int { return clampQty(q + 1) })
}

func (s *Store) Decrement(id string) {
	s.mutateLine(id, func(q int) int { return clampQty(q - 1) })
}

func (s *Store) RemoveItem(id string) {
	s.mutate(func(items []models.CartItem) []models.CartItem {
		return slices.DeleteFunc(items, func(it models.CartItem) bool { return it.ID == id })
	})
}

func (s *Store) Clear() {
	s.mutate(func([]models.CartItem) []models.CartItem {
		return []models.CartItem{}
	})
}

// Items returns a copy of the cart lines in insertion order.
func (s *Store) Items() []models.CartItem {
	s.touch()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()
	return slices.Clone(s.items)
}

// Count is the total number of units in the cart.
func (s *Store) Count() int {
	return countOf(s.Items())
}

// Subtotal is the sum of price times quantity over all lines.
func (s *Store) Subtotal() float64 {
	return subtotalOf(s.Items())
}

func (s *Store) Snapshot() Snapshot {
	return s.snapshotOf(s.Items())
}

func (s *Store) mutateLine(id string, fn func(qty int) int) {
	s.mutate(func(items []models.CartItem) []models.CartItem {
		if i := indexOf(items, id); i >= 0 {
			items[i].Quantity = fn(items[i].Quantity)
		}
		return items
	})
}

// mutate applies fn to a private copy of the lines, persists the result and
// publishes it. Mutations that change nothing are dropped. Observers run
// after the lock is released.
func (s *Store) mutate(fn func(items []models.CartItem) []models.CartItem) {
	s.touch()
	s.mu.Lock()
	s.ensureLoaded()

	next := fn(slices.Clone(s.items))
	if next == nil {
		next = []models.CartItem{}
	}
	if slices.Equal(next, s.items) {
		s.mu.Unlock()
		return
	}
	s.persist(next)
	s.items = next

	snap := s.snapshotOf(slices.Clone(next))
	observers := make([]func(Snapshot), 0, len(s.observers))
	for _, obs := range s.observers {
		observers = append(observers, obs)
	}
	s.mu.Unlock()

	for _, notify := range observers {
		notify(snap)
	}
}

func (s *Store) touch() {
	s.lastUsed.Store(time.Now().UnixNano())
}

// LastUsed is the time of the last read or mutation.
func (s *Store) LastUsed() time.Time {
	return time.Unix(0, s.lastUsed.Load())
}

func (s *Store) ensureLoaded() {
	if s.loaded {
		return
	}
	s.loaded = true
	s.items = s.load()
}

func (s *Store) load() []models.CartItem {
	data, err := s.slot.Load(s.key)
	if errors.Is(err, repo.ErrSlotNotFound) {
		return []models.CartItem{}
	}
	if err != nil {
		s.logger.Warn("cart slot unreadable, starting empty", zap.Error(err))
		return []models.CartItem{}
	}

	var items []models.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.Warn("cart payload corrupt, starting empty", zap.Error(err))
		return []models.CartItem{}
	}
	return sanitize(items)
}

func (s *Store) persist(items []models.CartItem) {
	data, err := json.Marshal(items)
	if err != nil {
		s.logger.Error("encode cart failed", zap.Error(err))
		return
	}
	if err := s.slot.Save(s.key, data); err != nil {
		s.logger.Warn("persist cart failed, keeping it in memory", zap.Error(err))
	}
}

func (s *Store) snapshotOf(items []models.CartItem) Snapshot {
	return Snapshot{
		Key:      s.key,
		Items:    items,
		Count:    countOf(items),
		Subtotal: subtotalOf(items),
	}
}

// sanitize drops duplicate ids and clamps quantities of a loaded payload.
func sanitize(items []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, 0, len(items))
	for _, it := range items {
		if indexOf(out, it.ID) >= 0 {
			continue
		}
		it.Quantity = clampQty(it.Quantity)
		out = append(out, it)
	}
	return out
}

func indexOf(items []models.CartItem, id string) int {
	return slices.IndexFunc(items, func(it models.CartItem) bool { return it.ID == id })
}

func countOf(items []models.CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

func subtotalOf(items []models.CartItem) float64 {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum.InexactFloat64()
}
