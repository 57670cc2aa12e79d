package repo

import "sync"

// InMemoryCartSlotRepository is an in-memory implementation of CartSlotRepository.
type InMemoryCartSlotRepository struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewInMemoryCartSlotRepository creates a new instance of InMemoryCartSlotRepository.
func NewInMemoryCartSlotRepository() *InMemoryCartSlotRepository {
	return &InMemoryCartSlotRepository{
		slots: map[string][]byte{},
	}
}

// Load returns a copy of the payload stored under key.
func (r *InMemoryCartSlotRepository) Load(key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, ok := r.slots[key]
	if !ok {
		return nil, ErrSlotNotFound
	}
	return append([]byte(nil), data...), nil
}

// Save overwrites the payload stored under key.
func (r *InMemoryCartSlotRepository) Save(key string, data []byte) error {
	r.mu.Lock()
	r.slots[key] = append([]byte(nil), data...)
	r.mu.Unlock()
	return nil
}

func (r *InMemoryCartSlotRepository) Clear() {
	r.mu.Lock()
	r.slots = map[string][]byte{}
	r.mu.Unlock()
}
