package repo

import "errors"

// CartSlotRepository stores one opaque cart payload per key. Writes replace
// the previous payload as a whole; there is no merge between writers.
type CartSlotRepository interface {
	Load(key string) ([]byte, error)
	Save(key string, data []byte) error
}

// ErrSlotNotFound is returned by Load when nothing was ever saved under the key.
var ErrSlotNotFound = errors.New("cart slot not found")
