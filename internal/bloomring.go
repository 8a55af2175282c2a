package internal

import (
	"hash/fnv"
	"sync"

	"github.com/riobard/go-bloom"
)

// Sizing for the process-wide IV filter. A single invocation handles at
// most a few thousand files, so the capacity is generous.
const (
	DefaultIVCapacity = 1e5
	DefaultIVFPR      = 1e-6
	DefaultIVSlot     = 8
)

// simply use Double FNV here as our Bloom Filter hash
func doubleFNV(b []byte) (uint64, uint64) {
	hx := fnv.New64()
	hx.Write(b)
	x := hx.Sum64()
	hy := fnv.New64a()
	hy.Write(b)
	y := hy.Sum64()
	return x, y
}

// A BloomRing remembers recently seen IVs across a rotating set of bloom
// filter slots, so that memory stays bounded no matter how many files one
// invocation touches.
type BloomRing struct {
	slotCapacity int
	slotPosition int
	slotCount    int
	entryCounter int
	slots        []bloom.Filter
	mutex        sync.RWMutex
}

func NewBloomRing(slot, capacity int, falsePositiveRate float64) *BloomRing {
	r := &BloomRing{
		slotCapacity: capacity / slot,
		slotCount:    slot,
		slots:        make([]bloom.Filter, slot),
	}
	for i := 0; i < slot; i++ {
		r.slots[i] = bloom.New(r.slotCapacity, falsePositiveRate, doubleFNV)
	}
	return r
}

func (r *BloomRing) Add(b []byte) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	slot := r.slots[r.slotPosition]
	if r.entryCounter > r.slotCapacity {
		// rotate to the next slot and reset it
		r.slotPosition = (r.slotPosition + 1) % r.slotCount
		slot = r.slots[r.slotPosition]
		slot.Reset()
		r.entryCounter = 0
	}
	r.entryCounter++
	slot.Add(b)
}

func (r *BloomRing) Test(b []byte) bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	for _, s := range r.slots {
		if s.Test(b) {
			return true
		}
	}
	return false
}

var ivFilter = NewBloomRing(DefaultIVSlot, int(DefaultIVCapacity), DefaultIVFPR)

// AddIV records an IV seen during this invocation.
func AddIV(iv []byte) {
	ivFilter.Add(iv)
}

// TestIV reports whether iv was probably seen before in this invocation.
// False positives are possible at the configured rate; false negatives are
// possible only after slot rotation.
func TestIV(iv []byte) bool {
	return ivFilter.Test(iv)
}
