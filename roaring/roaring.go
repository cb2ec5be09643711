// Package roaring implements an in-memory Roaring Bitmap used as the
// Boolean browser's docId set, descended from the teacher's
// weaviate/storage package. Unlike the teacher's version this bitmap is
// never serialized to disk — the inverted index persists postings through
// format/stream, not through a bitmap encoding — so the Serialize/
// Deserialize methods and the pluggable encoders.ArrayEncoderDecoder field
// are dropped. Package browser uses Add, Cardinality, Intersection and
// DocIDs for its AND-intersection over per-term docId sets; Bitmap.Union
// is exercised only by this package's tests, and ToArrayContainer has no
// caller.
package roaring

import (
	"math/bits"
	"sort"
)

// ContainerConversionThreshold is the cardinality above which an
// ArrayContainer converts itself to a BitmapContainer.
const ContainerConversionThreshold = 4096

// Container is the interface shared by the two low-16-bits storage
// strategies a Bitmap can pick per high-16-bits key.
type Container interface {
	Add(value uint16)
	Contains(value uint16) bool
	Cardinality() int
	Union(other Container) Container
	Intersection(other Container) Container
}

// ArrayContainer stores a sorted array of low bits, suited to sparse keys.
type ArrayContainer struct {
	values []uint16
}

// NewArrayContainer returns an empty ArrayContainer.
func NewArrayContainer() *ArrayContainer {
	return &ArrayContainer{}
}

// Add inserts value, keeping values sorted; a duplicate is a no-op.
func (ac *ArrayContainer) Add(value uint16) {
	idx := sort.Search(len(ac.values), func(i int) bool { return ac.values[i] >= value })
	if idx < len(ac.values) && ac.values[idx] == value {
		return
	}
	ac.values = append(ac.values, 0)
	copy(ac.values[idx+1:], ac.values[idx:])
	ac.values[idx] = value
}

// Contains reports whether value is present.
func (ac *ArrayContainer) Contains(value uint16) bool {
	idx := sort.Search(len(ac.values), func(i int) bool { return ac.values[i] >= value })
	return idx < len(ac.values) && ac.values[idx] == value
}

// Cardinality returns the number of distinct values held.
func (ac *ArrayContainer) Cardinality() int { return len(ac.values) }

// ToBitmapContainer converts ac to a dense BitmapContainer, used once
// ac grows past ContainerConversionThreshold.
func (ac *ArrayContainer) ToBitmapContainer() *BitmapContainer {
	bc := NewBitmapContainer()
	for _, v := range ac.values {
		bc.Add(v)
	}
	return bc
}

// Union returns a new container holding every value in either container.
func (ac *ArrayContainer) Union(other Container) Container {
	switch o := other.(type) {
	case *ArrayContainer:
		result := NewArrayContainer()
		i, j := 0, 0
		for i < len(ac.values) && j < len(o.values) {
			switch {
			case ac.values[i] < o.values[j]:
				result.Add(ac.values[i])
				i++
			case ac.values[i] > o.values[j]:
				result.Add(o.values[j])
				j++
			default:
				result.Add(ac.values[i])
				i++
				j++
			}
		}
		for ; i < len(ac.values); i++ {
			result.Add(ac.values[i])
		}
		for ; j < len(o.values); j++ {
			result.Add(o.values[j])
		}
		return result
	case *BitmapContainer:
		return o.Union(ac)
	}
	return nil
}

// Intersection returns a new container holding every value in both
// containers.
func (ac *ArrayContainer) Intersection(other Container) Container {
	switch o := other.(type) {
	case *ArrayContainer:
		result := NewArrayContainer()
		i, j := 0, 0
		for i < len(ac.values) && j < len(o.values) {
			switch {
			case ac.values[i] < o.values[j]:
				i++
			case ac.values[i] > o.values[j]:
				j++
			default:
				result.Add(ac.values[i])
				i++
				j++
			}
		}
		return result
	case *BitmapContainer:
		return o.Intersection(ac)
	}
	return nil
}

// BitmapContainer stores a dense 65536-bit bitmap, suited to dense keys.
type BitmapContainer struct {
	words       []uint64
	cardinality int
}

// NewBitmapContainer returns a BitmapContainer sized for every possible
// low-16-bits value.
func NewBitmapContainer() *BitmapContainer {
	return &BitmapContainer{words: make([]uint64, 1024)}
}

// Add sets the bit for value.
func (bc *BitmapContainer) Add(value uint16) {
	word, bit := value/64, value%64
	if bc.words[word]&(1<<bit) == 0 {
		bc.words[word] |= 1 << bit
		bc.cardinality++
	}
}

// Contains reports whether the bit for value is set.
func (bc *BitmapContainer) Contains(value uint16) bool {
	word, bit := value/64, value%64
	return bc.words[word]&(1<<bit) != 0
}

// Cardinality returns the number of set bits.
func (bc *BitmapContainer) Cardinality() int { return bc.cardinality }

// ToArrayContainer converts bc back to a sparse ArrayContainer.
func (bc *BitmapContainer) ToArrayContainer() *ArrayContainer {
	ac := NewArrayContainer()
	for i, w := range bc.words {
		if w == 0 {
			continue
		}
		for bit := 0; bit < 64; bit++ {
			if w&(1<<uint(bit)) != 0 {
				ac.values = append(ac.values, uint16(i*64+bit))
			}
		}
	}
	return ac
}

// Union returns the bitwise OR of bc and other.
func (bc *BitmapContainer) Union(other Container) Container {
	switch o := other.(type) {
	case *BitmapContainer:
		result := NewBitmapContainer()
		for i := range bc.words {
			result.words[i] = bc.words[i] | o.words[i]
		}
		result.cardinality = countBits(result.words)
		return result
	case *ArrayContainer:
		return bc.Union(o.ToBitmapContainer())
	}
	return nil
}

// Intersection returns the bitwise AND of bc and other.
func (bc *BitmapContainer) Intersection(other Container) Container {
	switch o := other.(type) {
	case *BitmapContainer:
		result := NewBitmapContainer()
		for i := range bc.words {
			result.words[i] = bc.words[i] & o.words[i]
		}
		result.cardinality = countBits(result.words)
		return result
	case *ArrayContainer:
		result := NewArrayContainer()
		for _, v := range o.values {
			if bc.Contains(v) {
				result.Add(v)
			}
		}
		return result
	}
	return nil
}

func countBits(words []uint64) int {
	n := 0
	for _, w := range words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Bitmap is a two-level docId set: the high 16 bits of a docId select a
// Container, which stores the low 16 bits.
type Bitmap struct {
	containers map[uint16]Container
}

// New returns an empty Bitmap.
func New() *Bitmap {
	return &Bitmap{containers: make(map[uint16]Container)}
}

// Add inserts docID, converting its container from array to bitmap once
// it crosses ContainerConversionThreshold.
func (b *Bitmap) Add(docID uint32) {
	key, low := uint16(docID>>16), uint16(docID&0xffff)
	c, ok := b.containers[key]
	if !ok {
		c = NewArrayContainer()
		b.containers[key] = c
	}
	c.Add(low)
	if ac, ok := c.(*ArrayContainer); ok && ac.Cardinality() > ContainerConversionThreshold {
		b.containers[key] = ac.ToBitmapContainer()
	}
}

// Contains reports whether docID was added.
func (b *Bitmap) Contains(docID uint32) bool {
	key, low := uint16(docID>>16), uint16(docID&0xffff)
	c, ok := b.containers[key]
	return ok && c.Contains(low)
}

// Cardinality returns the total number of docIds held.
func (b *Bitmap) Cardinality() int {
	n := 0
	for _, c := range b.containers {
		n += c.Cardinality()
	}
	return n
}

// Union returns a new Bitmap holding every docId in either bitmap.
func (b *Bitmap) Union(other *Bitmap) *Bitmap {
	result := New()
	for key, c := range b.containers {
		result.containers[key] = c
	}
	for key, c := range other.containers {
		if existing, ok := result.containers[key]; ok {
			result.containers[key] = existing.Union(c)
		} else {
			result.containers[key] = c
		}
	}
	return result
}

// Intersection returns a new Bitmap holding only docIds present in both
// bitmaps.
func (b *Bitmap) Intersection(other *Bitmap) *Bitmap {
	result := New()
	for key, c := range b.containers {
		if oc, ok := other.containers[key]; ok {
			ic := c.Intersection(oc)
			if ic.Cardinality() > 0 {
				result.containers[key] = ic
			}
		}
	}
	return result
}

// DocIDs returns every docId in the bitmap, ascending.
func (b *Bitmap) DocIDs() []uint32 {
	var out []uint32
	keys := make([]uint16, 0, len(b.containers))
	for key := range b.containers {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for _, key := range keys {
		base := uint32(key) << 16
		switch c := b.containers[key].(type) {
		case *ArrayContainer:
			for _, v := range c.values {
				out = append(out, base|uint32(v))
			}
		case *BitmapContainer:
			for i, w := range c.words {
				if w == 0 {
					continue
				}
				for bit := 0; bit < 64; bit++ {
					if w&(1<<uint(bit)) != 0 {
						out = append(out, base|uint32(i*64+bit))
					}
				}
			}
		}
	}
	return out
}
