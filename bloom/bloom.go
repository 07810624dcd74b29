// bloom implements the counting bloom filter used to fast-reject selectors
// whose ancestor compounds cannot be satisfied by the current ancestor chain.
package bloom

import (
	"hash/fnv"
)

const (
	KeySize   = 12
	ArraySize = 1 << KeySize
	KeyMask   = ArraySize - 1
	// HashMask keeps the 24 bits of a hash that are used as filter keys. The
	// remaining high byte is free for packing a fourth hash (see Hashes).
	HashMask = 0x00ffffff
)

// Filter is a counting bloom filter with 8-bit saturating counters. Each hash
// sets two slots derived from its low and high 12 bits.
type Filter struct {
	counters [ArraySize]uint8
}

// Hashes is the packed form of up to four ancestor hashes. The first three
// are stored in the low 24 bits of each word, the fourth is split across
// their high bytes.
type Hashes [3]uint32

func New() *Filter { return &Filter{} }

// Hash returns the 24 bit filter hash of s.
func Hash(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32() & HashMask
}

func (f *Filter) Insert(s string)            { f.InsertHash(Hash(s)) }
func (f *Filter) Remove(s string)            { f.RemoveHash(Hash(s)) }
func (f *Filter) MightContain(s string) bool { return f.MightContainHash(Hash(s)) }

func (f *Filter) InsertHash(h uint32) {
	for _, i := range [2]uint32{hash1(h), hash2(h)} {
		if f.counters[i] != 0xff {
			f.counters[i]++
		}
	}
}

// RemoveHash undoes a previous InsertHash. Saturated counters stay saturated,
// we cannot know how many inserts they absorbed.
func (f *Filter) RemoveHash(h uint32) {
	for _, i := range [2]uint32{hash1(h), hash2(h)} {
		if c := f.counters[i]; c != 0xff && c != 0 {
			f.counters[i]--
		}
	}
}

func (f *Filter) MightContainHash(h uint32) bool {
	return f.counters[hash1(h)] != 0 && f.counters[hash2(h)] != 0
}

func (f *Filter) Clear() { f.counters = [ArraySize]uint8{} }

func (f *Filter) IsZeroed() bool {
	for _, c := range f.counters {
		if c != 0 {
			return false
		}
	}
	return true
}

// Pack packs up to four hashes. Zero hashes are skipped and extra hashes are
// ignored.
func Pack(hs ...uint32) Hashes {
	var p Hashes
	i := -1
	for _, h := range hs {
		if h &= HashMask; h == 0 {
			continue
		}
		i++
		switch {
		case i < 3:
			p[i] = h
		case i == 3:
			p[0] |= (h & 0x000000ff) << 24
			p[1] |= (h & 0x0000ff00) << 16
			p[2] |= (h & 0x00ff0000) << 8
		}
	}
	return p
}

func (p Hashes) Fourth() uint32 {
	return (p[0]&0xff000000)>>24 | (p[1]&0xff000000)>>16 | (p[2]&0xff000000)>>8
}

// MayMatch reports whether a selector with the given ancestor hashes can
// match below the ancestors recorded in f. A false result is definitive. A
// zero hash terminates the check: if any of the first three is zero the
// fourth is zero as well.
func MayMatch(p Hashes, f *Filter) bool {
	for _, h := range p {
		if h == 0 {
			return true
		} else if !f.MightContainHash(h & HashMask) {
			return false
		}
	}
	fourth := p.Fourth()
	return fourth == 0 || f.MightContainHash(fourth)
}

func hash1(h uint32) uint32 { return h & KeyMask }
func hash2(h uint32) uint32 { return (h >> KeySize) & KeyMask }
