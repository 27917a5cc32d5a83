package sampler

import (
	crand "crypto/rand"
	"encoding/binary"
	"hash/fnv"
	"time"
)

// SeedFromString derives a seed from s: the 64-bit FNV-1a hash of its UTF-8
// bytes, reinterpreted as int64. The mapping is fixed so that string seeds
// replay identically across builds and platforms.
func SeedFromString(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}

// EntropySeed reads a seed from the operating system's entropy pool, falling
// back to the wall clock when the pool is unavailable.
func EntropySeed() int64 {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(buf[:]))
}
