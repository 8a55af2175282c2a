package main

import (
	"crypto/rand"
	"time"

	"github.com/go-gost2/gost2file/gostcbc"
)

// generateIV prefers the OS CSPRNG. The time-seeded xorshift below is a
// last resort kept only so the tool stays usable on a broken platform; it
// is NOT suitable for confidentiality.
func generateIV() [gostcbc.BlockSize]byte {
	var iv [gostcbc.BlockSize]byte
	if _, err := rand.Read(iv[:]); err == nil {
		return iv
	}

	logf("crypto/rand unavailable, falling back to a time-seeded PRNG")
	x := uint64(time.Now().UnixNano())*6364136223846793005 + 1
	for i := range iv {
		x ^= x << 13
		x ^= x >> 7
		x ^= x << 17
		iv[i] = byte(x)
	}
	return iv
}
