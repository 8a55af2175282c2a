// Package gost2 implements the GOST2-128 block cipher: a 128-bit block,
// 32-round Feistel-style cipher keyed by 64 subkeys derived from a password
// through an iterative 4096-bit key hash.
package gost2

import "encoding/binary"

// BlockSize is the cipher block size in bytes.
const BlockSize = 16

// The eight nibble permutations, combined pairwise into byte tables below.
var (
	sb1  = [16]byte{0x4, 0xA, 0x9, 0x2, 0xD, 0x8, 0x0, 0xE, 0x6, 0xB, 0x1, 0xC, 0x7, 0xF, 0x5, 0x3}
	sb2  = [16]byte{0xE, 0xB, 0x4, 0xC, 0x6, 0xD, 0xF, 0xA, 0x2, 0x3, 0x8, 0x1, 0x0, 0x7, 0x5, 0x9}
	sb3  = [16]byte{0x5, 0x8, 0x1, 0xD, 0xA, 0x3, 0x4, 0x2, 0xE, 0xF, 0xC, 0x7, 0x6, 0x0, 0x9, 0xB}
	sb4  = [16]byte{0x7, 0xD, 0xA, 0x1, 0x0, 0x8, 0x9, 0xF, 0xE, 0x4, 0x6, 0xC, 0xB, 0x2, 0x5, 0x3}
	sb5  = [16]byte{0x6, 0xC, 0x7, 0x1, 0x5, 0xF, 0xD, 0x8, 0x4, 0xA, 0x9, 0xE, 0x0, 0x3, 0xB, 0x2}
	sb6  = [16]byte{0x4, 0xB, 0xA, 0x0, 0x7, 0x2, 0x1, 0xD, 0x3, 0x6, 0x8, 0x5, 0x9, 0xC, 0xF, 0xE}
	sb7  = [16]byte{0xD, 0xB, 0x4, 0x1, 0x3, 0xF, 0x5, 0x9, 0x0, 0xA, 0xE, 0x7, 0x6, 0x8, 0x2, 0xC}
	sb8  = [16]byte{0x1, 0xF, 0xD, 0x0, 0x5, 0x7, 0xA, 0x4, 0x9, 0x2, 0x3, 0xE, 0x6, 0xB, 0x8, 0xC}
	sb9  = [16]byte{0xC, 0x4, 0x6, 0x2, 0xA, 0x5, 0xB, 0x9, 0xE, 0x8, 0xD, 0x7, 0x0, 0x3, 0xF, 0x1}
	sb10 = [16]byte{0x6, 0x8, 0x2, 0x3, 0x9, 0xA, 0x5, 0xC, 0x1, 0xE, 0x4, 0x7, 0xB, 0xD, 0x0, 0xF}
	sb11 = [16]byte{0xB, 0x3, 0x5, 0x8, 0x2, 0xF, 0xA, 0xD, 0xE, 0x1, 0x7, 0x4, 0xC, 0x9, 0x6, 0x0}
	sb12 = [16]byte{0xC, 0x8, 0x2, 0x1, 0xD, 0x4, 0xF, 0x6, 0x7, 0x0, 0xA, 0x5, 0x3, 0xE, 0x9, 0xB}
	sb13 = [16]byte{0x7, 0xF, 0x5, 0xA, 0x8, 0x1, 0x6, 0xD, 0x0, 0x9, 0x3, 0xE, 0xB, 0x4, 0x2, 0xC}
	sb14 = [16]byte{0x5, 0xD, 0xF, 0x6, 0x9, 0x2, 0xC, 0xA, 0xB, 0x7, 0x8, 0x1, 0x4, 0x3, 0xE, 0x0}
	sb15 = [16]byte{0x8, 0xE, 0x2, 0x5, 0x6, 0x9, 0x1, 0xC, 0xF, 0x4, 0xB, 0x0, 0xD, 0xA, 0x3, 0x7}
	sb16 = [16]byte{0x1, 0x7, 0xE, 0xD, 0x0, 0x5, 0x8, 0x3, 0x4, 0xF, 0xA, 0x6, 0x9, 0xC, 0xB, 0x2}
)

// Combined byte tables: high nibble through one permutation, low nibble
// through another. Built once at init and shared read-only.
var s1615, s1413, s1211, s109, s87, s65, s43, s21 [256]byte

func init() {
	for i := 0; i < 256; i++ {
		s1615[i] = sb16[i>>4]<<4 | sb15[i&15]
		s1413[i] = sb14[i>>4]<<4 | sb13[i&15]
		s1211[i] = sb12[i>>4]<<4 | sb11[i&15]
		s109[i] = sb10[i>>4]<<4 | sb9[i&15]
		s87[i] = sb8[i>>4]<<4 | sb7[i&15]
		s65[i] = sb6[i>>4]<<4 | sb5[i&15]
		s43[i] = sb4[i>>4]<<4 | sb3[i&15]
		s21[i] = sb2[i>>4]<<4 | sb1[i&15]
	}
}

// f is the round function: byte-wise substitution of both 32-bit halves
// followed by an 11-bit left rotation over the full 64-bit width.
func f(x uint64) uint64 {
	y := x >> 32
	z := x & 0xffffffff
	y = uint64(s87[y>>24&255])<<24 | uint64(s65[y>>16&255])<<16 |
		uint64(s43[y>>8&255])<<8 | uint64(s21[y&255])
	z = uint64(s1615[z>>24&255])<<24 | uint64(s1413[z>>16&255])<<16 |
		uint64(s1211[z>>8&255])<<8 | uint64(s109[z&255])
	x = y<<32 | z
	return x<<11 | x>>(64-11)
}

// A Cipher is an instance of GOST2-128 keyed by a password. It implements
// crypto/cipher.Block.
type Cipher struct {
	key [64]uint64
}

// NewCipher derives the 64-subkey schedule from password and returns the
// keyed cipher. The derivation is deterministic: no salt or nonce is
// involved. The caller should zero password afterwards and call Zero on the
// returned cipher when done with it.
func NewCipher(password []byte) *Cipher {
	return &Cipher{key: deriveKey(password)}
}

// BlockSize returns the cipher block size in bytes.
func (c *Cipher) BlockSize() int { return BlockSize }

// Encrypt encrypts the 16-byte block in src into dst. Dst and src may
// overlap entirely.
func (c *Cipher) Encrypt(dst, src []byte) {
	if len(src) < BlockSize {
		panic("gost2: input not full block")
	}
	if len(dst) < BlockSize {
		panic("gost2: output not full block")
	}
	a := binary.BigEndian.Uint64(src[0:8])
	b := binary.BigEndian.Uint64(src[8:16])
	for i := 0; i < 64; i += 2 {
		b ^= f(a + c.key[i])
		a ^= f(b + c.key[i+1])
	}
	// halves swap on output
	binary.BigEndian.PutUint64(dst[0:8], b)
	binary.BigEndian.PutUint64(dst[8:16], a)
}

// Decrypt decrypts the 16-byte block in src into dst, consuming the subkeys
// in reverse order. Dst and src may overlap entirely.
func (c *Cipher) Decrypt(dst, src []byte) {
	if len(src) < BlockSize {
		panic("gost2: input not full block")
	}
	if len(dst) < BlockSize {
		panic("gost2: output not full block")
	}
	a := binary.BigEndian.Uint64(src[0:8])
	b := binary.BigEndian.Uint64(src[8:16])
	for i := 63; i > 0; i -= 2 {
		b ^= f(a + c.key[i])
		a ^= f(b + c.key[i-1])
	}
	binary.BigEndian.PutUint64(dst[0:8], b)
	binary.BigEndian.PutUint64(dst[8:16], a)
}

// Zero wipes the key schedule. The cipher is unusable afterwards.
func (c *Cipher) Zero() {
	for i := range c.key {
		c.key[i] = 0
	}
}
