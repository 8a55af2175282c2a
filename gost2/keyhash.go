package gost2

import "encoding/binary"

// digestSize is the size of the key hash output: 4096 bits, enough for the
// 64 subkeys of the cipher.
const digestSize = 512

// hashTable is the fixed byte permutation driving the key hash. The values
// are part of the on-disk compatibility contract and cannot be derived.
var hashTable = [256]byte{
	13, 199, 11, 67, 237, 193, 164, 77, 115, 184, 141, 222, 73,
	38, 147, 36, 150, 87, 21, 104, 12, 61, 156, 101, 111, 145,
	119, 22, 207, 35, 198, 37, 171, 167, 80, 30, 219, 28, 213,
	121, 86, 29, 214, 242, 6, 4, 89, 162, 110, 175, 19, 157,
	3, 88, 234, 94, 144, 118, 159, 239, 100, 17, 182, 173, 238,
	68, 16, 79, 132, 54, 163, 52, 9, 58, 57, 55, 229, 192,
	170, 226, 56, 231, 187, 158, 70, 224, 233, 245, 26, 47, 32,
	44, 247, 8, 251, 20, 197, 185, 109, 153, 204, 218, 93, 178,
	212, 137, 84, 174, 24, 120, 130, 149, 72, 180, 181, 208, 255,
	189, 152, 18, 143, 176, 60, 249, 27, 227, 128, 139, 243, 253,
	59, 123, 172, 108, 211, 96, 138, 10, 215, 42, 225, 40, 81,
	65, 90, 25, 98, 126, 154, 64, 124, 116, 122, 5, 1, 168,
	83, 190, 131, 191, 244, 240, 235, 177, 155, 228, 125, 66, 43,
	201, 248, 220, 129, 188, 230, 62, 75, 71, 78, 34, 31, 216,
	254, 136, 91, 114, 106, 46, 217, 196, 92, 151, 209, 133, 51,
	236, 33, 252, 127, 179, 69, 7, 183, 105, 146, 97, 39, 15,
	205, 112, 200, 166, 223, 45, 48, 246, 186, 41, 148, 140, 107,
	76, 85, 95, 194, 142, 50, 49, 134, 23, 135, 169, 221, 210,
	203, 63, 165, 82, 161, 202, 53, 14, 206, 232, 103, 102, 195,
	117, 250, 99, 0, 74, 160, 241, 2, 113,
}

// keyHash is the iterative hash that stretches a password into 4096 bits of
// key material. The work buffer holds three 512-byte regions: the raw input
// window, a copy, and an XOR-with-checksum copy; a compression pass diffuses
// all three once the window fills. One instance per derivation; the zero
// value is ready to use.
type keyHash struct {
	acc int
	pos int
	sum [digestSize]byte
	buf [digestSize * 3]byte
}

func (h *keyHash) update(p []byte) {
	for len(p) > 0 {
		for len(p) > 0 && h.pos < digestSize {
			b := p[0]
			p = p[1:]
			h.buf[h.pos+digestSize] = b
			h.buf[h.pos+digestSize*2] = b ^ h.buf[h.pos]
			h.acc = int(h.sum[h.pos] ^ hashTable[b^byte(h.acc)])
			h.sum[h.pos] = byte(h.acc)
			h.pos++
		}
		if h.pos == digestSize {
			h.compress()
		}
	}
}

// compress runs 514 substitution passes over the full work buffer, chaining
// a running value through every byte and perturbing it between passes.
func (h *keyHash) compress() {
	v := 0
	h.pos = 0
	for i := 0; i < digestSize+2; i++ {
		for j := range h.buf {
			v = int(h.buf[j] ^ hashTable[byte(v)])
			h.buf[j] = byte(v)
		}
		v = (v + i) % 256
	}
}

// digest finalizes the hash into out. The order is fixed: pad the unfilled
// window with bytes equal to the remaining length, then hash the checksum
// array itself. Reordering silently changes every key ever derived.
func (h *keyHash) digest(out *[digestSize]byte) {
	n := digestSize - h.pos
	var pad [digestSize]byte
	for i := 0; i < n; i++ {
		pad[i] = byte(n)
	}
	h.update(pad[:n])
	h.update(h.sum[:])
	copy(out[:], h.buf[:digestSize])
}

// deriveKey hashes password and slices the digest into 64 big-endian
// subkeys. Intermediate key material is wiped before returning.
func deriveKey(password []byte) [64]uint64 {
	var h keyHash
	h.update(password)
	var d [digestSize]byte
	h.digest(&d)

	var key [64]uint64
	for i := range key {
		key[i] = binary.BigEndian.Uint64(d[i*8:])
	}
	for i := range d {
		d[i] = 0
	}
	h = keyHash{}
	return key
}
