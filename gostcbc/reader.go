package gostcbc

import (
	"crypto/cipher"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"hash"
	"io"
)

// Format errors, reported by NewReader before any plaintext is produced.
var (
	ErrTooSmall       = errors.New("input too small")
	ErrCiphertextSize = errors.New("invalid ciphertext size")
)

// ErrPadding is reported when the final block's padding is invalid. Blocks
// before the final one may already have been emitted by then.
var ErrPadding = errors.New("invalid padding")

// A Reader decrypts a container read from the embedded io.ReadSeeker. The
// most recently decrypted block is withheld from output until the end of
// the ciphertext is reached, since only the true final block carries
// padding. After Read returns io.EOF, Verified reports whether the
// recomputed digest matched the stored trailer; a mismatch never suppresses
// plaintext.
type Reader struct {
	r         io.Reader
	blk       cipher.Block
	digest    hash.Hash
	iv        [BlockSize]byte
	tag       [TagSize]byte
	prev      [BlockSize]byte
	remaining int64
	buf       []byte // one withheld block at the front, then chunk space
	out       []byte // decrypted bytes ready to emit
	last      [BlockSize]byte
	haveLast  bool
	verified  bool
	done      bool
	err       error
}

// NewReader validates the container framing on r and prepares to stream
// plaintext. It fails with ErrTooSmall when r holds fewer than 48 bytes and
// with ErrCiphertextSize when the ciphertext region is empty or not
// block-aligned, in both cases before any plaintext is produced.
func NewReader(r io.ReadSeeker, blk cipher.Block) (*Reader, error) {
	if blk.BlockSize() != BlockSize {
		return nil, errBlockSize
	}

	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	if size < BlockSize+TagSize {
		return nil, ErrTooSmall
	}
	ctLen := size - BlockSize - TagSize
	if ctLen <= 0 || ctLen%BlockSize != 0 {
		return nil, ErrCiphertextSize
	}

	rd := &Reader{blk: blk, digest: sha256.New(), remaining: ctLen}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(r, rd.iv[:]); err != nil {
		return nil, err
	}
	if _, err := r.Seek(size-TagSize, io.SeekStart); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(r, rd.tag[:]); err != nil {
		return nil, err
	}
	if _, err := r.Seek(BlockSize, io.SeekStart); err != nil {
		return nil, err
	}

	rd.prev = rd.iv
	rd.r = io.LimitReader(r, ctLen)
	return rd, nil
}

// IV returns the container's initialization vector.
func (r *Reader) IV() []byte {
	iv := r.iv
	return iv[:]
}

// Verified reports whether the recomputed ciphertext digest matched the
// stored trailer. It is meaningful only after Read has returned io.EOF.
func (r *Reader) Verified() bool { return r.verified }

// Read decrypts from the embedded reader into b.
func (r *Reader) Read(b []byte) (int, error) {
	for len(r.out) == 0 {
		if r.err != nil {
			return 0, r.err
		}
		if r.done {
			return 0, io.EOF
		}
		if err := r.fill(); err != nil {
			r.err = err
			return 0, err
		}
	}
	n := copy(b, r.out)
	r.out = r.out[n:]
	return n, nil
}

// WriteTo decrypts from the embedded reader and writes plaintext to w until
// the container is exhausted or an error occurs.
func (r *Reader) WriteTo(w io.Writer) (n int64, err error) {
	for {
		for len(r.out) == 0 {
			if r.err != nil {
				return n, r.err
			}
			if r.done {
				return n, nil
			}
			if err := r.fill(); err != nil {
				r.err = err
				return n, err
			}
		}
		nw, ew := w.Write(r.out)
		n += int64(nw)
		r.out = r.out[nw:]
		if ew != nil {
			return n, ew
		}
	}
}

// fill decrypts the next ciphertext chunk into the internal buffer, always
// keeping the newest block withheld. Once the ciphertext is exhausted it
// unpads the withheld block and settles the digest comparison.
func (r *Reader) fill() error {
	if r.remaining == 0 {
		pad := int(r.last[BlockSize-1])
		if pad < 1 || pad > BlockSize {
			return ErrPadding
		}
		for i := 0; i < pad; i++ {
			if r.last[BlockSize-1-i] != byte(pad) {
				return ErrPadding
			}
		}
		r.out = r.last[:BlockSize-pad]
		sum := r.digest.Sum(nil)
		r.verified = subtle.ConstantTimeCompare(sum, r.tag[:]) == 1
		r.done = true
		return nil
	}

	if r.buf == nil {
		r.buf = make([]byte, BlockSize+bufSize)
	}
	n := bufSize
	if int64(n) > r.remaining {
		n = int(r.remaining)
	}
	chunk := r.buf[BlockSize : BlockSize+n]
	if _, err := io.ReadFull(r.r, chunk); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return io.ErrUnexpectedEOF
		}
		return err
	}

	// the trailer digest covers the raw ciphertext
	r.digest.Write(chunk)

	for off := 0; off < n; off += BlockSize {
		blk := chunk[off : off+BlockSize]
		var ct [BlockSize]byte
		copy(ct[:], blk)
		r.blk.Decrypt(blk, blk)
		for i := range r.prev {
			blk[i] ^= r.prev[i]
		}
		// chain on the original ciphertext, not the recovered plaintext
		r.prev = ct
	}
	r.remaining -= int64(n)

	// emit the previously withheld block (if any) ahead of this chunk,
	// and withhold the chunk's final block in its place
	start := BlockSize
	if r.haveLast {
		start = 0
		copy(r.buf[:BlockSize], r.last[:])
	}
	copy(r.last[:], chunk[n-BlockSize:])
	r.haveLast = true
	r.out = r.buf[start : BlockSize+n-BlockSize]
	return nil
}
