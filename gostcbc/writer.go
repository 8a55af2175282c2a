package gostcbc

import (
	"bytes"
	"crypto/cipher"
	"crypto/sha256"
	"errors"
	"hash"
	"io"
)

const (
	// BlockSize is the container block size in bytes.
	BlockSize = 16
	// TagSize is the size of the integrity trailer in bytes.
	TagSize = sha256.Size

	bufSize = 64 * 1024
)

var (
	errBlockSize = errors.New("cipher block size must be 16")
	errIVSize    = errors.New("IV must be 16 bytes")
	errClosed    = errors.New("writer already closed")
)

// A Writer encrypts plaintext written to it into the embedded io.Writer as
// a container. The IV is written immediately by NewWriter; Close appends
// the final padded block and the integrity trailer. A Writer keeps at most
// 15 plaintext bytes buffered between writes so that the cipher only ever
// sees whole blocks.
type Writer struct {
	w      io.Writer
	blk    cipher.Block
	digest hash.Hash
	prev   [BlockSize]byte
	buf    []byte // carry (0-15 bytes) at the front, then chunk space
	nc     int    // carry length
	err    error
	closed bool
}

// NewWriter starts an encrypted container on w. The caller supplies the IV
// so that the randomness source stays outside the codec; it is written to w
// uninterpreted before NewWriter returns.
func NewWriter(w io.Writer, blk cipher.Block, iv []byte) (*Writer, error) {
	if blk.BlockSize() != BlockSize {
		return nil, errBlockSize
	}
	if len(iv) != BlockSize {
		return nil, errIVSize
	}
	if _, err := w.Write(iv); err != nil {
		return nil, err
	}
	wr := &Writer{w: w, blk: blk, digest: sha256.New()}
	copy(wr.prev[:], iv)
	return wr, nil
}

// Write encrypts b into the embedded io.Writer.
func (w *Writer) Write(b []byte) (int, error) {
	n, err := w.ReadFrom(bytes.NewBuffer(b))
	return int(n), err
}

// ReadFrom reads plaintext from r until EOF or error, encrypting whole
// blocks as they become available. Returns the number of bytes read from r
// and any error encountered.
func (w *Writer) ReadFrom(r io.Reader) (n int64, err error) {
	if w.err != nil {
		return 0, w.err
	}
	if w.closed {
		return 0, errClosed
	}
	if w.buf == nil {
		w.buf = make([]byte, bufSize+BlockSize)
	}

	for {
		nr, er := r.Read(w.buf[w.nc:bufSize])
		if nr > 0 {
			n += int64(nr)
			used := w.nc + nr
			full := used &^ (BlockSize - 1)
			if full > 0 {
				if err = w.encryptBlocks(w.buf[:full]); err != nil {
					w.err = err
					return
				}
				copy(w.buf, w.buf[full:used])
			}
			w.nc = used - full
		}

		if er != nil {
			if er != io.EOF { // ignore EOF as per io.ReaderFrom contract
				err = er
				w.err = er
			}
			return
		}
	}
}

// Close pads the remaining carry, encrypts the final block, and writes the
// integrity trailer. Padding is applied even when the carry is empty, so
// Close always emits exactly one more ciphertext block.
func (w *Writer) Close() error {
	if w.err != nil {
		return w.err
	}
	if w.closed {
		return nil
	}
	w.closed = true
	if w.buf == nil {
		w.buf = make([]byte, bufSize+BlockSize)
	}

	pad := BlockSize - w.nc%BlockSize
	for i := 0; i < pad; i++ {
		w.buf[w.nc+i] = byte(pad)
	}
	if err := w.encryptBlocks(w.buf[:w.nc+pad]); err != nil {
		w.err = err
		return err
	}
	w.nc = 0

	if _, err := w.w.Write(w.digest.Sum(nil)); err != nil {
		w.err = err
		return err
	}
	return nil
}

// encryptBlocks CBC-encrypts b in place, writes it out, and feeds the
// trailer digest. len(b) must be a multiple of BlockSize.
func (w *Writer) encryptBlocks(b []byte) error {
	for off := 0; off < len(b); off += BlockSize {
		blk := b[off : off+BlockSize]
		for i := range w.prev {
			blk[i] ^= w.prev[i]
		}
		w.blk.Encrypt(blk, blk)
		copy(w.prev[:], blk)
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	w.digest.Write(b)
	return nil
}
