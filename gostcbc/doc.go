/*
Package gostcbc implements the GOST2-128 encrypted file container.

A container has the following structure:

	[16-byte IV, cleartext]
	[ciphertext, a positive multiple of 16 bytes]
	[32-byte SHA-256 digest over the ciphertext]

The ciphertext is the CBC encryption of the padded plaintext. Padding is
unconditional: every message grows by 1-16 bytes, each pad byte equal to the
pad length, even when the plaintext is already block-aligned. An aligned
message therefore gains a whole block of value 16, and the ciphertext is
always strictly longer than the plaintext.

The digest covers the ciphertext only, never the IV or the plaintext. It is
a plain hash, not a keyed authentication code: it detects corruption but
does not prove authenticity against an adversary who can recompute hashes.
Decryption reports the digest comparison as a status and still emits the
recovered plaintext on mismatch.
*/
package gostcbc
