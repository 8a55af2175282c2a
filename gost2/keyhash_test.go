package gost2

import (
	"bytes"
	"encoding/hex"
	"testing"
)

// Produced by the reference implementation for the password "test123".
const testDigest = "d32c64b4852bd5f5e8dc4f5339dbe453152f84b50fba52729631478cdd4a7519" +
	"07a836aab43dafa300f285b0cfcce5ebdb303524c207de6ee2a174aa78e93214" +
	"a3c9923cdb4e054c8b2695b7f90f459eac8045015cd51ce41feb7543232e4848" +
	"82dad26a3e94794b34cbd74db9720941a910beb74f1c8abc945b55f4c208719e" +
	"84915014f1f6d5cdb980c42f0e1783ef314969c3e5a595910d2c8b9345977720" +
	"1d152aa7d510c1427cbb3397ac12fe272556e3f9ee4afc978c9cb334b2462f68" +
	"17cb44e68bc2a250aecc75d5317bce9107c8b455f02f1eeb673e5f443710b94b" +
	"a4eacd03a87256da52aead700937c1fcc26a8daa68f0f6dceb5550393df5f270" +
	"6f5ecbb21f517687c8924ac9c98ae138904f46f85e82c9a5951d75c313fd0773" +
	"2c0db391fc1af618bdea9d2bb435e06c161b47189931cf2d7f0c09aa4d5f55da" +
	"85830cc6a943d14b93a405730b6147c04e10b3ccfd505761e3bf780c263e8ad4" +
	"129ae5eb53afc177f6052161bcdfa67fd6cd519376818b43b26650e045982b54" +
	"e00a8137c119ca039207d00ad7a0361fa7bdbb69a380f258c0901c9f98ca1260" +
	"aee8f9fcba1ad0c54bf904affb9765d03fbe6f9650bdcd3a4dc37430d0eb6ff7" +
	"69375be5145aa7a54c1130a681697d1f11f74ac6cb04d30d9125d12c485a2a96" +
	"9e5fe9b2344fc455a166dbbace5f571fba7f26fcd0944edd16dcf4784f439352"

func TestKeyHashVector(t *testing.T) {
	want, err := hex.DecodeString(testDigest)
	if err != nil {
		t.Fatal(err)
	}

	var h keyHash
	h.update([]byte("test123"))
	var d [digestSize]byte
	h.digest(&d)

	if !bytes.Equal(d[:], want) {
		t.Errorf("digest mismatch\n got %x\nwant %x", d[:8], want[:8])
	}
}

func TestKeyHashSplitUpdates(t *testing.T) {
	var one keyHash
	one.update([]byte("the quick brown fox"))
	var d1 [digestSize]byte
	one.digest(&d1)

	var split keyHash
	split.update([]byte("the quick "))
	split.update(nil)
	split.update([]byte("brown"))
	split.update([]byte(" fox"))
	var d2 [digestSize]byte
	split.digest(&d2)

	if d1 != d2 {
		t.Error("split updates diverge from a single update")
	}
}

func TestKeyHashLongInput(t *testing.T) {
	// Inputs longer than the 512-byte window force compression passes
	// mid-update; split and whole must still agree.
	long := bytes.Repeat([]byte("abcdefgh"), 200) // 1600 bytes

	var one keyHash
	one.update(long)
	var d1 [digestSize]byte
	one.digest(&d1)

	var split keyHash
	split.update(long[:512])
	split.update(long[512:1000])
	split.update(long[1000:])
	var d2 [digestSize]byte
	split.digest(&d2)

	if d1 != d2 {
		t.Error("windowed compression diverges across update boundaries")
	}
}

func TestDeriveKeyDeterministic(t *testing.T) {
	k1 := deriveKey([]byte("correct horse battery staple"))
	k2 := deriveKey([]byte("correct horse battery staple"))
	if k1 != k2 {
		t.Error("derivation is not deterministic")
	}

	k3 := deriveKey([]byte("correct horse battery staplf"))
	if k1 == k3 {
		t.Error("distinct passwords produced the same schedule")
	}
}

func TestDeriveKeyEmptyPassword(t *testing.T) {
	// An empty password still yields a full schedule.
	k := deriveKey(nil)
	var zero [64]uint64
	if k == zero {
		t.Error("empty password derived an all-zero schedule")
	}
}
