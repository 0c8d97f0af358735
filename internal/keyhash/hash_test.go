package keyhash_test

import (
	"testing"

	"github.com/karupanerura/memoize/internal/keyhash"
)

func TestForType_Deterministic(t *testing.T) {
	t.Parallel()

	hashString := keyhash.ForType[string]()
	if hashString("key") != hashString("key") {
		t.Error("expected equal inputs to hash equally")
	}

	hashInt := keyhash.ForType[int]()
	if hashInt(42) != hashInt(42) {
		t.Error("expected equal inputs to hash equally")
	}
}

func TestForType_Spread(t *testing.T) {
	t.Parallel()

	// Not a distribution guarantee, just a sanity check that a handful of
	// distinct keys do not all collapse to one hash.
	hash := keyhash.ForType[uint8]()
	seen := map[int]struct{}{}
	for key := uint8(0); key < 16; key++ {
		seen[hash(key)] = struct{}{}
	}
	if len(seen) < 2 {
		t.Errorf("expected distinct keys to produce distinct hashes, got %d unique values", len(seen))
	}
}

func TestForType_SupportedTypes(t *testing.T) {
	t.Parallel()

	// Each instantiation must construct without panicking.
	keyhash.ForType[int]()
	keyhash.ForType[int8]()
	keyhash.ForType[int16]()
	keyhash.ForType[int32]()
	keyhash.ForType[int64]()
	keyhash.ForType[uint]()
	keyhash.ForType[uint8]()
	keyhash.ForType[uint16]()
	keyhash.ForType[uint32]()
	keyhash.ForType[uint64]()
	keyhash.ForType[float32]()
	keyhash.ForType[float64]()
	keyhash.ForType[string]()
}

func TestForType_UnsupportedTypePanics(t *testing.T) {
	t.Parallel()

	type compositeKey struct{ a, b int }

	defer func() {
		if recover() == nil {
			t.Error("expected ForType to panic for an unsupported key type")
		}
	}()
	keyhash.ForType[compositeKey]()
}
