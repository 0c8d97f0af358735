// Package keyhash builds hash functions for cache key types, used to select
// buckets in distributed in-memory stores.
package keyhash

import (
	"encoding/binary"
	"fmt"
	"hash"
	"hash/fnv"
	"math"
	"sync"

	"github.com/goccy/go-reflect"
)

const (
	// intSize is the size of an int in bits.
	intSize = 32 << (^uint(0) >> 63)
)

// ForType returns a FNV-1a hash function for the key type K.
// It supports the primitive comparable types; other key types need an
// explicit hash function and make ForType panic.
func ForType[K comparable]() func(K) int {
	var zero K
	switch any(zero).(type) {
	case int:
		return func(k K) int {
			if intSize == 32 {
				var b [4]byte
				binary.BigEndian.PutUint32(b[:], uint32(any(k).(int)))
				return hashBytes(b[:])
			}
			var b [8]byte
			binary.BigEndian.PutUint64(b[:], uint64(any(k).(int)))
			return hashBytes(b[:])
		}
	case int8:
		return func(k K) int {
			b := [1]byte{uint8(any(k).(int8))}
			return hashBytes(b[:])
		}
	case int16:
		return func(k K) int {
			var b [2]byte
			binary.BigEndian.PutUint16(b[:], uint16(any(k).(int16)))
			return hashBytes(b[:])
		}
	case int32:
		return func(k K) int {
			var b [4]byte
			binary.BigEndian.PutUint32(b[:], uint32(any(k).(int32)))
			return hashBytes(b[:])
		}
	case int64:
		return func(k K) int {
			var b [8]byte
			binary.BigEndian.PutUint64(b[:], uint64(any(k).(int64)))
			return hashBytes(b[:])
		}
	case uint:
		return func(k K) int {
			if intSize == 32 {
				var b [4]byte
				binary.BigEndian.PutUint32(b[:], uint32(any(k).(uint)))
				return hashBytes(b[:])
			}
			var b [8]byte
			binary.BigEndian.PutUint64(b[:], uint64(any(k).(uint)))
			return hashBytes(b[:])
		}
	case uint8:
		return func(k K) int {
			b := [1]byte{any(k).(uint8)}
			return hashBytes(b[:])
		}
	case uint16:
		return func(k K) int {
			var b [2]byte
			binary.BigEndian.PutUint16(b[:], any(k).(uint16))
			return hashBytes(b[:])
		}
	case uint32:
		return func(k K) int {
			var b [4]byte
			binary.BigEndian.PutUint32(b[:], any(k).(uint32))
			return hashBytes(b[:])
		}
	case uint64:
		return func(k K) int {
			var b [8]byte
			binary.BigEndian.PutUint64(b[:], any(k).(uint64))
			return hashBytes(b[:])
		}
	case float32:
		return func(k K) int {
			var b [4]byte
			binary.BigEndian.PutUint32(b[:], math.Float32bits(any(k).(float32)))
			return hashBytes(b[:])
		}
	case float64:
		return func(k K) int {
			var b [8]byte
			binary.BigEndian.PutUint64(b[:], math.Float64bits(any(k).(float64)))
			return hashBytes(b[:])
		}
	case string:
		return func(k K) int {
			return hashString(any(k).(string))
		}
	default:
		panic(fmt.Sprintf("keyhash: unsupported key type %s", reflect.TypeOf(zero)))
	}
}

// hash32Pool is a pool for 32-bit FNV-1a hash objects.
var hash32Pool = sync.Pool{
	New: func() any {
		return fnv.New32a()
	},
}

// hash64Pool is a pool for 64-bit FNV-1a hash objects.
var hash64Pool = sync.Pool{
	New: func() any {
		return fnv.New64a()
	},
}

// hashBytes computes the FNV-1a hash of the given bytes, sized to the
// platform's int.
func hashBytes(b []byte) int {
	if intSize == 32 {
		h := hash32Pool.Get().(hash.Hash32)
		defer hash32Pool.Put(h)
		h.Reset()
		_, _ = h.Write(b)
		return int(h.Sum32())
	}

	h := hash64Pool.Get().(hash.Hash64)
	defer hash64Pool.Put(h)
	h.Reset()
	_, _ = h.Write(b)
	return int(h.Sum64())
}

func hashString(s string) int {
	return hashBytes([]byte(s))
}
