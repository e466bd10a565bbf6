package store

import (
	"errors"
	"fmt"

	"github.com/golang/snappy"
)

// Cached values carry a one-byte frame header so reads can tell raw
// payloads from compressed ones.
const (
	frameRaw    byte = 0
	frameSnappy byte = 1
)

var errCorruptFrame = errors.New("store: corrupted value frame")

// encodeValue frames v, compressing it when the threshold is enabled and
// met. Compression is kept only when it actually shrinks the payload.
func (s *Store) encodeValue(v []byte) []byte {
	if s.compressThreshold > 0 && len(v) >= s.compressThreshold {
		packed := snappy.Encode(nil, v)
		if len(packed) < len(v) {
			out := make([]byte, len(packed)+1)
			out[0] = frameSnappy
			copy(out[1:], packed)
			return out
		}
	}
	out := make([]byte, len(v)+1)
	out[0] = frameRaw
	copy(out[1:], v)
	return out
}

func decodeValue(raw []byte) ([]byte, error) {
	if len(raw) == 0 {
		return nil, errCorruptFrame
	}
	payload := raw[1:]
	switch raw[0] {
	case frameRaw:
		return payload, nil
	case frameSnappy:
		v, err := snappy.Decode(nil, payload)
		if err != nil {
			return nil, fmt.Errorf("store: corrupted value: %w", err)
		}
		return v, nil
	default:
		return nil, errCorruptFrame
	}
}
