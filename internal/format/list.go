package format

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/shellbags/internal/buf"
)

// DecodeSubkeyList extracts NK offsets from a leaf list (li, lf, lh). When
// expected is non-zero it caps the number of entries read.
func DecodeSubkeyList(b []byte, expected uint32) ([]uint32, error) {
	if len(b) < ListHeaderSize {
		return nil, fmt.Errorf("subkey list: %w", ErrTruncated)
	}
	count := uint32(buf.U16LE(b[SignatureSize:]))
	if expected != 0 && expected < count {
		count = expected
	}
	sig := b[:SignatureSize]
	switch {
	case bytes.Equal(sig, LISignature):
		return readOffsets(b[ListHeaderSize:], count, OffsetFieldSize, "li list")
	case bytes.Equal(sig, LFSignature), bytes.Equal(sig, LHSignature):
		return readOffsets(b[ListHeaderSize:], count, LFEntrySize, "lf list")
	default:
		return nil, fmt.Errorf("subkey list %q: %w", sig, ErrUnsupported)
	}
}

// IsRIList reports whether b holds an indirect (ri) subkey list.
func IsRIList(b []byte) bool {
	return len(b) >= SignatureSize && bytes.Equal(b[:SignatureSize], RISignature)
}

// DecodeRIList returns the offsets of the leaf lists referenced by an ri list.
func DecodeRIList(b []byte) ([]uint32, error) {
	if len(b) < ListHeaderSize {
		return nil, fmt.Errorf("ri list: %w", ErrTruncated)
	}
	if !IsRIList(b) {
		return nil, fmt.Errorf("ri list: %w", ErrSignatureMismatch)
	}
	count := uint32(buf.U16LE(b[SignatureSize:]))
	return readOffsets(b[ListHeaderSize:], count, OffsetFieldSize, "ri list")
}

// DecodeValueList decodes a value list containing offsets to VK records.
func DecodeValueList(b []byte, count uint32) ([]uint32, error) {
	if count == 0 {
		return nil, nil
	}
	return readOffsets(b, count, OffsetFieldSize, "value list")
}

// readOffsets reads count little-endian cell offsets spaced stride bytes apart.
func readOffsets(b []byte, count uint32, stride int, what string) ([]uint32, error) {
	if uint64(len(b)) < uint64(count)*uint64(stride) {
		return nil, fmt.Errorf("%s: %w", what, ErrTruncated)
	}
	out := make([]uint32, count)
	for i := range out {
		out[i] = buf.U32LE(b[i*stride:])
	}
	return out, nil
}
