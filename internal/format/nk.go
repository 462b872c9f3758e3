package format

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/shellbags/internal/buf"
)

// NKRecord holds the fields of a key record used while walking a hive.
type NKRecord struct {
	Flags            uint16
	LastWriteRaw     uint64
	ParentOffset     uint32
	SubkeyCount      uint32
	SubkeyListOffset uint32
	ValueCount       uint32
	ValueListOffset  uint32
	NameRaw          []byte
}

// NameIsCompressed returns true when the name is stored in 8-bit form.
func (nk NKRecord) NameIsCompressed() bool {
	return nk.Flags&NKFlagCompressedName != 0
}

// HasSubkeys reports whether the record points at a usable subkey list.
func (nk NKRecord) HasSubkeys() bool {
	return nk.SubkeyCount != 0 && nk.SubkeyListOffset != InvalidOffset
}

// HasValues reports whether the record points at a usable value list.
func (nk NKRecord) HasValues() bool {
	return nk.ValueCount != 0 && nk.ValueListOffset != InvalidOffset
}

// DecodeNK decodes an NK record payload.
func DecodeNK(b []byte) (NKRecord, error) {
	if len(b) < NKMinSize {
		return NKRecord{}, fmt.Errorf("nk: %w (have %d, need %d)", ErrTruncated, len(b), NKMinSize)
	}
	if !bytes.Equal(b[:SignatureSize], NKSignature) {
		return NKRecord{}, fmt.Errorf("nk: %w", ErrSignatureMismatch)
	}

	nk := NKRecord{
		Flags:            buf.U16LE(b[NKFlagsOffset:]),
		LastWriteRaw:     buf.U64LE(b[NKLastWriteOffset:]),
		ParentOffset:     buf.U32LE(b[NKParentOffset:]),
		SubkeyCount:      buf.U32LE(b[NKSubkeyCountOffset:]),
		SubkeyListOffset: buf.U32LE(b[NKSubkeyListOffset:]),
		ValueCount:       buf.U32LE(b[NKValueCountOffset:]),
		ValueListOffset:  buf.U32LE(b[NKValueListOffset:]),
	}
	if nk.SubkeyCount > MaxSubkeyCount {
		return NKRecord{}, fmt.Errorf("nk subkey count %d exceeds limit %d: %w",
			nk.SubkeyCount, MaxSubkeyCount, ErrSanityLimit)
	}
	if nk.ValueCount > MaxValueCount {
		return NKRecord{}, fmt.Errorf("nk value count %d exceeds limit %d: %w",
			nk.ValueCount, MaxValueCount, ErrSanityLimit)
	}

	nameLen := int(buf.U16LE(b[NKNameLenOffset:]))
	if nameLen > MaxNameLen {
		return NKRecord{}, fmt.Errorf("nk name len %d exceeds limit %d: %w",
			nameLen, MaxNameLen, ErrSanityLimit)
	}
	name, ok := buf.Slice(b, NKNameOffset, nameLen)
	if !ok {
		return NKRecord{}, fmt.Errorf("nk name: %w (need %d bytes from %d, have %d)",
			ErrTruncated, nameLen, NKNameOffset, len(b))
	}
	nk.NameRaw = name
	return nk, nil
}
