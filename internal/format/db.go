package format

import (
	"fmt"

	"github.com/joshuapare/shellbags/internal/buf"
)

// DBRecord is a big-data record. Values too large for one cell point at a db
// cell, which points at a blocklist cell holding the offsets of the data
// blocks to concatenate.
//
//	Offset  Size  Field
//	0x00    2     'd' 'b'
//	0x02    2     Number of blocks
//	0x04    4     Blocklist cell offset
type DBRecord struct {
	NumBlocks       uint16
	BlocklistOffset uint32
}

// IsDBRecord checks if the given cell data starts with the "db" signature.
func IsDBRecord(b []byte) bool {
	return len(b) >= SignatureSize && b[0] == DBSignature[0] && b[1] == DBSignature[1]
}

// DecodeDB decodes a big-data record from a cell payload.
func DecodeDB(b []byte) (DBRecord, error) {
	if len(b) < DBMinSize {
		return DBRecord{}, fmt.Errorf("db: %w (need %d bytes, have %d)", ErrTruncated, DBMinSize, len(b))
	}
	if !IsDBRecord(b) {
		return DBRecord{}, fmt.Errorf("db: %w", ErrSignatureMismatch)
	}
	return DBRecord{
		NumBlocks:       buf.U16LE(b[DBCountOffset:]),
		BlocklistOffset: buf.U32LE(b[DBListOffset:]),
	}, nil
}
