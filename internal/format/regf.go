package format

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/shellbags/internal/buf"
)

// Header captures the subset of the REGF base block needed to walk a hive.
//
//	Offset  Size  Description
//	0x000   4     'r' 'e' 'g' 'f'
//	0x004   4     Primary sequence number
//	0x008   4     Secondary sequence number
//	0x00C   8     Last write timestamp (FILETIME)
//	0x014   4     Major version
//	0x018   4     Minor version
//	0x01C   4     Type (0 = primary)
//	0x024   4     Root cell offset, relative to the first HBIN
//	0x028   4     Total size of HBIN data
type Header struct {
	PrimarySequence   uint32
	SecondarySequence uint32
	LastWriteRaw      uint64
	MajorVersion      uint32
	MinorVersion      uint32
	Type              uint32
	RootCellOffset    uint32
	HiveBinsDataSize  uint32
}

// ParseHeader validates and extracts key fields from a REGF header.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("regf header: %w", ErrTruncated)
	}
	if !bytes.Equal(b[:REGFSignatureSize], REGFSignature) {
		return Header{}, fmt.Errorf("regf header: %w", ErrSignatureMismatch)
	}
	return Header{
		PrimarySequence:   buf.U32LE(b[REGFPrimarySeqOffset:]),
		SecondarySequence: buf.U32LE(b[REGFSecondarySeqOffset:]),
		LastWriteRaw:      buf.U64LE(b[REGFTimeStampOffset:]),
		MajorVersion:      buf.U32LE(b[REGFMajorVersionOffset:]),
		MinorVersion:      buf.U32LE(b[REGFMinorVersionOffset:]),
		Type:              buf.U32LE(b[REGFTypeOffset:]),
		RootCellOffset:    buf.U32LE(b[REGFRootCellOffset:]),
		HiveBinsDataSize:  buf.U32LE(b[REGFDataSizeOffset:]),
	}, nil
}
