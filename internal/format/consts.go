// Package format houses the low-level decoders for the parts of the Windows
// Registry hive file format that a read-only walker needs: the REGF header,
// hive bins, cells, key (nk) and value (vk) records, subkey/value lists and
// big-data (db) records.
package format

var (
	// REGFSignature is the four-byte signature at the start of every hive file.
	REGFSignature = []byte{'r', 'e', 'g', 'f'}

	// HBINSignature is the four-byte signature at the beginning of each hive bin.
	HBINSignature = []byte{'h', 'b', 'i', 'n'}

	NKSignature = []byte{'n', 'k'}
	VKSignature = []byte{'v', 'k'}

	// LF/LH entries carry a name hint or hash, LI is a bare offset array.
	LFSignature = []byte{'l', 'f'}
	LHSignature = []byte{'l', 'h'}
	LISignature = []byte{'l', 'i'}

	// RISignature marks an indirect list whose entries point at other lists.
	RISignature = []byte{'r', 'i'}

	// DBSignature identifies a big-data record for values above one cell.
	DBSignature = []byte{'d', 'b'}
)

const (
	// HeaderSize is the size of the REGF base block.
	HeaderSize = 4096

	// HBINHeaderSize is the size of the HBIN header in bytes.
	HBINHeaderSize = 0x20

	// CellHeaderSize is the signed size field preceding every cell.
	CellHeaderSize = 4

	// HBINAlignment is the required alignment of hive bin sizes.
	HBINAlignment = 0x1000

	// InvalidOffset marks an unused cell reference.
	InvalidOffset = 0xFFFFFFFF

	SignatureSize   = 2
	ListHeaderSize  = 4
	OffsetFieldSize = 4
	LFEntrySize     = 8
)

// REGF base block field offsets.
const (
	REGFSignatureSize      = 4
	REGFPrimarySeqOffset   = 0x004
	REGFSecondarySeqOffset = 0x008
	REGFTimeStampOffset    = 0x00C
	REGFMajorVersionOffset = 0x014
	REGFMinorVersionOffset = 0x018
	REGFTypeOffset         = 0x01C
	REGFRootCellOffset     = 0x024
	REGFDataSizeOffset     = 0x028
)

// HBIN header field offsets.
const (
	HBINFileOffsetField = 0x04
	HBINSizeOffset      = 0x08
)

// NK field offsets within the record (payload start == "nk").
//
//	Offset  Size  Field
//	0x00    2     'n' 'k'
//	0x02    2     Flags (0x20 => name stored as Windows-1252)
//	0x04    8     Last write time (FILETIME)
//	0x10    4     Parent cell offset
//	0x14    4     Number of subkeys
//	0x1C    4     Offset to subkey list
//	0x24    4     Number of values
//	0x28    4     Offset to value list
//	0x48    2     Name length
//	0x4C    n     Name bytes
const (
	NKFlagsOffset       = 0x02
	NKLastWriteOffset   = 0x04
	NKParentOffset      = 0x10
	NKSubkeyCountOffset = 0x14
	NKSubkeyListOffset  = 0x1C
	NKValueCountOffset  = 0x24
	NKValueListOffset   = 0x28
	NKNameLenOffset     = 0x48
	NKNameOffset        = 0x4C

	NKMinSize = NKNameOffset

	NKFlagCompressedName = 0x20
)

// VK field offsets within the record (payload start == "vk").
const (
	VKNameLenOffset = 0x02
	VKDataLenOffset = 0x04
	VKDataOffOffset = 0x08
	VKTypeOffset    = 0x0C
	VKFlagsOffset   = 0x10
	VKNameOffset    = 0x14

	VKMinSize = VKNameOffset

	VKFlagASCIIName  = 0x0001
	VKDataInlineBit  = 0x80000000
	VKDataLengthMask = 0x7FFFFFFF
)

// DB record layout and block constants.
const (
	DBCountOffset = 0x02
	DBListOffset  = 0x04
	DBMinSize     = 0x0C

	// DBBlockPadding is the trailing slack of every data block that is not
	// part of the value payload.
	DBBlockPadding = 4
)

// Sanity limits applied while decoding untrusted hives.
const (
	MaxSubkeyCount  = 512 * 1024
	MaxValueCount   = 512 * 1024
	MaxNameLen      = 16 * 1024
	MaxValueDataLen = 64 << 20
)

// REGBinary is the value type shell items are stored as.
const REGBinary uint32 = 3
