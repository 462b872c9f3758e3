// Package hivetest synthesizes small registry hive images for tests.
//
// The generator lays every cell out in a single hive bin, in the order keys
// and values were added, so enumeration order in the produced hive matches
// the order of the builder calls.
package hivetest

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"

	"github.com/joshuapare/shellbags/internal/format"
)

// BigDataThreshold is the largest value payload stored in a single cell.
// Larger payloads are split across a db record.
const BigDataThreshold = 16344

// Key is one key in the hive being generated.
type Key struct {
	Name      string
	LastWrite time.Time // zero leaves the stamp empty; on the root it also stamps the header
	Values    []Value
	Subkeys   []*Key
}

// Value is one value of a Key.
type Value struct {
	Name string
	Type uint32
	Data []byte
}

// NewKey creates a detached key; use it as the hive root.
func NewKey(name string) *Key {
	return &Key{Name: name}
}

// AddKey appends a subkey and returns it.
func (k *Key) AddKey(name string) *Key {
	child := NewKey(name)
	k.Subkeys = append(k.Subkeys, child)
	return child
}

// Path creates (or reuses) the chain of subkeys named by segs.
func (k *Key) Path(segs ...string) *Key {
	cur := k
	for _, s := range segs {
		var next *Key
		for _, c := range cur.Subkeys {
			if c.Name == s {
				next = c
				break
			}
		}
		if next == nil {
			next = cur.AddKey(s)
		}
		cur = next
	}
	return cur
}

// SetBinary appends a REG_BINARY value and returns k for chaining.
func (k *Key) SetBinary(name string, data []byte) *Key {
	k.Values = append(k.Values, Value{Name: name, Type: format.REGBinary, Data: data})
	return k
}

// Build renders the hive rooted at root into a complete REGF image.
func Build(root *Key) []byte {
	b := &builder{bin: make([]byte, format.HBINHeaderSize)}
	rootOff := b.writeKey(root, format.InvalidOffset)
	return b.finish(rootOff, root.LastWrite)
}

// WriteFile builds the hive and stores it under t.TempDir().
func WriteFile(t testing.TB, root *Key) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "UsrClass.dat")
	if err := os.WriteFile(path, Build(root), 0o600); err != nil {
		t.Fatalf("write hive: %v", err)
	}
	return path
}

type builder struct {
	bin []byte // hive bin contents, offsets are relative to its start
}

// alloc reserves an allocated cell for n payload bytes and returns the
// offset of the cell and its payload slice.
func (b *builder) alloc(n int) (uint32, []byte) {
	size := (format.CellHeaderSize + n + 7) &^ 7
	off := len(b.bin)
	b.bin = append(b.bin, make([]byte, size)...)
	binary.LittleEndian.PutUint32(b.bin[off:], uint32(-int32(size)))
	return uint32(off), b.bin[off+format.CellHeaderSize : off+size]
}

// payload returns the payload of the cell at off. Slices handed out by alloc
// go stale once the bin grows, so patching always goes through here.
func (b *builder) payload(off uint32) []byte {
	size := -int32(binary.LittleEndian.Uint32(b.bin[off:]))
	return b.bin[int(off)+format.CellHeaderSize : int(off)+int(size)]
}

func (b *builder) writeKey(k *Key, parent uint32) uint32 {
	name, compressed := encodeName(k.Name)
	off, p := b.alloc(format.NKMinSize + len(name))
	copy(p, format.NKSignature)
	var flags uint16
	if compressed {
		flags |= format.NKFlagCompressedName
	}
	binary.LittleEndian.PutUint16(p[format.NKFlagsOffset:], flags)
	binary.LittleEndian.PutUint64(p[format.NKLastWriteOffset:], Filetime(k.LastWrite))
	binary.LittleEndian.PutUint32(p[format.NKParentOffset:], parent)
	binary.LittleEndian.PutUint16(p[format.NKNameLenOffset:], uint16(len(name)))
	copy(p[format.NKNameOffset:], name)

	valueList := uint32(format.InvalidOffset)
	if len(k.Values) > 0 {
		vks := make([]uint32, len(k.Values))
		for i, v := range k.Values {
			vks[i] = b.writeValue(v)
		}
		var lp []byte
		valueList, lp = b.alloc(len(vks) * format.OffsetFieldSize)
		for i, vk := range vks {
			binary.LittleEndian.PutUint32(lp[i*format.OffsetFieldSize:], vk)
		}
	}

	subList := uint32(format.InvalidOffset)
	if len(k.Subkeys) > 0 {
		children := make([]uint32, len(k.Subkeys))
		for i, c := range k.Subkeys {
			children[i] = b.writeKey(c, off)
		}
		var lp []byte
		subList, lp = b.alloc(format.ListHeaderSize + len(children)*format.LFEntrySize)
		copy(lp, format.LFSignature)
		binary.LittleEndian.PutUint16(lp[format.SignatureSize:], uint16(len(children)))
		for i, c := range children {
			entry := lp[format.ListHeaderSize+i*format.LFEntrySize:]
			binary.LittleEndian.PutUint32(entry, c)
			copy(entry[format.OffsetFieldSize:format.LFEntrySize], k.Subkeys[i].Name)
		}
	}

	p = b.payload(off)
	binary.LittleEndian.PutUint32(p[format.NKSubkeyCountOffset:], uint32(len(k.Subkeys)))
	binary.LittleEndian.PutUint32(p[format.NKSubkeyListOffset:], subList)
	binary.LittleEndian.PutUint32(p[format.NKValueCountOffset:], uint32(len(k.Values)))
	binary.LittleEndian.PutUint32(p[format.NKValueListOffset:], valueList)
	return off
}

func (b *builder) writeValue(v Value) uint32 {
	var dataLen, dataOff uint32
	switch n := len(v.Data); {
	case n <= 4:
		dataLen = format.VKDataInlineBit | uint32(n)
		var inline [4]byte
		copy(inline[:], v.Data)
		dataOff = binary.LittleEndian.Uint32(inline[:])
	case n > BigDataThreshold:
		dataLen = uint32(n)
		dataOff = b.writeBigData(v.Data)
	default:
		dataLen = uint32(n)
		var p []byte
		dataOff, p = b.alloc(n)
		copy(p, v.Data)
	}

	name, compressed := encodeName(v.Name)
	off, p := b.alloc(format.VKMinSize + len(name))
	copy(p, format.VKSignature)
	binary.LittleEndian.PutUint16(p[format.VKNameLenOffset:], uint16(len(name)))
	binary.LittleEndian.PutUint32(p[format.VKDataLenOffset:], dataLen)
	binary.LittleEndian.PutUint32(p[format.VKDataOffOffset:], dataOff)
	binary.LittleEndian.PutUint32(p[format.VKTypeOffset:], v.Type)
	if compressed {
		binary.LittleEndian.PutUint16(p[format.VKFlagsOffset:], format.VKFlagASCIIName)
	}
	copy(p[format.VKNameOffset:], name)
	return off
}

func (b *builder) writeBigData(data []byte) uint32 {
	var blocks []uint32
	for len(data) > 0 {
		n := min(len(data), BigDataThreshold)
		off, p := b.alloc(n + format.DBBlockPadding)
		copy(p, data[:n])
		blocks = append(blocks, off)
		data = data[n:]
	}
	listOff, lp := b.alloc(len(blocks) * format.OffsetFieldSize)
	for i, blk := range blocks {
		binary.LittleEndian.PutUint32(lp[i*format.OffsetFieldSize:], blk)
	}
	off, p := b.alloc(format.DBMinSize)
	copy(p, format.DBSignature)
	binary.LittleEndian.PutUint16(p[format.DBCountOffset:], uint16(len(blocks)))
	binary.LittleEndian.PutUint32(p[format.DBListOffset:], listOff)
	return off
}

func (b *builder) finish(rootOff uint32, lastWrite time.Time) []byte {
	if rem := len(b.bin) % format.HBINAlignment; rem != 0 {
		free := format.HBINAlignment - rem
		start := len(b.bin)
		b.bin = append(b.bin, make([]byte, free)...)
		binary.LittleEndian.PutUint32(b.bin[start:], uint32(free))
	}
	copy(b.bin, format.HBINSignature)
	binary.LittleEndian.PutUint32(b.bin[format.HBINSizeOffset:], uint32(len(b.bin)))

	out := make([]byte, format.HeaderSize, format.HeaderSize+len(b.bin))
	copy(out, format.REGFSignature)
	binary.LittleEndian.PutUint32(out[format.REGFPrimarySeqOffset:], 1)
	binary.LittleEndian.PutUint32(out[format.REGFSecondarySeqOffset:], 1)
	binary.LittleEndian.PutUint64(out[format.REGFTimeStampOffset:], Filetime(lastWrite))
	binary.LittleEndian.PutUint32(out[format.REGFMajorVersionOffset:], 1)
	binary.LittleEndian.PutUint32(out[format.REGFMinorVersionOffset:], 5)
	binary.LittleEndian.PutUint32(out[format.REGFRootCellOffset:], rootOff)
	binary.LittleEndian.PutUint32(out[format.REGFDataSizeOffset:], uint32(len(b.bin)))
	var sum uint32
	for i := 0; i < 0x1FC; i += 4 {
		sum ^= binary.LittleEndian.Uint32(out[i:])
	}
	binary.LittleEndian.PutUint32(out[0x1FC:], sum)
	return append(out, b.bin...)
}

// encodeName returns the on-disk form of a key or value name and whether it
// fits the compressed single-byte form.
func encodeName(s string) ([]byte, bool) {
	ascii := true
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			ascii = false
			break
		}
	}
	if ascii {
		return []byte(s), true
	}
	return UTF16(s), false
}

// UTF16 encodes s as UTF-16LE without a byte-order mark.
func UTF16(s string) []byte {
	out, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder().Bytes([]byte(s))
	if err != nil {
		panic(err)
	}
	return out
}

// Filetime converts t to 100ns ticks since 1601-01-01 UTC. The zero time
// gives 0.
func Filetime(t time.Time) uint64 {
	if t.IsZero() {
		return 0
	}
	const unixDelta = 116444736000000000
	return uint64(t.UnixNano()/100 + unixDelta)
}
