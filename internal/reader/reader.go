// Package reader is a small read-only registry hive store. It maps a hive
// file, validates its bins once at open time and then resolves keys, subkeys
// and values on demand straight from the mapped buffer.
package reader

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joshuapare/shellbags/internal/format"
	"github.com/joshuapare/shellbags/internal/mmfile"
	"github.com/joshuapare/shellbags/pkg/types"
)

// Reader resolves keys and values of one hive image.
type Reader struct {
	buf     []byte
	unmap   func() error
	head    format.Header
	binsEnd int // absolute offset just past the last validated hive bin
	closed  bool
}

// Open maps the hive at path. A missing file yields an error wrapping
// types.ErrNotFound; a file without a valid REGF header yields
// types.ErrNotHive.
func Open(path string) (*Reader, error) {
	data, unmap, err := mmfile.Map(path)
	if err != nil {
		return nil, wrapIOErr(path, err)
	}
	r, err := newReader(data, unmap)
	if err != nil {
		_ = unmap()
		return nil, err
	}
	return r, nil
}

// OpenBytes creates a reader backed by the provided buffer.
func OpenBytes(buf []byte) (*Reader, error) {
	return newReader(buf, nil)
}

func newReader(buf []byte, unmap func() error) (*Reader, error) {
	head, err := format.ParseHeader(buf)
	if err != nil {
		return nil, wrapFormatErr(err)
	}
	r := &Reader{buf: buf, unmap: unmap, head: head}
	if err := r.validateHBINs(); err != nil {
		return nil, err
	}
	return r, nil
}

// Close releases the mapping. Calling Close more than once is harmless.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if r.unmap != nil {
		return r.unmap()
	}
	return nil
}

func (r *Reader) ensureOpen() error {
	if r.closed {
		return types.ErrClosed
	}
	return nil
}

// Info returns the base block metadata.
func (r *Reader) Info() types.HiveInfo {
	return types.HiveInfo{
		PrimarySequence:   r.head.PrimarySequence,
		SecondarySequence: r.head.SecondarySequence,
		LastWrite:         filetimeToTime(r.head.LastWriteRaw),
		MajorVersion:      r.head.MajorVersion,
		MinorVersion:      r.head.MinorVersion,
		RootCellOffset:    r.head.RootCellOffset,
		HiveBinsDataSize:  r.head.HiveBinsDataSize,
	}
}

// Root returns the NodeID of the hive's root key.
func (r *Reader) Root() (types.NodeID, error) {
	if err := r.ensureOpen(); err != nil {
		return 0, err
	}
	return types.NodeID(r.head.RootCellOffset), nil
}

// validateHBINs walks the bin chain once so later cell lookups only need a
// bounds check against binsEnd.
func (r *Reader) validateHBINs() error {
	offset := format.HeaderSize
	dataEnd := format.HeaderSize + int(r.head.HiveBinsDataSize)
	if dataEnd > len(r.buf) {
		dataEnd = len(r.buf)
	}
	for offset < dataEnd {
		_, next, err := format.NextHBIN(r.buf, offset)
		if err != nil {
			return wrapFormatErr(err)
		}
		offset = next
	}
	if offset == format.HeaderSize {
		return &types.Error{Kind: types.ErrKindCorrupt, Msg: "hive has no bins", Err: types.ErrCorrupt}
	}
	r.binsEnd = offset
	return nil
}

// cell resolves the allocated cell at offset (relative to the first bin).
func (r *Reader) cell(offset uint32) (format.Cell, error) {
	abs := format.HeaderSize + int(offset)
	if offset == format.InvalidOffset || abs >= r.binsEnd {
		return format.Cell{}, &types.Error{
			Kind: types.ErrKindCorrupt,
			Msg:  fmt.Sprintf("cell offset 0x%x out of range", offset),
			Err:  types.ErrCorrupt,
		}
	}
	c, err := format.ParseCell(r.buf[abs:r.binsEnd])
	if err != nil {
		return format.Cell{}, wrapFormatErr(err)
	}
	if c.Free {
		return format.Cell{}, &types.Error{
			Kind: types.ErrKindCorrupt,
			Msg:  fmt.Sprintf("cell 0x%x is marked free", offset),
			Err:  types.ErrCorrupt,
		}
	}
	return c, nil
}

func (r *Reader) nk(id types.NodeID) (format.NKRecord, error) {
	c, err := r.cell(uint32(id))
	if err != nil {
		return format.NKRecord{}, err
	}
	nk, err := format.DecodeNK(c.Data)
	if err != nil {
		return format.NKRecord{}, wrapFormatErr(err)
	}
	return nk, nil
}

// Windows FILETIME epoch (1601-01-01) expressed in 100ns ticks before Unix.
const filetimeUnixDelta = 116444736000000000

func filetimeToTime(ft uint64) time.Time {
	if ft == 0 {
		return time.Time{}
	}
	ticks := int64(ft) - filetimeUnixDelta
	return time.Unix(ticks/1e7, (ticks%1e7)*100).UTC()
}

func wrapIOErr(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return &types.Error{
			Kind: types.ErrKindNotFound,
			Msg:  fmt.Sprintf(`hive file "%s"`, path),
			Err:  types.ErrNotFound,
		}
	}
	return &types.Error{Kind: types.ErrKindState, Msg: fmt.Sprintf(`open hive "%s"`, path), Err: err}
}

func wrapFormatErr(err error) error {
	switch {
	case errors.Is(err, format.ErrSignatureMismatch):
		return &types.Error{Kind: types.ErrKindFormat, Msg: err.Error(), Err: types.ErrNotHive}
	case errors.Is(err, format.ErrTruncated):
		return &types.Error{Kind: types.ErrKindFormat, Msg: "hive truncated", Err: err}
	case errors.Is(err, format.ErrUnsupported):
		return &types.Error{Kind: types.ErrKindUnsupported, Msg: err.Error(), Err: types.ErrUnsupported}
	default:
		return &types.Error{Kind: types.ErrKindCorrupt, Msg: err.Error(), Err: err}
	}
}
