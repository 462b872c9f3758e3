package format

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/shellbags/internal/buf"
)

// HBIN describes a hive bin header:
//
//	Offset  Size  Field
//	0x00    4     'h' 'b' 'i' 'n'
//	0x04    4     Offset of this bin relative to the first bin
//	0x08    4     Size of the bin, multiple of 0x1000
type HBIN struct {
	FileOffset uint32
	Size       uint32
}

// NextHBIN validates the HBIN header located at off within b and returns the
// header along with the offset of the subsequent HBIN.
func NextHBIN(b []byte, off int) (HBIN, int, error) {
	head, ok := buf.Slice(b, off, HBINHeaderSize)
	if !ok {
		return HBIN{}, 0, fmt.Errorf("hbin: %w", ErrTruncated)
	}
	if !bytes.Equal(head[:len(HBINSignature)], HBINSignature) {
		return HBIN{}, 0, fmt.Errorf("hbin at 0x%x: %w", off, ErrSignatureMismatch)
	}
	size := buf.U32LE(head[HBINSizeOffset:])
	if size == 0 || size%HBINAlignment != 0 {
		return HBIN{}, 0, fmt.Errorf("hbin at 0x%x: invalid size %d", off, size)
	}
	next := off + int(size)
	if next > len(b) {
		return HBIN{}, 0, fmt.Errorf("hbin at 0x%x: %w", off, ErrTruncated)
	}
	return HBIN{FileOffset: buf.U32LE(head[HBINFileOffsetField:]), Size: size}, next, nil
}
