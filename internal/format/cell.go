package format

import (
	"errors"
	"fmt"

	"github.com/joshuapare/shellbags/internal/buf"
)

// Cell is one allocation inside an HBIN.
//
//	Offset  Size  Description
//	0x00    4     Signed size. Negative => allocated, positive => free.
//	              The absolute value includes the 4-byte header.
//	0x04    ...   Payload. First two bytes form the record tag when allocated.
type Cell struct {
	Size int
	Free bool
	Data []byte // payload, aliases the input
}

// Tag returns the two-byte record signature of the payload, if any.
func (c Cell) Tag() string {
	if len(c.Data) < SignatureSize {
		return ""
	}
	return string(c.Data[:SignatureSize])
}

// ParseCell decodes the cell starting at b[0].
func ParseCell(b []byte) (Cell, error) {
	if len(b) < CellHeaderSize {
		return Cell{}, fmt.Errorf("cell: %w", ErrTruncated)
	}
	raw := buf.I32LE(b)
	if raw == 0 {
		return Cell{}, errors.New("cell: zero length")
	}
	size := int(raw)
	free := raw > 0
	if !free {
		size = -size
	}
	if size < CellHeaderSize || size > len(b) {
		return Cell{}, fmt.Errorf("cell: %w (size %d, have %d)", ErrTruncated, size, len(b))
	}
	return Cell{Size: size, Free: free, Data: b[CellHeaderSize:size]}, nil
}
