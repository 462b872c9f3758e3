package shellbags

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/joshuapare/shellbags/internal/buf"
)

// ComputerFolderID is the "Computer" (This PC) folder identifier as GUID.String
// renders it. Groups are printed without zero padding, so the last group
// reads 8002b30309d rather than 08002b30309d.
const ComputerFolderID = "{20d04fe0-3aea-1069-a2d8-8002b30309d}"

// GUID is a 16-byte Windows GUID in its on-disk byte order.
type GUID [16]byte

// DecodeGUID copies the first 16 bytes of b.
func DecodeGUID(b []byte) (GUID, error) {
	var g GUID
	if len(b) < len(g) {
		return g, fmt.Errorf("guid: need %d bytes, have %d", len(g), len(b))
	}
	copy(g[:], b)
	return g, nil
}

// String renders {g1-g2-g3-g4-g5} in lower-case hex. The first three groups
// are little-endian, the last two big-endian, and every group is printed at
// its minimal width.
func (g GUID) String() string {
	return fmt.Sprintf("{%x-%x-%x-%x-%x}",
		buf.U32LE(g[0:4]), buf.U16LE(g[4:6]), buf.U16LE(g[6:8]),
		buf.U16BE(g[8:10]), buf.U48BE(g[10:16]))
}

// UUID returns the identifier as an RFC 4122 UUID, whose String method
// yields the canonical zero-padded form.
func (g GUID) UUID() uuid.UUID {
	var u uuid.UUID
	u[0], u[1], u[2], u[3] = g[3], g[2], g[1], g[0]
	u[4], u[5] = g[5], g[4]
	u[6], u[7] = g[7], g[6]
	copy(u[8:], g[8:])
	return u
}
