package shellbags

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/shellbags/internal/hivetest"
	"github.com/joshuapare/shellbags/internal/reader"
	"github.com/joshuapare/shellbags/pkg/types"
)

// computerGUIDBytes is the on-disk form of {20D04FE0-3AEA-1069-A2D8-08002B30309D}.
var computerGUIDBytes = []byte{
	0xe0, 0x4f, 0xd0, 0x20, 0xea, 0x3a, 0x69, 0x10,
	0xa2, 0xd8, 0x08, 0x00, 0x2b, 0x30, 0x30, 0x9d,
}

const testExtOffset = 0x20

// folderItem builds a folder shell item whose extension block starts at
// testExtOffset and whose name is NUL terminated.
func folderItem(typ byte, name string, modified, created, accessed time.Time) []byte {
	rec := make([]byte, testExtOffset+extNameOffset)
	rec[0] = byte(len(rec))
	rec[itemTypeOffset] = typ
	m := EncodeFATTime(modified)
	copy(rec[itemModifiedOffset:], m[:])
	c := EncodeFATTime(created)
	copy(rec[testExtOffset+extCreatedOffset:], c[:])
	a := EncodeFATTime(accessed)
	copy(rec[testExtOffset+extAccessedOffset:], a[:])
	rec = append(rec, hivetest.UTF16(name)...)
	rec = append(rec, 0, 0)
	trailer := make([]byte, itemNameTrailerSize)
	trailer[itemNameTrailerSize-itemExtOffsetFromEnd] = testExtOffset
	return append(rec, trailer...)
}

func thisPCItem() []byte {
	rec := []byte{0x14, 0x00, 0x1f, rootTypeComputer}
	return append(rec, computerGUIDBytes...)
}

func driveItem(letter byte) []byte {
	rec := make([]byte, 0x19)
	rec[0] = 0x19
	rec[driveTypeOffset] = driveType
	copy(rec[driveLabelStart:], []byte{letter, ':', '\\'})
	return rec
}

var (
	t1 = time.Date(2023, 1, 15, 3, 34, 56, 0, time.UTC)
	t2 = time.Date(2022, 12, 31, 23, 59, 58, 0, time.UTC)
	t3 = time.Date(2024, 2, 29, 15, 0, 0, 0, time.UTC)
)

func openHive(t *testing.T, root *hivetest.Key, path string) (*reader.Reader, types.NodeID) {
	t.Helper()
	r, err := reader.OpenBytes(hivetest.Build(root))
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	id, err := r.Find(path)
	require.NoError(t, err)
	return r, id
}
