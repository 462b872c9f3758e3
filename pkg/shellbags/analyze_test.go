package shellbags

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/joshuapare/shellbags/internal/hivetest"
	"github.com/joshuapare/shellbags/pkg/types"
)

// usrClass builds a UsrClass.dat-like hive: This PC under BagMRU\1, drive C:
// under BagMRU\1\0, and Documents\Reports below the drive.
func usrClass() *hivetest.Key {
	root := hivetest.NewKey("S-1-5-21-1004_Classes")
	bag := root.Path("Local Settings", "Software", "Microsoft", "Windows", "Shell", "BagMRU")
	bag.SetBinary("0", []byte{0x14, 0x00, 0x1f, 0x44, 0x47, 0x1a, 0x03, 0x59})
	bag.SetBinary("1", thisPCItem())
	bag.SetBinary("MRUListEx", []byte{1, 0, 0, 0, 0, 0, 0, 0, 0xff, 0xff, 0xff, 0xff})
	bag.AddKey("0")

	pc := bag.AddKey("1")
	pc.SetBinary("0", driveItem('C'))
	pc.SetBinary("1", folderItem(TypeFolder, "not a drive", t1, t1, t1))
	pc.AddKey("1")

	drive := pc.AddKey("0")
	drive.SetBinary("0", folderItem(TypeFolder, "Documents", t1, t2, t3))
	docs := drive.AddKey("0")
	docs.SetBinary("0", folderItem(TypeFolderUnicode, "Reports", t2, t3, t1))
	docs.AddKey("0")
	return root
}

func TestAnalyzeFileEndToEnd(t *testing.T) {
	path := hivetest.WriteFile(t, usrClass())

	core, logs := observer.New(zapcore.InfoLevel)
	tree, err := AnalyzeFile(path, WithLogger(zap.New(core)))
	require.NoError(t, err)

	rows := Flatten(tree)
	require.Len(t, rows, 4)

	want := []struct{ key, path string }{
		{`1`, `Desktop\This PC`},
		{`1\0`, `Desktop\This PC\C:`},
		{`1\0\0`, `Desktop\This PC\C:\Documents`},
		{`1\0\0\0`, `Desktop\This PC\C:\Documents\Reports`},
	}
	for i, w := range want {
		assert.Equal(t, w.key, rows[i].Key)
		assert.Equal(t, w.path, rows[i].Path)
	}

	assert.Equal(t, 2, rows[0].SubkeyCount)
	assert.Equal(t, 1, rows[1].SubkeyCount)
	assert.Equal(t, 1, rows[2].SubkeyCount)
	assert.Equal(t, 0, rows[3].SubkeyCount)

	for _, r := range rows[:2] {
		assert.False(t, r.Created.Valid())
		assert.False(t, r.Modified.Valid())
		assert.False(t, r.Accessed.Valid())
	}
	assert.Equal(t, "2023-01-15 12:34:56+09:00", rows[2].Modified.String())
	assert.Equal(t, "2023-01-01 08:59:58+09:00", rows[2].Created.String())
	assert.Equal(t, "2024-03-01 00:00:00+09:00", rows[2].Accessed.String())
	assert.Equal(t, "2023-01-01 08:59:58+09:00", rows[3].Modified.String())

	pcLogs := logs.FilterMessage("found This PC").All()
	require.Len(t, pcLogs, 1)
	assert.Equal(t, "1", pcLogs[0].ContextMap()["key"])
	assert.Equal(t, "20d04fe0-3aea-1069-a2d8-08002b30309d", pcLogs[0].ContextMap()["folder_id"])
	drives := logs.FilterMessage("found drive").All()
	require.Len(t, drives, 1)
	assert.Equal(t, "C:", drives[0].ContextMap()["drive"])
}

func TestAnalyzeWithLocation(t *testing.T) {
	r, id := openHive(t, usrClass(), DefaultKeyPath)
	tree, err := Analyze(r, id, WithLocation(time.UTC))
	require.NoError(t, err)
	rows := Flatten(tree)
	require.Len(t, rows, 4)
	assert.Equal(t, "2023-01-15 03:34:56+00:00", rows[2].Modified.String())
}

func TestAnalyzeThisPCMissing(t *testing.T) {
	root := hivetest.NewKey("ROOT")
	bag := root.Path("Local Settings", "Software", "Microsoft", "Windows", "Shell", "BagMRU")
	bag.SetBinary("0", driveItem('C'))
	bag.AddKey("0")

	_, err := AnalyzeFile(hivetest.WriteFile(t, root))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrThisPCNotFound)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestAnalyzeThisPCWithoutSubkey(t *testing.T) {
	root := hivetest.NewKey("ROOT")
	bag := root.Path("Local Settings", "Software", "Microsoft", "Windows", "Shell", "BagMRU")
	bag.SetBinary("3", thisPCItem())

	_, err := AnalyzeFile(hivetest.WriteFile(t, root))
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Contains(t, err.Error(), `BagMRU\3`)
}

func TestAnalyzeSkipsDriveWithoutSubkey(t *testing.T) {
	root := usrClass()
	pc := root.Path("Local Settings", "Software", "Microsoft", "Windows", "Shell", "BagMRU", "1")
	pc.SetBinary("2", driveItem('D'))

	r, id := openHive(t, root, DefaultKeyPath)
	tree, err := Analyze(r, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"0"}, tree.Root.Children.Keys())
}

func TestAnalyzeFileErrors(t *testing.T) {
	_, err := AnalyzeFile(t.TempDir() + "/UsrClass.dat")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Contains(t, err.Error(), "UsrClass.dat")

	path := hivetest.WriteFile(t, hivetest.NewKey("ROOT"))
	_, err = AnalyzeFile(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Contains(t, err.Error(), `\Local Settings`)

	root := usrClass()
	root.Path("Custom", "Bags").SetBinary("1", thisPCItem())
	root.Path("Custom", "Bags", "1")
	tree, err := AnalyzeFile(hivetest.WriteFile(t, root), WithKeyPath(`Custom\Bags`))
	require.NoError(t, err)
	assert.Equal(t, 0, tree.Root.Children.Len())
}
