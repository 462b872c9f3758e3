package main

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/shellbags/internal/config"
	"github.com/joshuapare/shellbags/internal/hivetest"
	"github.com/joshuapare/shellbags/pkg/shellbags"
)

// stamp packs a UTC moment as a FAT timestamp.
func stamp(year int, month time.Month, day, hour, minute, second int) [4]byte {
	return shellbags.EncodeFATTime(time.Date(year, month, day, hour, minute, second, 0, time.UTC))
}

// writeUsrClass writes a hive with This PC at BagMRU\1, drives C: (with a
// bag) and E: (without one), and a Documents\報告 chain under C:. The
// hive was last written 2024-03-01 01:02:03 UTC, the This PC bag
// 2023-11-20 18:30:00 UTC.
func writeUsrClass(t *testing.T) string {
	t.Helper()
	root := hivetest.NewKey("S-1-5-21-1004_Classes")
	root.LastWrite = time.Date(2024, 3, 1, 1, 2, 3, 0, time.UTC)
	bag := root.Path("Local Settings", "Software", "Microsoft", "Windows", "Shell", "BagMRU")
	bag.SetBinary("0", []byte{0x14, 0x00, 0x1f, 0x44, 0x47, 0x1a, 0x03, 0x59})
	bag.SetBinary("1", hivetest.ThisPCItem())
	bag.AddKey("0")

	pc := bag.AddKey("1")
	pc.LastWrite = time.Date(2023, 11, 20, 18, 30, 0, 0, time.UTC)
	pc.SetBinary("0", hivetest.DriveItem('C'))
	pc.SetBinary("1", hivetest.DriveItem('E'))

	drive := pc.AddKey("0")
	t1 := stamp(2023, 1, 15, 3, 34, 56)
	t2 := stamp(2022, 12, 31, 23, 59, 58)
	drive.SetBinary("0", hivetest.FolderItem(shellbags.TypeFolder, "Documents", t1, t2, t1))
	docs := drive.AddKey("0")
	docs.SetBinary("0", hivetest.FolderItem(shellbags.TypeFolderUnicode, "報告", t2, t1, t2))
	docs.AddKey("0")

	return hivetest.WriteFile(t, root)
}

// resetGlobals restores flag state and points report files at memory.
func resetGlobals(t *testing.T) {
	t.Helper()
	configFile = ""
	verbose = false
	quiet = false
	outFs = afero.NewMemMapFs()
	prev := vp
	vp = config.NewViper()
	t.Cleanup(func() { vp = prev })
}

// testConfig returns the default configuration with logging limited to
// errors.
func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Logging.Level = "error"
	return cfg
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)
	return buf.String(), fnErr
}
