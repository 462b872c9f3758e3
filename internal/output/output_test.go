package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/shellbags/internal/config"
	"github.com/joshuapare/shellbags/pkg/shellbags"
)

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

func sampleRows() []shellbags.Row {
	enc := shellbags.EncodeFATTime(time.Date(2023, 1, 15, 12, 34, 56, 0, shellbags.SourceZone))
	modified := shellbags.DecodeFATTime(enc[:], nil)
	return []shellbags.Row{
		{Key: `1`, Path: `Desktop\This PC`, SubkeyCount: 2},
		{Key: `1\0`, Path: `Desktop\This PC\C:`, SubkeyCount: 1},
		{Key: `1\0\0`, Path: `Desktop\This PC\C:\報告, "final"`, SubkeyCount: 0, Modified: modified},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRows(), "ja"))

	data := buf.Bytes()
	require.True(t, bytes.HasPrefix(data, utf8BOM), "missing BOM")
	assert.Equal(t, 1, bytes.Count(data, utf8BOM))
	assert.Contains(t, string(data), "\r\n")

	records, err := csv.NewReader(bytes.NewReader(data[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"キー", "パス", "サブキー数", "作成日時", "更新日時", "最終アクセス日時"}, records[0])
	assert.Equal(t, []string{`1`, `Desktop\This PC`, "2", "", "", ""}, records[1])
	assert.Equal(t, []string{
		`1\0\0`, `Desktop\This PC\C:\報告, "final"`, "0", "", "2023-01-15 12:34:56+09:00", "",
	}, records[3])
}

func TestWriteCSVEnglishHeaderNoRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil, "en"))
	assert.Equal(t, string(utf8BOM)+"key,path,subkeyCount,created,modified,accessed\r\n", buf.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleRows()))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 3)
	assert.Equal(t, `1\0`, got[1]["key"])
	assert.Equal(t, float64(1), got[1]["subkeyCount"])
	assert.Equal(t, "", got[1]["created"])
	assert.Equal(t, "2023-01-15 12:34:56+09:00", got[2]["modified"])

	buf.Reset()
	require.NoError(t, WriteJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, sampleRows(), "en"))
	out := buf.String()
	assert.Contains(t, out, "subkeyCount")
	assert.Contains(t, out, `Desktop\This PC\C:`)
	assert.Contains(t, out, "2023-01-15 12:34:56+09:00")
}

func TestWriteUnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, nil, "xml", "en")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}

func TestWriteFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, WriteFile(fs, "analyzed_ShellBags.csv", sampleRows(), config.FormatCSV, "ja"))

	data, err := afero.ReadFile(fs, "analyzed_ShellBags.csv")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, utf8BOM))
	assert.Equal(t, 4, strings.Count(string(data), "\r\n"))

	ro := afero.NewReadOnlyFs(fs)
	err = WriteFile(ro, "other.csv", sampleRows(), config.FormatCSV, "ja")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create output file")
}

func TestHeaderFallback(t *testing.T) {
	assert.Equal(t, Header("ja"), Header("de"))
	assert.Equal(t, "key", Header("en")[0])
}
