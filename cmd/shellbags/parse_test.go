package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/shellbags/internal/config"
	"github.com/joshuapare/shellbags/pkg/types"
)

func TestParseWritesCSV(t *testing.T) {
	resetGlobals(t)
	hive := writeUsrClass(t)
	cfg := testConfig()

	out, err := captureOutput(t, func() error { return runParse(cfg, hive) })
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 4 rows to "+config.DefaultOutput)

	data, err := afero.ReadFile(outFs, config.DefaultOutput)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte{0xef, 0xbb, 0xbf}))

	records, err := csv.NewReader(bytes.NewReader(data[3:])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, "キー", records[0][0])
	assert.Equal(t, []string{`1`, `Desktop\This PC`, "1", "", "", ""}, records[1])
	assert.Equal(t, []string{`1\0`, `Desktop\This PC\C:`, "1", "", "", ""}, records[2])
	assert.Equal(t, []string{
		`1\0\0`, `Desktop\This PC\C:\Documents`, "1",
		"2023-01-01 08:59:58+09:00", "2023-01-15 12:34:56+09:00", "2023-01-15 12:34:56+09:00",
	}, records[3])
	assert.Equal(t, `Desktop\This PC\C:\Documents\報告`, records[4][1])
	assert.Equal(t, "0", records[4][2])
}

func TestParseQuietSuppressesStatus(t *testing.T) {
	resetGlobals(t)
	quiet = true
	hive := writeUsrClass(t)

	out, err := captureOutput(t, func() error { return runParse(testConfig(), hive) })
	require.NoError(t, err)
	assert.Empty(t, out)
	exists, err := afero.Exists(outFs, config.DefaultOutput)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestParseStdoutFormats(t *testing.T) {
	tests := []struct {
		name        string
		format      string
		output      string
		lang        string
		offset      int
		wantContain []string
	}{
		{
			name:        "table",
			format:      config.FormatTable,
			lang:        "en",
			offset:      9,
			wantContain: []string{"subkeyCount", `Desktop\This PC\C:\Documents`, "2023-01-15 12:34:56+09:00"},
		},
		{
			name:        "json to stdout",
			format:      config.FormatJSON,
			output:      config.DefaultOutput,
			offset:      0,
			wantContain: []string{`"key": "1\\0\\0"`, "2023-01-15 03:34:56+00:00"},
		},
		{
			name:        "csv to stdout",
			format:      config.FormatCSV,
			output:      "-",
			lang:        "en",
			offset:      9,
			wantContain: []string{"key,path,subkeyCount", `1\0,Desktop\This PC\C:,1`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetGlobals(t)
			hive := writeUsrClass(t)
			cfg := testConfig()
			cfg.Format = tt.format
			cfg.Output = tt.output
			if tt.lang != "" {
				cfg.Lang = tt.lang
			}
			cfg.UTCOffsetHours = tt.offset

			out, err := captureOutput(t, func() error { return runParse(cfg, hive) })
			require.NoError(t, err)
			for _, want := range tt.wantContain {
				assert.Contains(t, out, want)
			}
			assert.NotContains(t, out, "Wrote")
		})
	}
}

func TestParseJSONFile(t *testing.T) {
	resetGlobals(t)
	hive := writeUsrClass(t)
	cfg := testConfig()
	cfg.Format = config.FormatJSON
	cfg.Output = "bags.json"

	_, err := captureOutput(t, func() error { return runParse(cfg, hive) })
	require.NoError(t, err)

	data, err := afero.ReadFile(outFs, "bags.json")
	require.NoError(t, err)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(data, &rows))
	require.Len(t, rows, 4)
	assert.Equal(t, `1\0\0\0`, rows[3]["key"])
	assert.Equal(t, "2023-01-15 12:34:56+09:00", rows[3]["created"])
}

func TestParseErrors(t *testing.T) {
	resetGlobals(t)

	_, err := captureOutput(t, func() error {
		return runParse(testConfig(), filepath.Join(t.TempDir(), "missing.dat"))
	})
	require.Error(t, err)
	kind, ok := types.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, types.ErrKindNotFound, kind)

	cfg := testConfig()
	cfg.KeyPath = `\Local Settings\Software\Microsoft\Windows\Shell\NoSuchBag`
	_, err = captureOutput(t, func() error { return runParse(cfg, writeUsrClass(t)) })
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestReportToStdout(t *testing.T) {
	cfg := config.DefaultConfig()
	assert.False(t, reportToStdout(cfg))

	cfg.Format = config.FormatJSON
	assert.True(t, reportToStdout(cfg))
	cfg.Output = "bags.json"
	assert.False(t, reportToStdout(cfg))

	cfg.Format = config.FormatTable
	assert.True(t, reportToStdout(cfg))

	cfg.Format = config.FormatCSV
	cfg.Output = "-"
	assert.True(t, reportToStdout(cfg))
}

func TestParseLogsToFile(t *testing.T) {
	resetGlobals(t)
	hive := writeUsrClass(t)
	cfg := testConfig()
	cfg.Logging.Level = "info"
	cfg.Logging.Format = "json"
	cfg.Logging.Output = filepath.Join(t.TempDir(), "shellbags.log")

	_, err := captureOutput(t, func() error { return runParse(cfg, hive) })
	require.NoError(t, err)

	data, err := os.ReadFile(cfg.Logging.Output)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"found This PC"`)
	assert.Contains(t, string(data), `"folder_id":"20d04fe0-3aea-1069-a2d8-08002b30309d"`)
	assert.Contains(t, string(data), `"drive":"C:"`)
}
