// Package output renders flattened shell-bag rows as CSV, JSON or a console
// table.
package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/afero"

	"github.com/joshuapare/shellbags/internal/config"
	"github.com/joshuapare/shellbags/pkg/shellbags"
)

var headers = map[string][]string{
	"ja": {"キー", "パス", "サブキー数", "作成日時", "更新日時", "最終アクセス日時"},
	"en": {"key", "path", "subkeyCount", "created", "modified", "accessed"},
}

// Header returns the column labels for lang, falling back to Japanese.
func Header(lang string) []string {
	if h, ok := headers[lang]; ok {
		return h
	}
	return headers["ja"]
}

// record renders a row in column order: key, path, subkey count, created,
// modified, accessed.
func record(r shellbags.Row) []string {
	return []string{
		r.Key,
		r.Path,
		strconv.Itoa(r.SubkeyCount),
		r.Created.String(),
		r.Modified.String(),
		r.Accessed.String(),
	}
}

// Write renders rows to w in the given format.
func Write(w io.Writer, rows []shellbags.Row, format, lang string) error {
	switch format {
	case config.FormatCSV:
		return WriteCSV(w, rows, lang)
	case config.FormatJSON:
		return WriteJSON(w, rows)
	case config.FormatTable:
		return WriteTable(w, rows, lang)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// WriteFile creates (or truncates) path on fs and renders rows into it.
func WriteFile(fs afero.Fs, path string, rows []shellbags.Row, format, lang string) (err error) {
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output file: %w", cerr)
		}
	}()
	if err := Write(f, rows, format, lang); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
