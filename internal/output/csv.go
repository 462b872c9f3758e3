package output

import (
	"encoding/csv"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/joshuapare/shellbags/pkg/shellbags"
)

// WriteCSV writes a header line and one record per row, UTF-8 with a
// leading byte order mark and CRLF line endings so spreadsheet tools pick
// the right encoding.
func WriteCSV(w io.Writer, rows []shellbags.Row, lang string) error {
	bom := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	cw := csv.NewWriter(bom)
	cw.UseCRLF = true

	if err := cw.Write(Header(lang)); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(record(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return bom.Close()
}
