package output

import (
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/joshuapare/shellbags/pkg/shellbags"
)

// WriteTable renders rows as an aligned console table.
func WriteTable(w io.Writer, rows []shellbags.Row, lang string) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader(Header(lang))
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	for _, r := range rows {
		table.Append(record(r))
	}
	table.Render()
	return nil
}
