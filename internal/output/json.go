package output

import (
	"encoding/json"
	"io"

	"github.com/joshuapare/shellbags/pkg/shellbags"
)

// WriteJSON writes rows as an indented JSON array. Unparsable timestamps
// are empty strings.
func WriteJSON(w io.Writer, rows []shellbags.Row) error {
	if rows == nil {
		rows = []shellbags.Row{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(rows)
}
