package shellbags

import (
	"bytes"
	"strings"
	"time"
	"unicode"
	"unicode/utf16"

	"github.com/joshuapare/shellbags/internal/buf"
)

// Shell item class types that carry a folder name and timestamps.
const (
	TypeFolder        byte = 0x31
	TypeFolderUnicode byte = 0x35
)

// Offsets into a folder shell item. ext is the extension block offset
// stored in the fourth byte from the end.
const (
	itemTypeOffset       = 2
	itemModifiedOffset   = 8
	extCreatedOffset     = 8
	extAccessedOffset    = 12
	extNameOffset        = 46
	itemNameTrailerSize  = 6
	itemExtOffsetFromEnd = 4
	fatTimeSize          = 4
)

// ShellItem is the metadata decoded from one folder shell item.
type ShellItem struct {
	Name     string
	Modified Timestamp
	Created  Timestamp
	Accessed Timestamp
}

// DecodeShellItem decodes a folder shell item. It returns false when the
// class type is not a folder type or when any field lies outside rec.
// Timestamps are converted to loc (SourceZone when nil).
func DecodeShellItem(rec []byte, loc *time.Location) (*ShellItem, bool) {
	if len(rec) < itemExtOffsetFromEnd || len(rec) <= itemTypeOffset {
		return nil, false
	}
	if t := rec[itemTypeOffset]; t != TypeFolder && t != TypeFolderUnicode {
		return nil, false
	}
	ext := int(rec[len(rec)-itemExtOffsetFromEnd])

	modified, ok := buf.Slice(rec, itemModifiedOffset, fatTimeSize)
	if !ok {
		return nil, false
	}
	created, ok := buf.Slice(rec, ext+extCreatedOffset, fatTimeSize)
	if !ok {
		return nil, false
	}
	accessed, ok := buf.Slice(rec, ext+extAccessedOffset, fatTimeSize)
	if !ok {
		return nil, false
	}
	raw, ok := buf.Span(rec, ext+extNameOffset, len(rec)-itemNameTrailerSize)
	if !ok {
		return nil, false
	}

	return &ShellItem{
		Name:     decodeItemName(raw),
		Modified: DecodeFATTime(modified, loc),
		Created:  DecodeFATTime(created, loc),
		Accessed: DecodeFATTime(accessed, loc),
	}, true
}

var doubleNull = []byte{0, 0}

// decodeItemName cuts raw one byte past the first 00 00 pair found after
// offset 0 and decodes the rest as UTF-16, little-endian unless a leading
// byte order mark says otherwise. Unpaired surrogates and a dangling odd
// byte are dropped.
func decodeItemName(raw []byte) string {
	if i := bytes.Index(raw, doubleNull); i > 0 {
		raw = raw[:i+1]
	}
	unit := buf.U16LE
	switch {
	case len(raw) >= 2 && raw[0] == 0xff && raw[1] == 0xfe:
		raw = raw[2:]
	case len(raw) >= 2 && raw[0] == 0xfe && raw[1] == 0xff:
		raw, unit = raw[2:], buf.U16BE
	}

	var sb strings.Builder
	sb.Grow(len(raw))
	for i := 0; i+1 < len(raw); i += 2 {
		r := rune(unit(raw[i:]))
		if !utf16.IsSurrogate(r) {
			sb.WriteRune(r)
			continue
		}
		if i+3 < len(raw) {
			if pair := utf16.DecodeRune(r, rune(unit(raw[i+2:]))); pair != unicode.ReplacementChar {
				sb.WriteRune(pair)
				i += 2
			}
		}
	}
	return sb.String()
}
