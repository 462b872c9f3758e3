package shellbags

import (
	"time"

	"github.com/joshuapare/shellbags/internal/buf"
)

// SourceZone is the fixed offset shell-item timestamps are reported in
// unless WithLocation says otherwise.
var SourceZone = time.FixedZone("UTC+9", 9*60*60)

// TimeLayout is the rendering used by Timestamp.String.
const TimeLayout = "2006-01-02 15:04:05-07:00"

// Timestamp is a decoded FAT date/time. The zero value is the "unparsable"
// timestamp and renders as an empty string.
type Timestamp struct {
	t     time.Time
	valid bool
}

// Valid reports whether the timestamp holds a real moment.
func (ts Timestamp) Valid() bool { return ts.valid }

// Time returns the moment and whether it is valid.
func (ts Timestamp) Time() (time.Time, bool) { return ts.t, ts.valid }

func (ts Timestamp) String() string {
	if !ts.valid {
		return ""
	}
	return ts.t.Format(TimeLayout)
}

// MarshalText renders the same text as String.
func (ts Timestamp) MarshalText() ([]byte, error) {
	return []byte(ts.String()), nil
}

// DecodeFATTime decodes a packed FAT date (bytes 0-1) and time (bytes 2-3),
// both little-endian, taken as UTC and converted to loc (SourceZone when
// nil). Fields that do not form a real calendar moment, or fewer than four
// bytes, give the unparsable Timestamp.
//
//	date: bits 9-15 year-1980, bits 5-8 month, bits 0-4 day
//	time: bits 11-15 hour, bits 5-10 minute, bits 0-4 second/2
func DecodeFATTime(b []byte, loc *time.Location) Timestamp {
	if len(b) < 4 {
		return Timestamp{}
	}
	d, t := buf.U16LE(b), buf.U16LE(b[2:])

	year := int(d>>9) + 1980
	month := int(d>>5) & 0x0F
	day := int(d) & 0x1F
	hour := int(t >> 11)
	minute := int(t>>5) & 0x3F
	second := int(t&0x1F) * 2

	// time.Date normalizes out-of-range fields, so check them first.
	if month < 1 || month > 12 || day < 1 || day > daysIn(year, time.Month(month)) ||
		hour > 23 || minute > 59 || second > 59 {
		return Timestamp{}
	}
	if loc == nil {
		loc = SourceZone
	}
	utc := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	return Timestamp{t: utc.In(loc), valid: true}
}

// EncodeFATTime packs t (converted to UTC) into the layout DecodeFATTime
// reads. Odd seconds are rounded down; years outside 1980-2107 wrap.
func EncodeFATTime(t time.Time) [4]byte {
	t = t.UTC()
	d := uint16(t.Year()-1980)<<9 | uint16(t.Month())<<5 | uint16(t.Day())
	tm := uint16(t.Hour())<<11 | uint16(t.Minute())<<5 | uint16(t.Second()/2)
	return [4]byte{byte(d), byte(d >> 8), byte(tm), byte(tm >> 8)}
}

func daysIn(year int, m time.Month) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
