package reader

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/joshuapare/shellbags/internal/format"
	"github.com/joshuapare/shellbags/pkg/types"
)

// StatKey returns NK-level metadata for id.
func (r *Reader) StatKey(id types.NodeID) (types.KeyMeta, error) {
	if err := r.ensureOpen(); err != nil {
		return types.KeyMeta{}, err
	}
	nk, err := r.nk(id)
	if err != nil {
		return types.KeyMeta{}, err
	}
	name, err := decodeName(nk.NameRaw, nk.NameIsCompressed())
	if err != nil {
		return types.KeyMeta{}, wrapFormatErr(err)
	}
	return types.KeyMeta{
		Name:      name,
		LastWrite: filetimeToTime(nk.LastWriteRaw),
		SubkeyN:   int(nk.SubkeyCount),
		ValueN:    int(nk.ValueCount),
	}, nil
}

// KeyName returns just the key name.
func (r *Reader) KeyName(id types.NodeID) (string, error) {
	if err := r.ensureOpen(); err != nil {
		return "", err
	}
	nk, err := r.nk(id)
	if err != nil {
		return "", err
	}
	name, err := decodeName(nk.NameRaw, nk.NameIsCompressed())
	if err != nil {
		return "", wrapFormatErr(err)
	}
	return name, nil
}

// SubkeyCount returns the subkey count recorded in the key itself. It may
// disagree with the number of subkeys actually reachable.
func (r *Reader) SubkeyCount(id types.NodeID) (int, error) {
	if err := r.ensureOpen(); err != nil {
		return 0, err
	}
	nk, err := r.nk(id)
	if err != nil {
		return 0, err
	}
	return int(nk.SubkeyCount), nil
}

// Subkeys lists the direct children of id in on-disk order.
func (r *Reader) Subkeys(id types.NodeID) ([]types.NodeID, error) {
	if err := r.ensureOpen(); err != nil {
		return nil, err
	}
	nk, err := r.nk(id)
	if err != nil {
		return nil, err
	}
	if !nk.HasSubkeys() {
		return nil, nil
	}
	list, err := r.subkeyList(nk.SubkeyListOffset, nk.SubkeyCount, 0)
	if err != nil {
		return nil, err
	}
	out := make([]types.NodeID, len(list))
	for i, off := range list {
		out[i] = types.NodeID(off)
	}
	return out, nil
}

// Lookup finds a direct child key by name (case-insensitive).
func (r *Reader) Lookup(parent types.NodeID, childName string) (types.NodeID, error) {
	children, err := r.Subkeys(parent)
	if err != nil {
		return 0, err
	}
	for _, child := range children {
		name, err := r.KeyName(child)
		if err != nil {
			continue
		}
		if strings.EqualFold(name, childName) {
			return child, nil
		}
	}
	return 0, &types.Error{
		Kind: types.ErrKindNotFound,
		Msg:  fmt.Sprintf(`subkey "%s"`, childName),
		Err:  types.ErrNotFound,
	}
}

// maxListDepth bounds ri nesting; real hives use a single level.
const maxListDepth = 4

func (r *Reader) subkeyList(offset, expected uint32, depth int) ([]uint32, error) {
	c, err := r.cell(offset)
	if err != nil {
		return nil, err
	}
	if !format.IsRIList(c.Data) {
		list, err := format.DecodeSubkeyList(c.Data, expected)
		if err != nil {
			return nil, wrapFormatErr(err)
		}
		return list, nil
	}
	if depth >= maxListDepth {
		return nil, &types.Error{Kind: types.ErrKindCorrupt, Msg: "ri lists nested too deeply", Err: types.ErrCorrupt}
	}
	subLists, err := format.DecodeRIList(c.Data)
	if err != nil {
		return nil, wrapFormatErr(err)
	}
	var out []uint32
	for _, sub := range subLists {
		part, err := r.subkeyList(sub, 0, depth+1)
		if err != nil {
			return nil, err
		}
		out = append(out, part...)
	}
	return out, nil
}

// decodeName converts an on-disk key or value name to UTF-8. Single-byte
// names are Windows-1252, others UTF-16LE.
func decodeName(raw []byte, compressed bool) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	if compressed {
		if isASCII(raw) {
			return string(raw), nil
		}
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
		if err != nil {
			return "", fmt.Errorf("decode Windows-1252 name: %w", err)
		}
		return string(decoded), nil
	}
	if len(raw)%2 != 0 {
		return "", errors.New("utf-16 name has odd length")
	}
	decoded, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decode UTF-16 name: %w", err)
	}
	return string(decoded), nil
}

func isASCII(data []byte) bool {
	for _, b := range data {
		if b >= 0x80 {
			return false
		}
	}
	return true
}
