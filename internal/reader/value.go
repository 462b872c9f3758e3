package reader

import (
	"encoding/binary"
	"fmt"

	"github.com/joshuapare/shellbags/internal/format"
	"github.com/joshuapare/shellbags/pkg/types"
)

// Values returns every value of id, in on-disk order, with its payload
// resolved. Payloads of inline values are copied; others alias the mapping
// and are only valid until Close.
func (r *Reader) Values(id types.NodeID) ([]types.Value, error) {
	if err := r.ensureOpen(); err != nil {
		return nil, err
	}
	nk, err := r.nk(id)
	if err != nil {
		return nil, err
	}
	if !nk.HasValues() {
		return nil, nil
	}
	listCell, err := r.cell(nk.ValueListOffset)
	if err != nil {
		return nil, err
	}
	offsets, err := format.DecodeValueList(listCell.Data, nk.ValueCount)
	if err != nil {
		return nil, wrapFormatErr(err)
	}
	out := make([]types.Value, 0, len(offsets))
	for _, off := range offsets {
		v, err := r.value(off)
		if err != nil {
			return nil, fmt.Errorf("value at 0x%x: %w", off, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (r *Reader) value(offset uint32) (types.Value, error) {
	c, err := r.cell(offset)
	if err != nil {
		return types.Value{}, err
	}
	vk, err := format.DecodeVK(c.Data)
	if err != nil {
		return types.Value{}, wrapFormatErr(err)
	}
	name, err := decodeName(vk.NameRaw, vk.NameIsASCII())
	if err != nil {
		return types.Value{}, wrapFormatErr(err)
	}
	data, err := r.valueData(vk)
	if err != nil {
		return types.Value{}, err
	}
	return types.Value{Name: name, Type: types.RegType(vk.Type), Data: data}, nil
}

func (r *Reader) valueData(vk format.VKRecord) ([]byte, error) {
	length := vk.Length()
	if vk.DataInline() {
		if length > format.OffsetFieldSize {
			return nil, &types.Error{Kind: types.ErrKindCorrupt, Msg: "inline length exceeds field", Err: types.ErrCorrupt}
		}
		var field [format.OffsetFieldSize]byte
		binary.LittleEndian.PutUint32(field[:], vk.DataOffset)
		return append([]byte(nil), field[:length]...), nil
	}
	if length == 0 {
		return nil, nil
	}
	dc, err := r.cell(vk.DataOffset)
	if err != nil {
		return nil, err
	}
	if length > len(dc.Data) && format.IsDBRecord(dc.Data) {
		return r.valueDB(dc.Data, length)
	}
	if length > len(dc.Data) {
		return nil, &types.Error{
			Kind: types.ErrKindCorrupt,
			Msg:  fmt.Sprintf("value data truncated: want %d bytes, cell holds %d", length, len(dc.Data)),
			Err:  types.ErrCorrupt,
		}
	}
	return dc.Data[:length], nil
}

// valueDB concatenates the blocks of a big-data record. Each block carries
// DBBlockPadding trailing bytes that are not part of the payload.
func (r *Reader) valueDB(dbData []byte, length int) ([]byte, error) {
	db, err := format.DecodeDB(dbData)
	if err != nil {
		return nil, wrapFormatErr(err)
	}
	listCell, err := r.cell(db.BlocklistOffset)
	if err != nil {
		return nil, fmt.Errorf("db blocklist: %w", err)
	}
	blocks, err := format.DecodeValueList(listCell.Data, uint32(db.NumBlocks))
	if err != nil {
		return nil, wrapFormatErr(err)
	}
	out := make([]byte, 0, length)
	for i, off := range blocks {
		bc, err := r.cell(off)
		if err != nil {
			return nil, fmt.Errorf("db block %d: %w", i, err)
		}
		chunk := bc.Data
		if len(chunk) > format.DBBlockPadding {
			chunk = chunk[:len(chunk)-format.DBBlockPadding]
		}
		if rest := length - len(out); len(chunk) > rest {
			chunk = chunk[:rest]
		}
		out = append(out, chunk...)
		if len(out) == length {
			return out, nil
		}
	}
	return nil, &types.Error{
		Kind: types.ErrKindCorrupt,
		Msg:  fmt.Sprintf("db data size mismatch: expected %d bytes, got %d", length, len(out)),
		Err:  types.ErrCorrupt,
	}
}
