package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegType_String(t *testing.T) {
	tests := []struct {
		regType  RegType
		expected string
	}{
		{REG_NONE, "REG_NONE"},
		{REG_SZ, "REG_SZ"},
		{REG_EXPAND_SZ, "REG_EXPAND_SZ"},
		{REG_BINARY, "REG_BINARY"},
		{REG_DWORD, "REG_DWORD"},
		{REG_MULTI_SZ, "REG_MULTI_SZ"},
		{REG_QWORD, "REG_QWORD"},
		{RegType(0xFFFFFFFF), "UNKNOWN_TYPE_-1"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.regType.String())
		})
	}
}

func TestErrorWrapping(t *testing.T) {
	err := &Error{Kind: ErrKindNotFound, Msg: `key "BagMRU"`, Err: ErrNotFound}
	wrapped := fmt.Errorf("open UsrClass.dat: %w", err)

	require.ErrorIs(t, wrapped, ErrNotFound)
	assert.Equal(t, `open UsrClass.dat: key "BagMRU": not found`, wrapped.Error())

	kind, ok := KindOf(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrKindNotFound, kind)
	assert.Equal(t, "not found", kind.String())

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)
	assert.Equal(t, "<nil>", (*Error)(nil).Error())
}
