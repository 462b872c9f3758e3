package shellbags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGUIDComputerFolder(t *testing.T) {
	g, err := DecodeGUID(computerGUIDBytes)
	require.NoError(t, err)
	assert.Equal(t, ComputerFolderID, g.String())
	assert.Equal(t, "20d04fe0-3aea-1069-a2d8-08002b30309d", g.UUID().String())
}

func TestGUIDMinimalWidthGroups(t *testing.T) {
	g, err := DecodeGUID([]byte{
		0x01, 0x00, 0x00, 0x00, 0x02, 0x00, 0x03, 0x00,
		0x00, 0x04, 0x00, 0x00, 0x00, 0x00, 0x00, 0x05,
	})
	require.NoError(t, err)
	assert.Equal(t, "{1-2-3-4-5}", g.String())
	assert.Equal(t, "00000001-0002-0003-0004-000000000005", g.UUID().String())
}

func TestDecodeGUIDShort(t *testing.T) {
	_, err := DecodeGUID(computerGUIDBytes[:15])
	assert.Error(t, err)
}
