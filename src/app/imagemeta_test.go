package app

import (
	"testing"

	"stylerelay/src/app/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadImageMetadata(t *testing.T) {
	metadata, err := ReadImageMetadata(mock.PNG(5, 7))
	require.NoError(t, err)

	assert.Equal(t, "png", metadata.Format)
	assert.Equal(t, 5, metadata.Width)
	assert.Equal(t, 7, metadata.Height)
	assert.Equal(t, int64(35), metadata.PixelCount())
}

func TestReadImageMetadata_Invalid(t *testing.T) {
	_, err := ReadImageMetadata([]byte{0x00, 0x01, 0x02})
	require.Error(t, err)
}

func TestCheckResolution(t *testing.T) {
	tests := []struct {
		name    string
		width   uint32
		height  uint32
		wantErr bool
	}{
		{name: "small", width: 640, height: 480},
		{name: "exactly 16 MP", width: 4096, height: 4096},
		{name: "wide strip at the limit", width: 16_777_216, height: 1},
		{name: "one column over", width: 4097, height: 4096, wantErr: true},
		{name: "one pixel over", width: 16_777_217, height: 1, wantErr: true},
		{name: "large in both dimensions", width: 20_000, height: 20_000, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckResolution(mock.PNGHeader(tc.width, tc.height))
			if tc.wantErr {
				require.ErrorIs(t, err, ErrResolutionTooLarge)
				return
			}
			require.NoError(t, err)
		})
	}
}
