package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSniffImageType(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	jpeg := []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}

	tests := []struct {
		name     string
		declared string
		data     []byte
		want     string
		wantErr  bool
	}{
		{name: "declared image type wins", declared: "image/webp", data: png, want: "image/webp"},
		{name: "parameters are dropped", declared: "image/png; charset=binary", data: png, want: "image/png"},
		{name: "octet-stream is sniffed", declared: "application/octet-stream", data: jpeg, want: "image/jpeg"},
		{name: "undeclared is sniffed", data: png, want: "image/png"},
		{name: "text is rejected", declared: "application/octet-stream", data: []byte("hello"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sniffImageType(tt.declared, tt.data)
			if tt.wantErr {
				assert.Error(t, err)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
