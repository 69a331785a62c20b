package pmtiles

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"
)

func TestDecompressLimit(t *testing.T) {
	zeros := bytes.Repeat([]byte{0}, 64<<10)
	for _, c := range []Compression{Gzip, Zstd, Snappy} {
		t.Run(fmt.Sprint(c), func(t *testing.T) {
			data, err := Compress(c, zeros)
			require.NoError(t, err)
			require.Less(t, len(data), len(zeros)/4)

			_, err = decompress(c, data, 1<<10)
			assert.True(t, xerrors.Is(err, ErrTooLarge), "%v", err)

			out, err := decompress(c, data, len(zeros))
			require.NoError(t, err)
			assert.Equal(t, zeros, out)
		})
	}
}
