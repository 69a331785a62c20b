package pmtiles

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/xerrors"
)

// maxDecodedLength caps what one directory, metadata blob or tile may
// decompress to.
const maxDecodedLength = maxReadLength

var (
	// both are safe for concurrent use through DecodeAll/EncodeAll
	zstdDecoder, _ = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxDecodedLength))
	zstdEncoder, _ = zstd.NewWriter(nil)
)

// Decompress returns data decoded according to c. Output larger than 1 GiB
// fails with ErrTooLarge.
func Decompress(c Compression, data []byte) ([]byte, error) {
	return decompress(c, data, maxDecodedLength)
}

func decompress(c Compression, data []byte, limit int) ([]byte, error) {
	switch c {
	case NoCompression:
		return data, nil
	case Gzip:
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, xerrors.Errorf("pmtiles: gzip: %w", err)
		}
		defer zr.Close()
		out, err := io.ReadAll(io.LimitReader(zr, int64(limit)+1))
		if err != nil {
			return nil, xerrors.Errorf("pmtiles: gzip: %w", err)
		}
		if len(out) > limit {
			return nil, xerrors.Errorf("gzip: over %d bytes: %w", limit, ErrTooLarge)
		}
		return out, nil
	case Zstd:
		out, err := zstdDecoder.DecodeAll(data, nil)
		if xerrors.Is(err, zstd.ErrDecoderSizeExceeded) {
			return nil, xerrors.Errorf("zstd: over %d bytes: %w", maxDecodedLength, ErrTooLarge)
		}
		if err != nil {
			return nil, xerrors.Errorf("pmtiles: zstd: %w", err)
		}
		if len(out) > limit {
			return nil, xerrors.Errorf("zstd: over %d bytes: %w", limit, ErrTooLarge)
		}
		return out, nil
	case Snappy:
		n, err := snappy.DecodedLen(data)
		if err != nil {
			return nil, xerrors.Errorf("pmtiles: snappy: %w", err)
		}
		if n > limit {
			return nil, xerrors.Errorf("snappy: %d bytes over %d: %w", n, limit, ErrTooLarge)
		}
		out, err := snappy.Decode(nil, data)
		if err != nil {
			return nil, xerrors.Errorf("pmtiles: snappy: %w", err)
		}
		return out, nil
	default:
		return nil, xerrors.Errorf("compression %d: %w", c, ErrUnsupportedCompression)
	}
}

// Compress is the inverse of Decompress.
func Compress(c Compression, data []byte) ([]byte, error) {
	switch c {
	case NoCompression:
		return data, nil
	case Gzip:
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			return nil, xerrors.Errorf("pmtiles: gzip: %w", err)
		}
		if err := zw.Close(); err != nil {
			return nil, xerrors.Errorf("pmtiles: gzip: %w", err)
		}
		return buf.Bytes(), nil
	case Zstd:
		return zstdEncoder.EncodeAll(data, nil), nil
	case Snappy:
		return snappy.Encode(nil, data), nil
	default:
		return nil, xerrors.Errorf("compression %d: %w", c, ErrUnsupportedCompression)
	}
}
