// Package deflate wraps the zlib stream codec used for binary payloads.
package deflate

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/klauspost/compress/zlib"
)

const (
	BestCompression = zlib.BestCompression
	NoCompression   = zlib.NoCompression
)

var (
	ErrDecompress = errors.New("decompression failed")
	errTooLarge   = errors.New("output exceeds declared size")
)

// DecompressError is returned for any input that is not a valid zlib stream.
type DecompressError struct {
	Err error
}

func (e *DecompressError) Error() string {
	return fmt.Sprintf("%s: %v", ErrDecompress, e.Err)
}

func (e *DecompressError) Unwrap() error {
	return e.Err
}

func (e *DecompressError) Is(target error) bool {
	return target == ErrDecompress
}

// Compress returns the zlib stream of src at the given level.
func Compress(src []byte, level int) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, fmt.Errorf("zlib writer: %w", err)
	}
	if _, err := zw.Write(src); err != nil {
		_ = zw.Close()
		return nil, fmt.Errorf("zlib write: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zlib close: %w", err)
	}
	return buf.Bytes(), nil
}

// Decompress inflates a zlib stream of at most maxSize bytes. A stream that
// inflates beyond maxSize is rejected. All failures are *DecompressError.
func Decompress(src []byte, maxSize int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, &DecompressError{Err: err}
	}
	defer zr.Close()

	limit := int64(maxSize)
	if limit < math.MaxInt64 {
		// one extra byte tells an exact fit from an overrun
		limit++
	}
	var out bytes.Buffer
	if _, err := io.Copy(&out, io.LimitReader(zr, limit)); err != nil {
		return nil, &DecompressError{Err: err}
	}
	if out.Len() > maxSize {
		return nil, &DecompressError{Err: fmt.Errorf("%w: %d bytes", errTooLarge, maxSize)}
	}
	if err := zr.Close(); err != nil {
		return nil, &DecompressError{Err: err}
	}
	return out.Bytes(), nil
}
