package hidepix

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/yyyoichi/hidepix/internal/bitconv"
	"github.com/yyyoichi/hidepix/internal/deflate"
	"github.com/yyyoichi/hidepix/internal/frame"
	"github.com/yyyoichi/hidepix/internal/lsb"
)

var (
	ErrCapacityExceeded  = errors.New("payload exceeds image capacity")
	ErrNotFound          = errors.New("no valid audio data found in image")
	ErrMalformedHeader   = frame.ErrMalformedHeader
	ErrDecompress        = deflate.ErrDecompress
	ErrInvalidOption     = errors.New("invalid option")
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

type (
	// CapacityError reports the required and available size in bits.
	// It matches ErrCapacityExceeded with errors.Is.
	CapacityError = lsb.CapacityError
	// DecompressError wraps a failure of the compression codec.
	DecompressError = deflate.DecompressError
)

// EncodeText hides message in src with default options.
// This is a convenience function that creates a Stego instance and calls its EncodeText method.
func EncodeText(ctx context.Context, src image.Image, message string, opts ...Option) (image.Image, error) {
	s, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return s.EncodeText(ctx, src, message)
}

// DecodeText recovers a message hidden by EncodeText.
func DecodeText(ctx context.Context, src image.Image) (string, error) {
	s, _ := New()
	return s.DecodeText(ctx, src)
}

// EncodeAudio hides an arbitrary byte payload in src with default options.
func EncodeAudio(ctx context.Context, src image.Image, payload []byte, opts ...Option) (image.Image, error) {
	s, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return s.EncodeAudio(ctx, src, payload)
}

// DecodeAudio recovers a payload hidden by EncodeAudio or by the older base64 format.
func DecodeAudio(ctx context.Context, src image.Image) ([]byte, error) {
	s, _ := New()
	return s.DecodeAudio(ctx, src)
}

type Stego struct {
	level  int
	format Format
}

// New initializes a codec. Without options, payloads are compressed at the
// maximum level and files are written as PNG.
func New(opts ...Option) (*Stego, error) {
	s := new(Stego)
	if err := s.init(opts...); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Stego) init(opts ...Option) error {
	s.level = deflate.BestCompression
	s.format = FormatPNG
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return err
		}
	}
	return nil
}

// EncodeText embeds message followed by the "###" terminator into the channel
// LSBs of src. src is not modified.
//
// Returns an error matching ErrCapacityExceeded if the frame does not fit.
func (s *Stego) EncodeText(ctx context.Context, src image.Image, message string) (image.Image, error) {
	return s.embed(ctx, src, frame.Text(message), "message")
}

// DecodeText reads channel LSBs until the decoded bytes end with the "###"
// terminator and returns what precedes it.
//
// An image without a terminator is not an error: every complete byte the image
// holds is returned as is.
func (s *Stego) DecodeText(ctx context.Context, src image.Image) (string, error) {
	c := lsb.NewCarrier(src)
	term := []byte(frame.Terminator)
	var u bitconv.Unpacker
	found := false
	err := c.Extract(ctx, func(bit uint8) bool {
		if _, full := u.WriteBit(bit); full && bytes.HasSuffix(u.Bytes(), term) {
			found = true
			return false
		}
		return true
	})
	if err != nil {
		return "", err
	}
	msg := u.Bytes()
	if found {
		msg = msg[:len(msg)-len(term)]
	}
	return string(msg), nil
}

// EncodeAudio compresses payload and embeds it behind a
// "<original size>:<compressed size>###" header. src is not modified.
//
// Returns an error matching ErrCapacityExceeded if the frame does not fit.
func (s *Stego) EncodeAudio(ctx context.Context, src image.Image, payload []byte) (image.Image, error) {
	compressed, err := deflate.Compress(payload, s.level)
	if err != nil {
		return nil, fmt.Errorf("compress payload: %w", err)
	}
	return s.embed(ctx, src, frame.Binary(len(payload), compressed), "audio")
}

// DecodeAudio extracts every LSB of src and decodes the binary frame.
//
// Process:
//  1. Parses the size header and inflates the compressed bytes behind it.
//  2. If the header is malformed or the bytes do not inflate, retries with the
//     older "<prefix>###<base64>###END###" format.
//
// Returns ErrNotFound when neither format yields a payload.
func (s *Stego) DecodeAudio(ctx context.Context, src image.Image) ([]byte, error) {
	c := lsb.NewCarrier(src)
	var u bitconv.Unpacker
	u.Grow(c.Capacity() / 8)
	err := c.Extract(ctx, func(bit uint8) bool {
		u.WriteBit(bit)
		return true
	})
	if err != nil {
		return nil, err
	}
	data := u.Bytes()

	payload, err := decodeBinary(data)
	if err == nil {
		return payload, nil
	}
	if !errors.Is(err, ErrMalformedHeader) && !errors.Is(err, ErrDecompress) {
		return nil, err
	}
	if payload, legacyErr := frame.ParseLegacy(data); legacyErr == nil {
		return payload, nil
	}
	return nil, ErrNotFound
}

func decodeBinary(data []byte) ([]byte, error) {
	h, compressed, err := frame.ParseBinary(data)
	if err != nil {
		return nil, err
	}
	return deflate.Decompress(compressed, h.OrigSize)
}

func (s *Stego) embed(ctx context.Context, src image.Image, f []byte, payload string) (image.Image, error) {
	c := lsb.NewCarrier(src)
	if err := c.Embed(ctx, bitconv.Pack(f)); err != nil {
		return nil, capacityError(err, payload)
	}
	return c.Build(), nil
}

func capacityError(err error, payload string) error {
	var capErr *CapacityError
	if errors.As(err, &capErr) {
		capErr.Payload = payload
		return &capacityExceeded{capErr}
	}
	return err
}

// capacityExceeded lets errors.Is match ErrCapacityExceeded while errors.As
// still finds the *CapacityError.
type capacityExceeded struct {
	*CapacityError
}

func (e *capacityExceeded) Unwrap() error        { return e.CapacityError }
func (e *capacityExceeded) Is(target error) bool { return target == ErrCapacityExceeded }
