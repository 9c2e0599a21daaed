package hidepix

import (
	"bufio"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Format is a lossless output format.
type Format int

const (
	FormatPNG Format = iota
	FormatBMP
	FormatTIFF
)

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatBMP:
		return "bmp"
	case FormatTIFF:
		return "tiff"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Ext returns the file extension including the leading dot.
func (f Format) Ext() string {
	return "." + f.String()
}

func (f Format) valid() bool {
	return f >= FormatPNG && f <= FormatTIFF
}

// ParseFormat returns the format named name, case-insensitively.
// "tif" is accepted for TIFF.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "png":
		return FormatPNG, nil
	case "bmp":
		return FormatBMP, nil
	case "tiff", "tif":
		return FormatTIFF, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// FormatFromPath returns the format matching the extension of path.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Load decodes the image at path. PNG, JPEG, GIF, BMP, TIFF and WebP are supported.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// Save encodes img to path in the given format.
// The image is written to a temporary file next to path and renamed on success,
// so path never holds a partially written image.
func Save(path string, img image.Image, format Format) error {
	if !format.valid() {
		return fmt.Errorf("%w: format %d", ErrUnsupportedFormat, int(format))
	}
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	w := bufio.NewWriter(tmpFile)
	if err := encode(w, img, format); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("encode %s: %w", format, err)
	}
	if err := w.Flush(); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

func encode(w *bufio.Writer, img image.Image, format Format) error {
	switch format {
	case FormatBMP:
		return bmp.Encode(w, img)
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		return enc.Encode(w, img)
	}
}

// EncodeTextFile hides message in the image at src and saves the result to dst
// in the configured format. Nothing is written when the message does not fit.
func (s *Stego) EncodeTextFile(ctx context.Context, src, message, dst string) error {
	img, err := Load(src)
	if err != nil {
		return err
	}
	out, err := s.EncodeText(ctx, img, message)
	if err != nil {
		return err
	}
	return Save(dst, out, s.format)
}

// DecodeTextFile returns the message hidden in the image at src.
func (s *Stego) DecodeTextFile(ctx context.Context, src string) (string, error) {
	img, err := Load(src)
	if err != nil {
		return "", err
	}
	return s.DecodeText(ctx, img)
}

// EncodeAudioFile hides audio in the image at src and saves the result to dst
// in the configured format. Nothing is written when the audio does not fit.
func (s *Stego) EncodeAudioFile(ctx context.Context, src string, audio []byte, dst string) error {
	img, err := Load(src)
	if err != nil {
		return err
	}
	out, err := s.EncodeAudio(ctx, img, audio)
	if err != nil {
		return err
	}
	return Save(dst, out, s.format)
}

// DecodeAudioFile returns the audio hidden in the image at src.
func (s *Stego) DecodeAudioFile(ctx context.Context, src string) ([]byte, error) {
	img, err := Load(src)
	if err != nil {
		return nil, err
	}
	return s.DecodeAudio(ctx, img)
}

// Format returns the configured output format.
func (s *Stego) Format() Format {
	return s.format
}
