package bench_test

import (
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"strings"
	"testing"

	"github.com/yyyoichi/hidepix"
)

// BenchmarkEncodeText_FHD measures text frames of growing length on an FHD carrier
func BenchmarkEncodeText_FHD(b *testing.B) {
	img := createImage(1920, 1080)
	ctx := b.Context()
	s, err := hidepix.New()
	if err != nil {
		b.Fatalf("Failed to create Stego instance: %v", err)
	}

	for _, size := range []int{16, 1024, 64 * 1024} {
		message := strings.Repeat("a", size)
		b.Run(fmt.Sprintf("%dB", size), func(b *testing.B) {
			for b.Loop() {
				if _, err := s.EncodeText(ctx, img, message); err != nil {
					b.Fatalf("Failed to encode text: %v", err)
				}
			}
		})
	}
}

func BenchmarkDecodeText_FHD(b *testing.B) {
	ctx := b.Context()
	encoded, err := hidepix.EncodeText(ctx, createImage(1920, 1080), strings.Repeat("a", 1024))
	if err != nil {
		b.Fatalf("Failed to encode text: %v", err)
	}
	for b.Loop() {
		if _, err := hidepix.DecodeText(ctx, encoded); err != nil {
			b.Fatalf("Failed to decode text: %v", err)
		}
	}
}

// BenchmarkAudio_FHD encodes and decodes 256 KiB of noise at each compression level
func BenchmarkAudio_FHD(b *testing.B) {
	img := createImage(1920, 1080)
	audio := make([]byte, 256*1024)
	_, _ = rand.New(rand.NewSource(1)).Read(audio)
	ctx := b.Context()

	for _, level := range []int{0, 1, 6, 9} {
		s, err := hidepix.New(hidepix.WithCompressionLevel(level))
		if err != nil {
			b.Fatalf("Failed to create Stego instance (level %d): %v", level, err)
		}
		encoded, err := s.EncodeAudio(ctx, img, audio)
		if err != nil {
			b.Fatalf("Failed to encode audio (level %d): %v", level, err)
		}
		b.Run(fmt.Sprintf("encode_level%d", level), func(b *testing.B) {
			for b.Loop() {
				if _, err := s.EncodeAudio(ctx, img, audio); err != nil {
					b.Fatalf("Failed to encode audio: %v", err)
				}
			}
		})
		b.Run(fmt.Sprintf("decode_level%d", level), func(b *testing.B) {
			for b.Loop() {
				if _, err := s.DecodeAudio(ctx, encoded); err != nil {
					b.Fatalf("Failed to decode audio: %v", err)
				}
			}
		})
	}
}

// createImage creates a widthxheight test image with gradient pattern
func createImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			// Create gradient effect to simulate realistic image data
			r := uint8((x * 255) / width)
			g := uint8((y * 255) / height)
			b := uint8(((x + y) * 255) / (width + height))
			img.Set(x, y, color.RGBA{r, g, b, 255})
		}
	}
	return img
}
