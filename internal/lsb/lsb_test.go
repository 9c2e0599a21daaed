package lsb

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rawBits []uint8

func (b rawBits) Len() int       { return len(b) }
func (b rawBits) At(i int) uint8 { return b[i] }

func gradient(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			img.Set(x, y, color.RGBA{uint8(x * 31), uint8(y * 17), uint8(x + y), 255})
		}
	}
	return img
}

func TestBit(t *testing.T) {
	for v := range 256 {
		assert.Equal(t, uint8(v&1), GetBit(uint8(v)))
		assert.Equal(t, uint8(v&0xFE), SetBit(uint8(v), 0))
		assert.Equal(t, uint8(v|1), SetBit(uint8(v), 1))
	}
}

func TestCheckCapacity(t *testing.T) {
	assert.NoError(t, CheckCapacity(300, 10, 10))
	assert.NoError(t, CheckCapacity(0, 0, 0))

	err := CheckCapacity(400, 10, 10)
	var capErr *CapacityError
	require.True(t, errors.As(err, &capErr))
	assert.Equal(t, 400, capErr.Required)
	assert.Equal(t, 300, capErr.Available)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "300")
}

func TestCapacityErrorMessage(t *testing.T) {
	msg := &CapacityError{Required: 424, Available: 300, Payload: "message"}
	assert.Equal(t, "message too large for this image: requires 424 bits, 300 available", msg.Error())

	audio := &CapacityError{Required: 400, Available: 300, Payload: "audio"}
	assert.Equal(t, "audio file too large for this image: image can store 37 bytes (0.00 MB), but audio needs 50 bytes (0.00 MB); try using a larger image or shorter audio", audio.Error())

	hd := &CapacityError{Required: 8 * 1234567, Available: Capacity(1920, 1080), Payload: "audio"}
	assert.Equal(t, "audio file too large for this image: image can store 777,600 bytes (0.74 MB), but audio needs 1,234,567 bytes (1.18 MB); try using a larger image or shorter audio", hd.Error())
}

func TestCarrier(t *testing.T) {
	ctx := context.Background()

	t.Run("raster order", func(t *testing.T) {
		src := gradient(3, 2)
		c := NewCarrier(src)
		require.Equal(t, 3*2*3, c.Capacity())
		idx := 0
		for y := range 2 {
			for x := range 3 {
				px := src.RGBAAt(x, y)
				assert.Equal(t, px.R, c.Channel(idx))
				assert.Equal(t, px.G, c.Channel(idx+1))
				assert.Equal(t, px.B, c.Channel(idx+2))
				idx += 3
			}
		}
	})

	t.Run("embed then extract", func(t *testing.T) {
		c := NewCarrier(gradient(4, 4))
		bits := rawBits{1, 0, 1, 1, 0, 0, 1, 0, 1, 1}
		require.NoError(t, c.Embed(ctx, bits))

		var got []uint8
		require.NoError(t, c.Extract(ctx, func(bit uint8) bool {
			got = append(got, bit)
			return len(got) < len(bits)
		}))
		assert.Equal(t, []uint8(bits), got)
	})

	t.Run("untouched past frame", func(t *testing.T) {
		orig := NewCarrier(gradient(4, 4))
		c := orig.Copy()
		require.NoError(t, c.Embed(ctx, rawBits{0, 0, 0, 0, 0}))
		for i := 5; i < c.Capacity(); i++ {
			assert.Equal(t, orig.Channel(i), c.Channel(i))
		}
		for i := range 5 {
			assert.Equal(t, orig.Channel(i)&0xFE, c.Channel(i))
		}
	})

	t.Run("capacity checked first", func(t *testing.T) {
		orig := NewCarrier(gradient(2, 2))
		c := orig.Copy()
		bits := make(rawBits, 13)
		err := c.Embed(ctx, bits)
		var capErr *CapacityError
		require.True(t, errors.As(err, &capErr))
		assert.Equal(t, 13, capErr.Required)
		assert.Equal(t, 12, capErr.Available)
		for i := range c.Capacity() {
			assert.Equal(t, orig.Channel(i), c.Channel(i))
		}
	})

	t.Run("copy is independent", func(t *testing.T) {
		orig := NewCarrier(gradient(2, 2))
		c := orig.Copy()
		require.NoError(t, c.Embed(ctx, rawBits{1, 1, 1}))
		assert.Equal(t, uint8(0), orig.Channel(0))
		assert.Equal(t, uint8(1), c.Channel(0))
	})

	t.Run("cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		c := NewCarrier(gradient(2, 2))
		assert.ErrorIs(t, c.Embed(cctx, rawBits{1}), context.Canceled)
		assert.ErrorIs(t, c.Extract(cctx, func(uint8) bool { return true }), context.Canceled)
	})
}

func TestCarrierColorModels(t *testing.T) {
	t.Run("nrgba keeps color under transparency", func(t *testing.T) {
		src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
		src.SetNRGBA(0, 0, color.NRGBA{R: 201, G: 13, B: 77, A: 10})
		c := NewCarrier(src)
		assert.Equal(t, uint8(201), c.Channel(0))
		assert.Equal(t, uint8(13), c.Channel(1))
		assert.Equal(t, uint8(77), c.Channel(2))
	})

	t.Run("gray", func(t *testing.T) {
		src := image.NewGray(image.Rect(0, 0, 2, 1))
		src.SetGray(1, 0, color.Gray{Y: 129})
		c := NewCarrier(src)
		assert.Equal(t, []uint8{0, 0, 0, 129, 129, 129}, []uint8{
			c.Channel(0), c.Channel(1), c.Channel(2), c.Channel(3), c.Channel(4), c.Channel(5),
		})
	})

	t.Run("offset bounds", func(t *testing.T) {
		src := image.NewRGBA(image.Rect(5, 7, 7, 8))
		src.SetRGBA(6, 7, color.RGBA{1, 2, 3, 255})
		c := NewCarrier(src)
		assert.Equal(t, 2, c.Width())
		assert.Equal(t, 1, c.Height())
		assert.Equal(t, uint8(3), c.Channel(5))

		out := c.Build()
		assert.Equal(t, src.Bounds(), out.Bounds())
		assert.Equal(t, color.RGBA{1, 2, 3, 255}, out.RGBAAt(6, 7))
	})
}
