package lsb

import (
	"context"
	"image"

	"golang.org/x/image/draw"
)

// Bits is the sequence consumed by Embed.
type Bits interface {
	Len() int
	At(i int) uint8
}

// Carrier is an RGB pixel grid stored as R,G,B triples in raster order.
type Carrier struct {
	bounds        image.Rectangle
	width, height int

	// R,G,B,R,G,B,...
	pix []uint8
}

// NewCarrier converts src to a non-premultiplied RGB grid. Alpha is discarded.
func NewCarrier(src image.Image) Carrier {
	var c Carrier
	c.bounds = src.Bounds()
	c.width, c.height = c.bounds.Dx(), c.bounds.Dy()
	c.pix = make([]uint8, c.width*c.height*Channels)

	nrgba, ok := src.(*image.NRGBA)
	if !ok {
		if rgba, isRGBA := src.(*image.RGBA); isRGBA && opaque(rgba.Pix) {
			nrgba = &image.NRGBA{Pix: rgba.Pix, Stride: rgba.Stride, Rect: rgba.Rect}
		} else {
			nrgba = image.NewNRGBA(image.Rect(0, 0, c.width, c.height))
			draw.Draw(nrgba, nrgba.Bounds(), src, c.bounds.Min, draw.Src)
		}
	}
	origin := nrgba.Rect.Min
	idx := 0
	for y := range c.height {
		row := nrgba.PixOffset(origin.X, origin.Y+y)
		for x := range c.width {
			p := nrgba.Pix[row+x*4 : row+x*4+3 : row+x*4+3]
			c.pix[idx], c.pix[idx+1], c.pix[idx+2] = p[0], p[1], p[2]
			idx += Channels
		}
	}
	return c
}

func opaque(pix []uint8) bool {
	for i := 3; i < len(pix); i += 4 {
		if pix[i] != 0xff {
			return false
		}
	}
	return true
}

// Copy returns a carrier that shares nothing with c.
func (c Carrier) Copy() Carrier {
	pix := make([]uint8, len(c.pix))
	_ = copy(pix, c.pix)
	c.pix = pix
	return c
}

// Width returns the width in pixels.
func (c Carrier) Width() int { return c.width }

// Height returns the height in pixels.
func (c Carrier) Height() int { return c.height }

// Capacity returns the number of bits the carrier can hold.
func (c Carrier) Capacity() int { return len(c.pix) }

// Channel returns the value of the i-th channel in sweep order.
func (c Carrier) Channel(i int) uint8 { return c.pix[i] }

// Build returns the carrier as an opaque image with the original bounds.
func (c Carrier) Build() *image.RGBA {
	dist := image.NewRGBA(c.bounds)
	idx := 0
	for y := range c.height {
		row := dist.PixOffset(c.bounds.Min.X, c.bounds.Min.Y+y)
		for x := range c.width {
			p := dist.Pix[row+x*4 : row+x*4+4 : row+x*4+4]
			p[0], p[1], p[2], p[3] = c.pix[idx], c.pix[idx+1], c.pix[idx+2], 0xff
			idx += Channels
		}
	}
	return dist
}

// Embed writes bits into the channel LSBs in raster order, R then G then B,
// and stops once bits is exhausted. Channels past the end are left untouched.
// The capacity is checked before any channel is modified.
func (c Carrier) Embed(ctx context.Context, bits Bits) error {
	n := bits.Len()
	if err := CheckCapacity(n, c.width, c.height); err != nil {
		return err
	}
	rowLen := c.width * Channels
	for at := 0; at < n; at++ {
		if at%rowLen == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		c.pix[at] = SetBit(c.pix[at], bits.At(at))
	}
	return nil
}

// Extract visits the channel LSBs in the same order Embed writes them.
// It stops early when visit returns false.
func (c Carrier) Extract(ctx context.Context, visit func(bit uint8) bool) error {
	rowLen := c.width * Channels
	for at, v := range c.pix {
		if rowLen > 0 && at%rowLen == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if !visit(GetBit(v)) {
			return nil
		}
	}
	return nil
}
