package hidepix

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/yyyoichi/hidepix/internal/frame"
	"github.com/yyyoichi/hidepix/internal/lsb"
)

// Capacity describes how much a carrier of a given size can hold.
type Capacity struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	// Bits is width * height * 3.
	Bits  int     `json:"bits"`
	Bytes int     `json:"bytes"`
	MB    float64 `json:"mb"`
	// TextChars is the longest ASCII message EncodeText accepts.
	TextChars int `json:"text_chars"`
	// MinMinutes and MaxMinutes estimate the compressed audio duration,
	// assuming 5 and 3 MB per minute respectively.
	MinMinutes float64 `json:"min_minutes"`
	MaxMinutes float64 `json:"max_minutes"`
}

// CapacityOf returns the capacity of a carrier with bounds r.
func CapacityOf(r image.Rectangle) Capacity {
	c := Capacity{Width: r.Dx(), Height: r.Dy()}
	c.Bits = lsb.Capacity(c.Width, c.Height)
	c.Bytes = c.Bits / 8
	c.MB = float64(c.Bytes) / 1024 / 1024
	c.TextChars = max(c.Bytes-len(frame.Terminator), 0)
	c.MinMinutes = c.MB / 5
	c.MaxMinutes = c.MB / 3
	return c
}

// Blank returns a width x height carrier filled with c.
func Blank(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}
