// Package quality measures how much an encoded carrier differs from its original.
package quality

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/yyyoichi/hidepix/internal/lsb"
)

var ErrSizeMismatch = errors.New("images differ in size")

// Report summarizes the per-channel difference of two carriers.
type Report struct {
	// Channels is the number of compared R, G and B values.
	Channels int `json:"channels"`
	// Changed is the number of channels whose value differs.
	Changed int `json:"changed"`
	// LSBOnly reports whether every difference is confined to the least significant bit.
	LSBOnly bool    `json:"lsb_only"`
	MSE     float64 `json:"mse"`
	// PSNR in dB. +Inf for identical images.
	PSNR float64 `json:"psnr"`
}

// Compare converts both images to RGB carriers and compares them channel by channel.
func Compare(original, encoded image.Image) (Report, error) {
	a, b := lsb.NewCarrier(original), lsb.NewCarrier(encoded)
	if a.Width() != b.Width() || a.Height() != b.Height() {
		return Report{}, fmt.Errorf("%w: %dx%d and %dx%d", ErrSizeMismatch,
			a.Width(), a.Height(), b.Width(), b.Height())
	}

	r := Report{Channels: a.Capacity(), LSBOnly: true}
	if r.Channels == 0 {
		r.PSNR = math.Inf(1)
		return r, nil
	}
	x := make([]float64, r.Channels)
	y := make([]float64, r.Channels)
	for i := range r.Channels {
		va, vb := a.Channel(i), b.Channel(i)
		if va != vb {
			r.Changed++
			if va&0xFE != vb&0xFE {
				r.LSBOnly = false
			}
		}
		x[i], y[i] = float64(va), float64(vb)
	}

	diff := floats.SubTo(make([]float64, r.Channels), x, y)
	r.MSE = floats.Dot(diff, diff) / float64(r.Channels)
	r.PSNR = psnr(r.MSE)
	return r, nil
}

// MarshalJSON encodes an infinite PSNR as null.
func (r Report) MarshalJSON() ([]byte, error) {
	type report Report
	out := struct {
		report
		PSNR *float64 `json:"psnr"`
	}{report: report(r)}
	if !math.IsInf(r.PSNR, 0) {
		out.PSNR = &r.PSNR
	}
	return json.Marshal(out)
}

func psnr(mse float64) float64 {
	if mse == 0 {
		return math.Inf(1)
	}
	return 10 * math.Log10(255*255/mse)
}
