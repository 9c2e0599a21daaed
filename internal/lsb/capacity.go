package lsb

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Channels is the number of color channels that carry one payload bit per pixel.
const Channels = 3

// CapacityError reports a frame that does not fit in a carrier.
// Required and Available are in bits.
type CapacityError struct {
	Required  int
	Available int
	// Payload names what was being embedded, e.g. "message" or "audio".
	// The audio form reports sizes in bytes and MB.
	Payload string
}

func (e *CapacityError) Error() string {
	if e.Payload == "audio" {
		avail, req := e.Available/8, e.Required/8
		p := message.NewPrinter(language.English)
		return p.Sprintf("audio file too large for this image: image can store %d bytes (%.2f MB), but audio needs %d bytes (%.2f MB); try using a larger image or shorter audio",
			avail, toMB(avail), req, toMB(req))
	}
	payload := e.Payload
	if payload == "" {
		payload = "payload"
	}
	return fmt.Sprintf("%s too large for this image: requires %d bits, %d available", payload, e.Required, e.Available)
}

// Capacity returns the number of bits a width x height carrier can hold.
func Capacity(width, height int) int {
	return width * height * Channels
}

// CheckCapacity fails with a *CapacityError when bitLength exceeds the capacity
// of a width x height carrier.
func CheckCapacity(bitLength, width, height int) error {
	if available := Capacity(width, height); bitLength > available {
		return &CapacityError{Required: bitLength, Available: available}
	}
	return nil
}

func toMB(n int) float64 {
	return float64(n) / 1024 / 1024
}
