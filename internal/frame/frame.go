// Package frame builds and parses the byte sequences embedded in a carrier.
package frame

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// Terminator ends a text frame and a binary frame header.
	Terminator = "###"
	// LegacyEnd ends a frame of the older base64 audio format.
	LegacyEnd = "###END###"
)

var (
	ErrMalformedHeader = errors.New("malformed frame header")
	ErrLegacyNotFound  = errors.New("no legacy frame")
)

// Text returns the text frame of message.
func Text(message string) []byte {
	b := make([]byte, 0, len(message)+len(Terminator))
	b = append(b, message...)
	return append(b, Terminator...)
}

// Header is the ASCII prefix of a binary frame.
type Header struct {
	OrigSize int
	CompSize int
}

func (h Header) String() string {
	return strconv.Itoa(h.OrigSize) + ":" + strconv.Itoa(h.CompSize) + Terminator
}

// Binary returns the binary frame for a payload of origSize bytes that
// compressed to compressed.
func Binary(origSize int, compressed []byte) []byte {
	h := Header{OrigSize: origSize, CompSize: len(compressed)}.String()
	b := make([]byte, 0, len(h)+len(compressed))
	b = append(b, h...)
	return append(b, compressed...)
}

// ParseBinary locates the header of a binary frame and returns it with the
// compressed bytes that follow. The header is searched in the ASCII view of
// data: bytes >= 0x80 are ignored.
func ParseBinary(data []byte) (Header, []byte, error) {
	raw, ok := headerText(data)
	if !ok {
		return Header{}, nil, fmt.Errorf("%w: terminator not found", ErrMalformedHeader)
	}
	origStr, compStr, found := strings.Cut(raw, ":")
	if !found || strings.Contains(compStr, ":") {
		return Header{}, nil, fmt.Errorf("%w: %q", ErrMalformedHeader, truncate(raw))
	}
	var h Header
	var err error
	if h.OrigSize, err = parseSize(origStr); err != nil {
		return Header{}, nil, fmt.Errorf("%w: original size: %w", ErrMalformedHeader, err)
	}
	if h.CompSize, err = parseSize(compStr); err != nil {
		return Header{}, nil, fmt.Errorf("%w: compressed size: %w", ErrMalformedHeader, err)
	}

	// CompSize may be anything up to math.MaxInt, so clamp without adding.
	start := min(len(raw)+len(Terminator), len(data))
	stop := start + min(h.CompSize, len(data)-start)
	return h, data[start:stop], nil
}

// ParseLegacy extracts the payload of the older format
// "<prefix>###<base64 payload>###END###".
func ParseLegacy(data []byte) ([]byte, error) {
	end := bytes.Index(data, []byte(LegacyEnd))
	if end < 0 {
		return nil, fmt.Errorf("%w: %q not found", ErrLegacyNotFound, LegacyEnd)
	}
	_, encoded, ok := bytes.Cut(data[:end], []byte(Terminator))
	if !ok {
		return nil, fmt.Errorf("%w: prefix delimiter not found", ErrLegacyNotFound)
	}
	payload, err := base64.StdEncoding.DecodeString(base64Alphabet(encoded))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLegacyNotFound, err)
	}
	return payload, nil
}

func parseSize(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative size %d", n)
	}
	return n, nil
}

// headerText returns the ASCII characters of data preceding the first terminator.
func headerText(data []byte) (string, bool) {
	var ascii []byte
	for _, b := range data {
		if b >= 0x80 {
			continue
		}
		ascii = append(ascii, b)
		if bytes.HasSuffix(ascii, []byte(Terminator)) {
			return string(ascii[:len(ascii)-len(Terminator)]), true
		}
	}
	return "", false
}

// base64Alphabet drops every byte outside the standard alphabet and padding.
func base64Alphabet(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		switch {
		case 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z', '0' <= c && c <= '9',
			c == '+', c == '/', c == '=':
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func truncate(s string) string {
	const limit = 32
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
