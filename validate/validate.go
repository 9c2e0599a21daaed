// Package validate checks carrier and audio file names and sizes before they
// reach the codec.
package validate

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"slices"
	"strings"

	"github.com/yyyoichi/hidepix"
)

var (
	ErrEmptyName = errors.New("no file selected")
	ErrExtension = errors.New("file type not allowed")
	ErrTooLarge  = errors.New("file too large")
)

// DefaultMaxBytes is the largest accepted upload, 100 MiB.
const DefaultMaxBytes int64 = 100 * 1024 * 1024

// Policy lists the accepted extensions, lower case without the leading dot,
// and the maximum size of a single file. A MaxBytes of 0 disables the limit.
type Policy struct {
	ImageExtensions []string
	AudioExtensions []string
	MaxBytes        int64
}

// DefaultPolicy returns the policy used when no configuration overrides it.
func DefaultPolicy() Policy {
	return Policy{
		ImageExtensions: []string{"png", "jpg", "jpeg", "bmp"},
		AudioExtensions: []string{"mp3", "wav", "ogg", "webm", "m4a"},
		MaxBytes:        DefaultMaxBytes,
	}
}

// CheckImage validates the name and size of a carrier image.
func (p Policy) CheckImage(name string, size int64) error {
	return p.check(name, size, p.ImageExtensions)
}

// CheckAudio validates the name and size of an audio payload.
func (p Policy) CheckAudio(name string, size int64) error {
	return p.check(name, size, p.AudioExtensions)
}

func (p Policy) check(name string, size int64, allowed []string) error {
	if name == "" {
		return ErrEmptyName
	}
	ext := extension(name)
	if ext == "" || !slices.Contains(allowed, ext) {
		return fmt.Errorf("%w: %q, allowed: %s", ErrExtension, name, strings.Join(allowed, ", "))
	}
	if p.MaxBytes > 0 && size > p.MaxBytes {
		return fmt.Errorf("%w: %s is %d bytes, limit is %d", ErrTooLarge, name, size, p.MaxBytes)
	}
	return nil
}

// extension returns the lower-cased text after the last dot of name.
func extension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SanitizeFilename reduces name to a safe base name. Path separators become
// spaces, whitespace runs become "_", any other character outside
// [A-Za-z0-9_.-] is removed and leading or trailing "." and "_" are trimmed.
// The result may be empty.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", " ")
	name = strings.ReplaceAll(name, "/", " ")
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeChars.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}

// OutputName builds the name of an encoded carrier: prefix, the sanitized stem
// of input and the extension of format, e.g. "encoded_cat.png".
func OutputName(prefix, input string, format hidepix.Format) string {
	base := SanitizeFilename(path.Base(strings.ReplaceAll(input, "\\", "/")))
	stem := strings.TrimSuffix(base, path.Ext(base))
	if stem == "" {
		stem = "image"
	}
	return prefix + stem + format.Ext()
}
