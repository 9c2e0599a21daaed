package hidepix

import "fmt"

type Option func(*Stego) error

// WithCompressionLevel sets the zlib level used by EncodeAudio.
// Levels run from 0 (no compression) to 9 (best compression, the default).
// Any other value fails with ErrInvalidOption.
func WithCompressionLevel(level int) Option {
	return func(s *Stego) error {
		if level < 0 || level > 9 {
			return fmt.Errorf("%w: compression level %d is out of range 0..9", ErrInvalidOption, level)
		}
		s.level = level
		return nil
	}
}

// WithFormat sets the output format of the *File methods.
// Only lossless formats are accepted.
func WithFormat(f Format) Option {
	return func(s *Stego) error {
		if !f.valid() {
			return fmt.Errorf("%w: format %d", ErrUnsupportedFormat, int(f))
		}
		s.format = f
		return nil
	}
}
