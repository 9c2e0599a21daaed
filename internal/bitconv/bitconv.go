package bitconv

import "github.com/yyyoichi/bitstream-go"

// Bits is a read-only MSB-first bit sequence produced by Pack.
type Bits struct {
	n      int
	reader *bitstream.BitReader[uint64]
}

// Pack expands every byte of b into 8 bits, most significant bit first,
// concatenated in input order.
func Pack(b []byte) *Bits {
	w := bitstream.NewBitWriter[uint64](0, 0)
	for _, v := range b {
		w.Write8(0, 8, v)
	}
	reader := bitstream.NewBitReader(w.Data(), 0, 0)
	reader.SetBits(w.Bits())
	return &Bits{n: len(b) * 8, reader: reader}
}

// Len returns the number of bits.
func (b *Bits) Len() int {
	return b.n
}

// At returns the bit at position i as 0 or 1.
func (b *Bits) At(i int) uint8 {
	if bit, _ := b.reader.ReadBitAt(i); bit {
		return 1
	}
	return 0
}

// Unpack is the inverse of Pack. A trailing group of fewer than 8 bits is dropped.
func Unpack(bits []uint8) []byte {
	var u Unpacker
	u.Grow(len(bits) / 8)
	for _, bit := range bits {
		u.WriteBit(bit)
	}
	return u.Bytes()
}

// Unpacker accumulates bits into bytes incrementally.
type Unpacker struct {
	buf []byte
	cur byte
	n   uint8
}

// Grow reserves room for n more complete bytes.
func (u *Unpacker) Grow(n int) {
	if n <= 0 {
		return
	}
	if cap(u.buf)-len(u.buf) < n {
		buf := make([]byte, len(u.buf), len(u.buf)+n)
		copy(buf, u.buf)
		u.buf = buf
	}
}

// WriteBit appends one bit. When it completes a byte, the byte is returned with full set.
func (u *Unpacker) WriteBit(bit uint8) (b byte, full bool) {
	u.cur = u.cur<<1 | bit&1
	u.n++
	if u.n < 8 {
		return 0, false
	}
	b = u.cur
	u.buf = append(u.buf, b)
	u.cur, u.n = 0, 0
	return b, true
}

// Bytes returns the complete bytes written so far.
func (u *Unpacker) Bytes() []byte {
	if u.buf == nil {
		return []byte{}
	}
	return u.buf
}

// Len returns the number of complete bytes.
func (u *Unpacker) Len() int {
	return len(u.buf)
}
