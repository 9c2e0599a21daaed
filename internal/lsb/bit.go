package lsb

// GetBit returns the least significant bit of a channel value.
func GetBit(v uint8) uint8 {
	return v & 1
}

// SetBit returns v with its least significant bit replaced by bit.
func SetBit(v, bit uint8) uint8 {
	return (v & 0xFE) | bit&1
}
