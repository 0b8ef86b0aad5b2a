package huffman

import (
	"bytes"
	"errors"
	"fmt"
	"imgpress/internal/core/domain"
	"io"
	"strings"

	"github.com/icza/bitio"
)

const lengthHeaderBits = 64

// Bits is a packed, append-only bit sequence. Bits are stored MSB first and the
// unused low bits of the last byte are always zero.
type Bits struct {
	buf []byte
	n   int
}

// FromBytes wraps data as a byte-aligned stream of 8*len(data) bits. The slice is shared, not
// copied; appending to the result moves it to a fresh buffer and leaves data untouched.
func FromBytes(data []byte) Bits {
	return Bits{buf: data[:len(data):len(data)], n: len(data) * 8}
}

// NewBits returns the first n bits of buf.
func NewBits(buf []byte, n int) (Bits, error) {
	if n < 0 || n > len(buf)*8 {
		return Bits{}, fmt.Errorf("%w: %d bits requested from %d bytes", domain.ErrDecodeMismatch, n, len(buf))
	}

	used := (n + 7) / 8
	b := Bits{buf: make([]byte, used), n: n}
	copy(b.buf, buf[:used])
	if rem := n % 8; rem != 0 {
		b.buf[used-1] &= ^byte(0xFF >> rem)
	}

	return b, nil
}

func (b Bits) Len() int {
	return b.n
}

// Bit returns the i-th bit as 0 or 1.
func (b Bits) Bit(i int) byte {
	return (b.buf[i/8] >> (7 - i%8)) & 1
}

// Byte returns the i-th aligned byte.
func (b Bits) Byte(i int) byte {
	return b.buf[i]
}

// Bytes returns the packed bits, zero padded to a byte boundary.
func (b Bits) Bytes() []byte {
	return b.buf[:(b.n+7)/8]
}

func (b *Bits) AppendBit(v byte) {
	if b.n%8 == 0 {
		b.buf = append(b.buf[:b.n/8], 0)
	}
	if v != 0 {
		b.buf[b.n/8] |= 0x80 >> (b.n % 8)
	}
	b.n++
}

func (b *Bits) appendCode(code string) {
	for i := 0; i < len(code); i++ {
		b.AppendBit(code[i] - '0')
	}
}

// String renders the bits as a string of '0' and '1'.
func (b Bits) String() string {
	var sb strings.Builder
	sb.Grow(b.n)
	for i := 0; i < b.n; i++ {
		sb.WriteByte('0' + b.Bit(i))
	}
	return sb.String()
}

// MarshalBinary packs the sequence as a 64-bit big-endian bit count followed by the bits.
func (b Bits) MarshalBinary() ([]byte, error) {
	var out bytes.Buffer
	w := bitio.NewWriter(&out)

	if err := w.WriteBits(uint64(b.n), lengthHeaderBits); err != nil {
		return nil, err
	}

	full := b.n / 8
	for i := 0; i < full; i++ {
		if err := w.WriteByte(b.buf[i]); err != nil {
			return nil, err
		}
	}

	if rem := b.n % 8; rem != 0 {
		if err := w.WriteBits(uint64(b.buf[full]>>(8-rem)), uint8(rem)); err != nil {
			return nil, err
		}
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

// UnmarshalBinary restores a sequence written by MarshalBinary.
func (b *Bits) UnmarshalBinary(data []byte) error {
	r := bitio.NewReader(bytes.NewReader(data))

	n, err := r.ReadBits(lengthHeaderBits)
	if err != nil {
		return fmt.Errorf("%w: missing length header: %w", domain.ErrDecodeMismatch, err)
	}

	body := uint64(len(data) - lengthHeaderBits/8)
	if n > body*8 || (n+7)/8 != body {
		return fmt.Errorf("%w: header declares %d bits, payload holds %d bytes", domain.ErrDecodeMismatch, n, body)
	}

	out := Bits{buf: make([]byte, 0, (n+7)/8)}
	for i := uint64(0); i < n/8; i++ {
		c, err := r.ReadByte()
		if err != nil {
			return truncated(err)
		}
		out.buf = append(out.buf, c)
		out.n += 8
	}

	if rem := uint8(n % 8); rem != 0 {
		v, err := r.ReadBits(rem)
		if err != nil {
			return truncated(err)
		}
		out.buf = append(out.buf, byte(v<<(8-rem)))
		out.n += int(rem)
	}

	*b = out
	return nil
}

func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: payload truncated", domain.ErrDecodeMismatch)
	}
	return err
}
