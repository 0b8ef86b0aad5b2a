package huffman

import (
	"fmt"
	"imgpress/internal/core/domain"
	"strings"

	"github.com/rs/zerolog/log"
)

// Compress Huffman codes data. The returned table is required to decompress the payload.
// Empty input gives an empty payload and an empty table.
func Compress(data []byte) (Bits, CodeTable, error) {
	return CompressBits(FromBytes(data))
}

// CompressBits is Compress over a bit stream, which must be byte aligned.
func CompressBits(stream Bits) (Bits, CodeTable, error) {
	freq, err := Analyze(stream)
	if err != nil {
		return Bits{}, nil, err
	}

	tree := BuildTree(freq)
	codes := GenerateCodes(tree)

	payload := Bits{buf: make([]byte, 0, (codes.EncodedLength(freq)+7)/8)}
	for i := 0; i < stream.Len()/8; i++ {
		payload.appendCode(codes[stream.Byte(i)])
	}

	log.Debug().
		Int("symbols", len(freq)).
		Int("inputBits", stream.Len()).
		Int("outputBits", payload.Len()).
		Msg("huffman compressed stream")

	return payload, codes, nil
}

// Decompress reverses Compress. It fails with domain.ErrDecodeMismatch when a bit
// sequence matches no codeword, when bits are left over after the last symbol, or when
// the table is not a prefix-free code.
func Decompress(payload Bits, codes CodeTable) ([]byte, error) {
	out := make([]byte, 0, payload.Len()/8)
	if payload.Len() == 0 {
		return out, nil
	}

	dec, err := newDecoder(codes)
	if err != nil {
		return nil, err
	}

	cur := 0
	for i := 0; i < payload.Len(); i++ {
		next := dec.nodes[cur].child[payload.Bit(i)]
		if next == noChild {
			return nil, fmt.Errorf("%w: no codeword matches bits ending at %d", domain.ErrDecodeMismatch, i)
		}

		if n := dec.nodes[next]; n.leaf {
			out = append(out, n.symbol)
			cur = 0
			continue
		}
		cur = next
	}

	if cur != 0 {
		return nil, fmt.Errorf("%w: trailing bits do not form a codeword", domain.ErrDecodeMismatch)
	}

	return out, nil
}

type decodeNode struct {
	child  [2]int
	symbol byte
	leaf   bool
}

// decoder is a binary trie over the codewords of a table; node 0 is the root.
type decoder struct {
	nodes []decodeNode
}

func newDecoder(codes CodeTable) (*decoder, error) {
	if len(codes) == 0 {
		return nil, fmt.Errorf("%w: empty code table", domain.ErrDecodeMismatch)
	}

	d := &decoder{nodes: []decodeNode{{child: [2]int{noChild, noChild}}}}
	for _, symbol := range codes.Symbols() {
		code := codes[symbol]
		if code == "" {
			return nil, fmt.Errorf("%w: empty codeword for %08b", domain.ErrDecodeMismatch, symbol)
		}
		if strings.Trim(code, "01") != "" {
			return nil, fmt.Errorf("%w: codeword %q for %08b is not binary", domain.ErrDecodeMismatch, code, symbol)
		}

		cur := 0
		for i := 0; i < len(code); i++ {
			if d.nodes[cur].leaf {
				return nil, fmt.Errorf("%w: code is not prefix free", domain.ErrDecodeMismatch)
			}

			bit := code[i] - '0'
			next := d.nodes[cur].child[bit]
			if next == noChild {
				d.nodes = append(d.nodes, decodeNode{child: [2]int{noChild, noChild}})
				next = len(d.nodes) - 1
				d.nodes[cur].child[bit] = next
			}
			cur = next
		}

		if d.nodes[cur].leaf || d.nodes[cur].child != [2]int{noChild, noChild} {
			return nil, fmt.Errorf("%w: code is not prefix free", domain.ErrDecodeMismatch)
		}
		d.nodes[cur].leaf = true
		d.nodes[cur].symbol = symbol
	}

	return d, nil
}

// Stats compares a payload with the stream it was produced from.
type Stats struct {
	OriginalBits   int
	CompressedBits int
}

func NewStats(original []byte, payload Bits) Stats {
	return Stats{OriginalBits: len(original) * 8, CompressedBits: payload.Len()}
}

// Ratio is original over compressed length, 0 when nothing was compressed.
func (s Stats) Ratio() float64 {
	if s.CompressedBits == 0 {
		return 0
	}
	return float64(s.OriginalBits) / float64(s.CompressedBits)
}

func (s Stats) SpaceSaved() int {
	return s.OriginalBits - s.CompressedBits
}

// CompressedBytes is the payload length rounded up to whole bytes.
func (s Stats) CompressedBytes() int {
	return (s.CompressedBits + 7) / 8
}
