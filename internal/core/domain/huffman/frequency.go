package huffman

import (
	"fmt"
	"imgpress/internal/core/domain"
	"maps"
	"slices"
)

// FrequencyTable counts occurrences of each byte symbol in one stream.
type FrequencyTable map[byte]int

// Analyze counts the byte symbols of stream. The stream must be a whole number of bytes.
func Analyze(stream Bits) (FrequencyTable, error) {
	if stream.Len()%8 != 0 {
		return nil, fmt.Errorf("%w: %d bits", domain.ErrAlignment, stream.Len())
	}

	table := make(FrequencyTable)
	for i := 0; i < stream.Len()/8; i++ {
		table[stream.Byte(i)]++
	}

	return table, nil
}

// Total is the stream length in symbols.
func (t FrequencyTable) Total() int {
	total := 0
	for _, count := range t {
		total += count
	}
	return total
}

// Symbols returns the symbols present, ascending.
func (t FrequencyTable) Symbols() []byte {
	return slices.Sorted(maps.Keys(t))
}
