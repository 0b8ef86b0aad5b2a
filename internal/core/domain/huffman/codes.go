package huffman

import (
	"bufio"
	"bytes"
	"fmt"
	"imgpress/internal/core/domain"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// CodeTable maps each symbol to its codeword, a string of '0' and '1'.
type CodeTable map[byte]string

// GenerateCodes walks the tree depth first and assigns each leaf the path from the root,
// '0' for a zero-child edge and '1' for a one-child edge. A tree with a single leaf
// gives that symbol the codeword "0".
func GenerateCodes(t *Tree) CodeTable {
	codes := make(CodeTable)
	if t == nil {
		return codes
	}

	if t.nodes[t.root].leaf() {
		codes[t.nodes[t.root].symbol] = "0"
		return codes
	}

	type frame struct {
		id   int
		code string
	}

	stack := []frame{{id: t.root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := t.nodes[f.id]
		if n.leaf() {
			codes[n.symbol] = f.code
			continue
		}

		stack = append(stack, frame{id: n.one, code: f.code + "1"}, frame{id: n.zero, code: f.code + "0"})
	}

	return codes
}

// Symbols returns the symbols with a codeword, ascending.
func (c CodeTable) Symbols() []byte {
	return slices.Sorted(maps.Keys(c))
}

// IsPrefixFree reports whether every codeword is non-empty and none is a prefix of another.
func (c CodeTable) IsPrefixFree() bool {
	words := slices.Sorted(maps.Values(c))
	for i, w := range words {
		if w == "" {
			return false
		}
		// in lexicographic order a prefix sorts directly before some word it prefixes
		if i > 0 && strings.HasPrefix(w, words[i-1]) {
			return false
		}
	}
	return true
}

// EncodedLength is the payload length in bits for a stream with the given frequencies.
func (c CodeTable) EncodedLength(freq FrequencyTable) int {
	total := 0
	for symbol, count := range freq {
		total += count * len(c[symbol])
	}
	return total
}

// MarshalText writes one "<symbol as 8 bits> <codeword>" line per entry, ordered by symbol.
func (c CodeTable) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	for _, symbol := range c.Symbols() {
		fmt.Fprintf(&buf, "%08b %s\n", symbol, c[symbol])
	}
	return buf.Bytes(), nil
}

// UnmarshalText parses the format written by MarshalText. Blank lines are ignored.
func (c *CodeTable) UnmarshalText(text []byte) error {
	table := make(CodeTable)

	scanner := bufio.NewScanner(bytes.NewReader(text))
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return fmt.Errorf("%w: line %d: expected symbol and codeword", domain.ErrDecodeMismatch, line)
		}

		symbol, err := strconv.ParseUint(fields[0], 2, 8)
		if err != nil {
			return fmt.Errorf("%w: line %d: bad symbol %q", domain.ErrDecodeMismatch, line, fields[0])
		}
		if strings.Trim(fields[1], "01") != "" {
			return fmt.Errorf("%w: line %d: bad codeword %q", domain.ErrDecodeMismatch, line, fields[1])
		}
		if _, ok := table[byte(symbol)]; ok {
			return fmt.Errorf("%w: line %d: duplicate symbol %s", domain.ErrDecodeMismatch, line, fields[0])
		}

		table[byte(symbol)] = fields[1]
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	*c = table
	return nil
}
