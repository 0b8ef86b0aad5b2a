package service

import (
	"bytes"
	"errors"
	"imgpress/internal/core/domain"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryOutput struct {
	mutex sync.Mutex
	files map[string][]byte
	err   error
}

func (m *memoryOutput) Write(name string, data []byte) (string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.err != nil {
		return "", m.err
	}
	if m.files == nil {
		m.files = make(map[string][]byte)
	}
	m.files[name] = append([]byte(nil), data...)
	return "/out/" + name, nil
}

func (m *memoryOutput) Read(name string) ([]byte, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	data, ok := m.files[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

type fixedSizer struct{ size int }

func (f fixedSizer) Size(_ []byte) int {
	return f.size
}

func TestHuffmanCompressAndRestore(t *testing.T) {
	output := &memoryOutput{}
	recorder := &mockRecorder{}
	h := NewHuffman(output, fixedSizer{size: 42}, recorder)

	data := bytes.Repeat([]byte("aaaabbc"), 100)
	result, err := h.Compress(t.Context(), domain.SourceFile{Name: "dir/picture.bmp", Data: data})
	require.NoError(t, err)

	assert.Equal(t, "picture_compressed.bin", result.PayloadName)
	assert.Equal(t, "picture_huffman_codes.txt", result.CodeTableName)
	assert.Equal(t, 3, result.Symbols)
	assert.Equal(t, 42, result.ReferenceSize)
	assert.Equal(t, len(data)*8, result.Stats.OriginalBits)
	// a:1 bit, b:2 bits, c:2 bits
	assert.Equal(t, 100*(4+2*2+2), result.Stats.CompressedBits)
	assert.Equal(t, result.Payload, output.files[result.PayloadName])
	assert.Equal(t, result.CodeTable, output.files[result.CodeTableName])
	assert.Equal(t, []string{"dir/picture.bmp"}, recorder.records)

	restored, err := h.Restore(t.Context(), "picture.bmp")
	require.NoError(t, err)
	assert.Equal(t, data, restored)
}

func TestHuffmanRestoreErrors(t *testing.T) {
	output := &memoryOutput{files: map[string][]byte{
		"broken_compressed.bin":     {0, 0, 0, 0, 0, 0, 0, 3, 0xE0},
		"broken_huffman_codes.txt":  []byte("01100001 0\n"),
		"missing_compressed.bin":    {0, 0, 0, 0, 0, 0, 0, 1, 0x80},
		"garbled_compressed.bin":    {0, 0, 0, 0, 0, 0, 0, 1, 0x80},
		"garbled_huffman_codes.txt": []byte("not a table\n"),
	}}
	h := NewHuffman(output, fixedSizer{}, &mockRecorder{})

	_, err := h.Restore(t.Context(), "broken")
	require.ErrorIs(t, err, domain.ErrDecodeMismatch)

	_, err = h.Restore(t.Context(), "missing")
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = h.Restore(t.Context(), "garbled")
	require.ErrorIs(t, err, domain.ErrDecodeMismatch)
}

func TestHuffmanCompressWriteFails(t *testing.T) {
	h := NewHuffman(&memoryOutput{err: errors.New("disk full")}, fixedSizer{}, &mockRecorder{})

	_, err := h.Compress(t.Context(), domain.SourceFile{Name: "a.png", Data: []byte("abc")})
	assert.EqualError(t, err, "disk full")
}

func TestHuffmanCompressEmptyFile(t *testing.T) {
	output := &memoryOutput{}
	h := NewHuffman(output, fixedSizer{}, &mockRecorder{})

	result, err := h.Compress(t.Context(), domain.SourceFile{Name: "empty.png", Data: []byte{}})
	require.NoError(t, err)
	assert.Zero(t, result.Stats.CompressedBits)
	assert.Empty(t, result.CodeTable)

	restored, err := h.Restore(t.Context(), "empty")
	require.NoError(t, err)
	assert.Empty(t, restored)
}
