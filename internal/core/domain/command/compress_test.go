package command

import (
	"errors"
	"testing"
	"time"

	"imgpress/internal/core/domain"
	"imgpress/internal/core/domain/lossy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okResult() domain.FileResult {
	return domain.FileResult{
		Filename:           "cat.png",
		OriginalSize:       4096,
		CompressedSize:     1024,
		CompressionRatio:   75,
		OriginalDimensions: domain.Dimensions{Width: 400, Height: 300},
		FinalDimensions:    domain.Dimensions{Width: 300, Height: 300},
		CompressedData:     []byte("jpeg"),
	}
}

func TestCompress_Success(t *testing.T) {
	mf := &MockFetcher{data: []byte("png bytes")}
	mc := &MockBatchCompressor{result: okResult()}
	ml := &MockLimiter{}
	mt := &MockTextSender{}
	md := &MockDocumentSender{}

	c := NewCompress(mf, mc, ml, mt, md, "medium", "/compress")
	assert.Equal(t, "/compress", c.GetCommand())

	msg := &domain.Message{
		ID:        1,
		ChatID:    7,
		Text:      "/compress low 1:1 200",
		ImageURL:  "https://files.example/cat",
		ImageName: "cat.png",
	}

	err := c.Respond(t.Context(), time.Second, msg)
	require.NoError(t, err)

	assert.Equal(t, "https://files.example/cat", mf.url)
	assert.Equal(t, []domain.SourceFile{{Name: "cat.png", Data: []byte("png bytes")}}, mc.files)
	assert.Equal(t, lossy.Options{Quality: "low", AspectRatio: "1:1", MaxBytes: 200 * 1024}, mc.opts)
	assert.Equal(t, 4096, ml.used[7])
	assert.Empty(t, mt.Message)

	require.Len(t, md.sent, 1)
	assert.Equal(t, "cat_compressed.jpg", md.sent[0].filename)
	assert.Equal(t, []byte("jpeg"), md.sent[0].data)
	assert.Equal(t, "cat.png: 4.0 KB -> 1.0 KB (75.00% saved)\n400x300 -> 300x300, quality low, aspect 1:1",
		md.sent[0].caption)
}

func TestCompress_MissingImage(t *testing.T) {
	mt := &MockTextSender{}
	md := &MockDocumentSender{}
	c := NewCompress(&MockFetcher{}, &MockBatchCompressor{}, &MockLimiter{}, mt, md, "medium", "/compress")

	err := c.Respond(t.Context(), time.Second, &domain.Message{ID: 1, ChatID: 1, Text: "/compress"})
	require.NoError(t, err)
	assert.Equal(t, "missing image", mt.Message)
	assert.Empty(t, md.sent)
}

func TestCompress_InvalidArguments(t *testing.T) {
	mc := &MockBatchCompressor{}
	mt := &MockTextSender{}
	c := NewCompress(&MockFetcher{}, mc, &MockLimiter{}, mt, &MockDocumentSender{}, "medium", "/compress")

	err := c.Respond(t.Context(), time.Second, &domain.Message{
		ID: 1, ChatID: 1, Text: "/compress 0:9", ImageURL: "url"})
	require.NoError(t, err)
	assert.Contains(t, mt.Message, domain.ErrInvalidGeometry.Error())
	assert.Contains(t, mt.Message, compressUsage)
	assert.Nil(t, mc.files)
}

func TestCompress_UnknownQuality(t *testing.T) {
	mc := &MockBatchCompressor{result: okResult()}
	mt := &MockTextSender{}
	md := &MockDocumentSender{}
	c := NewCompress(&MockFetcher{data: []byte("x")}, mc, &MockLimiter{}, mt, md, "high", "/compress")

	err := c.Respond(t.Context(), time.Second, &domain.Message{
		ID: 1, ChatID: 1, Text: "/compress ultra", ImageURL: "url"})
	require.NoError(t, err)
	assert.Equal(t, "medium", mc.opts.Quality)
	assert.Empty(t, mt.Message)
	assert.Len(t, md.sent, 1)
}

func TestCompress_LimitReached(t *testing.T) {
	mf := &MockFetcher{}
	c := NewCompress(mf, &MockBatchCompressor{}, &MockLimiter{blocked: true}, &MockTextSender{},
		&MockDocumentSender{}, "medium", "/compress")

	err := c.Respond(t.Context(), time.Second, &domain.Message{
		ID: 1, ChatID: 1, Text: "/compress", ImageURL: "url"})
	require.NoError(t, err)
	assert.Empty(t, mf.url)
}

func TestCompress_FailedResult(t *testing.T) {
	mt := &MockTextSender{}
	md := &MockDocumentSender{}
	ml := &MockLimiter{}
	mc := &MockBatchCompressor{result: domain.FileResult{
		Filename: "notes.txt", Error: domain.ErrUnsupportedFormat.Error()}}
	c := NewCompress(&MockFetcher{data: []byte("x")}, mc, ml, mt, md, "medium", "/compress")

	err := c.Respond(t.Context(), time.Second, &domain.Message{
		ID: 1, ChatID: 1, Text: "/compress", ImageURL: "url", ImageName: "notes.txt"})
	require.NoError(t, err)
	assert.Equal(t, "notes.txt: unsupported image format", mt.Message)
	assert.Empty(t, md.sent)
	assert.Empty(t, ml.used)
}

func TestCompress_DownloadError(t *testing.T) {
	mt := &MockTextSender{}
	c := NewCompress(&MockFetcher{err: errors.New("timeout")}, &MockBatchCompressor{}, &MockLimiter{}, mt,
		&MockDocumentSender{}, "medium", "/compress")

	err := c.Respond(t.Context(), time.Second, &domain.Message{
		ID: 1, ChatID: 1, Text: "/compress", ImageURL: "url"})
	require.NoError(t, err)
	assert.Equal(t, "failed to download image: timeout", mt.Message)
}

func TestCompress_SendError(t *testing.T) {
	mt := &MockTextSender{err: errors.New("telegram down")}
	md := &MockDocumentSender{err: errors.New("too large")}
	c := NewCompress(&MockFetcher{data: []byte("x")}, &MockBatchCompressor{result: okResult()}, &MockLimiter{},
		mt, md, "medium", "/compress")

	err := c.Respond(t.Context(), time.Second, &domain.Message{
		ID: 1, ChatID: 1, Text: "/compress", ImageURL: "url"})
	require.Error(t, err)
	assert.Equal(t, "failed to send compressed image: too large", mt.Message)
}

func TestParseCompressOptions(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    lossy.Options
		wantErr error
	}{
		{
			name: "defaults",
			args: nil,
			want: lossy.Options{Quality: "high", AspectRatio: "original"},
		},
		{
			name: "any order",
			args: []string{"16:9", "50", "LOW"},
			want: lossy.Options{Quality: "low", AspectRatio: "16:9", MaxBytes: 50 * 1024},
		},
		{
			name: "explicit original",
			args: []string{"original"},
			want: lossy.Options{Quality: "high", AspectRatio: "original"},
		},
		{
			name: "unknown quality falls back to medium",
			args: []string{"ultra", "4:3"},
			want: lossy.Options{Quality: "medium", AspectRatio: "4:3"},
		},
		{
			name:    "malformed ratio",
			args:    []string{"16:nine"},
			wantErr: domain.ErrInvalidGeometry,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseCompressOptions(tc.args, "high")
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := parseCompressOptions([]string{"-5"}, "high")
	assert.Error(t, err)
}

func TestNewCompressUnknownDefaultQuality(t *testing.T) {
	c := NewCompress(nil, nil, nil, nil, nil, "ultra", "/compress")
	assert.Equal(t, domain.DefaultQuality, c.defaultQuality)
}
