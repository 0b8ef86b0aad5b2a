package domain

import "errors"

var (
	ErrSendingReplyFailed = errors.New("failed to send reply")
	ErrMissingImage       = errors.New("missing image")
	ErrUnsupportedFormat  = errors.New("unsupported image format")
	ErrHistoryUnavailable = errors.New("history unavailable")
)

// Compression core errors.
var (
	// ErrDecode marks an unreadable or corrupt source image.
	ErrDecode = errors.New("cannot decode image")
	// ErrAlignment marks a symbol stream whose length is not a whole number of bytes.
	ErrAlignment = errors.New("stream is not byte aligned")
	// ErrInvalidGeometry marks a crop that would have zero width or height.
	ErrInvalidGeometry = errors.New("invalid crop geometry")
	// ErrDecodeMismatch marks a compressed payload that does not fit its code table.
	ErrDecodeMismatch = errors.New("payload does not match code table")
)

const (
	Lossless        = "lossless"
	OriginalAspect  = "original"
	DefaultQuality  = "medium"
	BytesPerKiloB   = 1024
	HistoryPageSize = 20
)

// History sort keys and orders.
const (
	SortByDate  = "date"
	SortBySize  = "size"
	SortByRatio = "compression_ratio"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)
