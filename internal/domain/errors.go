package domain

import "errors"

// Sentinel errors shared across the service. Handlers match these with
// errors.Is to pick the HTTP status; components wrap them with context via
// fmt.Errorf("...: %w", ...).
var (
	// ErrUnsupportedFileType is returned when an upload's extension is not in
	// the accepted allow-list (.pdf, .txt, .docx).
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrNoExtractableText is returned when a document yields no usable text
	// after extraction and trimming.
	ErrNoExtractableText = errors.New("no extractable text")

	// ErrEmptyInput is returned when a request carries no text, question, or
	// filename to act on.
	ErrEmptyInput = errors.New("empty input")

	// ErrInvalidChunkPolicy is returned when a chunking policy would not make
	// forward progress (size must exceed overlap, overlap must be >= 0).
	ErrInvalidChunkPolicy = errors.New("invalid chunk policy")

	// ErrBackendUnavailable marks embedding or generation backend failures
	// (unreachable, timeout, bad status) so callers can distinguish them from
	// input rejection and decide whether to retry.
	ErrBackendUnavailable = errors.New("model backend unavailable")
)
