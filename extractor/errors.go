package extractor

import "errors"

// ErrorKind is the coarse, caller-facing failure category.
type ErrorKind string

const (
	KindInvalidArgs      ErrorKind = "invalid_args"
	KindDownloadFailed   ErrorKind = "download_failed"
	KindExtractionFailed ErrorKind = "extraction_failed"
)

// Error is an extraction failure tagged with its kind.
type Error struct {
	Kind ErrorKind
	Err  error
}

// Error returns the underlying error's description, which becomes the
// result's message.
func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// DownloadError tags err as a download failure.
func DownloadError(err error) *Error {
	return &Error{Kind: KindDownloadFailed, Err: err}
}

// ExtractionError tags err as an extraction failure.
func ExtractionError(err error) *Error {
	return &Error{Kind: KindExtractionFailed, Err: err}
}

// InvalidArgsError tags err as a usage error.
func InvalidArgsError(err error) *Error {
	return &Error{Kind: KindInvalidArgs, Err: err}
}

// KindOf returns the kind of err, defaulting to extraction_failed for untagged errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindExtractionFailed
}
