package core

import "errors"

// Error kinds. Every error returned by tran packages wraps exactly one of these,
// so callers can classify failures with errors.Is.
var (
	ErrConfig        = errors.New("tran: config error")
	ErrFileRead      = errors.New("tran: file read error")
	ErrFileNotFound  = errors.New("tran: file not found")
	ErrWritingConfig = errors.New("tran: cannot write config")
	ErrPNGFormat     = errors.New("tran: invalid png")
	ErrUnsupported   = errors.New("tran: unsupported")
)

// Kind returns the sentinel wrapped by err, or nil if err carries none.
func Kind(err error) error {
	for _, kind := range []error{
		ErrConfig,
		ErrFileRead,
		ErrFileNotFound,
		ErrWritingConfig,
		ErrPNGFormat,
		ErrUnsupported,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
