package svcomp

import (
	"errors"

	"github.com/arggh/svcomp/lib/encoding"
)

// Codec is an alias for encoding.Codec for convenience.
type Codec = encoding.Codec

// NewCodec creates a codec that signs persisted cache entries with key.
func NewCodec(key []byte) *Codec {
	return encoding.NewCodec(key)
}

// wrapEncodingError wraps encoding package errors with svcomp sentinel errors.
func wrapEncodingError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, encoding.ErrInvalidFormat) {
		return ErrInvalidFormat
	}
	if errors.Is(err, encoding.ErrSignatureInvalid) {
		return ErrSignatureInvalid
	}
	return err
}
