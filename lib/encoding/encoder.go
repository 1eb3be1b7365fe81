package encoding

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Sentinel errors for decoding persisted entries.
var (
	ErrInvalidFormat    = errors.New("encoding: invalid entry format")
	ErrSignatureInvalid = errors.New("encoding: signature verification failed")
)

// Codec serializes cache entries for persistent stores.
// Entries are msgpack encoded and signed with HMAC-SHA256 so that a truncated,
// corrupted or foreign entry is rejected instead of being replayed:
//
//	base64(msgpack).base64(mac[:16])
type Codec struct {
	key []byte
}

// NewCodec creates a codec with the given signing key.
// Keys shorter than 32 bytes are stretched with SHA-256.
func NewCodec(key []byte) *Codec {
	if len(key) < 32 {
		h := sha256.Sum256(key)
		key = h[:]
	}
	return &Codec{key: key}
}

// Marshal encodes and signs v.
func (c *Codec) Marshal(v any) ([]byte, error) {
	packed, err := msgpack.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []byte(c.sign(packed)), nil
}

// Unmarshal verifies data and decodes it into v.
func (c *Codec) Unmarshal(data []byte, v any) error {
	packed, err := c.verify(string(data))
	if err != nil {
		return err
	}
	if err := msgpack.Unmarshal(packed, v); err != nil {
		return errors.Join(ErrInvalidFormat, err)
	}
	return nil
}

// sign creates a signed (but visible) encoding: base64.signature
func (c *Codec) sign(data []byte) string {
	b64 := base64.RawURLEncoding.EncodeToString(data)
	return b64 + "." + base64.RawURLEncoding.EncodeToString(c.mac(data))
}

// verify verifies and decodes a signed string
func (c *Codec) verify(encoded string) ([]byte, error) {
	parts := strings.SplitN(encoded, ".", 2)
	if len(parts) != 2 {
		return nil, ErrInvalidFormat
	}

	data, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, ErrInvalidFormat
	}

	sig, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, ErrInvalidFormat
	}

	if !hmac.Equal(sig, c.mac(data)) {
		return nil, ErrSignatureInvalid
	}

	return data, nil
}

func (c *Codec) mac(data []byte) []byte {
	m := hmac.New(sha256.New, c.key)
	m.Write(data)
	return m.Sum(nil)[:16] // 16 bytes = 128 bits
}
