package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"

	"github.com/vmihailenco/msgpack/v5"
)

// keySchema is mixed into every digest; bump it when the shape of cached
// results changes so stale persisted entries stop matching.
const keySchema uint16 = 2

// Key identifies one compile result. Every input that can change the output
// must be part of it.
type Key struct {
	Options     any    `msgpack:"options"`
	Path        string `msgpack:"path"`
	ContentHash string `msgpack:"hash"`
	Arch        string `msgpack:"arch"`
	// Stages holds the fingerprint of every configured pipeline stage,
	// e.g. {"style": <style.toml digest>, "transpiler": "esbuild target=es2015"}.
	Stages map[string]string `msgpack:"stages,omitempty"`
}

// Digest returns a stable hex SHA-256 of the key. Map keys inside Options are
// sorted, so equal keys produce equal digests across processes.
func (k Key) Digest() (string, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.EncodeUint16(keySchema); err != nil {
		return "", err
	}
	if err := enc.Encode(k); err != nil {
		return "", err
	}
	sum := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:]), nil
}
