package sourcemap

import (
	"errors"
	"strings"
)

const base64Chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

const (
	vlqShift    = 5
	vlqMask     = 1<<vlqShift - 1
	vlqContinue = 1 << vlqShift
)

var (
	errVLQTruncated = errors.New("truncated vlq value")
	errVLQChar      = errors.New("invalid base64 character")
)

var base64Index [256]int8

func init() {
	for i := range base64Index {
		base64Index[i] = -1
	}
	for i := 0; i < len(base64Chars); i++ {
		base64Index[base64Chars[i]] = int8(i)
	}
}

func encodeVLQ(b *strings.Builder, v int) {
	u := v << 1
	if v < 0 {
		u = (-v)<<1 | 1
	}
	for {
		digit := u & vlqMask
		u >>= vlqShift
		if u > 0 {
			digit |= vlqContinue
		}
		b.WriteByte(base64Chars[digit])
		if u == 0 {
			return
		}
	}
}

// decodeVLQ reads one value starting at s[pos] and returns it together with
// the index just past it.
func decodeVLQ(s string, pos int) (int, int, error) {
	var result, shift int
	for {
		if pos >= len(s) {
			return 0, pos, errVLQTruncated
		}
		digit := base64Index[s[pos]]
		if digit < 0 {
			return 0, pos, errVLQChar
		}
		pos++
		result += int(digit&vlqMask) << shift
		if digit&vlqContinue == 0 {
			break
		}
		shift += vlqShift
	}
	if result&1 == 1 {
		return -(result >> 1), pos, nil
	}
	return result >> 1, pos, nil
}
