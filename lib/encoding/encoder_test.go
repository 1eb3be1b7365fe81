package encoding

import (
	"errors"
	"testing"
)

type testEntry struct {
	Kind    uint8
	Code    string
	Section []string
}

func TestRoundTrip(t *testing.T) {
	codec := NewCodec([]byte("test-key"))

	original := testEntry{
		Kind:    1,
		Code:    "export default function App() {}",
		Section: []string{"<title>x</title>"},
	}

	data, err := codec.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded testEntry
	if err := codec.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if decoded.Kind != original.Kind || decoded.Code != original.Code {
		t.Errorf("decoded = %+v, want %+v", decoded, original)
	}
	if len(decoded.Section) != 1 || decoded.Section[0] != original.Section[0] {
		t.Errorf("Section mismatch: got %v", decoded.Section)
	}
}

func TestLongKeyIsUsedAsIs(t *testing.T) {
	key := []byte("this-is-a-32-byte-key-for-hmac!!")
	codec := NewCodec(key)
	if string(codec.key) != string(key) {
		t.Error("32-byte key should not be stretched")
	}
}

func TestTamperedPayload(t *testing.T) {
	codec := NewCodec([]byte("test-key"))

	data, err := codec.Marshal(testEntry{Code: "x"})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	tampered := append([]byte(nil), data...)
	if tampered[0] == 'A' {
		tampered[0] = 'B'
	} else {
		tampered[0] = 'A'
	}

	var decoded testEntry
	err = codec.Unmarshal(tampered, &decoded)
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Errorf("expected ErrSignatureInvalid, got: %v", err)
	}
}

func TestInvalidFormat(t *testing.T) {
	codec := NewCodec([]byte("test-key"))

	tests := []struct {
		name string
		data string
	}{
		{"missing separator", "invalidbase64withoutseparator"},
		{"bad payload base64", "!!!.AAAA"},
		{"bad signature base64", "AAAA.!!!"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var decoded testEntry
			err := codec.Unmarshal([]byte(tt.data), &decoded)
			if !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("expected ErrInvalidFormat, got: %v", err)
			}
		})
	}
}

func TestDifferentKeysCannotDecode(t *testing.T) {
	data, err := NewCodec([]byte("key-one")).Marshal(testEntry{Code: "x"})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded testEntry
	if err := NewCodec([]byte("key-two")).Unmarshal(data, &decoded); err == nil {
		t.Error("Expected error when decoding with different key")
	}
}
