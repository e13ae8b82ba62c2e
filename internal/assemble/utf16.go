package assemble

import (
	"fmt"

	"golang.org/x/text/encoding/unicode"
)

// The engine's locale string tables are UTF-16LE with a byte-order mark.
// Everything else in the pipeline works on UTF-8, so the tables are decoded
// on read and re-encoded on write.
var localeCodec = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)

func decodeLocaleTable(data []byte) (string, error) {
	decoded, err := localeCodec.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode utf-16 string table: %w", err)
	}
	return string(decoded), nil
}

func encodeLocaleTable(content string) ([]byte, error) {
	encoded, err := localeCodec.NewEncoder().Bytes([]byte(content))
	if err != nil {
		return nil, fmt.Errorf("encode utf-16 string table: %w", err)
	}
	return encoded, nil
}
