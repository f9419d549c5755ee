package readfile

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"unicode/utf8"
)

const binarySniffLen = 8000

var ErrBinary = errors.New("binary file")

// ReadDocument returns the file contents with CRLF line endings folded to LF.
// Offsets reported against the returned text refer to the normalized form.
// Files that look binary return ErrBinary.
func ReadDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if LooksBinary(data) {
		return "", ErrBinary
	}
	return Normalize(data), nil
}

func Normalize(data []byte) string {
	return strings.ReplaceAll(string(data), "\r\n", "\n")
}

func LooksBinary(data []byte) bool {
	head := data[:min(len(data), binarySniffLen)]
	if bytes.IndexByte(head, 0) >= 0 {
		return true
	}
	return !utf8.Valid(trimPartialRune(head))
}

func trimPartialRune(b []byte) []byte {
	for i := 0; i < utf8.UTFMax && len(b) > 0; i++ {
		if utf8.Valid(b) {
			return b
		}
		b = b[:len(b)-1]
	}
	return b
}

func FirstLine(doc string) string {
	if i := strings.IndexByte(doc, '\n'); i >= 0 {
		return doc[:i]
	}
	return doc
}
