package readfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		out  string
	}{
		{
			name: "empty file",
			in:   "",
			out:  "",
		},
		{
			name: "unix newlines",
			in:   "one\ntwo\n",
			out:  "one\ntwo\n",
		},
		{
			name: "windows newlines",
			in:   "one\r\ntwo\r\n",
			out:  "one\ntwo\n",
		},
		{
			name: "standalone carriage returns preserved",
			in:   "a\rb\n\r\n",
			out:  "a\rb\n\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize([]byte(tc.in)); got != tc.out {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.out)
			}
		})
	}
}

func TestReadDocumentKeepsOffsetsOfNormalizedText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plot.py")
	if err := os.WriteFile(path, []byte("a = 1\r\nc = \"red\"\r\n"), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	doc, err := ReadDocument(path)
	if err != nil {
		t.Fatalf("ReadDocument: %v", err)
	}
	if want := "a = 1\nc = \"red\"\n"; doc != want {
		t.Fatalf("doc = %q, want %q", doc, want)
	}
}

func TestReadDocumentMissingFile(t *testing.T) {
	if _, err := ReadDocument(filepath.Join(t.TempDir(), "missing.R")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestReadDocumentRejectsBinary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.py")
	if err := os.WriteFile(path, []byte{0x89, 'P', 'N', 'G', 0x00, 0x01}, 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	if _, err := ReadDocument(path); !errors.Is(err, ErrBinary) {
		t.Fatalf("ReadDocument err = %v, want ErrBinary", err)
	}
}

func TestLooksBinary(t *testing.T) {
	if LooksBinary([]byte("color = \"#fff\"\n")) {
		t.Fatalf("plain text reported as binary")
	}
	if !LooksBinary([]byte{0x89, 'P', 'N', 'G', 0x00, 0x01}) {
		t.Fatalf("NUL bytes should be binary")
	}
	if LooksBinary([]byte("couleur = \"é\"")[:12]) {
		t.Fatalf("truncated trailing rune should not count as binary")
	}
}

func TestFirstLine(t *testing.T) {
	if got := FirstLine("#!/usr/bin/env Rscript\nx <- 1"); got != "#!/usr/bin/env Rscript" {
		t.Fatalf("FirstLine = %q", got)
	}
	if got := FirstLine("single"); got != "single" {
		t.Fatalf("FirstLine = %q", got)
	}
}
