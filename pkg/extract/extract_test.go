package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{name: "under cap unchanged", in: "short", max: 10, want: "short"},
		{name: "exact cap unchanged", in: "12345", max: 5, want: "12345"},
		{name: "over cap cut", in: "123456", max: 5, want: "12345"},
		{name: "zero cap", in: "abc", max: 0, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in, tt.max); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}

func TestTruncateNeverSplitsMultibyte(t *testing.T) {
	// Korean text: every character is 3 bytes in UTF-8.
	in := strings.Repeat("강의자료", 3000)
	got := Truncate(in, MaxChars)

	if n := utf8.RuneCountInString(got); n != MaxChars {
		t.Errorf("rune count = %d, want %d", n, MaxChars)
	}
	if !utf8.ValidString(got) {
		t.Error("truncated string is not valid UTF-8")
	}
}

func TestDocumentPlainText(t *testing.T) {
	text, err := Document("lecture.txt", []byte("Lecture on derivatives.\n\nThe slope of a curve."))
	if err != nil {
		t.Fatalf("Document() error = %v", err)
	}
	if text != "Lecture on derivatives. The slope of a curve." {
		t.Errorf("Document() = %q", text)
	}
}

func TestDocumentTextOverCapTruncates(t *testing.T) {
	long := strings.Repeat("a", MaxChars+500)
	text, err := Document("notes.md", []byte(long))
	if err != nil {
		t.Fatalf("Document() error = %v", err)
	}
	if len(text) != MaxChars {
		t.Errorf("len = %d, want exactly %d", len(text), MaxChars)
	}
}

func TestDocumentVideoContainerIsHardFailure(t *testing.T) {
	// Minimal mp4-ish binary blob: not text, not pdf, not zip.
	data := append([]byte{0x00, 0x00, 0x00, 0x18}, []byte("ftypmp42")...)
	_, err := Document("lecture.mp4", data)
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("Document() error = %v, want ErrUnsupported", err)
	}
}

func TestDocumentEmptyFile(t *testing.T) {
	_, err := Document("empty.pdf", nil)
	if !errors.Is(err, ErrNoText) {
		t.Fatalf("Document() error = %v, want ErrNoText", err)
	}
}

func TestDocumentDOCX(t *testing.T) {
	data := buildZip(t, map[string]string{
		"word/document.xml": `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body><w:p><w:r><w:t>Limits and</w:t></w:r><w:r><w:t>continuity</w:t></w:r></w:p></w:body>
</w:document>`,
	})

	text, err := Document("lecture.docx", data)
	if err != nil {
		t.Fatalf("Document() error = %v", err)
	}
	if text != "Limits and continuity" {
		t.Errorf("Document() = %q", text)
	}
}

func TestDocumentPPTXSlideMarkers(t *testing.T) {
	data := buildZip(t, map[string]string{
		"ppt/slides/slide1.xml": `<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"><a:t>Intro</a:t></p:sld>`,
		"ppt/slides/slide2.xml": `<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"><a:t>Chain rule</a:t></p:sld>`,
	})

	text, err := Document("deck.pptx", data)
	if err != nil {
		t.Fatalf("Document() error = %v", err)
	}
	if !strings.Contains(text, "[Slide 1] Intro") || !strings.Contains(text, "[Slide 2] Chain rule") {
		t.Errorf("Document() = %q, want slide markers", text)
	}
}

func TestDocumentZipWithoutOfficeParts(t *testing.T) {
	data := buildZip(t, map[string]string{"random.bin": "payload"})
	_, err := Document("archive.zip", data)
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("Document() error = %v, want ErrUnsupported", err)
	}
}

func buildZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}
