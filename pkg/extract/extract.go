package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// MaxChars bounds the extracted text of a document, favoring head content.
const MaxChars = 8000

var (
	// ErrNoText means the document parsed but yielded no usable text.
	ErrNoText = errors.New("no extractable text in document")

	// ErrUnsupported means the document kind carries no extractable text at
	// all (video containers, unknown binaries). The pipeline must fail hard
	// here instead of fabricating content.
	ErrUnsupported = errors.New("unsupported document type")
)

// Document extracts plain text from an uploaded lecture document. True type
// is sniffed from the bytes first, the filename extension only breaks ties.
// Supported: PDF (page markers), DOCX, PPTX (slide markers), TXT/MD.
// The result is capped at MaxChars without splitting a multi-byte character.
func Document(filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty file %q", ErrNoText, filename)
	}

	switch {
	case isPDF(data):
		text, err := fromPDF(data)
		if err != nil {
			return "", err
		}
		return Truncate(text, MaxChars), nil

	case isZipContainer(data):
		text, err := fromOpenXML(filename, data)
		if err != nil {
			return "", err
		}
		return Truncate(text, MaxChars), nil

	case isProbablyText(data):
		text := collapseWhitespace(string(data))
		if text == "" {
			return "", fmt.Errorf("%w: %q is blank", ErrNoText, filename)
		}
		return Truncate(text, MaxChars), nil
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".mp4", ".mov", ".avi", ".mkv", ".webm":
		return "", fmt.Errorf("%w: %q is a video container, paste the lecture text instead", ErrUnsupported, filename)
	}
	return "", fmt.Errorf("%w: cannot read %q", ErrUnsupported, filename)
}

func isPDF(b []byte) bool {
	return len(b) >= 5 && string(b[:5]) == "%PDF-"
}

func isZipContainer(b []byte) bool {
	return len(b) >= 4 && b[0] == 'P' && b[1] == 'K' && b[2] == 3 && b[3] == 4
}

// isProbablyText accepts byte streams that are mostly printable or UTF-8
// continuation bytes with no NULs.
func isProbablyText(b []byte) bool {
	sample := b
	if len(sample) > 4096 {
		sample = sample[:4096]
	}
	good := 0
	for _, c := range sample {
		if c == 0x00 {
			return false
		}
		if c == '\n' || c == '\r' || c == '\t' || (c >= 0x20 && c <= 0x7E) || c >= 0x80 {
			good++
		}
	}
	return float64(good)/float64(len(sample)) > 0.9
}

// fromPDF concatenates page text with [Page N] markers so the model can
// reference locations in the source document.
func fromPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var out strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page does not invalidate the rest.
			continue
		}
		text = collapseWhitespace(text)
		if text == "" {
			continue
		}
		fmt.Fprintf(&out, "[Page %d] %s\n", i, text)
	}

	result := strings.TrimSpace(out.String())
	if result == "" {
		return "", fmt.Errorf("%w: pdf has no text layer", ErrNoText)
	}
	return result, nil
}

// fromOpenXML routes a zip container to the DOCX or PPTX walker based on
// which parts it carries.
func fromOpenXML(filename string, data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open zip container: %w", err)
	}

	hasWord, hasSlides := false, false
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "word/") {
			hasWord = true
		}
		if strings.HasPrefix(f.Name, "ppt/") {
			hasSlides = true
		}
	}

	switch {
	case hasWord:
		return fromDOCX(zr)
	case hasSlides:
		return fromPPTX(zr)
	default:
		return "", fmt.Errorf("%w: %q is a zip but not docx or pptx", ErrUnsupported, filename)
	}
}

func fromDOCX(zr *zip.Reader) (string, error) {
	body, err := readZipEntry(zr, "word/document.xml")
	if err != nil {
		return "", fmt.Errorf("docx body: %w", err)
	}
	text := collapseWhitespace(textElements(body))
	if text == "" {
		return "", fmt.Errorf("%w: docx body is empty", ErrNoText)
	}
	return text, nil
}

// fromPPTX walks ppt/slides/slideN.xml in order, prefixing each slide's
// text with a [Slide N] marker.
func fromPPTX(zr *zip.Reader) (string, error) {
	var out strings.Builder
	for i := 1; ; i++ {
		body, err := readZipEntry(zr, fmt.Sprintf("ppt/slides/slide%d.xml", i))
		if err != nil {
			break
		}
		text := collapseWhitespace(textElements(body))
		if text == "" {
			continue
		}
		fmt.Fprintf(&out, "[Slide %d] %s\n", i, text)
	}

	result := strings.TrimSpace(out.String())
	if result == "" {
		return "", fmt.Errorf("%w: slides carry no text", ErrNoText)
	}
	return result, nil
}

func readZipEntry(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("entry %s not found", name)
}

// textElements gathers the character data of every <t> element (w:t in
// WordprocessingML, a:t in DrawingML).
func textElements(body []byte) string {
	dec := xml.NewDecoder(bytes.NewReader(body))
	var out strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "t" {
			continue
		}
		var v string
		if err := dec.DecodeElement(&v, &se); err != nil {
			continue
		}
		if v != "" {
			out.WriteString(v)
			out.WriteString(" ")
		}
	}
	return out.String()
}

func collapseWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}
