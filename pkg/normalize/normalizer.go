package normalize

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ai-studymate-be/pkg/apperror"
	"ai-studymate-be/pkg/extract"
	"ai-studymate-be/pkg/store"
	"ai-studymate-be/pkg/transcript"
)

// TranscriptExtractor is the slice of the transcript capability the
// normalizer needs.
type TranscriptExtractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

// Result is the bounded plain-text rendering of a material, ready for
// inclusion in a model prompt. It is derived on demand and not cached
// beyond the request that produced it.
type Result struct {
	Text string
	Kind store.MaterialKind
}

// Normalizer turns an ingested material into prompt-ready text. Extraction
// failures come back as user-facing errors and are never forwarded into a
// prompt.
type Normalizer struct {
	extractor TranscriptExtractor
}

func NewNormalizer(extractor TranscriptExtractor) *Normalizer {
	return &Normalizer{extractor: extractor}
}

func (n *Normalizer) Normalize(ctx context.Context, m *store.Material) (*Result, error) {
	if m == nil {
		return nil, apperror.InputValidation("no material has been uploaded yet")
	}

	switch m.Kind {
	case store.KindText:
		if strings.TrimSpace(m.Text) == "" {
			return nil, apperror.InputValidation("the pasted text is empty")
		}
		return &Result{Text: m.Text, Kind: m.Kind}, nil

	case store.KindVideoLink:
		text, err := n.extractor.Extract(ctx, m.Text)
		if err != nil {
			return nil, mapTranscriptError(err)
		}
		wrapped := fmt.Sprintf(
			"The following is the transcript of a lecture video the user uploaded.\n\n%s",
			text,
		)
		return &Result{Text: wrapped, Kind: m.Kind}, nil

	case store.KindDocument:
		text, err := extract.Document(m.Filename, m.Data)
		if err != nil {
			return nil, mapDocumentError(m.Filename, err)
		}
		wrapped := fmt.Sprintf(
			"The following is text extracted from the uploaded lecture document %q.\n\n%s",
			m.Filename, text,
		)
		return &Result{Text: wrapped, Kind: m.Kind}, nil

	default:
		return nil, apperror.InputValidation(
			fmt.Sprintf("unsupported material kind %q", m.Kind),
		)
	}
}

func mapTranscriptError(err error) error {
	switch {
	case errors.Is(err, transcript.ErrInvalidURL):
		return apperror.InputValidation("that does not look like a valid YouTube URL")
	case errors.Is(err, transcript.ErrDisabled):
		return apperror.Extraction("transcripts disabled for this video", err)
	default:
		return apperror.Extraction("could not retrieve a transcript for this video", err)
	}
}

func mapDocumentError(filename string, err error) error {
	switch {
	case errors.Is(err, extract.ErrUnsupported):
		return apperror.Extraction(
			fmt.Sprintf("%q has no readable text, please paste the lecture content as text instead", filename),
			err,
		)
	case errors.Is(err, extract.ErrNoText):
		return apperror.Extraction(
			fmt.Sprintf("no text could be extracted from %q", filename),
			err,
		)
	default:
		return apperror.Extraction(
			fmt.Sprintf("failed to read %q", filename),
			err,
		)
	}
}
