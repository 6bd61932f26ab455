package transcript

import (
	"context"
	"errors"
)

// DefaultLanguages is the preference order used when none is configured:
// Korean first, then English.
var DefaultLanguages = []string{"ko", "en"}

// Extractor resolves a video URL to a single transcript string. It runs an
// ordered chain of retrieval strategies against the transcript capability
// and aggregates failure reasons when every strategy comes up empty.
type Extractor struct {
	strategies []Strategy
}

func NewExtractor(client Client, langs []string) *Extractor {
	if len(langs) == 0 {
		langs = DefaultLanguages
	}
	return &Extractor{
		strategies: []Strategy{
			directFetchStrategy(client, langs),
			listSelectStrategy(client, langs),
		},
	}
}

// Extract returns the whitespace-joined transcript of the video behind url,
// segments in chronological order. An empty transcript is a failure, never
// an empty success. ErrDisabled short-circuits the strategy chain.
func (e *Extractor) Extract(ctx context.Context, url string) (string, error) {
	videoId, err := ParseVideoID(url)
	if err != nil {
		return "", err
	}

	var failures []strategyError
	for _, s := range e.strategies {
		text, err := s.Run(ctx, videoId)
		if err == nil && text != "" {
			return text, nil
		}
		if errors.Is(err, ErrDisabled) {
			return "", ErrDisabled
		}
		if err == nil {
			err = ErrNotFound
		}
		failures = append(failures, strategyError{Name: s.Name, Err: err})
	}

	return "", aggregateError(failures)
}
