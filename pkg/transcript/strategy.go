package transcript

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Strategy is one way to obtain a transcript for a video id. Strategies are
// executed in order; each catches its own failure and defers to the next,
// except ErrDisabled which is terminal for the whole chain.
type Strategy struct {
	Name string
	Run  func(ctx context.Context, videoId string) (string, error)
}

// directFetchStrategy asks for each (language, generated) combination
// straight away, without listing tracks first. This matches the older
// call signature of the capability: a language list handed in directly.
func directFetchStrategy(client Client, langs []string) Strategy {
	return Strategy{
		Name: "direct-fetch",
		Run: func(ctx context.Context, videoId string) (string, error) {
			// Manual tracks across all preferred languages first, then
			// auto-generated ones in the same priority.
			for _, generated := range []bool{false, true} {
				for _, lang := range langs {
					segments, err := client.Fetch(ctx, videoId, lang, generated)
					if err != nil {
						if errors.Is(err, ErrNotFound) {
							continue
						}
						return "", err
					}
					if text := joinSegments(segments); text != "" {
						return text, nil
					}
				}
			}
			return "", ErrNotFound
		},
	}
}

// listSelectStrategy performs the newer two-step shape: list the available
// tracks, pick the best match against the language preference, then fetch
// that single track.
func listSelectStrategy(client Client, langs []string) Strategy {
	return Strategy{
		Name: "list-select",
		Run: func(ctx context.Context, videoId string) (string, error) {
			tracks, err := client.ListTracks(ctx, videoId)
			if err != nil {
				return "", err
			}

			track, ok := selectTrack(tracks, langs)
			if !ok {
				return "", ErrNotFound
			}

			segments, err := client.Fetch(ctx, videoId, track.LangCode, track.Generated)
			if err != nil {
				return "", err
			}
			if text := joinSegments(segments); text != "" {
				return text, nil
			}
			return "", ErrNotFound
		},
	}
}

// selectTrack picks a manual track in language-preference order, then an
// auto-generated one in the same order.
func selectTrack(tracks []Track, langs []string) (Track, bool) {
	for _, generated := range []bool{false, true} {
		for _, lang := range langs {
			for _, t := range tracks {
				if t.Generated == generated && matchLang(t.LangCode, lang) {
					return t, true
				}
			}
		}
	}
	return Track{}, false
}

// matchLang treats regional variants ("en-US") as matching their base
// language ("en").
func matchLang(code, want string) bool {
	code = strings.ToLower(code)
	want = strings.ToLower(want)
	return code == want || strings.HasPrefix(code, want+"-")
}

func joinSegments(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if t := strings.TrimSpace(s.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// strategyError records why one strategy failed, for the aggregated report.
type strategyError struct {
	Name string
	Err  error
}

func aggregateError(failures []strategyError) error {
	reasons := make([]string, 0, len(failures))
	for _, f := range failures {
		reasons = append(reasons, fmt.Sprintf("%s: %v", f.Name, f.Err))
	}
	return fmt.Errorf("all transcript strategies failed (%s)", strings.Join(reasons, "; "))
}
