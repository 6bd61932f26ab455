package transcript

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"
)

// Typed failures of the transcript capability.
var (
	// ErrNotFound means no caption track exists for the requested language.
	// Callers fall through to the next language or strategy.
	ErrNotFound = errors.New("transcript not found for language")

	// ErrDisabled means captions are turned off for the video entirely.
	// This is terminal, no further fallback is attempted.
	ErrDisabled = errors.New("transcripts disabled for this video")
)

// Segment is one caption entry with its start offset in seconds.
type Segment struct {
	Text  string
	Start float64
}

// Track describes one available caption track.
type Track struct {
	LangCode  string
	Generated bool // auto-generated (ASR) track
}

// Client is the low-level transcript capability: list available tracks and
// fetch the segments of one track.
type Client interface {
	ListTracks(ctx context.Context, videoId string) ([]Track, error)
	Fetch(ctx context.Context, videoId, lang string, generated bool) ([]Segment, error)
}

const timedTextBaseURL = "https://video.google.com/timedtext"

// TimedTextClient talks to YouTube's timedtext endpoints.
type TimedTextClient struct {
	BaseURL string
	Client  *http.Client
}

var _ Client = &TimedTextClient{}

func NewTimedTextClient() *TimedTextClient {
	return &TimedTextClient{
		BaseURL: timedTextBaseURL,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// --- XML payloads (internal to this package) ---

type trackListXML struct {
	XMLName xml.Name `xml:"transcript_list"`
	Tracks  []struct {
		LangCode string `xml:"lang_code,attr"`
		Kind     string `xml:"kind,attr"`
	} `xml:"track"`
}

type transcriptXML struct {
	XMLName xml.Name `xml:"transcript"`
	Texts   []struct {
		Start float64 `xml:"start,attr"`
		Body  string  `xml:",chardata"`
	} `xml:"text"`
}

func (c *TimedTextClient) ListTracks(ctx context.Context, videoId string) ([]Track, error) {
	params := url.Values{}
	params.Set("type", "list")
	params.Set("v", videoId)

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	// An empty body here means the video exposes no caption tracks at all.
	if len(body) == 0 {
		return nil, ErrDisabled
	}

	var list trackListXML
	if err := xml.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("parse track list: %w", err)
	}
	if len(list.Tracks) == 0 {
		return nil, ErrDisabled
	}

	tracks := make([]Track, 0, len(list.Tracks))
	for _, t := range list.Tracks {
		tracks = append(tracks, Track{
			LangCode:  t.LangCode,
			Generated: t.Kind == "asr",
		})
	}
	return tracks, nil
}

func (c *TimedTextClient) Fetch(ctx context.Context, videoId, lang string, generated bool) ([]Segment, error) {
	params := url.Values{}
	params.Set("v", videoId)
	params.Set("lang", lang)
	if generated {
		params.Set("kind", "asr")
	}

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	// The endpoint answers 200 with an empty body when the track is missing.
	if len(body) == 0 {
		return nil, ErrNotFound
	}

	var tr transcriptXML
	if err := xml.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("parse transcript: %w", err)
	}
	if len(tr.Texts) == 0 {
		return nil, ErrNotFound
	}

	segments := make([]Segment, 0, len(tr.Texts))
	for _, t := range tr.Texts {
		segments = append(segments, Segment{
			Text:  html.UnescapeString(t.Body),
			Start: t.Start,
		})
	}
	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].Start < segments[j].Start
	})
	return segments, nil
}

func (c *TimedTextClient) get(ctx context.Context, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("timedtext request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("timedtext error: status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
