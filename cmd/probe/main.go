package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"

	"ai-studymate-be/internal/config"
	"ai-studymate-be/pkg/transcript"
)

// Diagnostic tool: checks whether a YouTube video has retrievable captions
// before a user submits it. Prints the track inventory and a preview of the
// transcript the server would extract.
//
// Usage: go run ./cmd/probe <youtube-url>
func main() {
	if len(os.Args) < 2 {
		color.Red("Usage: probe <youtube-url>")
		os.Exit(1)
	}
	videoUrl := os.Args[1]

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	color.Cyan("🔍 Probing transcript availability\n")

	videoId, err := transcript.ParseVideoID(videoUrl)
	if err != nil {
		color.Red("Invalid URL: %v", err)
		os.Exit(1)
	}
	color.Green("Video ID: %s", videoId)

	client := transcript.NewTimedTextClient()
	if cfg.Transcript.BaseURL != "" {
		client.BaseURL = cfg.Transcript.BaseURL
	}

	color.Yellow("\n[1] Listing caption tracks")
	tracks, err := client.ListTracks(ctx, videoId)
	if err != nil {
		color.Red("Track listing failed: %v", err)
	} else if len(tracks) == 0 {
		color.Red("No caption tracks advertised")
	} else {
		for _, t := range tracks {
			kind := "manual"
			if t.Generated {
				kind = "auto-generated"
			}
			fmt.Printf("  - %s (%s)\n", t.LangCode, kind)
		}
	}

	color.Yellow("\n[2] Extracting with configured languages %v", cfg.Transcript.Languages)
	extractor := transcript.NewExtractor(client, cfg.Transcript.Languages)
	text, err := extractor.Extract(ctx, videoUrl)
	if err != nil {
		color.Red("Extraction failed: %v", err)
		os.Exit(1)
	}

	color.Green("Extracted %d characters", len(text))
	preview := []rune(text)
	if len(preview) > 400 {
		preview = preview[:400]
	}
	fmt.Printf("\n--- preview ---\n%s\n---------------\n", string(preview))
}
