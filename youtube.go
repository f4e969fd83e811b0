package main

import (
	"fmt"
	"net/url"
	"strings"
)

// isYouTubeURL reports whether a video source is hosted on YouTube. Such
// videos are referenced, never downloaded.
func isYouTubeURL(videoURL string) bool {
	parsedURL, err := url.Parse(strings.TrimSpace(videoURL))
	if err != nil {
		return false
	}
	return strings.Contains(parsedURL.Host, "youtube.com") || strings.Contains(parsedURL.Host, "youtu.be")
}

func extractVideoID(videoURL string) (string, error) {
	parsedURL, err := url.Parse(strings.TrimSpace(videoURL))
	if err != nil {
		return "", err
	}

	// Validate YouTube domain
	if !strings.Contains(parsedURL.Host, "youtube.com") && !strings.Contains(parsedURL.Host, "youtu.be") {
		return "", fmt.Errorf("not a YouTube URL")
	}

	// Handle youtu.be URLs
	if strings.Contains(parsedURL.Host, "youtu.be") {
		id := strings.TrimPrefix(parsedURL.Path, "/")
		if id == "" {
			return "", fmt.Errorf("no video ID found in URL")
		}
		return id, nil
	}

	// Handle /embed/<id> and /shorts/<id>
	for _, prefix := range []string{"/embed/", "/shorts/"} {
		if strings.HasPrefix(parsedURL.Path, prefix) {
			id := strings.Trim(strings.TrimPrefix(parsedURL.Path, prefix), "/")
			if id != "" {
				return id, nil
			}
		}
	}

	// Handle youtube.com/watch URLs
	videoID := parsedURL.Query().Get("v")
	if videoID == "" {
		return "", fmt.Errorf("no video ID found in URL")
	}
	return videoID, nil
}

// youTubeWatchURL is the canonical form stored in the videos table
func youTubeWatchURL(videoID string) string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID)
}

// youTubeThumbnailURL is the thumbnail source used when a seed gives none
func youTubeThumbnailURL(videoID string) string {
	return fmt.Sprintf("https://img.youtube.com/vi/%s/hqdefault.jpg", videoID)
}
