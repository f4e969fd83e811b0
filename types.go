package main

import "time"

// ProcessingStatus represents the outcome status of processing a seed record
type ProcessingStatus string

const (
	StatusSuccess ProcessingStatus = "success"
	StatusError   ProcessingStatus = "error"
)

// ProcessingResult tracks the outcome of processing each seed record
type ProcessingResult struct {
	Title  string
	Status ProcessingStatus
	Error  error
}

// RunSummary describes one pipeline invocation for a content type
type RunSummary struct {
	ContentType string
	Total       int
	Written     int
	OutputFile  string // empty when nothing was written
	Uploads     int
	CacheHits   int
	Results     []ProcessingResult
	Duration    time.Duration
}

// Failed returns the results that were skipped because of an error
func (s *RunSummary) Failed() []ProcessingResult {
	var failed []ProcessingResult
	for _, r := range s.Results {
		if r.Status == StatusError {
			failed = append(failed, r)
		}
	}
	return failed
}
