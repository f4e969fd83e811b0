package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aktagon/asset-seeder/internal/objstore"
	"github.com/aktagon/asset-seeder/internal/sqlgen"
)

const bannerWidth = 72

// SeedProcessor runs the upload-and-seed pipeline for one content type at a time
type SeedProcessor struct {
	config   *Config
	store    objstore.ObjectStore
	fetcher  Fetcher
	throttle Throttle
	bodies   *ArticleBodyRenderer
	stdout   io.Writer
	now      func() time.Time
}

// NewSeedProcessor creates a processor writing through store
func NewSeedProcessor(config *Config, store objstore.ObjectStore) *SeedProcessor {
	return &SeedProcessor{
		config:   config,
		store:    store,
		fetcher:  NewAssetFetcher(config.Settings.HTTPTimeout()),
		throttle: NewThrottle(config.Settings.RequestDelay()),
		bodies:   NewArticleBodyRenderer(),
		stdout:   os.Stdout,
		now:      time.Now,
	}
}

// Run loads the seed list for ct and processes it
func (sp *SeedProcessor) Run(ctx context.Context, ct *ContentType) (*RunSummary, error) {
	data, err := sp.config.GetSeedData(ct)
	if err != nil {
		return nil, fmt.Errorf("loading %s seeds: %w", ct.Name, err)
	}

	records, err := ct.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s seeds: %w", ct.Name, err)
	}

	return sp.Process(ctx, ct, records)
}

// Process resolves every record in order, skipping the ones that fail, and
// writes one INSERT statement for the survivors. Nothing is written when no
// record survives. A cancelled context stops the loop; records already
// processed are still written.
func (sp *SeedProcessor) Process(ctx context.Context, ct *ContentType, records []SeedRecord) (*RunSummary, error) {
	start := time.Now()

	cache := NewUploadCache(ct.Namespaced)
	resolver := NewAssetResolver(sp.fetcher, sp.store, cache, ResolverOptions{
		Bucket:           sp.config.Storage.Bucket,
		PublicBaseURL:    sp.config.Storage.PublicURL,
		PublicPathPrefix: sp.config.Settings.PublicPathPrefix,
		CacheControl:     sp.config.Settings.CacheControl,
		Now:              sp.now,
	})
	assets := &Assets{AssetResolver: resolver, Bodies: sp.bodies}

	insert := sqlgen.NewInsert(ct.Table, ct.Columns...)
	summary := &RunSummary{
		ContentType: ct.Name,
		Total:       len(records),
		Results:     make([]ProcessingResult, 0, len(records)),
	}

	log.Printf("Processing %d %s records...", len(records), ct.Name)

	for i, record := range records {
		if err := sp.throttle.Wait(ctx); err != nil {
			log.Printf("Interrupted before record %d/%d: %v", i+1, len(records), err)
			break
		}

		log.Printf("[%d/%d] Processing: %s", i+1, len(records), record.Label())
		result := sp.processRecord(ctx, record, assets, insert)
		summary.Results = append(summary.Results, result)

		if result.Status == StatusSuccess {
			log.Printf("✓ Processed: %s", result.Title)
		} else {
			log.Printf("✗ Failed %s: %v", result.Title, result.Error)
		}
	}

	summary.Uploads = resolver.Uploads()
	summary.CacheHits = resolver.CacheHits()
	summary.Duration = time.Since(start)

	if insert.Len() == 0 {
		log.Printf("No %s records were processed; nothing written", ct.Name)
		return summary, nil
	}

	statement, err := insert.String()
	if err != nil {
		return summary, fmt.Errorf("building %s statement: %w", ct.Name, err)
	}

	sp.printStatement(ct, statement)

	if sp.config.Overrides != nil && sp.config.Overrides.DryRun {
		log.Printf("Dry run: not writing %s", ct.OutputFileName())
		summary.Written = insert.Len()
		return summary, nil
	}

	filename := filepath.Join(sp.config.GetOutputDirectory(), ct.OutputFileName())
	if err := saveStatement(filename, statement); err != nil {
		return summary, fmt.Errorf("saving %s: %w", filename, err)
	}
	summary.Written = insert.Len()
	summary.OutputFile = filename

	log.Printf("✓ Wrote %d of %d %s records to %s (%d uploads, %d cache hits)",
		summary.Written, summary.Total, ct.Name, filename, summary.Uploads, summary.CacheHits)
	return summary, nil
}

// processRecord resolves one record and appends its row. Panics are
// recovered into a record error so one bad record never ends the batch.
func (sp *SeedProcessor) processRecord(ctx context.Context, record SeedRecord, assets *Assets, insert *sqlgen.Insert) (result ProcessingResult) {
	result = ProcessingResult{Title: record.Label()}

	defer func() {
		if p := recover(); p != nil {
			result.Status = StatusError
			result.Error = fmt.Errorf("unexpected failure: %v", p)
		}
	}()

	values, err := record.Values(ctx, assets)
	if err == nil {
		err = insert.AddRow(values...)
	}
	if err != nil {
		result.Status = StatusError
		result.Error = err
		return result
	}

	result.Status = StatusSuccess
	return result
}

func (sp *SeedProcessor) printStatement(ct *ContentType, statement string) {
	rule := strings.Repeat("=", bannerWidth)
	fmt.Fprintf(sp.stdout, "\n%s\n-- %s (%s)\n%s\n%s\n%s\n\n", rule, ct.Table, ct.OutputFileName(), rule, statement, rule)
}

// saveStatement writes the statement verbatim
func saveStatement(filename, statement string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return err
	}
	return os.WriteFile(filename, []byte(statement), 0644)
}
