package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"github.com/aktagon/asset-seeder/internal/objstore"
)

// ErrMissingAsset is returned when a required asset field has no source URL
var ErrMissingAsset = errors.New("missing required asset")

// AssetKind selects the fallback content type and extension
type AssetKind int

const (
	KindImage AssetKind = iota
	KindFile
)

func (k AssetKind) defaultContentType() string {
	if k == KindFile {
		return "application/octet-stream"
	}
	return "image/jpeg"
}

func (k AssetKind) defaultExtension() string {
	if k == KindFile {
		return "bin"
	}
	return "jpg"
}

// AssetRequest names one asset field of a seed record
type AssetRequest struct {
	SourceURL string
	Label     string // human-readable; sanitized into the file name
	Folder    string // storage key prefix, e.g. "hero" or "video-thumbnails"
	Tag       string // file name prefix; defaults to the folder's last segment
	Kind      AssetKind
}

// Fetcher downloads a remote asset
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Asset, error)
}

// ResolverOptions holds the storage destination for re-hosted assets
type ResolverOptions struct {
	Bucket           string
	PublicBaseURL    string
	PublicPathPrefix string
	CacheControl     string
	Now              func() time.Time
}

// AssetResolver re-hosts remote assets in object storage, at most once per
// cache key. Calls are expected one at a time; the pipeline never resolves
// two assets concurrently.
type AssetResolver struct {
	fetcher    Fetcher
	store      objstore.ObjectStore
	cache      *UploadCache
	opts       ResolverOptions
	extensions map[AssetKind]*ExtensionChain
	uploads    int
}

// NewAssetResolver creates a resolver writing through store and remembering
// uploads in cache
func NewAssetResolver(fetcher Fetcher, store objstore.ObjectStore, cache *UploadCache, opts ResolverOptions) *AssetResolver {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &AssetResolver{
		fetcher: fetcher,
		store:   store,
		cache:   cache,
		opts:    opts,
		extensions: map[AssetKind]*ExtensionChain{
			KindImage: NewExtensionChain(KindImage.defaultExtension()),
			KindFile:  NewExtensionChain(KindFile.defaultExtension()),
		},
	}
}

// Resolve returns the public URL for req.SourceURL, downloading and
// uploading it on first use. An empty source URL resolves to "" without
// any network activity.
func (r *AssetResolver) Resolve(ctx context.Context, req AssetRequest) (string, error) {
	src := strings.TrimSpace(req.SourceURL)
	if src == "" {
		return "", nil
	}

	cacheKey := r.cache.Key(src, req.Folder)
	if publicURL, ok := r.cache.Get(cacheKey); ok {
		log.Printf("  ⏭ Skipping download, already uploaded: %s", src)
		return publicURL, nil
	}

	log.Printf("  → Downloading %s", src)
	asset, err := r.fetcher.Fetch(ctx, src)
	if err != nil {
		return "", err
	}

	contentType := DetectContentType(asset.ContentType, src, req.Kind.defaultContentType())
	ext := r.extensions[req.Kind].Extension(src, contentType)
	fileName := assetFileName(req.tag(), r.opts.Now(), req.label(), ext)
	storageKey := strings.Trim(req.Folder, "/") + "/" + fileName

	debugLog("cache key %q → %s (%s, %d bytes)", cacheKey, storageKey, contentType, len(asset.Body))

	log.Printf("  → Uploading %s", storageKey)
	err = r.store.PutObject(ctx, objstore.PutObjectInput{
		Bucket:       r.opts.Bucket,
		Key:          storageKey,
		Body:         asset.Body,
		ContentType:  contentType,
		CacheControl: r.opts.CacheControl,
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", src, err)
	}

	publicURL := objstore.PublicURL(r.opts.PublicBaseURL, r.opts.PublicPathPrefix, storageKey)
	r.cache.Set(cacheKey, publicURL)
	r.uploads++

	return publicURL, nil
}

// Require is Resolve for mandatory fields: an empty source URL is ErrMissingAsset
func (r *AssetResolver) Require(ctx context.Context, req AssetRequest) (string, error) {
	if strings.TrimSpace(req.SourceURL) == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingAsset, req.label())
	}
	return r.Resolve(ctx, req)
}

// Uploads returns the number of objects written so far
func (r *AssetResolver) Uploads() int {
	return r.uploads
}

// CacheHits returns the number of resolutions answered from the cache
func (r *AssetResolver) CacheHits() int {
	return r.cache.Hits()
}

func (req AssetRequest) tag() string {
	if req.Tag != "" {
		return req.Tag
	}
	return strings.ReplaceAll(path.Base(strings.Trim(req.Folder, "/")), "-", "_")
}

func (req AssetRequest) label() string {
	if strings.TrimSpace(req.Label) == "" {
		return "asset"
	}
	return req.Label
}
