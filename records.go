package main

import (
	"context"
	"fmt"
	"log"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/aktagon/asset-seeder/internal/sqlgen"
)

const maxGalleryImages = 12

// articleNamespace seeds deterministic article ids
var articleNamespace = uuid.MustParse("6f1c9a52-3b7e-4d1a-9a0e-2c5d8b4f7e10")

// Assets is what a seed record uses to resolve its asset fields
type Assets struct {
	*AssetResolver
	Bodies *ArticleBodyRenderer
}

// SeedRecord is one content item from a seed list
type SeedRecord interface {
	// Label identifies the record in logs
	Label() string
	// Values resolves asset fields and returns the row in column order
	Values(ctx context.Context, a *Assets) ([]sqlgen.Value, error)
}

// ContentType describes one seed list and its target table
type ContentType struct {
	Name    string
	Table   string
	Columns []string
	// Namespaced prefixes cache keys with the folder, for types uploading
	// to more than one folder
	Namespaced bool
	decode     func(data []byte) ([]SeedRecord, error)
}

// OutputFileName returns "<name>-insert.sql"
func (ct *ContentType) OutputFileName() string {
	return ct.Name + "-insert.sql"
}

// Decode parses a YAML seed list
func (ct *ContentType) Decode(data []byte) ([]SeedRecord, error) {
	return ct.decode(data)
}

func decodeSeeds[T SeedRecord](data []byte) ([]SeedRecord, error) {
	var list struct {
		Items []T `yaml:"items"`
	}
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parsing seed YAML: %w", err)
	}

	records := make([]SeedRecord, len(list.Items))
	for i, item := range list.Items {
		records[i] = item
	}
	return records, nil
}

// HeroSlide is a home page hero slide
type HeroSlide struct {
	Title     string  `yaml:"title"`
	Subtitle  *string `yaml:"subtitle"`
	ImageURL  string  `yaml:"image_url"`
	SortOrder int     `yaml:"sort_order"`
}

func (h HeroSlide) Label() string { return h.Title }

func (h HeroSlide) Values(ctx context.Context, a *Assets) ([]sqlgen.Value, error) {
	image, err := a.Require(ctx, AssetRequest{SourceURL: h.ImageURL, Label: h.Title, Folder: "hero"})
	if err != nil {
		return nil, err
	}
	return []sqlgen.Value{
		sqlgen.Text(h.Title),
		sqlgen.OptionalText(h.Subtitle),
		sqlgen.Text(image),
		sqlgen.Int(h.SortOrder),
	}, nil
}

// Article is a news article with a cover image and an optional gallery
type Article struct {
	Title       string   `yaml:"title"`
	Slug        string   `yaml:"slug"`
	Excerpt     *string  `yaml:"excerpt"`
	Content     string   `yaml:"content"`
	BodyHTML    string   `yaml:"body_html"`
	ImageURL    string   `yaml:"image_url"`
	Gallery     []string `yaml:"gallery"`
	Tags        []string `yaml:"tags"`
	Author      *string  `yaml:"author"`
	PublishedAt *string  `yaml:"published_at"`
	Featured    bool     `yaml:"is_featured"`
}

func (ar Article) Label() string { return ar.Title }

func (ar Article) Values(ctx context.Context, a *Assets) ([]sqlgen.Value, error) {
	slug := ar.Slug
	if slug == "" {
		slug = generateSlugFromTitle(ar.Title)
	}

	cover, err := a.Require(ctx, AssetRequest{SourceURL: ar.ImageURL, Label: ar.Title, Folder: "articles"})
	if err != nil {
		return nil, fmt.Errorf("cover image: %w", err)
	}

	sources := ar.Gallery
	if len(sources) > maxGalleryImages {
		log.Printf("  ⚠ %s: gallery has %d images, keeping the first %d", ar.Title, len(sources), maxGalleryImages)
		sources = sources[:maxGalleryImages]
	}
	gallery := make([]string, 0, len(sources))
	for i, src := range sources {
		u, err := a.Resolve(ctx, AssetRequest{
			SourceURL: src,
			Label:     fmt.Sprintf("%s %d", ar.Title, i+1),
			Folder:    "articles/gallery",
			Tag:       "article_gallery",
		})
		if err != nil {
			return nil, fmt.Errorf("gallery image %d: %w", i+1, err)
		}
		if u != "" {
			gallery = append(gallery, u)
		}
	}

	content := ar.Content
	if strings.TrimSpace(ar.BodyHTML) != "" {
		content, err = a.Bodies.Render(ctx, a.AssetResolver, ar.BodyHTML, ar.Title)
		if err != nil {
			return nil, err
		}
	}

	return []sqlgen.Value{
		sqlgen.Text(uuid.NewSHA1(articleNamespace, []byte(slug)).String()),
		sqlgen.Text(ar.Title),
		sqlgen.Text(slug),
		sqlgen.OptionalText(ar.Excerpt),
		sqlgen.Text(content),
		sqlgen.Text(cover),
		sqlgen.JSONArray(gallery),
		sqlgen.JSONArray(ar.Tags),
		sqlgen.OptionalText(ar.Author),
		sqlgen.OptionalText(ar.PublishedAt),
		sqlgen.Bool(ar.Featured),
	}, nil
}

// Director is a board member shown on the about page
type Director struct {
	Name      string  `yaml:"name"`
	Role      string  `yaml:"role"`
	Bio       *string `yaml:"bio"`
	PhotoURL  string  `yaml:"photo_url"`
	SortOrder int     `yaml:"sort_order"`
}

func (d Director) Label() string { return d.Name }

func (d Director) Values(ctx context.Context, a *Assets) ([]sqlgen.Value, error) {
	photo, err := a.Require(ctx, AssetRequest{SourceURL: d.PhotoURL, Label: d.Name, Folder: "directors"})
	if err != nil {
		return nil, err
	}
	return []sqlgen.Value{
		sqlgen.Text(d.Name),
		sqlgen.Text(d.Role),
		sqlgen.OptionalText(d.Bio),
		sqlgen.Text(photo),
		sqlgen.Int(d.SortOrder),
	}, nil
}

// School is a partner school supported by the charity
type School struct {
	Name         string  `yaml:"name"`
	Location     string  `yaml:"location"`
	Description  *string `yaml:"description"`
	ImageURL     string  `yaml:"image_url"`
	StudentCount int     `yaml:"student_count"`
	Active       *bool   `yaml:"is_active"`
}

func (s School) Label() string { return s.Name }

func (s School) Values(ctx context.Context, a *Assets) ([]sqlgen.Value, error) {
	image, err := a.Require(ctx, AssetRequest{SourceURL: s.ImageURL, Label: s.Name, Folder: "schools"})
	if err != nil {
		return nil, err
	}
	active := true
	if s.Active != nil {
		active = *s.Active
	}
	return []sqlgen.Value{
		sqlgen.Text(s.Name),
		sqlgen.Text(s.Location),
		sqlgen.OptionalText(s.Description),
		sqlgen.Text(image),
		sqlgen.Int(s.StudentCount),
		sqlgen.Bool(active),
	}, nil
}

// Section is a content block on the public site; the image is optional
type Section struct {
	Title     string  `yaml:"title"`
	Slug      string  `yaml:"slug"`
	Content   *string `yaml:"content"`
	ImageURL  string  `yaml:"image_url"`
	SortOrder int     `yaml:"sort_order"`
}

func (s Section) Label() string { return s.Title }

func (s Section) Values(ctx context.Context, a *Assets) ([]sqlgen.Value, error) {
	image, err := a.Resolve(ctx, AssetRequest{SourceURL: s.ImageURL, Label: s.Title, Folder: "sections"})
	if err != nil {
		return nil, err
	}
	slug := s.Slug
	if slug == "" {
		slug = generateSlugFromTitle(s.Title)
	}
	return []sqlgen.Value{
		sqlgen.Text(s.Title),
		sqlgen.Text(slug),
		sqlgen.OptionalText(s.Content),
		sqlgen.NullableText(image),
		sqlgen.Int(s.SortOrder),
	}, nil
}

// Video is a video file or YouTube link with an optional thumbnail
type Video struct {
	Title        string  `yaml:"title"`
	Description  *string `yaml:"description"`
	VideoURL     string  `yaml:"video_url"`
	ThumbnailURL string  `yaml:"thumbnail_url"`
	SortOrder    int     `yaml:"sort_order"`
}

func (v Video) Label() string { return v.Title }

func (v Video) Values(ctx context.Context, a *Assets) ([]sqlgen.Value, error) {
	var videoURL string
	thumbnailSource := v.ThumbnailURL

	if isYouTubeURL(v.VideoURL) {
		id, err := extractVideoID(v.VideoURL)
		if err != nil {
			return nil, fmt.Errorf("video: %w", err)
		}
		videoURL = youTubeWatchURL(id)
		if strings.TrimSpace(thumbnailSource) == "" {
			thumbnailSource = youTubeThumbnailURL(id)
		}
	} else {
		var err error
		videoURL, err = a.Require(ctx, AssetRequest{SourceURL: v.VideoURL, Label: v.Title, Folder: "videos", Kind: KindFile})
		if err != nil {
			return nil, fmt.Errorf("video: %w", err)
		}
	}

	thumbnail, err := a.Resolve(ctx, AssetRequest{
		SourceURL: thumbnailSource,
		Label:     v.Title,
		Folder:    "video-thumbnails",
		Tag:       "thumbnail",
	})
	if err != nil {
		return nil, fmt.Errorf("thumbnail: %w", err)
	}

	return []sqlgen.Value{
		sqlgen.Text(v.Title),
		sqlgen.OptionalText(v.Description),
		sqlgen.Text(videoURL),
		sqlgen.NullableText(thumbnail),
		sqlgen.Int(v.SortOrder),
	}, nil
}

// LibraryDocument is a downloadable report or brochure
type LibraryDocument struct {
	Title       string   `yaml:"title"`
	Description *string  `yaml:"description"`
	FileURL     string   `yaml:"file_url"`
	FileType    string   `yaml:"file_type"`
	Tags        []string `yaml:"tags"`
}

func (l LibraryDocument) Label() string { return l.Title }

func (l LibraryDocument) Values(ctx context.Context, a *Assets) ([]sqlgen.Value, error) {
	fileURL, err := a.Require(ctx, AssetRequest{SourceURL: l.FileURL, Label: l.Title, Folder: "library", Kind: KindFile})
	if err != nil {
		return nil, err
	}
	fileType := l.FileType
	if fileType == "" {
		fileType = strings.TrimPrefix(path.Ext(fileURL), ".")
	}
	return []sqlgen.Value{
		sqlgen.Text(l.Title),
		sqlgen.OptionalText(l.Description),
		sqlgen.Text(fileURL),
		sqlgen.Text(fileType),
		sqlgen.JSONArray(l.Tags),
	}, nil
}

var (
	slugUnsafe = regexp.MustCompile(`[^a-z0-9]+`)
	slugDashes = regexp.MustCompile(`-+`)
)

// generateSlugFromTitle creates a URL slug from a title
func generateSlugFromTitle(title string) string {
	if title == "" {
		return "item"
	}

	slug := strings.ToLower(title)
	slug = slugUnsafe.ReplaceAllString(slug, "-")
	slug = slugDashes.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	if len(slug) > 50 {
		slug = slug[:50]
		slug = strings.Trim(slug, "-")
	}

	if slug == "" {
		return "item"
	}

	return slug
}
