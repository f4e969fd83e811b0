package main

import (
	"embed"
	"fmt"
	"sort"
)

//go:embed seeds/*.yaml
var seedFS embed.FS

// contentTypes lists every seedable content type in the order "all" runs them
var contentTypes = []*ContentType{
	{
		Name:       "articles",
		Table:      "articles",
		Columns:    []string{"id", "title", "slug", "excerpt", "content", "image_url", "gallery", "tags", "author", "published_at", "is_featured"},
		Namespaced: true,
		decode:     decodeSeeds[Article],
	},
	{
		Name:    "hero",
		Table:   "hero",
		Columns: []string{"title", "subtitle", "image_url", "sort_order"},
		decode:  decodeSeeds[HeroSlide],
	},
	{
		Name:    "directors",
		Table:   "directors",
		Columns: []string{"name", "role", "bio", "photo_url", "sort_order"},
		decode:  decodeSeeds[Director],
	},
	{
		Name:    "schools",
		Table:   "schools",
		Columns: []string{"name", "location", "description", "image_url", "student_count", "is_active"},
		decode:  decodeSeeds[School],
	},
	{
		Name:    "sections",
		Table:   "sections",
		Columns: []string{"title", "slug", "content", "image_url", "sort_order"},
		decode:  decodeSeeds[Section],
	},
	{
		Name:       "videos",
		Table:      "videos",
		Columns:    []string{"title", "description", "video_url", "thumbnail_url", "sort_order"},
		Namespaced: true,
		decode:     decodeSeeds[Video],
	},
	{
		Name:    "library",
		Table:   "library",
		Columns: []string{"title", "description", "file_url", "file_type", "tags"},
		decode:  decodeSeeds[LibraryDocument],
	},
}

// LookupContentType finds a content type by name
func LookupContentType(name string) (*ContentType, error) {
	for _, ct := range contentTypes {
		if ct.Name == name {
			return ct, nil
		}
	}
	names := make([]string, len(contentTypes))
	for i, ct := range contentTypes {
		names[i] = ct.Name
	}
	sort.Strings(names)
	return nil, fmt.Errorf("unknown content type %q (want one of %v)", name, names)
}

func embeddedSeeds(name string) ([]byte, error) {
	data, err := seedFS.ReadFile("seeds/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("no embedded seeds for %s: %w", name, err)
	}
	return data, nil
}
