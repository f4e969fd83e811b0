package main

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// ExtensionRule proposes a file extension for a downloaded asset
type ExtensionRule interface {
	Extension(sourceURL, contentType string) (string, bool)
}

// URLSuffixRule takes the trailing .ext of the source URL path
type URLSuffixRule struct{}

var urlSuffixPattern = regexp.MustCompile(`\.([A-Za-z0-9]{1,5})$`)

func (URLSuffixRule) Extension(sourceURL, _ string) (string, bool) {
	path := sourceURL
	if u, err := url.Parse(sourceURL); err == nil {
		path = u.Path
	}
	m := urlSuffixPattern.FindStringSubmatch(path)
	if m == nil {
		return "", false
	}
	return strings.ToLower(m[1]), true
}

type contentTypeExtension struct {
	substring string
	ext       string
}

// ContentTypeRule guesses the extension from a content-type substring.
// Entries are checked in order.
type ContentTypeRule struct {
	table []contentTypeExtension
}

var contentTypeExtensions = []contentTypeExtension{
	{"jpeg", "jpg"},
	{"jpg", "jpg"},
	{"png", "png"},
	{"webp", "webp"},
	{"gif", "gif"},
	{"svg", "svg"},
	{"avif", "avif"},
	{"mp4", "mp4"},
	{"webm", "webm"},
	{"quicktime", "mov"},
	{"pdf", "pdf"},
	{"wordprocessingml", "docx"},
	{"msword", "doc"},
	{"spreadsheetml", "xlsx"},
	{"presentationml", "pptx"},
	{"zip", "zip"},
}

func (r ContentTypeRule) Extension(_, contentType string) (string, bool) {
	ct := strings.ToLower(contentType)
	if ct == "" {
		return "", false
	}
	for _, e := range r.table {
		if strings.Contains(ct, e.substring) {
			return e.ext, true
		}
	}
	return "", false
}

// DefaultRule always answers with a fixed extension
type DefaultRule struct {
	Ext string
}

func (r DefaultRule) Extension(_, _ string) (string, bool) {
	return r.Ext, r.Ext != ""
}

// ExtensionChain evaluates rules in priority order
type ExtensionChain struct {
	rules []ExtensionRule
}

// NewExtensionChain creates the standard chain: URL suffix, then
// content type, then defaultExt
func NewExtensionChain(defaultExt string) *ExtensionChain {
	return &ExtensionChain{
		rules: []ExtensionRule{
			URLSuffixRule{},
			ContentTypeRule{table: contentTypeExtensions},
			DefaultRule{Ext: defaultExt},
		},
	}
}

// Extension returns the first rule's answer, or "bin" when none match
func (c *ExtensionChain) Extension(sourceURL, contentType string) string {
	for _, rule := range c.rules {
		if ext, ok := rule.Extension(sourceURL, contentType); ok {
			return ext
		}
	}
	return "bin"
}

// extensionContentTypes maps a URL extension to the content type used when
// the server sends none
var extensionContentTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
	"gif":  "image/gif",
	"svg":  "image/svg+xml",
	"avif": "image/avif",
	"mp4":  "video/mp4",
	"webm": "video/webm",
	"mov":  "video/quicktime",
	"pdf":  "application/pdf",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	"zip":  "application/zip",
}

// DetectContentType picks the upload content type: the response header,
// then the source URL extension, then fallback
func DetectContentType(header, sourceURL, fallback string) string {
	if h := strings.TrimSpace(header); h != "" {
		return h
	}
	if ext, ok := (URLSuffixRule{}).Extension(sourceURL, ""); ok {
		if ct, ok := extensionContentTypes[ext]; ok {
			return ct
		}
	}
	return fallback
}

var labelUnsafe = regexp.MustCompile(`[^A-Za-z0-9]`)

// sanitizeLabel replaces every character outside [A-Za-z0-9] with "_" and lowercases
func sanitizeLabel(label string) string {
	return strings.ToLower(labelUnsafe.ReplaceAllString(label, "_"))
}

// assetFileName builds "<tag>_<epochMillis>_<label>.<ext>"
func assetFileName(tag string, at time.Time, label, ext string) string {
	return fmt.Sprintf("%s_%d_%s.%s", tag, at.UnixMilli(), sanitizeLabel(label), ext)
}
