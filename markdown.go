package main

import (
	"context"
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

const inlineImageFolder = "articles/inline"

// ArticleBodyRenderer turns an HTML article body into markdown, re-hosting
// every absolute inline image on the way
type ArticleBodyRenderer struct {
	converter *md.Converter
}

// NewArticleBodyRenderer creates a renderer with the default markdown rules
func NewArticleBodyRenderer() *ArticleBodyRenderer {
	return &ArticleBodyRenderer{converter: md.NewConverter("", true, nil)}
}

// Render rewrites <img src> through the resolver, then converts to markdown.
// Any failed image fails the whole body.
func (a *ArticleBodyRenderer) Render(ctx context.Context, r *AssetResolver, html, label string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parsing article HTML: %w", err)
	}

	var resolveErr error
	n := 0
	doc.Find("img[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src := strings.TrimSpace(s.AttrOr("src", ""))
		if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
			return true
		}
		n++
		publicURL, err := r.Resolve(ctx, AssetRequest{
			SourceURL: src,
			Label:     fmt.Sprintf("%s inline %d", label, n),
			Folder:    inlineImageFolder,
			Tag:       "article_inline",
			Kind:      KindImage,
		})
		if err != nil {
			resolveErr = fmt.Errorf("inline image %d: %w", n, err)
			return false
		}
		s.SetAttr("src", publicURL)
		return true
	})
	if resolveErr != nil {
		return "", resolveErr
	}

	body, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("rendering article HTML: %w", err)
	}

	markdown, err := a.converter.ConvertString(body)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return strings.TrimSpace(markdown), nil
}
