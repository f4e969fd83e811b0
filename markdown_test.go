package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aktagon/asset-seeder/internal/objstore"
)

func TestArticleBodyRendererRewritesImages(t *testing.T) {
	server := newAssetServer(t)
	store := objstore.NewMemoryStore()
	resolver := newTestResolver(store, true)

	html := `<h2>La rentrée</h2>
<p>Les élèves de <strong>Kaya</strong> ont repris les cours.</p>
<p><img src="` + server.URL + `/classe.jpg" alt="Classe"></p>
<p><img src="/local/logo.png" alt="Logo"></p>`

	got, err := NewArticleBodyRenderer().Render(context.Background(), resolver, html, "Rentrée")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	wantImage := "![Classe](https://cdn.example/uploads/articles/inline/article_inline_1700000000000_rentr_e_inline_1.jpg)"
	for _, want := range []string{"## La rentrée", "**Kaya**", wantImage, "/local/logo.png"} {
		if !strings.Contains(got, want) {
			t.Errorf("Render() output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, server.URL) {
		t.Errorf("source URL left in output:\n%s", got)
	}
	if store.Puts() != 1 {
		t.Errorf("uploads = %d, want 1 (relative images are left alone)", store.Puts())
	}
}

func TestArticleBodyRendererImageFailure(t *testing.T) {
	server := newAssetServer(t)
	resolver := newTestResolver(objstore.NewMemoryStore(), true)

	html := `<p>Texte</p><img src="` + server.URL + `/missing.jpg">`
	_, err := NewArticleBodyRenderer().Render(context.Background(), resolver, html, "Article")

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Errorf("Render() error = %v, want *FetchError", err)
	}
}
