package linkpreview

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestFirstURL(t *testing.T) {
	tests := map[string]string{
		"look at https://example.com/a?b=c.":   "https://example.com/a?b=c",
		"(see http://example.org/page)":         "http://example.org/page",
		"no links here":                         "",
		"two https://one.example https://two.x": "https://one.example",
		"ftp://files.example is ignored":        "",
	}
	for in, want := range tests {
		if got := FirstURL(in); got != want {
			t.Errorf("FirstURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParse(t *testing.T) {
	base, _ := url.Parse("https://news.example/articles/1")
	page := `<html><head>
		<title>Fallback title</title>
		<meta property="og:title" content="  Big   news ">
		<meta name="description" content="Something happened">
		<meta property="og:image" content="/img/cover.png">
	</head><body></body></html>`

	p, err := Parse(strings.NewReader(page), base)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if p.Title != "Big news" {
		t.Errorf("Title = %q", p.Title)
	}
	if p.Description != "Something happened" {
		t.Errorf("Description = %q", p.Description)
	}
	if p.Image != "https://news.example/img/cover.png" {
		t.Errorf("Image = %q", p.Image)
	}
	if p.URL != base.String() {
		t.Errorf("URL = %q", p.URL)
	}
}

func TestParseFallbacks(t *testing.T) {
	base, _ := url.Parse("https://blog.example/")

	p, err := Parse(strings.NewReader(`<title>Only a title</title><meta property="og:image" content="javascript:alert(1)">`), base)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if p.Title != "Only a title" || p.Image != "" {
		t.Fatalf("unexpected preview: %+v", p)
	}

	if _, err := Parse(strings.NewReader(`<p>nothing</p>`), base); !errors.Is(err, ErrNoPreview) {
		t.Fatalf("Parse(no title) = %v, want ErrNoPreview", err)
	}

	long := strings.Repeat("x", 500)
	p, err = Parse(strings.NewReader(`<title>`+long+`</title>`), base)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if n := len([]rune(p.Title)); n != maxTitleLength {
		t.Fatalf("title length = %d, want %d", n, maxTitleLength)
	}
}

func TestClientFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/page":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte(`<title>Hello</title>`))
		case "/json":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(2 * time.Second)

	if _, err := c.Fetch(context.Background(), srv.URL+"/page"); !errors.Is(err, ErrBlockedHost) {
		t.Fatalf("Fetch(loopback) = %v, want ErrBlockedHost", err)
	}

	c.AllowPrivateHosts = true
	p, err := c.Fetch(context.Background(), srv.URL+"/page")
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}
	if p.Title != "Hello" {
		t.Fatalf("Title = %q", p.Title)
	}

	if _, err := c.Fetch(context.Background(), srv.URL+"/json"); !errors.Is(err, ErrUnsupportedPage) {
		t.Fatalf("Fetch(json) = %v, want ErrUnsupportedPage", err)
	}
	if _, err := c.Fetch(context.Background(), srv.URL+"/missing"); !errors.Is(err, ErrUnsupportedPage) {
		t.Fatalf("Fetch(404) = %v, want ErrUnsupportedPage", err)
	}
	if _, err := c.Fetch(context.Background(), "ftp://example.com"); !errors.Is(err, ErrUnsupportedPage) {
		t.Fatalf("Fetch(ftp) = %v, want ErrUnsupportedPage", err)
	}
}
