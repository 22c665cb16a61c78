package linkpreview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"syscall"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	maxBodyBytes       = 1 << 20
	maxTitleLength     = 200
	maxDescriptionSize = 300
	userAgent          = "SafeTweetBot/1.0 (+link preview)"
)

var (
	ErrNoPreview       = errors.New("no preview available")
	ErrBlockedHost     = errors.New("host not allowed")
	ErrUnsupportedPage = errors.New("unsupported page")

	urlPattern = regexp.MustCompile(`https?://[^\s<>"]+`)
)

type Preview struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

// FirstURL returns the first http(s) link in text, without trailing punctuation.
func FirstURL(text string) string {
	m := urlPattern.FindString(text)
	return strings.TrimRight(m, ".,;:!?)]}'")
}

type Client struct {
	httpClient http.Client
	// AllowPrivateHosts lets the client reach loopback and private networks.
	AllowPrivateHosts bool
}

func NewClient(timeout time.Duration) *Client {
	c := &Client{}
	dialer := &net.Dialer{
		Timeout: timeout,
		Control: func(network, address string, _ syscall.RawConn) error {
			if c.AllowPrivateHosts {
				return nil
			}
			return checkAddress(address)
		},
	}
	c.httpClient = http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			DialContext:         dialer.DialContext,
			TLSHandshakeTimeout: timeout,
			MaxIdleConns:        10,
		},
	}
	return c
}

func (c *Client) Fetch(ctx context.Context, rawURL string) (Preview, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Preview{}, fmt.Errorf("failed to parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Preview{}, fmt.Errorf("%w: scheme %q", ErrUnsupportedPage, u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Preview{}, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Preview{}, fmt.Errorf("failed to fetch %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Preview{}, fmt.Errorf("%w: status %d", ErrUnsupportedPage, resp.StatusCode)
	}
	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType != "text/html" && mediaType != "application/xhtml+xml" {
		return Preview{}, fmt.Errorf("%w: content type %q", ErrUnsupportedPage, mediaType)
	}

	return Parse(io.LimitReader(resp.Body, maxBodyBytes), resp.Request.URL)
}

// checkAddress runs on the resolved address of every outgoing connection,
// redirects included.
func checkAddress(address string) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return fmt.Errorf("%w: unresolved address %s", ErrBlockedHost, address)
	}
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified() {
		return fmt.Errorf("%w: %s", ErrBlockedHost, ip)
	}
	return nil
}

// Parse extracts OpenGraph metadata, falling back to <title> and the
// description meta tag. Relative image URLs are resolved against base.
func Parse(r io.Reader, base *url.URL) (Preview, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Preview{}, fmt.Errorf("failed to parse html: %w", err)
	}

	meta := func(selectors ...string) string {
		for _, sel := range selectors {
			if v, ok := doc.Find(sel).First().Attr("content"); ok {
				if v = strings.TrimSpace(v); v != "" {
					return v
				}
			}
		}
		return ""
	}

	p := Preview{URL: base.String()}
	p.Title = meta(`meta[property="og:title"]`, `meta[name="twitter:title"]`)
	if p.Title == "" {
		p.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if p.Title == "" {
		return Preview{}, ErrNoPreview
	}
	p.Title = truncate(collapseSpaces(p.Title), maxTitleLength)
	p.Description = truncate(collapseSpaces(meta(`meta[property="og:description"]`, `meta[name="description"]`)), maxDescriptionSize)

	if img := meta(`meta[property="og:image"]`, `meta[name="twitter:image"]`); img != "" {
		if ref, err := url.Parse(img); err == nil {
			resolved := base.ResolveReference(ref)
			if resolved.Scheme == "http" || resolved.Scheme == "https" {
				p.Image = resolved.String()
			}
		}
	}

	return p, nil
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
