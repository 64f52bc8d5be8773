// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/research-assistant/internal/httputil"
	"github.com/pdiddy/research-assistant/pkg/types"
)

// WebScraper acquires web page content over HTTP (R2).
type WebScraper struct {
	client *http.Client
	cfg    types.AcquisitionConfig
	docs   *DocumentReader
}

// NewWebScraper creates a scraper using the shared HTTP client. The
// DocumentReader handles PDF URLs (arXiv and direct links); it may be nil
// when PDF support is unavailable.
func NewWebScraper(client *http.Client, cfg types.AcquisitionConfig, docs *DocumentReader) *WebScraper {
	return &WebScraper{client: client, cfg: cfg, docs: docs}
}

// Scrape fetches url and extracts its readable text and metadata (R2.1).
// arXiv abstract URLs are rewritten to their PDF form and handled as
// documents (R2.4); other URLs are parsed as HTML.
func (s *WebScraper) Scrape(ctx context.Context, url string) (*Content, error) {
	if u := rewriteArxiv(url); u != "" {
		return s.scrapePDF(ctx, u, url)
	}
	if strings.HasSuffix(strings.ToLower(url), ".pdf") {
		return s.scrapePDF(ctx, url, url)
	}
	return s.scrapeHTML(ctx, url)
}

// scrapeHTML parses the page with goquery, drops navigation chrome and
// collects text from the main content region (R2.2, R2.3).
func (s *WebScraper) scrapeHTML(ctx context.Context, url string) (*Content, error) {
	resp, err := s.get(ctx, url, "text/html")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML from %s: %w", url, err)
	}

	doc.Find("script, style, nav, footer, header, aside").Remove()

	// Prefer a semantic content region, fall back to the whole body.
	region := doc.Find("article").First()
	if region.Length() == 0 {
		region = doc.Find("main").First()
	}
	if region.Length() == 0 {
		region = doc.Find("div.content, div#content, div.post").First()
	}
	if region.Length() == 0 {
		region = doc.Find("body")
	}

	var parts []string
	region.Find("p, h1, h2, h3, h4, li").Each(func(_ int, sel *goquery.Selection) {
		if t := strings.TrimSpace(sel.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	text := strings.Join(parts, "\n\n")
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("no readable content at %s", url)
	}

	md := map[string]any{
		"title":  pageTitle(doc),
		"source": url,
		"kind":   "url",
	}
	if author := metaContent(doc, "author"); author != "" {
		md["author"] = author
	}
	if desc := metaContent(doc, "description"); desc != "" {
		md["description"] = desc
	}
	if published, ok := doc.Find(`meta[property="article:published_time"]`).Attr("content"); ok && published != "" {
		md["published"] = published
	}
	return &Content{Text: text, Metadata: md}, nil
}

// scrapePDF downloads a PDF URL into the uploads directory and delegates
// extraction to the document reader. sourceURL is the URL as the caller
// gave it, before any arXiv rewrite.
func (s *WebScraper) scrapePDF(ctx context.Context, pdfURL, sourceURL string) (*Content, error) {
	if s.docs == nil {
		return nil, fmt.Errorf("PDF URL %s requires a document reader", sourceURL)
	}

	resp, err := s.get(ctx, pdfURL, "application/pdf")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, pdfURL)
	}

	dir := s.cfg.UploadsDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating uploads directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "download-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("creating download file: %w", err)
	}
	path := tmp.Name()
	if _, err := tmp.ReadFrom(resp.Body); err != nil {
		tmp.Close()
		os.Remove(path)
		return nil, fmt.Errorf("writing download: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("closing download file: %w", err)
	}

	content, err := s.docs.Read(path)
	if err != nil {
		return nil, err
	}
	content.Metadata["source"] = sourceURL
	content.Metadata["kind"] = "url"
	return content, nil
}

// get issues a GET with the configured User-Agent, retrying on rate limits.
func (s *WebScraper) get(ctx context.Context, url, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)
	req.Header.Set("Accept", accept)

	resp, err := httputil.DoWithRetry(ctx, s.client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	return resp, nil
}

// rewriteArxiv maps an arXiv abstract URL to its PDF URL, or returns ""
// when the URL is not an arXiv abstract link.
func rewriteArxiv(url string) string {
	const marker = "arxiv.org/abs/"
	i := strings.Index(url, marker)
	if i < 0 {
		return ""
	}
	id := url[i+len(marker):]
	if id == "" {
		return ""
	}
	return url[:i] + "arxiv.org/pdf/" + id
}

func pageTitle(doc *goquery.Document) string {
	if t, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && strings.TrimSpace(t) != "" {
		return strings.TrimSpace(t)
	}
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	return "Unknown"
}

func metaContent(doc *goquery.Document, name string) string {
	v, _ := doc.Find(fmt.Sprintf(`meta[name=%q]`, name)).Attr("content")
	return strings.TrimSpace(v)
}
