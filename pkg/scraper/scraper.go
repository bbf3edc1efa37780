package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"insurebot/internal/models"
)

type ScraperConfig struct {
	BaseURL    string
	StartPages []string // pages fetched in order, up to MaxPages
	MaxPages   int
	RateLimit  float64 // requests per second
	MinContent int     // pages with less content than this are skipped
	Timeout    time.Duration
	UserAgent  string
	OnProgress func(url string)
}

type Scraper struct {
	config   ScraperConfig
	client   *http.Client
	visited  map[string]bool
	limiter  *rate.Limiter
	baseHost string
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	specialsRe   = regexp.MustCompile(`[^\w\s.,!?;:()\-]`)
)

// defaultStartPages are the product and claims pages that cover the
// provider's public content.
func defaultStartPages(base string) []string {
	paths := []string{
		"/",
		"/insurance-plans.html",
		"/term-insurance.html",
		"/savings-plan.html",
		"/pension-plans.html",
		"/ulip-plans.html",
		"/claims/death-claim.html",
		"/claims/maturity-claim.html",
		"/about-us.html",
		"/contact-us.html",
	}
	pages := make([]string, len(paths))
	for i, p := range paths {
		pages[i] = strings.TrimSuffix(base, "/") + p
	}
	return pages
}

func NewWithConfig(config ScraperConfig) (*Scraper, error) {
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.MaxPages == 0 {
		config.MaxPages = 10
	}
	if config.RateLimit == 0 {
		config.RateLimit = 1 // 1 request per second by default
	}
	if config.MinContent == 0 {
		config.MinContent = 100
	}
	if config.UserAgent == "" {
		config.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	}
	if len(config.StartPages) == 0 {
		config.StartPages = defaultStartPages(config.BaseURL)
	}

	parsedURL, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, err
	}

	return &Scraper{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
		visited:  make(map[string]bool),
		limiter:  rate.NewLimiter(rate.Limit(config.RateLimit), 1),
		baseHost: parsedURL.Host,
	}, nil
}

func New(baseURL string) *Scraper {
	s, _ := NewWithConfig(ScraperConfig{
		BaseURL: baseURL,
	})
	return s
}

// ScrapeAll fetches the configured start pages and returns those with
// enough content. Individual page failures are skipped, not fatal.
func (s *Scraper) ScrapeAll(ctx context.Context) ([]models.Page, error) {
	var pages []models.Page
	var lastErr error

	for _, pageURL := range s.config.StartPages {
		if len(pages) >= s.config.MaxPages {
			break
		}
		if s.visited[pageURL] {
			continue
		}
		s.visited[pageURL] = true

		if s.config.OnProgress != nil {
			s.config.OnProgress(pageURL)
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return pages, err
		}

		page, err := s.scrapePage(ctx, pageURL)
		if err != nil {
			lastErr = err
			continue
		}
		if len(page.Content) < s.config.MinContent {
			continue
		}
		pages = append(pages, page)
	}

	if len(pages) == 0 && lastErr != nil {
		return nil, fmt.Errorf("no pages scraped: %w", lastErr)
	}
	return pages, nil
}

func (s *Scraper) scrapePage(ctx context.Context, pageURL string) (models.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return models.Page{}, err
	}
	req.Header.Set("User-Agent", s.config.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return models.Page{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Page{}, fmt.Errorf("received status code %d for URL: %s", resp.StatusCode, pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return models.Page{}, err
	}

	// Strip non-content elements before extracting text
	doc.Find("script, style, nav, footer, header").Remove()

	title := doc.Find("title").Text()
	description, _ := doc.Find(`meta[name="description"]`).Attr("content")

	return models.Page{
		URL:         pageURL,
		Title:       cleanText(title),
		Description: cleanText(description),
		Content:     s.extractMainContent(doc),
	}, nil
}

func (s *Scraper) extractMainContent(doc *goquery.Document) string {
	selectors := []string{
		"main",
		"article",
		".content",
		"#content",
		".main",
	}

	var content string
	for _, selector := range selectors {
		if selected := doc.Find(selector); selected.Length() > 0 {
			content = selected.Text()
			break
		}
	}

	// Fallback to body if no main content area found
	if content == "" {
		content = doc.Find("body").Text()
	}

	return cleanText(content)
}

func cleanText(text string) string {
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = specialsRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
