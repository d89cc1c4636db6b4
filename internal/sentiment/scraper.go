package sentiment

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"forex-agent/internal/logger"
)

// Headline is a scraped news headline for a currency pair.
type Headline struct {
	Title  string
	URL    string
	Source string
}

// Source is a news site configuration.
type Source struct {
	Name       string
	BaseURL    string
	SearchPath string // "{symbol}" is replaced with the lowercased pair
	Container  string
	Title      string
	RateLimit  time.Duration
}

// Scraper pulls forex headlines from the configured sources.
type Scraper struct {
	sources []Source
	timeout time.Duration
}

func NewScraper(timeout time.Duration) *Scraper {
	return &Scraper{
		sources: defaultSources(),
		timeout: timeout,
	}
}

func defaultSources() []Source {
	return []Source{
		{
			Name:       "FXStreet",
			BaseURL:    "https://www.fxstreet.com",
			SearchPath: "/news?q={symbol}",
			Container:  "article",
			Title:      "h4 a, h3 a",
			RateLimit:  2 * time.Second,
		},
		{
			Name:       "DailyFX",
			BaseURL:    "https://www.dailyfx.com",
			SearchPath: "/{symbol}",
			Container:  "div.dfx-articleListItem",
			Title:      "a.dfx-articleListItem__title, h3 a",
			RateLimit:  2 * time.Second,
		},
		{
			Name:       "Investing",
			BaseURL:    "https://www.investing.com",
			SearchPath: "/search/?q={symbol}&tab=news",
			Container:  "div.articleItem",
			Title:      "a.title",
			RateLimit:  2 * time.Second,
		},
	}
}

// ScrapeHeadlines fetches headlines for a symbol from all sources. Per-source
// failures are logged and skipped so one dead site does not zero the feed.
func (s *Scraper) ScrapeHeadlines(ctx context.Context, symbol string, maxHeadlines int) ([]Headline, error) {
	perSource := maxHeadlines / len(s.sources)
	if perSource < 1 {
		perSource = 1
	}

	var all []Headline
	for _, src := range s.sources {
		headlines, err := s.scrapeSource(ctx, src, symbol, perSource)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to scrape source", err, "source", src.Name, "symbol", symbol)
			continue
		}
		all = append(all, headlines...)

		time.Sleep(src.RateLimit)
	}

	logger.Info(ctx, "Headline scraping completed", "symbol", symbol, "headlines", len(all))
	return all, nil
}

func (s *Scraper) scrapeSource(ctx context.Context, src Source, symbol string, maxHeadlines int) ([]Headline, error) {
	var headlines []Headline

	c := colly.NewCollector(
		colly.AllowedDomains(hostOf(src.BaseURL)),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	})

	c.OnHTML(src.Container, func(e *colly.HTMLElement) {
		if len(headlines) >= maxHeadlines {
			return
		}
		if h, ok := extractHeadline(e.DOM, src); ok {
			headlines = append(headlines, h)
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.Warn(ctx, "Scrape request failed", "source", src.Name, "url", r.Request.URL.String(), "error", err.Error())
	})

	pair := strings.ToLower(strings.ReplaceAll(symbol, "/", "-"))
	searchURL := src.BaseURL + strings.ReplaceAll(src.SearchPath, "{symbol}", pair)

	if err := c.Visit(searchURL); err != nil {
		return nil, fmt.Errorf("visit %s: %w", searchURL, err)
	}
	c.Wait()

	return headlines, nil
}

// extractHeadline pulls the title and link out of one article container.
func extractHeadline(sel *goquery.Selection, src Source) (Headline, bool) {
	link := sel.Find(src.Title).First()
	title := strings.TrimSpace(link.Text())
	if title == "" {
		return Headline{}, false
	}

	href, _ := link.Attr("href")
	if href != "" && !strings.HasPrefix(href, "http") {
		href = src.BaseURL + href
	}

	return Headline{Title: title, URL: href, Source: src.Name}, true
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
