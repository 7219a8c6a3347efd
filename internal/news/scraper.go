// Package news collects recent market headlines used to enrich the analysis
// prompt. Headlines are advisory context only; scraping failures never fail
// an analysis cycle.
package news

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"futures-ai-trader/internal/logger"
)

// Source defines one headline source and the selectors to read it.
type Source struct {
	Name      string
	URL       string // {query} is replaced with the search term
	Container string
	Title     string
	RateLimit time.Duration
}

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
			Name:      "EastmoneyFutures",
			URL:       "https://so.eastmoney.com/news/s?keyword={query}",
			Container: "div.news_item",
			Title:     "div.news_item_t a",
			RateLimit: 2 * time.Second,
		},
		{
			Name:      "SinaFutures",
			URL:       "https://search.sina.com.cn/?q={query}&c=news&range=title",
			Container: "div.box-result",
			Title:     "h2 a",
			RateLimit: 2 * time.Second,
		},
	}
}

// Headlines fetches up to max headlines for the query across all sources.
func (s *Scraper) Headlines(ctx context.Context, query string, max int) []string {
	if max <= 0 {
		return nil
	}

	perSource := max / len(s.sources)
	if perSource < 1 {
		perSource = 1
	}

	var all []string
	for i, src := range s.sources {
		titles, err := s.scrapeSource(ctx, src, query, perSource)
		if err != nil {
			logger.Warn(ctx, "Headline source failed", "source", src.Name, "error", err)
		} else {
			all = append(all, titles...)
		}

		// The courtesy pause is only needed when another source will be hit.
		if len(all) >= max || i == len(s.sources)-1 {
			break
		}
		if !pause(ctx, src.RateLimit) {
			break
		}
	}

	if len(all) > max {
		all = all[:max]
	}
	logger.Debug(ctx, "Headlines collected", "query", query, "count", len(all))
	return all
}

// pause sleeps for d unless the context is cancelled first.
func pause(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (s *Scraper) scrapeSource(ctx context.Context, src Source, query string, max int) ([]string, error) {
	c := colly.NewCollector(
		colly.MaxDepth(1),
		colly.UserAgent("Mozilla/5.0 (compatible; futures-ai-trader/1.0)"),
	)
	c.SetRequestTimeout(s.timeout)

	var titles []string
	c.OnHTML(src.Container, func(e *colly.HTMLElement) {
		e.DOM.Find(src.Title).Each(func(_ int, sel *goquery.Selection) {
			if len(titles) >= max {
				return
			}
			if title := strings.TrimSpace(sel.Text()); title != "" {
				titles = append(titles, title)
			}
		})
	})

	url := strings.ReplaceAll(src.URL, "{query}", query)
	if err := c.Visit(url); err != nil {
		return nil, err
	}
	c.Wait()
	return titles, nil
}
