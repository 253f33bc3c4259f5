package carsensor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"car-dashboard/config"
	"car-dashboard/models"
	"car-dashboard/utils"
)

const (
	defaultStartURL = "https://www.carsensor.net/usedcar/search.php?CARC=TO_S165"

	acquiredAtLayout   = "2006-01-02 15:04:05"
	acquiredDateLayout = "2006-01-02"
	acquiredTimeLayout = "15:04:05"
)

// specLabels maps the labels of a listing's spec table to record columns.
var specLabels = map[string]string{
	"年式":    models.ColYear,
	"走行距離":  models.ColMileage,
	"修復歴":   models.ColRepairHistory,
	"ミッション": models.ColTransmission,
	"排気量":   models.ColEngineCapacity,
}

// card is one listing as extracted from a results or detail page.
type card struct {
	Name    string            `json:"name"`
	Grade   string            `json:"grade"`
	Price   string            `json:"price"`
	URL     string            `json:"url"`
	Comment string            `json:"comment"`
	Specs   map[string]string `json:"specs"`
}

// Scraper collects listing rows for one car model from carsensor.net.
type Scraper struct {
	cfg        *config.Config
	logger     *utils.Logger
	pool       *utils.WorkerPool
	visitedURL *utils.URLSet
	retry      *utils.RetryConfig
	now        func() time.Time

	mu      sync.Mutex
	records []models.RawRecord
}

// New creates a ready-to-use Scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	return &Scraper{
		cfg:        cfg,
		logger:     logger,
		pool:       utils.NewWorkerPool(cfg.MaxConcurrency, cfg.RateLimit()),
		visitedURL: utils.NewURLSet(),
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
		now:     time.Now,
		records: make([]models.RawRecord, 0),
	}
}

// Scrape walks the result pages and returns one raw record per listing.
func (s *Scraper) Scrape(ctx context.Context) ([]models.RawRecord, error) {
	startURL := s.cfg.ScrapeStartURL
	if startURL == "" {
		startURL = defaultStartURL
	}
	s.logger.Info("[carsensor] Starting scrape of %s: %d pages, %d listings/page",
		startURL, s.cfg.PagesToScrape, s.cfg.ListingsPerPage)

	chromeBin := findChromeBinary(s.cfg.ChromeBin)
	s.logger.Info("[carsensor] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	currentURL := startURL
	for page := 1; page <= s.cfg.PagesToScrape; page++ {
		s.logger.Info("[carsensor] Scraping page %d: %s", page, currentURL)

		cards, nextURL, err := s.scrapePage(browserCtx, currentURL, page)
		if err != nil {
			s.logger.Error("[carsensor] Page %d failed: %v", page, err)
			break
		}
		if len(cards) == 0 {
			s.logger.Warn("[carsensor] Page %d returned 0 listings, stopping", page)
			break
		}

		s.enrichCards(browserCtx, cards)

		fetchedAt := s.now()
		s.mu.Lock()
		for _, c := range cards {
			s.records = append(s.records, toRecord(*c, s.cfg.CarModel, currentURL, fetchedAt))
		}
		total := len(s.records)
		s.mu.Unlock()

		s.logger.Info("[carsensor] Page %d done, %d listings so far", page, total)

		if nextURL == "" || page >= s.cfg.PagesToScrape {
			break
		}
		currentURL = nextURL

		select {
		case <-ctx.Done():
			return s.records, ctx.Err()
		case <-time.After(s.cfg.RateLimit()):
		}
	}

	s.logger.Info("[carsensor] Scrape complete, %d raw records", len(s.records))
	return s.records, nil
}

// scrapePage loads one results page and extracts its listing cards.
func (s *Scraper) scrapePage(browserCtx context.Context, pageURL string, pageNum int) ([]*card, string, error) {
	var cards []*card
	var nextURL string

	err := s.retry.Do(browserCtx, fmt.Sprintf("scrape-page-%d", pageNum), func() error {
		ctx, cancel := chromedp.NewContext(browserCtx)
		defer cancel()

		ctx, cancelTimeout := context.WithTimeout(ctx, 90*time.Second)
		defer cancelTimeout()

		var found []card
		var next string

		err := chromedp.Run(ctx,
			chromedp.Navigate(pageURL),
			chromedp.WaitReady("body", chromedp.ByQuery),
			chromedp.Sleep(3*time.Second),
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
			chromedp.Sleep(1*time.Second),
			chromedp.Evaluate(fmt.Sprintf(listCardsJS, s.cfg.ListingsPerPage), &found),
			chromedp.Evaluate(nextPageJS, &next),
		)
		if err != nil {
			return fmt.Errorf("chromedp page scrape: %w", err)
		}

		s.logger.Debug("[carsensor] Page %d: found %d cards", pageNum, len(found))

		cards = cards[:0]
		for i := range found {
			c := found[i]
			if c.URL == "" {
				continue
			}
			if !s.visitedURL.Add(c.URL) {
				s.logger.Debug("[carsensor] Skipping duplicate: %s", c.URL)
				continue
			}
			cards = append(cards, &c)
		}
		nextURL = next
		return nil
	})

	return cards, nextURL, err
}

// enrichCards fills missing fields from the detail page of each incomplete card.
func (s *Scraper) enrichCards(browserCtx context.Context, cards []*card) {
	for _, c := range cards {
		c := c // per-iteration copy; module targets go 1.21 loop semantics
		if !needsDetail(*c) {
			continue
		}
		s.pool.Submit(func() {
			detail, err := s.scrapeDetailPage(browserCtx, c.URL)
			if err != nil {
				s.logger.Warn("[carsensor] Detail page failed for %s: %v", c.URL, err)
				return
			}
			mergeDetail(c, detail)
			s.logger.Debug("[carsensor] Enriched: %s %s", c.Name, c.Grade)
		})
	}
	s.pool.Wait()
}

// scrapeDetailPage visits a listing's detail page and extracts its fields.
func (s *Scraper) scrapeDetailPage(browserCtx context.Context, url string) (card, error) {
	var detail card

	err := s.retry.Do(browserCtx, "detail-page", func() error {
		ctx, cancel := chromedp.NewContext(browserCtx)
		defer cancel()

		ctx, cancelTimeout := context.WithTimeout(ctx, 60*time.Second)
		defer cancelTimeout()

		if err := chromedp.Run(ctx,
			chromedp.Navigate(url),
			chromedp.WaitReady("body", chromedp.ByQuery),
			chromedp.Sleep(2*time.Second),
			chromedp.Evaluate(detailJS, &detail),
		); err != nil {
			return fmt.Errorf("chromedp detail extract: %w", err)
		}
		detail.URL = url
		return nil
	})

	return detail, err
}

// needsDetail reports whether a card lacks a price or any spec column.
func needsDetail(c card) bool {
	if strings.TrimSpace(c.Price) == "" || strings.TrimSpace(c.Name) == "" {
		return true
	}
	for label := range specLabels {
		if strings.TrimSpace(c.Specs[label]) == "" {
			return true
		}
	}
	return false
}

// mergeDetail copies non-blank detail fields into the blank fields of c.
func mergeDetail(c *card, detail card) {
	fill := func(dst *string, src string) {
		if strings.TrimSpace(*dst) == "" && strings.TrimSpace(src) != "" {
			*dst = strings.TrimSpace(src)
		}
	}
	fill(&c.Name, detail.Name)
	fill(&c.Grade, detail.Grade)
	fill(&c.Price, detail.Price)
	fill(&c.Comment, detail.Comment)

	if c.Specs == nil {
		c.Specs = make(map[string]string, len(detail.Specs))
	}
	for label, value := range detail.Specs {
		cur := c.Specs[label]
		fill(&cur, value)
		c.Specs[label] = cur
	}
}

// toRecord converts a card into a raw record with the source column headers.
func toRecord(c card, model, sourceURL string, fetchedAt time.Time) models.RawRecord {
	r := models.RawRecord{
		models.ColName:                strings.TrimSpace(c.Name),
		models.ColGrade:               strings.TrimSpace(c.Grade),
		models.ColPrice:               strings.TrimSpace(c.Price),
		models.ColModel:               model,
		models.ColDetailURL:           c.URL,
		models.ColSourceURL:           sourceURL,
		models.ColComments:            strings.TrimSpace(c.Comment),
		models.ColAcquisitionDateTime: fetchedAt.Format(acquiredAtLayout),
		models.ColAcquisitionDate:     fetchedAt.Format(acquiredDateLayout),
		models.ColAcquisitionTime:     fetchedAt.Format(acquiredTimeLayout),
	}
	for label, col := range specLabels {
		r[col] = strings.TrimSpace(c.Specs[label])
	}
	return r
}

// findChromeBinary locates a Chrome/Chromium binary, preferring the configured one.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
