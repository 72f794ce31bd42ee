package evidence

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hatnim83-a11y/korean-stock-ai-trading-sub001/internal/model"
)

// NewsSource returns recent news for a stock code within a lookback window.
type NewsSource interface {
	News(ctx context.Context, stockCode string, days, maxArticles, maxPages int) ([]model.NewsItem, error)
}

// DisclosureSource returns recent important disclosures for a stock code.
type DisclosureSource interface {
	ImportantDisclosures(ctx context.Context, stockCode string, days, maxCount int) ([]model.Disclosure, error)
}

// BodyFetcher is optionally implemented by a NewsSource that can fetch full
// article bodies.
type BodyFetcher interface {
	Body(ctx context.Context, articleURL string) (string, error)
}

// Options bounds what the gatherer collects per candidate.
type Options struct {
	NewsDays        int
	NewsMaxArticles int
	NewsMaxPages    int
	DisclosureDays  int
	DisclosureMax   int
	// FetchBodies pulls full article text when the news source supports it.
	FetchBodies bool
	// Concurrency caps simultaneous per-candidate collection. Default 3.
	Concurrency int
}

// Gatherer collects an EvidenceBundle per candidate. Collaborator failures
// degrade to empty evidence for that candidate; they never abort the run.
type Gatherer struct {
	news        NewsSource
	disclosures DisclosureSource
	opts        Options
}

// NewGatherer creates a Gatherer. Either source may be nil, in which case
// that evidence kind is skipped.
func NewGatherer(news NewsSource, disclosures DisclosureSource, opts Options) *Gatherer {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 3
	}
	if opts.NewsDays <= 0 {
		opts.NewsDays = 7
	}
	if opts.NewsMaxArticles <= 0 {
		opts.NewsMaxArticles = 5
	}
	if opts.DisclosureDays <= 0 {
		opts.DisclosureDays = 30
	}
	if opts.DisclosureMax <= 0 {
		opts.DisclosureMax = 20
	}
	return &Gatherer{news: news, disclosures: disclosures, opts: opts}
}

// Gather collects evidence for every candidate, keyed by stock code. Every
// candidate gets a bundle, possibly empty.
func (g *Gatherer) Gather(ctx context.Context, candidates []model.Candidate) map[string]model.EvidenceBundle {
	var mu sync.Mutex
	bundles := make(map[string]model.EvidenceBundle, len(candidates))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.opts.Concurrency)

	for _, cand := range candidates {
		eg.Go(func() error {
			bundle := g.gatherOne(egCtx, cand.Code)
			mu.Lock()
			bundles[cand.Code] = bundle
			mu.Unlock()
			return nil
		})
	}
	// Workers never return errors; failures become empty evidence.
	_ = eg.Wait()

	return bundles
}

func (g *Gatherer) gatherOne(ctx context.Context, code string) model.EvidenceBundle {
	bundle := model.EvidenceBundle{Code: code}

	if g.news != nil {
		news, err := g.news.News(ctx, code, g.opts.NewsDays, g.opts.NewsMaxArticles, g.opts.NewsMaxPages)
		if err != nil {
			zap.L().Warn("evidence: news collection failed",
				zap.String("code", code),
				zap.Error(err),
			)
		} else {
			if g.opts.FetchBodies {
				g.fetchBodies(ctx, news)
			}
			bundle.News = news
		}
	}

	if g.disclosures != nil {
		disclosures, err := g.disclosures.ImportantDisclosures(ctx, code, g.opts.DisclosureDays, g.opts.DisclosureMax)
		if err != nil {
			zap.L().Warn("evidence: disclosure collection failed",
				zap.String("code", code),
				zap.Error(err),
			)
		} else {
			bundle.Disclosures = disclosures
		}
	}

	return bundle
}

// fetchBodies enriches news items with full article text in place. A failed
// fetch leaves the item title-only.
func (g *Gatherer) fetchBodies(ctx context.Context, items []model.NewsItem) {
	fetcher, ok := g.news.(BodyFetcher)
	if !ok {
		return
	}
	for i := range items {
		if items[i].URL == "" || items[i].Content != "" {
			continue
		}
		body, err := fetcher.Body(ctx, items[i].URL)
		if err != nil {
			zap.L().Warn("evidence: article body fetch failed",
				zap.String("url", items[i].URL),
				zap.Error(err),
			)
			continue
		}
		items[i].Content = body
	}
}
