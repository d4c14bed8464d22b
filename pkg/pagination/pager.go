package pagination

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sternrassler/aula-engage/pkg/aula"
	"github.com/Sternrassler/aula-engage/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for feed pagination.
var (
	feedPagesTotal = promauto.With(metrics.Registry).NewCounter(prometheus.CounterOpts{
		Name: "engage_feed_pages_total",
		Help: "Total feed pages fetched, including the final empty page",
	})

	feedPostsTotal = promauto.With(metrics.Registry).NewCounter(prometheus.CounterOpts{
		Name: "engage_feed_posts_total",
		Help: "Total posts received from the feed",
	})
)

// ErrCursorStalled is returned when a page's oldest post is not older than
// the cursor the page was requested with. Requesting again with the same
// cursor would return the same page forever.
var ErrCursorStalled = errors.New("feed cursor did not move backwards")

// FeedFetcher fetches one window of the feed.
type FeedFetcher interface {
	// FetchFeed returns the posts created before until. An empty result
	// means the feed is exhausted.
	FetchFeed(ctx context.Context, until time.Time) ([]aula.Post, error)
}

// Config holds pager configuration.
type Config struct {
	// Now returns the starting cursor and the per-page minimum seed
	// (default: time.Now)
	Now func() time.Time

	// Logger overrides the package logger (optional)
	Logger *zerolog.Logger
}

// DefaultConfig returns the default pager configuration.
func DefaultConfig() Config {
	return Config{
		Now: time.Now,
	}
}

// Pager collects every post id reachable by walking the feed backwards.
type Pager struct {
	fetcher FeedFetcher
	now     func() time.Time
	logger  zerolog.Logger
}

// NewPager creates a new pager.
func NewPager(fetcher FeedFetcher, config Config) *Pager {
	if config.Now == nil {
		config.Now = time.Now
	}

	logger := log.With().Str("component", "pager").Logger()
	if config.Logger != nil {
		logger = config.Logger.With().Str("component", "pager").Logger()
	}

	return &Pager{
		fetcher: fetcher,
		now:     config.Now,
		logger:  logger,
	}
}

// CollectIDs fetches pages until an empty one and returns the ids of all
// posts seen, in the order received.
func (p *Pager) CollectIDs(ctx context.Context) ([]string, error) {
	start := time.Now()

	var ids []string
	cursor := p.now()
	page := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("feed page %d: %w", page+1, err)
		}
		page++

		posts, err := p.fetcher.FetchFeed(ctx, cursor)
		if err != nil {
			return nil, fmt.Errorf("feed page %d: %w", page, err)
		}
		feedPagesTotal.Inc()

		if len(posts) == 0 {
			break
		}
		feedPostsTotal.Add(float64(len(posts)))

		lowest := p.now()
		for _, post := range posts {
			ids = append(ids, post.ObjectID)
			if post.CreatedAt.Before(lowest) {
				lowest = post.CreatedAt
			}
		}

		p.logger.Debug().
			Int("page", page).
			Int("posts", len(posts)).
			Time("until", cursor).
			Time("oldest", lowest).
			Msg("Feed page fetched")

		if !lowest.Before(cursor) {
			p.logger.Error().
				Int("page", page).
				Time("until", cursor).
				Time("oldest", lowest).
				Msg("Feed cursor stalled")
			return nil, fmt.Errorf("feed page %d: %w (until %s, oldest %s)",
				page, ErrCursorStalled, aula.FormatCursor(cursor), aula.FormatCursor(lowest))
		}
		cursor = lowest
	}

	p.logger.Info().
		Int("pages", page).
		Int("posts", len(ids)).
		Dur("duration", time.Since(start)).
		Msg("Feed exhausted")

	return ids, nil
}
