// Package dispatch reacts to every post with every emoji, one request at a
// time, stopping at the first failure.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/Sternrassler/aula-engage/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for reaction dispatch.
var (
	reactionsTotal = promauto.With(metrics.Registry).NewCounter(prometheus.CounterOpts{
		Name: "engage_reactions_total",
		Help: "Total reactions added",
	})

	reactionFailuresTotal = promauto.With(metrics.Registry).NewCounter(prometheus.CounterOpts{
		Name: "engage_reaction_failures_total",
		Help: "Total reaction requests that failed and aborted the run",
	})
)

// Reactor adds a single reaction.
type Reactor interface {
	React(ctx context.Context, postID, emojiName string) error
}

// StatusUpdater receives the progress text before each reaction.
type StatusUpdater interface {
	Update(text string)
}

// Result counts what a dispatch run covered.
type Result struct {
	// Reactions is the number of reactions added successfully
	Reactions int

	// Posts and Emoji are the sizes of the two inputs
	Posts int
	Emoji int
}

// Expected returns the number of reactions a complete run adds.
func (r Result) Expected() int {
	return r.Posts * r.Emoji
}

// Summary renders the final success message.
func (r Result) Summary() string {
	return fmt.Sprintf("Engagement complete! Added a total %d emoji across %d posts!", r.Reactions, r.Posts)
}

// Config holds dispatcher configuration.
type Config struct {
	// Logger overrides the package logger (optional)
	Logger *zerolog.Logger
}

// Dispatcher walks the post × emoji cross product.
type Dispatcher struct {
	reactor  Reactor
	reporter StatusUpdater
	logger   zerolog.Logger
}

// New creates a new dispatcher.
func New(reactor Reactor, reporter StatusUpdater, cfg Config) *Dispatcher {
	logger := log.With().Str("component", "dispatcher").Logger()
	if cfg.Logger != nil {
		logger = cfg.Logger.With().Str("component", "dispatcher").Logger()
	}

	return &Dispatcher{
		reactor:  reactor,
		reporter: reporter,
		logger:   logger,
	}
}

// Run reacts to each post with each emoji in post-major order. The first
// failed reaction stops the run; the returned Result then holds the count
// reached before it.
func (d *Dispatcher) Run(ctx context.Context, posts, emoji []string) (Result, error) {
	start := time.Now()
	result := Result{Posts: len(posts), Emoji: len(emoji)}

	for pos, pair := range Pairs(posts, emoji) {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("reaction %d/%d: %w", pos.Ordinal(), result.Expected(), err)
		}

		d.reporter.Update(pos.String())

		if err := d.reactor.React(ctx, pair.PostID, pair.EmojiName); err != nil {
			reactionFailuresTotal.Inc()
			d.logger.Error().
				Err(err).
				Str("post_id", pair.PostID).
				Str("emoji", pair.EmojiName).
				Int("reaction", pos.Ordinal()).
				Int("completed", result.Reactions).
				Msg("Reaction failed, aborting")
			return result, fmt.Errorf("reaction %d/%d (post %d/%d, emoji %d/%d): %w",
				pos.Ordinal(), result.Expected(), pos.Post, pos.Posts, pos.Emoji, pos.EmojiCount, err)
		}

		result.Reactions++
		reactionsTotal.Inc()
	}

	d.logger.Info().
		Int("reactions", result.Reactions).
		Int("posts", result.Posts).
		Int("emoji", result.Emoji).
		Dur("duration", time.Since(start)).
		Msg("Dispatch complete")

	return result, nil
}
