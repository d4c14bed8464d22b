// Package engage runs the three phases of an engagement: collect every post
// in the space, load the emoji dataset, then react to each post with each
// emoji.
package engage

import (
	"context"
	"fmt"

	"github.com/Sternrassler/aula-engage/pkg/aula"
	"github.com/Sternrassler/aula-engage/pkg/dispatch"
	"github.com/Sternrassler/aula-engage/pkg/emoji"
	"github.com/Sternrassler/aula-engage/pkg/pagination"
	"github.com/Sternrassler/aula-engage/pkg/progress"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// PostCollector returns every post id in the space.
type PostCollector interface {
	CollectIDs(ctx context.Context) ([]string, error)
}

// EmojiSource returns the emoji reference dataset.
type EmojiSource interface {
	Load(ctx context.Context) ([]emoji.Emoji, error)
}

// Runner sequences the phases and reports their progress.
type Runner struct {
	posts    PostCollector
	emoji    EmojiSource
	reactor  dispatch.Reactor
	reporter progress.Reporter
	base     zerolog.Logger
	logger   zerolog.Logger
}

// Config holds the runner collaborators.
type Config struct {
	Posts    PostCollector
	Emoji    EmojiSource
	Reactor  dispatch.Reactor
	Reporter progress.Reporter

	// Logger overrides the package logger (optional)
	Logger *zerolog.Logger
}

// New creates a runner.
func New(cfg Config) (*Runner, error) {
	switch {
	case cfg.Posts == nil:
		return nil, fmt.Errorf("post collector is required")
	case cfg.Emoji == nil:
		return nil, fmt.Errorf("emoji source is required")
	case cfg.Reactor == nil:
		return nil, fmt.Errorf("reactor is required")
	}

	reporter := cfg.Reporter
	if reporter == nil {
		reporter = progress.Discard{}
	}

	base := log.Logger
	if cfg.Logger != nil {
		base = *cfg.Logger
	}

	return &Runner{
		posts:    cfg.Posts,
		emoji:    cfg.Emoji,
		reactor:  cfg.Reactor,
		reporter: reporter,
		base:     base,
		logger:   base.With().Str("component", "runner").Logger(),
	}, nil
}

// Run executes the phases in order and stops at the first error.
func (r *Runner) Run(ctx context.Context) (dispatch.Result, error) {
	r.reporter.Start("Fetching posts...")
	ids, err := r.posts.CollectIDs(ctx)
	if err != nil {
		return dispatch.Result{}, r.fail("fetch posts", err)
	}
	r.reporter.Success(fmt.Sprintf("%d posts fetched!", len(ids)))
	r.logger.Info().Int("posts", len(ids)).Msg("Posts fetched")

	r.reporter.Start("Fetching latest emoji...")
	entries, err := r.emoji.Load(ctx)
	if err != nil {
		return dispatch.Result{}, r.fail("fetch emoji", err)
	}
	names := emoji.Names(entries)
	r.reporter.Success(fmt.Sprintf("%d emoji retrieved!", len(names)))
	r.logger.Info().Int("emoji", len(names)).Msg("Emoji retrieved")

	r.reporter.Start("Starting...")
	dispatcher := dispatch.New(r.reactor, r.reporter, dispatch.Config{Logger: &r.base})
	result, err := dispatcher.Run(ctx, ids, names)
	if err != nil {
		return result, r.fail("react", err)
	}
	r.reporter.Success(result.Summary())

	return result, nil
}

func (r *Runner) fail(phase string, err error) error {
	err = fmt.Errorf("%s: %w", phase, err)
	r.reporter.Fail(err.Error())
	return err
}

var (
	_ PostCollector    = (*pagination.Pager)(nil)
	_ EmojiSource      = (*emoji.Loader)(nil)
	_ dispatch.Reactor = (*aula.Service)(nil)
)
