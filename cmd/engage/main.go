package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Sternrassler/aula-engage/pkg/aula"
	"github.com/Sternrassler/aula-engage/pkg/client"
	"github.com/Sternrassler/aula-engage/pkg/config"
	"github.com/Sternrassler/aula-engage/pkg/emoji"
	"github.com/Sternrassler/aula-engage/pkg/engage"
	"github.com/Sternrassler/aula-engage/pkg/logging"
	"github.com/Sternrassler/aula-engage/pkg/metrics"
	"github.com/Sternrassler/aula-engage/pkg/pagination"
	"github.com/Sternrassler/aula-engage/pkg/progress"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

// Populated at build-time via -ldflags.
var version = "dev"

const banner = `Engage++: Maximising your Aula engagement since 2023!
License: AGPLv3 and onwards

`

type options struct {
	ConfigPath  string
	LogLevel    string
	MetricsFile string
	APIBaseURL  string
	EmojiURL    string
}

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "engage: %v\n", err)
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.Command {
	opts := &options{}

	return &cli.Command{
		Name:      "engage",
		Usage:     "React to every post in an Aula space with every emoji",
		UsageText: "engage [options]",
		Version:   version,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to the JSON (or YAML) file holding university, spaceId and token",
				Sources:     cli.EnvVars("ENGAGE_CONFIG"),
				Value:       config.DefaultPath,
				Destination: &opts.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error)",
				Sources:     cli.EnvVars("ENGAGE_LOG_LEVEL"),
				Value:       string(logging.LevelWarn),
				Destination: &opts.LogLevel,
			},
			&cli.StringFlag{
				Name:        "metrics-file",
				Usage:       "write Prometheus metrics in text format to this file when the run ends",
				Sources:     cli.EnvVars("ENGAGE_METRICS_FILE"),
				Destination: &opts.MetricsFile,
			},
			&cli.StringFlag{
				Name:        "api-base-url",
				Usage:       "Aula API root (default https://apiv2.<university>.aula.education)",
				Sources:     cli.EnvVars("ENGAGE_API_BASE_URL"),
				Destination: &opts.APIBaseURL,
			},
			&cli.StringFlag{
				Name:        "emoji-url",
				Usage:       "emoji dataset URL",
				Sources:     cli.EnvVars("ENGAGE_EMOJI_URL"),
				Value:       emoji.DefaultDatasetURL,
				Destination: &opts.EmojiURL,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			cfg := logging.DefaultConfig()
			cfg.Level = logging.LogLevel(opts.LogLevel)
			cfg.Output = stderr
			cfg.RunID = uuid.NewString()

			if _, err := logging.Setup(cfg); err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			return ctx, nil
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return run(ctx, *opts, stdout)
		},
	}
}

func run(ctx context.Context, opts options, stdout io.Writer) (err error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	if opts.MetricsFile != "" {
		defer func() {
			if werr := metrics.WriteTextfile(opts.MetricsFile); werr != nil {
				err = errors.Join(err, werr)
			}
		}()
	}

	fmt.Fprint(stdout, banner)

	endpoints := aula.NewEndpoints(cfg.University)
	if opts.APIBaseURL != "" {
		endpoints = aula.WithBaseURL(opts.APIBaseURL)
	}

	logger := logging.NewLogger("engage")
	logger.Info().
		Str("version", version).
		Str("api", endpoints.BaseURL).
		Str("space_id", cfg.SpaceID).
		Msg("Starting run")

	httpClient := client.New(client.Config{
		UserAgent: "aula-engage/" + version,
	})
	service := aula.NewService(httpClient, endpoints, cfg.SpaceID, cfg.Token)

	runner, err := engage.New(engage.Config{
		Posts:    pagination.NewPager(service, pagination.DefaultConfig()),
		Emoji:    emoji.NewLoader(httpClient, opts.EmojiURL),
		Reactor:  service,
		Reporter: progress.NewSpinner(stdout),
	})
	if err != nil {
		return err
	}

	result, err := runner.Run(ctx)
	if err != nil {
		log.Error().Err(err).Int("reactions", result.Reactions).Msg("Run aborted")
		return err
	}

	return nil
}
