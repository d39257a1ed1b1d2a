// Package cli is the resume-screener command line.
package cli

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/baxromumarov/resume-screener/internal/ai"
	"github.com/baxromumarov/resume-screener/internal/config"
	"github.com/baxromumarov/resume-screener/internal/core"
	"github.com/baxromumarov/resume-screener/internal/httpx"
	"github.com/baxromumarov/resume-screener/internal/logger"
	"github.com/baxromumarov/resume-screener/internal/observability"
	"github.com/baxromumarov/resume-screener/internal/scraper"
	"github.com/baxromumarov/resume-screener/internal/store"
)

const app = "resume-screener"

var version = "dev"

// env holds what every command needs once flags and config are resolved.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewRootCommand builds the command tree. Each call gets its own viper
// instance so commands can be exercised in tests without global state.
func NewRootCommand() *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:           app,
		Short:         "resume-screener scrapes job postings and screens resumes against them",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "a YAML config file")
	root.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	root.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	v.BindPFlag("debug", root.PersistentFlags().Lookup("debug"))
	v.BindPFlag("json", root.PersistentFlags().Lookup("json"))

	load := func() (*env, error) {
		cfg, err := config.Load(v, cfgFile)
		if err != nil {
			return nil, err
		}
		l, err := logger.New(cfg.JSON, cfg.Debug)
		if err != nil {
			return nil, fmt.Errorf("creating a logger: %w", err)
		}
		return &env{cfg: cfg, logger: l}, nil
	}

	root.AddCommand(
		newScrapeCommand(load),
		newScreenCommand(load),
		newBatchCommand(load),
		newTemplateCommand(),
		newServeCommand(load),
		newMigrateCommand(load),
		newVersionCommand(),
	)
	return root
}

// Execute runs the root command with args from os.Args.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), app, version)
		},
	}
}

// newScraper wires the fetcher and dispatcher with stats observers.
func (e *env) newScraper() *scraper.Scraper {
	sc := e.cfg.Scraper
	fetcher := httpx.NewPageFetcher(
		httpx.WithUserAgent(sc.UserAgent),
		httpx.WithRobots(sc.RespectRobots),
		httpx.WithTransport(httpx.NewPoliteTransport(
			http.DefaultTransport.(*http.Transport).Clone(), sc.HostInterval, httpx.DefaultHostBurst,
		)),
		httpx.WithObserver(func(host string, err error) {
			if err != nil {
				observability.IncError(observability.ClassifyFetchError(err), "fetcher")
				e.logger.Debug("fetch failed", zap.String("host", host), zap.Error(err))
				return
			}
			observability.IncPagesFetched()
		}),
	)
	return scraper.New(fetcher,
		scraper.WithLogger(e.logger),
		scraper.WithAttempts(sc.Attempts),
		scraper.WithRetryDelay(sc.RetryDelay),
		scraper.WithMinDescriptionLength(sc.MinDescriptionLength),
		scraper.WithResultObserver(func(site string, res scraper.Result) {
			observability.IncScrape(site, res.Success)
		}),
	)
}

func (e *env) newScreeningService(ctx context.Context) (*core.ScreeningService, error) {
	client, err := ai.NewClient(ctx, ai.Config{
		Provider: e.cfg.AI.Provider,
		APIKey:   e.cfg.AI.APIKey,
		Model:    e.cfg.AI.Model,
	}, e.logger)
	if err != nil {
		return nil, fmt.Errorf("creating ai client: %w", err)
	}
	return core.NewScreeningService(e.newScraper(), client, e.logger), nil
}

// openStore connects when database.url is set and returns nil otherwise.
func (e *env) openStore(ctx context.Context) (*store.Store, error) {
	if e.cfg.Database.URL == "" {
		return nil, nil
	}
	db, err := store.NewStore(e.cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
