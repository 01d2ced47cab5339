package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/five82/docket/internal/applications"
	"github.com/five82/docket/internal/config"
	"github.com/five82/docket/internal/cv"
	"github.com/five82/docket/internal/export"
	"github.com/five82/docket/internal/prefs"
	"github.com/five82/docket/internal/review"
	"github.com/five82/docket/internal/state"
	"github.com/five82/docket/internal/ui"
)

// Options configure the docket application.
type Options struct {
	ConfigPath string
	EnvFile    string
	Source     string // "api" or "mock"; empty uses the configured source
	PrefsPath  string // empty uses default ~/.config/docket/prefs.toml
}

// Run boots the docket TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(config.LoadOptions{
		Path:    opts.ConfigPath,
		EnvFile: opts.EnvFile,
		Source:  opts.Source,
	})
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closer, err := config.SetupLogger(cfg)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer func() { _ = closer.Close() }()

	svc, cvs, err := newService(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := cvs.Close(); err != nil {
			logger.Warn("remove cv session dir", slog.String("dir", cvs.Dir()), slog.Any("error", err))
		}
	}()

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs, _ := prefs.Load(prefsPath)

	logger.Info("docket starting",
		slog.String("source", cfg.Source),
		slog.String("api_url", cfg.APIURL),
		slog.String("bulk_policy", string(svc.Policy())),
	)

	err = ui.Run(ui.Options{
		Context:       ctx,
		Service:       svc,
		Exporter:      export.New(cfg.ExportDir, cfg.DateLayout, cfg.PrintCommand),
		Opener:        cv.NewOpener(cfg.OpenCommand),
		DateLayout:    cfg.DateLayout,
		ToastDuration: cfg.ToastDuration,
		LogPath:       cfg.LogPath(),
		SourceLabel:   sourceLabel(svc.Source()),
		ThemeName:     userPrefs.Theme,
		PageSize:      userPrefs.PageSize,
		PrefsPath:     prefsPath,
		Logger:        logger,
	})
	logger.Info("docket stopped")
	return err
}

// newService wires the data source, the CV session store and the shared
// record store into a review.Service.
func newService(cfg config.Config, logger *slog.Logger) (*review.Service, *cv.Store, error) {
	var source applications.Source
	switch cfg.Source {
	case config.SourceMock:
		source = applications.NewMock(nil)
	default:
		client, err := applications.NewClient(cfg.APIURL, cfg.RequestTimeout)
		if err != nil {
			return nil, nil, fmt.Errorf("init api client: %w", err)
		}
		source = client
	}

	policy, err := review.ParseBulkPolicy(cfg.BulkPolicy)
	if err != nil {
		return nil, nil, err
	}

	cvs, err := cv.NewStore(os.TempDir())
	if err != nil {
		return nil, nil, err
	}

	svc := review.NewService(source, cvs, &state.Store{},
		review.WithLogger(logger),
		review.WithBulkPolicy(policy),
		review.WithConcurrency(cfg.BulkConcurrency),
	)
	return svc, cvs, nil
}

func sourceLabel(src applications.Source) string {
	if c, ok := src.(*applications.Client); ok {
		return c.BaseURL()
	}
	return "mock data"
}
