package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pders01/slyde/internal/config"
	"github.com/pders01/slyde/internal/debuglog"
	"github.com/pders01/slyde/internal/search"
	"github.com/pders01/slyde/internal/slideshow"
	"github.com/pders01/slyde/internal/storage"
	"github.com/pders01/slyde/internal/validation"
)

type rootOptions struct {
	configPath string
	dbPath     string
	quiet      bool

	loadConfig func(path string) (*config.Config, error)
}

func newRootOptions() *rootOptions {
	return &rootOptions{loadConfig: config.Load}
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slyde [url|share-id]",
		Short: "Browse ArchDaily project slideshows from the terminal",
		Long: `slyde turns ArchDaily project pages into keyboard driven slideshows.

Every slideshow you open is bookmarked, so recently viewed and favorite
projects can be reopened, searched, or served to other clients over a
small HTTP API.`,
		Example: `  # Open the viewer
  slyde

  # Open a project directly
  slyde https://www.archdaily.com/1012345/casa-azul-studio-norte

  # Serve the JSON API
  slyde serve --addr :8787`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runViewer(cmd, opts, args)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "Path to database file (overrides config)")
	cmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "Skip startup banner")

	cmd.AddCommand(
		newViewCmd(opts),
		newServeCmd(opts),
		newRecentsCmd(opts),
		newFavoritesCmd(opts),
		newFavoriteCmd(opts),
		newSearchCmd(opts),
		newConfigCmd(),
		newVersionCmd(),
	)

	return cmd
}

// runtime holds everything a command needs to work with slideshows and
// bookmarks.
type runtime struct {
	cfg      *config.Config
	store    storage.ProjectStore
	searcher search.Searcher
	slides   *slideshow.Service
}

func (o *rootOptions) open() (*runtime, error) {
	cfg, err := o.loadConfig(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if o.dbPath != "" {
		cfg.Database.Path = o.dbPath
	}

	if err := debuglog.Setup(debuglog.ParseLogLevel(cfg.Log.Level), cfg.Log.File); err != nil {
		return nil, err
	}

	store, err := storage.Open(cfg.Database)
	if err != nil {
		debuglog.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}

	indexPath := cfg.Database.SearchIndex
	if indexPath != "" {
		indexPath, err = validation.NewPermissivePathHandler().IndexPath(indexPath)
		if err != nil {
			debuglog.Warnf("search index path rejected: %v", err)
			indexPath = ""
		}
	}
	searcher := search.New(store, indexPath)

	slides := slideshow.NewService(cfg.Source, slideshow.NewFetcher(cfg.Source), storage.NewRecorder(store))
	if rec, ok := searcher.(slideshow.Recorder); ok {
		slides.AddRecorder(rec)
	}

	debuglog.Infof("slyde %s started, database %q", Version, cfg.Database.Path)
	return &runtime{cfg: cfg, store: store, searcher: searcher, slides: slides}, nil
}

func (r *runtime) Close() error {
	var errs []error
	if c, ok := r.searcher.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	errs = append(errs, r.store.Close(), debuglog.Close())
	return errors.Join(errs...)
}
