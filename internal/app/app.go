package app

import (
	"fmt"
	"io"
	"net/http"

	"github.com/atotto/clipboard"
	desktop "github.com/pkg/browser"
	"go.uber.org/zap"

	"github.com/notepid/pdf24/internal/api"
	"github.com/notepid/pdf24/internal/browser"
	"github.com/notepid/pdf24/internal/config"
	"github.com/notepid/pdf24/internal/document"
	"github.com/notepid/pdf24/internal/logging"
)

type App struct {
	ConfigPath string
	Config     *config.Config
	Log        *zap.Logger

	Resolver document.LinkResolver
	API      *api.Client
	Browser  *browser.Model

	// Open hands a URL to the desktop.
	Open func(url string) error
}

func New(configPath string) (*App, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	log, closeLog, err := logging.ForClient(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}

	order, err := document.ParseSortOrder(cfg.Client.DefaultOrder)
	if err != nil {
		_ = closeLog()
		return nil, nil, err
	}

	// The launcher must not write over the terminal UI.
	desktop.Stdout = io.Discard
	desktop.Stderr = io.Discard

	resolver := document.LinkResolver{APIBase: cfg.Client.APIURL, Origin: cfg.Client.Origin}
	client := api.New(resolver.Base(), &http.Client{}, log.Named("api"))

	a := &App{
		ConfigPath: configPath,
		Config:     cfg,
		Log:        log,
		Resolver:   resolver,
		API:        client,
		Browser: browser.New(client, browser.Options{
			Resolver:       resolver,
			Order:          order,
			UploadTimeout:  cfg.Client.UploadTimeout,
			ListingTimeout: cfg.Client.ListingTimeout,
			Log:            log,
			Clipboard:      clipboard.WriteAll,
		}),
		Open: OpenURL,
	}

	log.Info("client started", zap.String("api", resolver.Base()), zap.String("config", configPath))

	cleanup := func() {
		_ = closeLog()
	}

	return a, cleanup, nil
}

// OpenURL hands url to the desktop's default handler. It blocks until the
// launcher exits.
func OpenURL(url string) error {
	if err := desktop.OpenURL(url); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	return nil
}
