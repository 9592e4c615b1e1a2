package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/widgetshare/pkg/cache"
	"github.com/matzehuels/widgetshare/pkg/config"
	"github.com/matzehuels/widgetshare/pkg/coordinator"
	"github.com/matzehuels/widgetshare/pkg/dashboard"
	"github.com/matzehuels/widgetshare/pkg/export"
	"github.com/matzehuels/widgetshare/pkg/host"
	"github.com/matzehuels/widgetshare/pkg/objecturl"
	"github.com/matzehuels/widgetshare/pkg/share"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for key prefixes and display.
	appName = "widgetshare"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath    string
	dashboardPath string
	verbose       bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig loads the config file and applies its log level unless
// --verbose is set.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if !c.verbose {
		c.SetLogLevel(parseLevel(cfg.Log.Level))
	}
	return cfg, nil
}

// loadDashboard loads --dashboard, or the sample dashboard when unset.
func (c *CLI) loadDashboard() (*dashboard.Dashboard, error) {
	if c.dashboardPath == "" {
		return dashboard.Sample(), nil
	}
	return dashboard.Load(c.dashboardPath)
}

// =============================================================================
// App - per-command runtime wiring
// =============================================================================

// app is everything an export or share command needs.
type app struct {
	cfg       *config.Config
	dashboard *dashboard.Dashboard
	deps      coordinator.Deps
	notifier  *termNotifier
	cache     cache.Cache

	disk    *host.DiskDownloader // disk mode
	objects *objecturl.Registry  // browser mode
	served  <-chan error
	stop    context.CancelFunc
	logger  *log.Logger
}

// newApp loads config and dashboard and wires encoder, cache, dispatcher
// and downloader. In browser mode it also starts the object server.
func (c *CLI) newApp(ctx context.Context) (*app, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	d, err := c.loadDashboard()
	if err != nil {
		return nil, err
	}

	logger := c.Logger
	installHooks(logger)

	a := &app{cfg: cfg, dashboard: d, logger: logger, stop: func() {}}
	a.cache = newCache(ctx, cfg, logger)

	enc := export.NewEncoder(
		export.WithLayout(cfg.Export.PDF),
		export.WithImageConfig(cfg.Export.Image),
		export.WithCompression(cfg.Export.Compress),
		export.WithCache(a.cache, cfg.Cache.TTL),
		export.WithLogger(logger),
	)

	dispatchOpts := []share.DispatcherOption{
		share.WithStartDelay(cfg.Share.StartDelay),
		share.WithRevokeDelays(cfg.Share.RevokeDelay, cfg.Share.DownloadOnlyRevokeDelay),
		share.WithDefaultTexts(cfg.Share.DefaultTitle, cfg.Share.DefaultText),
		share.WithDispatcherLogger(logger),
	}

	var dl share.Downloader
	switch cfg.Download.Mode {
	case config.DownloadBrowser:
		srvCtx, stop := context.WithCancel(ctx)
		a.objects = objecturl.NewRegistry("")
		served, err := a.objects.ListenAndServe(srvCtx, cfg.Server.Addr)
		if err != nil {
			stop()
			a.cache.Close()
			return nil, fmt.Errorf("start object server: %w", err)
		}
		a.served, a.stop = served, stop
		logger.Debug("object server listening", "url", a.objects.BaseURL())

		dl = host.NewBrowserDownloader(a.objects, nil, cfg.Share.RevokeDelay)
		dispatchOpts = append(dispatchOpts, share.WithObjects(a.objects))
	default:
		a.disk = host.NewDiskDownloader(cfg.Download.Dir)
		dl = a.disk
	}

	env := host.NewDesktop(cfg.Share.UserAgent, nil)
	a.notifier = newTermNotifier(ctx)
	a.deps = coordinator.Deps{
		Encoder:    enc,
		Dispatcher: share.NewDispatcher(env, dl, dispatchOpts...),
		Downloader: dl,
		Notifier:   a.notifier,
		Logger:     logger,
	}
	return a, nil
}

// widget returns the coordinator for the widget with the given id.
func (a *app) widget(id string) (*dashboard.Widget, coordinator.Widget, error) {
	w, err := a.dashboard.Find(id)
	if err != nil {
		return nil, nil, err
	}
	return w, w.Coordinator(a.deps), nil
}

// reportOutcome prints where the artifact went.
func (a *app) reportOutcome(out coordinator.Outcome) {
	if out.Artifact == nil || !out.Success {
		return
	}
	if a.disk != nil {
		if path := a.disk.Last(); path != "" {
			printFile(path)
		}
	}
	printArtifactStats(out.Artifact.Size(), out.Artifact.Cached)
}

// finish waits, in browser mode, until the browser had time to fetch every
// transient object.
func (a *app) finish(ctx context.Context) error {
	if a.objects == nil || a.objects.Len() == 0 {
		return nil
	}
	printDetail("Serving %d file(s) at %s until the browser fetches them...", a.objects.Len(), a.objects.BaseURL())
	return a.objects.Wait(ctx)
}

// Close stops the object server and releases the cache.
func (a *app) Close() error {
	a.notifier.Close()
	if a.objects != nil {
		a.objects.Close()
		a.stop()
		if err := <-a.served; err != nil {
			a.logger.Warn("object server", "err", err)
		}
	}
	return a.cache.Close()
}

// =============================================================================
// Cache Factory
// =============================================================================

// newCache opens the configured cache backend. An unusable backend is
// logged and replaced by a NullCache so exports still work.
func newCache(ctx context.Context, cfg *config.Config, logger *log.Logger) cache.Cache {
	switch cfg.Cache.Backend {
	case config.CacheFile:
		fc, err := cache.NewFileCache(cfg.Cache.Dir)
		if err != nil {
			logger.Warn("file cache unavailable, caching disabled", "dir", cfg.Cache.Dir, "err", err)
			return cache.NewNullCache()
		}
		return fc
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, redisOptions(cfg))
		if err != nil {
			logger.Warn("redis cache unavailable, caching disabled", "addr", cfg.Cache.RedisAddr, "err", err)
			return cache.NewNullCache()
		}
		return rc
	default:
		return cache.NewNullCache()
	}
}

func redisOptions(cfg *config.Config) cache.RedisOptions {
	return cache.RedisOptions{
		Addr:     cfg.Cache.RedisAddr,
		Password: cfg.Cache.RedisPassword,
		DB:       cfg.Cache.RedisDB,
		Prefix:   appName + ":",
	}
}
