package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/container/component"
	"github.com/kbukum/container/container"
	"github.com/kbukum/container/database"
	"github.com/kbukum/container/logger"
	"github.com/kbukum/container/observability"
	"github.com/kbukum/container/redis"
)

// App opens the configured databases and caches and attaches their handles
// into a container. It owns the handles: Stop detaches what Start attached
// and closes them.
type App struct {
	Name       string
	Version    string
	Cfg        *Config
	Registry   *container.Registry
	Components *component.Registry
	Logger     *logger.Logger
	Summary    *Summary

	gracefulTimeout time.Duration
	summaryOut      io.Writer
	telemetry       *observability.Providers

	databases []*database.Component
	caches    []*redis.Component

	mu       sync.Mutex
	attached []container.Key
	started  bool

	onStart []Hook
	onReady []Hook
	onStop  []Hook
}

// New applies defaults to cfg, validates it and registers one component per
// enabled database and cache, in name order.
func New(cfg *Config, opts ...Option) (*App, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	o := resolveOptions(opts)
	app := &App{
		Name:            cfg.Name,
		Version:         cfg.Version,
		Cfg:             cfg,
		Registry:        o.registry,
		gracefulTimeout: 15 * time.Second,
		summaryOut:      o.summaryOut,
	}
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}
	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.Init(cfg.Logging)
		app.Logger = logger.GetGlobalLogger()
	}
	if app.Registry == nil {
		app.Registry = container.Default()
	}
	if app.summaryOut == nil {
		app.summaryOut = os.Stdout
	}
	app.Components = component.NewRegistry().WithLogger(app.Logger.WithComponent("component"))
	app.Summary = NewSummary(cfg.Name, cfg.Version)

	for _, name := range sortedKeys(cfg.Databases) {
		dbCfg := cfg.Databases[name]
		if !dbCfg.Enabled {
			app.Logger.Debug("Database disabled, not registered", logger.Fields("database", name))
			continue
		}
		comp := database.NewComponent(dbCfg, app.Logger)
		if err := app.Components.Register(comp); err != nil {
			return nil, err
		}
		app.databases = append(app.databases, comp)
	}
	for _, name := range sortedKeys(cfg.Caches) {
		cacheCfg := cfg.Caches[name]
		if !cacheCfg.Enabled {
			app.Logger.Debug("Cache disabled, not registered", logger.Fields("cache", name))
			continue
		}
		comp := redis.NewComponent(cacheCfg, app.Logger)
		if err := app.Components.Register(comp); err != nil {
			return nil, err
		}
		app.caches = append(app.caches, comp)
	}
	return app, nil
}

// Start initializes telemetry, starts every component and attaches its
// handle. A failure undoes everything done so far.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.started {
		return nil
	}

	telemetry, err := observability.Init(ctx, a.Cfg.Telemetry, observability.Resource{
		ServiceName:    a.Name,
		ServiceVersion: a.Version,
		Environment:    a.Cfg.Environment,
	})
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	a.telemetry = telemetry

	for _, comp := range a.databases {
		key := container.DatabaseKey(comp.Config().Name)
		if err := a.startComponent(ctx, comp.Name(), key); err != nil {
			a.rollback(ctx)
			return err
		}
		a.attach(key, container.Database(comp.DB()))
	}
	for _, comp := range a.caches {
		key := container.CacheKey(comp.Config().Name)
		if err := a.startComponent(ctx, comp.Name(), key); err != nil {
			a.rollback(ctx)
			return err
		}
		a.attach(key, container.Cache(comp.Client()))
	}

	a.started = true
	return nil
}

func (a *App) startComponent(ctx context.Context, name string, key container.Key) error {
	ctx, span := observability.StartSpan(ctx, "bootstrap.start",
		attribute.String(observability.AttrComponent, name),
		attribute.String(observability.AttrRegistryKey, key.String()),
		attribute.String(observability.AttrCategory, key.Category.String()),
	)
	err := a.Components.Start(ctx, name)
	observability.EndSpan(span, err)
	return err
}

// attach records k only when the registry ends up holding this handle. A key
// already held by someone else is left alone, and so is never detached by us.
func (a *App) attach(k container.Key, e container.Entry) {
	if _, err := a.Registry.Attach(k.Name, e); err != nil {
		a.Logger.Error("Attach failed", logger.ErrorFields("attach", err))
		return
	}
	got, err := a.Registry.GetKey(k)
	if err != nil || got != e.Value() {
		a.Logger.Warn("Registry key already held, handle not attached", logger.Fields(
			logger.FieldKey, k.String(),
			logger.FieldCategory, k.Category.String(),
		))
		return
	}
	a.attached = append(a.attached, k)
	a.Logger.Info("Handle attached", logger.Fields(
		logger.FieldKey, k.String(),
		logger.FieldCategory, k.Category.String(),
	))
}

func (a *App) detachAll() {
	for i := len(a.attached) - 1; i >= 0; i-- {
		a.Registry.DetachKey(a.attached[i])
	}
	a.attached = nil
}

func (a *App) rollback(ctx context.Context) {
	a.detachAll()
	if err := a.Components.StopAll(ctx); err != nil {
		a.Logger.Error("Rollback stop failed", logger.ErrorFields("rollback", err))
	}
	if a.telemetry != nil {
		_ = a.telemetry.Shutdown(ctx)
		a.telemetry = nil
	}
}

// Stop detaches the entries Start attached, in reverse, then stops the
// components in reverse order and flushes telemetry.
func (a *App) Stop(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.started {
		return nil
	}

	a.detachAll()
	var errs []error
	if err := a.Components.StopAll(ctx); err != nil {
		errs = append(errs, err)
	}
	if a.telemetry != nil {
		if err := a.telemetry.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("telemetry shutdown: %w", err))
		}
		a.telemetry = nil
	}
	a.started = false
	return errors.Join(errs...)
}

// Attached returns the keys this app attached and still owns.
func (a *App) Attached() []container.Key {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]container.Key(nil), a.attached...)
}

// Health returns the health of every component.
func (a *App) Health(ctx context.Context) []component.Health {
	return a.Components.HealthAll(ctx)
}

// ReadyCheck returns an error naming every component that is not healthy.
// Disabled components are not counted.
func (a *App) ReadyCheck(ctx context.Context) error {
	var unhealthy []string
	for _, h := range a.Health(ctx) {
		if h.Status == component.StatusHealthy || h.Status == component.StatusDisabled {
			continue
		}
		detail := h.Name + "=" + string(h.Status)
		if h.Message != "" {
			detail += "(" + h.Message + ")"
		}
		unhealthy = append(unhealthy, detail)
	}
	if len(unhealthy) > 0 {
		return fmt.Errorf("unhealthy components: %s", strings.Join(unhealthy, ", "))
	}
	return nil
}

// Run starts the app, blocks until SIGINT, SIGTERM or ctx cancellation, then
// shuts down.
func (a *App) Run(ctx context.Context) error {
	if err := a.startup(ctx); err != nil {
		return err
	}
	a.Logger.Info("Application ready, waiting for shutdown signal")
	a.WaitForSignal(ctx)
	return a.Shutdown()
}

// RunTask starts the app, runs task and shuts down when it returns. A signal
// cancels the task context.
func (a *App) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.startup(ctx); err != nil {
		return err
	}

	taskCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	taskErr := task(taskCtx)
	if stopErr := a.Shutdown(); stopErr != nil && taskErr == nil {
		return stopErr
	}
	return taskErr
}

func (a *App) startup(ctx context.Context) error {
	begin := time.Now()
	a.Logger.Info("Starting application", logger.Fields("name", a.Name, "version", a.Version))

	if err := a.Start(ctx); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	if err := runHooks(ctx, a.onStart); err != nil {
		_ = a.Shutdown()
		return fmt.Errorf("onStart hook failed: %w", err)
	}
	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("Ready check reported issues", logger.Fields(logger.FieldError, err.Error()))
	}
	if err := runHooks(ctx, a.onReady); err != nil {
		_ = a.Shutdown()
		return fmt.Errorf("onReady hook failed: %w", err)
	}

	a.Summary.SetStartupDuration(time.Since(begin))
	a.Summary.Display(a.summaryOut, a.Components, a.Registry)
	return nil
}

// WaitForSignal blocks until SIGINT, SIGTERM or ctx cancellation.
func (a *App) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("Received shutdown signal", logger.Fields("signal", sig.String()))
		return sig
	case <-ctx.Done():
		a.Logger.Info("Context canceled, shutting down")
		return nil
	}
}

// Shutdown runs the OnStop hooks and stops the app within the graceful
// timeout.
func (a *App) Shutdown() error {
	a.Logger.Info("Shutting down application", logger.Fields("timeout", a.gracefulTimeout.String()))

	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var errs []error
	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("OnStop hook error", logger.ErrorFields("shutdown", err))
		errs = append(errs, err)
	}
	if err := a.Stop(ctx); err != nil {
		a.Logger.Error("Shutdown completed with errors", logger.ErrorFields("shutdown", err))
		errs = append(errs, err)
	}
	a.Logger.Info("Application shutdown complete")
	return errors.Join(errs...)
}
