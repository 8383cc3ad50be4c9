package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/inclint/pkg/cache"
	"github.com/platinummonkey/inclint/pkg/config"
	"github.com/platinummonkey/inclint/pkg/linter"
	"github.com/platinummonkey/inclint/pkg/linter/rules"
	"github.com/platinummonkey/inclint/pkg/observability"
	"github.com/platinummonkey/inclint/pkg/watch"
)

func main() {
	configFile := flag.String("config", "", "Path to lint config file (inclint.yaml)")
	delay := flag.Duration("delay", 0, "Quiet period before a changed file is linted (default INCLINT_WATCH_DELAY)")
	httpAddr := flag.String("http", "", "Serve results and metrics on this address (default INCLINT_HTTP_ADDR)")
	fix := flag.Bool("fix", false, "Rewrite include blocks as files change")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	env, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.SetLevel(logrusLevel(env.Observability.LogLevel))

	roots := flag.Args()
	if len(roots) == 0 {
		roots = []string{"."}
	}

	var lintCfg *linter.Config
	if *configFile != "" {
		lintCfg, err = linter.LoadConfig(*configFile)
	} else {
		lintCfg, err = linter.LoadConfigFromDir(roots[0])
	}
	if err != nil {
		log.Fatalf("Failed to load lint config: %v", err)
	}
	lintCfg.Debug = lintCfg.Debug || env.Observability.Debug

	if *delay <= 0 {
		*delay = env.Watch.Delay
	}
	if *httpAddr == "" {
		*httpAddr = env.Watch.HTTPAddr
	}

	metrics := observability.NewMetrics(prometheus.NewRegistry())
	opts := []linter.Option{
		linter.WithLogger(observability.NewLogger(env.Observability.LogLevel, os.Stderr)),
		linter.WithMetrics(metrics),
		linter.WithWorkers(env.Lint.Workers),
	}
	if cc := env.CacheConfig(); cc != nil {
		opts = append(opts, linter.WithCache(cache.New[linter.LintResult](cc)))
	}
	engine := linter.NewLintEngine(lintCfg, opts...)
	rules.RegisterDefaultRules(engine.Registry())

	watcher, err := watch.New(engine, watch.Options{
		Roots:   roots,
		Delay:   *delay,
		Fix:     *fix || lintCfg.AutoFix.Enabled,
		Logger:  log,
		Metrics: metrics,
	})
	if err != nil {
		log.Fatalf("Failed to create watcher: %v", err)
	}
	defer watcher.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var server *http.Server
	if *httpAddr != "" {
		server = &http.Server{
			Addr:              *httpAddr,
			Handler:           watch.NewHandlers(watcher, metrics).Router(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			log.WithField("addr", *httpAddr).Info("Serving results")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Error("HTTP server failed")
				stop()
			}
		}()
	}

	if err := watcher.Run(ctx); err != nil {
		log.WithError(err).Error("Watcher stopped")
	}

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("HTTP server shutdown failed")
		}
	}

	if env.Observability.MetricsFile != "" {
		if err := metrics.WriteToTextfile(env.Observability.MetricsFile); err != nil {
			log.WithError(err).Warn("Failed to write metrics file")
		}
	}
	log.Info("Stopped")
}

func logrusLevel(level observability.LogLevel) logrus.Level {
	switch level {
	case observability.DebugLevel:
		return logrus.DebugLevel
	case observability.WarnLevel:
		return logrus.WarnLevel
	case observability.ErrorLevel:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
