package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"go.uber.org/zap"

	"recruitwatch/internal/config"
	"recruitwatch/internal/events"
	"recruitwatch/internal/fetch"
	"recruitwatch/internal/httpapi"
	"recruitwatch/internal/logging"
	"recruitwatch/internal/match"
	"recruitwatch/internal/notify"
	"recruitwatch/internal/scheduler"
	"recruitwatch/internal/scrape"
	"recruitwatch/internal/secrets"
	"recruitwatch/internal/store"
)

func main() {
	var (
		dataDir     = flag.String("data", defaultDataDir(), "data directory (db, lock, user config)")
		defaultCfg  = flag.String("default-config", filepath.Join("config", "config.yml"), "bundled default config, copied on first run")
		setIMAPPass = flag.Bool("set-imap-password", false, "store the IMAP password in the OS keyring and exit")
		setSMTPPass = flag.Bool("set-smtp-password", false, "store the SMTP password in the OS keyring and exit")
		once        = flag.Bool("once", false, "run one scrape cycle and exit")
	)
	flag.Parse()

	userCfgPath, err := config.EnsureUserConfig(*dataDir, *defaultCfg)
	if err != nil {
		fatal("config bootstrap failed: %v", err)
	}
	cfg, err := config.Load(userCfgPath)
	if err != nil {
		fatal("config load failed (%s): %v", userCfgPath, err)
	}
	if err := config.OverlayKeywords(&cfg, filepath.Join(*dataDir, "keywords.yml")); err != nil {
		fatal("keywords overlay failed: %v", err)
	}

	if *setIMAPPass || *setSMTPPass {
		if err := storePassword(cfg, *setIMAPPass); err != nil {
			fatal("%v", err)
		}
		return
	}

	log, flush := logging.New(cfg.Logging.Path, cfg.Logging.Level)
	defer flush()

	lock, err := store.AcquireLock(*dataDir)
	if err != nil {
		fatal("%v", err)
	}
	defer func() { _ = lock.Unlock() }()

	st, err := store.Open(filepath.Join(*dataDir, "recruitwatch.db"))
	if err != nil {
		fatal("open store: %v", err)
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limiter := fetch.NewHostLimiter(cfg.Fetch.RequestsPerSecond, cfg.Fetch.Burst)
	client := fetch.NewClient(cfg.Fetch.UserAgent, cfg.Fetch.Timeout(), limiter)

	var browser *fetch.Browser
	if needsBrowser(cfg) {
		browser, err = fetch.NewBrowser(fetch.BrowserOptions{
			Bin:         cfg.Fetch.Browser.Bin,
			UserAgent:   cfg.Fetch.UserAgent,
			PageTimeout: cfg.Fetch.Browser.PageTimeout(),
			ScrollDelay: cfg.Fetch.Browser.ScrollDelay(),
		}, limiter)
		if err != nil {
			log.Warn("browser unavailable, browser sites will be skipped", zap.Error(err))
		} else {
			defer browser.Close()
		}
	}

	mailPassword := ""
	if cfg.Mail.Enabled {
		mailPassword, err = secrets.Get(secrets.IMAPAccount(cfg.Mail.Username, cfg.Mail.IMAPHost))
		if err != nil {
			log.Warn("mail source disabled, no password in keyring", zap.Error(err))
			cfg.Mail.Enabled = false
		}
	}

	hub := events.NewHub()
	pipeline := &scrape.Pipeline{
		Sources:       scrape.BuildSources(cfg, client, browser, mailPassword, log),
		Matcher:       match.NewMatcher(match.KeywordSet{Include: cfg.JobKeywords, Exclude: cfg.ExcludeKeywords}, cfg.SimilarityThreshold),
		Store:         st,
		Notify:        buildNotifiers(cfg, log),
		Hub:           hub,
		Log:           log,
		SourceTimeout: 5 * time.Minute,
	}
	if len(pipeline.Sources) == 0 {
		fatal("no usable sources after validation, nothing to do")
	}
	log.Info("watcher starting",
		zap.Int("sources", len(pipeline.Sources)),
		zap.Int("keywords", len(cfg.JobKeywords)),
		zap.Float64("threshold", cfg.SimilarityThreshold),
	)

	var lastRun atomic.Value
	var running atomic.Bool
	runCycle := func(ctx context.Context) error {
		if !running.CompareAndSwap(false, true) {
			return nil
		}
		defer running.Store(false)
		lastRun.Store(pipeline.Run(ctx))
		return nil
	}

	if *once {
		_ = runCycle(ctx)
		return
	}

	if cfg.Server.Enabled {
		startServer(ctx, cfg.Server.Addr, httpapi.Deps{
			Store:   st,
			Hub:     hub,
			LastRun: &lastRun,
			TriggerRun: func() bool {
				if running.Load() {
					return false
				}
				go func() { _ = runCycle(ctx) }()
				return true
			},
		}, log)
	}

	loc, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		fatal("load timezone %s: %v", cfg.Schedule.Timezone, err)
	}
	scheduler.Run(ctx, scheduler.Schedule{
		Interval: cfg.Schedule.Interval(),
		Times:    cfg.Schedule.Times,
		Start:    cfg.Schedule.Start,
		End:      cfg.Schedule.End,
		Loc:      loc,
	}, "scrape", runCycle, log)
}

func defaultDataDir() string {
	if d := os.Getenv("RECRUITWATCH_DATA_DIR"); d != "" {
		return d
	}
	return "data"
}

func needsBrowser(cfg config.Config) bool {
	for _, s := range cfg.Sites {
		if s.Method == "browser" {
			return true
		}
	}
	return false
}

func buildNotifiers(cfg config.Config, log *zap.Logger) *notify.Multi {
	var ns []notify.Notifier
	if cfg.Notifications.Console.Enabled {
		ns = append(ns, &notify.Console{Out: os.Stdout})
	}
	if cfg.Notifications.File.Enabled {
		ns = append(ns, &notify.File{Path: cfg.Notifications.File.Path})
	}
	if cfg.Notifications.Email.Enabled {
		pw, err := secrets.Get(secrets.SMTPAccount(cfg.Notifications.Email.From, cfg.Notifications.Email.SMTPHost))
		if err != nil {
			log.Warn("email notifications disabled, no password in keyring", zap.Error(err))
		} else {
			ns = append(ns, notify.NewEmail(cfg.Notifications.Email, pw))
		}
	}
	return notify.NewMulti(log, ns...)
}

func startServer(ctx context.Context, addr string, deps httpapi.Deps, log *zap.Logger) {
	srv := &http.Server{
		Addr:    addr,
		Handler: httpapi.NewMux(deps),
	}
	go func() {
		log.Info("api listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("api server failed", zap.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
	}()
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
