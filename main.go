package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Tushar-Jain07/portfolio/internal/config"
	"github.com/Tushar-Jain07/portfolio/internal/content"
	"github.com/Tushar-Jain07/portfolio/internal/logging"
	"github.com/Tushar-Jain07/portfolio/internal/session"
	"github.com/Tushar-Jain07/portfolio/internal/storage/sqlite"
	"github.com/Tushar-Jain07/portfolio/internal/telemetry"
	"github.com/Tushar-Jain07/portfolio/internal/theme"
)

var version = "dev"

// Global flags
var (
	port    string
	memory  bool
	verbose bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "portfolio",
		Short: "Tushar Jain's portfolio site",
		Long: `Serves the portfolio page and runs its decorative scenes
(particle text, skills globe, project showcase, backdrop) as live
sessions streamed to the browser.`,
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.PersistentFlags().StringVarP(&port, "port", "p", "", "listen port (overrides PORT)")
	root.PersistentFlags().BoolVar(&memory, "memory", false, "use a throwaway in-memory database")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the web server (default)",
			RunE:  runServe,
		},
		newSceneCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintln(cmd.OutOrStdout(), "portfolio", version)
			},
		},
	)
	return root
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if port != "" {
		cfg.Port = port
	}
	if memory {
		cfg.DBPath = ":memory:"
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Production(), verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, "portfolio", cfg.OTelEndpoint, cfg.OTelEnabled)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("tracing shutdown", zap.Error(err))
		}
	}()

	db, err := sqlite.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	site, err := content.Load(cfg.ContentFile)
	if err != nil {
		return err
	}
	holder := content.NewHolder(site)

	pref := theme.NewPreference(cfg.DefaultTheme)
	var prefs preferenceStore = db
	if memory {
		prefs = theme.NewMemoryStore()
	}
	scenes := session.NewManager(session.Config{
		FrameInterval: cfg.FrameInterval(),
		IdleTimeout:   cfg.SessionIdle,
		ReapInterval:  cfg.ReapInterval,
		MaxSessions:   cfg.MaxSessions,
	}, holder, logger.Named("session"))

	app, err := newApp(appDeps{
		cfg:    cfg,
		logger: logger,
		db:     db,
		prefs:  prefs,
		themes: theme.NewService(prefs, pref, logger.Named("theme")),
		scenes: scenes,
		site:   holder,
		mailer: smtpMailer{cfg: cfg.SMTP},
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           app.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.ContentFile != "" && !cfg.Production() {
		w, err := content.NewWatcher(cfg.ContentFile, holder, logger.Named("content"))
		if err != nil {
			return err
		}
		if err := w.Start(gctx); err != nil {
			return err
		}
		defer w.Stop()
	}

	g.Go(func() error {
		logger.Info("portfolio listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error { return scenes.Run(gctx) })
	g.Go(func() error { return app.runRetention(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		// Streams stay open until their sessions close.
		scenes.Close()
		return srv.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("portfolio stopped")
	return nil
}
