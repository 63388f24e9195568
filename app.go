package main

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Tushar-Jain07/portfolio/internal/config"
	"github.com/Tushar-Jain07/portfolio/internal/content"
	"github.com/Tushar-Jain07/portfolio/internal/logging"
	"github.com/Tushar-Jain07/portfolio/internal/session"
	"github.com/Tushar-Jain07/portfolio/internal/storage/sqlite"
	"github.com/Tushar-Jain07/portfolio/internal/theme"
)

// preferenceStore is a theme store that can also report the dark/light split.
type preferenceStore interface {
	theme.Store
	Counts(ctx context.Context) (map[theme.Theme]int64, error)
}

type appDeps struct {
	cfg    config.Config
	logger *zap.Logger
	db     *sqlite.DB
	prefs  preferenceStore
	themes *theme.Service
	scenes *session.Manager
	site   *content.Holder
	mailer mailer
}

// app holds everything the handlers need.
type app struct {
	appDeps
	admin *adminAuth
	tmpl  *template.Template
}

func newApp(deps appDeps) (*app, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	admin, err := newAdminAuth(deps.cfg.Admin, !deps.cfg.Production(), deps.logger.Named("admin"))
	if err != nil {
		return nil, err
	}
	return &app{appDeps: deps, admin: admin, tmpl: tmpl}, nil
}

func (a *app) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logging.GinLogger(a.logger.Named("http"), a.admin.hashIP, isAssetPath))
	r.SetHTMLTemplate(a.tmpl)

	r.Use(a.visitorTrackingMiddleware())
	r.Use(a.visitorIDMiddleware())

	static, _ := fs.Sub(assets, "static")
	r.StaticFS("/static", http.FS(static))
	r.Static("/images", a.cfg.ImagesDir)

	r.GET("/healthz", a.handleHealth)

	a.setupPageRoutes(r)
	a.setupThemeRoutes(r)
	a.setupSceneRoutes(r)
	a.setupAdminRoutes(r)
	return r
}

func (a *app) handleHealth(c *gin.Context) {
	if err := a.db.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func isAssetPath(path string) bool {
	return strings.HasPrefix(path, "/static/") ||
		strings.HasPrefix(path, "/images/") ||
		strings.HasPrefix(path, "/favicon") ||
		path == "/healthz"
}

// runRetention purges old visitor rows now and then once a day.
func (a *app) runRetention(ctx context.Context) error {
	a.purgeOldVisits(ctx)
	ticker := time.NewTicker(retentionInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			a.purgeOldVisits(ctx)
		}
	}
}
