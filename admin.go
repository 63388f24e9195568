// admin.go - privacy-conscious visitor analytics and the admin dashboard
package main

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Tushar-Jain07/portfolio/internal/config"
	"github.com/Tushar-Jain07/portfolio/internal/scene"
	"github.com/Tushar-Jain07/portfolio/internal/session"
	"github.com/Tushar-Jain07/portfolio/internal/storage/sqlite"
	"github.com/Tushar-Jain07/portfolio/internal/theme"
)

const (
	adminCookie       = "admin_token"
	retentionInterval = 24 * time.Hour
	recentVisitors    = 50
)

// AdminStats is the dashboard payload.
type AdminStats struct {
	*sqlite.VisitorStats
	ThemeSplit map[string]int64 `json:"theme_split"`
	Scenes     session.Stats    `json:"scenes"`
	SceneKinds []scene.Kind     `json:"scene_kinds"`
	Generated  time.Time        `json:"generated"`
}

// adminAuth holds the per-process admin token and IP hashing salt.
type adminAuth struct {
	token    string
	salt     string
	username string
	password string
	logger   *zap.Logger
}

func newAdminAuth(cfg config.AdminConfig, dev bool, logger *zap.Logger) (*adminAuth, error) {
	token, err := generateAdminToken()
	if err != nil {
		return nil, err
	}
	salt, err := generateAdminToken()
	if err != nil {
		return nil, err
	}
	a := &adminAuth{
		token:    token,
		salt:     salt,
		username: cfg.Username,
		password: cfg.Password,
		logger:   logger,
	}

	// Default credentials for development only
	if dev {
		if a.username == "" {
			a.username = "admin"
			logger.Warn("using default admin username, set ADMIN_USERNAME")
		}
		if a.password == "" {
			a.password = "admin123"
			logger.Warn("using default admin password, set ADMIN_PASSWORD")
		}
		logger.Debug("admin token (dev only)", zap.String("token", a.token))
	} else if a.username == "" || a.password == "" {
		logger.Warn("admin login disabled, ADMIN_USERNAME and ADMIN_PASSWORD are not set")
	}

	logger.Info("admin access available", zap.String("path", "/admin/login"))
	return a, nil
}

func generateAdminToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generate admin token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// hashIP keeps raw addresses out of storage and logs (consistent per IP for
// the life of the process).
func (a *adminAuth) hashIP(ip string) string {
	hash := sha256.New()
	hash.Write([]byte(ip + a.salt))
	return hex.EncodeToString(hash.Sum(nil))[:16]
}

func (a *adminAuth) checkCredentials(username, password string) bool {
	if a.username == "" || a.password == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	return userOK && passOK
}

// middleware redirects to the login page without a valid admin cookie.
func (a *adminAuth) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func skipTracking(path string) bool {
	return isAssetPath(path) ||
		strings.HasPrefix(path, "/admin") ||
		strings.HasPrefix(path, "/api/") ||
		strings.HasPrefix(path, "/privacy")
}

// visitorTrackingMiddleware records page views with a hashed IP. It honours
// Do Not Track.
func (a *app) visitorTrackingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if skipTracking(path) || c.GetHeader("DNT") == "1" || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		visit := sqlite.Visit{
			HashedIP:  a.admin.hashIP(c.ClientIP()),
			UserAgent: c.GetHeader("User-Agent"),
			Path:      path,
			Timestamp: time.Now(),
		}
		go a.trackVisit(visit)
		c.Next()
	}
}

func (a *app) trackVisit(v sqlite.Visit) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.db.RecordVisit(ctx, v); err != nil {
		a.logger.Warn("recording visitor", zap.Error(err))
	}
}

// purgeOldVisits removes visitor rows older than 12 months.
func (a *app) purgeOldVisits(ctx context.Context) {
	cutoff := time.Now().AddDate(-1, 0, 0)
	n, err := a.db.PurgeVisitsBefore(ctx, cutoff)
	if err != nil {
		a.logger.Error("cleaning up old visitor data", zap.Error(err))
		return
	}
	if n > 0 {
		a.logger.Info("privacy cleanup", zap.Int64("removed", n))
	}
}

func (a *app) adminStats(ctx context.Context) (*AdminStats, error) {
	now := time.Now()
	visitors, err := a.db.Stats(ctx, now, recentVisitors)
	if err != nil {
		return nil, err
	}
	counts, err := a.prefs.Counts(ctx)
	if err != nil {
		return nil, err
	}
	split := map[string]int64{theme.Dark.String(): 0, theme.Light.String(): 0}
	for t, n := range counts {
		split[t.String()] = n
	}
	return &AdminStats{
		VisitorStats: visitors,
		ThemeSplit:   split,
		Scenes:       a.scenes.Stats(),
		SceneKinds:   scene.Kinds(),
		Generated:    now,
	}, nil
}

func (a *app) setupAdminRoutes(r *gin.Engine) {
	// Admin login page
	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		if a.admin.checkCredentials(c.PostForm("username"), c.PostForm("password")) {
			// 24 hours
			c.SetSameSite(http.SameSiteStrictMode)
			c.SetCookie(adminCookie, a.admin.token, 3600*24, "/admin", "", a.cfg.Production(), true)
			a.logger.Info("admin login", zap.String("client", a.admin.hashIP(c.ClientIP())))
			c.Redirect(http.StatusFound, "/admin/dashboard")
			return
		}
		a.logger.Warn("failed admin login", zap.String("client", a.admin.hashIP(c.ClientIP())))
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
			"title": "Admin Login",
			"error": "Invalid credentials",
		})
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", a.cfg.Production(), true)
		c.Redirect(http.StatusFound, "/admin/login")
	})

	adminGroup := r.Group("/admin")
	adminGroup.Use(a.admin.middleware())

	adminGroup.GET("/dashboard", func(c *gin.Context) {
		stats, err := a.adminStats(c.Request.Context())
		if err != nil {
			a.logger.Error("loading admin stats", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-dashboard.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats": stats,
		})
	})

	adminGroup.GET("/api/stats", func(c *gin.Context) {
		stats, err := a.adminStats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	adminGroup.GET("/api/visitors", func(c *gin.Context) {
		visits, err := a.db.RecentVisits(c.Request.Context(), 200)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"visitors": visits})
	})

	adminGroup.GET("/api/scenes", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ids":   a.scenes.IDs(),
			"stats": a.scenes.Stats(),
		})
	})

	adminGroup.POST("/privacy/delete-visitor-data", func(c *gin.Context) {
		a.purgeOldVisits(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup complete"})
	})

	// Admin statistics export (for backups or analysis)
	adminGroup.GET("/export/stats", func(c *gin.Context) {
		stats, err := a.adminStats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		a.logger.Info("admin stats exported", zap.String("client", a.admin.hashIP(c.ClientIP())))
		c.JSON(http.StatusOK, stats)
	})
}
