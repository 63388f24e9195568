package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Tushar-Jain07/portfolio/internal/theme"
)

const (
	visitorCookie   = "visitor_id"
	visitorKey      = "visitorID"
	colorSchemeHint = "Sec-CH-Prefers-Color-Scheme"
	// One year.
	visitorCookieAge = 365 * 24 * 3600
)

// visitorIDMiddleware gives every browser a random id for its theme
// preference and asks for the color scheme client hint.
func (a *app) visitorIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Accept-CH", colorSchemeHint)
		c.Header("Critical-CH", colorSchemeHint)
		c.Header("Vary", colorSchemeHint)

		id, err := c.Cookie(visitorCookie)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(visitorCookie, id, visitorCookieAge, "/", "", a.cfg.Production(), true)
		}
		c.Set(visitorKey, id)
		c.Next()
	}
}

func visitorID(c *gin.Context) string {
	return c.GetString(visitorKey)
}

type themeResponse struct {
	Theme  theme.Theme  `json:"theme"`
	Source theme.Source `json:"source"`
	Color  string       `json:"color"`
}

func (a *app) setupThemeRoutes(r *gin.Engine) {
	api := r.Group("/api/theme")

	api.GET("", func(c *gin.Context) {
		t, src, err := a.themes.Current(c.Request.Context(), visitorID(c), c.GetHeader(colorSchemeHint))
		if err != nil {
			a.logger.Error("resolve theme", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load theme"})
			return
		}
		c.JSON(http.StatusOK, themeResponse{Theme: t, Source: src, Color: t.Color()})
	})

	api.POST("/toggle", func(c *gin.Context) {
		t, err := a.themes.Toggle(c.Request.Context(), visitorID(c), c.GetHeader(colorSchemeHint))
		if err != nil {
			a.logger.Error("toggle theme", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save theme"})
			return
		}
		c.JSON(http.StatusOK, themeResponse{Theme: t, Source: theme.SourceSaved, Color: t.Color()})
	})

	api.PUT("", func(c *gin.Context) {
		var req struct {
			Theme string `json:"theme" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		t, ok := theme.Parse(req.Theme)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": theme.ErrInvalidTheme.Error()})
			return
		}
		if err := a.themes.Set(c.Request.Context(), visitorID(c), t); err != nil {
			if errors.Is(err, theme.ErrInvalidTheme) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			a.logger.Error("set theme", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save theme"})
			return
		}
		c.JSON(http.StatusOK, themeResponse{Theme: t, Source: theme.SourceSaved, Color: t.Color()})
	})
}
