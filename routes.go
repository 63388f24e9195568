package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *app) setupPageRoutes(r *gin.Engine) {
	// Home page route
	r.GET("/", func(c *gin.Context) {
		t, _, err := a.themes.Current(c.Request.Context(), visitorID(c), c.GetHeader(colorSchemeHint))
		if err != nil {
			a.logger.Error("resolve theme", zap.Error(err))
			t = a.themes.Fallback()
		}
		c.HTML(http.StatusOK, "index.html", pageData(a.site.Current(), t))
	})

	// HTMX Contact form endpoint - returns just the form HTML
	r.GET("/contact-form", func(c *gin.Context) {
		c.HTML(http.StatusOK, "contact.html", gin.H{
			"title": "Contact Me",
		})
	})

	// Handle contact form submission with HTMX
	r.POST("/contact", func(c *gin.Context) {
		msg := contactMessage{
			Name:    c.PostForm("fullName"),
			Email:   c.PostForm("email"),
			Message: c.PostForm("message"),
		}
		if err := msg.validate(); err != nil {
			c.HTML(http.StatusOK, "contact-error.html", gin.H{
				"error": err.Error(),
			})
			return
		}

		if err := a.mailer.Send(c.Request.Context(), msg); err != nil {
			if errors.Is(err, errMailNotConfigured) {
				a.logger.Warn("contact form used without SMTP credentials")
			} else {
				a.logger.Error("sending contact email", zap.Error(err))
			}
			c.HTML(http.StatusOK, "contact-error.html", gin.H{
				"error": "Sorry, there was an error sending your message. Please try again later.",
			})
			return
		}

		a.logger.Info("contact email sent", zap.String("name", msg.Name))
		c.HTML(http.StatusOK, "contact-success.html", gin.H{
			"success": "Thank you for your message! I'll get back to you soon.",
		})
	})

	// Privacy policy route
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title": "Privacy Policy",
			"site":  a.site.Current(),
		})
	})
}
