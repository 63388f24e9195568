package main

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Tushar-Jain07/portfolio/internal/scene"
	"github.com/Tushar-Jain07/portfolio/internal/session"
)

type mountRequest struct {
	Kind       string  `json:"kind" binding:"required"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	PixelRatio float64 `json:"pixel_ratio"`
	Text       string  `json:"text"`
}

type pointerRequest struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Drag bool    `json:"drag"`
}

// sceneError maps session errors to status codes.
func sceneError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, session.ErrUnknownKind), errors.Is(err, session.ErrBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, session.ErrTooManySessions), errors.Is(err, session.ErrClosed):
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (a *app) setupSceneRoutes(r *gin.Engine) {
	api := r.Group("/api/scenes")

	api.POST("", func(c *gin.Context) {
		var req mountRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		kind, err := session.ParseKind(req.Kind)
		if err != nil {
			sceneError(c, err)
			return
		}
		res, err := a.scenes.Mount(c.Request.Context(), session.MountRequest{
			Kind:     kind,
			Viewport: scene.Viewport{Width: req.Width, Height: req.Height, PixelRatio: req.PixelRatio},
			Text:     req.Text,
		})
		if err != nil {
			if !errors.Is(err, session.ErrTooManySessions) {
				a.logger.Warn("mount scene", zap.String("kind", req.Kind), zap.Error(err))
			}
			sceneError(c, err)
			return
		}
		c.JSON(http.StatusCreated, res)
	})

	api.GET("/:id", func(c *gin.Context) {
		st, err := a.scenes.Snapshot(c.Param("id"))
		if err != nil {
			sceneError(c, err)
			return
		}
		c.JSON(http.StatusOK, st)
	})

	api.GET("/:id/stream", a.handleSceneStream)

	api.POST("/:id/pointer", func(c *gin.Context) {
		var req pointerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := a.scenes.Pointer(c.Param("id"), scene.Vec2{req.X, req.Y}, req.Drag); err != nil {
			sceneError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	api.POST("/:id/click", func(c *gin.Context) {
		st, err := a.scenes.Click(c.Param("id"))
		if err != nil {
			sceneError(c, err)
			return
		}
		c.JSON(http.StatusOK, st)
	})

	api.POST("/:id/close", func(c *gin.Context) {
		st, err := a.scenes.Deselect(c.Param("id"))
		if err != nil {
			sceneError(c, err)
			return
		}
		c.JSON(http.StatusOK, st)
	})

	api.PUT("/:id/viewport", func(c *gin.Context) {
		var vp scene.Viewport
		if err := c.ShouldBindJSON(&vp); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := a.scenes.Resize(c.Param("id"), vp); err != nil {
			sceneError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	api.DELETE("/:id", func(c *gin.Context) {
		if err := a.scenes.Unmount(c.Request.Context(), c.Param("id")); err != nil {
			sceneError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
}

// handleSceneStream sends one SSE "frame" event per rendered frame. When the
// browser goes away the session is unmounted.
func (a *app) handleSceneStream(c *gin.Context) {
	id := c.Param("id")
	frames, cancel, err := a.scenes.Subscribe(id)
	if err != nil {
		sceneError(c, err)
		return
	}
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case st, ok := <-frames:
			if !ok {
				c.SSEvent("end", gin.H{"id": id})
				return false
			}
			c.SSEvent("frame", st)
			return true
		}
	})

	if ctx.Err() != nil {
		cancel()
		err := a.scenes.Unmount(context.WithoutCancel(ctx), id)
		if err == nil {
			a.logger.Debug("stream closed, scene unmounted", zap.String("id", id))
		}
	}
}
