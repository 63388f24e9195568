package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Tushar-Jain07/portfolio/internal/config"
	"github.com/Tushar-Jain07/portfolio/internal/content"
	"github.com/Tushar-Jain07/portfolio/internal/scene"
	"github.com/Tushar-Jain07/portfolio/internal/session"
	"github.com/Tushar-Jain07/portfolio/internal/storage/sqlite"
	"github.com/Tushar-Jain07/portfolio/internal/theme"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []contactMessage
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg contactMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type testApp struct {
	*app
	handler http.Handler
	mail    *fakeMailer
	site    *content.Site
}

func newTestApp(t *testing.T, maxSessions int) *testApp {
	t.Helper()
	cfg := config.Config{
		Port:         "0",
		Env:          config.EnvDevelopment,
		ImagesDir:    t.TempDir(),
		DefaultTheme: "dark",
		FPS:          60,
		SessionIdle:  time.Minute,
		MaxSessions:  maxSessions,
		ReapInterval: time.Minute,
	}
	ctx := context.Background()
	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "portfolio.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	site, err := content.Load("")
	require.NoError(t, err)
	holder := content.NewHolder(site)

	logger := zap.NewNop()
	scenes := session.NewManager(session.Config{
		FrameInterval: cfg.FrameInterval(),
		IdleTimeout:   cfg.SessionIdle,
		ReapInterval:  cfg.ReapInterval,
		MaxSessions:   cfg.MaxSessions,
	}, holder, logger)
	t.Cleanup(scenes.Close)

	mail := &fakeMailer{}
	a, err := newApp(appDeps{
		cfg:    cfg,
		logger: logger,
		db:     db,
		prefs:  db,
		themes: theme.NewService(db, theme.NewPreference(cfg.DefaultTheme), logger),
		scenes: scenes,
		site:   holder,
		mailer: mail,
	})
	require.NoError(t, err)
	return &testApp{app: a, handler: a.router(), mail: mail, site: site}
}

func (ta *testApp) do(method, target string, body string, cookies []*http.Cookie, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		if strings.HasPrefix(body, "{") {
			req.Header.Set("Content-Type", "application/json")
		} else {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	ta.handler.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	ta := newTestApp(t, 8)
	w := ta.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestIndexRendersContent(t *testing.T) {
	ta := newTestApp(t, 8)
	w := ta.do(http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Equal(t, len(ta.site.Skills), strings.Count(body, `class="skill-tile"`))
	assert.Equal(t, len(ta.site.Projects), strings.Count(body, `class="project-card"`))
	assert.Contains(t, body, `<html lang="en" class="dark">`)
	assert.Contains(t, body, `<meta name="theme-color" content="#111827">`)
	assert.Contains(t, body, "View My Work")
	assert.Contains(t, body, `data-scene="particle-text"`)
	assert.Contains(t, body, `data-scene="globe"`)
	assert.Contains(t, body, `data-scene="showcase"`)
	assert.Contains(t, body, `data-scene="backdrop"`)
	assert.Contains(t, body, `aria-pressed="true"`)
	assert.Contains(t, body, `class="showcase-description"`)
	assert.Contains(t, body, `class="cursor-outer"`)
	assert.Contains(t, body, `class="cursor-inner"`)

	assert.Equal(t, colorSchemeHint, w.Header().Get("Accept-CH"))
	var visitor *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == visitorCookie {
			visitor = c
		}
	}
	require.NotNil(t, visitor)
	assert.True(t, visitor.HttpOnly)
}

func TestStaticAssets(t *testing.T) {
	ta := newTestApp(t, 8)

	w := ta.do(http.MethodGet, "/static/css/site.css", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	css := w.Body.String()
	assert.Contains(t, css, "cursor: none")
	assert.Contains(t, css, ".cursor-outer.hover")
	assert.Contains(t, css, ".cursor-inner.down")

	w = ta.do(http.MethodGet, "/static/js/scenes.js", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	js := w.Body.String()
	// The client wave uses the same flat buffer index as the server's WaveZ.
	assert.Contains(t, js, "Math.sin((i * 3 + f.points.phase * 10) * 0.1) * 0.5")
	assert.Contains(t, js, "sel.description")
	assert.Contains(t, js, `"a, button, .card, .project-card, .theme-toggle, .scroll-top"`)
}

func visitorCookieFrom(t *testing.T, w *httptest.ResponseRecorder) []*http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == visitorCookie {
			return []*http.Cookie{c}
		}
	}
	t.Fatal("no visitor cookie")
	return nil
}

func TestThemeToggleSurvivesReload(t *testing.T) {
	ta := newTestApp(t, 8)
	cookies := visitorCookieFrom(t, ta.do(http.MethodGet, "/", "", nil))

	w := ta.do(http.MethodPost, "/api/theme/toggle", "", cookies)
	require.Equal(t, http.StatusOK, w.Code)
	var got themeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, theme.Light, got.Theme)
	assert.Equal(t, "#ffffff", got.Color)

	page := ta.do(http.MethodGet, "/", "", cookies).Body.String()
	assert.Contains(t, page, `<html lang="en" class="light">`)
	assert.Contains(t, page, `<meta name="theme-color" content="#ffffff">`)
	assert.Contains(t, page, `aria-pressed="false"`)

	w = ta.do(http.MethodPost, "/api/theme/toggle", "", cookies)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, theme.Dark, got.Theme)
}

func TestThemeUsesClientHint(t *testing.T) {
	ta := newTestApp(t, 8)

	w := ta.do(http.MethodGet, "/api/theme", "", nil, colorSchemeHint, "light")
	require.Equal(t, http.StatusOK, w.Code)
	var got themeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, theme.Light, got.Theme)
	assert.Equal(t, theme.SourceSystem, got.Source)

	w = ta.do(http.MethodGet, "/api/theme", "", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, theme.Dark, got.Theme)
	assert.Equal(t, theme.SourceDefault, got.Source)
}

func TestThemePut(t *testing.T) {
	ta := newTestApp(t, 8)
	cookies := visitorCookieFrom(t, ta.do(http.MethodGet, "/", "", nil))

	w := ta.do(http.MethodPut, "/api/theme", `{"theme":"purple"}`, cookies)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ta.do(http.MethodPut, "/api/theme", `{"theme":"Light"}`, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	w = ta.do(http.MethodGet, "/api/theme", "", cookies)
	var got themeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, theme.Light, got.Theme)
	assert.Equal(t, theme.SourceSaved, got.Source)
}

func TestSceneLifecycle(t *testing.T) {
	ta := newTestApp(t, 8)

	w := ta.do(http.MethodPost, "/api/scenes", `{"kind":"globe","width":800,"height":600}`, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var res session.MountResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, scene.KindGlobe, res.Kind)
	assert.Equal(t, len(ta.site.Skills), res.Primitives)

	base := "/api/scenes/" + res.ID
	assert.Equal(t, http.StatusOK, ta.do(http.MethodGet, base, "", nil).Code)
	assert.Equal(t, http.StatusNoContent, ta.do(http.MethodPost, base+"/pointer", `{"x":0.1,"y":0.2,"drag":true}`, nil).Code)
	assert.Equal(t, http.StatusBadRequest, ta.do(http.MethodPost, base+"/pointer", `{"x":3,"y":0}`, nil).Code)
	assert.Equal(t, http.StatusOK, ta.do(http.MethodPost, base+"/click", "", nil).Code)
	assert.Equal(t, http.StatusNoContent, ta.do(http.MethodPut, base+"/viewport", `{"width":400,"height":300}`, nil).Code)

	assert.Equal(t, http.StatusNoContent, ta.do(http.MethodDelete, base, "", nil).Code)
	assert.Equal(t, http.StatusNotFound, ta.do(http.MethodDelete, base, "", nil).Code)
	assert.Equal(t, http.StatusNotFound, ta.do(http.MethodGet, base, "", nil).Code)
}

func TestShowcaseScenePrimitives(t *testing.T) {
	ta := newTestApp(t, 8)
	w := ta.do(http.MethodPost, "/api/scenes", `{"kind":"showcase","width":800,"height":600}`, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var res session.MountResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, len(ta.site.Projects), res.Primitives)

	w = ta.do(http.MethodPost, "/api/scenes/"+res.ID+"/close", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSceneErrors(t *testing.T) {
	ta := newTestApp(t, 1)

	w := ta.do(http.MethodPost, "/api/scenes", `{"kind":"teapot","width":10,"height":10}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ta.do(http.MethodPost, "/api/scenes", `{"kind":"backdrop"}`, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	w = ta.do(http.MethodPost, "/api/scenes", `{"kind":"backdrop"}`, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestStreamDisconnectUnmounts(t *testing.T) {
	ta := newTestApp(t, 8)
	srv := httptest.NewServer(ta.handler)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/scenes", "application/json",
		strings.NewReader(`{"kind":"particle-text","width":640,"height":360}`))
	require.NoError(t, err)
	var res session.MountResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	resp.Body.Close()

	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/scenes/"+res.ID+"/stream", nil)
	require.NoError(t, err)
	stream, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, "text/event-stream", stream.Header.Get("Content-Type"))

	line, err := bufio.NewReader(stream.Body).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event:frame\n", line)

	cancel()
	stream.Body.Close()

	require.Eventually(t, func() bool { return ta.scenes.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestContactForm(t *testing.T) {
	ta := newTestApp(t, 8)

	w := ta.do(http.MethodGet, "/contact-form", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="fullName"`)

	form := url.Values{"fullName": {"Ada"}, "email": {"not-an-email"}, "message": {"hello"}}
	w = ta.do(http.MethodPost, "/contact", form.Encode(), nil)
	assert.Contains(t, w.Body.String(), "valid email")
	assert.Empty(t, ta.mail.sent)

	form.Set("email", "Ada <ada@example.com>")
	w = ta.do(http.MethodPost, "/contact", form.Encode(), nil)
	assert.Contains(t, w.Body.String(), "Thank you")
	require.Len(t, ta.mail.sent, 1)
	assert.Equal(t, "ada@example.com", ta.mail.sent[0].Email)

	ta.mail.err = errors.New("relay down")
	w = ta.do(http.MethodPost, "/contact", form.Encode(), nil)
	assert.Contains(t, w.Body.String(), "error sending your message")
}

func TestContactValidation(t *testing.T) {
	tests := []struct {
		name string
		msg  contactMessage
		ok   bool
	}{
		{"valid", contactMessage{Name: " Ada ", Email: "ada@example.com", Message: "hi"}, true},
		{"missing name", contactMessage{Email: "ada@example.com", Message: "hi"}, false},
		{"header injection", contactMessage{Name: "Ada\r\nBcc: x@y.z", Email: "ada@example.com", Message: "hi"}, false},
		{"bad email", contactMessage{Name: "Ada", Email: "ada", Message: "hi"}, false},
		{"too long", contactMessage{Name: "Ada", Email: "ada@example.com", Message: strings.Repeat("x", maxMessageLen+1)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.validate()
			if tt.ok {
				assert.NoError(t, err)
				assert.Equal(t, "Ada", tt.msg.Name)
			} else {
				assert.ErrorIs(t, err, errContactInvalid)
			}
		})
	}
}

func TestComposeMail(t *testing.T) {
	cfg := config.SMTPConfig{User: "bot@example.com", ToEmail: "me@example.com"}
	raw := string(composeMail(cfg, contactMessage{Name: "Ada", Email: "ada@example.com", Message: "hello"}))
	assert.Contains(t, raw, "To: me@example.com\r\n")
	assert.Contains(t, raw, "Subject: Portfolio Contact: Ada\r\n")
	assert.Contains(t, raw, "Reply-To: ada@example.com\r\n")

	err := smtpMailer{cfg: config.SMTPConfig{}}.Send(context.Background(), contactMessage{})
	assert.ErrorIs(t, err, errMailNotConfigured)
}

func TestAdminFlow(t *testing.T) {
	ta := newTestApp(t, 8)

	w := ta.do(http.MethodGet, "/admin/dashboard", "", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/login", w.Header().Get("Location"))

	bad := url.Values{"username": {"admin"}, "password": {"nope"}}
	w = ta.do(http.MethodPost, "/admin/login", bad.Encode(), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	good := url.Values{"username": {"admin"}, "password": {"admin123"}}
	w = ta.do(http.MethodPost, "/admin/login", good.Encode(), nil)
	require.Equal(t, http.StatusFound, w.Code)
	var admin []*http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == adminCookie {
			admin = append(admin, c)
		}
	}
	require.Len(t, admin, 1)

	ta.do(http.MethodPost, "/api/scenes", `{"kind":"globe","width":800,"height":600}`, nil)

	w = ta.do(http.MethodGet, "/admin/dashboard", "", admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Unique visitors")

	w = ta.do(http.MethodGet, "/admin/export/stats", "", admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "admin-stats.json")
	var stats struct {
		ThemeSplit map[string]int64 `json:"theme_split"`
		Scenes     session.Stats    `json:"scenes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.Scenes.Live[scene.KindGlobe])
	assert.Contains(t, stats.ThemeSplit, "dark")
}

func TestVisitorTrackingSkipsAssetsAndDNT(t *testing.T) {
	assert.True(t, skipTracking("/static/css/site.css"))
	assert.True(t, skipTracking("/api/scenes"))
	assert.True(t, skipTracking("/admin/dashboard"))
	assert.True(t, skipTracking("/healthz"))
	assert.False(t, skipTracking("/"))

	ta := newTestApp(t, 8)
	ta.do(http.MethodGet, "/", "", nil, "DNT", "1")
	ta.do(http.MethodGet, "/", "", nil)

	require.Eventually(t, func() bool {
		st, err := ta.db.Stats(context.Background(), time.Now(), 10)
		return err == nil && st.TotalVisitors == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRenderHeadless(t *testing.T) {
	site, err := content.Load("")
	require.NoError(t, err)
	cfg := config.Config{FPS: 30}

	st, err := renderHeadless(site, cfg, session.MountRequest{
		Kind:     scene.KindParticleText,
		Viewport: scene.Viewport{Width: 1280, Height: 720},
	}, 5)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), st.Frame)
	require.NotNil(t, st.Points)
	assert.Positive(t, st.Points.Count)

	_, err = renderHeadless(site, cfg, session.MountRequest{Kind: "teapot"}, 1)
	assert.ErrorIs(t, err, session.ErrUnknownKind)
}

func TestVersionCommand(t *testing.T) {
	cmd := newRootCmd()
	var out strings.Builder
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "portfolio dev\n", out.String())
}
