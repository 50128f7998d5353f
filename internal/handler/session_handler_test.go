package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/guardforce-admin/internal/middleware"
	"github.com/noah-isme/guardforce-admin/internal/models"
	appErrors "github.com/noah-isme/guardforce-admin/pkg/errors"
)

type stubSessions struct {
	current *models.Session
}

func (s *stubSessions) Login(_ context.Context, req models.LoginRequest) (*models.Session, error) {
	if req.Password != "secret" {
		return nil, appErrors.ErrInvalidCredentials
	}
	s.current = &models.Session{Token: "tok", User: models.UserInfo{ID: 1, Email: req.Email, Role: models.RoleAdmin}}
	return s.current, nil
}

func (s *stubSessions) Logout(context.Context) error {
	s.current = nil
	return nil
}

func (s *stubSessions) Current() *models.Session { return s.current }

func sessionRouter(sessions *stubSessions) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewSessionHandler(sessions)
	r.POST("/session/login", h.Login)
	r.POST("/session/logout", h.Logout)
	r.GET("/session", h.Current)
	r.GET("/protected", middleware.RequireSession(sessions), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestSessionLifecycle(t *testing.T) {
	sessions := &stubSessions{}
	r := sessionRouter(sessions)

	w, _ := perform(r, http.MethodGet, "/protected", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = perform(r, http.MethodPost, "/session/login", "application/json", `{"email":"ops@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = perform(r, http.MethodPost, "/session/login", "application/json", `{"email":"ops@example.com","password":"secret"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = perform(r, http.MethodGet, "/session", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ops@example.com")
	assert.NotContains(t, w.Body.String(), "tok")

	w, _ = perform(r, http.MethodGet, "/protected", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = perform(r, http.MethodPost, "/session/logout", "", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w, _ = perform(r, http.MethodGet, "/session", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestReadyReportsFailingChecks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

	h := NewMetricsHandler(nil, map[string]ReadinessCheck{
		"database": func(context.Context) error { return errors.New("dial tcp: refused") },
		"redis":    func(context.Context) error { return nil },
	})
	h.Ready(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "database"))
	assert.False(t, strings.Contains(w.Body.String(), "redis"))
}
