package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/guardforce-admin/internal/models"
	appErrors "github.com/noah-isme/guardforce-admin/pkg/errors"
	"github.com/noah-isme/guardforce-admin/pkg/response"
)

type sessionService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.Session, error)
	Logout(ctx context.Context) error
	Current() *models.Session
}

// SessionHandler signs the operator in and out.
type SessionHandler struct {
	sessions sessionService
}

// NewSessionHandler constructs a session handler.
func NewSessionHandler(sessions sessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Login godoc
// @Summary Sign in
// @Tags Session
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param payload body models.LoginRequest true "Credentials"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /session/login [post]
func (h *SessionHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrBadRequest.Code, appErrors.ErrBadRequest.Status, "invalid payload"))
		return
	}
	sess, err := h.sessions.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sess, nil)
}

// Logout godoc
// @Summary Sign out
// @Tags Session
// @Success 204
// @Router /session/logout [post]
func (h *SessionHandler) Logout(c *gin.Context) {
	if err := h.sessions.Logout(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Current godoc
// @Summary Current operator
// @Tags Session
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /session [get]
func (h *SessionHandler) Current(c *gin.Context) {
	sess := h.sessions.Current()
	if sess == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "no active session"))
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"user": sess.User, "expires_at": sess.ExpiresAt}, nil)
}
