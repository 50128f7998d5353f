package upstream

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/noah-isme/guardforce-admin/internal/models"
	appErrors "github.com/noah-isme/guardforce-admin/pkg/errors"
)

// Auth signs the operator in and out against the external API.
type Auth struct {
	client Doer
}

// NewAuth returns the auth gateway.
func NewAuth(client Doer) *Auth {
	return &Auth{client: client}
}

type loginPayload struct {
	Token       string           `json:"token"`
	AccessToken string           `json:"access_token"`
	User        *models.UserInfo `json:"user"`
	Data        *loginPayload    `json:"data"`
}

// Login exchanges credentials for a session.
func (a *Auth) Login(ctx context.Context, req models.LoginRequest) (*models.Session, error) {
	body, err := a.client.Do(ctx, http.MethodPost, "/auth/login", nil, req)
	if err != nil {
		if appErr := appErrors.FromError(err); appErr.Status == http.StatusUnauthorized || appErr.Status == http.StatusUnprocessableEntity {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, appErrors.Message(err, appErrors.ErrInvalidCredentials.Message))
		}
		return nil, err
	}

	var payload loginPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, malformed(err)
	}
	if payload.Data != nil {
		payload = *payload.Data
	}
	token := payload.Token
	if token == "" {
		token = payload.AccessToken
	}
	if token == "" || payload.User == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "Login response did not include a token and user.")
	}
	return &models.Session{Token: token, User: *payload.User}, nil
}

// Logout revokes the token server-side.
func (a *Auth) Logout(ctx context.Context) error {
	_, err := a.client.Do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	return err
}
