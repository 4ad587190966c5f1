package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Login exchanges admin credentials for a backend bearer token. The token
// stays server-side; callers wrap it in a session, never a client response.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body, err := c.do(ctx, requestOpts{
		method: http.MethodPost,
		path:   "/admin/login",
		body: map[string]string{
			"email":    email,
			"password": password,
		},
	})
	if err != nil {
		return "", err
	}

	var envelope struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", fmt.Errorf("unmarshal login response: %w", err)
	}
	if envelope.Data.Token == "" {
		return "", errors.New("login response missing token")
	}
	return envelope.Data.Token, nil
}

// Logout revokes a backend session token.
func (c *Client) Logout(ctx context.Context, token string) error {
	_, err := c.do(ctx, requestOpts{
		method: http.MethodPost,
		path:   "/admin/logout",
		token:  token,
	})
	return err
}
