package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"distris/internal/model"
)

// loginPaths are tried in order without the API prefix. Some deployments
// mount auth at the root and others under /api.
var loginPaths = []string{
	"/auth/login",
	"/login",
	"/api/auth/login",
	"/api/login",
}

type LoginResult struct {
	Token    string     `json:"token"`
	User     model.User `json:"user"`
	Endpoint string     `json:"-"`
}

// Login authenticates against the first login route that exists. A 404 or a
// transport failure moves on to the next route; any other error stops.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": password}

	var lastErr error
	for _, path := range loginPaths {
		url := c.BaseURL + path

		data, err := c.send(ctx, http.MethodPost, url, body)
		if err == nil {
			res, err := parseLogin(data, email)
			if err != nil {
				return nil, err
			}
			res.Endpoint = url
			return res, nil
		}

		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status != http.StatusNotFound {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
	}

	return nil, fmt.Errorf("no se pudo iniciar sesión en ninguna ruta conocida: %w", lastErr)
}

func parseLogin(data []byte, email string) (*LoginResult, error) {
	var payload struct {
		Token string      `json:"token"`
		User  *model.User `json:"user"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || payload.Token == "" {
		return nil, ErrInvalidLoginResponse
	}

	res := &LoginResult{Token: payload.Token}
	if payload.User != nil {
		res.User = *payload.User
	} else {
		res.User = model.User{Email: email, Role: model.RoleUser}
	}
	return res, nil
}

// Me returns the user bound to the client token. The backend answers either
// {"user": {...}} or the bare user object.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	data, err := c.get(ctx, "/auth/me")
	if err != nil {
		return nil, err
	}

	var wrapped struct {
		User *model.User `json:"user"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if wrapped.User != nil {
		return wrapped.User, nil
	}

	var u model.User
	if err := json.Unmarshal(data, &u); err != nil || u.Email == "" {
		return nil, fmt.Errorf("%w: /auth/me without user", ErrInvalidResponse)
	}
	return &u, nil
}
