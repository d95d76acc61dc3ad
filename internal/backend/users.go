package backend

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"distris/internal/model"
)

func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	data, err := c.get(ctx, "/users")
	if err != nil {
		return nil, err
	}
	users := []model.User{}
	if err := decodeJSON(data, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) CreateUser(ctx context.Context, p model.UserPayload) (*model.User, error) {
	return c.writeUser(ctx, http.MethodPost, "/users", p)
}

func (c *Client) UpdateUser(ctx context.Context, id int, p model.UserPayload) (*model.User, error) {
	return c.writeUser(ctx, http.MethodPatch, "/users/"+strconv.Itoa(id), p)
}

func (c *Client) DeleteUser(ctx context.Context, id int) error {
	_, err := c.send(ctx, http.MethodDelete, c.url("/users/"+strconv.Itoa(id)), nil)
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}

// writeUser returns nil without error when the backend answers with an
// empty body.
func (c *Client) writeUser(ctx context.Context, method, path string, p model.UserPayload) (*model.User, error) {
	data, err := c.send(ctx, method, c.url(path), p)
	if err != nil {
		return nil, err
	}
	var u *model.User
	if err := decodeJSON(data, &u); err != nil {
		return nil, err
	}
	return u, nil
}
