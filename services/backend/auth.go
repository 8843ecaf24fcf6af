package backend

import (
	"context"
	"strings"

	"github.com/trezcool/masomo-portal/core/session"
)

type (
	user struct {
		ID        interface{} `json:"id"`
		Username  string      `json:"username"`
		Email     string      `json:"email"`
		FirstName string      `json:"first_name"`
		LastName  string      `json:"last_name"`
		FullName  string      `json:"full_name"`
		Role      string      `json:"role"`
	}

	// LoginResult is the identity and token the backend issues on login.
	LoginResult struct {
		Identity session.Identity
		Token    string
		Message  string
	}
)

func (u user) identity() session.Identity {
	name := strings.TrimSpace(u.FullName)
	if name == "" {
		name = strings.TrimSpace(u.FirstName + " " + u.LastName)
	}
	if name == "" {
		name = u.Username
	}
	return session.Identity{UserID: formatID(u.ID), FullName: name, Role: u.Role}
}

// Login exchanges credentials for a token. identifier is a username, email or student number.
func (c *Client) Login(ctx context.Context, identifier, password string) (LoginResult, error) {
	var res struct {
		User    user   `json:"user"`
		Token   string `json:"token"`
		Message string `json:"message"`
	}
	body := map[string]string{"identifier": identifier, "password": password}
	if err := c.post(ctx, "/auth/login/", body, &res); err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Identity: res.User.identity(), Token: res.Token, Message: res.Message}, nil
}

// Logout revokes the token of c.
func (c *Client) Logout(ctx context.Context) error {
	return c.post(ctx, "/auth/logout/", nil, nil)
}
