package adminapi

import "context"

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type passwordChangeRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var res LoginResult
	if err := c.send(ctx, "POST", "/admin/auth/login", loginRequest{Email: email, Password: password}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Me(ctx context.Context) (*Admin, error) {
	var res Admin
	if err := c.get(ctx, "/admin/auth/me", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	return c.send(ctx, "PUT", "/admin/auth/password", passwordChangeRequest{CurrentPassword: current, NewPassword: next}, nil)
}
