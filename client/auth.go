package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"coursefetch/internal"
)

// loginRequest is the POST body for auth/login/{role}.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	DeviceID string `json:"deviceId"`
}

// loginData is the login envelope payload.
type loginData struct {
	AccessToken string `json:"accessToken"`
	UserID      string `json:"userId"`
	UserType    string `json:"userType"`
	DeviceID    string `json:"deviceId"`
}

// Login authenticates against auth/login/{role}. Success requires both
// success:true and a non-blank userId in the payload; the deviceId in
// the response overrides the request's when present.
func (c *Client) Login(ctx context.Context, username, password, deviceID string) (internal.Credentials, error) {
	const op = "login"
	const what = "login"

	path := "auth/login/" + url.PathEscape(c.cfg.LoginRole)
	body := loginRequest{Username: username, Password: password, DeviceID: deviceID}

	status, respBody, err := c.send(ctx, op, what, http.MethodPost, path, nil, "", body)
	if err != nil {
		return internal.Credentials{}, err
	}

	data, err := decodeObject[loginData](op, what, status, respBody)
	if err != nil {
		return internal.Credentials{}, err
	}

	if strings.TrimSpace(data.UserID) == "" {
		return internal.Credentials{}, internal.NewBusinessError(op, "", what+" failed.")
	}

	creds := internal.Credentials{
		AccessToken: data.AccessToken,
		UserID:      data.UserID,
		UserType:    data.UserType,
		DeviceID:    deviceID,
	}
	if data.DeviceID != "" {
		creds.DeviceID = data.DeviceID
	}

	c.log.Info("login succeeded for user %s", creds.UserID)
	return creds, nil
}

// Profile fetches the account profile for the logged-in user.
func (c *Client) Profile(ctx context.Context, creds internal.Credentials) (internal.UserProfile, error) {
	const op = "profile"
	const what = "load profile"

	if err := requireAuth(op, creds); err != nil {
		return internal.UserProfile{}, err
	}

	path := "users/" + url.PathEscape(creds.UserID)
	status, body, err := c.send(ctx, op, what, http.MethodGet, path, nil, creds.AccessToken, nil)
	if err != nil {
		return internal.UserProfile{}, err
	}

	return decodeObject[internal.UserProfile](op, what, status, body)
}
