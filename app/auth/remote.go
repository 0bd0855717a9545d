package auth

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxAuthBodyBytes = 1 << 20

// Remote talks to a GoTrue-compatible REST backend.
type Remote struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewRemote(baseURL, apiKey string, timeout time.Duration) *Remote {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Remote{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type remoteUser struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	UserMetadata struct {
		Name string `json:"name"`
	} `json:"user_metadata"`
}

type remoteSession struct {
	AccessToken string      `json:"access_token"`
	User        *remoteUser `json:"user"`

	// Sign-up without auto-confirm returns the bare user.
	remoteUser
}

func (r *Remote) SignIn(ctx context.Context, email, password string) (*User, error) {
	return r.authenticate(ctx, "/auth/v1/token?grant_type=password", email, password)
}

func (r *Remote) SignUp(ctx context.Context, email, password string) (*User, error) {
	return r.authenticate(ctx, "/auth/v1/signup", email, password)
}

func (r *Remote) SignOut(ctx context.Context, user *User) error {
	if user == nil || user.AccessToken == "" {
		return nil
	}
	_, err := r.post(ctx, "/auth/v1/logout", nil, user.AccessToken)
	return err
}

// Restore is a no-op: remote sessions live in the backend, not locally.
func (r *Remote) Restore(ctx context.Context) (*User, error) {
	return nil, nil
}

func (r *Remote) authenticate(ctx context.Context, path, email, password string) (*User, error) {
	body, err := r.post(ctx, path, map[string]string{"email": email, "password": password}, "")
	if err != nil {
		return nil, err
	}

	var session remoteSession
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, &Error{Message: "Unexpected response from auth service", Err: err}
	}

	ru := session.User
	if ru == nil {
		ru = &session.remoteUser
	}
	if ru.ID == "" {
		return nil, &Error{Message: "Unexpected response from auth service"}
	}

	email = cmp.Or(ru.Email, email)
	return &User{
		ID:          ru.ID,
		Email:       email,
		Name:        cmp.Or(ru.UserMetadata.Name, nameFromEmail(email)),
		AccessToken: session.AccessToken,
	}, nil
}

func (r *Remote) post(ctx context.Context, path string, payload any, bearer string) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, &Error{Message: "Failed to encode request", Err: err}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, reqBody)
	if err != nil {
		return nil, &Error{Message: "Failed to create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", r.apiKey)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Message: "Auth service is unavailable", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAuthBodyBytes))
	if err != nil {
		return nil, &Error{Message: "Failed to read auth response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Message: cmp.Or(remoteMessage(body), fmt.Sprintf("Auth service returned status %d", resp.StatusCode)),
		}
	}

	return body, nil
}

func remoteMessage(body []byte) string {
	var payload struct {
		ErrorDescription string `json:"error_description"`
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		Error            string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return cmp.Or(payload.ErrorDescription, payload.Msg, payload.Message, payload.Error)
}
