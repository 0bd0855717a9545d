// Package auth signs users in to the dashboard. Exactly one Authenticator is
// chosen at startup: a local stand-in that persists the user record in the
// key/value store, or a remote GoTrue-compatible backend.
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lysyi3m/neo-comb/app/database"
	"github.com/lysyi3m/neo-comb/app/validate"
)

const (
	ModeLocal  = "local"
	ModeRemote = "remote"
)

type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	AccessToken string `json:"-"`
}

type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (*User, error)
	SignUp(ctx context.Context, email, password string) (*User, error)
	SignOut(ctx context.Context, user *User) error
	// Restore returns the user persisted for the device in ctx, or nil when
	// nobody is signed in there.
	Restore(ctx context.Context) (*User, error)
}

// Error is a backend failure, shown in the form's general error slot.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Credentials is the sign-in form.
type Credentials struct {
	Email    string `json:"email" binding:"required,loose_email"`
	Password string `json:"password" binding:"required,min=6"`
}

// SignUpCredentials is the sign-up form; the confirmation must repeat the
// password.
type SignUpCredentials struct {
	Email           string `json:"email" binding:"required,loose_email"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" binding:"eqfield=Password"`
}

var credentialMessages = validate.Messages{
	"email.required":           "Email is required",
	"email.loose_email":        "Email is invalid",
	"password.required":        "Password is required",
	"password.min":             "Password must be at least 6 characters",
	"confirm_password.eqfield": "Passwords do not match",
}

func (Credentials) ValidationMessages() validate.Messages {
	return credentialMessages
}

func (SignUpCredentials) ValidationMessages() validate.Messages {
	return credentialMessages
}

// Validate runs the form rules without a request, as binding would.
func (c Credentials) Validate() error {
	return validate.Struct(c)
}

func (c SignUpCredentials) Validate() error {
	return validate.Struct(c)
}

type deviceKey struct{}

// WithDevice scopes ctx to one client device. The local authenticator keeps
// at most one signed-in user per device.
func WithDevice(ctx context.Context, device string) context.Context {
	return context.WithValue(ctx, deviceKey{}, device)
}

// DeviceFrom returns the device ctx was scoped to, or "".
func DeviceFrom(ctx context.Context) string {
	device, _ := ctx.Value(deviceKey{}).(string)
	return device
}

// New builds the authenticator selected by mode.
func New(mode string, kv database.KVRepository, remoteURL, remoteKey string, timeout time.Duration) (Authenticator, error) {
	switch mode {
	case "", ModeLocal:
		return NewLocal(kv), nil
	case ModeRemote:
		if remoteURL == "" {
			return nil, fmt.Errorf("remote auth requires an auth URL")
		}
		return NewRemote(remoteURL, remoteKey, timeout), nil
	default:
		return nil, fmt.Errorf("unknown auth mode: %s", mode)
	}
}

func nameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}
