package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/lysyi3m/neo-comb/app/database"
)

// StorageKey prefixes the per-device key the signed-in user record is kept
// under.
const StorageKey = "cosmic-user"

// Local accepts any well-formed credentials and persists the resulting user
// for the signing-in device. Without a device in the context nothing is
// persisted and nothing can be restored.
type Local struct {
	kv database.KVRepository
}

func NewLocal(kv database.KVRepository) *Local {
	return &Local{kv: kv}
}

func storageKey(device string) string {
	return StorageKey + ":" + device
}

func (l *Local) SignIn(ctx context.Context, email, password string) (*User, error) {
	return l.store(ctx, email)
}

func (l *Local) SignUp(ctx context.Context, email, password string) (*User, error) {
	return l.store(ctx, email)
}

func (l *Local) SignOut(ctx context.Context, user *User) error {
	device := DeviceFrom(ctx)
	if device == "" {
		return nil
	}
	if err := l.kv.Delete(storageKey(device)); err != nil {
		return &Error{Message: "Failed to sign out", Err: err}
	}
	return nil
}

func (l *Local) Restore(ctx context.Context) (*User, error) {
	device := DeviceFrom(ctx)
	if device == "" {
		return nil, nil
	}

	value, found, err := l.kv.Get(storageKey(device))
	if err != nil {
		return nil, &Error{Message: "Failed to restore session", Err: err}
	}
	if !found {
		return nil, nil
	}

	var user User
	if err := json.Unmarshal([]byte(value), &user); err != nil {
		slog.Warn("Discarding unreadable stored user", "device", device, "error", err)
		return nil, nil
	}
	return &user, nil
}

func (l *Local) store(ctx context.Context, email string) (*User, error) {
	email = strings.TrimSpace(email)
	user := &User{
		ID:    uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+strings.ToLower(email))).String(),
		Email: email,
		Name:  nameFromEmail(email),
	}

	device := DeviceFrom(ctx)
	if device == "" {
		return user, nil
	}

	data, err := json.Marshal(user)
	if err != nil {
		return nil, &Error{Message: "Failed to sign in", Err: fmt.Errorf("failed to encode user: %w", err)}
	}
	if err := l.kv.Set(storageKey(device), string(data)); err != nil {
		return nil, &Error{Message: "Failed to sign in", Err: err}
	}

	return user, nil
}
