package session

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"

	"github.com/socialconnect/feedsync/pkg/internal/models"
)

// Profile is the identity snapshot cached between launches. It mirrors what
// the mobile client keeps in its local key-value storage after a login.
type Profile struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Bio    string `json:"bio,omitempty"`
	Avatar string `json:"avatar,omitempty"`
	Token  string `json:"token,omitempty"`
}

// Bootstrap loads the cached profile and supplies the actor user id for all
// reaction and comment calls. The id is opaque to the rest of the core.
// Accessors are safe to call while a login or logout rewrites the profile.
type Bootstrap struct {
	path string

	mu      sync.RWMutex
	profile Profile
}

func Load(path string) (*Bootstrap, error) {
	v := &Bootstrap{path: path}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return v, nil
	} else if err != nil {
		return nil, fmt.Errorf("unable to read session profile: %v", err)
	}

	if err := jsoniter.Unmarshal(raw, &v.profile); err != nil {
		return nil, fmt.Errorf("unable to parse session profile: %v", err)
	}

	if len(v.profile.Token) > 0 && isTokenExpired(v.profile.Token) {
		log.Info().Str("user", v.profile.UserID).Msg("Cached session token expired, cleared it.")
		v.profile.Token = ""
		_ = v.flush(v.profile)
	}

	return v, nil
}

func isTokenExpired(raw string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

func (v *Bootstrap) UserID() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.profile.UserID
}

func (v *Bootstrap) Token() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.profile.Token
}

func (v *Bootstrap) Profile() Profile {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.profile
}

func (v *Bootstrap) IsSignedIn() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.profile.UserID) > 0
}

// Renew replaces the cached identity after a successful login or signup.
func (v *Bootstrap) Renew(user models.User, token string) error {
	profile := Profile{
		UserID: user.ID,
		Name:   user.Name,
		Bio:    user.Bio,
		Avatar: user.Avatar,
		Token:  token,
	}

	v.mu.Lock()
	v.profile = profile
	v.mu.Unlock()

	return v.flush(profile)
}

// Clear wipes the cached identity, used on logout.
func (v *Bootstrap) Clear() error {
	v.mu.Lock()
	v.profile = Profile{}
	v.mu.Unlock()

	if err := os.Remove(v.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("unable to remove session profile: %v", err)
	}
	return nil
}

func (v *Bootstrap) flush(profile Profile) error {
	raw, err := jsoniter.Marshal(profile)
	if err != nil {
		return fmt.Errorf("unable to encode session profile: %v", err)
	}
	if err := os.WriteFile(v.path, raw, 0600); err != nil {
		return fmt.Errorf("unable to write session profile: %v", err)
	}
	return nil
}
